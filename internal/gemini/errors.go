package gemini

import "fmt"

// Error codes reported by Client.
const (
	CodeAuthFailed     = "auth_failed"
	CodeRateLimit      = "rate_limit"
	CodeNetworkFailure = "network_failure"
	CodeProviderError  = "provider_error"
)

// Error is a structured failure from the Gemini API.
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func errAuthFailed(detail string) error {
	return &Error{
		Code:    CodeAuthFailed,
		Message: fmt.Sprintf("Gemini rejected the API key: %s", detail),
	}
}

func errRateLimit() error {
	return &Error{
		Code:    CodeRateLimit,
		Status:  429,
		Message: "Gemini rate limit or quota exceeded. Wait a moment and try again.",
	}
}

func errNetworkFailure(detail string) error {
	return &Error{
		Code:    CodeNetworkFailure,
		Message: fmt.Sprintf("Could not connect to Gemini: %s", detail),
	}
}

func errProvider(status int, detail string) error {
	return &Error{
		Code:    CodeProviderError,
		Status:  status,
		Message: fmt.Sprintf("Gemini returned an error (HTTP %d): %s", status, detail),
	}
}
