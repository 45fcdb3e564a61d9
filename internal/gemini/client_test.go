package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.5-flash:generateContent" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Error("missing or wrong x-goog-api-key header")
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "define serendipity" {
			t.Errorf("unexpected request: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"**Definition:** "},{"text":"happy accident."}]},"finishReason":"STOP"}]}`)
	}))
	defer server.Close()

	c := New(server.URL, time.Second)
	text, err := c.GenerateText(context.Background(), "test-key", "gemini-2.5-flash", "define serendipity")
	require.NoError(t, err)
	require.Equal(t, "**Definition:** happy accident.", text)
}

func TestGenerateText_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	defer server.Close()

	text, err := New(server.URL, time.Second).GenerateText(context.Background(), "k", "m", "p")
	require.NoError(t, err)
	require.Empty(t, text)
}

func TestGenerateText_InvalidKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT","details":[{"reason":"API_KEY_INVALID"}]}}`)
	}))
	defer server.Close()

	_, err := New(server.URL, time.Second).GenerateText(context.Background(), "bad", "m", "p")
	var gErr *Error
	require.ErrorAs(t, err, &gErr)
	require.Equal(t, CodeAuthFailed, gErr.Code)
	require.Contains(t, err.Error(), "API key")
}

func TestGenerateText_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		code   string
	}{
		{http.StatusForbidden, CodeAuthFailed},
		{http.StatusTooManyRequests, CodeRateLimit},
		{http.StatusInternalServerError, CodeProviderError},
	}
	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			fmt.Fprint(w, `{"error":{"message":"boom"}}`)
		}))

		_, err := New(server.URL, time.Second).GenerateText(context.Background(), "k", "m", "p")
		server.Close()

		var gErr *Error
		require.ErrorAs(t, err, &gErr, "status %d", tc.status)
		require.Equal(t, tc.code, gErr.Code, "status %d", tc.status)
	}
}

func TestGenerateText_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(url, time.Second).GenerateText(context.Background(), "k", "m", "p")
	var gErr *Error
	require.ErrorAs(t, err, &gErr)
	require.Equal(t, CodeNetworkFailure, gErr.Code)
}

func TestGenerateText_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := New(server.URL, 0).GenerateText(ctx, "k", "m", "p")
	require.Error(t, err)
	require.True(t, errors.Is(ctx.Err(), context.DeadlineExceeded))
	require.True(t, strings.Contains(err.Error(), "Could not connect"))
}
