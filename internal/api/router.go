package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/lexicon/internal/index"
	"github.com/starford/lexicon/internal/noteservice"
	"github.com/starford/lexicon/internal/settings"
	"github.com/starford/lexicon/internal/vocab"
)

// Deps are the services behind the API.
type Deps struct {
	Notes    *noteservice.Service
	Lookups  *vocab.Service
	History  index.History
	Settings *settings.Store
	// Events, if non-nil, is mounted at GET /events inside the auth group.
	Events http.Handler
	// Metrics, if non-nil, observes every request.
	Metrics RequestObserver
}

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(d Deps, authEnabled bool, token string) chi.Router {
	h := NewHandler(d)

	r := chi.NewRouter()
	if d.Metrics != nil {
		r.Use(MetricsMiddleware(d.Metrics))
	}
	r.Use(AuthMiddleware(authEnabled, token))

	r.Post("/lookup", h.Lookup)

	r.Get("/notes", h.ListNotes)
	r.Get("/notes/*", h.GetNote)
	r.Get("/backlinks/*", h.Backlinks)
	r.Get("/search", h.Search)

	r.Get("/history", h.History)

	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)

	if d.Events != nil {
		r.Get("/events", d.Events.ServeHTTP)
	}

	return r
}
