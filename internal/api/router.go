package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/braindump/internal/index"
	"github.com/starford/braindump/internal/planservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *planservice.Service, history index.HistoryIndex, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, history)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Plan.
	r.Get("/state", h.GetState)
	r.Post("/style", h.SetStyle)
	r.Post("/capture", h.Capture)
	r.Post("/complete", h.Complete)
	r.Post("/complete_parking", h.CompleteParking)
	r.Post("/complete_all", h.CompleteAll)
	r.Post("/confirm_done", h.ConfirmDone)
	r.Post("/replan", h.Replan)

	// Micro actions.
	r.Post("/accept_micro", h.AcceptMicro)
	r.Post("/decline_micro", h.DeclineMicro)

	// History.
	r.Get("/summaries/{week}", h.GetSummary)
	r.Get("/history/search", h.SearchHistory)
	r.Get("/history/snapshots", h.ListSnapshots)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
