package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/braindump/internal/index"
	"github.com/starford/braindump/internal/planservice"
)

const currentWeek = "current"

// Handler holds API route handlers.
type Handler struct {
	svc     *planservice.Service
	history index.HistoryIndex
}

// NewHandler creates a new Handler.
func NewHandler(svc *planservice.Service, history index.HistoryIndex) *Handler {
	return &Handler{svc: svc, history: history}
}

// GetState handles GET /api/state.
//
//	@Summary		Current plan with task IDs and the stored style
//	@Tags			plan
//	@Produce		json
//	@Success		200	{object}	planservice.StateResult
//	@Security		BearerAuth
//	@Router			/state [get]
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.State(r.Context())
	if err != nil {
		writeError(w, "get state", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// SetStyle handles POST /api/style.
//
//	@Summary		Set the feedback style (unknown styles become neutral)
//	@Tags			plan
//	@Accept			json
//	@Produce		json
//	@Param			body	body		StyleRequest	true	"Style"
//	@Success		200		{object}	StyleResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/style [post]
func (h *Handler) SetStyle(w http.ResponseWriter, r *http.Request) {
	var req StyleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	style, err := h.svc.SetStyle(r.Context(), req.Style)
	if err != nil {
		writeError(w, "set style", err)
		return
	}
	writeJSON(w, http.StatusOK, StyleResponse{PraiseStyle: style})
}

// Capture handles POST /api/capture.
//
//	@Summary		Capture a note and replan
//	@Tags			plan
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CaptureRequest	true	"Note"
//	@Success		200		{object}	planservice.CaptureResult
//	@Failure		400		{object}	errResponse
//	@Failure		502		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/capture [post]
func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	var req CaptureRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.svc.Capture(r.Context(), req.Text)
	if err != nil {
		writeError(w, "capture", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Complete handles POST /api/complete.
//
//	@Summary		Complete a Today task by ID or name
//	@Tags			plan
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CompleteRequest	true	"Task reference"
//	@Success		200		{object}	planservice.Aftercare
//	@Failure		404		{object}	errResponse
//	@Failure		502		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/complete [post]
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	var req CompleteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.svc.CompleteTask(r.Context(), req.Task, req.Note)
	if err != nil {
		writeError(w, "complete task", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CompleteParking handles POST /api/complete_parking.
//
//	@Summary		Complete a parking item by ID or name
//	@Tags			plan
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CompleteRequest	true	"Parking reference"
//	@Success		200		{object}	planservice.ParkingResult
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/complete_parking [post]
func (h *Handler) CompleteParking(w http.ResponseWriter, r *http.Request) {
	var req CompleteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.svc.CompleteParking(r.Context(), req.Task, req.Note)
	if err != nil {
		writeError(w, "complete parking", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CompleteAll handles POST /api/complete_all.
//
//	@Summary		Archive tasks as done today without a replan
//	@Tags			plan
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CompleteAllRequest	true	"Tasks"
//	@Success		200		{object}	planservice.CompleteAllResult
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/complete_all [post]
func (h *Handler) CompleteAll(w http.ResponseWriter, r *http.Request) {
	var req CompleteAllRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.svc.CompleteAll(r.Context(), req.Tasks, req.ParkingTasks)
	if err != nil {
		writeError(w, "complete all", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ConfirmDone handles POST /api/confirm_done.
//
//	@Summary		Archive a confirmed completion and replan
//	@Tags			plan
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ConfirmDoneRequest	true	"Item"
//	@Success		200		{object}	planservice.Aftercare
//	@Security		BearerAuth
//	@Router			/confirm_done [post]
func (h *Handler) ConfirmDone(w http.ResponseWriter, r *http.Request) {
	var req ConfirmDoneRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.svc.ConfirmDone(r.Context(), req.Item)
	if err != nil {
		writeError(w, "confirm done", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// AcceptMicro handles POST /api/accept_micro.
//
//	@Summary		Record a chosen micro action
//	@Tags			micro
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AcceptMicroRequest	true	"Action"
//	@Success		200		{object}	planservice.MicroResult
//	@Security		BearerAuth
//	@Router			/accept_micro [post]
func (h *Handler) AcceptMicro(w http.ResponseWriter, r *http.Request) {
	var req AcceptMicroRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.svc.AcceptMicro(r.Context(), req.Title)
	if err != nil {
		writeError(w, "accept micro", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DeclineMicro handles POST /api/decline_micro.
//
//	@Summary		Decline the offered micro action
//	@Tags			micro
//	@Produce		json
//	@Success		200	{object}	planservice.MicroResult
//	@Security		BearerAuth
//	@Router			/decline_micro [post]
func (h *Handler) DeclineMicro(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.DeclineMicro(r.Context())
	if err != nil {
		writeError(w, "decline micro", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Replan handles POST /api/replan.
//
//	@Summary		Run one reconciliation cycle
//	@Tags			plan
//	@Produce		json
//	@Success		200	{object}	reconcile.Result
//	@Failure		502	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/replan [post]
func (h *Handler) Replan(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Replan(r.Context())
	if err != nil {
		writeError(w, "replan", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetSummary handles GET /api/summaries/{week}.
//
//	@Summary		Weekly summary of completed items
//	@Tags			history
//	@Produce		json
//	@Param			week	path		string	true	"ISO week YYYY-Www or current"
//	@Success		200		{object}	SummaryResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/summaries/{week} [get]
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	week := chi.URLParam(r, "week")
	if week == currentWeek {
		week = h.svc.CurrentWeek()
	}
	md, err := h.svc.Summary(r.Context(), week)
	if err != nil {
		writeError(w, "get summary", err)
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{Week: week, Markdown: md})
}

// SearchHistory handles GET /api/history/search.
//
//	@Summary		Search the done archive, newest first
//	@Tags			history
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/history/search [get]
func (h *Handler) SearchHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.history.SearchCompletions(q, limit)
	if err != nil {
		writeError(w, "search history", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// ListSnapshots handles GET /api/history/snapshots.
//
//	@Summary		Stored plan snapshots, newest first
//	@Tags			history
//	@Produce		json
//	@Param			limit	query		int	false	"Max results"
//	@Success		200		{object}	SnapshotListResponse
//	@Security		BearerAuth
//	@Router			/history/snapshots [get]
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	files, err := h.history.ListFiles(index.KindSnapshot, limit)
	if err != nil {
		writeError(w, "list snapshots", err)
		return
	}
	writeJSON(w, http.StatusOK, SnapshotListResponse{Snapshots: files})
}
