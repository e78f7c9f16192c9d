package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/inbound"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

const defaultMovesLimit = 50

// Handler serves the control API of the organizer
type Handler struct {
	organizer inbound.OrganizerService
	journal   outbound.MoveJournal
	logger    outbound.Logger
	settings  *Settings
	stats     inbound.StatsService
	startedAt time.Time
}

// NewHandler builds the handler; journal and settings may be nil
func NewHandler(
	organizer inbound.OrganizerService,
	journal outbound.MoveJournal,
	settings *Settings,
	logger outbound.Logger,
) *Handler {
	return &Handler{
		organizer: organizer,
		journal:   journal,
		logger:    logger,
		settings:  settings,
		startedAt: time.Now(),
	}
}

// SetupRoutes registers the API routes on router
func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.healthCheck).Methods("GET")

	router.HandleFunc("/api/categories", h.listCategories).Methods("GET")
	router.HandleFunc("/api/sweep", h.sweep).Methods("POST")

	router.HandleFunc("/api/sessions", h.listSessions).Methods("GET")
	router.HandleFunc("/api/sessions", h.startSession).Methods("POST")
	router.HandleFunc("/api/sessions/stop", h.stopSessions).Methods("POST")
	router.HandleFunc("/api/sessions/{index:[0-9]+}", h.stopSession).Methods("DELETE")

	router.HandleFunc("/api/moves", h.listMoves).Methods("GET")

	if h.stats != nil {
		router.HandleFunc("/api/stats", h.getStats).Methods("GET")
		router.HandleFunc("/api/resources/history", h.getResourceHistory).Methods("GET")
	}

	if h.settings != nil {
		router.HandleFunc("/api/settings", h.getSettings).Methods("GET")
		router.HandleFunc("/api/settings/log-level", h.updateLogLevel).Methods("PUT")
	}
}

// SweepRequest selects a directory and categories, e.g. {"path": "/home/me/Downloads", "categories": "4,6,3"}
type SweepRequest struct {
	Path       string `json:"path"`
	Categories string `json:"categories"`
}

// StartSessionRequest starts watching; Sweep organizes existing files first
type StartSessionRequest struct {
	Path       string `json:"path"`
	Categories string `json:"categories"`
	Sweep      bool   `json:"sweep"`
}

type StartSessionResponse struct {
	Session model.SessionInfo  `json:"session"`
	Report  *model.SweepReport `json:"report,omitempty"`
}

type StopSessionsRequest struct {
	Indices []int `json:"indices"`
}

type StopSessionsResponse struct {
	Stopped []model.SessionInfo `json:"stopped"`
	Errors  []string            `json:"errors,omitempty"`
}

type CategoryResponse struct {
	Selector    string   `json:"selector"`
	Folder      string   `json:"folder"`
	Description string   `json:"description"`
	Extensions  []string `json:"extensions"`
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": h.organizer.Sessions().Len(),
		"uptime":   time.Since(h.startedAt).Round(time.Second).String(),
	})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.organizer.Categories()

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = CategoryResponse{
			Selector:    c.Selector,
			Folder:      c.Folder,
			Description: c.Description,
			Extensions:  c.Extensions,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": response})
}

func (h *Handler) sweep(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}

	sel, err := model.ParseSelection(req.Categories)
	if err != nil {
		h.writeError(w, err)
		return
	}

	report, err := h.organizer.Sweep(r.Context(), req.Path, sel)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": h.organizer.Sessions().List(),
	})
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}

	sel, err := model.ParseSelection(req.Categories)
	if err != nil {
		h.writeError(w, err)
		return
	}

	ctx := r.Context()

	var resp StartSessionResponse
	if req.Sweep {
		report, info, err := h.organizer.Organize(ctx, req.Path, sel)
		resp.Report = report
		if err != nil {
			h.writeError(w, err)
			return
		}
		resp.Session = info
	} else {
		info, err := h.organizer.StartWatch(ctx, req.Path, sel)
		if err != nil {
			h.writeError(w, err)
			return
		}
		resp.Session = info
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) stopSession(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		h.badRequest(w, "Invalid session index")
		return
	}

	info, err := h.organizer.Sessions().StopAt(index)
	if err != nil && info.ID == "" {
		h.writeError(w, err)
		return
	}
	if err != nil {
		h.logger.Warn("Session stopped with error", "index", index, "error", err)
	}

	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) stopSessions(w http.ResponseWriter, r *http.Request) {
	var req StopSessionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}
	if len(req.Indices) == 0 {
		h.badRequest(w, "No session index given")
		return
	}

	stopped, err := h.organizer.Sessions().StopMany(req.Indices)

	resp := StopSessionsResponse{Stopped: stopped}
	if err != nil {
		resp.Errors = splitJoined(err)
	}

	status := http.StatusOK
	if len(stopped) == 0 && err != nil {
		status = statusFor(err)
	}
	writeJSON(w, status, resp)
}

func (h *Handler) listMoves(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("unavailable", "move journal is disabled"))
		return
	}

	limit := defaultMovesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.badRequest(w, "Invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.journal.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to read move journal", "error", err)
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"moves": entries})
}

func (h *Handler) badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody("bad_request", message))
}

// writeError maps domain errors onto status codes
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err)
	}
	writeJSON(w, status, errorBody(http.StatusText(status), err.Error()))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrUnknownSelector),
		errors.Is(err, model.ErrEmptySelection),
		errors.Is(err, model.ErrInvalidPath),
		errors.Is(err, model.ErrNotADirectory):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrSessionIndexOutOfRange):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func splitJoined(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, splitJoined(e)...)
		}
		return out
	}
	return []string{err.Error()}
}

func errorBody(code, message string) map[string]string {
	return map[string]string{"error": code, "message": message}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
