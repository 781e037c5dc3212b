package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/pipeline"
)

const maxBodyBytes = 5 << 20

// Processor is the orchestration the handlers drive.
type Processor interface {
	Process(ctx context.Context, req pipeline.Request) (*pipeline.Response, error)
	Recompose(ctx context.Context, sessions []core.SessionData, branding core.BrandingOptions) (*pipeline.Response, error)
	Discover(ctx context.Context, listingURL string) ([]string, error)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	processor Processor
	shares    *ShareStore
	baseURL   string
}

// NewHandler creates a Handler. baseURL prefixes the share links it hands out.
func NewHandler(p Processor, shares *ShareStore, baseURL string) *Handler {
	return &Handler{processor: p, shares: shares, baseURL: strings.TrimSuffix(baseURL, "/")}
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// PreviewRequest re-renders sessions that were already extracted.
type PreviewRequest struct {
	Sessions []core.SessionData `json:"sessions"`
	core.BrandingOptions
}

// DiscoverRequest names a listing page to scan for sessions.
type DiscoverRequest struct {
	URL string `json:"url"`
}

// DiscoverResponse lists the session pages found.
type DiscoverResponse struct {
	Success bool     `json:"success"`
	URLs    []string `json:"urls"`
}

// ShareRequest publishes a composed email.
type ShareRequest struct {
	Sessions  []core.SessionData `json:"sessions"`
	EmailHTML string             `json:"emailHtml"`
	Metadata  map[string]any     `json:"metadata,omitempty"`
}

// ShareResponse carries the public link to a share.
type ShareResponse struct {
	Success  bool   `json:"success"`
	ID       string `json:"id"`
	ShareURL string `json:"shareUrl"`
}

// Extract handles POST /api/extract.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.processor.Process(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Preview handles POST /api/preview.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.processor.Recompose(r.Context(), req.Sessions, req.BrandingOptions)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Discover handles POST /api/discover.
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	var req DiscoverRequest
	if !decode(w, r, &req) {
		return
	}
	urls, err := h.processor.Discover(r.Context(), req.URL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if urls == nil {
		urls = []string{}
	}
	writeJSON(w, http.StatusOK, DiscoverResponse{Success: true, URLs: urls})
}

// CreateShare handles POST /api/share.
func (h *Handler) CreateShare(w http.ResponseWriter, r *http.Request) {
	var req ShareRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.EmailHTML) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "emailHtml is required"})
		return
	}
	sh := h.shares.Create(req.Sessions, req.EmailHTML, req.Metadata)
	slog.InfoContext(r.Context(), "share created", "id", sh.ID, "sessions", len(sh.Sessions))
	writeJSON(w, http.StatusCreated, ShareResponse{
		Success:  true,
		ID:       sh.ID,
		ShareURL: h.baseURL + "/share/" + sh.ID,
	})
}

// GetShare handles GET /share/{id}: it serves the shared email itself.
func (h *Handler) GetShare(w http.ResponseWriter, r *http.Request) {
	sh, err := h.shares.Get(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Share not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(sh.EmailHTML))
}

// Healthcheck handles GET /healthcheck.
func (h *Handler) Healthcheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// fail maps a processing error onto a status code.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, context.Canceled):
		slog.InfoContext(r.Context(), "request cancelled by client")
	default:
		slog.ErrorContext(r.Context(), "request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to process request"})
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing response failed", "error", err)
	}
}
