package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"admin/access/internal/domain"
)

// AccessService is what the API needs from the session service.
type AccessService interface {
	Access(ctx context.Context, sessionID string, roles []string) (*domain.Access, error)
	Reset(ctx context.Context, sessionID string) error
	EnqueueReset(ctx context.Context, sessionID string) (string, error)
	EnqueueRefresh(ctx context.Context, sessionID string, roles []string, mode domain.AccessMode) (string, error)
	MenuByPath(ctx context.Context, sessionID, path string) (domain.MenuDisplayNode, bool, error)
	SetAccessCodes(ctx context.Context, sessionID string, codes []string) error
	HasAccessByCodes(ctx context.Context, sessionID string, codes []string) (bool, error)
}

type handlers struct {
	service AccessService
}

type codesRequest struct {
	Codes []string `json:"codes"`
}

type taskResponse struct {
	MessageID string `json:"messageId"`
}

type checkResponse struct {
	Allowed bool `json:"allowed"`
}

func (h *handlers) getAccess(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Access(r.Context(), chi.URLParam(r, "session"), splitList(r.URL.Query().Get("roles")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

// resetAccess drops the session state, or queues the reset with async=true.
func (h *handlers) resetAccess(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session")

	if r.URL.Query().Get("async") == "true" {
		id, err := h.service.EnqueueReset(r.Context(), sessionID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusAccepted, taskResponse{MessageID: id})
		return
	}

	if err := h.service.Reset(r.Context(), sessionID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) refreshAccess(w http.ResponseWriter, r *http.Request) {
	var mode domain.AccessMode
	if raw := r.URL.Query().Get("mode"); raw != "" {
		parsed, err := domain.ParseAccessMode(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		mode = parsed
	}

	id, err := h.service.EnqueueRefresh(r.Context(), chi.URLParam(r, "session"), splitList(r.URL.Query().Get("roles")), mode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusAccepted, taskResponse{MessageID: id})
}

func (h *handlers) lookupMenu(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeMessage(w, http.StatusBadRequest, "path is required")
		return
	}

	menu, ok, err := h.service.MenuByPath(r.Context(), chi.URLParam(r, "session"), path)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeMessage(w, http.StatusNotFound, "menu not found")
		return
	}
	writeData(w, http.StatusOK, menu)
}

func (h *handlers) setCodes(w http.ResponseWriter, r *http.Request) {
	var req codesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SetAccessCodes(r.Context(), chi.URLParam(r, "session"), req.Codes); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) checkCodes(w http.ResponseWriter, r *http.Request) {
	allowed, err := h.service.HasAccessByCodes(r.Context(), chi.URLParam(r, "session"), splitList(r.URL.Query().Get("codes")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, checkResponse{Allowed: allowed})
}

// splitList parses a comma separated query value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func writeData[T any](w http.ResponseWriter, status int, data T) {
	writeJSON(w, status, domain.Envelope[T]{
		Code:    status,
		Data:    data,
		Message: "ok",
		Type:    "success",
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, domain.Envelope[any]{
		Code:    status,
		Message: message,
		Type:    "error",
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownAccessMode):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrMenuFetch):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		log.WithError(err).Error("❌ Request failed")
	}
	writeMessage(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("Failed to write response")
	}
}
