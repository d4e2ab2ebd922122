package corehandler

import (
	"errors"
	"log/slog"
	"net/http"

	"peopledesk/internal/domain/core"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/shared"
)

// User types and job titles are read-only reference data; any
// authenticated caller may list them.

func (h *Handler) handleListUserTypes(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}
	userTypes, err := h.Store.ListUserTypes(r.Context())
	if err != nil {
		slog.Error("user type list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to list user types")
		return
	}
	api.WriteJSON(w, http.StatusOK, userTypes)
}

func (h *Handler) handleGetUserType(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}
	id := shared.PathID(r, "id")
	userType, err := h.Store.GetUserType(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "User type not found")
			return
		}
		slog.Error("user type lookup failed", "userTypeId", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load user type")
		return
	}
	api.WriteJSON(w, http.StatusOK, userType)
}

func (h *Handler) handleListJobTitles(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}
	titles, err := h.Store.ListJobTitles(r.Context())
	if err != nil {
		slog.Error("job title list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to list job titles")
		return
	}
	api.WriteJSON(w, http.StatusOK, titles)
}

func (h *Handler) handleGetJobTitle(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}
	id := shared.PathID(r, "id")
	title, err := h.Store.GetJobTitle(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Job title not found")
			return
		}
		slog.Error("job title lookup failed", "jobTitleId", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load job title")
		return
	}
	api.WriteJSON(w, http.StatusOK, title)
}
