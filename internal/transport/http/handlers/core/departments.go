package corehandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/core"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/shared"
)

type createDepartmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	if dec := auth.Allows(caller, auth.ActionListDepartments); !dec.Allowed {
		api.FailMessage(w, http.StatusForbidden, dec.Reason, nil)
		return
	}

	departments, err := h.Store.ListDepartmentViews(r.Context())
	if err != nil {
		slog.Error("department list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to list departments")
		return
	}
	api.WriteJSON(w, http.StatusOK, departments)
}

func (h *Handler) handleGetDepartment(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	id := shared.PathID(r, "id")
	view, err := h.Store.GetDepartmentView(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Department not found")
			return
		}
		slog.Error("department lookup failed", "departmentId", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load department")
		return
	}

	if dec := auth.CanViewDepartment(caller, id); !dec.Allowed {
		api.FailMessage(w, http.StatusForbidden, dec.Reason, nil)
		return
	}
	api.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	if dec := auth.Allows(caller, auth.ActionCreateDepartment); !dec.Allowed {
		api.Fail(w, http.StatusForbidden, dec.Reason)
		return
	}

	var payload createDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		api.Fail(w, http.StatusBadRequest, "Department name is required.")
		return
	}

	id, err := h.Store.CreateDepartment(r.Context(), name, strings.TrimSpace(payload.Description))
	if err != nil {
		if errors.Is(err, core.ErrDepartmentTaken) {
			api.Fail(w, http.StatusConflict, fmt.Sprintf("Department with name '%s' already exists.", name))
			return
		}
		slog.Error("department create failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to create department")
		return
	}

	view, err := h.Store.GetDepartmentView(r.Context(), id)
	if err != nil {
		slog.Error("department readback failed", "departmentId", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to create department")
		return
	}
	api.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	if dec := auth.Allows(caller, auth.ActionDeleteDepartment); !dec.Allowed {
		api.Fail(w, http.StatusForbidden, dec.Reason)
		return
	}

	id := shared.PathID(r, "id")
	if err := h.Store.DeleteDepartment(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Department not found")
			return
		}
		slog.Error("department delete failed", "departmentId", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to delete department")
		return
	}
	api.NoContent(w)
}
