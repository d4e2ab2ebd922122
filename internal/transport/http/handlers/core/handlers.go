package corehandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/core"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/middleware"
)

type Handler struct {
	Store   *core.Store
	Service *core.Service
}

func NewHandler(store *core.Store) *Handler {
	return &Handler{Store: store, Service: core.NewService(store)}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.handleMe)

	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleListEmployees)
		r.Post("/", h.handleCreateEmployee)
		r.Get("/{id}", h.handleGetEmployee)
		r.Delete("/{id}", h.handleDeleteEmployee)
	})
	r.Get("/total-employees", h.handleTotalEmployees)

	r.Route("/departments", func(r chi.Router) {
		r.Get("/", h.handleListDepartments)
		r.Post("/", h.handleCreateDepartment)
		r.Get("/{id}", h.handleGetDepartment)
		r.Delete("/{id}", h.handleDeleteDepartment)
	})

	r.Get("/user-types", h.handleListUserTypes)
	r.Get("/user-types/{id}", h.handleGetUserType)
	r.Get("/job-titles", h.handleListJobTitles)
	r.Get("/job-titles/{id}", h.handleGetJobTitle)
}

// caller resolves the authenticated employee to a fresh policy identity.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (auth.Caller, bool) {
	id, ok := middleware.GetEmployeeID(r.Context())
	if !ok {
		api.FailMessage(w, http.StatusUnauthorized, "Authorization required", []string{"Authorization token is required"})
		return auth.Caller{}, false
	}
	caller, err := h.Store.Caller(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.FailMessage(w, http.StatusUnauthorized, "Unknown caller", nil)
			return auth.Caller{}, false
		}
		slog.Error("caller lookup failed", "employeeId", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return auth.Caller{}, false
	}
	return caller, true
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	view, err := h.Store.GetEmployeeView(r.Context(), caller.EmployeeID)
	if err != nil {
		slog.Error("profile lookup failed", "employeeId", caller.EmployeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	api.WriteJSON(w, http.StatusOK, view)
}
