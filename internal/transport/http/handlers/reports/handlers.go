package reportshandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/core"
	"peopledesk/internal/domain/reports"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/middleware"
)

type Handler struct {
	Core *core.Store
}

func NewHandler(coreStore *core.Store) *Handler {
	return &Handler{Core: coreStore}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/employees.csv", h.handleRosterCSV)
	r.Get("/reports/employees.pdf", h.handleRosterPDF)
}

func (h *Handler) roster(w http.ResponseWriter, r *http.Request) ([]core.EmployeeView, bool) {
	id, ok := middleware.GetEmployeeID(r.Context())
	if !ok {
		api.FailMessage(w, http.StatusUnauthorized, "Authorization required", []string{"Authorization token is required"})
		return nil, false
	}
	caller, err := h.Core.Caller(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.FailMessage(w, http.StatusUnauthorized, "Unknown caller", nil)
			return nil, false
		}
		slog.Error("caller lookup failed", "employeeId", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}

	if dec := auth.Allows(caller, auth.ActionExportRoster); !dec.Allowed {
		api.Fail(w, http.StatusForbidden, dec.Reason)
		return nil, false
	}

	employees, err := h.Core.ListEmployeeViews(r.Context(), auth.ListScope{All: true})
	if err != nil {
		slog.Error("roster list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to build roster")
		return nil, false
	}
	return employees, true
}

func (h *Handler) handleRosterCSV(w http.ResponseWriter, r *http.Request) {
	employees, ok := h.roster(w, r)
	if !ok {
		return
	}
	payload, err := reports.RosterCSV(employees)
	if err != nil {
		slog.Error("roster csv failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to build roster")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="employees.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (h *Handler) handleRosterPDF(w http.ResponseWriter, r *http.Request) {
	employees, ok := h.roster(w, r)
	if !ok {
		return
	}
	payload, err := reports.RosterPDF(employees)
	if err != nil {
		slog.Error("roster pdf failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to build roster")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="employees.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
