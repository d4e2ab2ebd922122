package corehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/core"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/shared"
)

type createEmployeeRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	UserTypeName string `json:"user_type_name"`
	JobTitleName string `json:"job_title_name"`
	DepartmentID int64  `json:"department_id"`
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	scope, dec := auth.EmployeeListScope(caller)
	if !dec.Allowed {
		api.Fail(w, http.StatusForbidden, dec.Reason)
		return
	}

	employees, err := h.Store.ListEmployeeViews(r.Context(), scope)
	if err != nil {
		slog.Error("employee list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to list employees")
		return
	}
	api.WriteJSON(w, http.StatusOK, employees)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	id := shared.PathID(r, "id")
	view, err := h.Store.GetEmployeeView(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Employee not found")
			return
		}
		slog.Error("employee lookup failed", "employeeId", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load employee")
		return
	}

	targetDept, err := h.Store.EmployeeDepartment(r.Context(), id)
	if err != nil {
		slog.Error("employee department lookup failed", "employeeId", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load employee")
		return
	}

	if dec := auth.CanViewEmployee(caller, id, targetDept); !dec.Allowed {
		api.Fail(w, http.StatusForbidden, dec.Reason)
		return
	}
	api.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var payload createEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if dec := auth.Allows(caller, auth.ActionCreateEmployee); !dec.Allowed {
		api.Fail(w, http.StatusForbidden, dec.Reason)
		return
	}

	departmentID, dec := auth.NewEmployeeDepartment(caller, payload.DepartmentID)
	if !dec.Allowed {
		status := http.StatusForbidden
		if caller.Role == auth.RoleHR {
			status = http.StatusBadRequest
		}
		api.Fail(w, status, dec.Reason)
		return
	}

	view, err := h.Service.CreateEmployee(r.Context(), caller, core.NewEmployeeInput{
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Email:        payload.Email,
		Password:     payload.Password,
		Phone:        payload.Phone,
		UserTypeName: payload.UserTypeName,
		JobTitleName: payload.JobTitleName,
		DepartmentID: departmentID,
	})
	if err != nil {
		h.failCreateEmployee(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) failCreateEmployee(w http.ResponseWriter, err error) {
	var missing *core.MissingFieldsError
	switch {
	case errors.As(err, &missing):
		api.Fail(w, http.StatusBadRequest, "Missing fields: "+strings.Join(missing.Fields, ", "))
	case errors.Is(err, core.ErrInvalidEmail):
		api.Fail(w, http.StatusBadRequest, "Invalid email format")
	case errors.Is(err, core.ErrEmailTaken):
		api.Fail(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, core.ErrPhoneTaken):
		api.Fail(w, http.StatusBadRequest, "Phone already exists")
	case errors.Is(err, core.ErrInvalidUserType):
		api.Fail(w, http.StatusBadRequest, "Invalid user type")
	case errors.Is(err, core.ErrInvalidDepartment):
		api.Fail(w, http.StatusBadRequest, "Invalid Department ID")
	case errors.Is(err, core.ErrTitleCreate):
		api.Fail(w, http.StatusBadRequest, "Failed to create new job title")
	default:
		slog.Error("employee create failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to create employee")
	}
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	if dec := auth.Allows(caller, auth.ActionDeleteEmployee); !dec.Allowed {
		api.Fail(w, http.StatusForbidden, dec.Reason)
		return
	}

	id := shared.PathID(r, "id")
	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Employee not found")
			return
		}
		slog.Error("employee delete failed", "employeeId", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to delete employee")
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleTotalEmployees(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	if dec := auth.Allows(caller, auth.ActionCountEmployees); !dec.Allowed {
		api.FailMessage(w, http.StatusForbidden, dec.Reason, nil)
		return
	}

	total, err := h.Store.CountEmployees(r.Context())
	if err != nil {
		slog.Error("employee count failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to count employees")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]int{"total_employees": total})
}
