package reviewhandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/core"
	"peopledesk/internal/domain/review"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/middleware"
	"peopledesk/internal/transport/http/shared"
)

type Handler struct {
	Store *review.Store
	Core  *core.Store
}

func NewHandler(store *review.Store, coreStore *core.Store) *Handler {
	return &Handler{Store: store, Core: coreStore}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", h.handleListReviews)
		r.Post("/", h.handleCreateReview)
		r.Put("/{id}", h.handleUpdateReview)
		r.Delete("/{id}", h.handleDeleteReview)
	})
}

type createReviewRequest struct {
	EmployeeID int64   `json:"employee_id"`
	Notes      *string `json:"notes"`
	Rating     *int    `json:"rating"`
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (auth.Caller, bool) {
	id, ok := middleware.GetEmployeeID(r.Context())
	if !ok {
		api.FailMessage(w, http.StatusUnauthorized, "Authorization required", []string{"Authorization token is required"})
		return auth.Caller{}, false
	}
	caller, err := h.Core.Caller(r.Context(), id)
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

func (h *Handler) handleListReviews(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	reviews, err := h.Store.List(r.Context(), auth.ReviewListScope(caller))
	if err != nil {
		slog.Error("review list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to list reviews")
		return
	}
	api.WriteJSON(w, http.StatusOK, reviews)
}

func (h *Handler) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var payload createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if dec := auth.Allows(caller, auth.ActionCreateReview); !dec.Allowed {
		api.Fail(w, http.StatusForbidden, dec.Reason)
		return
	}
	if payload.EmployeeID == 0 {
		api.Fail(w, http.StatusBadRequest, "Employee ID is required")
		return
	}

	targetDept, err := h.Core.EmployeeDepartment(r.Context(), payload.EmployeeID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Employee not found")
			return
		}
		slog.Error("review target lookup failed", "employeeId", payload.EmployeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to create review")
		return
	}

	if dec := auth.CanReviewEmployee(caller, targetDept, auth.ActionCreateReview); !dec.Allowed {
		api.Fail(w, http.StatusForbidden, dec.Reason)
		return
	}

	reviewerView, err := h.Core.GetEmployeeView(r.Context(), caller.EmployeeID)
	if err != nil {
		slog.Error("reviewer lookup failed", "employeeId", caller.EmployeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to create review")
		return
	}

	id, err := h.Store.Create(r.Context(), payload.EmployeeID, reviewerView.FullName(), payload.Notes, payload.Rating)
	if err != nil {
		slog.Error("review create failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to create review")
		return
	}

	created, err := h.Store.Get(r.Context(), id)
	if err != nil {
		slog.Error("review readback failed", "reviewId", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to create review")
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

// loadOwnedReview fetches the review and enforces that the caller manages
// the employee's current department.
func (h *Handler) loadOwnedReview(w http.ResponseWriter, r *http.Request) (*review.Review, bool) {
	caller, ok := h.caller(w, r)
	if !ok {
		return nil, false
	}

	id := shared.PathID(r, "id")
	rev, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Review not found")
			return nil, false
		}
		slog.Error("review lookup failed", "reviewId", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load review")
		return nil, false
	}

	targetDept, err := h.Core.EmployeeDepartment(r.Context(), rev.EmployeeID)
	if err != nil {
		slog.Error("review employee lookup failed", "employeeId", rev.EmployeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load review")
		return nil, false
	}

	if dec := auth.CanReviewEmployee(caller, targetDept, auth.ActionModifyReview); !dec.Allowed {
		api.Fail(w, http.StatusForbidden, dec.Reason)
		return nil, false
	}
	return rev, true
}

func (h *Handler) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	rev, ok := h.loadOwnedReview(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	patch, err := review.ParsePatch(body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if patch.Empty() {
		api.WriteJSON(w, http.StatusOK, rev)
		return
	}

	notes, rating := patch.Apply(rev.Notes, rev.Rating)
	if err := h.Store.Update(r.Context(), rev.ID, notes, rating); err != nil {
		slog.Error("review update failed", "reviewId", rev.ID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to update review")
		return
	}

	updated, err := h.Store.Get(r.Context(), rev.ID)
	if err != nil {
		slog.Error("review readback failed", "reviewId", rev.ID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to update review")
		return
	}
	api.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	rev, ok := h.loadOwnedReview(w, r)
	if !ok {
		return
	}

	if err := h.Store.Delete(r.Context(), rev.ID); err != nil {
		slog.Error("review delete failed", "reviewId", rev.ID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to delete review")
		return
	}
	api.NoContent(w)
}
