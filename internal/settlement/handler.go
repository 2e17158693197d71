package settlement

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aykose/dormsync/pkg/middleware"
	"github.com/aykose/dormsync/pkg/response"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/room/{roomId}", h.Plan)
	r.Post("/expense/{expenseId}", h.Settle)

	return r
}

// Plan handles GET /settlements/room/{roomId}
// @Summary      Settlement plan for a room
// @Description  Current balances plus the greedy transfer list that would zero them; read-only
// @Tags         settlements
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} response.APIResponse{data=PlanResponse}
// @Router       /settlements/room/{roomId} [get]
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	plan, err := h.service.Plan(r.Context(), roomID)
	if err != nil {
		response.InternalError(w, "Failed to build settlement plan")
		return
	}

	response.JSON(w, http.StatusOK, plan)
}

// Settle handles POST /settlements/expense/{expenseId}
// @Summary      Settle a debt
// @Description  Individualizes a group split if needed, then marks the settling member's share paid
// @Tags         settlements
// @Produce      json
// @Param        expenseId path string true "Expense ID"
// @Success      200 {object} response.APIResponse{data=SettleResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/expense/{expenseId} [post]
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request) {
	settlerID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Member identity required")
		return
	}
	expenseID := chi.URLParam(r, "expenseId")

	result, err := h.service.Settle(r.Context(), expenseID, settlerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrExpenseNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrAlreadySettled), errors.Is(err, ErrConflict):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to settle expense")
		}
		return
	}

	response.JSON(w, http.StatusOK, result)
}
