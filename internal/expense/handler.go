package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aykose/dormsync/pkg/middleware"
	"github.com/aykose/dormsync/pkg/response"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/room/{roomId}", h.ListByRoom)
	r.Get("/room/{roomId}/debts", h.ListDebts)
	r.Get("/room/{roomId}/admission", h.ProjectAdmission)

	return r
}

// Create handles POST /expenses
// @Summary      Create an expense
// @Description  "group" writes one lazily-divided row; "direct" writes one frozen row per debtor
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=[]ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	payerID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Member identity required")
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	var (
		created []*Expense
		err     error
	)
	switch SplitType(req.SplitType) {
	case SplitTypeGroup:
		var e *Expense
		e, err = h.service.CreateGroup(r.Context(), req.RoomID, payerID, req.Description, req.Amount)
		if e != nil {
			created = []*Expense{e}
		}
	case SplitTypeDirect:
		created, err = h.service.CreateDirectSplit(r.Context(), req.RoomID, payerID, req.Description, req.Amount, req.DebtorIDs)
	default:
		response.BadRequest(w, "Invalid split type. Must be group or direct")
		return
	}

	if err != nil {
		var admErr *AdmissionError
		switch {
		case errors.As(err, &admErr):
			response.UnprocessableEntity(w, admErr.Error())
		case errors.Is(err, ErrInvalidAmount),
			errors.Is(err, ErrEmptyDescription),
			errors.Is(err, ErrSelfSplit),
			errors.Is(err, ErrNotRoomMember):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to create expense")
		}
		return
	}

	resp := make([]*ExpenseResponse, len(created))
	for i, e := range created {
		resp[i] = e.ToResponse()
	}
	response.JSON(w, http.StatusCreated, resp)
}

// ListByRoom handles GET /expenses/room/{roomId}
// @Summary      List a room's ledger history
// @Description  Full history, pending and paid, newest first
// @Tags         expenses
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Router       /expenses/room/{roomId} [get]
func (h *Handler) ListByRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	expenses, total, err := h.service.ListByRoom(r.Context(), roomID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list expenses")
		return
	}

	resp := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = e.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	response.JSONWithMeta(w, http.StatusOK, resp, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// ListDebts handles GET /expenses/room/{roomId}/debts
// @Summary      Debt breakdown for the acting member
// @Description  Pending rows split into "you owe" and "owed to you" with per-row shares
// @Tags         expenses
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} response.APIResponse{data=DebtView}
// @Router       /expenses/room/{roomId}/debts [get]
func (h *Handler) ListDebts(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Member identity required")
		return
	}
	roomID := chi.URLParam(r, "roomId")

	view, err := h.service.ListDebts(r.Context(), roomID, memberID)
	if err != nil {
		response.InternalError(w, "Failed to build debt view")
		return
	}

	response.JSON(w, http.StatusOK, view)
}

// ProjectAdmission handles GET /expenses/room/{roomId}/admission
// @Summary      Debt-ceiling check for a hypothetical group expense
// @Description  Reports whether a group expense of ?amount= paid by the acting member would be admitted
// @Tags         expenses
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        amount query number true "Proposed amount"
// @Success      200 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /expenses/room/{roomId}/admission [get]
func (h *Handler) ProjectAdmission(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Member identity required")
		return
	}
	roomID := chi.URLParam(r, "roomId")

	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		response.BadRequest(w, "Invalid amount")
		return
	}

	if err := h.service.ProjectAdmission(r.Context(), roomID, memberID, amount); err != nil {
		var admErr *AdmissionError
		switch {
		case errors.As(err, &admErr):
			response.UnprocessableEntity(w, admErr.Error())
		case errors.Is(err, ErrInvalidAmount):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to project admission")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "expense would be admitted"})
}
