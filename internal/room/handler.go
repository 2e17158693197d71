package room

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aykose/dormsync/pkg/middleware"
	"github.com/aykose/dormsync/pkg/response"
)

// Handler handles HTTP requests for room operations
type Handler struct {
	service *Service
}

// NewHandler creates a new room handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for room endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Post("/join", h.Join)
	r.Get("/{id}", h.GetByID)
	r.Get("/{id}/members", h.ListMembers)
	r.Delete("/{id}/members/{memberId}", h.Leave)

	return r
}

// MemberRoutes returns the router for member registration
func (h *Handler) MemberRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.RegisterMember)

	return r
}

// RegisterMember handles POST /members
// @Summary      Register a member
// @Description  Create a member identity that can later join a room
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body RegisterMemberRequest true "Member registration request"
// @Success      201 {object} response.APIResponse{data=Member}
// @Failure      400 {object} response.APIResponse
// @Router       /members [post]
func (h *Handler) RegisterMember(w http.ResponseWriter, r *http.Request) {
	var req RegisterMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Username == "" {
		response.BadRequest(w, "Username is required")
		return
	}

	member, err := h.service.RegisterMember(r.Context(), &req)
	if err != nil {
		response.InternalError(w, "Failed to register member")
		return
	}

	response.JSON(w, http.StatusCreated, member)
}

// Create handles POST /rooms
// @Summary      Create a room
// @Description  Create a room with a fresh invite code; the creator joins immediately
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body CreateRoomRequest true "Room creation request"
// @Success      201 {object} response.APIResponse{data=RoomResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /rooms [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Member identity required")
		return
	}

	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "Room name is required")
		return
	}

	room, err := h.service.Create(r.Context(), memberID, &req)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create room")
		return
	}

	response.JSON(w, http.StatusCreated, room.ToResponse())
}

// Join handles POST /rooms/join
// @Summary      Join a room by invite code
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body JoinRoomRequest true "Join request"
// @Success      200 {object} response.APIResponse{data=RoomResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/join [post]
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Member identity required")
		return
	}

	var req JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	room, err := h.service.JoinByCode(r.Context(), memberID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCode), errors.Is(err, ErrMemberNotFound):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "Failed to join room")
		}
		return
	}

	response.JSON(w, http.StatusOK, room.ToResponse())
}

// GetByID handles GET /rooms/{id}
// @Summary      Get room with roster
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID"
// @Success      200 {object} response.APIResponse{data=RoomResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	room, members, err := h.service.GetWithMembers(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get room")
		return
	}

	resp := room.ToResponse()
	resp.Members = members
	response.JSON(w, http.StatusOK, resp)
}

// ListMembers handles GET /rooms/{id}/members
// @Summary      List the current roster of a room
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID"
// @Success      200 {object} response.APIResponse{data=[]Member}
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{id}/members [get]
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	members, err := h.service.GetMembers(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to list members")
		return
	}

	response.JSON(w, http.StatusOK, members)
}

// Leave handles DELETE /rooms/{id}/members/{memberId}
// @Summary      Remove a member from a room
// @Description  Clears the member's room reference; their ledger history stays
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID"
// @Param        memberId path string true "Member ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{id}/members/{memberId} [delete]
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	memberID := chi.URLParam(r, "memberId")

	if err := h.service.Leave(r.Context(), roomID, memberID); err != nil {
		switch {
		case errors.Is(err, ErrMemberNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotInRoom):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to remove member")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "member removed"})
}
