package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"hotelreserve/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rooms", h.AddRoom)
	rg.GET("/rooms", h.ListRooms)
	rg.GET("/rooms/:id", h.GetRoom)
	rg.PATCH("/rooms/:id/availability", h.SetAvailability)
}

func (h *Handler) AddRoom(c *gin.Context) {
	var req AddRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "number and type are required")
		return
	}

	room, err := h.service.AddRoom(c.Request.Context(), req.Number, req.Type)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, room)
}

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context(), c.Query("type"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) GetRoom(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	room, err := h.service.GetRoom(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, room)
}

func (h *Handler) SetAvailability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Available == nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "available is required")
		return
	}

	room, err := h.service.SetAvailability(c.Request.Context(), id, *req.Available)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, room)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "number and type are required")
	case errors.Is(err, ErrInvalidRoomType):
		response.Error(c, http.StatusBadRequest, "INVALID_ROOM_TYPE", "Type must be single, double or suite")
	case errors.Is(err, ErrDuplicateRoom):
		response.Error(c, http.StatusConflict, "ROOM_EXISTS", "A room with this number already exists")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}
