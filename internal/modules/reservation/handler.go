package reservation

import (
	"errors"
	"net/http"

	"hotelreserve/internal/domain"
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
	rg.GET("/rooms/available", h.FindAvailable)
	rg.POST("/reservations", h.CreateReservation)
	rg.GET("/reservations", h.ListMine)
}

func (h *Handler) FindAvailable(c *gin.Context) {
	rooms, err := h.service.FindAvailable(
		c.Request.Context(),
		c.Query("type"),
		c.Query("checkin"),
		c.Query("checkout"),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	res, err := h.service.Reserve(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, toReservationResponse(res))
}

func (h *Handler) ListMine(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	reservations, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]ReservationResponse, 0, len(reservations))
	for i := range reservations {
		out = append(out, toReservationResponse(&reservations[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"reservations": out})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "Missing or malformed fields")
	case errors.Is(err, ErrInvalidDateRange):
		response.Error(c, http.StatusBadRequest, "INVALID_DATE_RANGE", "Dates must be YYYY-MM-DD with checkin before checkout")
	case errors.Is(err, ErrRoomUnavailable):
		response.Error(c, http.StatusNotFound, "ROOM_UNAVAILABLE", "Room is unknown or out of service")
	case errors.Is(err, ErrDateConflict):
		response.Error(c, http.StatusConflict, "DATE_CONFLICT", "Room is already reserved for those dates")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}

func toReservationResponse(res *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:        res.ID,
		Code:      res.Code,
		RoomID:    res.RoomID,
		Checkin:   res.Checkin.Format(dateLayout),
		Checkout:  res.Checkout.Format(dateLayout),
		CreatedAt: res.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
