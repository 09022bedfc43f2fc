package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"spacebook/internal/domain"
	"spacebook/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/my", h.GetMyBookings)
	rg.PATCH("/bookings/:id/status", h.UpdateStatus)
	rg.GET("/spaces/:id/bookings", h.GetSpaceBookings)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Submit(c.Request.Context(), Draft{
		SpaceID:   req.SpaceID,
		UserID:    c.GetString("user_id"),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	bookings, err := h.service.GetMyBookings(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    len(bookings),
	})
}

func (h *Handler) GetSpaceBookings(c *gin.Context) {
	bookings, err := h.service.GetSpaceBookings(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    len(bookings),
	})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	status, ok := domain.ParseBookingStatus(req.Status)
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown booking status")
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), actor(c), c.Param("id"), status)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"Booking request is invalid", gin.H{"reason": vErr.Reason})
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT",
			"Space is already booked for the selected time")
	case errors.Is(err, ErrSpaceNotFound), errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed for this booking")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION",
			"Booking cannot change to the requested status")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}

func actor(c *gin.Context) *domain.User {
	return &domain.User{
		ID:   c.GetString("user_id"),
		Name: c.GetString("user_name"),
		Role: domain.UserRole(c.GetString("role")),
	}
}
