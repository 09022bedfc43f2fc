package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"spacebook/internal/domain"
	"spacebook/internal/pkg/response"
	"spacebook/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/spaces", h.ListSpaces)
	rg.GET("/spaces/:id", h.GetSpace)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/spaces", h.CreateSpace)
	rg.PUT("/spaces/:id", h.UpdateSpace)
	rg.DELETE("/spaces/:id", h.DeleteSpace)
}

// ListSpaces serves the mirror. When no load ever succeeded it retries the
// bulk fetch first; only if that also fails does the client get a fetch
// error instead of (stale) data.
func (h *Handler) ListSpaces(c *gin.Context) {
	if !h.service.Loaded() {
		if err := h.service.LoadAll(c.Request.Context()); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "FETCH_ERROR",
				"Could not load spaces, please retry")
			return
		}
	}

	filters := Filters{}
	if cat := c.Query("category"); cat != "" {
		filters.Category = domain.SpaceCategory(cat)
	}
	if raw := c.Query("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.PriceMin = v
		}
	}
	if raw := c.Query("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.PriceMax = v
		}
	}

	spaces := h.service.Query(c.Query("search"), filters)

	response.Success(c, http.StatusOK, gin.H{
		"spaces": spaces,
		"total":  len(spaces),
	})
}

func (h *Handler) GetSpace(c *gin.Context) {
	sp, err := h.service.GetSpace(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Space not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"space": sp})
}

func (h *Handler) CreateSpace(c *gin.Context) {
	var req CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	sp, err := h.service.CreateSpace(c.Request.Context(), currentUser(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"space": sp})
}

func (h *Handler) UpdateSpace(c *gin.Context) {
	var req UpdateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	sp, err := h.service.UpdateSpace(c.Request.Context(), currentUser(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"space": sp})
}

func (h *Handler) DeleteSpace(c *gin.Context) {
	if err := h.service.DeleteSpace(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this space")
	case errors.Is(err, ErrInvalidCategory):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown space category")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Space not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}

func currentUser(c *gin.Context) *domain.User {
	return &domain.User{
		ID:   c.GetString("user_id"),
		Name: c.GetString("user_name"),
		Role: domain.UserRole(c.GetString("role")),
	}
}
