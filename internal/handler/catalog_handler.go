package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/outingly/service-planner/internal/application"
	"github.com/outingly/service-planner/internal/platform/auth"
	"github.com/outingly/service-planner/internal/platform/middleware"
	"github.com/outingly/service-planner/internal/platform/response"
)

// CatalogHandler handles HTTP requests for browsing the venue catalog.
type CatalogHandler struct {
	service *application.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers catalog read routes on the given router group.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	venues := r.Group("/api/v1/venues")
	venues.Use(middleware.AuthMiddleware(jwtManager))
	{
		venues.GET("", h.ListVenues)
		venues.GET("/:id", h.GetVenue)
	}
}

// ListVenues handles GET /api/v1/venues.
func (h *CatalogHandler) ListVenues(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	category := c.Query("category")

	venues, total, err := h.service.ListVenues(c.Request.Context(), category, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, venues, total, page, limit)
}

// GetVenue handles GET /api/v1/venues/:id.
func (h *CatalogHandler) GetVenue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid venue ID")
		return
	}

	venue, err := h.service.GetVenue(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, venue)
}
