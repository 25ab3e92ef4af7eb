package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/outingly/service-planner/internal/application"
	"github.com/outingly/service-planner/internal/platform/auth"
	"github.com/outingly/service-planner/internal/platform/middleware"
	"github.com/outingly/service-planner/internal/platform/response"
)

// AdminCatalogHandler handles admin HTTP requests for catalog management.
type AdminCatalogHandler struct {
	service *application.CatalogService
}

// NewAdminCatalogHandler creates a new AdminCatalogHandler.
func NewAdminCatalogHandler(service *application.CatalogService) *AdminCatalogHandler {
	return &AdminCatalogHandler{service: service}
}

// RegisterRoutes registers admin catalog routes.
func (h *AdminCatalogHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.PUT("/venues", h.UpsertVenue)
		admin.DELETE("/venues/:id", h.RemoveVenue)
		admin.GET("/stats/venues", h.VenueStats)
	}
}

// UpsertVenue handles PUT /api/v1/admin/venues.
func (h *AdminCatalogHandler) UpsertVenue(c *gin.Context) {
	var input application.VenueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	venue, err := h.service.Upsert(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, venue)
}

// RemoveVenue handles DELETE /api/v1/admin/venues/:id.
func (h *AdminCatalogHandler) RemoveVenue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid venue ID")
		return
	}

	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// VenueStats handles GET /api/v1/admin/stats/venues.
func (h *AdminCatalogHandler) VenueStats(c *gin.Context) {
	stats, err := h.service.VenueStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
