package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/outingly/service-planner/internal/application"
	"github.com/outingly/service-planner/internal/domain/itinerary"
	"github.com/outingly/service-planner/internal/platform/auth"
	"github.com/outingly/service-planner/internal/platform/middleware"
	"github.com/outingly/service-planner/internal/platform/response"
)

// PlannerHandler handles HTTP requests for itinerary planning.
type PlannerHandler struct {
	service *application.PlannerService
}

// NewPlannerHandler creates a new PlannerHandler.
func NewPlannerHandler(service *application.PlannerService) *PlannerHandler {
	return &PlannerHandler{service: service}
}

// RegisterRoutes registers planning routes on the given router group.
func (h *PlannerHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	itineraries := r.Group("/api/v1/itineraries")
	itineraries.Use(middleware.AuthMiddleware(jwtManager))
	{
		itineraries.POST("/plan", h.PlanItinerary)
	}
}

// PlanItinerary handles POST /api/v1/itineraries/plan.
func (h *PlannerHandler) PlanItinerary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req itinerary.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.PlanItinerary(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
