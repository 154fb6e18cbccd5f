package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/uidelink/uidelink-backend/internal/models"
	"github.com/uidelink/uidelink-backend/internal/services"
)

// RouteHandler handles route and stop HTTP requests
type RouteHandler struct {
	scheduleService services.ScheduleService
}

// NewRouteHandler creates a new RouteHandler
func NewRouteHandler(scheduleService services.ScheduleService) *RouteHandler {
	return &RouteHandler{scheduleService: scheduleService}
}

func parseObjectID(hex string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(hex)
}

// GetActiveRoutes handles GET /routes
func (h *RouteHandler) GetActiveRoutes(c *gin.Context) {
	routes, err := h.scheduleService.ListActiveRoutes(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get routes: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, routes)
}

// GetRouteStops handles GET /routes/:id/stops
func (h *RouteHandler) GetRouteStops(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	stops, err := h.scheduleService.ListStops(c, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get stops: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, stops)
}

// CreateRoute handles POST /admin/routes
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var route models.Route
	if err := c.ShouldBindJSON(&route); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.scheduleService.CreateRoute(c, &route); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create route: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, route)
}

// UpdateRoute handles PUT /admin/routes/:id
func (h *RouteHandler) UpdateRoute(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var route models.Route
	if err := c.ShouldBindJSON(&route); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	route.ID = id

	if err := h.scheduleService.UpdateRoute(c, &route); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update route: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, route)
}

// CreateStop handles POST /admin/stops
func (h *RouteHandler) CreateStop(c *gin.Context) {
	var stop models.BusStop
	if err := c.ShouldBindJSON(&stop); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.scheduleService.CreateStop(c, &stop); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create stop: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, stop)
}
