package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uidelink/uidelink-backend/internal/models"
	"github.com/uidelink/uidelink-backend/internal/services"
)

// BusHandler handles bus and schedule HTTP requests
type BusHandler struct {
	scheduleService services.ScheduleService
}

// NewBusHandler creates a new BusHandler
func NewBusHandler(scheduleService services.ScheduleService) *BusHandler {
	return &BusHandler{scheduleService: scheduleService}
}

// GetBusSchedule handles GET /buses/:qr/schedule
func (h *BusHandler) GetBusSchedule(c *gin.Context) {
	busNumber, entries, err := h.scheduleService.BusScheduleByQR(c, c.Param("qr"))
	if err != nil {
		if errors.Is(err, services.ErrBusNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown bus QR code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load schedule: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"busNumber": busNumber, "schedule": entries})
}

// CreateBus handles POST /admin/buses
func (h *BusHandler) CreateBus(c *gin.Context) {
	var bus models.Bus
	if err := c.ShouldBindJSON(&bus); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.scheduleService.CreateBus(c, &bus); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create bus: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, bus)
}

// GetAllBuses handles GET /admin/buses
func (h *BusHandler) GetAllBuses(c *gin.Context) {
	buses, err := h.scheduleService.ListBuses(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get buses: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, buses)
}

// UpdateBus handles PUT /admin/buses/:id
func (h *BusHandler) UpdateBus(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var bus models.Bus
	if err := c.ShouldBindJSON(&bus); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	bus.ID = id

	if err := h.scheduleService.UpdateBus(c, &bus); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bus: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, bus)
}

// CreateAssignment handles POST /admin/schedules
func (h *BusHandler) CreateAssignment(c *gin.Context) {
	var assignment models.ScheduleAssignment
	if err := c.ShouldBindJSON(&assignment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.scheduleService.CreateAssignment(c, &assignment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create assignment: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// UpdateAssignment handles PUT /admin/schedules/:id
func (h *BusHandler) UpdateAssignment(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var assignment models.ScheduleAssignment
	if err := c.ShouldBindJSON(&assignment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	assignment.ID = id

	if err := h.scheduleService.UpdateAssignment(c, &assignment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update assignment: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, assignment)
}
