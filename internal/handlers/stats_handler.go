package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uidelink/uidelink-backend/internal/services"
)

// StatsHandler handles ridership statistics HTTP requests
type StatsHandler struct {
	scheduleService services.ScheduleService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(scheduleService services.ScheduleService) *StatsHandler {
	return &StatsHandler{scheduleService: scheduleService}
}

// GetDailyStats handles GET /admin/stats/daily
func (h *StatsHandler) GetDailyStats(c *gin.Context) {
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	stats, err := h.scheduleService.DailyStats(c, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get daily stats: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": date.Format("2006-01-02"), "stats": stats})
}
