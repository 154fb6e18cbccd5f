package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uidelink/uidelink-backend/internal/models"
	"github.com/uidelink/uidelink-backend/internal/services"
)

// StudentHandler handles student-facing HTTP requests
type StudentHandler struct {
	studentService services.StudentService
}

// NewStudentHandler creates a new StudentHandler
func NewStudentHandler(studentService services.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// Identify handles POST /students/identify
func (h *StudentHandler) Identify(c *gin.Context) {
	var req models.IdentifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.studentService.Identify(c, &req); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to identify student: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Summary handles GET /students/summary
func (h *StudentHandler) Summary(c *gin.Context) {
	token := c.Query("sessionToken")
	if token == "" {
		token = c.GetHeader("X-Session-Token")
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session token is required"})
		return
	}

	summary, err := h.studentService.Summary(c, token)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load summary: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Leaderboard handles GET /leaderboard
func (h *StudentHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.studentService.Leaderboard(c, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leaderboard: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
