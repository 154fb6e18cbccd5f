package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uidelink/uidelink-backend/internal/models"
	"github.com/uidelink/uidelink-backend/internal/services"
	"github.com/uidelink/uidelink-backend/internal/utils"
)

// ScanHandler handles scan-related HTTP requests
type ScanHandler struct {
	scanService services.ScanService
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(scanService services.ScanService) *ScanHandler {
	return &ScanHandler{scanService: scanService}
}

// ProcessScan handles POST /scan
func (h *ScanHandler) ProcessScan(c *gin.Context) {
	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// Device and address fingerprints are hashed before they ever reach
	// storage; the raw values are not persisted.
	deviceHash := utils.HashIdentifier(c.GetHeader("User-Agent"))
	ipHash := utils.HashIdentifier(c.ClientIP())

	resp, err := h.scanService.ProcessScan(c, &req, deviceHash, ipHash)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBusNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown bus QR code"})
		case errors.Is(err, services.ErrNoScheduleMatch):
			c.JSON(http.StatusNotFound, gin.H{"error": "No route is scheduled for this bus right now"})
		case errors.Is(err, services.ErrDuplicateScan):
			c.JSON(http.StatusConflict, gin.H{"error": "Scan already processed"})
		case errors.Is(err, services.ErrDataIntegrity):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Inconsistent schedule data"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process scan: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
