package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	startTime time.Time
}

func NewHealthController() *HealthController {
	return &HealthController{startTime: time.Now()}
}

// Root handles GET /.
func (hc *HealthController) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Welcome to Luvio Server!",
		"status":    "Server is running successfully",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Health handles GET /health. Uptime is reported in seconds.
func (hc *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"uptime":    time.Since(hc.startTime).Seconds(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
