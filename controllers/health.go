// controllers/health.go - gateway liveness and upstream reachability
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports gateway liveness and whether the backend answers.
func HealthCheck(c *gin.Context) {
	backendStatus := "ok"
	if err := apiClient.Health(c.Request.Context()); err != nil {
		backendStatus = "unreachable"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"service":   "fund-admin-gateway",
		"backend":   backendStatus,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
