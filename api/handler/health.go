package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/kitchenscan/models"
)

// Version is reported by GET /health.
const Version = "0.1.0"

// SessionCounter reports browser session utilisation.
type SessionCounter interface {
	Active() int
	Max() int
}

// Health returns a handler for GET /health.
//
// Reports session utilisation and degrades status when every slot is taken.
func Health(sessions SessionCounter, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		active, max := sessions.Active(), sessions.Max()

		status := "healthy"
		if max > 0 && active >= max {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:         status,
			Version:        Version,
			Uptime:         time.Since(startTime).Round(time.Second).String(),
			ActiveSessions: active,
			MaxSessions:    max,
		})
	}
}
