package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/kitchenscan/config"
	"github.com/use-agent/kitchenscan/models"
	"golang.org/x/sync/semaphore"
)

// Admission bounds how many extractions hold a browser at the same time.
// Requests over the limit queue for at most the configured timeout.
type Admission struct {
	sem     *semaphore.Weighted
	max     int
	timeout time.Duration
	active  atomic.Int64
}

// NewAdmission builds an Admission from cfg. A non-positive MaxSessions
// admits one session at a time.
func NewAdmission(cfg config.AdmissionConfig) *Admission {
	max := cfg.MaxSessions
	if max < 1 {
		max = 1
	}
	return &Admission{
		sem:     semaphore.NewWeighted(int64(max)),
		max:     max,
		timeout: cfg.QueueTimeout,
	}
}

// Active returns the number of admitted requests still running.
func (a *Admission) Active() int { return int(a.active.Load()) }

// Max returns the session limit.
func (a *Admission) Max() int { return a.max }

// Handler returns the gin middleware.
func (a *Admission) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cancel context.CancelFunc = func() {}
		if a.timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, a.timeout)
		}
		err := a.sem.Acquire(ctx, 1)
		cancel()
		if err != nil {
			slog.Warn("extraction rejected, all browser sessions busy",
				"max_sessions", a.max,
				"queue_timeout", a.timeout,
			)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, models.NewFailure(
				models.ErrCodeBusy,
				"all browser sessions are busy, retry later",
			))
			return
		}

		a.active.Add(1)
		defer func() {
			a.active.Add(-1)
			a.sem.Release(1)
		}()
		c.Next()
	}
}
