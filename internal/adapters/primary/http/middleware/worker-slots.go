package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"curumim-backend/internal/core/domain"
)

// WorkerSlots caps how many requests run the wrapped handlers at once.
// Waiting requests give up when their context ends.
func WorkerSlots(n int) gin.HandlerFunc {
	if n < 1 {
		n = 1
	}
	sem := semaphore.NewWeighted(int64(n))

	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			log.WithField("request_id", c.GetString(contextKeyRequestID)).Warn("no worker slot available")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrBusy.Error()})
			return
		}
		defer sem.Release(1)

		c.Next()
	}
}
