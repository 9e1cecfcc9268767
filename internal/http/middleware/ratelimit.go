package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	last  time.Time
	count int
}

// SimpleRateLimit blocks clients that send more than maxRequests per window.
// Счётчики в памяти процесса; RedisRateLimit падает на него, когда Redis
// не сконфигурирован.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	var mu sync.Mutex
	clients := make(map[string]*clientInfo)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		ci, ok := clients[ip]
		if !ok {
			ci = &clientInfo{last: time.Now(), count: 1}
			clients[ip] = ci
			mu.Unlock()
			RLRequests.WithLabelValues(c.FullPath()).Inc()
			c.Next()
			return
		}

		now := time.Now()
		if now.Sub(ci.last) > window {
			ci.last = now
			ci.count = 1
			mu.Unlock()
			RLRequests.WithLabelValues(c.FullPath()).Inc()
			c.Next()
			return
		}

		ci.count++
		mu.Unlock()

		if ci.count > maxRequests {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
