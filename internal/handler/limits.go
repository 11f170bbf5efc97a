package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kanon0111/sdlg-edu/internal/limiter"
	"github.com/kanon0111/sdlg-edu/internal/logger"
)

type LimitHandler struct {
	limiter *limiter.Limiter
	log     *logger.Logger
}

// NewLimitHandler wraps l; a nil limiter disables rate limiting.
func NewLimitHandler(l *limiter.Limiter, log *logger.Logger) *LimitHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &LimitHandler{limiter: l, log: log}
}

// RateLimit rejects requests over the action's limit with 429. Storage
// failures let the request through.
func (h *LimitHandler) RateLimit(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.limiter == nil {
			c.Next()
			return
		}

		result, err := h.limiter.Check(c.Request.Context(), c.ClientIP(), action)
		if err != nil {
			h.log.Warn("rate limit check failed", "action", action, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))
		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, result)
			return
		}
		c.Next()
	}
}

func (h *LimitHandler) GetLimits(c *gin.Context) {
	if h.limiter == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}
	limits := make(map[string]map[string]interface{})
	for action, config := range h.limiter.Limits() {
		limits[action] = map[string]interface{}{
			"limit":          config.Limit,
			"window_seconds": int(config.Window.Seconds()),
		}
	}
	c.JSON(http.StatusOK, limits)
}
