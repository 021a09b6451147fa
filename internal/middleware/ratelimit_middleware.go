package middleware

import (
	"context"
	"net/http"
	"strconv"

	"sentinal-delivery/internal/redis"
	"sentinal-delivery/internal/services"
	"sentinal-delivery/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// ActionLimiter is satisfied by *redis.RateLimiter.
type ActionLimiter interface {
	AllowAction(ctx context.Context, userID string) (*redis.RateLimitResult, error)
}

// ActionRateLimitMiddleware limits state-changing message actions per user.
// Should be applied after the auth middleware.
func ActionRateLimitMiddleware(limiter ActionLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := services.UserIDFromContext(c.Request.Context())
		if !ok || limiter == nil {
			c.Next()
			return
		}

		result, err := limiter.AllowAction(c.Request.Context(), userID.String())
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("rate limit error", "INTERNAL_ERROR"))
			c.Abort()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("action rate limit exceeded", "RATE_LIMITED"))
			c.Abort()
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
