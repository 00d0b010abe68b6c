package httpapi

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/booklib/internal/common"
	"github.com/dmitrijs2005/booklib/internal/logging"
	"github.com/dmitrijs2005/booklib/internal/server/auth"
	"github.com/dmitrijs2005/booklib/internal/server/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// requestID reuses the caller's X-Request-ID or mints one, echoes it back and
// stores it in the request context so every log entry of the request has it.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (h *handler) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.Logger.Error(c.Request.Context(), "panic recovered",
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	})
}

func (h *handler) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		h.Logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

func (h *handler) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		h.Metrics.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		h.Metrics.RequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// authGate lets a request through only with a valid bearer token. A missing
// token is 401; a token that fails verification is 403. The verified
// username is put into the request context.
func (h *handler) authGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		username, err := h.Tokens.Verify(token)
		if err != nil {
			h.Logger.Debug(c.Request.Context(), "token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}

		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), username))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// loginRateLimit counts every login attempt against the client's window and
// stops the request with a plain-text 429 once the window is used up.
func (h *handler) loginRateLimit() gin.HandlerFunc {
	policy := strconv.Itoa(int(h.loginWindow / time.Second))
	rejection := ratelimit.RejectionError(h.loginWindow)

	return func(c *gin.Context) {
		res, err := h.LoginLimiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			h.writeError(c, err)
			return
		}

		reset := seconds(res.ResetAfter)
		c.Header("RateLimit-Policy", strconv.Itoa(res.Limit)+";w="+policy)
		c.Header("RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("RateLimit-Reset", reset)

		if !res.Allowed {
			h.Metrics.RateLimited.WithLabelValues("login").Inc()
			h.Logger.Warn(c.Request.Context(), "login rate limited", "client_ip", c.ClientIP())
			c.Header("Retry-After", reset)
			c.String(http.StatusTooManyRequests, rejection.Error())
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *handler) throttle() gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := h.Throttle.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			h.writeError(c, err)
			return
		}
		if !res.Allowed {
			h.Metrics.RateLimited.WithLabelValues("api").Inc()
			c.Header("Retry-After", seconds(res.ResetAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			return
		}
		c.Next()
	}
}

func seconds(d time.Duration) string {
	return strconv.Itoa(int(math.Ceil(d.Seconds())))
}
