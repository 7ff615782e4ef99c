package server

import (
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/okmusi/internal/models"
	"github.com/desertthunder/okmusi/internal/repositories"
	"github.com/desertthunder/okmusi/internal/session"
	"github.com/desertthunder/okmusi/internal/shared"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Context keys set by middleware.
const (
	ContextRequestID    = "request_id"
	ContextDeviceID     = "device_id"
	ContextSessionStore = "session_store"
	ContextUser         = "user"
)

// DeviceCookie identifies a client's storage namespace.
const DeviceCookie = models.DeviceCookie

const deviceCookieMaxAge = 365 * 24 * 60 * 60

// RequestIDMiddleware generates a unique request ID and echoes it in X-Request-ID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set(ContextRequestID, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// LoggingMiddleware logs every request at a level chosen by its status class
func LoggingMiddleware(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", c.GetString(ContextRequestID),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"size", c.Writer.Size(),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			attrs = append(attrs, "query", query)
		}
		if device := c.GetString(ContextDeviceID); device != "" {
			attrs = append(attrs, "device", device)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			logger.Error("request failed", attrs...)
		case status >= 400:
			logger.Warn("request rejected", attrs...)
		default:
			logger.Info("request completed", attrs...)
		}
	}
}

// CORSMiddleware allows credentialed requests from origins. "*" allows any origin without credentials.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Content-Type", "Origin"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}
	return cors.New(config)
}

// limiterIdleTTL is how long a client's bucket is kept without requests.
const limiterIdleTTL = 10 * time.Minute

// RateLimitMiddleware applies a token bucket per client IP. A non-positive limit disables it.
func RateLimitMiddleware(limit float64, burst int) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiters := newIPLimiters(limit, burst, limiterIdleTTL, time.Now)
	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// ipLimiters holds one token bucket per client IP and drops buckets that sat idle for ttl.
type ipLimiters struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
	entries   map[string]*ipLimiter
}

type ipLimiter struct {
	limiter *rate.Limiter
	seen    time.Time
}

func newIPLimiters(limit float64, burst int, ttl time.Duration, now func() time.Time) *ipLimiters {
	if burst < 1 {
		burst = 1
	}
	// a bucket is only dropped once it would have refilled completely
	if refill := time.Duration(float64(burst) / limit * float64(time.Second)); refill > ttl {
		ttl = refill
	}
	return &ipLimiters{
		limit:     rate.Limit(limit),
		burst:     burst,
		ttl:       ttl,
		now:       now,
		lastSweep: now(),
		entries:   make(map[string]*ipLimiter),
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.ttl {
		for key, e := range l.entries {
			if now.Sub(e.seen) >= l.ttl {
				delete(l.entries, key)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[ip]
	if !ok {
		e = &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = e
	}
	e.seen = now
	return e.limiter
}

func (l *ipLimiters) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// DeviceMiddleware issues the device cookie and scopes the store to it
func DeviceMiddleware(store models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		device, err := c.Cookie(DeviceCookie)
		if err != nil || !shared.IsUUID(device) {
			device = shared.GenerateID()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(DeviceCookie, device, deviceCookieMaxAge, "/", "", false, true)
		}

		c.Set(ContextDeviceID, device)
		c.Set(ContextSessionStore, session.NewStore(repositories.NewScopedStore(store, device)))
		c.Next()
	}
}

// SessionGateMiddleware admits requests whose device holds a session record
func SessionGateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := session.Enter(c.Request.Context(), sessionStore(c))
		if !decision.Allowed() {
			if wantsHTML(c) {
				c.Redirect(http.StatusFound, decision.Redirect)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    shared.ErrNotAuthenticated.Error(),
				"redirect": decision.Redirect,
			})
			return
		}

		c.Set(ContextUser, decision.Session)
		c.Next()
	}
}

func sessionStore(c *gin.Context) *session.Store {
	return c.MustGet(ContextSessionStore).(*session.Store)
}

func currentUser(c *gin.Context) *models.Session {
	return c.MustGet(ContextUser).(*models.Session)
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
