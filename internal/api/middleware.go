package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"loyalty-system/internal/metrics"
	"loyalty-system/internal/model"
	"loyalty-system/internal/repository"
	"loyalty-system/internal/service"
)

const (
	ctxMemberID = "memberID"
	ctxRole     = "role"
)

// authRequired validates the bearer token and stashes the caller's identity
// in the gin context. Both "Token <v>" (legacy clients) and "Bearer <v>" are
// accepted.
func authRequired(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		var raw string
		switch {
		case strings.HasPrefix(header, "Token "):
			raw = strings.TrimPrefix(header, "Token ")
		case strings.HasPrefix(header, "Bearer "):
			raw = strings.TrimPrefix(header, "Bearer ")
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := auth.ParseToken(strings.TrimSpace(raw))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ctxMemberID, claims.Subject)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// staffRequired gates admin routes on a back-office role.
func staffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ctxRole)
		if !model.IsStaffRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff access required"})
			return
		}
		c.Next()
	}
}

// requestLogger emits one structured line per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

// observeRequests records request counters and latency.
func observeRequests(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// bodyRecorder tees the response so a keyed request's first outcome can be
// stored for replay.
type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

// idempotent replays the stored outcome of a previously seen Idempotency-Key
// instead of reapplying the operation. Requests without the header pass
// through untouched.
func idempotent(repo repository.IdempotencyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Idempotency-Key")
		if key == "" {
			c.Next()
			return
		}

		if rec, err := repo.Get(c.Request.Context(), key); err == nil && rec != nil {
			// A key pins exactly one method and path.
			if rec.Method != c.Request.Method || rec.Path != c.Request.URL.Path {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "idempotency key already used for a different request"})
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(rec.StatusCode, "application/json", rec.Body)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		// Only successful outcomes are pinned; a failed attempt may be
		// retried for real.
		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			stored := &model.IdempotencyRecord{
				Key:        key,
				Method:     c.Request.Method,
				Path:       c.Request.URL.Path,
				StatusCode: status,
				Body:       rec.buf.Bytes(),
				CreatedAt:  time.Now(),
			}
			// A racing duplicate already stored the outcome; nothing to do.
			_ = repo.Put(c.Request.Context(), stored)
		}
	}
}
