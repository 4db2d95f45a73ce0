package middleware

import (
	"net/http"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// HeaderActorID carries the authenticated account identity. The edge
	// gateway terminates authentication and forwards the account UUID here.
	HeaderActorID = "X-Actor-ID"

	// Context keys
	CtxActorID   = "actor_id"
	CtxActorRole = "actor_role"
	CtxActorKey  = "actor"
)

// ActorContext resolves the acting account from the identity header and
// stores it on the request context. Unknown or inactive accounts are
// rejected.
func ActorContext(accountRepo ports.AccountRepository, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderActorID)
		if raw == "" {
			response.Error(c, apperror.ErrAccessDenied())
			c.Abort()
			return
		}

		actorID, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperror.Validation("Actor ID must be a UUID"))
			c.Abort()
			return
		}

		actor, err := accountRepo.GetByID(c.Request.Context(), actorID)
		if err != nil {
			log.Error().Err(err).Msg("failed to resolve actor")
			response.Error(c, apperror.InternalError(err))
			c.Abort()
			return
		}
		if actor == nil || !actor.IsActive {
			response.Error(c, apperror.ErrAccessDenied())
			c.Abort()
			return
		}

		c.Set(CtxActorID, actor.ID)
		c.Set(CtxActorRole, actor.Role)
		c.Set(CtxActorKey, actor)
		c.Next()
	}
}

// RequireRole rejects requests whose actor is not one of the given roles.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(CtxActorRole)
		if !ok {
			response.Error(c, apperror.ErrAccessDenied())
			c.Abort()
			return
		}
		actorRole, _ := role.(domain.Role)
		for _, r := range roles {
			if actorRole == r {
				c.Next()
				return
			}
		}
		response.Error(c, apperror.ErrAccessDenied())
		c.Abort()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// MaxBodySize returns middleware that limits the request body size.
// Once the limit is exceeded the reader returns an error and the
// request is rejected with 413 Payload Too Large.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
