package middleware

import (
	"encoding/json"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware for the administrative surface.
// Ledger operations audit themselves with richer detail inside the
// service, so transaction paths are not mapped here.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		action, resourceType := mapPathToAction(c.Request.URL.Path, c.Request.Method)
		if action == "" {
			return
		}

		var actorID *uuid.UUID
		if aid, exists := c.Get(CtxActorID); exists {
			if id, ok := aid.(uuid.UUID); ok {
				actorID = &id
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			ActorID:      actorID,
			Action:       action,
			ResourceType: resourceType,
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapPathToAction(path, method string) (domain.AuditAction, string) {
	switch {
	case path == "/api/v1/branches" && method == "POST":
		return domain.AuditActionCreateBranch, "branch"
	case path == "/api/v1/accounts" && method == "POST":
		return domain.AuditActionCreateAccount, "account"
	case path == "/api/v1/settings" && method == "PUT":
		return domain.AuditActionUpdateSettings, "settings"
	}
	return "", ""
}
