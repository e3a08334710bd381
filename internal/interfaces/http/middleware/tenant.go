package middleware

import (
	"net/http"

	"github.com/comanda/backend/internal/infrastructure/logger"
	"github.com/comanda/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// TenantIDKey is the gin context key for the resolved tenant ID
	TenantIDKey = "tenant_id"

	// TenantHeader carries the tenant on every API request
	TenantHeader = "X-Tenant-ID"
)

// Tenant resolves the tenant from the X-Tenant-ID header and stores it
// in both the gin context and the request context. Every route behind
// this middleware is tenant-scoped; requests without a valid tenant are
// rejected before reaching a handler.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(TenantHeader)
		if raw == "" {
			abortTenant(c, dto.ErrCodeMissingTenant, "The "+TenantHeader+" header is required")
			return
		}

		tenantID, err := uuid.Parse(raw)
		if err != nil || tenantID == uuid.Nil {
			abortTenant(c, dto.ErrCodeInvalidTenant, "The "+TenantHeader+" header must be a UUID")
			return
		}

		c.Set(TenantIDKey, tenantID.String())
		ctx, _ := logger.WithTenantID(c.Request.Context(), logger.FromContext(c.Request.Context()), tenantID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetTenantID returns the tenant resolved by the Tenant middleware
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(TenantIDKey)
	if raw == "" {
		return uuid.Nil, false
	}
	tenantID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return tenantID, true
}

func abortTenant(c *gin.Context, code, message string) {
	requestID := c.GetString("request_id")
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message, requestID))
}
