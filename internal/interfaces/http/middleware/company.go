package middleware

import (
	"net/http"
	"strings"

	"github.com/facturio/backend/internal/infrastructure/logger"
	"github.com/facturio/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context keys for company scoping
const (
	// CompanyIDKey is the gin context key holding the validated company ID
	CompanyIDKey = "company_id"
	// CompanyHeaderKey is the request header carrying the company ID
	CompanyHeaderKey = "X-Company-ID"
)

// CompanyMiddlewareConfig holds configuration for the company scope middleware
type CompanyMiddlewareConfig struct {
	// SkipPaths are paths that don't require company context (e.g., health checks)
	SkipPaths []string
	// Required determines whether requests without a company ID are rejected
	Required bool
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultCompanyConfig returns default company middleware configuration
func DefaultCompanyConfig() CompanyMiddlewareConfig {
	return CompanyMiddlewareConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/api/v1/system"},
		Required:  true,
	}
}

// CompanyMiddleware extracts the company ID from the X-Company-ID header,
// validates it and stores it in both the gin context and the request context
// so downstream logging carries the company scope.
func CompanyMiddleware() gin.HandlerFunc {
	return CompanyMiddlewareWithConfig(DefaultCompanyConfig())
}

// CompanyMiddlewareWithConfig returns company middleware with custom configuration
func CompanyMiddlewareWithConfig(cfg CompanyMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		companyID := c.GetHeader(CompanyHeaderKey)
		if companyID == "" {
			if cfg.Required {
				respondCompanyRequired(c)
				return
			}
			c.Next()
			return
		}

		parsed, err := uuid.Parse(companyID)
		if err != nil || parsed == uuid.Nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Rejected request with malformed company ID",
					zap.String("path", path),
					zap.String("company_id", companyID),
				)
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeBadRequest,
				"Invalid company ID format",
			))
			return
		}

		c.Set(CompanyIDKey, parsed.String())

		// Propagate to the request context for structured logging
		ctx, _ := logger.WithCompanyID(c.Request.Context(), logger.FromContext(c.Request.Context()), parsed.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetCompanyID returns the validated company ID set by CompanyMiddleware.
// Returns uuid.Nil and false when no company scope is present.
func GetCompanyID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(CompanyIDKey)
	if !exists {
		return uuid.Nil, false
	}
	str, ok := value.(string)
	if !ok || str == "" {
		return uuid.Nil, false
	}
	parsed, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, false
	}
	return parsed, true
}

func respondCompanyRequired(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
		dto.ErrCodeBadRequest,
		"X-Company-ID header is required",
	))
}
