package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siparisbot/backend/internal/infrastructure/auth"
	"github.com/siparisbot/backend/internal/infrastructure/logger"
	"github.com/siparisbot/backend/internal/interfaces/http/dto"
)

// Auth context keys
const (
	TenantIDKey = "tenant_id"
	ClaimsKey   = "auth_claims"
	AuthHeader  = "Authorization"
)

// TenantAuthConfig holds configuration for TenantAuth
type TenantAuthConfig struct {
	// Verifier checks bearer tokens. A nil or disabled verifier switches to
	// development mode: the tenant comes from X-Tenant-ID or DefaultTenantID.
	Verifier *auth.TokenVerifier
	// DefaultTenantID is used in development mode when no header is sent
	DefaultTenantID uuid.UUID
	Logger          *zap.Logger
}

// TenantAuth resolves the tenant of every request. With a verifier configured
// the tenant is taken from the access token and requests without a valid
// token are rejected with 401.
func TenantAuth(cfg TenantAuthConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	verify := cfg.Verifier != nil && cfg.Verifier.Enabled()

	return func(c *gin.Context) {
		if !verify {
			tenantID := cfg.DefaultTenantID
			if header := c.GetHeader(TenantIDHeader); header != "" {
				id, err := uuid.Parse(header)
				if err != nil {
					abortWithError(c, dto.ErrCodeBadRequest, "Invalid X-Tenant-ID header")
					return
				}
				tenantID = id
			}
			setTenant(c, tenantID)
			c.Next()
			return
		}

		token, ok := auth.BearerToken(c.GetHeader(AuthHeader))
		if !ok {
			abortWithError(c, dto.ErrCodeUnauthorized, "Missing or malformed authorization header")
			return
		}

		claims, err := cfg.Verifier.Verify(token)
		if err != nil {
			cfg.Logger.Debug("Rejected access token",
				zap.String("request_id", GetRequestID(c)),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			abortWithError(c, dto.ErrCodeUnauthorized, authErrorMessage(err))
			return
		}

		tenantID, err := claims.TenantUUID()
		if err != nil {
			abortWithError(c, dto.ErrCodeUnauthorized, authErrorMessage(err))
			return
		}

		c.Set(ClaimsKey, claims)
		setTenant(c, tenantID)
		c.Next()
	}
}

func setTenant(c *gin.Context, tenantID uuid.UUID) {
	c.Set(TenantIDKey, tenantID)
	c.Request = c.Request.WithContext(logger.WithTenantID(c.Request.Context(), tenantID.String()))
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Access token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "Access token is not yet valid"
	case errors.Is(err, auth.ErrMissingTenantID), errors.Is(err, auth.ErrInvalidClaims):
		return "Access token has invalid claims"
	default:
		return "Invalid access token"
	}
}

// GetTenantID returns the tenant resolved by TenantAuth
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(TenantIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetClaims returns the verified token claims, or nil in development mode
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
