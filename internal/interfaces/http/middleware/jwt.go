package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gestor/backend/internal/domain/identity"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/auth"
	"github.com/gestor/backend/internal/infrastructure/logger"
	"github.com/gestor/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	CallerKey     = "caller"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// Verifier is required for token validation
	Verifier *auth.JWTVerifier
	// TokenBlacklist is optional; nil skips revocation checks
	TokenBlacklist auth.TokenBlacklist
	Logger         *zap.Logger
}

// JWTAuthMiddleware authenticates the bearer token and stores the caller on the context
func JWTAuthMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, log, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		tokenString, ok := strings.CutPrefix(authHeader, BearerPrefix)
		if !ok || strings.TrimSpace(tokenString) == "" {
			abortUnauthorized(c, log, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		claims, err := cfg.Verifier.ValidateAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, log, err, "Token validation failed")
			return
		}

		if err := auth.CheckRevoked(c.Request.Context(), cfg.TokenBlacklist, claims); err != nil {
			if errors.Is(err, auth.ErrTokenRevoked) {
				abortUnauthorized(c, log, err, "Token has been revoked")
				return
			}
			// fail open when the store is unreachable
			log.Error("Failed to check token blacklist",
				zap.String("jti", claims.ID),
				zap.Int64("user_id", claims.UserID),
				zap.Error(err))
		}

		caller, err := claims.Caller()
		if err != nil {
			log.Warn("Unrecognized role in token",
				zap.Int64("user_id", claims.UserID),
				zap.String("role", claims.Role))
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, shared.ErrUnknownRole.Message, GetRequestID(c)))
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(CallerKey, caller)
		c.Request = c.Request.WithContext(
			logger.WithCaller(c.Request.Context(), caller.UserID, claims.TenantID, caller.Role.String()),
		)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error, message string) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	code := dto.ErrCodeUnauthorized
	errorMessage := "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code = dto.ErrCodeTokenExpired
		errorMessage = "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		code = dto.ErrCodeTokenRevoked
		errorMessage = "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingUserID):
		code = dto.ErrCodeTokenInvalid
		errorMessage = "Invalid token"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, errorMessage, GetRequestID(c)))
}

// GetCaller retrieves the authenticated caller from gin.Context
func GetCaller(c *gin.Context) (identity.Caller, bool) {
	if v, exists := c.Get(CallerKey); exists {
		if caller, ok := v.(identity.Caller); ok {
			return caller, true
		}
	}
	return identity.Caller{}, false
}
