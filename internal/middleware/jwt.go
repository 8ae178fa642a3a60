package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/pkg/config"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

type claimsCtxKey struct{}

// JWT protects routes by requiring a valid access token issued by the
// external identity provider. Claims are stored on both the gin context and
// the request context, so stream goroutines keep the identity after the
// handler returns.
func JWT(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := ValidateToken(parts[1], cfg)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), claimsCtxKey{}, claims))
		c.Next()
	}
}

// ValidateToken verifies the signature, expiry and issuer of an access token.
func ValidateToken(token string, cfg config.JWTConfig) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token expired")
		}
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	if !parsed.Valid || claims.UID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return claims, nil
}

// CurrentClaims returns the verified claims stored by JWT, if any.
func CurrentClaims(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}

// ClaimsFromContext returns the claims carried by a request context.
func ClaimsFromContext(ctx context.Context) (*models.JWTClaims, bool) {
	claims, ok := ctx.Value(claimsCtxKey{}).(*models.JWTClaims)
	return claims, ok
}

// Identity resolves the authenticated user id from a request context. It is
// the identity collaborator handed to the services.
type Identity struct{}

// CurrentUserID implements the service identity contract.
func (Identity) CurrentUserID(ctx context.Context) (string, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.UID == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "not authenticated")
	}
	return claims.UID, nil
}
