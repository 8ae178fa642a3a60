package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/pkg/config"
)

func signToken(t *testing.T, secret string, claims models.JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func testClaims(uid string) models.JWTClaims {
	return models.JWTClaims{
		UID:      uid,
		IsMentor: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "mentorlink",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestJWTAcceptsValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "mentorlink"}

	router := gin.New()
	router.Use(JWT(cfg))
	router.GET("/protected", func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		require.True(t, ok)

		ctxClaims, ok := ClaimsFromContext(c.Request.Context())
		require.True(t, ok, "claims must also live on the request context")
		assert.Equal(t, claims.UID, ctxClaims.UID)
		c.Status(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", testClaims("user-100")))
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWT(config.JWTConfig{Secret: "test-secret"}))
	router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWT(config.JWTConfig{Secret: "test-secret", Issuer: "mentorlink"}))
	router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", testClaims("user-100")))
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWT(config.JWTConfig{Secret: "test-secret"}))
	router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	claims := testClaims("user-100")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", claims))
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireMentorBlocksMentees(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.JWTConfig{Secret: "test-secret"}
	router := gin.New()
	router.Use(JWT(cfg), RequireMentor())
	router.GET("/mentor", func(c *gin.Context) { c.Status(http.StatusOK) })

	claims := testClaims("user-100")
	claims.IsMentor = false
	claims.IsMentee = true

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/mentor", nil)
	request.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", claims))
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestRequireMenteeAllowsMentees(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.JWTConfig{Secret: "test-secret"}
	router := gin.New()
	router.Use(JWT(cfg), RequireMentee())
	router.GET("/mentee", func(c *gin.Context) { c.Status(http.StatusOK) })

	claims := testClaims("user-100")
	claims.IsMentee = true

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/mentee", nil)
	request.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", claims))
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestIdentityRequiresClaims(t *testing.T) {
	_, err := Identity{}.CurrentUserID(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	require.Error(t, err)
}
