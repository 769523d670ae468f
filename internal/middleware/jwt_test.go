package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edulytics/grade-analytics-api/internal/models"
	"github.com/edulytics/grade-analytics-api/internal/service"
)

func newJWTTestService(t *testing.T) (*service.AuthService, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := service.NewAuthService(nil, zap.NewNop(), service.AuthConfig{
		Secret:     "test-signing-secret",
		Expiration: time.Hour,
		Issuer:     "grade-analytics-api",
		Clients:    []string{"extension:" + string(hash)},
	})

	res, err := svc.Token(models.TokenRequest{ClientID: "extension", ClientSecret: "s3cret"})
	require.NoError(t, err)
	return svc, res.AccessToken
}

func claimsRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/whoami", func(c *gin.Context) {
		_, authenticated := c.Get(ContextClientKey)
		c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
	})
	return r
}

func doRequest(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTRequiresToken(t *testing.T) {
	svc, token := newJWTTestService(t)
	r := claimsRouter(JWT(svc))

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Bearer not-a-token").Code)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	svc, token := newJWTTestService(t)
	r := claimsRouter(OptionalJWT(svc))

	w := doRequest(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	w = doRequest(r, "Bearer not-a-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	w = doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}
