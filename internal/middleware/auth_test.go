package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"castboard_backend/internal/auth"
	"castboard_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(tm *auth.TokenManager, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(tm)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID, "role": actor.Role})
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tm := auth.NewTokenManager("middleware-secret", time.Hour, time.Hour, time.Hour)
	r := newAuthRouter(tm)

	t.Run("без заголовка", func(t *testing.T) {
		w := doGet(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("мусорный токен", func(t *testing.T) {
		w := doGet(r, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("refresh вместо access", func(t *testing.T) {
		refresh, err := tm.GenerateRefreshToken(auth.Subject{UserID: 5, Role: "Agent"})
		require.NoError(t, err)
		w := doGet(r, refresh.Token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("валидный access", func(t *testing.T) {
		access, err := tm.GenerateAccessToken(auth.Subject{UserID: 5, Role: "Agent"})
		require.NoError(t, err)
		w := doGet(r, access.Token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":5,"role":"Agent"}`, w.Body.String())
	})
}

func TestRequireRoles(t *testing.T) {
	tm := auth.NewTokenManager("middleware-secret", time.Hour, time.Hour, time.Hour)
	r := newAuthRouter(tm, RequireRoles(models.UserRoleAgent))

	client, err := tm.GenerateAccessToken(auth.Subject{UserID: 1, Role: "Client"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doGet(r, client.Token).Code)

	agent, err := tm.GenerateAccessToken(auth.Subject{UserID: 2, Role: "Agent"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doGet(r, agent.Token).Code)

	admin, err := tm.GenerateAccessToken(auth.Subject{UserID: 3, Role: "Client", IsSuperuser: true})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doGet(r, admin.Token).Code)
}

func TestRequireSuperuser(t *testing.T) {
	tm := auth.NewTokenManager("middleware-secret", time.Hour, time.Hour, time.Hour)
	r := newAuthRouter(tm, RequireSuperuser())

	agent, err := tm.GenerateAccessToken(auth.Subject{UserID: 2, Role: "Agent"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doGet(r, agent.Token).Code)

	admin, err := tm.GenerateAccessToken(auth.Subject{UserID: 3, Role: "Client", IsSuperuser: true})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doGet(r, admin.Token).Code)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
