package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"backend_assetflow/models"
)

func setupAuthTestRouter(t *testing.T) (*AuthMiddleware, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	am := NewAuthMiddleware("test-secret", "assetflow-test", time.Hour)

	router := gin.New()
	router.GET("/protected", am.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetCurrentUserID(c),
			"email":   GetCurrentUserEmail(c),
			"role":    GetCurrentUserRole(c),
		})
	})
	router.DELETE("/admin-only", am.RequireAuth(), am.RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	return am, router
}

func tokenFor(t *testing.T, am *AuthMiddleware, role string) string {
	token, err := am.GenerateToken(&models.User{
		ID:    7,
		Email: "user@test.local",
		Role:  role,
	})
	assert.NoError(t, err)
	return token
}

func TestRequireAuth(t *testing.T) {
	am, router := setupAuthTestRouter(t)

	t.Run("Valid bearer token", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, am, models.RoleStaff))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":7`)
		assert.Contains(t, w.Body.String(), "user@test.local")
	})

	t.Run("Token prefix also accepted", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Token "+tokenFor(t, am, models.RoleStaff))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Missing header", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/protected", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Malformed token", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer garbage")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Token signed with another secret", func(t *testing.T) {
		other := NewAuthMiddleware("other-secret", "assetflow-test", time.Hour)

		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, other, models.RoleStaff))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Expired token", func(t *testing.T) {
		expired := NewAuthMiddleware("test-secret", "assetflow-test", -time.Hour)

		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, expired, models.RoleStaff))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	am, router := setupAuthTestRouter(t)

	t.Run("Admin passes", func(t *testing.T) {
		req, _ := http.NewRequest("DELETE", "/admin-only", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, am, models.RoleAdmin))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Staff is rejected", func(t *testing.T) {
		req, _ := http.NewRequest("DELETE", "/admin-only", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, am, models.RoleStaff))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
