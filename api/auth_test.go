package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"backend_assetflow/middleware"
	"backend_assetflow/models"
)

func setupAuthTestAPI(t *testing.T) (*gorm.DB, *gin.Engine) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(&models.User{})
	assert.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	authMW := middleware.NewAuthMiddleware("test-secret", "assetflow-test", time.Hour)
	authAPI := NewAuthAPI(db, authMW)

	router.POST("/api/auth/login", authAPI.Login)
	router.GET("/api/auth/me", authMW.RequireAuth(), authAPI.GetMe)

	return db, router
}

func loginRequest(router *gin.Engine, email, password string) *httptest.ResponseRecorder {
	jsonData, _ := json.Marshal(LoginRequest{Email: email, Password: password})
	req, _ := http.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	db, router := setupAuthTestAPI(t)

	user := models.User{Name: "Admin", Email: "admin@test.local", Role: models.RoleAdmin}
	assert.NoError(t, user.SetPassword("admin123"))
	db.Create(&user)

	w := loginRequest(router, "admin@test.local", "admin123")

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	userData := data["user"].(map[string]interface{})
	assert.Equal(t, "admin@test.local", userData["email"])
	assert.Equal(t, models.RoleAdmin, userData["role"])
	// The password hash never leaves the server
	_, exposed := userData["password"]
	assert.False(t, exposed)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db, router := setupAuthTestAPI(t)

	user := models.User{Name: "Admin", Email: "admin@test.local", Role: models.RoleAdmin}
	user.SetPassword("admin123")
	db.Create(&user)

	t.Run("Wrong password", func(t *testing.T) {
		w := loginRequest(router, "admin@test.local", "nope123")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, "Invalid credentials", response["error"])
	})

	t.Run("Unknown user", func(t *testing.T) {
		w := loginRequest(router, "ghost@test.local", "admin123")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		// Same message as for a wrong password
		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, "Invalid credentials", response["error"])
	})

	t.Run("Malformed email", func(t *testing.T) {
		w := loginRequest(router, "not-an-email", "admin123")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetMe(t *testing.T) {
	db, router := setupAuthTestAPI(t)

	user := models.User{Name: "Staff User", Email: "staff@test.local", Role: models.RoleStaff}
	user.SetPassword("staff123")
	db.Create(&user)

	w := loginRequest(router, "staff@test.local", "staff123")
	assert.Equal(t, http.StatusOK, w.Code)

	var loginResponse map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &loginResponse)
	token := loginResponse["data"].(map[string]interface{})["token"].(string)

	t.Run("With valid token", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)

		data := response["data"].(map[string]interface{})
		assert.Equal(t, "staff@test.local", data["email"])
	})

	t.Run("Without token", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/auth/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("With garbage token", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
