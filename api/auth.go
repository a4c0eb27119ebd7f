package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend_assetflow/middleware"
	"backend_assetflow/models"
)

// AuthAPI exposes the credential endpoints.
type AuthAPI struct {
	DB   *gorm.DB
	Auth *middleware.AuthMiddleware
}

// NewAuthAPI creates a new AuthAPI.
func NewAuthAPI(db *gorm.DB, auth *middleware.AuthMiddleware) *AuthAPI {
	return &AuthAPI{DB: db, Auth: auth}
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=3,max=100"`
}

// logAuthOperation emits one structured log line per auth event.
func logAuthOperation(operation, email string, details map[string]interface{}) {
	logData := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
		"operation": operation,
		"email":     email,
	}

	for key, value := range details {
		logData[key] = value
	}

	logJSON, _ := json.Marshal(logData)
	log.Printf("AUTH_LOG: %s", string(logJSON))
}

// Login verifies credentials and issues a session token.
func (api *AuthAPI) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logAuthOperation("login_validation_error", req.Email, map[string]interface{}{
			"error":      err.Error(),
			"status":     "failed",
			"ip_address": c.ClientIP(),
		})
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	var user models.User
	if err := api.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		logAuthOperation("login_unknown_user", req.Email, map[string]interface{}{
			"status":     "failed",
			"ip_address": c.ClientIP(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.CheckPassword(req.Password) {
		logAuthOperation("login_bad_password", req.Email, map[string]interface{}{
			"status":     "failed",
			"ip_address": c.ClientIP(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := api.Auth.GenerateToken(&user)
	if err != nil {
		logAuthOperation("login_token_error", req.Email, map[string]interface{}{
			"error":  err.Error(),
			"status": "failed",
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	logAuthOperation("login_success", req.Email, map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
		"status":  "success",
	})

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"token": token,
			"user":  user,
		},
	})
}

// GetMe returns the account behind the current session token.
func (api *AuthAPI) GetMe(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var user models.User
	if err := api.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}
