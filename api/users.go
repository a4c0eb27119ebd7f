package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend_assetflow/models"
)

// UserAPI exposes the user directory endpoints.
type UserAPI struct {
	DB *gorm.DB
}

// NewUserAPI creates a new UserAPI.
func NewUserAPI(db *gorm.DB) *UserAPI {
	return &UserAPI{DB: db}
}

// UserSummary is the directory view of a user: enough for assignee pickers
// and audit displays, without credentials.
type UserSummary struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

// GetUsers returns all users as name-ordered summaries.
func (api *UserAPI) GetUsers(c *gin.Context) {
	var users []models.User
	if err := api.DB.Order("name ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users: " + err.Error()})
		return
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, UserSummary{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			Role:       user.Role,
			Department: user.Department,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": summaries})
}
