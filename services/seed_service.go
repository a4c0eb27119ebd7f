package services

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"backend_assetflow/models"
)

// SeedService creates the fixed set of default accounts on first start.
type SeedService struct {
	DB *gorm.DB
}

// NewSeedService creates a new SeedService.
func NewSeedService(db *gorm.DB) *SeedService {
	return &SeedService{DB: db}
}

type defaultUser struct {
	Name     string
	Email    string
	Password string
	Role     string
}

var defaultUsers = []defaultUser{
	{Name: "Main Administrator", Email: "admin@example.com", Password: "admin123", Role: models.RoleAdmin},
	{Name: "Staff User", Email: "staff@example.com", Password: "staff123", Role: models.RoleStaff},
	{Name: "Auditor User", Email: "auditor@example.com", Password: "auditor123", Role: models.RoleAuditor},
}

// SeedDefaultUsers creates one user per role. Seeding is idempotent: a user
// whose email already exists is skipped.
func (ss *SeedService) SeedDefaultUsers() error {
	for _, data := range defaultUsers {
		var existing models.User
		err := ss.DB.Where("email = ?", data.Email).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("failed to check existing user %s: %w", data.Email, err)
		}

		user := models.User{
			Name:  data.Name,
			Email: data.Email,
			Role:  data.Role,
		}
		if err := user.SetPassword(data.Password); err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", data.Email, err)
		}

		if err := ss.DB.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create %s user: %w", data.Role, err)
		}
		log.Printf("Created %s user: %s", data.Role, data.Email)
	}

	return nil
}
