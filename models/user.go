package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User role values.
const (
	RoleAdmin   = "Admin"
	RoleStaff   = "Staff"
	RoleAuditor = "Auditor"
)

// User represents a staff account able to sign in and authorize assignments.
type User struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Name     string `json:"name" gorm:"not null;type:varchar(200)"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;type:varchar(200)"`
	Password string `json:"-" gorm:"not null"` // bcrypt hash, never serialized

	Role       string `json:"role" gorm:"default:'Staff';type:varchar(20)"` // Admin, Staff, Auditor
	Department string `json:"department" gorm:"type:varchar(100)"`
	Avatar     string `json:"avatar" gorm:"type:varchar(300)"`
}

// TableName sets the table name for the User model.
func (User) TableName() string {
	return "users"
}

// SetPassword hashes and stores the given plain-text password.
func (u *User) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword verifies a plain-text password against the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// IsAdmin reports whether the user carries the Admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
