package models

import (
	"time"

	"gorm.io/gorm"
)

// Assignment status values.
const (
	AssignmentStatusActive   = "Active"
	AssignmentStatusReturned = "Returned"
	AssignmentStatusOverdue  = "Overdue"
	AssignmentStatusLost     = "Lost"
)

// Assignee type values.
const (
	AssigneeTypeUser       = "User"
	AssigneeTypeDepartment = "Department"
	AssigneeTypeExternal   = "External"
)

// Assignee is the party an asset was handed to. UserID is only set when the
// assignee is a registered user; the display name is always present.
type Assignee struct {
	Type   string `json:"type" gorm:"not null;type:varchar(20)"` // User, Department, External
	UserID *uint  `json:"user_id"`
	Name   string `json:"name" gorm:"not null;type:varchar(200)"`
}

// Assignment records an asset being checked out to a person, department or
// external party. Assignments are never hard-deleted.
type Assignment struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// The assigned asset
	AssetID uint   `json:"asset_id" gorm:"not null;index"`
	Asset   *Asset `json:"asset,omitempty" gorm:"foreignKey:AssetID"`

	// Who received the asset
	Assignee Assignee `json:"assignee" gorm:"embedded;embeddedPrefix:assignee_"`

	// Who authorized the assignment
	AssignedByID uint  `json:"assigned_by_id" gorm:"not null;index"`
	AssignedBy   *User `json:"assigned_by,omitempty" gorm:"foreignKey:AssignedByID"`

	// Dates
	AssignedDate       time.Time  `json:"assigned_date" gorm:"not null"`
	ExpectedReturnDate *time.Time `json:"expected_return_date"`
	ActualReturnDate   *time.Time `json:"actual_return_date"`

	// Condition snapshots
	ConditionAtAssignment string `json:"condition_at_assignment" gorm:"not null;type:varchar(20)"`
	ConditionAtReturn     string `json:"condition_at_return" gorm:"type:varchar(20)"`

	// Photo references taken at handover and at return
	PhotosAtAssignment []string `json:"photos_at_assignment" gorm:"serializer:json;type:text"`
	PhotosAtReturn     []string `json:"photos_at_return" gorm:"serializer:json;type:text"`

	Status string `json:"status" gorm:"default:'Active';index;type:varchar(20)"` // Active, Returned, Overdue, Lost
	Notes  string `json:"notes" gorm:"type:text"`
}

// TableName sets the table name for the Assignment model.
func (Assignment) TableName() string {
	return "assignments"
}

// IsOpen reports whether the assignment still holds a unit of its asset.
// Only open assignments release a unit back on return.
func (a *Assignment) IsOpen() bool {
	return a.Status == AssignmentStatusActive || a.Status == AssignmentStatusOverdue
}

// IsPastDue reports whether an active assignment has outlived its expected
// return date.
func (a *Assignment) IsPastDue() bool {
	if a.Status != AssignmentStatusActive || a.ExpectedReturnDate == nil {
		return false
	}
	return time.Now().After(*a.ExpectedReturnDate)
}
