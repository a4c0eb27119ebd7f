package models

import (
	"time"

	"gorm.io/gorm"
)

// Asset condition values.
const (
	ConditionNew    = "New"
	ConditionGood   = "Good"
	ConditionFair   = "Fair"
	ConditionPoor   = "Poor"
	ConditionBroken = "Broken"
)

// Default asset categories. The category field itself is free text, so new
// categories can be introduced without a migration.
var DefaultCategories = []string{
	"Electronics",
	"Furniture",
	"Office Supplies",
	"Vehicles",
	"Tools",
}

// Quantity tracks how many units of an asset exist and how many are on hand.
type Quantity struct {
	Total     int `json:"total" gorm:"not null;default:1"`
	Available int `json:"available" gorm:"not null;default:1"`
}

// Valid reports whether the counters satisfy 0 <= available <= total.
func (q Quantity) Valid() bool {
	return q.Available >= 0 && q.Available <= q.Total
}

// Asset represents a tracked physical item or item class.
type Asset struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// Core attributes
	Name        string `json:"name" gorm:"not null;index;type:varchar(200)"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category" gorm:"not null;index;type:varchar(50)"` // Electronics, Furniture, Office Supplies, Vehicles, Tools

	// SerialNumber is unique when present; NULL is allowed for any number of assets.
	SerialNumber *string    `json:"serial_number" gorm:"uniqueIndex;type:varchar(100)"`
	PurchaseDate *time.Time `json:"purchase_date"`

	Condition string `json:"condition" gorm:"default:'Good';type:varchar(20)"` // New, Good, Fair, Poor, Broken
	Location  string `json:"location" gorm:"not null;type:varchar(200)"`

	// Unit accounting
	Quantity Quantity `json:"quantity" gorm:"embedded;embeddedPrefix:quantity_"`

	// Uploaded file references (public paths returned by the upload endpoint)
	Photos    []string `json:"photos" gorm:"serializer:json;type:text"`
	Documents []string `json:"documents" gorm:"serializer:json;type:text"`

	// Relations
	Assignments        []Assignment        `json:"assignments,omitempty" gorm:"foreignKey:AssetID"`
	MaintenanceRecords []MaintenanceRecord `json:"maintenance_records,omitempty" gorm:"foreignKey:AssetID"`
}

// TableName sets the table name for the Asset model.
func (Asset) TableName() string {
	return "assets"
}

// IsAvailable reports whether at least one unit can be assigned.
func (a *Asset) IsAvailable() bool {
	return a.Quantity.Available > 0
}

// NeedsAttention reports whether the asset is in a state worth flagging.
func (a *Asset) NeedsAttention() bool {
	return a.Condition == ConditionPoor || a.Condition == ConditionBroken
}
