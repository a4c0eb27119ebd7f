package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Maintenance record type values.
const (
	MaintenanceTypeRepair      = "Repair"
	MaintenanceTypeMaintenance = "Maintenance"
	MaintenanceTypeDamage      = "Damage"
	MaintenanceTypeInspection  = "Inspection"
)

// Maintenance record status values.
const (
	MaintenanceStatusPending    = "Pending"
	MaintenanceStatusInProgress = "In Progress"
	MaintenanceStatusCompleted  = "Completed"
	MaintenanceStatusScheduled  = "Scheduled"
)

// MaintenanceRecord is a log entry describing repair, inspection or damage
// work on an asset. Records are append-only: they are never updated or
// deleted, and logging one has no side effect on the asset itself.
type MaintenanceRecord struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// The serviced asset
	AssetID uint   `json:"asset_id" gorm:"not null;index"`
	Asset   *Asset `json:"asset,omitempty" gorm:"foreignKey:AssetID"`

	Type        string `json:"type" gorm:"not null;type:varchar(20)"` // Repair, Maintenance, Damage, Inspection
	Description string `json:"description" gorm:"not null;type:text"`

	Cost        decimal.Decimal `json:"cost" gorm:"type:decimal(10,2)"`
	PerformedBy string          `json:"performed_by" gorm:"not null;type:varchar(200)"`

	// Date covers both "occurred" and "scheduled" semantics; NextCheckup
	// carries the forward-looking follow-up date.
	Date        time.Time  `json:"date" gorm:"not null"`
	NextCheckup *time.Time `json:"next_checkup"`

	Photos []string `json:"photos" gorm:"serializer:json;type:text"`

	Status string `json:"status" gorm:"default:'Completed';type:varchar(20)"` // Pending, In Progress, Completed, Scheduled
}

// TableName sets the table name for the MaintenanceRecord model.
func (MaintenanceRecord) TableName() string {
	return "maintenance_records"
}

// IsDone reports whether the work has been carried out.
func (m *MaintenanceRecord) IsDone() bool {
	return m.Status == MaintenanceStatusCompleted
}
