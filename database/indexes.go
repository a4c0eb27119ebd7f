package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
)

// DatabaseIndex describes a single database index.
type DatabaseIndex struct {
	Name    string
	Table   string
	Columns []string
	Unique  bool
}

// PerformanceIndexes are created on top of the GORM auto-migration to keep
// the list, search and stats queries fast.
var PerformanceIndexes = []DatabaseIndex{
	// assets
	{
		Name:    "idx_assets_category_created",
		Table:   "assets",
		Columns: []string{"category", "created_at"},
	},
	{
		Name:    "idx_assets_condition",
		Table:   "assets",
		Columns: []string{"condition"},
	},
	// assignments
	{
		Name:    "idx_assignments_asset_status",
		Table:   "assignments",
		Columns: []string{"asset_id", "status"},
	},
	{
		Name:    "idx_assignments_assigned_date",
		Table:   "assignments",
		Columns: []string{"assigned_date"},
	},
	{
		Name:    "idx_assignments_expected_return",
		Table:   "assignments",
		Columns: []string{"status", "expected_return_date"},
	},
	// maintenance
	{
		Name:    "idx_maintenance_asset_date",
		Table:   "maintenance_records",
		Columns: []string{"asset_id", "date"},
	},
}

// CreateIndexes creates all performance indexes, skipping existing ones.
func CreateIndexes(db *gorm.DB) error {
	for _, idx := range PerformanceIndexes {
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		stmt := fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s);",
			unique, idx.Name, idx.Table, strings.Join(idx.Columns, ", "))

		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.Name, err)
		}
	}

	log.Printf("Created %d performance indexes", len(PerformanceIndexes))
	return nil
}
