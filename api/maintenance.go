package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"backend_assetflow/models"
)

// MaintenanceAPI exposes the maintenance log endpoints.
type MaintenanceAPI struct {
	DB *gorm.DB
}

// NewMaintenanceAPI creates a new MaintenanceAPI.
func NewMaintenanceAPI(db *gorm.DB) *MaintenanceAPI {
	return &MaintenanceAPI{DB: db}
}

// CreateMaintenanceRequest is the payload for logging maintenance work.
type CreateMaintenanceRequest struct {
	AssetID     uint             `json:"asset_id" binding:"required"`
	Type        string           `json:"type" binding:"required,oneof=Repair Maintenance Damage Inspection"`
	Description string           `json:"description" binding:"required"`
	Cost        *decimal.Decimal `json:"cost"`
	PerformedBy string           `json:"performed_by" binding:"required,max=200"`
	Date        *time.Time       `json:"date"`
	NextCheckup *time.Time       `json:"next_checkup"`
	Photos      []string         `json:"photos"`
	Status      string           `json:"status" binding:"omitempty,oneof=Pending 'In Progress' Completed Scheduled"`
}

// GetMaintenanceRecords returns the maintenance log, newest-dated first.
func (api *MaintenanceAPI) GetMaintenanceRecords(c *gin.Context) {
	query := api.DB.Preload("Asset")

	assetID := c.Query("asset_id")
	if assetID == "" {
		assetID = c.Query("assetId")
	}
	if assetID != "" {
		query = query.Where("asset_id = ?", assetID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var records []models.MaintenanceRecord
	if err := query.Order("date DESC").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load maintenance records: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}

// CreateMaintenanceRecord logs maintenance work against an asset. The record
// has no side effect on the asset's condition or availability.
func (api *MaintenanceAPI) CreateMaintenanceRecord(c *gin.Context) {
	var req CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var asset models.Asset
	if err := api.DB.First(&asset, req.AssetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load asset"})
		}
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	record := models.MaintenanceRecord{
		AssetID:     req.AssetID,
		Type:        req.Type,
		Description: req.Description,
		PerformedBy: req.PerformedBy,
		Date:        date,
		NextCheckup: req.NextCheckup,
		Photos:      req.Photos,
		Status:      req.Status,
	}
	if req.Cost != nil {
		record.Cost = *req.Cost
	}

	if err := api.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create maintenance record: " + err.Error()})
		return
	}

	api.DB.Preload("Asset").First(&record, record.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Maintenance record created",
		"data":    record,
	})
}
