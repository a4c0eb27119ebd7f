package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend_assetflow/models"
	"backend_assetflow/services"
)

// AssetAPI exposes the asset registry endpoints.
type AssetAPI struct {
	DB      *gorm.DB
	Cache   *services.CacheService
	Exports *services.ExportService
}

// NewAssetAPI creates a new AssetAPI.
func NewAssetAPI(db *gorm.DB, cache *services.CacheService, exports *services.ExportService) *AssetAPI {
	return &AssetAPI{DB: db, Cache: cache, Exports: exports}
}

// QuantityRequest is the unit-count section of an asset creation request.
// Available is always initialized to Total, regardless of the request.
type QuantityRequest struct {
	Total int `json:"total" binding:"omitempty,min=1"`
}

// CreateAssetRequest is the payload for registering an asset.
type CreateAssetRequest struct {
	Name         string          `json:"name" binding:"required,max=200"`
	Description  string          `json:"description"`
	Category     string          `json:"category" binding:"required,max=50"`
	SerialNumber string          `json:"serial_number" binding:"max=100"`
	PurchaseDate *time.Time      `json:"purchase_date"`
	Condition    string          `json:"condition" binding:"omitempty,oneof=New Good Fair Poor Broken"`
	Location     string          `json:"location" binding:"required,max=200"`
	Quantity     QuantityRequest `json:"quantity"`
	Photos       []string        `json:"photos"`
	Documents    []string        `json:"documents"`
}

// QuantityPatch carries partial unit-count updates.
type QuantityPatch struct {
	Total     *int `json:"total" binding:"omitempty,min=1"`
	Available *int `json:"available" binding:"omitempty,min=0"`
}

// UpdateAssetRequest is the partial-update payload for an asset. Only fields
// present in the body are applied.
type UpdateAssetRequest struct {
	Name         *string        `json:"name" binding:"omitempty,max=200"`
	Description  *string        `json:"description"`
	Category     *string        `json:"category" binding:"omitempty,max=50"`
	SerialNumber *string        `json:"serial_number" binding:"omitempty,max=100"`
	PurchaseDate *time.Time     `json:"purchase_date"`
	Condition    *string        `json:"condition" binding:"omitempty,oneof=New Good Fair Poor Broken"`
	Location     *string        `json:"location" binding:"omitempty,max=200"`
	Quantity     *QuantityPatch `json:"quantity"`
	Photos       *[]string      `json:"photos"`
	Documents    *[]string      `json:"documents"`
}

// GetAssets returns the asset list, newest first, with optional category and
// text filters.
func (api *AssetAPI) GetAssets(c *gin.Context) {
	query := api.DB.Model(&models.Asset{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(serial_number) LIKE LOWER(?)",
			pattern, pattern)
	}

	var assets []models.Asset
	if err := query.Order("created_at DESC").Find(&assets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load assets: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": assets})
}

// GetAsset returns one asset together with its assignment history,
// newest first.
func (api *AssetAPI) GetAsset(c *gin.Context) {
	id := c.Param("id")

	var asset models.Asset
	if err := api.DB.First(&asset, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load asset"})
		}
		return
	}

	var history []models.Assignment
	if err := api.DB.Preload("AssignedBy").
		Where("asset_id = ?", asset.ID).
		Order("created_at DESC").
		Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load assignment history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"asset":   asset,
			"history": history,
		},
	})
}

// CreateAsset registers a new asset. The available counter always starts
// equal to the total unit count.
func (api *AssetAPI) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	total := req.Quantity.Total
	if total == 0 {
		total = 1
	}

	asset := models.Asset{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		PurchaseDate: req.PurchaseDate,
		Condition:    req.Condition,
		Location:     req.Location,
		Quantity:     models.Quantity{Total: total, Available: total},
		Photos:       req.Photos,
		Documents:    req.Documents,
	}

	if req.SerialNumber != "" {
		var count int64
		api.DB.Model(&models.Asset{}).Where("serial_number = ?", req.SerialNumber).Count(&count)
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Serial number already in use"})
			return
		}
		asset.SerialNumber = &req.SerialNumber
	}

	if err := api.DB.Create(&asset).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create asset: " + err.Error()})
		return
	}

	api.invalidateStats()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Asset created",
		"data":    asset,
	})
}

// UpdateAsset applies a partial patch to an asset. A patch that would leave
// the quantity counters outside 0 <= available <= total is rejected.
func (api *AssetAPI) UpdateAsset(c *gin.Context) {
	id := c.Param("id")

	var asset models.Asset
	if err := api.DB.First(&asset, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load asset"})
		}
		return
	}

	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if req.Name != nil {
		asset.Name = *req.Name
	}
	if req.Description != nil {
		asset.Description = *req.Description
	}
	if req.Category != nil {
		asset.Category = *req.Category
	}
	if req.SerialNumber != nil {
		serial := *req.SerialNumber
		if serial == "" {
			asset.SerialNumber = nil
		} else {
			var count int64
			api.DB.Model(&models.Asset{}).
				Where("serial_number = ? AND id <> ?", serial, asset.ID).
				Count(&count)
			if count > 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Serial number already in use"})
				return
			}
			asset.SerialNumber = &serial
		}
	}
	if req.PurchaseDate != nil {
		asset.PurchaseDate = req.PurchaseDate
	}
	if req.Condition != nil {
		asset.Condition = *req.Condition
	}
	if req.Location != nil {
		asset.Location = *req.Location
	}
	if req.Photos != nil {
		asset.Photos = *req.Photos
	}
	if req.Documents != nil {
		asset.Documents = *req.Documents
	}
	if req.Quantity != nil {
		if req.Quantity.Total != nil {
			asset.Quantity.Total = *req.Quantity.Total
		}
		if req.Quantity.Available != nil {
			asset.Quantity.Available = *req.Quantity.Available
		}
	}

	if !asset.Quantity.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Available units must be between 0 and total"})
		return
	}

	if err := api.DB.Save(&asset).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update asset: " + err.Error()})
		return
	}

	api.invalidateStats()

	c.JSON(http.StatusOK, gin.H{
		"message": "Asset updated",
		"data":    asset,
	})
}

// DeleteAsset removes an asset. Deletion is blocked while any Active or
// Overdue assignment still references the asset.
func (api *AssetAPI) DeleteAsset(c *gin.Context) {
	id := c.Param("id")

	var asset models.Asset
	if err := api.DB.First(&asset, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load asset"})
		}
		return
	}

	var openCount int64
	api.DB.Model(&models.Assignment{}).
		Where("asset_id = ? AND status IN ?", asset.ID,
			[]string{models.AssignmentStatusActive, models.AssignmentStatusOverdue}).
		Count(&openCount)
	if openCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Asset has open assignments and cannot be deleted"})
		return
	}

	if err := api.DB.Delete(&asset).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete asset"})
		return
	}

	api.invalidateStats()

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}

// ExportAssets streams the asset inventory as an XLSX download.
func (api *AssetAPI) ExportAssets(c *gin.Context) {
	f, err := api.Exports.AssetsXLSX()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export: " + err.Error()})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="assets.xlsx"`)
	if _, err := f.WriteTo(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write export"})
		return
	}
}

func (api *AssetAPI) invalidateStats() {
	if api.Cache != nil {
		api.Cache.InvalidateDashboardStats()
	}
}
