package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend_assetflow/models"
)

// SearchAPI exposes the cross-entity directory search.
type SearchAPI struct {
	DB *gorm.DB
}

// NewSearchAPI creates a new SearchAPI.
func NewSearchAPI(db *gorm.DB) *SearchAPI {
	return &SearchAPI{DB: db}
}

// searchResultLimit caps matches per entity kind.
const searchResultLimit = 5

// SearchResult is one hit in the directory search.
type SearchResult struct {
	Type        string `json:"type"` // asset, assignment, maintenance
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Search runs a case-insensitive substring search over assets, assignments
// and maintenance records. A blank query yields an empty result set, and
// each kind contributes at most five matches, concatenated in that order.
func (api *SearchAPI) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"data": []SearchResult{}})
		return
	}

	pattern := "%" + query + "%"
	results := make([]SearchResult, 0, 3*searchResultLimit)

	// Assets: name, serial number, category
	var assets []models.Asset
	if err := api.DB.
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(serial_number) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?)",
			pattern, pattern, pattern).
		Limit(searchResultLimit).
		Find(&assets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed: " + err.Error()})
		return
	}
	for _, asset := range assets {
		serial := ""
		if asset.SerialNumber != nil {
			serial = *asset.SerialNumber
		}
		results = append(results, SearchResult{
			Type:        "asset",
			Title:       asset.Name,
			Description: strings.TrimSuffix(asset.Category+" • "+serial, " • "),
			URL:         fmt.Sprintf("/assets/%d", asset.ID),
		})
	}

	// Assignments: assignee name, free-text notes
	var assignments []models.Assignment
	if err := api.DB.Preload("Asset").
		Where("LOWER(assignee_name) LIKE LOWER(?) OR LOWER(notes) LIKE LOWER(?)", pattern, pattern).
		Limit(searchResultLimit).
		Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed: " + err.Error()})
		return
	}
	for _, assignment := range assignments {
		assetName := "Asset"
		if assignment.Asset != nil {
			assetName = assignment.Asset.Name
		}
		results = append(results, SearchResult{
			Type:        "assignment",
			Title:       "Assignment to " + assignment.Assignee.Name,
			Description: assetName + " • " + assignment.Assignee.Type,
			URL:         "/assignments",
		})
	}

	// Maintenance: work type, performer
	var records []models.MaintenanceRecord
	if err := api.DB.Preload("Asset").
		Where("LOWER(type) LIKE LOWER(?) OR LOWER(performed_by) LIKE LOWER(?)", pattern, pattern).
		Limit(searchResultLimit).
		Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed: " + err.Error()})
		return
	}
	for _, record := range records {
		assetName := "Asset"
		if record.Asset != nil {
			assetName = record.Asset.Name
		}
		results = append(results, SearchResult{
			Type:        "maintenance",
			Title:       record.Type + " Maintenance",
			Description: assetName + " • " + record.PerformedBy,
			URL:         "/maintenance",
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": results})
}
