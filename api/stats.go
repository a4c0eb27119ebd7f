package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend_assetflow/models"
	"backend_assetflow/services"
)

// StatsAPI exposes the dashboard aggregation endpoint.
type StatsAPI struct {
	DB    *gorm.DB
	Cache *services.CacheService
}

// NewStatsAPI creates a new StatsAPI.
func NewStatsAPI(db *gorm.DB, cache *services.CacheService) *StatsAPI {
	return &StatsAPI{DB: db, Cache: cache}
}

// DashboardStats is the aggregate payload behind the dashboard cards.
type DashboardStats struct {
	TotalAssets       int64            `json:"total_assets"`
	ActiveAssignments int64            `json:"active_assignments"`
	BrokenAssets      int64            `json:"broken_assets"`
	AvailableUnits    int64            `json:"available_units"`
	Categories        map[string]int64 `json:"categories"`
	RecentActivity    []ActivityItem   `json:"recent_activity"`
	LastUpdated       time.Time        `json:"last_updated"`
}

// ActivityItem is one row of the recent activity feed.
type ActivityItem struct {
	ID       uint      `json:"id"`
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	Date     time.Time `json:"date"`
}

// GetStats returns the dashboard aggregates. The payload is cached for a
// short TTL and recomputed on demand; all queries are read-only.
func (api *StatsAPI) GetStats(c *gin.Context) {
	if api.Cache != nil {
		var cached DashboardStats
		if err := api.Cache.GetCachedDashboardStats(&cached); err == nil {
			c.JSON(http.StatusOK, gin.H{"data": cached})
			return
		}
	}

	stats := DashboardStats{
		Categories:  make(map[string]int64),
		LastUpdated: time.Now(),
	}

	if err := api.DB.Model(&models.Asset{}).Count(&stats.TotalAssets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats: " + err.Error()})
		return
	}
	api.DB.Model(&models.Assignment{}).
		Where("status = ?", models.AssignmentStatusActive).
		Count(&stats.ActiveAssignments)
	api.DB.Model(&models.Asset{}).
		Where("condition = ?", models.ConditionBroken).
		Count(&stats.BrokenAssets)

	api.DB.Model(&models.Asset{}).
		Select("COALESCE(SUM(quantity_available), 0)").
		Scan(&stats.AvailableUnits)

	var breakdown []struct {
		Category string
		Count    int64
	}
	api.DB.Model(&models.Asset{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&breakdown)
	for _, row := range breakdown {
		stats.Categories[row.Category] = row.Count
	}

	var recent []models.Assignment
	api.DB.Preload("Asset").
		Order("assigned_date DESC").
		Limit(5).
		Find(&recent)
	for _, assignment := range recent {
		assetName := "Asset"
		if assignment.Asset != nil {
			assetName = assignment.Asset.Name
		}
		stats.RecentActivity = append(stats.RecentActivity, ActivityItem{
			ID:       assignment.ID,
			Type:     "assignment",
			Title:    assetName + " assigned to " + assignment.Assignee.Name,
			Subtitle: assignment.Assignee.Type + " • " + assignment.AssignedDate.Format("2006-01-02"),
			Date:     assignment.AssignedDate,
		})
	}

	if api.Cache != nil {
		api.Cache.CacheDashboardStats(stats)
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
