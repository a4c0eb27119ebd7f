package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend_assetflow/middleware"
	"backend_assetflow/models"
	"backend_assetflow/services"
)

// AssignmentAPI exposes the assignment ledger endpoints.
type AssignmentAPI struct {
	DB            *gorm.DB
	Cache         *services.CacheService
	Exports       *services.ExportService
	Notifications *services.NotificationService
}

// NewAssignmentAPI creates a new AssignmentAPI.
func NewAssignmentAPI(db *gorm.DB, cache *services.CacheService, exports *services.ExportService, notifications *services.NotificationService) *AssignmentAPI {
	return &AssignmentAPI{DB: db, Cache: cache, Exports: exports, Notifications: notifications}
}

var errNoAvailableUnits = errors.New("no available units")

// AssigneeRequest identifies the receiving party of an assignment.
type AssigneeRequest struct {
	Type   string `json:"type" binding:"required,oneof=User Department External"`
	UserID *uint  `json:"user_id"`
	Name   string `json:"name" binding:"required,max=200"`
}

// CreateAssignmentRequest is the payload for checking an asset out.
type CreateAssignmentRequest struct {
	AssetID               uint            `json:"asset_id" binding:"required"`
	Assignee              AssigneeRequest `json:"assignee" binding:"required"`
	AssignedByID          uint            `json:"assigned_by_id"`
	AssignedDate          *time.Time      `json:"assigned_date"`
	ExpectedReturnDate    *time.Time      `json:"expected_return_date"`
	ConditionAtAssignment string          `json:"condition_at_assignment" binding:"required,max=20"`
	PhotosAtAssignment    []string        `json:"photos_at_assignment"`
	Notes                 string          `json:"notes"`
}

// UpdateAssignmentRequest is the partial-update payload for an assignment.
// Setting status to Returned is the return operation.
type UpdateAssignmentRequest struct {
	Status             *string          `json:"status" binding:"omitempty,oneof=Active Returned Overdue Lost"`
	Assignee           *AssigneeRequest `json:"assignee"`
	ExpectedReturnDate *time.Time       `json:"expected_return_date"`
	ActualReturnDate   *time.Time       `json:"actual_return_date"`
	ConditionAtReturn  *string          `json:"condition_at_return" binding:"omitempty,max=20"`
	PhotosAtReturn     *[]string        `json:"photos_at_return"`
	Notes              *string          `json:"notes"`
}

// GetAssignments returns the assignment list, newest first, populated with
// the asset and the authorizing user.
func (api *AssignmentAPI) GetAssignments(c *gin.Context) {
	query := api.DB.Preload("Asset").Preload("AssignedBy")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	assetID := c.Query("asset_id")
	if assetID == "" {
		assetID = c.Query("assetId")
	}
	if assetID != "" {
		query = query.Where("asset_id = ?", assetID)
	}

	var assignments []models.Assignment
	if err := query.Order("created_at DESC").Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load assignments: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": assignments})
}

// CreateAssignment checks one unit of an asset out. The availability
// decrement and the assignment insert happen in a single transaction, and
// the request is rejected when no units are available.
func (api *AssignmentAPI) CreateAssignment(c *gin.Context) {
	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	assignedByID := req.AssignedByID
	if assignedByID == 0 {
		assignedByID = middleware.GetCurrentUserID(c)
	}
	if assignedByID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assigned_by_id is required"})
		return
	}

	assignedDate := time.Now()
	if req.AssignedDate != nil {
		assignedDate = *req.AssignedDate
	}

	assignment := models.Assignment{
		AssetID: req.AssetID,
		Assignee: models.Assignee{
			Type:   req.Assignee.Type,
			UserID: req.Assignee.UserID,
			Name:   req.Assignee.Name,
		},
		AssignedByID:          assignedByID,
		AssignedDate:          assignedDate,
		ExpectedReturnDate:    req.ExpectedReturnDate,
		ConditionAtAssignment: req.ConditionAtAssignment,
		PhotosAtAssignment:    req.PhotosAtAssignment,
		Status:                models.AssignmentStatusActive,
		Notes:                 req.Notes,
	}

	var depletedAsset *models.Asset
	err := api.DB.Transaction(func(tx *gorm.DB) error {
		var asset models.Asset
		if err := tx.First(&asset, req.AssetID).Error; err != nil {
			return err
		}

		if asset.Quantity.Available <= 0 {
			return errNoAvailableUnits
		}

		if err := tx.Model(&models.Asset{}).Where("id = ?", asset.ID).
			UpdateColumn("quantity_available", gorm.Expr("quantity_available - 1")).Error; err != nil {
			return fmt.Errorf("failed to decrement availability: %w", err)
		}

		if err := tx.Create(&assignment).Error; err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}

		if asset.Quantity.Available == 1 {
			depletedAsset = &asset
		}
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		case errors.Is(err, errNoAvailableUnits):
			c.JSON(http.StatusConflict, gin.H{"error": "No available units of this asset"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create assignment: " + err.Error()})
		}
		return
	}

	api.DB.Preload("Asset").Preload("AssignedBy").First(&assignment, assignment.ID)

	api.invalidateStats()
	if depletedAsset != nil && api.Notifications != nil {
		go api.Notifications.SendAssetDepleted(depletedAsset)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Assignment created",
		"data":    assignment,
	})
}

// UpdateAssignment applies a partial patch to an assignment. When the patch
// moves an open assignment (Active or Overdue) to Returned, one unit is
// released back to the asset, clamped to the total; the open check runs on
// the status read before the patch, so re-returning an already Returned
// assignment never releases a second unit.
func (api *AssignmentAPI) UpdateAssignment(c *gin.Context) {
	id := c.Param("id")

	var assignment models.Assignment
	if err := api.DB.First(&assignment, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load assignment"})
		}
		return
	}

	var req UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	// Decided before the patch is applied
	wasOpen := assignment.IsOpen()

	if req.Status != nil {
		assignment.Status = *req.Status
	}
	if req.Assignee != nil {
		assignment.Assignee = models.Assignee{
			Type:   req.Assignee.Type,
			UserID: req.Assignee.UserID,
			Name:   req.Assignee.Name,
		}
	}
	if req.ExpectedReturnDate != nil {
		assignment.ExpectedReturnDate = req.ExpectedReturnDate
	}
	if req.ActualReturnDate != nil {
		assignment.ActualReturnDate = req.ActualReturnDate
	}
	if req.ConditionAtReturn != nil {
		assignment.ConditionAtReturn = *req.ConditionAtReturn
	}
	if req.PhotosAtReturn != nil {
		assignment.PhotosAtReturn = *req.PhotosAtReturn
	}
	if req.Notes != nil {
		assignment.Notes = *req.Notes
	}

	returning := wasOpen && assignment.Status == models.AssignmentStatusReturned
	if returning && assignment.ActualReturnDate == nil {
		now := time.Now()
		assignment.ActualReturnDate = &now
	}

	err := api.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&assignment).Error; err != nil {
			return fmt.Errorf("failed to update assignment: %w", err)
		}

		if returning {
			// Clamped to total: a unit never comes back above the ceiling
			if err := tx.Model(&models.Asset{}).
				Where("id = ? AND quantity_available < quantity_total", assignment.AssetID).
				UpdateColumn("quantity_available", gorm.Expr("quantity_available + 1")).Error; err != nil {
				return fmt.Errorf("failed to release asset unit: %w", err)
			}
		}
		return nil
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	api.DB.Preload("Asset").Preload("AssignedBy").First(&assignment, assignment.ID)

	api.invalidateStats()

	c.JSON(http.StatusOK, gin.H{
		"message": "Assignment updated",
		"data":    assignment,
	})
}

// DownloadReceipt streams the handover receipt PDF for one assignment.
func (api *AssignmentAPI) DownloadReceipt(c *gin.Context) {
	id := c.Param("id")

	var assignment models.Assignment
	if err := api.DB.Preload("Asset").Preload("AssignedBy").First(&assignment, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load assignment"})
		}
		return
	}

	data, err := api.Exports.AssignmentReceiptPDF(&assignment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render receipt: " + err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%d.pdf"`, assignment.ID))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (api *AssignmentAPI) invalidateStats() {
	if api.Cache != nil {
		api.Cache.InvalidateDashboardStats()
	}
}
