package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"backend_assetflow/models"
)

func createOverdueFixtures(t *testing.T, db *gorm.DB) (models.User, models.Asset) {
	user := models.User{Name: "Manager", Email: "manager@test.local", Role: models.RoleStaff}
	assert.NoError(t, user.SetPassword("secret"))
	assert.NoError(t, db.Create(&user).Error)

	asset := models.Asset{Name: "Laptop X1", Category: "Electronics", Location: "Office 1",
		Quantity: models.Quantity{Total: 5, Available: 1}}
	assert.NoError(t, db.Create(&asset).Error)

	return user, asset
}

func TestMarkOverdueAssignments(t *testing.T) {
	db := setupServiceTestDB(t)
	user, asset := createOverdueFixtures(t, db)

	past := time.Now().AddDate(0, 0, -3)
	future := time.Now().AddDate(0, 0, 3)

	assignments := []models.Assignment{
		// Past due and active: must be flagged
		{AssetID: asset.ID, AssignedByID: user.ID, AssignedDate: past,
			Assignee:              models.Assignee{Type: models.AssigneeTypeUser, Name: "Late"},
			ExpectedReturnDate:    &past,
			ConditionAtAssignment: "Good", Status: models.AssignmentStatusActive},
		// Not yet due
		{AssetID: asset.ID, AssignedByID: user.ID, AssignedDate: past,
			Assignee:              models.Assignee{Type: models.AssigneeTypeUser, Name: "On time"},
			ExpectedReturnDate:    &future,
			ConditionAtAssignment: "Good", Status: models.AssignmentStatusActive},
		// No deadline at all
		{AssetID: asset.ID, AssignedByID: user.ID, AssignedDate: past,
			Assignee:              models.Assignee{Type: models.AssigneeTypeUser, Name: "Open ended"},
			ConditionAtAssignment: "Good", Status: models.AssignmentStatusActive},
		// Past due but already closed
		{AssetID: asset.ID, AssignedByID: user.ID, AssignedDate: past,
			Assignee:              models.Assignee{Type: models.AssigneeTypeUser, Name: "Closed"},
			ExpectedReturnDate:    &past,
			ConditionAtAssignment: "Good", Status: models.AssignmentStatusReturned},
	}
	for i := range assignments {
		assert.NoError(t, db.Create(&assignments[i]).Error)
	}

	service := NewOverdueService(db, nil)
	marked, err := service.MarkOverdueAssignments()
	assert.NoError(t, err)
	assert.Equal(t, 1, marked)

	var flagged models.Assignment
	db.First(&flagged, assignments[0].ID)
	assert.Equal(t, models.AssignmentStatusOverdue, flagged.Status)

	var untouched models.Assignment
	db.First(&untouched, assignments[1].ID)
	assert.Equal(t, models.AssignmentStatusActive, untouched.Status)

	// The flip does not release any units
	var unchanged models.Asset
	db.First(&unchanged, asset.ID)
	assert.Equal(t, 1, unchanged.Quantity.Available)
}

func TestMarkOverdueAssignmentsSecondSweepIsNoop(t *testing.T) {
	db := setupServiceTestDB(t)
	user, asset := createOverdueFixtures(t, db)

	past := time.Now().AddDate(0, 0, -1)
	assignment := models.Assignment{AssetID: asset.ID, AssignedByID: user.ID, AssignedDate: past,
		Assignee:              models.Assignee{Type: models.AssigneeTypeUser, Name: "Late"},
		ExpectedReturnDate:    &past,
		ConditionAtAssignment: "Good", Status: models.AssignmentStatusActive}
	assert.NoError(t, db.Create(&assignment).Error)

	service := NewOverdueService(db, nil)

	marked, err := service.MarkOverdueAssignments()
	assert.NoError(t, err)
	assert.Equal(t, 1, marked)

	marked, err = service.MarkOverdueAssignments()
	assert.NoError(t, err)
	assert.Equal(t, 0, marked)
}
