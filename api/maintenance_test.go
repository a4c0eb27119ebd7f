package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"backend_assetflow/models"
)

func setupMaintenanceTestAPI(t *testing.T) (*gorm.DB, *gin.Engine) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Asset{},
		&models.Assignment{},
		&models.MaintenanceRecord{},
	)
	assert.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	maintenanceAPI := NewMaintenanceAPI(db)

	api := router.Group("/api")
	{
		api.GET("/maintenance", maintenanceAPI.GetMaintenanceRecords)
		api.POST("/maintenance", maintenanceAPI.CreateMaintenanceRecord)
	}

	return db, router
}

func TestCreateMaintenanceRecord(t *testing.T) {
	db, router := setupMaintenanceTestAPI(t)

	asset := models.Asset{Name: "Laptop X1", Category: "Electronics", Location: "Office 1",
		Condition: "Good", Quantity: models.Quantity{Total: 2, Available: 1}}
	db.Create(&asset)

	cost := decimal.NewFromFloat(149.90)
	reqData := CreateMaintenanceRequest{
		AssetID:     asset.ID,
		Type:        models.MaintenanceTypeRepair,
		Description: "Replaced the battery",
		Cost:        &cost,
		PerformedBy: "TechFix Ltd",
		Status:      models.MaintenanceStatusCompleted,
	}

	jsonData, _ := json.Marshal(reqData)
	req, _ := http.NewRequest("POST", "/api/maintenance", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Maintenance record created", response["message"])

	var created models.MaintenanceRecord
	err = db.Where("asset_id = ?", asset.ID).First(&created).Error
	assert.NoError(t, err)
	assert.Equal(t, models.MaintenanceTypeRepair, created.Type)
	assert.True(t, created.Cost.Equal(cost))
	// Date defaults to "now" when omitted
	assert.WithinDuration(t, time.Now(), created.Date, time.Minute)

	// Logging maintenance leaves the asset untouched
	var unchanged models.Asset
	db.First(&unchanged, asset.ID)
	assert.Equal(t, "Good", unchanged.Condition)
	assert.Equal(t, 1, unchanged.Quantity.Available)
}

func TestCreateMaintenanceRecordValidation(t *testing.T) {
	db, router := setupMaintenanceTestAPI(t)

	asset := models.Asset{Name: "Printer", Category: "Electronics", Location: "Office 1",
		Quantity: models.Quantity{Total: 1, Available: 1}}
	db.Create(&asset)

	t.Run("Unknown asset", func(t *testing.T) {
		jsonData, _ := json.Marshal(CreateMaintenanceRequest{
			AssetID:     9999,
			Type:        models.MaintenanceTypeInspection,
			Description: "Annual check",
			PerformedBy: "Inspector",
		})
		req, _ := http.NewRequest("POST", "/api/maintenance", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Unknown type", func(t *testing.T) {
		jsonData, _ := json.Marshal(map[string]interface{}{
			"asset_id":     asset.ID,
			"type":         "Upgrade",
			"description":  "RAM bump",
			"performed_by": "TechFix Ltd",
		})
		req, _ := http.NewRequest("POST", "/api/maintenance", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing description", func(t *testing.T) {
		jsonData, _ := json.Marshal(map[string]interface{}{
			"asset_id":     asset.ID,
			"type":         "Repair",
			"performed_by": "TechFix Ltd",
		})
		req, _ := http.NewRequest("POST", "/api/maintenance", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetMaintenanceRecords(t *testing.T) {
	db, router := setupMaintenanceTestAPI(t)

	laptop := models.Asset{Name: "Laptop X1", Category: "Electronics", Location: "Office 1",
		Quantity: models.Quantity{Total: 1, Available: 1}}
	db.Create(&laptop)
	van := models.Asset{Name: "Van", Category: "Vehicles", Location: "Garage",
		Quantity: models.Quantity{Total: 1, Available: 1}}
	db.Create(&van)

	records := []models.MaintenanceRecord{
		{AssetID: laptop.ID, Type: models.MaintenanceTypeRepair, Description: "Screen swap",
			PerformedBy: "TechFix Ltd", Date: time.Now().AddDate(0, 0, -2),
			Status: models.MaintenanceStatusCompleted},
		{AssetID: laptop.ID, Type: models.MaintenanceTypeInspection, Description: "Annual check",
			PerformedBy: "Inspector", Date: time.Now(),
			Status: models.MaintenanceStatusScheduled},
		{AssetID: van.ID, Type: models.MaintenanceTypeMaintenance, Description: "Oil change",
			PerformedBy: "Garage", Date: time.Now().AddDate(0, 0, -1),
			Status: models.MaintenanceStatusCompleted},
	}
	for i := range records {
		db.Create(&records[i])
	}

	t.Run("All records newest first", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/maintenance", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)

		data := response["data"].([]interface{})
		assert.Len(t, data, 3)

		first := data[0].(map[string]interface{})
		assert.Equal(t, "Annual check", first["description"])
		assert.NotNil(t, first["asset"])
	})

	t.Run("Filter by asset", func(t *testing.T) {
		req, _ := http.NewRequest("GET", fmt.Sprintf("/api/maintenance?asset_id=%d", laptop.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Len(t, response["data"].([]interface{}), 2)
	})

	t.Run("Filter by status", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/maintenance?status=Scheduled", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Len(t, response["data"].([]interface{}), 1)
	})
}
