package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"backend_assetflow/models"
)

func setupSearchTestAPI(t *testing.T) (*gorm.DB, *gin.Engine) {
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

	searchAPI := NewSearchAPI(db)
	router.GET("/api/search", searchAPI.Search)

	return db, router
}

func TestSearchBlankQuery(t *testing.T) {
	db, router := setupSearchTestAPI(t)

	db.Create(&models.Asset{Name: "Laptop", Category: "Electronics", Location: "Office 1",
		Quantity: models.Quantity{Total: 1, Available: 1}})

	for _, q := range []string{"", "   "} {
		req, _ := http.NewRequest("GET", "/api/search?q="+q, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Len(t, response["data"].([]interface{}), 0)
	}
}

func TestSearchAcrossEntities(t *testing.T) {
	db, router := setupSearchTestAPI(t)

	user := models.User{Name: "Admin", Email: "admin@test.local", Role: models.RoleAdmin}
	user.SetPassword("secret")
	db.Create(&user)

	serial := "LPT-42"
	asset := models.Asset{Name: "Laptop X1", Category: "Electronics", Location: "Office 1",
		SerialNumber: &serial, Quantity: models.Quantity{Total: 2, Available: 1}}
	db.Create(&asset)

	db.Create(&models.Assignment{AssetID: asset.ID, AssignedByID: user.ID, AssignedDate: time.Now(),
		Assignee:              models.Assignee{Type: models.AssigneeTypeUser, Name: "Laptop Lover"},
		ConditionAtAssignment: "Good", Status: models.AssignmentStatusActive})

	db.Create(&models.MaintenanceRecord{AssetID: asset.ID, Type: models.MaintenanceTypeRepair,
		Description: "Screen swap", PerformedBy: "Laptop Clinic", Date: time.Now(),
		Status: models.MaintenanceStatusCompleted})

	req, _ := http.NewRequest("GET", "/api/search?q=laptop", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].([]interface{})
	assert.Len(t, data, 3)

	// Kinds come back in a fixed order: assets, assignments, maintenance
	types := make([]string, 0, len(data))
	for _, item := range data {
		types = append(types, item.(map[string]interface{})["type"].(string))
	}
	assert.Equal(t, []string{"asset", "assignment", "maintenance"}, types)

	first := data[0].(map[string]interface{})
	assert.Equal(t, "Laptop X1", first["title"])
	assert.Equal(t, fmt.Sprintf("/assets/%d", asset.ID), first["url"])
}

func TestSearchMatchesSerialNumber(t *testing.T) {
	db, router := setupSearchTestAPI(t)

	serial := "ZX-9000"
	db.Create(&models.Asset{Name: "Plotter", Category: "Electronics", Location: "Office 3",
		SerialNumber: &serial, Quantity: models.Quantity{Total: 1, Available: 1}})

	req, _ := http.NewRequest("GET", "/api/search?q=zx-9", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response["data"].([]interface{}), 1)
}

func TestSearchLimitPerKind(t *testing.T) {
	db, router := setupSearchTestAPI(t)

	for i := 0; i < 8; i++ {
		db.Create(&models.Asset{Name: fmt.Sprintf("Widget %d", i), Category: "Tools",
			Location: "Workshop", Quantity: models.Quantity{Total: 1, Available: 1}})
	}

	req, _ := http.NewRequest("GET", "/api/search?q=widget", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response["data"].([]interface{}), 5)
}
