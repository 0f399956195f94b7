package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NarakCODE/real-estate-management/internal/api/handlers"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/services"
)

func TestStatsHandler_Dashboard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := new(MockStatsService)
	handler := handlers.NewStatsHandler(mockSvc)

	r := gin.New()
	r.GET("/dashboard/stats", handler.Dashboard)

	stats := &services.DashboardStats{
		TotalUsers:           42,
		TotalAgents:          7,
		TotalProperties:      120,
		AvailableProperties:  95,
		SoldProperties:       18,
		RentedProperties:     7,
		UpcomingAppointments: 12,
		NewInquiries:         5,
		TotalDeals:           25,
	}
	mockSvc.On("Dashboard", mock.Anything).Return(stats, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/dashboard/stats", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	data := respBody["data"].(map[string]interface{})
	assert.Equal(t, float64(42), data["totalUsers"])
	assert.Equal(t, float64(95), data["availableProperties"])
	assert.Equal(t, float64(25), data["totalDeals"])
	mockSvc.AssertExpectations(t)
}

func TestRoleHandler_Get_ResolvesPermissionNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := new(MockRoleService)
	handler := handlers.NewRoleHandler(mockSvc)

	r := gin.New()
	r.GET("/roles/:id", handler.Get)

	roleID := primitive.NewObjectID()
	role := &models.Role{Base: models.Base{ID: roleID}, Name: models.RoleAgent}
	mockSvc.On("FindByID", mock.Anything, roleID).Return(role, nil)
	mockSvc.On("PermissionNamesFor", mock.Anything, roleID).
		Return([]string{models.PermCreateProperty, models.PermUpdateProperty}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/roles/"+roleID.Hex(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	data := respBody["data"].(map[string]interface{})
	names := data["permissionNames"].([]interface{})
	assert.Contains(t, names, models.PermCreateProperty)
	mockSvc.AssertExpectations(t)
}

func TestRoleHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := new(MockRoleService)
	handler := handlers.NewRoleHandler(mockSvc)

	r := gin.New()
	r.GET("/roles", handler.List)

	roles := []models.Role{
		{Name: models.RoleAdmin},
		{Name: models.RoleAgent},
		{Name: models.RoleUser},
	}
	mockSvc.On("List", mock.Anything).Return(roles, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/roles", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	data := respBody["data"].([]interface{})
	assert.Len(t, data, 3)
	mockSvc.AssertExpectations(t)
}
