package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NarakCODE/real-estate-management/internal/api/handlers"
	"github.com/NarakCODE/real-estate-management/internal/api/middleware"
	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/models"
)

func TestFavoriteHandler_Add_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := new(MockFavoriteService)
	handler := handlers.NewFavoriteHandler(mockSvc)

	userID := primitive.NewObjectID()
	principal := middleware.NewPrincipal(userID, models.RoleUser, nil)

	r := gin.New()
	r.POST("/favorites/:propertyId", withPrincipal(principal), handler.Add)

	propertyID := primitive.NewObjectID()
	favorite := &models.Favorite{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		PropertyID: propertyID,
		SavedAt:    time.Now().UTC(),
	}
	mockSvc.On("Add", mock.Anything, userID, propertyID).Return(favorite, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/favorites/"+propertyID.Hex(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestFavoriteHandler_Add_AlreadySaved(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := new(MockFavoriteService)
	handler := handlers.NewFavoriteHandler(mockSvc)

	userID := primitive.NewObjectID()
	principal := middleware.NewPrincipal(userID, models.RoleUser, nil)

	r := gin.New()
	r.POST("/favorites/:propertyId", withPrincipal(principal), handler.Add)

	propertyID := primitive.NewObjectID()
	mockSvc.On("Add", mock.Anything, userID, propertyID).
		Return(nil, apperr.Conflict("property already saved"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/favorites/"+propertyID.Hex(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, "property already saved", respBody["message"])
	mockSvc.AssertExpectations(t)
}

func TestFavoriteHandler_List_JoinedProperties(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := new(MockFavoriteService)
	handler := handlers.NewFavoriteHandler(mockSvc)

	userID := primitive.NewObjectID()
	principal := middleware.NewPrincipal(userID, models.RoleUser, nil)

	r := gin.New()
	r.GET("/favorites", withPrincipal(principal), handler.List)

	favorites := []models.FavoriteWithProperty{
		{
			ID:       primitive.NewObjectID(),
			UserID:   userID,
			SavedAt:  time.Now().UTC(),
			Property: models.Property{Title: "Sea View Villa"},
		},
	}
	mockSvc.On("List", mock.Anything, userID, mock.Anything).Return(favorites, int64(1), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/favorites", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	data := respBody["data"].([]interface{})
	assert.Len(t, data, 1)
	property := data[0].(map[string]interface{})["property"].(map[string]interface{})
	assert.Equal(t, "Sea View Villa", property["title"])
	mockSvc.AssertExpectations(t)
}

func TestFavoriteHandler_Remove_Idempotent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := new(MockFavoriteService)
	handler := handlers.NewFavoriteHandler(mockSvc)

	userID := primitive.NewObjectID()
	principal := middleware.NewPrincipal(userID, models.RoleUser, nil)

	r := gin.New()
	r.DELETE("/favorites/:propertyId", withPrincipal(principal), handler.Remove)

	propertyID := primitive.NewObjectID()
	mockSvc.On("Remove", mock.Anything, userID, propertyID).Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/favorites/"+propertyID.Hex(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestFavoriteHandler_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := new(MockFavoriteService)
	handler := handlers.NewFavoriteHandler(mockSvc)

	r := gin.New()
	r.GET("/favorites", handler.List)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/favorites", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "List")
}
