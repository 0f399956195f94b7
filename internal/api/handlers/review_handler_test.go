package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NarakCODE/real-estate-management/internal/api/handlers"
	"github.com/NarakCODE/real-estate-management/internal/api/middleware"
	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/services"
)

func TestReviewHandler_Create_PropertyReview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := new(MockReviewService)
	handler := handlers.NewReviewHandler(mockSvc)

	authorID := primitive.NewObjectID()
	principal := middleware.NewPrincipal(authorID, models.RoleUser, []string{models.PermCreateReview})

	r := gin.New()
	r.POST("/reviews/create", withPrincipal(principal), handler.Create)

	propertyID := primitive.NewObjectID()
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(rev *models.Review) bool {
		return rev.AuthorID == authorID && rev.PropertyID != nil && *rev.PropertyID == propertyID &&
			rev.AgentID == nil && rev.Rating == 4
	})).Return(nil)

	body, _ := json.Marshal(gin.H{
		"propertyId": propertyID.Hex(),
		"rating":     4,
		"comment":    "Great location, noisy street.",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/reviews/create", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReviewHandler_Create_BothTargetsRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := new(MockReviewService)
	handler := handlers.NewReviewHandler(mockSvc)

	principal := middleware.NewPrincipal(primitive.NewObjectID(), models.RoleUser, nil)

	r := gin.New()
	r.POST("/reviews/create", withPrincipal(principal), handler.Create)

	mockSvc.On("Create", mock.Anything, mock.Anything).
		Return(apperr.BadRequest("review must target exactly one of a property or an agent"))

	body, _ := json.Marshal(gin.H{
		"propertyId": primitive.NewObjectID().Hex(),
		"agentId":    primitive.NewObjectID().Hex(),
		"rating":     5,
		"comment":    "both targets",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/reviews/create", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReviewHandler_List_FilterByAgent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := new(MockReviewService)
	handler := handlers.NewReviewHandler(mockSvc)

	r := gin.New()
	r.GET("/reviews", handler.List)

	agentID := primitive.NewObjectID()
	mockSvc.On("List", mock.Anything, mock.MatchedBy(func(f services.ReviewFilter) bool {
		return f.AgentID != nil && *f.AgentID == agentID && f.PropertyID == nil
	}), mock.Anything).Return([]models.Review{{Rating: 5}}, int64(1), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/reviews?agentId="+agentID.Hex(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReviewHandler_Update_NotAuthor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := new(MockReviewService)
	handler := handlers.NewReviewHandler(mockSvc)

	callerID := primitive.NewObjectID()
	principal := middleware.NewPrincipal(callerID, models.RoleUser, []string{models.PermUpdateReview})

	r := gin.New()
	r.PUT("/reviews/:id/update", withPrincipal(principal), handler.Update)

	id := primitive.NewObjectID()
	mockSvc.On("Update", mock.Anything, id, callerID, mock.Anything).
		Return(nil, apperr.Forbidden("you may only edit your own reviews"))

	body, _ := json.Marshal(gin.H{"rating": 1})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/reviews/"+id.Hex()+"/update", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReviewHandler_Delete_AdminElevated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := new(MockReviewService)
	handler := handlers.NewReviewHandler(mockSvc)

	adminID := primitive.NewObjectID()
	principal := middleware.NewPrincipal(adminID, models.RoleAdmin, []string{models.PermDeleteReview})

	r := gin.New()
	r.DELETE("/reviews/:id/delete", withPrincipal(principal), handler.Delete)

	id := primitive.NewObjectID()
	mockSvc.On("Delete", mock.Anything, id, adminID, true).Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/reviews/"+id.Hex()+"/delete", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}
