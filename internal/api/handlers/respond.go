// Package handlers contains the Gin HTTP handlers. Every response uses the
// same envelope: {"message": ..., "data": ..., "pagination": ...}, with
// pagination present only on list endpoints.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/utils"
)

type envelope struct {
	Message    string            `json:"message"`
	Data       interface{}       `json:"data,omitempty"`
	Errors     interface{}       `json:"errors,omitempty"`
	Pagination *utils.Pagination `json:"pagination,omitempty"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, envelope{Message: message, Data: data})
}

func respondList(c *gin.Context, message string, data interface{}, pagination utils.Pagination) {
	c.JSON(http.StatusOK, envelope{Message: message, Data: data, Pagination: &pagination})
}

// respondError translates domain errors into HTTP responses. Anything that
// is not an apperr becomes an opaque 500 so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperr.As(err); ok {
		body := envelope{Message: appErr.Message}
		if len(appErr.Fields) > 0 {
			body.Errors = appErr.Fields
		}
		c.JSON(appErr.Status(), body)
		return
	}
	zap.L().Error("unhandled error",
		zap.String("path", c.FullPath()),
		zap.String("method", c.Request.Method),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, envelope{Message: "internal server error"})
}

// pathID parses an ObjectID path parameter, writing a 400 on failure.
func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		respondError(c, apperr.BadRequest("invalid "+name))
		return primitive.NilObjectID, false
	}
	return id, true
}

func pageParams(c *gin.Context) utils.PageParams {
	params := utils.NormalizePageParams(c.Query("page"), c.Query("limit"))
	params.SortBy = c.Query("sortBy")
	params.SortOrder = c.Query("sortOrder")
	return params
}
