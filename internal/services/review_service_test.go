package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/utils"
)

func TestReviewService_ExactlyOneTarget(t *testing.T) {
	database := utils.SetupTestDB(t, "testdb_review_targets", "reviews", "properties", "users")
	svc := NewReviewService(database)
	ctx := context.Background()

	propertyID := primitive.NewObjectID()
	agentID := primitive.NewObjectID()
	author := primitive.NewObjectID()

	// Neither target.
	err := svc.Create(ctx, &models.Review{AuthorID: author, Rating: 4, Comment: "nice"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))

	// Both targets.
	err = svc.Create(ctx, &models.Review{AuthorID: author, PropertyID: &propertyID, AgentID: &agentID, Rating: 4, Comment: "nice"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))

	// Rating bounds.
	err = svc.Create(ctx, &models.Review{AuthorID: author, PropertyID: &propertyID, Rating: 6, Comment: "nice"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
}

func TestReviewService_CRUDAndOwnership(t *testing.T) {
	database := utils.SetupTestDB(t, "testdb_review_crud", "reviews", "properties", "users")
	svc := NewReviewService(database)
	ctx := context.Background()

	property := models.Property{
		Base:         models.NewBase(),
		Title:        "Reviewed Home",
		PropertyType: models.PropertyTypeTownhouse,
		Status:       models.PropertyStatusForSale,
		AgentID:      primitive.NewObjectID(),
	}
	_, err := database.Collection("properties").InsertOne(ctx, property)
	require.NoError(t, err)

	author := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	review := &models.Review{AuthorID: author, PropertyID: &property.ID, Rating: 5, Comment: "great location"}
	require.NoError(t, svc.Create(ctx, review))

	reviews, total, err := svc.List(ctx, ReviewFilter{PropertyID: &property.ID}, utils.PageParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reviews, 1)

	// Only the author may edit.
	rating := 3
	_, err = svc.Update(ctx, review.ID, stranger, ReviewUpdate{Rating: &rating})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	updated, err := svc.Update(ctx, review.ID, author, ReviewUpdate{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Rating)

	// A stranger cannot delete, an elevated caller can.
	err = svc.Delete(ctx, review.ID, stranger, false)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	require.NoError(t, svc.Delete(ctx, review.ID, stranger, true))
	_, err = svc.FindByID(ctx, review.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
