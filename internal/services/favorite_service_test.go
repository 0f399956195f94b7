package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/db"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/utils"
)

func TestFavoriteService(t *testing.T) {
	database := utils.SetupTestDB(t, "testdb_favorite_service", "favorites", "properties")
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	svc := NewFavoriteService(database)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	property := models.Property{
		Base:         models.NewBase(),
		Title:        "Saved Home",
		PropertyType: models.PropertyTypeHouse,
		Status:       models.PropertyStatusForSale,
		AgentID:      primitive.NewObjectID(),
	}
	_, err := database.Collection("properties").InsertOne(ctx, property)
	require.NoError(t, err)

	favorite, err := svc.Add(ctx, userID, property.ID)
	require.NoError(t, err)
	assert.False(t, favorite.SavedAt.IsZero())

	// Saving the same property again is a conflict.
	_, err = svc.Add(ctx, userID, property.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// Unknown property.
	_, err = svc.Add(ctx, userID, primitive.NewObjectID())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	favorites, total, err := svc.List(ctx, userID, utils.PageParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, favorites, 1)
	assert.Equal(t, "Saved Home", favorites[0].Property.Title, "listings come joined with their property")

	require.NoError(t, svc.Remove(ctx, userID, property.ID))
	// Removing again is a no-op, not an error.
	require.NoError(t, svc.Remove(ctx, userID, property.ID))

	_, total, err = svc.List(ctx, userID, utils.PageParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
