package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/db"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/utils"
)

const favoritesCollection = "favorites"

// IFavoriteService defines the interface for saved-property bookmarks.
type IFavoriteService interface {
	// Add saves a property for a user. Saving the same property twice
	// returns a Conflict.
	Add(ctx context.Context, userID, propertyID primitive.ObjectID) (*models.Favorite, error)
	// List returns the user's favorites joined with their property
	// documents, most recently saved first.
	List(ctx context.Context, userID primitive.ObjectID, params utils.PageParams) ([]models.FavoriteWithProperty, int64, error)
	// Remove deletes the bookmark. Removing a property that was never
	// saved is a no-op.
	Remove(ctx context.Context, userID, propertyID primitive.ObjectID) error
}

type favoriteService struct {
	db *mongo.Database
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(db *mongo.Database) IFavoriteService {
	return &favoriteService{db: db}
}

func (s *favoriteService) Add(ctx context.Context, userID, propertyID primitive.ObjectID) (*models.Favorite, error) {
	count, err := s.db.Collection(propertiesCollection).CountDocuments(ctx, bson.M{"_id": propertyID})
	if err != nil {
		return nil, fmt.Errorf("checking property: %w", err)
	}
	if count == 0 {
		return nil, apperr.NotFound("property not found")
	}

	favorite := models.Favorite{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		PropertyID: propertyID,
		SavedAt:    nowUTC(),
	}
	if _, err := s.db.Collection(favoritesCollection).InsertOne(ctx, favorite); err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			return nil, apperr.Conflict("property already saved")
		}
		return nil, fmt.Errorf("inserting favorite: %w", err)
	}
	return &favorite, nil
}

func (s *favoriteService) List(ctx context.Context, userID primitive.ObjectID, params utils.PageParams) ([]models.FavoriteWithProperty, int64, error) {
	coll := s.db.Collection(favoritesCollection)

	total, err := coll.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, 0, fmt.Errorf("counting favorites: %w", err)
	}

	pipeline := []bson.M{
		{"$match": bson.M{"user_id": userID}},
		{"$sort": bson.M{"saved_at": -1}},
		{"$skip": params.Skip()},
		{"$limit": int64(params.Limit)},
		{"$lookup": bson.M{
			"from":         propertiesCollection,
			"localField":   "property_id",
			"foreignField": "_id",
			"as":           "property",
		}},
		{"$unwind": "$property"},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("listing favorites: %w", err)
	}
	defer cursor.Close(ctx)

	var favorites []models.FavoriteWithProperty
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, 0, fmt.Errorf("decoding favorites: %w", err)
	}
	return favorites, total, nil
}

func (s *favoriteService) Remove(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	_, err := s.db.Collection(favoritesCollection).DeleteOne(ctx, bson.M{"user_id": userID, "property_id": propertyID})
	if err != nil {
		return fmt.Errorf("removing favorite: %w", err)
	}
	return nil
}
