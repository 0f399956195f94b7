package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/db"
	"github.com/NarakCODE/real-estate-management/internal/models"
)

const amenitiesCollection = "amenities"

// AmenityUpdate holds the editable amenity fields.
type AmenityUpdate struct {
	Name        *string
	Description *string
	Icon        *string
}

// IAmenityService defines the interface for the amenity catalog.
type IAmenityService interface {
	Create(ctx context.Context, amenity *models.Amenity) error
	List(ctx context.Context) ([]models.Amenity, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Amenity, error)
	Update(ctx context.Context, id primitive.ObjectID, update AmenityUpdate) (*models.Amenity, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type amenityService struct {
	db *mongo.Database
}

// NewAmenityService creates a new AmenityService.
func NewAmenityService(db *mongo.Database) IAmenityService {
	return &amenityService{db: db}
}

func (s *amenityService) Create(ctx context.Context, amenity *models.Amenity) error {
	amenity.Name = strings.TrimSpace(amenity.Name)
	if amenity.Name == "" {
		return apperr.Validation("invalid amenity",
			apperr.FieldError{Field: "name", Message: "must not be empty"})
	}

	amenity.Base = models.NewBase()
	if _, err := s.db.Collection(amenitiesCollection).InsertOne(ctx, amenity); err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			return apperr.Conflict("an amenity with this name already exists")
		}
		return fmt.Errorf("inserting amenity: %w", err)
	}
	return nil
}

func (s *amenityService) List(ctx context.Context) ([]models.Amenity, error) {
	cursor, err := s.db.Collection(amenitiesCollection).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("listing amenities: %w", err)
	}
	defer cursor.Close(ctx)

	var amenities []models.Amenity
	if err := cursor.All(ctx, &amenities); err != nil {
		return nil, fmt.Errorf("decoding amenities: %w", err)
	}
	return amenities, nil
}

func (s *amenityService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Amenity, error) {
	var amenity models.Amenity
	err := s.db.Collection(amenitiesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&amenity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("amenity not found")
		}
		return nil, fmt.Errorf("finding amenity %s: %w", id.Hex(), err)
	}
	return &amenity, nil
}

func (s *amenityService) Update(ctx context.Context, id primitive.ObjectID, update AmenityUpdate) (*models.Amenity, error) {
	set := bson.M{"updated_at": nowUTC()}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperr.Validation("invalid amenity",
				apperr.FieldError{Field: "name", Message: "must not be empty"})
		}
		set["name"] = name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Icon != nil {
		set["icon"] = *update.Icon
	}

	res, err := s.db.Collection(amenitiesCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			return nil, apperr.Conflict("an amenity with this name already exists")
		}
		return nil, fmt.Errorf("updating amenity %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return nil, apperr.NotFound("amenity not found")
	}
	return s.FindByID(ctx, id)
}

func (s *amenityService) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(amenitiesCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting amenity %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("amenity not found")
	}
	return nil
}
