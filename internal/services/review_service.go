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
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/utils"
)

const reviewsCollection = "reviews"

// ReviewFilter narrows review listings to one target.
type ReviewFilter struct {
	PropertyID *primitive.ObjectID
	AgentID    *primitive.ObjectID
}

// ReviewUpdate holds the author-editable review fields.
type ReviewUpdate struct {
	Rating  *int
	Comment *string
}

// IReviewService defines the interface for reviews of properties and agents.
type IReviewService interface {
	// Create stores a review targeting exactly one of a property or an
	// agent.
	Create(ctx context.Context, review *models.Review) error
	List(ctx context.Context, filter ReviewFilter, params utils.PageParams) ([]models.Review, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	// Update is author-only.
	Update(ctx context.Context, id, author primitive.ObjectID, update ReviewUpdate) (*models.Review, error)
	// Delete is allowed for the author or anyone elevated.
	Delete(ctx context.Context, id, requester primitive.ObjectID, elevated bool) error
}

type reviewService struct {
	db *mongo.Database
}

// NewReviewService creates a new ReviewService.
func NewReviewService(db *mongo.Database) IReviewService {
	return &reviewService{db: db}
}

func validRating(r int) bool { return r >= 1 && r <= 5 }

func (s *reviewService) Create(ctx context.Context, review *models.Review) error {
	var fields []apperr.FieldError
	if (review.PropertyID == nil) == (review.AgentID == nil) {
		fields = append(fields, apperr.FieldError{Field: "propertyId", Message: "exactly one of propertyId or agentId must be set"})
	}
	if !validRating(review.Rating) {
		fields = append(fields, apperr.FieldError{Field: "rating", Message: "must be between 1 and 5"})
	}
	if strings.TrimSpace(review.Comment) == "" {
		fields = append(fields, apperr.FieldError{Field: "comment", Message: "must not be empty"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid review", fields...)
	}

	if review.PropertyID != nil {
		count, err := s.db.Collection(propertiesCollection).CountDocuments(ctx, bson.M{"_id": *review.PropertyID})
		if err != nil {
			return fmt.Errorf("checking property: %w", err)
		}
		if count == 0 {
			return apperr.NotFound("property not found")
		}
	} else {
		count, err := s.db.Collection(usersCollection).CountDocuments(ctx, bson.M{"_id": *review.AgentID})
		if err != nil {
			return fmt.Errorf("checking agent: %w", err)
		}
		if count == 0 {
			return apperr.NotFound("agent not found")
		}
	}

	review.Base = models.NewBase()
	if _, err := s.db.Collection(reviewsCollection).InsertOne(ctx, review); err != nil {
		return fmt.Errorf("inserting review: %w", err)
	}
	return nil
}

func (s *reviewService) List(ctx context.Context, filter ReviewFilter, params utils.PageParams) ([]models.Review, int64, error) {
	query := bson.M{}
	if filter.PropertyID != nil {
		query["property_id"] = *filter.PropertyID
	}
	if filter.AgentID != nil {
		query["agent_id"] = *filter.AgentID
	}

	coll := s.db.Collection(reviewsCollection)
	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("counting reviews: %w", err)
	}

	sortField, sortOrder := params.SortSpec("created_at", map[string]string{
		"createdAt": "created_at",
		"rating":    "rating",
	})
	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortOrder}}).
		SetSkip(params.Skip()).
		SetLimit(int64(params.Limit))
	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("listing reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, 0, fmt.Errorf("decoding reviews: %w", err)
	}
	return reviews, total, nil
}

func (s *reviewService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := s.db.Collection(reviewsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("review not found")
		}
		return nil, fmt.Errorf("finding review %s: %w", id.Hex(), err)
	}
	return &review, nil
}

func (s *reviewService) Update(ctx context.Context, id, author primitive.ObjectID, update ReviewUpdate) (*models.Review, error) {
	review, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.AuthorID != author {
		return nil, apperr.Forbidden("you may only edit your own reviews")
	}

	set := bson.M{"updated_at": nowUTC()}
	if update.Rating != nil {
		if !validRating(*update.Rating) {
			return nil, apperr.Validation("invalid review",
				apperr.FieldError{Field: "rating", Message: "must be between 1 and 5"})
		}
		set["rating"] = *update.Rating
	}
	if update.Comment != nil {
		if strings.TrimSpace(*update.Comment) == "" {
			return nil, apperr.Validation("invalid review",
				apperr.FieldError{Field: "comment", Message: "must not be empty"})
		}
		set["comment"] = *update.Comment
	}

	if _, err := s.db.Collection(reviewsCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("updating review %s: %w", id.Hex(), err)
	}
	return s.FindByID(ctx, id)
}

func (s *reviewService) Delete(ctx context.Context, id, requester primitive.ObjectID, elevated bool) error {
	review, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !elevated && review.AuthorID != requester {
		return apperr.Forbidden("you may only delete your own reviews")
	}

	if _, err := s.db.Collection(reviewsCollection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("deleting review %s: %w", id.Hex(), err)
	}
	return nil
}
