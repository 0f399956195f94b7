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

const inquiriesCollection = "inquiries"

// InquiryFilter narrows inquiry listings.
type InquiryFilter struct {
	Status     string
	PropertyID *primitive.ObjectID
	UserID     *primitive.ObjectID
}

// IInquiryService defines the interface for property inquiries.
type IInquiryService interface {
	// Create stores an inquiry. Guests (nil UserID) must supply a name and
	// email; for registered users these are filled from the account.
	Create(ctx context.Context, inquiry *models.Inquiry) error
	List(ctx context.Context, filter InquiryFilter, params utils.PageParams) ([]models.Inquiry, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Inquiry, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type inquiryService struct {
	db       *mongo.Database
	enqueuer Enqueuer
}

// NewInquiryService creates a new InquiryService.
func NewInquiryService(db *mongo.Database, enqueuer Enqueuer) IInquiryService {
	if enqueuer == nil {
		enqueuer = NopEnqueuer{}
	}
	return &inquiryService{db: db, enqueuer: enqueuer}
}

func (s *inquiryService) Create(ctx context.Context, inquiry *models.Inquiry) error {
	if strings.TrimSpace(inquiry.Message) == "" {
		return apperr.Validation("invalid inquiry",
			apperr.FieldError{Field: "message", Message: "must not be empty"})
	}

	if inquiry.UserID != nil {
		var user models.User
		err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": *inquiry.UserID}).Decode(&user)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return apperr.NotFound("user not found")
			}
			return fmt.Errorf("finding inquiring user: %w", err)
		}
		inquiry.Name = user.Name
		inquiry.Email = user.Email
	} else {
		var fields []apperr.FieldError
		if strings.TrimSpace(inquiry.Name) == "" {
			fields = append(fields, apperr.FieldError{Field: "name", Message: "required for guest inquiries"})
		}
		if strings.TrimSpace(inquiry.Email) == "" {
			fields = append(fields, apperr.FieldError{Field: "email", Message: "required for guest inquiries"})
		}
		if len(fields) > 0 {
			return apperr.Validation("invalid inquiry", fields...)
		}
	}

	var property models.Property
	err := s.db.Collection(propertiesCollection).FindOne(ctx, bson.M{"_id": inquiry.PropertyID}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound("property not found")
		}
		return fmt.Errorf("finding property: %w", err)
	}

	inquiry.Base = models.NewBase()
	inquiry.Status = models.InquiryNew

	if _, err := s.db.Collection(inquiriesCollection).InsertOne(ctx, inquiry); err != nil {
		return fmt.Errorf("inserting inquiry: %w", err)
	}

	// Notify the listing agent in the background; the inquiry stands even
	// if the queue is unavailable.
	var agent models.User
	if err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": property.AgentID}).Decode(&agent); err == nil {
		_ = s.enqueuer.EnqueueEmail(ctx, agent.Email,
			"New inquiry about "+property.Title,
			fmt.Sprintf("%s <%s> wrote:\n\n%s", inquiry.Name, inquiry.Email, inquiry.Message))
	}
	return nil
}

func (s *inquiryService) List(ctx context.Context, filter InquiryFilter, params utils.PageParams) ([]models.Inquiry, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		if !models.ValidInquiryStatus(filter.Status) {
			return nil, 0, apperr.Validation("invalid inquiry filter",
				apperr.FieldError{Field: "status", Message: "unknown status"})
		}
		query["status"] = filter.Status
	}
	if filter.PropertyID != nil {
		query["property_id"] = *filter.PropertyID
	}
	if filter.UserID != nil {
		query["user_id"] = *filter.UserID
	}

	coll := s.db.Collection(inquiriesCollection)
	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("counting inquiries: %w", err)
	}

	sortField, sortOrder := params.SortSpec("created_at", map[string]string{
		"createdAt": "created_at",
		"status":    "status",
	})
	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortOrder}}).
		SetSkip(params.Skip()).
		SetLimit(int64(params.Limit))
	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("listing inquiries: %w", err)
	}
	defer cursor.Close(ctx)

	var inquiries []models.Inquiry
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, 0, fmt.Errorf("decoding inquiries: %w", err)
	}
	return inquiries, total, nil
}

func (s *inquiryService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := s.db.Collection(inquiriesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&inquiry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("inquiry not found")
		}
		return nil, fmt.Errorf("finding inquiry %s: %w", id.Hex(), err)
	}
	return &inquiry, nil
}

func (s *inquiryService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Inquiry, error) {
	if !models.ValidInquiryStatus(status) {
		return nil, apperr.Validation("invalid inquiry status",
			apperr.FieldError{Field: "status", Message: "unknown status"})
	}
	res, err := s.db.Collection(inquiriesCollection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": nowUTC()}},
	)
	if err != nil {
		return nil, fmt.Errorf("updating inquiry %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return nil, apperr.NotFound("inquiry not found")
	}
	return s.FindByID(ctx, id)
}

func (s *inquiryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(inquiriesCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting inquiry %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("inquiry not found")
	}
	return nil
}
