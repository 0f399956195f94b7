package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/utils"
)

const dealsCollection = "deals"

// IDealService defines the interface for closed-deal records.
type IDealService interface {
	// Create records a closed deal after verifying the property, agent and
	// client all exist. A Sale marks the property Sold, a Rent marks it
	// Rented.
	Create(ctx context.Context, deal *models.Deal) error
	List(ctx context.Context, viewer Viewer, params utils.PageParams) ([]models.Deal, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Deal, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type dealService struct {
	db *mongo.Database
}

// NewDealService creates a new DealService.
func NewDealService(db *mongo.Database) IDealService {
	return &dealService{db: db}
}

func (s *dealService) Create(ctx context.Context, deal *models.Deal) error {
	var fields []apperr.FieldError
	if !models.ValidDealType(deal.DealType) {
		fields = append(fields, apperr.FieldError{Field: "dealType", Message: "must be Sale or Rent"})
	}
	if deal.AgreedPrice <= 0 {
		fields = append(fields, apperr.FieldError{Field: "agreedPrice", Message: "must be positive"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid deal", fields...)
	}

	g, gctx := errgroup.WithContext(ctx)
	checkRef := func(coll string, id primitive.ObjectID, what string) func() error {
		return func() error {
			count, err := s.db.Collection(coll).CountDocuments(gctx, bson.M{"_id": id})
			if err != nil {
				return fmt.Errorf("checking %s: %w", what, err)
			}
			if count == 0 {
				return apperr.NotFound(what + " not found")
			}
			return nil
		}
	}
	g.Go(checkRef(propertiesCollection, deal.PropertyID, "property"))
	g.Go(checkRef(usersCollection, deal.AgentID, "agent"))
	g.Go(checkRef(usersCollection, deal.ClientID, "client"))
	if err := g.Wait(); err != nil {
		return err
	}

	deal.Base = models.NewBase()
	if deal.Currency == "" {
		deal.Currency = "USD"
	}
	if deal.ClosedAt.IsZero() {
		deal.ClosedAt = nowUTC()
	}

	if _, err := s.db.Collection(dealsCollection).InsertOne(ctx, deal); err != nil {
		return fmt.Errorf("inserting deal: %w", err)
	}

	availability := models.AvailabilitySold
	if deal.DealType == models.DealTypeRent {
		availability = models.AvailabilityRented
	}
	_, err := s.db.Collection(propertiesCollection).UpdateOne(ctx,
		bson.M{"_id": deal.PropertyID},
		bson.M{"$set": bson.M{"availability": availability, "updated_at": nowUTC()}},
	)
	if err != nil {
		return fmt.Errorf("marking property %s: %w", availability, err)
	}
	return nil
}

func (s *dealService) List(ctx context.Context, viewer Viewer, params utils.PageParams) ([]models.Deal, int64, error) {
	query := bson.M{}
	switch viewer.RoleName {
	case models.RoleAdmin:
		// unrestricted
	case models.RoleAgent:
		query["agent_id"] = viewer.UserID
	default:
		query["client_id"] = viewer.UserID
	}

	coll := s.db.Collection(dealsCollection)
	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("counting deals: %w", err)
	}

	sortField, sortOrder := params.SortSpec("closed_at", map[string]string{
		"closedAt":    "closed_at",
		"createdAt":   "created_at",
		"agreedPrice": "agreed_price",
	})
	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortOrder}}).
		SetSkip(params.Skip()).
		SetLimit(int64(params.Limit))
	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("listing deals: %w", err)
	}
	defer cursor.Close(ctx)

	var deals []models.Deal
	if err := cursor.All(ctx, &deals); err != nil {
		return nil, 0, fmt.Errorf("decoding deals: %w", err)
	}
	return deals, total, nil
}

func (s *dealService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Deal, error) {
	var deal models.Deal
	err := s.db.Collection(dealsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&deal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("deal not found")
		}
		return nil, fmt.Errorf("finding deal %s: %w", id.Hex(), err)
	}
	return &deal, nil
}

func (s *dealService) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(dealsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting deal %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("deal not found")
	}
	return nil
}
