package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/db"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/utils"
)

const propertiesCollection = "properties"

// propertySortFields maps query-facing sort names to stored fields.
var propertySortFields = map[string]string{
	"price":     "price",
	"views":     "views",
	"title":     "title",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// PropertyFilter carries the optional search criteria for listing
// properties. All set fields are combined with AND.
type PropertyFilter struct {
	Title        string
	Status       string
	PropertyType string
	City         string
	State        string
	MinPrice     string
	MaxPrice     string
	Bedrooms     string
	Bathrooms    string
	Featured     string
}

// PropertyUpdate holds the editable listing fields. Nil pointers leave the
// stored value untouched.
type PropertyUpdate struct {
	Title        *string
	Description  *string
	PropertyType *string
	Status       *string
	Availability *string
	Price        *float64
	Currency     *string
	Location     *models.Location
	Features     *models.Features
	Images       *[]string
	VideoTourURL *string
	IsFeatured   *bool
}

// PropertyStats summarises an agent's portfolio, or the whole inventory
// when no agent scope is given.
type PropertyStats struct {
	TotalProperties     int64            `json:"totalProperties"`
	AvailableProperties int64            `json:"availableProperties"`
	PendingProperties   int64            `json:"pendingProperties"`
	SoldProperties      int64            `json:"soldProperties"`
	RentedProperties    int64            `json:"rentedProperties"`
	AveragePrice        float64          `json:"averagePrice"`
	TotalViews          int64            `json:"totalViews"`
	TypeDistribution    map[string]int64 `json:"typeDistribution"`
}

// IPropertyService defines the interface for listing operations.
type IPropertyService interface {
	Create(ctx context.Context, property *models.Property) error
	List(ctx context.Context, filter PropertyFilter, params utils.PageParams) ([]models.Property, int64, error)
	// FindByID returns the property and atomically increments its view
	// counter in the same round trip.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	FindBySlug(ctx context.Context, slug string) (*models.Property, error)
	ListByAgent(ctx context.Context, agentID primitive.ObjectID, params utils.PageParams) ([]models.Property, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update PropertyUpdate) (*models.Property, error)
	UpdateAvailability(ctx context.Context, id primitive.ObjectID, availability string) (*models.Property, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AppendImage adds a processed image URL to the listing. Used by the
	// background image pipeline.
	AppendImage(ctx context.Context, id primitive.ObjectID, url string) error
	// OwnerOf returns the agent that owns the listing without touching the
	// view counter.
	OwnerOf(ctx context.Context, id primitive.ObjectID) (primitive.ObjectID, error)
	// Stats aggregates listing figures, scoped to one agent when agentID is
	// non-nil.
	Stats(ctx context.Context, agentID *primitive.ObjectID) (*PropertyStats, error)
}

type propertyService struct {
	db *mongo.Database
}

// NewPropertyService creates a new PropertyService.
func NewPropertyService(db *mongo.Database) IPropertyService {
	return &propertyService{db: db}
}

func validateProperty(p *models.Property) error {
	var fields []apperr.FieldError
	if strings.TrimSpace(p.Title) == "" {
		fields = append(fields, apperr.FieldError{Field: "title", Message: "must not be empty"})
	}
	if !models.ValidPropertyType(p.PropertyType) {
		fields = append(fields, apperr.FieldError{Field: "propertyType", Message: "must be one of " + strings.Join(models.PropertyTypes, ", ")})
	}
	if !models.ValidPropertyStatus(p.Status) {
		fields = append(fields, apperr.FieldError{Field: "status", Message: "must be one of " + strings.Join(models.PropertyStatuses, ", ")})
	}
	if p.Availability != "" && !models.ValidAvailability(p.Availability) {
		fields = append(fields, apperr.FieldError{Field: "availability", Message: "must be one of " + strings.Join(models.PropertyAvailabilities, ", ")})
	}
	if p.Price < 0 {
		fields = append(fields, apperr.FieldError{Field: "price", Message: "must not be negative"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid property", fields...)
	}
	return nil
}

// Create inserts a new listing. The slug is derived from the title; on a
// collision with an existing slug the insert is retried with a numeric
// suffix until the unique index accepts it.
func (s *propertyService) Create(ctx context.Context, property *models.Property) error {
	if err := validateProperty(property); err != nil {
		return err
	}
	if property.Availability == "" {
		property.Availability = models.AvailabilityAvailable
	}
	if property.Currency == "" {
		property.Currency = "USD"
	}
	if property.Images == nil {
		property.Images = []string{}
	}
	property.Base = models.NewBase()

	base := utils.Slugify(property.Title)
	attempt := 0
	err := db.Try(func() error {
		property.Slug = utils.SlugWithSuffix(base, attempt)
		attempt++
		_, insErr := s.db.Collection(propertiesCollection).InsertOne(ctx, property)
		return insErr
	})
	if err != nil {
		return fmt.Errorf("inserting property: %w", err)
	}
	return nil
}

func buildPropertyQuery(filter PropertyFilter) bson.M {
	query := bson.M{}
	if filter.Title != "" {
		query["title"] = bson.M{"$regex": regexp.QuoteMeta(filter.Title), "$options": "i"}
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.PropertyType != "" {
		query["property_type"] = filter.PropertyType
	}
	if filter.City != "" {
		query["location.city"] = bson.M{"$regex": "^" + regexp.QuoteMeta(filter.City) + "$", "$options": "i"}
	}
	if filter.State != "" {
		query["location.state"] = bson.M{"$regex": "^" + regexp.QuoteMeta(filter.State) + "$", "$options": "i"}
	}

	price := bson.M{}
	if v, err := strconv.ParseFloat(filter.MinPrice, 64); err == nil {
		price["$gte"] = v
	}
	if v, err := strconv.ParseFloat(filter.MaxPrice, 64); err == nil {
		price["$lte"] = v
	}
	if len(price) > 0 {
		query["price"] = price
	}

	if v, err := strconv.Atoi(filter.Bedrooms); err == nil {
		query["features.bedrooms"] = bson.M{"$gte": v}
	}
	if v, err := strconv.Atoi(filter.Bathrooms); err == nil {
		query["features.bathrooms"] = bson.M{"$gte": v}
	}
	if v, err := strconv.ParseBool(filter.Featured); err == nil {
		query["is_featured"] = v
	}
	return query
}

func (s *propertyService) List(ctx context.Context, filter PropertyFilter, params utils.PageParams) ([]models.Property, int64, error) {
	query := buildPropertyQuery(filter)
	return s.page(ctx, query, params)
}

func (s *propertyService) ListByAgent(ctx context.Context, agentID primitive.ObjectID, params utils.PageParams) ([]models.Property, int64, error) {
	return s.page(ctx, bson.M{"agent_id": agentID}, params)
}

func (s *propertyService) page(ctx context.Context, query bson.M, params utils.PageParams) ([]models.Property, int64, error) {
	coll := s.db.Collection(propertiesCollection)

	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("counting properties: %w", err)
	}

	sortField, sortOrder := params.SortSpec("created_at", propertySortFields)
	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortOrder}}).
		SetSkip(params.Skip()).
		SetLimit(int64(params.Limit))
	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("listing properties: %w", err)
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, 0, fmt.Errorf("decoding properties: %w", err)
	}
	return properties, total, nil
}

func (s *propertyService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var property models.Property
	err := s.db.Collection(propertiesCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("property not found")
		}
		return nil, fmt.Errorf("finding property %s: %w", id.Hex(), err)
	}
	return &property, nil
}

func (s *propertyService) FindBySlug(ctx context.Context, slug string) (*models.Property, error) {
	var property models.Property
	err := s.db.Collection(propertiesCollection).FindOneAndUpdate(ctx,
		bson.M{"slug": slug},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("property not found")
		}
		return nil, fmt.Errorf("finding property by slug %q: %w", slug, err)
	}
	return &property, nil
}

func (s *propertyService) OwnerOf(ctx context.Context, id primitive.ObjectID) (primitive.ObjectID, error) {
	var doc struct {
		AgentID primitive.ObjectID `bson:"agent_id"`
	}
	err := s.db.Collection(propertiesCollection).
		FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"agent_id": 1})).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return primitive.NilObjectID, apperr.NotFound("property not found")
		}
		return primitive.NilObjectID, fmt.Errorf("finding property %s: %w", id.Hex(), err)
	}
	return doc.AgentID, nil
}

func (s *propertyService) Update(ctx context.Context, id primitive.ObjectID, update PropertyUpdate) (*models.Property, error) {
	set := bson.M{"updated_at": nowUTC()}
	var fields []apperr.FieldError

	retitled := false
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			fields = append(fields, apperr.FieldError{Field: "title", Message: "must not be empty"})
		} else {
			set["title"] = title
			retitled = true
		}
	}
	if update.PropertyType != nil {
		if !models.ValidPropertyType(*update.PropertyType) {
			fields = append(fields, apperr.FieldError{Field: "propertyType", Message: "must be one of " + strings.Join(models.PropertyTypes, ", ")})
		} else {
			set["property_type"] = *update.PropertyType
		}
	}
	if update.Status != nil {
		if !models.ValidPropertyStatus(*update.Status) {
			fields = append(fields, apperr.FieldError{Field: "status", Message: "must be one of " + strings.Join(models.PropertyStatuses, ", ")})
		} else {
			set["status"] = *update.Status
		}
	}
	if update.Availability != nil {
		if !models.ValidAvailability(*update.Availability) {
			fields = append(fields, apperr.FieldError{Field: "availability", Message: "must be one of " + strings.Join(models.PropertyAvailabilities, ", ")})
		} else {
			set["availability"] = *update.Availability
		}
	}
	if update.Price != nil {
		if *update.Price < 0 {
			fields = append(fields, apperr.FieldError{Field: "price", Message: "must not be negative"})
		} else {
			set["price"] = *update.Price
		}
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid property", fields...)
	}

	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Currency != nil {
		set["currency"] = *update.Currency
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Features != nil {
		set["features"] = *update.Features
	}
	if update.Images != nil {
		set["images"] = *update.Images
	}
	if update.VideoTourURL != nil {
		set["video_tour_url"] = *update.VideoTourURL
	}
	if update.IsFeatured != nil {
		set["is_featured"] = *update.IsFeatured
	}

	coll := s.db.Collection(propertiesCollection)
	if !retitled {
		res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
		if err != nil {
			return nil, fmt.Errorf("updating property %s: %w", id.Hex(), err)
		}
		if res.MatchedCount == 0 {
			return nil, apperr.NotFound("property not found")
		}
		return s.find(ctx, id)
	}

	// A new title means a new slug, so the unique index may need the same
	// suffix retry as on create.
	base := utils.Slugify(set["title"].(string))
	attempt := 0
	err := db.Try(func() error {
		set["slug"] = utils.SlugWithSuffix(base, attempt)
		attempt++
		res, updErr := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
		if updErr != nil {
			return updErr
		}
		if res.MatchedCount == 0 {
			return apperr.NotFound("property not found")
		}
		return nil
	})
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("updating property %s: %w", id.Hex(), err)
	}
	return s.find(ctx, id)
}

func (s *propertyService) UpdateAvailability(ctx context.Context, id primitive.ObjectID, availability string) (*models.Property, error) {
	if !models.ValidAvailability(availability) {
		return nil, apperr.Validation("invalid availability",
			apperr.FieldError{Field: "availability", Message: "must be one of " + strings.Join(models.PropertyAvailabilities, ", ")})
	}
	res, err := s.db.Collection(propertiesCollection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"availability": availability, "updated_at": nowUTC()}},
	)
	if err != nil {
		return nil, fmt.Errorf("updating availability of property %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return nil, apperr.NotFound("property not found")
	}
	return s.find(ctx, id)
}

func (s *propertyService) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(propertiesCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting property %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("property not found")
	}
	return nil
}

func (s *propertyService) AppendImage(ctx context.Context, id primitive.ObjectID, url string) error {
	res, err := s.db.Collection(propertiesCollection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"images": url}, "$set": bson.M{"updated_at": nowUTC()}},
	)
	if err != nil {
		return fmt.Errorf("appending image to property %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("property not found")
	}
	return nil
}

func (s *propertyService) Stats(ctx context.Context, agentID *primitive.ObjectID) (*PropertyStats, error) {
	scope := bson.M{}
	if agentID != nil {
		scope["agent_id"] = *agentID
	}
	scoped := func(extra bson.M) bson.M {
		query := bson.M{}
		for k, v := range scope {
			query[k] = v
		}
		for k, v := range extra {
			query[k] = v
		}
		return query
	}

	stats := &PropertyStats{TypeDistribution: map[string]int64{}}
	coll := s.db.Collection(propertiesCollection)

	g, gctx := errgroup.WithContext(ctx)
	count := func(filter bson.M, dst *int64) func() error {
		return func() error {
			n, err := coll.CountDocuments(gctx, filter)
			if err != nil {
				return fmt.Errorf("counting properties: %w", err)
			}
			*dst = n
			return nil
		}
	}

	g.Go(count(scoped(nil), &stats.TotalProperties))
	g.Go(count(scoped(bson.M{"availability": models.AvailabilityAvailable}), &stats.AvailableProperties))
	g.Go(count(scoped(bson.M{"availability": models.AvailabilityPending}), &stats.PendingProperties))
	g.Go(count(scoped(bson.M{"availability": models.AvailabilitySold}), &stats.SoldProperties))
	g.Go(count(scoped(bson.M{"availability": models.AvailabilityRented}), &stats.RentedProperties))

	g.Go(func() error {
		cursor, err := coll.Aggregate(gctx, mongo.Pipeline{
			{{Key: "$match", Value: scoped(nil)}},
			{{Key: "$group", Value: bson.M{
				"_id":           nil,
				"average_price": bson.M{"$avg": "$price"},
				"total_views":   bson.M{"$sum": "$views"},
			}}},
		})
		if err != nil {
			return fmt.Errorf("aggregating property prices: %w", err)
		}
		defer cursor.Close(gctx)
		var rows []struct {
			AveragePrice float64 `bson:"average_price"`
			TotalViews   int64   `bson:"total_views"`
		}
		if err := cursor.All(gctx, &rows); err != nil {
			return fmt.Errorf("decoding property price aggregate: %w", err)
		}
		if len(rows) > 0 {
			stats.AveragePrice = rows[0].AveragePrice
			stats.TotalViews = rows[0].TotalViews
		}
		return nil
	})

	g.Go(func() error {
		cursor, err := coll.Aggregate(gctx, mongo.Pipeline{
			{{Key: "$match", Value: scoped(nil)}},
			{{Key: "$group", Value: bson.M{"_id": "$property_type", "count": bson.M{"$sum": 1}}}},
		})
		if err != nil {
			return fmt.Errorf("aggregating property types: %w", err)
		}
		defer cursor.Close(gctx)
		var rows []struct {
			Type  string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.All(gctx, &rows); err != nil {
			return fmt.Errorf("decoding property type aggregate: %w", err)
		}
		distribution := make(map[string]int64, len(rows))
		for _, row := range rows {
			distribution[row.Type] = row.Count
		}
		stats.TypeDistribution = distribution
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// find fetches without touching the view counter.
func (s *propertyService) find(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var property models.Property
	err := s.db.Collection(propertiesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("property not found")
		}
		return nil, fmt.Errorf("finding property %s: %w", id.Hex(), err)
	}
	return &property, nil
}
