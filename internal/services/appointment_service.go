package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/utils"
)

const appointmentsCollection = "appointments"

// Enqueuer schedules background notification jobs without blocking the
// request. Implemented by the asynq task client; a no-op stands in when the
// queue is disabled.
type Enqueuer interface {
	EnqueueEmail(ctx context.Context, to, subject, body string) error
}

// NopEnqueuer discards every job. Used in tests and when no queue is
// configured.
type NopEnqueuer struct{}

func (NopEnqueuer) EnqueueEmail(ctx context.Context, to, subject, body string) error { return nil }

// Viewer identifies who is asking, for role-scoped listings.
type Viewer struct {
	UserID   primitive.ObjectID
	RoleName string
}

// AppointmentUpdate holds the requester-editable fields of a pending
// appointment.
type AppointmentUpdate struct {
	RequestedAt *time.Time
	Notes       *string
}

// IAppointmentService defines the interface for viewing-appointment
// operations.
type IAppointmentService interface {
	// Create books a viewing for a property. The appointment's agent is the
	// property's owner.
	Create(ctx context.Context, appointment *models.Appointment) error
	// List is scoped by role: admins see everything, agents see
	// appointments on their listings, everyone else sees their own.
	List(ctx context.Context, viewer Viewer, params utils.PageParams) ([]models.Appointment, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	// Update edits a pending appointment. Only the requester may edit
	// unless elevated is set.
	Update(ctx context.Context, id primitive.ObjectID, requester primitive.ObjectID, elevated bool, update AppointmentUpdate) (*models.Appointment, error)
	// UpdateStatus moves the appointment through its lifecycle, rejecting
	// transitions the state machine does not allow.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Appointment, error)
	Delete(ctx context.Context, id primitive.ObjectID, requester primitive.ObjectID, elevated bool) error
}

type appointmentService struct {
	db       *mongo.Database
	enqueuer Enqueuer
}

// NewAppointmentService creates a new AppointmentService.
func NewAppointmentService(db *mongo.Database, enqueuer Enqueuer) IAppointmentService {
	if enqueuer == nil {
		enqueuer = NopEnqueuer{}
	}
	return &appointmentService{db: db, enqueuer: enqueuer}
}

func (s *appointmentService) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment.RequestedAt.IsZero() {
		return apperr.Validation("invalid appointment",
			apperr.FieldError{Field: "requestedDateTime", Message: "must be set"})
	}
	if appointment.RequestedAt.Before(nowUTC()) {
		return apperr.Validation("invalid appointment",
			apperr.FieldError{Field: "requestedDateTime", Message: "must be in the future"})
	}

	var property models.Property
	var agent models.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.db.Collection(propertiesCollection).FindOne(gctx, bson.M{"_id": appointment.PropertyID}).Decode(&property)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound("property not found")
		}
		return err
	})
	g.Go(func() error {
		err := s.db.Collection(usersCollection).FindOne(gctx, bson.M{"_id": appointment.UserID}).Decode(&agent)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound("user not found")
		}
		return err
	})
	if err := g.Wait(); err != nil {
		if _, ok := apperr.As(err); ok {
			return err
		}
		return fmt.Errorf("validating appointment references: %w", err)
	}

	appointment.Base = models.NewBase()
	appointment.AgentID = property.AgentID
	appointment.Status = models.AppointmentPending
	appointment.ConfirmedAt = nil

	if _, err := s.db.Collection(appointmentsCollection).InsertOne(ctx, appointment); err != nil {
		return fmt.Errorf("inserting appointment: %w", err)
	}

	// Best effort; the booking stands even if the notification cannot be
	// queued.
	var owner models.User
	if err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": property.AgentID}).Decode(&owner); err == nil {
		_ = s.enqueuer.EnqueueEmail(ctx, owner.Email,
			"New viewing request: "+property.Title,
			fmt.Sprintf("A viewing of %q was requested for %s.", property.Title, appointment.RequestedAt.Format(time.RFC1123)))
	}
	return nil
}

func (s *appointmentService) List(ctx context.Context, viewer Viewer, params utils.PageParams) ([]models.Appointment, int64, error) {
	query := bson.M{}
	switch viewer.RoleName {
	case models.RoleAdmin:
		// unrestricted
	case models.RoleAgent:
		query["$or"] = []bson.M{{"agent_id": viewer.UserID}, {"user_id": viewer.UserID}}
	default:
		query["user_id"] = viewer.UserID
	}

	coll := s.db.Collection(appointmentsCollection)
	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("counting appointments: %w", err)
	}

	sortField, sortOrder := params.SortSpec("requested_at", map[string]string{
		"requestedAt": "requested_at",
		"createdAt":   "created_at",
		"status":      "status",
	})
	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortOrder}}).
		SetSkip(params.Skip()).
		SetLimit(int64(params.Limit))
	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("listing appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []models.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, 0, fmt.Errorf("decoding appointments: %w", err)
	}
	return appointments, total, nil
}

func (s *appointmentService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.db.Collection(appointmentsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&appointment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("appointment not found")
		}
		return nil, fmt.Errorf("finding appointment %s: %w", id.Hex(), err)
	}
	return &appointment, nil
}

func (s *appointmentService) Update(ctx context.Context, id, requester primitive.ObjectID, elevated bool, update AppointmentUpdate) (*models.Appointment, error) {
	appointment, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !elevated && appointment.UserID != requester {
		return nil, apperr.Forbidden("you may only edit your own appointments")
	}
	if appointment.Status != models.AppointmentPending {
		return nil, apperr.Conflict("only pending appointments can be edited")
	}

	set := bson.M{"updated_at": nowUTC()}
	if update.RequestedAt != nil {
		if update.RequestedAt.Before(nowUTC()) {
			return nil, apperr.Validation("invalid appointment",
				apperr.FieldError{Field: "requestedDateTime", Message: "must be in the future"})
		}
		set["requested_at"] = *update.RequestedAt
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}

	if _, err := s.db.Collection(appointmentsCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("updating appointment %s: %w", id.Hex(), err)
	}
	return s.FindByID(ctx, id)
}

func (s *appointmentService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Appointment, error) {
	if !models.ValidAppointmentStatus(status) {
		return nil, apperr.Validation("invalid appointment status",
			apperr.FieldError{Field: "status", Message: "unknown status"})
	}

	appointment, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionAppointment(appointment.Status, status) {
		return nil, apperr.Conflict(fmt.Sprintf("cannot move appointment from %s to %s", appointment.Status, status))
	}

	set := bson.M{"status": status, "updated_at": nowUTC()}
	if status == models.AppointmentConfirmed {
		set["confirmed_at"] = nowUTC()
	}
	if _, err := s.db.Collection(appointmentsCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("updating appointment status %s: %w", id.Hex(), err)
	}

	var requester models.User
	if err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": appointment.UserID}).Decode(&requester); err == nil {
		_ = s.enqueuer.EnqueueEmail(ctx, requester.Email,
			"Your viewing is now "+status,
			fmt.Sprintf("Your viewing requested for %s is now %s.", appointment.RequestedAt.Format(time.RFC1123), status))
	}
	return s.FindByID(ctx, id)
}

func (s *appointmentService) Delete(ctx context.Context, id, requester primitive.ObjectID, elevated bool) error {
	appointment, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !elevated && appointment.UserID != requester {
		return apperr.Forbidden("you may only delete your own appointments")
	}

	if _, err := s.db.Collection(appointmentsCollection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("deleting appointment %s: %w", id.Hex(), err)
	}
	return nil
}
