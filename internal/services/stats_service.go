package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/NarakCODE/real-estate-management/internal/models"
)

// DashboardStats is the aggregate snapshot served to the admin dashboard.
type DashboardStats struct {
	TotalUsers           int64 `json:"totalUsers"`
	TotalAgents          int64 `json:"totalAgents"`
	TotalProperties      int64 `json:"totalProperties"`
	AvailableProperties  int64 `json:"availableProperties"`
	SoldProperties       int64 `json:"soldProperties"`
	RentedProperties     int64 `json:"rentedProperties"`
	UpcomingAppointments int64 `json:"upcomingAppointments"`
	NewInquiries         int64 `json:"newInquiries"`
	TotalDeals           int64 `json:"totalDeals"`
}

// IStatsService defines the interface for dashboard aggregates.
type IStatsService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

type statsService struct {
	db *mongo.Database
}

// NewStatsService creates a new StatsService.
func NewStatsService(db *mongo.Database) IStatsService {
	return &statsService{db: db}
}

// Dashboard runs the independent counts concurrently; the snapshot is not a
// transaction, each figure is accurate as of its own read.
func (s *statsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	g, gctx := errgroup.WithContext(ctx)
	count := func(coll string, filter bson.M, dst *int64) func() error {
		return func() error {
			n, err := s.db.Collection(coll).CountDocuments(gctx, filter)
			if err != nil {
				return fmt.Errorf("counting %s: %w", coll, err)
			}
			*dst = n
			return nil
		}
	}

	g.Go(count(usersCollection, bson.M{}, &stats.TotalUsers))
	g.Go(func() error {
		var role models.Role
		err := s.db.Collection(rolesCollection).FindOne(gctx, bson.M{"name": models.RoleAgent}).Decode(&role)
		if err != nil {
			return fmt.Errorf("finding agent role: %w", err)
		}
		n, err := s.db.Collection(usersCollection).CountDocuments(gctx, bson.M{"role_id": role.ID})
		if err != nil {
			return fmt.Errorf("counting agents: %w", err)
		}
		stats.TotalAgents = n
		return nil
	})
	g.Go(count(propertiesCollection, bson.M{}, &stats.TotalProperties))
	g.Go(count(propertiesCollection, bson.M{"availability": models.AvailabilityAvailable}, &stats.AvailableProperties))
	g.Go(count(propertiesCollection, bson.M{"availability": models.AvailabilitySold}, &stats.SoldProperties))
	g.Go(count(propertiesCollection, bson.M{"availability": models.AvailabilityRented}, &stats.RentedProperties))
	g.Go(count(appointmentsCollection, bson.M{
		"requested_at": bson.M{"$gte": nowUTC()},
		"status":       bson.M{"$in": []string{models.AppointmentPending, models.AppointmentConfirmed}},
	}, &stats.UpcomingAppointments))
	g.Go(count(inquiriesCollection, bson.M{"status": models.InquiryNew}, &stats.NewInquiries))
	g.Go(count(dealsCollection, bson.M{}, &stats.TotalDeals))

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
