package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/utils"
)

func TestStatsService_Dashboard(t *testing.T) {
	database := utils.SetupTestDB(t, "testdb_stats_service",
		"users", "roles", "permissions", "properties", "appointments", "inquiries", "deals")
	roleSvc := NewRoleService(database)
	ctx := context.Background()
	require.NoError(t, roleSvc.EnsureSeeded(ctx))

	userRole, err := roleSvc.FindByName(ctx, models.RoleUser)
	require.NoError(t, err)
	agentRole, err := roleSvc.FindByName(ctx, models.RoleAgent)
	require.NoError(t, err)

	users := []interface{}{
		models.User{Base: models.NewBase(), Email: "u1@example.com", RoleID: userRole.ID},
		models.User{Base: models.NewBase(), Email: "u2@example.com", RoleID: userRole.ID},
		models.User{Base: models.NewBase(), Email: "a1@example.com", RoleID: agentRole.ID},
	}
	_, err = database.Collection("users").InsertMany(ctx, users)
	require.NoError(t, err)

	properties := []interface{}{
		models.Property{Base: models.NewBase(), Title: "P1", Availability: models.AvailabilityAvailable},
		models.Property{Base: models.NewBase(), Title: "P2", Availability: models.AvailabilityAvailable},
		models.Property{Base: models.NewBase(), Title: "P3", Availability: models.AvailabilitySold},
		models.Property{Base: models.NewBase(), Title: "P4", Availability: models.AvailabilityRented},
	}
	_, err = database.Collection("properties").InsertMany(ctx, properties)
	require.NoError(t, err)

	appointments := []interface{}{
		// Upcoming and live.
		models.Appointment{Base: models.NewBase(), RequestedAt: time.Now().Add(24 * time.Hour), Status: models.AppointmentPending},
		models.Appointment{Base: models.NewBase(), RequestedAt: time.Now().Add(48 * time.Hour), Status: models.AppointmentConfirmed},
		// Upcoming but cancelled, excluded.
		models.Appointment{Base: models.NewBase(), RequestedAt: time.Now().Add(24 * time.Hour), Status: models.AppointmentCancelled},
		// In the past, excluded.
		models.Appointment{Base: models.NewBase(), RequestedAt: time.Now().Add(-24 * time.Hour), Status: models.AppointmentConfirmed},
	}
	_, err = database.Collection("appointments").InsertMany(ctx, appointments)
	require.NoError(t, err)

	inquiries := []interface{}{
		models.Inquiry{Base: models.NewBase(), PropertyID: primitive.NewObjectID(), Message: "m", Status: models.InquiryNew},
		models.Inquiry{Base: models.NewBase(), PropertyID: primitive.NewObjectID(), Message: "m", Status: models.InquiryClosed},
	}
	_, err = database.Collection("inquiries").InsertMany(ctx, inquiries)
	require.NoError(t, err)

	_, err = database.Collection("deals").InsertOne(ctx, models.Deal{
		Base: models.NewBase(), DealType: models.DealTypeSale, AgreedPrice: 100, ClosedAt: time.Now(),
	})
	require.NoError(t, err)

	svc := NewStatsService(database)
	stats, err := svc.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalAgents)
	assert.Equal(t, int64(4), stats.TotalProperties)
	assert.Equal(t, int64(2), stats.AvailableProperties)
	assert.Equal(t, int64(1), stats.SoldProperties)
	assert.Equal(t, int64(1), stats.RentedProperties)
	assert.Equal(t, int64(2), stats.UpcomingAppointments)
	assert.Equal(t, int64(1), stats.NewInquiries)
	assert.Equal(t, int64(1), stats.TotalDeals)
}
