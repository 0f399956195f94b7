package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/utils"
)

func TestDealService_CreateMarksProperty(t *testing.T) {
	database := utils.SetupTestDB(t, "testdb_deal_service", "deals", "properties", "users")
	svc := NewDealService(database)
	ctx := context.Background()

	agent := models.User{Base: models.NewBase(), Name: "Agent", Email: "agent@example.com"}
	client := models.User{Base: models.NewBase(), Name: "Client", Email: "client@example.com"}
	_, err := database.Collection("users").InsertMany(ctx, []interface{}{agent, client})
	require.NoError(t, err)

	property := models.Property{
		Base:         models.NewBase(),
		Title:        "Closing Soon",
		PropertyType: models.PropertyTypeVilla,
		Status:       models.PropertyStatusForSale,
		Availability: models.AvailabilityAvailable,
		AgentID:      agent.ID,
	}
	_, err = database.Collection("properties").InsertOne(ctx, property)
	require.NoError(t, err)

	deal := &models.Deal{
		PropertyID:  property.ID,
		AgentID:     agent.ID,
		ClientID:    client.ID,
		DealType:    models.DealTypeSale,
		AgreedPrice: 420000,
	}
	require.NoError(t, svc.Create(ctx, deal))
	assert.Equal(t, "USD", deal.Currency)
	assert.False(t, deal.ClosedAt.IsZero())

	var updated models.Property
	require.NoError(t, database.Collection("properties").FindOne(ctx, bson.M{"_id": property.ID}).Decode(&updated))
	assert.Equal(t, models.AvailabilitySold, updated.Availability, "a sale marks the property Sold")

	found, err := svc.FindByID(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, deal.AgreedPrice, found.AgreedPrice)
}

func TestDealService_CreateRejectsBadReferences(t *testing.T) {
	database := utils.SetupTestDB(t, "testdb_deal_service_refs", "deals", "properties", "users")
	svc := NewDealService(database)
	ctx := context.Background()

	err := svc.Create(ctx, &models.Deal{
		PropertyID:  primitive.NewObjectID(),
		AgentID:     primitive.NewObjectID(),
		ClientID:    primitive.NewObjectID(),
		DealType:    models.DealTypeRent,
		AgreedPrice: 1200,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	err = svc.Create(ctx, &models.Deal{
		PropertyID:  primitive.NewObjectID(),
		AgentID:     primitive.NewObjectID(),
		ClientID:    primitive.NewObjectID(),
		DealType:    "Swap",
		AgreedPrice: 0,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
}

func TestDealService_ScopedList(t *testing.T) {
	database := utils.SetupTestDB(t, "testdb_deal_service_scope", "deals", "properties", "users")
	svc := NewDealService(database)
	ctx := context.Background()

	agent := models.User{Base: models.NewBase(), Name: "Agent", Email: "agent2@example.com"}
	client := models.User{Base: models.NewBase(), Name: "Client", Email: "client2@example.com"}
	_, err := database.Collection("users").InsertMany(ctx, []interface{}{agent, client})
	require.NoError(t, err)

	property := models.Property{Base: models.NewBase(), Title: "P", PropertyType: models.PropertyTypeLand, Status: models.PropertyStatusForRent, AgentID: agent.ID}
	_, err = database.Collection("properties").InsertOne(ctx, property)
	require.NoError(t, err)

	deal := &models.Deal{PropertyID: property.ID, AgentID: agent.ID, ClientID: client.ID, DealType: models.DealTypeRent, AgreedPrice: 900}
	require.NoError(t, svc.Create(ctx, deal))

	params := utils.PageParams{Page: 1, Limit: 10}

	_, total, err := svc.List(ctx, Viewer{UserID: agent.ID, RoleName: models.RoleAgent}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = svc.List(ctx, Viewer{UserID: primitive.NewObjectID(), RoleName: models.RoleAgent}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total, "agents only see their own deals")

	_, total, err = svc.List(ctx, Viewer{UserID: client.ID, RoleName: models.RoleUser}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "clients see deals they are party to")
}
