package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/utils"
)

const usersCollection = "users"

// ProfileUpdate holds the self-service editable profile fields. Nil pointers
// leave the stored value untouched.
type ProfileUpdate struct {
	Name      *string
	Phone     *string
	Bio       *string
	AvatarURL *string
}

// IUserService defines the interface for user administration.
type IUserService interface {
	List(ctx context.Context, params utils.PageParams) ([]models.UserWithRole, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDWithRole(ctx context.Context, id primitive.ObjectID) (*models.UserWithRole, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AssignRole moves a user onto a different role. Both the user and the
	// role must exist.
	AssignRole(ctx context.Context, userID, roleID primitive.ObjectID) error
}

type userService struct {
	db *mongo.Database
}

// NewUserService creates a new UserService.
func NewUserService(db *mongo.Database) IUserService {
	return &userService{db: db}
}

// userRoleLookup joins the role document and surfaces its name alongside the
// user fields.
var userRoleLookup = []bson.M{
	{"$lookup": bson.M{
		"from":         rolesCollection,
		"localField":   "role_id",
		"foreignField": "_id",
		"as":           "role",
	}},
	{"$set": bson.M{"role_name": bson.M{"$first": "$role.name"}}},
	{"$unset": "role"},
}

func (s *userService) List(ctx context.Context, params utils.PageParams) ([]models.UserWithRole, int64, error) {
	coll := s.db.Collection(usersCollection)

	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}

	sortField, sortOrder := params.SortSpec("created_at", map[string]string{
		"name":      "name",
		"email":     "email",
		"createdAt": "created_at",
	})
	pipeline := []bson.M{
		{"$sort": bson.M{sortField: sortOrder}},
		{"$skip": params.Skip()},
		{"$limit": int64(params.Limit)},
	}
	pipeline = append(pipeline, userRoleLookup...)

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("listing users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.UserWithRole
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("decoding users: %w", err)
	}
	return users, total, nil
}

func (s *userService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("finding user %s: %w", id.Hex(), err)
	}
	return &user, nil
}

func (s *userService) FindByIDWithRole(ctx context.Context, id primitive.ObjectID) (*models.UserWithRole, error) {
	pipeline := []bson.M{{"$match": bson.M{"_id": id}}}
	pipeline = append(pipeline, userRoleLookup...)

	cursor, err := s.db.Collection(usersCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("finding user %s: %w", id.Hex(), err)
	}
	defer cursor.Close(ctx)

	var users []models.UserWithRole
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	if len(users) == 0 {
		return nil, apperr.NotFound("user not found")
	}
	return &users[0], nil
}

func (s *userService) UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) (*models.User, error) {
	set := bson.M{"updated_at": nowUTC()}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperr.Validation("invalid profile", apperr.FieldError{Field: "name", Message: "must not be empty"})
		}
		set["name"] = name
	}
	if update.Phone != nil {
		set["phone"] = strings.TrimSpace(*update.Phone)
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.AvatarURL != nil {
		set["avatar_url"] = *update.AvatarURL
	}

	res, err := s.db.Collection(usersCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("updating user %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return nil, apperr.NotFound("user not found")
	}
	return s.FindByID(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(usersCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting user %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (s *userService) AssignRole(ctx context.Context, userID, roleID primitive.ObjectID) error {
	count, err := s.db.Collection(rolesCollection).CountDocuments(ctx, bson.M{"_id": roleID})
	if err != nil {
		return fmt.Errorf("checking role %s: %w", roleID.Hex(), err)
	}
	if count == 0 {
		return apperr.NotFound("role not found")
	}

	res, err := s.db.Collection(usersCollection).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"role_id": roleID, "updated_at": nowUTC()}},
	)
	if err != nil {
		return fmt.Errorf("assigning role to user %s: %w", userID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
