package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/models"
)

const (
	rolesCollection       = "roles"
	permissionsCollection = "permissions"
)

// IRoleService defines the interface for role and permission operations.
// This allows for easier mocking in tests.
type IRoleService interface {
	List(ctx context.Context) ([]models.Role, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
	// PermissionNamesFor resolves a role's permission ObjectIDs into names.
	PermissionNamesFor(ctx context.Context, roleID primitive.ObjectID) ([]string, error)
	// EnsureSeeded upserts the built-in permissions and roles. Idempotent;
	// run at startup before the API accepts traffic.
	EnsureSeeded(ctx context.Context) error
}

type roleService struct {
	db *mongo.Database
}

// NewRoleService creates a new RoleService.
func NewRoleService(db *mongo.Database) IRoleService {
	return &roleService{db: db}
}

func (s *roleService) List(ctx context.Context) ([]models.Role, error) {
	cursor, err := s.db.Collection(rolesCollection).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("finding roles: %w", err)
	}
	defer cursor.Close(ctx)

	var roles []models.Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, fmt.Errorf("decoding roles: %w", err)
	}
	return roles, nil
}

func (s *roleService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Role, error) {
	var role models.Role
	err := s.db.Collection(rolesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&role)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("role not found")
		}
		return nil, fmt.Errorf("finding role %s: %w", id.Hex(), err)
	}
	return &role, nil
}

func (s *roleService) FindByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := s.db.Collection(rolesCollection).FindOne(ctx, bson.M{"name": name}).Decode(&role)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("role not found")
		}
		return nil, fmt.Errorf("finding role %q: %w", name, err)
	}
	return &role, nil
}

func (s *roleService) PermissionNamesFor(ctx context.Context, roleID primitive.ObjectID) ([]string, error) {
	role, err := s.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if len(role.Permissions) == 0 {
		return nil, nil
	}

	cursor, err := s.db.Collection(permissionsCollection).Find(ctx, bson.M{"_id": bson.M{"$in": role.Permissions}})
	if err != nil {
		return nil, fmt.Errorf("finding permissions for role %s: %w", roleID.Hex(), err)
	}
	defer cursor.Close(ctx)

	var perms []models.Permission
	if err := cursor.All(ctx, &perms); err != nil {
		return nil, fmt.Errorf("decoding permissions: %w", err)
	}
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name)
	}
	return names, nil
}

// EnsureSeeded upserts every built-in permission, then upserts the three
// built-in roles pointing at the current permission IDs. Existing role
// documents get their permission sets refreshed so new permissions added
// in a release reach deployed databases.
func (s *roleService) EnsureSeeded(ctx context.Context) error {
	permIDs := make(map[string]primitive.ObjectID, len(models.AllPermissions))
	permsColl := s.db.Collection(permissionsCollection)
	for _, name := range models.AllPermissions {
		var perm models.Permission
		err := permsColl.FindOneAndUpdate(ctx,
			bson.M{"name": name},
			bson.M{
				"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "created_at": nowUTC(), "updated_at": nowUTC()},
				"$set":         bson.M{"name": name},
			},
			options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
		).Decode(&perm)
		if err != nil {
			return fmt.Errorf("seeding permission %q: %w", name, err)
		}
		permIDs[name] = perm.ID
	}

	rolesColl := s.db.Collection(rolesCollection)
	for roleName, permNames := range models.DefaultRolePermissions {
		ids := make([]primitive.ObjectID, 0, len(permNames))
		for _, pn := range permNames {
			id, ok := permIDs[pn]
			if !ok {
				return fmt.Errorf("role %q references unknown permission %q", roleName, pn)
			}
			ids = append(ids, id)
		}
		_, err := rolesColl.UpdateOne(ctx,
			bson.M{"name": roleName},
			bson.M{
				"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "created_at": nowUTC()},
				"$set":         bson.M{"permissions": ids, "updated_at": nowUTC()},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seeding role %q: %w", roleName, err)
		}
	}
	return nil
}
