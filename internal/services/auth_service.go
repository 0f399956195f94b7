package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/auth"
	"github.com/NarakCODE/real-estate-management/internal/config"
	"github.com/NarakCODE/real-estate-management/internal/db"
	"github.com/NarakCODE/real-estate-management/internal/models"
)

// RegisterInput carries the fields accepted at registration time.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// IAuthService defines the interface for registration and login.
type IAuthService interface {
	// Register creates a new account with the default User role.
	// Returns a Conflict error if the email is already taken.
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	// Login verifies credentials and returns the user plus a signed JWT.
	// Invalid email and invalid password produce the same Unauthorized
	// error so the response does not leak which accounts exist.
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

type authService struct {
	db      *mongo.Database
	cfg     *config.Config
	roleSvc IRoleService
}

// NewAuthService creates a new AuthService.
func NewAuthService(database *mongo.Database, cfg *config.Config, roleSvc IRoleService) IAuthService {
	return &authService{db: database, cfg: cfg, roleSvc: roleSvc}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	defaultRole, err := s.roleSvc.FindByName(ctx, models.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("resolving default role: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := models.User{
		Base:     models.NewBase(),
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: hash,
		RoleID:   defaultRole.ID,
		Phone:    strings.TrimSpace(input.Phone),
	}

	_, err = s.db.Collection(usersCollection).InsertOne(ctx, user)
	if err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			return nil, apperr.Conflict("an account with this email already exists")
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return &user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", apperr.Unauthorized("invalid email or password")
		}
		return nil, "", fmt.Errorf("finding user by email: %w", err)
	}

	if !auth.CheckPasswordHash(password, user.Password) {
		return nil, "", apperr.Unauthorized("invalid email or password")
	}

	token, err := auth.GenerateJWT(user.ID, user.RoleID, s.cfg.JwtSecret, s.cfg.JwtTTL)
	if err != nil {
		return nil, "", fmt.Errorf("signing token: %w", err)
	}
	return &user, token, nil
}
