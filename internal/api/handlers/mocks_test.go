package handlers_test

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NarakCODE/real-estate-management/internal/api/middleware"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/services"
	"github.com/NarakCODE/real-estate-management/internal/storage"
	"github.com/NarakCODE/real-estate-management/internal/utils"
)

// --- Mocks ---

// withPrincipal injects an authenticated principal the way the auth
// middleware would, so handlers can be tested without real tokens.
func withPrincipal(p *middleware.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyPrincipal, p)
		c.Next()
	}
}

// MockAuthService implements services.IAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input services.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

// MockUserService implements services.IUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, params utils.PageParams) ([]models.UserWithRole, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.UserWithRole), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindByIDWithRole(ctx context.Context, id primitive.ObjectID) (*models.UserWithRole, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserWithRole), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, update services.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) AssignRole(ctx context.Context, userID, roleID primitive.ObjectID) error {
	args := m.Called(ctx, userID, roleID)
	return args.Error(0)
}

// MockPropertyService implements services.IPropertyService
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) Create(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyService) List(ctx context.Context, filter services.PropertyFilter, params utils.PageParams) ([]models.Property, int64, error) {
	args := m.Called(ctx, filter, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Property), args.Get(1).(int64), args.Error(2)
}

func (m *MockPropertyService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) FindBySlug(ctx context.Context, slug string) (*models.Property, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) ListByAgent(ctx context.Context, agentID primitive.ObjectID, params utils.PageParams) ([]models.Property, int64, error) {
	args := m.Called(ctx, agentID, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Property), args.Get(1).(int64), args.Error(2)
}

func (m *MockPropertyService) Update(ctx context.Context, id primitive.ObjectID, update services.PropertyUpdate) (*models.Property, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) UpdateAvailability(ctx context.Context, id primitive.ObjectID, availability string) (*models.Property, error) {
	args := m.Called(ctx, id, availability)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyService) AppendImage(ctx context.Context, id primitive.ObjectID, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

func (m *MockPropertyService) OwnerOf(ctx context.Context, id primitive.ObjectID) (primitive.ObjectID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockPropertyService) Stats(ctx context.Context, agentID *primitive.ObjectID) (*services.PropertyStats, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PropertyStats), args.Error(1)
}

// MockAppointmentService implements services.IAppointmentService
type MockAppointmentService struct {
	mock.Mock
}

func (m *MockAppointmentService) Create(ctx context.Context, appointment *models.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentService) List(ctx context.Context, viewer services.Viewer, params utils.PageParams) ([]models.Appointment, int64, error) {
	args := m.Called(ctx, viewer, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Appointment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAppointmentService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Update(ctx context.Context, id primitive.ObjectID, requester primitive.ObjectID, elevated bool, update services.AppointmentUpdate) (*models.Appointment, error) {
	args := m.Called(ctx, id, requester, elevated, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockAppointmentService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Appointment, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Delete(ctx context.Context, id primitive.ObjectID, requester primitive.ObjectID, elevated bool) error {
	args := m.Called(ctx, id, requester, elevated)
	return args.Error(0)
}

// MockDealService implements services.IDealService
type MockDealService struct {
	mock.Mock
}

func (m *MockDealService) Create(ctx context.Context, deal *models.Deal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *MockDealService) List(ctx context.Context, viewer services.Viewer, params utils.PageParams) ([]models.Deal, int64, error) {
	args := m.Called(ctx, viewer, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Deal), args.Get(1).(int64), args.Error(2)
}

func (m *MockDealService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Deal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deal), args.Error(1)
}

func (m *MockDealService) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReviewService implements services.IReviewService
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewService) List(ctx context.Context, filter services.ReviewFilter, params utils.PageParams) ([]models.Review, int64, error) {
	args := m.Called(ctx, filter, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, id, author primitive.ObjectID, update services.ReviewUpdate) (*models.Review, error) {
	args := m.Called(ctx, id, author, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, id, requester primitive.ObjectID, elevated bool) error {
	args := m.Called(ctx, id, requester, elevated)
	return args.Error(0)
}

// MockFavoriteService implements services.IFavoriteService
type MockFavoriteService struct {
	mock.Mock
}

func (m *MockFavoriteService) Add(ctx context.Context, userID, propertyID primitive.ObjectID) (*models.Favorite, error) {
	args := m.Called(ctx, userID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Favorite), args.Error(1)
}

func (m *MockFavoriteService) List(ctx context.Context, userID primitive.ObjectID, params utils.PageParams) ([]models.FavoriteWithProperty, int64, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.FavoriteWithProperty), args.Get(1).(int64), args.Error(2)
}

func (m *MockFavoriteService) Remove(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	args := m.Called(ctx, userID, propertyID)
	return args.Error(0)
}

// MockInquiryService implements services.IInquiryService
type MockInquiryService struct {
	mock.Mock
}

func (m *MockInquiryService) Create(ctx context.Context, inquiry *models.Inquiry) error {
	args := m.Called(ctx, inquiry)
	return args.Error(0)
}

func (m *MockInquiryService) List(ctx context.Context, filter services.InquiryFilter, params utils.PageParams) ([]models.Inquiry, int64, error) {
	args := m.Called(ctx, filter, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Inquiry), args.Get(1).(int64), args.Error(2)
}

func (m *MockInquiryService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Inquiry, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAmenityService implements services.IAmenityService
type MockAmenityService struct {
	mock.Mock
}

func (m *MockAmenityService) Create(ctx context.Context, amenity *models.Amenity) error {
	args := m.Called(ctx, amenity)
	return args.Error(0)
}

func (m *MockAmenityService) List(ctx context.Context) ([]models.Amenity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Amenity), args.Error(1)
}

func (m *MockAmenityService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Amenity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Amenity), args.Error(1)
}

func (m *MockAmenityService) Update(ctx context.Context, id primitive.ObjectID, update services.AmenityUpdate) (*models.Amenity, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Amenity), args.Error(1)
}

func (m *MockAmenityService) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRoleService implements services.IRoleService
type MockRoleService struct {
	mock.Mock
}

func (m *MockRoleService) List(ctx context.Context) ([]models.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Role), args.Error(1)
}

func (m *MockRoleService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Role), args.Error(1)
}

func (m *MockRoleService) FindByName(ctx context.Context, name string) (*models.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Role), args.Error(1)
}

func (m *MockRoleService) PermissionNamesFor(ctx context.Context, roleID primitive.ObjectID) ([]string, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRoleService) EnsureSeeded(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockStatsService implements services.IStatsService
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Dashboard(ctx context.Context) (*services.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DashboardStats), args.Error(1)
}

// MockUploader implements storage.Uploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) PresignPut(ctx context.Context, propertyID, filename, contentType string) (*storage.PresignedUpload, error) {
	args := m.Called(ctx, propertyID, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.PresignedUpload), args.Error(1)
}

// MockImageEnqueuer implements services.ImageEnqueuer
type MockImageEnqueuer struct {
	mock.Mock
}

func (m *MockImageEnqueuer) EnqueueImageProcess(ctx context.Context, propertyID, key string) error {
	args := m.Called(ctx, propertyID, key)
	return args.Error(0)
}

// MockRevoker implements auth.Revoker
type MockRevoker struct {
	mock.Mock
}

func (m *MockRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}

func (m *MockRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}
