// Package api assembles the Gin engine: services, middleware and routes.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/NarakCODE/real-estate-management/internal/api/handlers"
	"github.com/NarakCODE/real-estate-management/internal/api/middleware"
	"github.com/NarakCODE/real-estate-management/internal/auth"
	"github.com/NarakCODE/real-estate-management/internal/config"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/services"
	"github.com/NarakCODE/real-estate-management/internal/storage"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, queue services.TaskQueue, uploader storage.Uploader, logger *zap.Logger) *gin.Engine {
	roleService := services.NewRoleService(db)
	userService := services.NewUserService(db)
	authService := services.NewAuthService(db, cfg, roleService)
	propertyService := services.NewPropertyService(db)
	appointmentService := services.NewAppointmentService(db, queue)
	dealService := services.NewDealService(db)
	reviewService := services.NewReviewService(db)
	favoriteService := services.NewFavoriteService(db)
	inquiryService := services.NewInquiryService(db, queue)
	amenityService := services.NewAmenityService(db)
	statsService := services.NewStatsService(db)

	revoker := auth.NewRedisRevoker(rdb)

	authHandler := handlers.NewAuthHandler(authService, userService, revoker, cfg.JwtSecret)
	userHandler := handlers.NewUserHandler(userService)
	roleHandler := handlers.NewRoleHandler(roleService)
	propertyHandler := handlers.NewPropertyHandler(propertyService, uploader, queue)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	dealHandler := handlers.NewDealHandler(dealService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	inquiryHandler := handlers.NewInquiryHandler(inquiryService)
	amenityHandler := handlers.NewAmenityHandler(amenityService)
	statsHandler := handlers.NewStatsHandler(statsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.FrontendOrigin))

	rateLimiter := middleware.NewRateLimiter(float64(cfg.RateLimitRefillRate), cfg.RateLimitBucketSize, logger)
	r.Use(rateLimiter.Limit())

	authn := middleware.RequireAuth(cfg.JwtSecret, revoker, userService, roleService)
	optionalAuthn := middleware.OptionalAuth(cfg.JwtSecret, revoker, userService, roleService)
	perm := middleware.RequirePermission

	v1 := r.Group(cfg.BasePath)
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authn, authHandler.Logout)
			authGroup.GET("/me", authn, authHandler.Me)
		}

		users := v1.Group("/users")
		{
			users.GET("", authn, perm(models.PermManageUsers), userHandler.List)
			users.PUT("/me", authn, userHandler.UpdateMe)
			users.POST("/assign-role", authn, perm(models.PermManageUsers), userHandler.AssignRole)
			users.GET("/:id", authn, perm(models.PermManageUsers), userHandler.Get)
			users.DELETE("/:id/delete", authn, perm(models.PermManageUsers), userHandler.Delete)
		}

		roles := v1.Group("/roles", authn, perm(models.PermManageUsers))
		{
			roles.GET("", roleHandler.List)
			roles.GET("/:id", roleHandler.Get)
		}

		properties := v1.Group("/properties")
		{
			// Reads are public.
			properties.GET("", propertyHandler.List)
			properties.GET("/search", propertyHandler.List)
			properties.GET("/slug/:slug", propertyHandler.GetBySlug)
			properties.GET("/user", authn, propertyHandler.ListMine)
			properties.GET("/stats", authn, propertyHandler.Stats)
			properties.GET("/:id", propertyHandler.Get)

			properties.POST("/create", authn, perm(models.PermCreateProperty), propertyHandler.Create)
			properties.PUT("/:id/update", authn, perm(models.PermUpdateProperty), propertyHandler.Update)
			properties.PATCH("/:id/status", authn, perm(models.PermUpdateProperty), propertyHandler.UpdateAvailability)
			properties.DELETE("/:id/delete", authn, perm(models.PermDeleteProperty), propertyHandler.Delete)
			properties.POST("/:id/images/upload-url", authn, perm(models.PermUpdateProperty), propertyHandler.ImageUploadURL)
			properties.POST("/:id/images/process", authn, perm(models.PermUpdateProperty), propertyHandler.ProcessImage)
		}

		appointments := v1.Group("/appointments", authn)
		{
			appointments.POST("/create", perm(models.PermCreateAppointment), appointmentHandler.Create)
			appointments.GET("", appointmentHandler.List)
			appointments.GET("/:id", appointmentHandler.Get)
			appointments.PUT("/:id/update", perm(models.PermUpdateAppointment), appointmentHandler.Update)
			appointments.PATCH("/:id/status", perm(models.PermApproveAppointment), appointmentHandler.UpdateStatus)
			appointments.DELETE("/:id/delete", perm(models.PermDeleteAppointment), appointmentHandler.Delete)
		}

		deals := v1.Group("/deals", authn)
		{
			deals.POST("/create", perm(models.PermCreateDeal), dealHandler.Create)
			deals.GET("", perm(models.PermReadDeal), dealHandler.List)
			deals.GET("/:id", perm(models.PermReadDeal), dealHandler.Get)
			deals.DELETE("/:id/delete", perm(models.PermManageDeals), dealHandler.Delete)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.GET("", reviewHandler.List)
			reviews.GET("/:id", reviewHandler.Get)
			reviews.POST("/create", authn, perm(models.PermCreateReview), reviewHandler.Create)
			reviews.PUT("/:id/update", authn, perm(models.PermUpdateReview), reviewHandler.Update)
			reviews.DELETE("/:id/delete", authn, perm(models.PermDeleteReview), reviewHandler.Delete)
		}

		favorites := v1.Group("/favorites", authn)
		{
			favorites.GET("", favoriteHandler.List)
			favorites.POST("/:propertyId", favoriteHandler.Add)
			favorites.DELETE("/:propertyId", favoriteHandler.Remove)
		}

		inquiries := v1.Group("/inquiries")
		{
			// Guests may inquire; a valid token attaches the account.
			inquiries.POST("/create", optionalAuthn, inquiryHandler.Create)
			inquiries.GET("", authn, inquiryHandler.List)
			inquiries.GET("/:id", authn, perm(models.PermViewDashboard), inquiryHandler.Get)
			inquiries.PATCH("/:id/status", authn, perm(models.PermViewDashboard), inquiryHandler.UpdateStatus)
			inquiries.DELETE("/:id/delete", authn, perm(models.PermViewDashboard), inquiryHandler.Delete)
		}

		amenities := v1.Group("/amenities")
		{
			amenities.GET("", amenityHandler.List)
			amenities.GET("/:id", amenityHandler.Get)
			amenities.POST("/create", authn, perm(models.PermManageAmenities), amenityHandler.Create)
			amenities.PUT("/:id/update", authn, perm(models.PermManageAmenities), amenityHandler.Update)
			amenities.DELETE("/:id/delete", authn, perm(models.PermManageAmenities), amenityHandler.Delete)
		}

		v1.GET("/dashboard/stats", authn, perm(models.PermViewDashboard), statsHandler.Dashboard)
	}

	return r
}
