package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sydneykevadiya/groundnut-backend/internal/config"
	"github.com/sydneykevadiya/groundnut-backend/internal/http/handlers"
	"github.com/sydneykevadiya/groundnut-backend/internal/http/middleware"
	"github.com/sydneykevadiya/groundnut-backend/internal/models"
	"github.com/sydneykevadiya/groundnut-backend/internal/service"
)

// SetupRouter собирает все маршруты API.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	listingHandler *handlers.ListingHandler,
	offerHandler *handlers.OfferHandler,
	reportHandler *handlers.ReportHandler,
	adminHandler *handlers.AdminHandler,
	mediaHandler *handlers.MediaHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	// Аутентификация с лимитом запросов против перебора.
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register/farmer", authHandler.RegisterFarmer)
		authGroup.POST("/register/company", authHandler.RegisterCompany)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/forgot-password/verify", authHandler.VerifyResetOTP)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/profile", authHandler.Profile)
		protectedAuth.POST("/otp/send", authHandler.SendOTP)
		protectedAuth.POST("/otp/verify", authHandler.VerifyOTP)
	}

	// События сделок.
	api.GET("/ws", wsHandler.Handle)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		// Витрина доступна обеим ролям и администратору.
		protected.GET("/listings", listingHandler.ListActive)
		protected.GET("/listings/:id", middleware.UUIDValidator("id"), listingHandler.Get)

		farmerOnly := protected.Group("/")
		farmerOnly.Use(middleware.RequireRole(models.RoleFarmer))
		{
			farmerOnly.POST("/listings", listingHandler.Create)
			farmerOnly.GET("/listings/my", listingHandler.ListMine)
			farmerOnly.PUT("/listings/:id/status", middleware.UUIDValidator("id"), listingHandler.UpdateStatus)
			farmerOnly.GET("/listings/:id/offers", middleware.UUIDValidator("id"), listingHandler.ListOffers)
			farmerOnly.PUT("/offers/:id/decision", middleware.UUIDValidator("id"), offerHandler.Decide)
		}

		companyOnly := protected.Group("/")
		companyOnly.Use(middleware.RequireRole(models.RoleCompany))
		{
			companyOnly.POST("/offers", offerHandler.Create)
		}

		protected.POST("/reports", reportHandler.Create)
		protected.POST("/media/photos", mediaHandler.Upload)
	}

	// Панель модерации: доступ только по claim role=admin.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireAdmin())
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.DELETE("/users/:id", middleware.UUIDValidator("id"), adminHandler.DeleteUser)
		admin.PUT("/companies/:id/verify", middleware.UUIDValidator("id"), adminHandler.VerifyCompany)
		admin.GET("/listings", adminHandler.ListListings)
		admin.DELETE("/listings/:id", middleware.UUIDValidator("id"), adminHandler.DeleteListing)
		admin.GET("/offers", adminHandler.ListOffers)
		admin.POST("/offers/:id/cancel", middleware.UUIDValidator("id"), adminHandler.CancelDeal)
		admin.GET("/reports", adminHandler.ListReports)
		admin.PUT("/reports/:id/resolve", middleware.UUIDValidator("id"), adminHandler.ResolveReport)
	}

	return r
}
