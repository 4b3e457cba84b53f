package app

import (
	"net/http"

	authsvc "casavia-backend/internal/application/auth"
	emailsvc "casavia-backend/internal/application/emails"
	eventsvc "casavia-backend/internal/application/events"
	healthsvc "casavia-backend/internal/application/health"
	listsvc "casavia-backend/internal/application/listings"
	uploadsvc "casavia-backend/internal/application/uploads"
	"casavia-backend/internal/config"
	"casavia-backend/internal/constants"
	"casavia-backend/internal/infrastructure/database"
	adminh "casavia-backend/internal/interfaces/handlers/admin"
	authh "casavia-backend/internal/interfaces/handlers/auth"
	contacth "casavia-backend/internal/interfaces/handlers/contact"
	healthh "casavia-backend/internal/interfaces/handlers/health"
	listingsh "casavia-backend/internal/interfaces/handlers/listings"
	uploadsh "casavia-backend/internal/interfaces/handlers/uploads"
	"casavia-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. Returns the DB and Redis clients for startup checks.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Session (Redis)
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	// Tracing + route logger
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	// Health (no auth)
	healthHandlers := &healthh.Handlers{Service: &healthsvc.Service{DB: db, Rdb: rdb}}
	app.Get("/health/json", healthHandlers.JSON)

	// Auth (no auth middleware): POST login, GET me, DELETE logout
	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	authHandlers := &authh.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// Contact form (public)
	contactHandlers := &contacth.Handlers{
		Sender: &emailsvc.SMTPSender{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			To:   cfg.ContactEmail,
		},
	}
	app.Post("/api/v1/contact", contactHandlers.Submit)

	if db != nil {
		// Asset store (Cloudinary)
		uploadService := &uploadsvc.Service{
			Client: &uploadsvc.CloudinaryClient{
				CloudName: cfg.CloudinaryCloudName,
				APIKey:    cfg.CloudinaryAPIKey,
				APISecret: cfg.CloudinaryAPISecret,
			},
			Folder: cfg.CloudinaryUploadFolder,
		}

		listingService := &listsvc.Service{DB: db, Assets: uploadService}
		eventService := &eventsvc.Service{DB: db}

		// Public catalog
		listingHandlers := &listingsh.Handlers{Service: listingService}
		listingsGroup := app.Group("/api/v1/listings")
		listingsGroup.Get("/", listingHandlers.Browse)
		listingsGroup.Get("/featured", listingHandlers.Featured)
		listingsGroup.Get("/slug/:slug", listingHandlers.BySlug)

		// Admin panel (auth + permission per route)
		adminHandlers := &adminh.Handlers{Listings: listingService, Events: eventService}
		adminGroup := app.Group("/api/v1/admin", middleware.RequireAuth())
		adminGroup.Get("/listings", middleware.AuthorizePermission(constants.ManageListings), adminHandlers.List)
		adminGroup.Post("/listings", middleware.AuthorizePermission(constants.ManageListings), adminHandlers.Create)
		adminGroup.Get("/listings/:id", middleware.AuthorizePermission(constants.ManageListings), adminHandlers.Get)
		adminGroup.Put("/listings/:id", middleware.AuthorizePermission(constants.ManageListings), adminHandlers.Update)
		adminGroup.Delete("/listings/:id", middleware.AuthorizePermission(constants.ManageListings), adminHandlers.Delete)
		adminGroup.Patch("/listings/:id/featured", middleware.AuthorizePermission(constants.FeatureListing), adminHandlers.SetFeatured)
		adminGroup.Get("/listings/:id/events", middleware.AuthorizePermission(constants.ViewAuditTrail), adminHandlers.ListingEvents)

		uploadHandlers := &uploadsh.Handlers{Service: uploadService}
		adminGroup.Post("/uploads/sign", middleware.AuthorizePermission(constants.SignUpload), uploadHandlers.Sign)
	}

	return app, db, rdb, nil
}

// Handler returns an http.Handler wrapping the Fiber app.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
