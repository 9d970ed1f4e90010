package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gitedu/docuvault/internal/api/handler"
	"github.com/gitedu/docuvault/internal/api/middleware"
	"github.com/gitedu/docuvault/internal/core/ports"
	"github.com/gitedu/docuvault/internal/core/service"
	"github.com/gitedu/docuvault/internal/infrastructure/config"
	mongodb "github.com/gitedu/docuvault/internal/infrastructure/db/mongo"
	redisdb "github.com/gitedu/docuvault/internal/infrastructure/db/redis"
	httphandlers "github.com/gitedu/docuvault/internal/infrastructure/http/handlers"
)

// Dependencies carries the externally constructed collaborators the router
// wires together. Everything else is built here.
type Dependencies struct {
	Config *config.Config
	Mongo  *mongo.Database
	Redis  *redis.Client
	Blobs  ports.BlobStore
	Mail   ports.NotificationEnqueuer
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("docuvault"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(deps.Mongo)
	documentRepo := mongodb.NewDocumentRepository(deps.Mongo)
	schemeRepo := mongodb.NewSchemeRepository(deps.Mongo)
	codeStore := redisdb.NewVerificationStore(deps.Redis)

	// --- Services ---
	tokenService := service.NewTokenService(deps.Config.JWT.Secret, deps.Config.JWT.TTL)
	schemeService := service.NewSchemeService(schemeRepo, deps.Logger)
	documentService := service.NewDocumentService(documentRepo, deps.Blobs, schemeService, deps.Logger)
	accountService := service.NewAccountService(
		userRepo, tokenService, codeStore, documentService, deps.Mail,
		deps.Config.EmailDomain, deps.Logger,
	)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(accountService, tokenService.TTL())
	documentHandler := handler.NewDocumentHandler(documentService)
	schemeHandler := handler.NewSchemeHandler(schemeService)

	// --- Access gate ---
	session := middleware.Session(tokenService, userRepo)
	matchRole := middleware.MatchRole()
	adminOnly := middleware.AdminOnly()

	// --- User routes ---
	users := e.Group("/users")
	users.POST("", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/forgot/request", authHandler.RequestPasswordReset)
	users.POST("/forgot", authHandler.ResetPassword)
	users.POST("/verify", authHandler.VerifyEmail, session, matchRole)
	users.POST("/logout", authHandler.Logout, session, matchRole)
	users.POST("/password/request", authHandler.RequestPasswordChange, session, matchRole)
	users.POST("/password", authHandler.ChangePassword, session, matchRole)
	users.DELETE("/:deleteDocuments", authHandler.DeleteAccount, session, matchRole)

	// --- Document routes ---
	documents := e.Group("/documents", session, matchRole)
	documents.POST("", documentHandler.Upload)
	documents.GET("", documentHandler.ListAll)
	documents.GET("/owner", documentHandler.ListByOwner)
	documents.GET("/scheme/:scheme", documentHandler.ListByScheme)
	documents.GET("/subject/:subject", documentHandler.ListBySubject)
	documents.GET("/download/:storageKey", documentHandler.Download)
	documents.DELETE("/:storageKey", documentHandler.Delete)

	// --- Scheme routes ---
	schemes := e.Group("/schemes", session)
	schemes.GET("", schemeHandler.List, matchRole)
	schemes.POST("", schemeHandler.Create, adminOnly)
	schemes.DELETE("/:scheme", schemeHandler.Delete, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := httphandlers.NewHealthHandler()
	healthDepsHandler := httphandlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
