package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/realtyflow/crm-system/internal/api/handler"
	"github.com/realtyflow/crm-system/internal/api/middleware"
	"github.com/realtyflow/crm-system/internal/core/domain"
	"github.com/realtyflow/crm-system/internal/core/scoring"
	"github.com/realtyflow/crm-system/internal/core/service"
	mongodb "github.com/realtyflow/crm-system/internal/infrastructure/db/mongo"
	redisdb "github.com/realtyflow/crm-system/internal/infrastructure/db/redis"
	"github.com/realtyflow/crm-system/internal/infrastructure/queue"
)

// Options carries the runtime knobs the router needs beyond its connections.
type Options struct {
	JWTSecret      string
	TokenTTL       time.Duration
	RescoreWorkers int
	Logger         zerolog.Logger
}

// Router bundles the Echo instance with the background collaborators main
// has to start and schedule.
type Router struct {
	Echo       *echo.Echo
	Dispatcher *queue.Dispatcher
	ScoreSync  *service.ScoreSyncService
}

// NewRouter builds the Echo instance with all routes registered, plus the
// rescore dispatcher and the score synchronizer wired to the same storage.
func NewRouter(db *mongo.Database, rdb *redis.Client, opts Options) *Router {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("crm"))

	// --- Dependencies ---
	engine := scoring.NewEngine(nil)

	authRepo := mongodb.NewAuthRepository(db)
	authService := service.NewAuthService(authRepo, opts.JWTSecret, opts.TokenTTL)
	authHandler := handler.NewAuthHandler(authService)

	prospectRepo := mongodb.NewProspectRepository(db)
	prospectService := service.NewProspectService(prospectRepo, engine, nil, opts.Logger)
	dispatcher := queue.NewDispatcher(opts.RescoreWorkers, prospectService, opts.Logger)
	prospectService.SetRescoreQueue(dispatcher)
	prospectHandler := handler.NewProspectHandler(prospectService)

	syncLock := redisdb.NewSyncLock(rdb)
	syncService := service.NewScoreSyncService(prospectRepo, engine, syncLock, opts.Logger)
	syncHandler := handler.NewScoreSyncHandler(syncService)

	authMiddleware := middleware.Auth(opts.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Prospect routes ---
	// Allow-lists come from the permission table so that role decisions live
	// in exactly one place. Reads and updates union the own-prospect and
	// all-lead grants; operators see everything, agents only their own (the
	// service layer scopes their queries).
	prospects := e.Group("/v1/prospects", authMiddleware)
	prospects.POST("", prospectHandler.Create, middleware.Guard(middleware.GuardOptions{
		AllowedRoles: domain.RolesAllowed(domain.ActionReceiveLeads),
	}))
	prospects.GET("", prospectHandler.List, middleware.Guard(middleware.GuardOptions{
		AllowedRoles: domain.RolesAllowed(domain.ActionViewOwnProspects, domain.ActionViewAllLeads),
	}))
	prospects.GET("/:id", prospectHandler.Get, middleware.Guard(middleware.GuardOptions{
		AllowedRoles: domain.RolesAllowed(domain.ActionViewOwnProspects, domain.ActionViewAllLeads),
	}))
	prospects.PATCH("/:id", prospectHandler.Update, middleware.Guard(middleware.GuardOptions{
		AllowedRoles:   domain.RolesAllowed(domain.ActionViewOwnProspects, domain.ActionAssignLeads),
		OwnershipField: "agent_id",
	}))

	// --- Admin routes ---
	admin := e.Group("/v1/admin", authMiddleware, middleware.Guard(middleware.GuardOptions{
		AllowedRoles: domain.RolesAllowed(domain.ActionManageAutomation),
	}))
	admin.POST("/score-sync", syncHandler.Run)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return &Router{
		Echo:       e,
		Dispatcher: dispatcher,
		ScoreSync:  syncService,
	}
}
