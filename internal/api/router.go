package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/clubarcoiris/members-system/docs"
	"github.com/clubarcoiris/members-system/internal/api/handler"
	"github.com/clubarcoiris/members-system/internal/api/middleware"
	"github.com/clubarcoiris/members-system/internal/core/domain"
	"github.com/clubarcoiris/members-system/internal/core/ports"
	"github.com/clubarcoiris/members-system/internal/core/service"
	mongodb "github.com/clubarcoiris/members-system/internal/infrastructure/db/mongo"
	redisdb "github.com/clubarcoiris/members-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// hasher is the pool-backed password hasher; a short signing secret fails
// here, before the server starts listening.
func NewRouter(db *mongo.Database, rdb *redis.Client, hasher ports.PasswordHasher, jwtSecret string, log zerolog.Logger) (*echo.Echo, error) {
	// Issuing path: an unusable secret refuses to start.
	codec, err := service.NewTokenCodec(jwtSecret)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("members"))

	// The guard runs for every request; its policy decides which paths
	// actually require a token.
	e.Use(middleware.AccessGuard(codec, middleware.DefaultGuardPolicy()))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	resetRepo := mongodb.NewResetTokenRepository(db)
	memberRepo := mongodb.NewMemberRepository(db)
	throttle := redisdb.NewResetThrottle(rdb)

	resetService := service.NewResetService(resetRepo, throttle, log)
	authService := service.NewAuthService(userRepo, hasher, codec, resetService, log)
	memberService := service.NewMemberService(memberRepo)

	authHandler := handler.NewAuthHandler(authService, resetService)
	memberHandler := handler.NewMemberHandler(memberService)

	// --- Auth routes (open by guard policy) ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/verify-reset-token", authHandler.VerifyResetToken)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// --- Protected routes ---
	e.GET("/api/me", authHandler.Me)

	members := e.Group("/api/members", middleware.RoleGate(domain.RoleAdmin, domain.RoleAnimador))
	members.GET("", memberHandler.List)
	members.GET("/:id", memberHandler.Get)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, nil
}
