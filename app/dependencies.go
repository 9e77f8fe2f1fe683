package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"github.com/upb/moderation-gateway/config"
	"github.com/upb/moderation-gateway/handlers"
	"github.com/upb/moderation-gateway/middleware"
	"github.com/upb/moderation-gateway/repositories"
	"github.com/upb/moderation-gateway/repositories/postgres"
	"github.com/upb/moderation-gateway/services/auth"
	checksvc "github.com/upb/moderation-gateway/services/check"
	"github.com/upb/moderation-gateway/services/checks"
	profilesvc "github.com/upb/moderation-gateway/services/profile"
	"github.com/upb/moderation-gateway/services/safety"
	usersvc "github.com/upb/moderation-gateway/services/user"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repositories
	Profiles repositories.ProfileRepository
	Checks   repositories.CheckRepository
	Users    repositories.UserRepository

	// Services
	ProfileService *profilesvc.ProfileService
	CheckService   *checksvc.CheckService
	UserService    *usersvc.UserService
	TokenService   *auth.TokenService
	Evaluator      *safety.Evaluator

	// HTTP layer
	ScanHandler    *handlers.ScanHandler
	AuthHandler    *handlers.AuthHandler
	ProfileHandler *handlers.ProfileHandler
	CheckHandler   *handlers.CheckHandler
	UserHandler    *handlers.UserHandler
	HealthHandler  *handlers.HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()

	if err := deps.initServices(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	deps.initHTTP()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL database connection
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.NewDB(cfg.Database, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	d.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := db.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	d.Profiles = postgres.NewProfileRepository(d.DB, d.Logger)
	d.Checks = postgres.NewCheckRepository(d.DB, d.Logger)
	d.Users = postgres.NewUserRepository(d.DB, d.Logger)

	d.Logger.Info("repositories initialized")
}

// initServices initializes the service and evaluation layers
func (d *Dependencies) initServices(cfg *config.Config) error {
	d.ProfileService = profilesvc.NewProfileService(d.Profiles, d.Checks, d.Logger)
	d.CheckService = checksvc.NewCheckService(d.Checks, d.Logger)
	d.UserService = usersvc.NewUserService(d.Users, d.Logger)

	secret := cfg.Auth.TokenSecret
	if secret == "" {
		if cfg.IsProduction() {
			return fmt.Errorf("auth token secret is required in production")
		}
		// Ephemeral secret for development: tokens survive only this process.
		generated, err := generateSecret()
		if err != nil {
			return fmt.Errorf("failed to generate token secret: %w", err)
		}
		secret = generated
		d.Logger.Warn("AUTH_TOKEN_SECRET not set, using an ephemeral secret")
	}
	tokenService, err := auth.NewTokenService(secret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}
	d.TokenService = tokenService

	balancer := checks.NewRandomBalancer()
	client := checks.NewRemoteClient(balancer, 0, d.Logger)
	dispatcher := checks.NewCheckDispatcher(client, cfg.Safety.CheckTimeout, d.Logger)

	d.Evaluator = safety.NewEvaluator(
		d.ProfileService,
		dispatcher,
		safety.Config{DefaultProfile: cfg.Safety.DefaultProfile},
		d.Logger,
	)

	d.Logger.Info("services initialized",
		zap.String("default_profile", cfg.Safety.DefaultProfile),
		zap.Duration("check_timeout", cfg.Safety.CheckTimeout),
		zap.String("balancer", balancer.Name()))

	return nil
}

// initHTTP initializes handlers and HTTP middleware
func (d *Dependencies) initHTTP() {
	validator := &tokenValidatorAdapter{tokens: d.TokenService}
	d.AuthMiddleware = middleware.NewAuthMiddleware(validator, d.Logger)

	d.ScanHandler = handlers.NewScanHandler(d.Evaluator, d.Logger)
	d.AuthHandler = handlers.NewAuthHandler(d.UserService, d.TokenService, d.Logger)
	d.ProfileHandler = handlers.NewProfileHandler(d.ProfileService, d.Logger)
	d.CheckHandler = handlers.NewCheckHandler(d.CheckService, d.Logger)
	d.UserHandler = handlers.NewUserHandler(d.UserService, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.DB.DB, d.Logger)
}

// tokenValidatorAdapter adapts auth.TokenService to middleware.TokenValidator
type tokenValidatorAdapter struct {
	tokens *auth.TokenService
}

func (a *tokenValidatorAdapter) ValidateToken(ctx context.Context, token string) (*middleware.Claims, error) {
	parsed, err := a.tokens.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &middleware.Claims{
		Sub:            parsed.Sub,
		Email:          parsed.Email,
		IsAdmin:        parsed.IsAdmin,
		DefaultProfile: parsed.DefaultProfile,
	}, nil
}

// generateSecret returns a random hex-encoded 32-byte secret
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}
