package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/suinership/auth/internal/auth/federated"
	httpapi "github.com/suinership/auth/internal/auth/http"
	"github.com/suinership/auth/internal/auth/notify"
	"github.com/suinership/auth/internal/auth/secrets"
	"github.com/suinership/auth/internal/auth/service"
	"github.com/suinership/auth/internal/auth/store"
	"github.com/suinership/auth/internal/auth/store/drivers/sqlite"
	"github.com/suinership/auth/pkg/cryptox"
	"github.com/suinership/auth/pkg/jwtx"
	"github.com/suinership/auth/pkg/passpolicy"
	"github.com/suinership/auth/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	secrets secrets.Store
	signer  jwtx.Signer
	keys    *jwtx.KeySet

	tokenService     *service.TokenService
	userService      *service.UserService
	resetService     *service.ResetService
	otpService       *service.OTPService
	mfaService       *service.MFAService
	federatedService *service.FederatedService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initSecrets(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	signer, keys, err := initSigningKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		_ = app.secrets.Close()
		return nil, err
	}
	app.signer = signer
	app.keys = keys

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.secrets.Close(); err != nil {
		app.logger.Error("error closing secret store", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// Handler exposes the HTTP handler for in-process testing.
func (app *Application) Handler() http.Handler {
	return app.router
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initSecrets() error {
	if app.cfg.RedisAddr == "" {
		app.secrets = secrets.NewMemoryStore()
		app.logger.Info("secret store: in-memory (single instance only)")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rs, err := secrets.NewRedisStore(ctx, app.cfg.RedisAddr, app.cfg.RedisPassword, app.cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.secrets = rs
	app.logger.Info("secret store: redis", "addr", app.cfg.RedisAddr)
	return nil
}

func (app *Application) initServices() {
	policy := passpolicy.Default()
	notifier := notify.NewLogSender(app.logger)
	verifier := jwtx.NewVerifierEdDSA(app.keys, app.cfg.Issuer)

	app.tokenService = &service.TokenService{
		Signer:     app.signer,
		Verifier:   verifier,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}

	app.userService = &service.UserService{
		Store:   app.db,
		Secrets: app.secrets,
		Tokens:  app.tokenService,
		Policy:  policy,
	}

	app.resetService = &service.ResetService{
		Store:    app.db,
		Secrets:  app.secrets,
		Notifier: notifier,
		Policy:   policy,
		TokenTTL: app.cfg.ResetTokenTTL,
	}

	app.otpService = &service.OTPService{
		Store:    app.db,
		Secrets:  app.secrets,
		Notifier: notifier,
		Tokens:   app.tokenService,
		CodeTTL:  app.cfg.OTPCodeTTL,
	}

	app.mfaService = &service.MFAService{
		Store:   app.db,
		Secrets: app.secrets,
		Tokens:  app.tokenService,
		Issuer:  app.cfg.Issuer,
	}

	if app.cfg.ProviderClientID != "" {
		app.federatedService = &service.FederatedService{
			Store:  app.db,
			Tokens: app.tokenService,
			Provider: federated.NewClient(federated.Config{
				Name:         app.cfg.ProviderName,
				ClientID:     app.cfg.ProviderClientID,
				ClientSecret: app.cfg.ProviderClientSecret,
				AuthURL:      app.cfg.ProviderAuthURL,
				TokenURL:     app.cfg.ProviderTokenURL,
				JWKSURL:      app.cfg.ProviderJWKSURL,
				RedirectURL:  app.cfg.ProviderRedirectURL,
				Issuer:       app.cfg.ProviderIssuer,
				Scopes:       []string{"openid", "email", "profile"},
			}),
		}
		app.logger.Info("federated login enabled", "provider", app.cfg.ProviderName)
	}
}

func (app *Application) initHTTP() {
	verifier := jwtx.NewVerifierEdDSA(app.keys, app.cfg.Issuer)

	router := httpapi.NewRouter(
		app.keys,
		verifier,
		BuildVersion,
		app.db,
		app.secrets,
		app.logger,
	)

	router.TokenService = app.tokenService
	router.UserService = app.userService
	router.ResetService = app.resetService
	router.OTPService = app.otpService
	router.MFAService = app.mfaService
	router.FederatedService = app.federatedService // nil when no provider is configured
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
