package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"crewmatch/internal/adapters/auth"
	router "crewmatch/internal/delivery/http"
	"crewmatch/internal/delivery/http/controllers"
	"crewmatch/internal/delivery/http/middleware"
	"crewmatch/internal/observability"
	"crewmatch/internal/repository/postgres"
)

const shutdownTimeout = 15 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and Telegram webhook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")

	return cmd
}

func runServe(parent context.Context, migrate bool) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger, observability.NewMetrics())
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("close resources", "error", err)
		}
	}()

	if migrate {
		if err := postgres.Migrate(ctx, a.db); err != nil {
			return err
		}
		logger.Info("schema applied")
	}

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set; every authenticated request will be rejected")
	}
	verifier := auth.NewJWT(cfg.JWTSecret, tokenIssuer)

	mux := router.NewRouter(router.RouterDeps{
		Stays:       controllers.NewStayController(logger, a.stays),
		Crew:        controllers.NewCrewController(logger, a.crew),
		Telegram:    controllers.NewTelegramController(logger, a.crew, a.telegram, cfg.Telegram.WebhookSecret),
		RequireAuth: middleware.RequireAuth(verifier, logger),
		Metrics:     promhttp.Handler(),
		DB:          a.db,
	})
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
