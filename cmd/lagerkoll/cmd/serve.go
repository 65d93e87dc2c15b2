package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jockelind/lagerkoll/internal/api/handlers"
	mw "github.com/jockelind/lagerkoll/internal/api/middleware"
	"github.com/jockelind/lagerkoll/internal/availability"
	"github.com/jockelind/lagerkoll/internal/config"
	"github.com/jockelind/lagerkoll/internal/engine"
	"github.com/jockelind/lagerkoll/internal/notify"
	"github.com/jockelind/lagerkoll/internal/store"
	"github.com/jockelind/lagerkoll/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()

	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	source, err := buildSource(cfg)
	if err != nil {
		return err
	}

	notifier := buildNotifier(cfg, log)

	checker := engine.NewChecker(st, source, notifier, engine.WithLogger(log))
	runner := engine.NewRunner(checker, engine.NewRunTracker())

	var scheduler *engine.Scheduler
	if cfg.Schedule.Enabled {
		scheduler, err = engine.NewScheduler(runner, cfg.Schedule.CheckInterval, log)
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
		scheduler.Start()
		log.Info("scheduler enabled", "interval", cfg.Schedule.CheckInterval)
	}

	e := buildServer(cfg, log, st, source, checker, runner)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// buildSource constructs the availability source selected by config.
func buildSource(cfg *config.Config) (availability.Source, error) {
	switch cfg.Source.Backend {
	case "http":
		opts := []availability.HTTPOption{
			availability.WithRateLimiter(availability.NewRateLimiter(
				cfg.Source.RateLimit.PerSecond,
				cfg.Source.RateLimit.Burst,
			)),
		}
		if cfg.Source.StoresURL != "" {
			opts = append(opts, availability.WithStoresURL(cfg.Source.StoresURL))
		}
		return availability.NewHTTPSource(cfg.Source.Endpoint, opts...), nil
	case "exec":
		return availability.NewExecSource(
			cfg.Source.Command,
			cfg.Source.StoresCmd,
			availability.WithExecTimeout(cfg.Source.Timeout),
		), nil
	default:
		return nil, fmt.Errorf("unknown source backend %q", cfg.Source.Backend)
	}
}

// buildNotifier returns the email notifier when SMTP is enabled, otherwise a
// no-op notifier that logs and discards alerts.
func buildNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	if cfg.SMTP.Enabled {
		return notify.NewEmailNotifier(cfg.SMTP, log)
	}
	return notify.NewNoOpNotifier(log)
}

// buildServer assembles the Echo server with middleware and all routes.
func buildServer(
	cfg *config.Config,
	log *slog.Logger,
	st store.Store,
	source availability.Source,
	checker *engine.Checker,
	runner *engine.Runner,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(mw.RequestLog(log))
	e.Use(mw.Recovery(log))
	e.Use(mw.Metrics())

	healthH := handlers.NewHealthHandler(st)
	e.GET("/healthz", healthH.Healthz)
	e.GET("/readyz", healthH.Readyz)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	itemH := handlers.NewItemHandler(st)
	e.GET("/api/v1/items", itemH.List)
	e.POST("/api/v1/items", itemH.Create)
	e.GET("/api/v1/items/:id", itemH.Get)
	e.PUT("/api/v1/items/:id", itemH.Update)
	e.PUT("/api/v1/items/:id/active", itemH.SetActive)
	e.DELETE("/api/v1/items/:id", itemH.Delete)

	snapH := handlers.NewSnapshotHandler(st)
	e.GET("/api/v1/items/:id/history", snapH.History)

	storesH := handlers.NewStoresHandler(st, source)
	e.GET("/api/v1/stores/:region", storesH.ListStores)
	e.GET("/api/v1/items/:id/live", storesH.LiveAvailability)

	userH := handlers.NewUserHandler(st)
	e.GET("/api/v1/users", userH.List)
	e.POST("/api/v1/users", userH.Create)
	e.GET("/api/v1/users/:id", userH.Get)

	dashH := handlers.NewDashboardHandler(st)
	e.GET("/api/v1/dashboard", dashH.Summary)

	// Trigger endpoints are registered through Huma on a dedicated group so
	// the API key guard applies only to them.
	triggerGroup := e.Group("", mw.APIKey(cfg.API.Key))
	api := humaecho.NewWithGroup(e, triggerGroup, huma.DefaultConfig("Lagerkoll API", Version))
	handlers.RegisterTriggerRoutes(
		api,
		handlers.NewCheckHandler(st, checker),
		handlers.NewBatchHandler(runner),
	)

	return e
}
