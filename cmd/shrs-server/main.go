package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shrs/shrs/internal/config"
	"github.com/shrs/shrs/internal/domain/alerts"
	"github.com/shrs/shrs/internal/domain/bloodbank"
	"github.com/shrs/shrs/internal/domain/clinical"
	"github.com/shrs/shrs/internal/domain/dashboard"
	"github.com/shrs/shrs/internal/domain/emergency"
	"github.com/shrs/shrs/internal/domain/immunization"
	"github.com/shrs/shrs/internal/domain/inbox"
	"github.com/shrs/shrs/internal/domain/scheduling"
	"github.com/shrs/shrs/internal/domain/students"
	"github.com/shrs/shrs/internal/domain/vision"
	"github.com/shrs/shrs/internal/idgen"
	"github.com/shrs/shrs/internal/importer"
	"github.com/shrs/shrs/internal/platform/middleware"
	"github.com/shrs/shrs/internal/platform/snapshot"
	"github.com/shrs/shrs/internal/stats"
	"github.com/shrs/shrs/internal/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shrs-server",
		Short: "Student Health Records API Server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(importCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the health records API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk import students from a CSV or XLSX roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportPath, _ := cmd.Flags().GetString("error-report")
			return runImport(args[0], reportPath)
		},
	}
	cmd.Flags().String("error-report", "", "write rejected rows to this CSV file")
	return cmd
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

// bootstrap opens the snapshot store, hydrates the collections and seeds
// the id generator with every code and roll number already in use.
func bootstrap(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*store.Store, *idgen.Generator, snapshot.Store, error) {
	snap, err := snapshot.Open(ctx, snapshot.Options{
		Driver:      snapshot.Driver(cfg.SnapshotDriver),
		Path:        cfg.SnapshotPath,
		DatabaseURL: cfg.SnapshotDatabaseURL,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open snapshot store: %w", err)
	}

	st := store.New(ctx, snap, store.Seeds{}, logger)

	ids := idgen.New(time.Now)
	for _, s := range st.Students.List() {
		ids.Reserve(s.StudentCode, s.RollNumber)
	}
	return st, ids, snap, nil
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()
	st, ids, snap, err := bootstrap(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open snapshot store")
	}
	defer snap.Close()
	logger.Info().Str("driver", cfg.SnapshotDriver).Msg("snapshot store ready")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.RequestTimeout(30 * time.Second))

	api := e.Group("/api/v1")

	engine := stats.New(st)
	pipeline := importer.New(st, ids, time.Now, logger)

	students.NewHandler(students.NewService(st, ids, time.Now), logger).RegisterRoutes(api)
	clinical.NewHandler(clinical.NewService(st, ids), logger).RegisterRoutes(api)
	immunization.NewHandler(immunization.NewService(st, ids), logger).RegisterRoutes(api)
	vision.NewHandler(vision.NewService(st, ids), logger).RegisterRoutes(api)
	emergency.NewHandler(emergency.NewService(st, ids), logger).RegisterRoutes(api)
	alerts.NewHandler(alerts.NewService(st, ids, time.Now), logger).RegisterRoutes(api)
	inbox.NewHandler(inbox.NewService(st, ids, time.Now), logger).RegisterRoutes(api)
	bloodbank.NewHandler(bloodbank.NewService(st, ids, time.Now), logger).RegisterRoutes(api)
	scheduling.NewHandler(scheduling.NewService(st, ids, time.Now), logger).RegisterRoutes(api)
	dashboard.NewHandler(engine, pipeline, cfg.CheckupWindow(), logger).RegisterRoutes(api)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// runImport runs the bulk pipeline against a roster file on disk and
// commits the valid rows. Rejected rows go to stderr, or to a CSV report
// when --error-report is set.
func runImport(path, reportPath string) error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	st, ids, snap, err := bootstrap(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer snap.Close()

	format, err := importer.FormatForFilename(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	pipeline := importer.New(st, ids, time.Now, logger)
	if err := pipeline.Parse(f, format); err != nil {
		return fmt.Errorf("parse roster: %w", err)
	}
	summary, err := pipeline.Validate()
	if err != nil {
		return err
	}
	logger.Info().
		Int("total", summary.TotalRows).
		Int("valid", summary.ValidRows).
		Int("errors", summary.ErrorRows).
		Msg("roster validated")

	if _, err := pipeline.Commit(ctx, func(done, total int) {
		logger.Info().Int("done", done).Int("total", total).Msg("importing")
	}); err != nil {
		return err
	}

	if errs := pipeline.Errors(); len(errs) > 0 {
		if reportPath != "" {
			out, err := os.Create(reportPath)
			if err != nil {
				return fmt.Errorf("create error report: %w", err)
			}
			defer out.Close()
			if err := pipeline.WriteErrorReportCSV(out); err != nil {
				return fmt.Errorf("write error report: %w", err)
			}
			logger.Info().Str("path", reportPath).Int("rows", len(errs)).Msg("error report written")
		} else {
			for _, e := range errs {
				logger.Warn().Int("row", e.Row).Str("field", e.Field).Str("error", e.Message).Msg("row rejected")
			}
		}
	}
	return nil
}
