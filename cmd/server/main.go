package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/calidev/iso9001-tracker/internal/config"
	"github.com/calidev/iso9001-tracker/internal/db"
	"github.com/calidev/iso9001-tracker/internal/logger"
	"github.com/calidev/iso9001-tracker/internal/observability/metrics"
	"github.com/calidev/iso9001-tracker/internal/plantillas"
	"github.com/calidev/iso9001-tracker/internal/server"
)

var (
	version = "dev"
	cli     struct {
		Version kong.VersionFlag `help:"Print version and exit."`
		Serve   ServeCmd         `cmd:"" default:"1" help:"Start the HTTP server."`
		Migrate MigrateCmd       `cmd:"" help:"Run database migrations and exit."`
	}
)

type ServeCmd struct{}

func (s *ServeCmd) Run(log zerolog.Logger, cfg config.Config) error {
	conn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		return err
	}

	if err := plantillas.Ensure(cfg.TemplateDir, db.TemplateDocuments()); err != nil {
		return err
	}

	m := metrics.NewHTTPMetrics("iso9001-tracker")
	handler, err := server.New(conn, server.Options{
		UploadDir:   cfg.UploadDir,
		TemplateDir: cfg.TemplateDir,
		Log:         log,
		Metrics:     m,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

type MigrateCmd struct{}

func (m *MigrateCmd) Run(log zerolog.Logger, cfg config.Config) error {
	if err := db.RunSQLMigrations(cfg.DatabaseDSN); err != nil {
		return err
	}
	log.Info().Msg("migrations completed")
	return nil
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.Setup(cfg.Env, cfg.LogLevel)

	cmd := kong.Parse(&cli,
		kong.Name("iso9001-tracker"),
		kong.Description("Seguimiento de implementación ISO 9001 para empresas."),
		kong.Vars{"version": version},
	)
	cmd.FatalIfErrorf(cmd.Run(log, cfg))
}
