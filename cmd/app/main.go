package main

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

	"parcelbridge/cmd"
	httpin "parcelbridge/internal/adapters/in/http"
	"parcelbridge/internal/adapters/in/stationcsv"
	"parcelbridge/internal/adapters/out/natspub"
	"parcelbridge/internal/adapters/out/postgres"
	"parcelbridge/internal/core/application/usecases/commands"
	"parcelbridge/internal/core/ports"
	"parcelbridge/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "parcelbridge",
		Short:         "Parcel Bridge backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCommand(), importStationsCommand())
	return root
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background jobs",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if err = cfg.ServeReady(); err != nil {
				logger.Error("configuration is incomplete", "error", err)
				return err
			}
			if err = serve(c.Context(), cfg, logger); err != nil {
				logger.Error("server stopped", "error", err)
				return err
			}
			return nil
		},
	}
}

func importStationsCommand() *cobra.Command {
	var stationsPath, distancesPath string

	command := &cobra.Command{
		Use:   "import-stations",
		Short: "Load the station catalogue and distance table from CSV",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if err = importStations(c.Context(), cfg, logger, stationsPath, distancesPath); err != nil {
				logger.Error("station import failed", "error", err)
				return err
			}
			return nil
		},
	}
	command.Flags().StringVar(&stationsPath, "stations", "", "stations CSV (code,name,lat,lng[,state,zone])")
	command.Flags().StringVar(&distancesPath, "distances", "", "distances CSV (from_code,to_code,distance_km)")
	_ = command.MarkFlagRequired("stations")

	return command
}

func setup() (cmd.Config, *slog.Logger, error) {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cmd.Config{}, nil, err
	}
	level, _ := cmd.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func openDatabase(ctx context.Context, cfg cmd.Config) (*gorm.DB, error) {
	db, err := gorm.Open(pgdriver.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err = postgres.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return db, nil
}

func closeDatabase(db *gorm.DB, logger *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err = sqlDB.Close(); err != nil {
		logger.Warn("closing database", "error", err)
	}
}

func serve(parent context.Context, cfg cmd.Config, logger *slog.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tuning, err := cmd.LoadTuning(cfg.TuningFile)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db, logger)

	collector := metrics.NewCollector()

	var publisher ports.EventPublisher = natspub.Discard{}
	if cfg.NATSURL != "" {
		nc, err := natspub.Connect(cfg.NATSURL, natspub.DefaultSubjectPrefix, collector, logger)
		if err != nil {
			return err
		}
		defer nc.Close()
		publisher = nc
	} else {
		logger.Warn("NATS_URL is not set, domain events will be dropped")
	}

	app, err := cmd.NewCompositionRoot(cfg, tuning, db, publisher, collector, logger)
	if err != nil {
		return err
	}

	server, err := app.NewHTTPServer()
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	level, _ := cmd.ParseLogLevel(cfg.LogLevel)
	e.Logger.SetLevel(cmd.EchoLogLevel(level))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(httpin.RequestLogger(logger))
	server.Register(e)

	jobManager := app.NewJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
		logger.Info("http server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func importStations(parent context.Context, cfg cmd.Config, logger *slog.Logger, stationsPath, distancesPath string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stations, distances, err := stationcsv.LoadFiles(stationsPath, distancesPath)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db, logger)

	app, err := cmd.NewCompositionRoot(cfg, cmd.Tuning{}, db, natspub.Discard{}, metrics.NewCollector(), logger)
	if err != nil {
		return err
	}

	command, err := commands.NewImportStationsCommand(stations, distances)
	if err != nil {
		return err
	}
	if err = app.CreateImportStationsCommandHandler().Handle(ctx, command); err != nil {
		return err
	}

	logger.Info("stations imported", "stations", len(stations), "distances", len(distances))
	return nil
}
