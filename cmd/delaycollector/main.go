package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/busurbano-data/internal/common/config"
	"github.com/busurbano-data/internal/common/db"
	"github.com/busurbano-data/internal/common/discord"
	"github.com/busurbano-data/internal/common/logger"
	"github.com/busurbano-data/internal/common/maintenance"
	"github.com/busurbano-data/internal/common/metrics"
	"github.com/busurbano-data/internal/delays/collector"
	"github.com/busurbano-data/internal/delays/consumer"
	"github.com/busurbano-data/internal/delays/store"
)

func main() {
	// Load configuration (.env is read when present)
	cfg, err := config.Load(os.Getenv("DELAYCOLLECTOR_CONFIG"))
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	loggerConfig := logger.DefaultLoggerConfig()
	loggerConfig.Level = logger.ParseLogLevel(cfg.Logging.Level)
	loggerConfig.File = cfg.Logging.FilePath != ""
	loggerConfig.FilePath = cfg.Logging.FilePath
	log := logger.NewFromConfig(loggerConfig)

	alerts := discord.NewClient(cfg.Alerts.DiscordURL, "delaycollector")
	fatal := func(msg string, err error) {
		log.Critical(msg, "error", err)
		alertCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if alertErr := alerts.SendAlert(alertCtx, "CRITICAL", msg+": "+err.Error(), nil); alertErr != nil {
			log.Error("Failed to send alert", "error", alertErr)
		}
		os.Exit(1)
	}

	if err := cfg.Delays.Validate(); err != nil {
		fatal("Invalid delay collector configuration", err)
	}
	if err := cfg.Database.Validate(); err != nil {
		fatal("Invalid database configuration", err)
	}
	startMin, endMin, err := cfg.Delays.ServiceWindow()
	if err != nil {
		fatal("Invalid service hours", err)
	}
	loc, err := time.LoadLocation(cfg.Delays.ServiceTimezone)
	if err != nil {
		fatal("Invalid service timezone", err)
	}

	log.Info("Delay collector starting",
		"system_time", time.Now().In(loc).Format("2006-01-02 15:04:05 MST"),
		"database", cfg.Database.Host+":"+cfg.Database.Port+"/"+cfg.Database.DBName,
		"log_level", cfg.Logging.Level,
	)

	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	database, err := db.New(ctx, cfg.Database.ConnectionString(), log)
	if err != nil {
		fatal("Failed to connect to database", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		fatal("Failed to prepare database schema", err)
	}

	observations := store.New(database)
	if stats, err := observations.Stats(ctx); err != nil {
		log.Warn("Could not read collection statistics", "error", err)
	} else {
		fields := []interface{}{
			"total_observations", stats.TotalObservations,
			"unique_stops", stats.UniqueStops,
			"unique_lines", stats.UniqueLines,
		}
		if stats.FirstObservation != nil {
			fields = append(fields, "first_observation", stats.FirstObservation.Format(time.RFC3339))
		}
		if stats.LastObservation != nil {
			fields = append(fields, "last_observation", stats.LastObservation.Format(time.RFC3339))
		}
		log.Info("Existing observations", fields...)
	}

	m := metrics.NewDelays()
	if cfg.Delays.MetricsAddr != "" {
		m.Serve(ctx, cfg.Delays.MetricsAddr, log)
	}

	schedulerConfig := maintenance.DefaultSchedulerConfig()
	schedulerConfig.RetentionDays = cfg.Delays.RetentionDays
	cleanup := maintenance.NewCleanupScheduler(
		maintenance.New(database.DB(), log),
		log,
		schedulerConfig,
		func(r maintenance.PurgeResult) { m.Purged.Add(float64(r.RecordsDeleted)) },
	)
	if cfg.Delays.RetentionDays > 0 {
		if err := cleanup.Start(ctx); err != nil {
			fatal("Failed to start cleanup scheduler", err)
		}
		defer cleanup.Stop()
	}

	c, err := collector.New(collector.Config{
		StopCodes: cfg.Delays.StopCodes,
		Frequency: cfg.Delays.Frequency,
		Window:    collector.Window{Start: startMin, End: endMin, Location: loc},
	}, consumer.NewConsumer(cfg.Delays.APIURL, log), observations, m, log)
	if err != nil {
		fatal("Failed to create collector", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := c.Run(ctx); err != nil {
			log.Error("Collector error", "error", err)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	wg.Wait()

	log.Info("Delay collector stopped", "collected_today", c.Collected())
}
