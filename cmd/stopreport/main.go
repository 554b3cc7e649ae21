package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/busurbano-data/internal/common/config"
	"github.com/busurbano-data/internal/common/discord"
	"github.com/busurbano-data/internal/common/logger"
	"github.com/busurbano-data/internal/common/metrics"
	"github.com/busurbano-data/internal/geo"
	"github.com/busurbano-data/internal/gtfs-static/feedcache"
	"github.com/busurbano-data/internal/gtfs-static/parser"
	"github.com/busurbano-data/internal/gtfs-static/scraper"
	"github.com/busurbano-data/internal/report/orchestrator"
	"github.com/busurbano-data/internal/report/provider"
	"github.com/busurbano-data/internal/report/writer"
)

type options struct {
	feedDir       string
	feedURL       string
	forceDownload bool
	outputDir     string
	configPath    string
	workers       int
	provider      string
}

// errReported marks a failure that was already logged and alerted.
var errReported = errors.New("stop report failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "stopreport",
		Short:         "Generate per-stop arrival reports from a GTFS feed",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.feedDir == "" {
				return nil
			}
			info, err := os.Stat(opts.feedDir)
			if err != nil {
				return fmt.Errorf("feed directory: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("feed directory %s is not a directory", opts.feedDir)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.feedDir, "feed-dir", "", "path to an unzipped GTFS feed")
	flags.StringVar(&opts.feedURL, "feed-url", "", "URL of a zipped GTFS feed to download")
	flags.BoolVar(&opts.forceDownload, "force-download", false, "download the feed even if it has not changed")
	flags.StringVar(&opts.outputDir, "output-dir", "./output/", "directory the reports are written to")
	flags.StringVar(&opts.configPath, "config", "", "optional YAML configuration file")
	flags.IntVar(&opts.workers, "workers", 4, "dates processed in parallel")
	flags.StringVar(&opts.provider, "provider", "vitrasa", "formatting rules: vitrasa, renfe or default")

	cmd.MarkFlagsMutuallyExclusive("feed-dir", "feed-url")
	cmd.MarkFlagsOneRequired("feed-dir", "feed-url")
	cmd.MarkFlagsMutuallyExclusive("feed-dir", "force-download")

	return cmd
}

// loadConfig layers the command-line flags the user set over the file and
// environment configuration.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, provider.Kind, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, 0, err
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Report.OutputDir = opts.outputDir
	}
	if flags.Changed("workers") {
		cfg.Report.Workers = opts.workers
	}
	if flags.Changed("provider") {
		cfg.Report.Provider = opts.provider
	}

	kind, err := provider.Parse(cfg.Report.Provider)
	if err != nil {
		return nil, 0, err
	}
	cfg.Report.Provider = kind.String()

	if err := cfg.Report.Validate(); err != nil {
		return nil, 0, fmt.Errorf("invalid report configuration: %w", err)
	}
	if err := cfg.Alerts.Validate(); err != nil {
		return nil, 0, fmt.Errorf("invalid alert configuration: %w", err)
	}
	return cfg, kind, nil
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, kind, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logCfg := logger.DefaultLoggerConfig()
	logCfg.Level = logger.ParseLogLevel(cfg.Logging.Level)
	logCfg.File = cfg.Logging.FilePath != ""
	logCfg.FilePath = cfg.Logging.FilePath
	log := logger.NewFromConfig(logCfg)

	alerts := discord.NewClient(cfg.Alerts.DiscordURL, "stopreport")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Stop report starting",
		"feed_dir", opts.feedDir,
		"feed_url", opts.feedURL,
		"output_dir", cfg.Report.OutputDir,
		"provider", kind.String(),
		"workers", cfg.Report.Workers)

	err = generate(ctx, cfg, kind, opts, log)
	if errors.Is(err, scraper.ErrNotModified) {
		log.Info("Feed not modified since last download, nothing to do")
		return nil
	}
	if err != nil {
		log.Critical("Stop report failed", "error", err)
		alertCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if alertErr := alerts.SendAlert(alertCtx, "CRITICAL", err.Error(), map[string]interface{}{
			"feed":   feedSource(opts),
			"output": cfg.Report.OutputDir,
		}); alertErr != nil {
			log.Error("Failed to send alert", "error", alertErr)
		}
		return errReported
	}
	return nil
}

func generate(ctx context.Context, cfg *config.Config, kind provider.Kind, opts *options, log logger.Logger) error {
	feedDir := opts.feedDir
	if opts.feedURL != "" {
		fetcher := scraper.NewFetcher(
			scraper.NewHTTPDownloader(log),
			scraper.NewFileMetadataStore(cfg.Report.OutputDir),
			cfg.Report.DownloadRetries,
			log,
		)
		dir, err := fetcher.Fetch(ctx, opts.feedURL, opts.forceDownload)
		if err != nil {
			return err
		}
		defer func() {
			if err := os.RemoveAll(dir); err != nil {
				log.Warn("Failed to remove downloaded feed", "dir", dir, "error", err)
			}
		}()
		feedDir = dir
	}

	p := parser.New(log)
	projector := geo.NewEPSG25829()
	cache := feedcache.New(p, projector, log, cfg.Report.SubsetCacheSize)
	w := writer.New(cfg.Report.OutputDir, writer.Options{
		JSON:   cfg.Report.WriteJSON,
		Binary: cfg.Report.WriteBinary,
	}, log)

	orch := orchestrator.New(p, cache, projector, w, metrics.NewReport(), log, orchestrator.Options{
		Workers:         cfg.Report.Workers,
		Provider:        kind,
		MetricsTextfile: cfg.Report.MetricsTextfile,
	})
	_, err := orch.Run(ctx, feedDir)
	return err
}

func feedSource(opts *options) string {
	if opts.feedURL != "" {
		return opts.feedURL
	}
	return opts.feedDir
}
