package cli

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tokenwatch/tokenwatch/internal/api"
	"github.com/tokenwatch/tokenwatch/internal/api/handlers"
	"github.com/tokenwatch/tokenwatch/internal/config"
	log "github.com/tokenwatch/tokenwatch/internal/logging"
	"github.com/tokenwatch/tokenwatch/internal/usage"
	"github.com/tokenwatch/tokenwatch/internal/watcher"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tokenwatch server",
	Long: `Start the usage-analytics HTTP server.

It loads the configuration, opens the usage event store selected by the
DSN, and serves the stats and dashboard endpoints.`,
	Run: func(c *cobra.Command, args []string) {
		log.SetupBaseLogger()

		result, err := Bootstrap(cfgFile)
		if err != nil {
			log.Fatalf("Failed to bootstrap: %v", err)
		}
		cfg := result.Config

		if servePort != 0 && servePort != config.DefaultPort {
			cfg.Port = servePort
		}

		logDir := cfg.LogDir
		if logDir == "" {
			logDir = config.ConfigDir()
		}
		if err := log.ConfigureLogOutput(cfg.LoggingToFile, logDir); err != nil {
			log.Fatalf("Failed to configure log output: %v", err)
		}

		runServer(cfg, result.ConfigFilePath)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", config.DefaultPort, "server port")
	rootCmd.AddCommand(serveCmd)
}

// runServer wires the backend, service, recorder and HTTP server together
// and blocks until SIGINT/SIGTERM.
func runServer(cfg *config.Config, configFilePath string) {
	backend, err := usage.NewBackend(usage.BackendConfig{
		DSN:           cfg.Usage.DSN,
		RetentionDays: cfg.Usage.RetentionDays,
	})
	if err != nil {
		log.Fatalf("Failed to open usage store: %v", err)
	}
	if err := backend.Start(); err != nil {
		log.Fatalf("Failed to start usage store: %v", err)
	}
	defer func() {
		if err := backend.Stop(); err != nil {
			log.WithError(err).Warnf("failed to stop usage store")
		}
	}()
	log.Infof("Usage store ready: %s", config.RedactDSN(cfg.Usage.DSN))

	service := usage.NewService(backend)
	recorder := usage.NewRecorder(backend)
	applyUsageConfig(service, cfg)

	var current atomic.Pointer[config.Config]
	current.Store(cfg)

	handler := handlers.NewHandler(service, recorder, current.Load)
	server := api.New(cfg, handler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if configFilePath != "" {
		w, watchErr := watcher.New(configFilePath, func(newCfg *config.Config) {
			current.Store(newCfg)
			applyUsageConfig(service, newCfg)
			log.SetDebug(newCfg.Debug)
		})
		if watchErr != nil {
			log.WithError(watchErr).Warnf("config hot-reload disabled")
		} else {
			go w.Run(ctx)
		}
	}

	if err := server.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// applyUsageConfig pushes pricing and timezone settings into the service.
func applyUsageConfig(service *usage.Service, cfg *config.Config) {
	if len(cfg.Usage.Pricing) > 0 || cfg.Usage.DefaultPrice > 0 {
		service.SetPricing(usage.NewPriceTable(cfg.Usage.Pricing, cfg.Usage.DefaultPrice))
	} else {
		service.SetPricing(usage.DefaultPricing())
	}

	if cfg.Usage.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Usage.Timezone)
		if err != nil {
			log.Warnf("Invalid usage timezone %q, keeping previous", cfg.Usage.Timezone)
			return
		}
		service.SetLocation(loc)
	}
}
