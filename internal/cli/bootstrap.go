package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/tokenwatch/tokenwatch/internal/cli/env"
	"github.com/tokenwatch/tokenwatch/internal/config"
	"github.com/tokenwatch/tokenwatch/internal/embedded"
	log "github.com/tokenwatch/tokenwatch/internal/logging"
	"github.com/tokenwatch/tokenwatch/internal/util"
)

// BootstrapResult contains the loaded configuration and where it came from.
type BootstrapResult struct {
	Config         *config.Config
	ConfigFilePath string
}

// Bootstrap loads environment variables and the configuration file,
// creating a default config on first run at the default location.
func Bootstrap(configPath string) (*BootstrapResult, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	// Load environment variables from .env if present.
	if errLoad := godotenv.Load(filepath.Join(wd, ".env")); errLoad != nil {
		if !errors.Is(errLoad, os.ErrNotExist) {
			log.WithError(errLoad).Warnf("failed to load .env file")
		}
	}

	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	if resolved, errResolve := util.ResolvePath(configPath); errResolve == nil && resolved != "" {
		configPath = resolved
	}

	if configPath == config.DefaultConfigPath() {
		if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
			autoInitConfig(configPath)
		}
	}

	cfg, err := config.LoadConfigOptional(configPath, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	applyEnvOverrides(cfg)
	log.SetDebug(cfg.Debug)

	return &BootstrapResult{
		Config:         cfg,
		ConfigFilePath: configPath,
	}, nil
}

// autoInitConfig silently creates the config file on first run.
func autoInitConfig(configPath string) {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return
	}
	if err := os.WriteFile(configPath, embedded.DefaultConfigTemplate(), 0o600); err != nil {
		return
	}
	fmt.Printf("First run: created config at %s\n", configPath)
}

// applyEnvOverrides applies environment variable overrides for cloud
// deployments where editing the config file is inconvenient.
func applyEnvOverrides(cfg *config.Config) {
	if port, ok := env.LookupEnvInt("TOKENWATCH_PORT"); ok {
		cfg.Port = port
		log.Infof("Port overridden by env: %d", port)
	}
	if debug, ok := env.LookupEnvBool("TOKENWATCH_DEBUG"); ok {
		cfg.Debug = debug
		log.Infof("Debug overridden by env: %v", debug)
	}
	if dsn, ok := env.LookupEnv("TOKENWATCH_DSN"); ok {
		cfg.Usage.DSN = dsn
		log.Infof("Usage DSN overridden by env")
	}
	if days, ok := env.LookupEnvInt("TOKENWATCH_RETENTION_DAYS"); ok && days > 0 {
		cfg.Usage.RetentionDays = days
		log.Infof("Retention days overridden by env: %d", days)
	}
	if price, ok := env.LookupEnvFloat("TOKENWATCH_DEFAULT_PRICE"); ok && price > 0 {
		cfg.Usage.DefaultPrice = price
		log.Infof("Default token price overridden by env")
	}
}
