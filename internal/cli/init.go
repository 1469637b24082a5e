package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tokenwatch/tokenwatch/internal/config"
	"github.com/tokenwatch/tokenwatch/internal/embedded"
	log "github.com/tokenwatch/tokenwatch/internal/logging"
	"github.com/tokenwatch/tokenwatch/internal/util"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration file",
	Long: `Write a default configuration file.

On first run this creates the config directory and file. Use --force to
overwrite an existing config with the defaults.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath := cfgFile
		if configPath == "" {
			configPath = config.DefaultConfigPath()
		}
		if resolved, err := util.ResolvePath(configPath); err == nil && resolved != "" {
			configPath = resolved
		}
		if err := doInitConfig(configPath, forceInit); err != nil {
			log.Fatalf("Init failed: %v", err)
		}
	},
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func doInitConfig(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		fmt.Printf("Config already exists at %s (use --force to overwrite)\n", configPath)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, embedded.DefaultConfigTemplate(), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Printf("Created config at %s\n", configPath)
	return nil
}
