package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/meridian-advisory/renewal-intel/internal/config"
	"github.com/meridian-advisory/renewal-intel/internal/flagengine"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config.yaml with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		const path = "config.yaml"

		if !configInitForce {
			if _, err := os.Stat(path); err == nil {
				return eris.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}

		defaults := config.Config{
			Store: config.StoreConfig{
				Driver:      "sqlite",
				DatabaseURL: "renewal-intel.db",
			},
			Engine: flagengine.DefaultEngineConfig(),
			Server: config.ServerConfig{
				Port:           8080,
				AllowedOrigins: []string{"*"},
			},
			Log: config.LogConfig{
				Level:  "info",
				Format: "json",
			},
			Sureify: config.SureifyConfig{
				TimeoutSecs: 30,
				RatePerSec:  5,
				RateBurst:   10,
				UserID:      "1001",
			},
			Compare: config.CompareConfig{
				TimeoutSecs: 15,
			},
		}

		out, err := yaml.Marshal(defaults)
		if err != nil {
			return eris.Wrap(err, "marshal default config")
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return eris.Wrap(err, "write config file")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config.yaml")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
