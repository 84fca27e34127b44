package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/docuport/apiharness/internal/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "apiharness",
		Short: "Test-data and cleanup tooling for API-documentation e2e suites",
		Long: `apiharness is the non-browser core of the e2e suite for the API
documentation portal. It parses OpenAPI specifications (YAML or JSON) into
the flattened test-data model the UI assertions consume, deletes leftover
API definitions from a tenant, and can serve a local mock of the product's
API-definition endpoints.`,
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(mockCmd)
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}

		viper.AddConfigPath(cwd)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("APIHARNESS")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults sets the default configuration values
func setDefaults() {
	defaults := config.Default()

	viper.SetDefault("portal.baseUrl", defaults.Portal.BaseURL)
	viper.SetDefault("portal.projectVersionId", defaults.Portal.ProjectVersionID)
	viper.SetDefault("portal.apiToken", defaults.Portal.APIToken)

	viper.SetDefault("parser.validation", defaults.Parser.Validation)
	viper.SetDefault("parser.caching", defaults.Parser.Caching)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.format", defaults.Logging.Format)
}

// currentConfig materializes the viper state into a config struct
func currentConfig() *config.Config {
	return &config.Config{
		Portal: config.PortalConfig{
			BaseURL:          viper.GetString("portal.baseUrl"),
			ProjectVersionID: viper.GetString("portal.projectVersionId"),
			APIToken:         viper.GetString("portal.apiToken"),
		},
		Parser: config.ParserConfig{
			Validation: viper.GetBool("parser.validation"),
			Caching:    viper.GetBool("parser.caching"),
		},
		Logging: config.LoggingConfig{
			Level:  viper.GetString("logging.level"),
			Format: viper.GetString("logging.format"),
		},
	}
}
