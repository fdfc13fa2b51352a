// Package cmd provides the docket command-line interface.
//
// Configuration is read from, highest priority first:
//
//  1. Command-line flags
//  2. DOCKET_* environment variables (DOCKET_SERVER_PORT, DOCKET_DOCUMENT_LOCALE, ...)
//  3. The file named by --config or DOCKET_CONFIG_FILE
//  4. .docket.yml in the current directory
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/docket/internal/config"
	"github.com/conneroisu/docket/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docket",
	Short: "Design, preview and render business document layouts",
	Long: `Docket edits and renders layouts for business documents such as invoices,
delivery dockets, order confirmations, availability lists and quotes.

A layout is a JSON or YAML tree of components (headings, text, lists, tables,
boxes, chips, images) bound to a data object through {{path}} placeholders.

Quick Start:
  docket init invoice -o invoice.json     Write the default invoice layout
  docket serve invoice.json               Live preview in the browser
  docket render invoice.json -o out.html  Render with sample data
  docket validate invoice.json            Check a layout for problems`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .docket.yml, can also use DOCKET_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig points Viper at the config file and the environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("DOCKET_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".docket")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing or unreadable file leaves the defaults in place.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes and validates the merged configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(cfg.LoggerConfig())
}
