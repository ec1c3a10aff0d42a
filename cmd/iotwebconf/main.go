// Iotwebconf serves a captive config portal for a device described in a
// YAML file, and manages the stored configuration from the command line.
//
// The portal shows the system parameters (thing name, AP password, WiFi
// credentials) plus the custom groups declared in the config file, and
// persists them in a versioned byte image.
//
// Usage:
//
//	iotwebconf [command] [flags]
//
// See 'iotwebconf --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/logging"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/version"
)

// Global flags
var (
	configPath string
	logLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "iotwebconf",
	Short: "Captive config portal for IoT devices",
	Long: `Serve and manage the configuration portal of an IoT device.

The parameter tree is declared in a YAML config file. 'serve' runs the
portal, 'layout' and 'dump' inspect the stored image, and 'set' changes a
running portal over HTTP.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides IOTWEBCONF_LOG_LEVEL")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("iotwebconf %s\n", version.Full())
	},
}
