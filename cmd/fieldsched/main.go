package main

import (
	"fmt"
	"os"

	"github.com/EvgeniyBoldov/calendar/internal/config"
	"github.com/EvgeniyBoldov/calendar/internal/log"
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "fieldsched",
	Short:   "Field engineer scheduling service",
	Long:    "fieldsched plans and schedules field-engineer work across regions, data centers and on-call time slots.",
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("fieldsched version %s\nCommit: %s\n", Version, Commit))

	defaults := config.Default()
	rootCmd.PersistentFlags().String("data-dir", defaults.DataDir, "directory for the embedded store")
	rootCmd.PersistentFlags().String("http-addr", defaults.HTTPAddr, "address to serve the HTTP API on")
	rootCmd.PersistentFlags().String("metrics-addr", defaults.MetricsAddr, "address for a standalone /metrics listener (blank to skip)")
	rootCmd.PersistentFlags().String("log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", defaults.LogJSON, "output logs in JSON format")
	rootCmd.PersistentFlags().Duration("session-ttl", defaults.SessionTTL.Duration, "planning session draft lifetime")
	rootCmd.PersistentFlags().Duration("expiry-sweep", defaults.ExpirySweep.Duration, "interval between expired-session sweeps")
	rootCmd.PersistentFlags().String("config", "", "optional YAML config file overlaying the flags above")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(serveCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")
	log.Init(log.Config{Level: log.Level(logLevel), JSONOutput: logJSON})
}
