package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-agent/internal/observability"
	"github.com/jonathan/profile-agent/internal/types"
	"github.com/jonathan/profile-agent/internal/updatelog"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent profile updates",
	RunE:  runLogs,
}

var (
	logsPlatform string
	logsLimit    int
)

func init() {
	logsCmd.Flags().StringVarP(&logsPlatform, "platform", "p", "", "Only show updates for this platform (default: all)")
	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", updatelog.DefaultLimit, "Maximum number of updates to show")

	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}
	updates, err := updatelog.New(cfg.LogDir, newLogger(cfg))
	if err != nil {
		return err
	}

	var platform types.Platform
	if logsPlatform != "" {
		platform = types.ParsePlatform(logsPlatform)
	}
	records, err := updates.GetRecentLogs(platform, logsLimit)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintChangeRecords(records)
	if len(records) == 0 && platform != "" {
		if logged := updates.Platforms(); len(logged) > 0 {
			_, _ = fmt.Fprintf(os.Stderr, "Updates are logged for: %v\n", logged)
		}
	}
	return nil
}
