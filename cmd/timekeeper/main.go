// Command timekeeper is the live terminal dashboard for timers published
// elsewhere on the host: it discovers their shared-memory rings, drains
// them, and renders rolling latency/business-span statistics.
package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/louisponet/ma-timing/clock"
	"github.com/louisponet/ma-timing/timekeeper"
)

func main() {
	cfg := timekeeper.DefaultConfig()
	var minimumDurationNanos uint64

	root := &cobra.Command{
		Use:   "timekeeper",
		Short: "Live latency/throughput dashboard for ma-timing instrumented processes",
		Long: `timekeeper discovers the shared-memory rings that instrumented processes
create under its queue directory, drains them on a bounded schedule, and
renders a rolling view of each timer's latency and business-span
statistics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.MinimumDuration = clock.NanosFromUint64(minimumDurationNanos)
			return run(cfg)
		},
	}

	root.Flags().StringVar(&cfg.Dir, "dir", cfg.Dir, "directory to scan for timer rings")
	root.Flags().IntVar(&cfg.SamplesPerDatapoint, "samples-per-datapoint", cfg.SamplesPerDatapoint, "raw samples averaged into one rolling-window datapoint")
	root.Flags().IntVar(&cfg.NDatapoints, "n-datapoints", cfg.NDatapoints, "datapoints kept in the rolling window")
	root.Flags().DurationVar(&cfg.ReportInterval, "report-interval", cfg.ReportInterval, "report period; the dashboard polls its rings and redraws every 1/50 of it")
	root.Flags().Uint64Var(&minimumDurationNanos, "minimum-duration", cfg.MinimumDuration.Uint64(), "samples below this many nanoseconds are discarded")
	root.Flags().IntVar(&cfg.Core, "core", cfg.Core, "pin the polling loop to this CPU core; -1 leaves scheduling to the OS")
	root.Flags().StringVar(&cfg.NameFilter, "filter", cfg.NameFilter, "only track timer names matching this pattern (exact name, \"*\", or a \"prefix-*\" wildcard)")

	if err := root.Execute(); err != nil {
		slog.Error("timekeeper exited with an error", "err", err)
		os.Exit(1)
	}
}

func run(cfg timekeeper.Config) error {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("creating queue directory %s: %w", cfg.Dir, err)
	}

	k := timekeeper.New(cfg, slog.Default())
	k.PinToConfiguredCore()
	k.Discover()

	p := tea.NewProgram(timekeeper.NewModel(k), tea.WithAltScreen())
	_, err := p.Run()
	k.Close()
	return err
}
