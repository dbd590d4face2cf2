package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mohsinrashid64/clash-cli/internal/bench"
	"github.com/mohsinrashid64/clash-cli/internal/config"
	"github.com/mohsinrashid64/clash-cli/internal/history"
	"github.com/mohsinrashid64/clash-cli/internal/report"
	"github.com/mohsinrashid64/clash-cli/internal/stats"
)

var (
	flagConfig    string
	flagRuns      int
	flagWarmup    int
	flagExport    string
	flagNoColor   bool
	flagVerbose   bool
	flagNoHistory bool
)

var rootCmd = &cobra.Command{
	Use:   "clash <command> <command> [command...]",
	Short: "Benchmark commands head-to-head",
	Long: `clash runs two or more commands repeatedly, measures wall-clock time
and peak resident memory per run, and prints a comparison report.

Quote each command so the shell passes it to clash as one argument:

  clash "grep -r TODO ." "rg TODO"`,
	Args:         cobra.MinimumNArgs(2),
	SilenceUsage: true,
	RunE:         runBench,
}

func init() {
	rootCmd.Flags().IntVarP(&flagRuns, "runs", "r", 5, "number of benchmark runs per command")
	rootCmd.Flags().IntVarP(&flagWarmup, "warmup", "w", 0, "number of warmup runs before benchmarking")
	rootCmd.Flags().StringVarP(&flagExport, "export", "e", "", "export results to a JSON file")
	rootCmd.Flags().BoolVar(&flagNoHistory, "no-history", false, "do not record this invocation in history")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to clash.yaml")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(historyCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Flags beat config, config beats defaults.
	runs, warmup := cfg.Runs, cfg.Warmup
	if cmd.Flags().Changed("runs") {
		runs = flagRuns
	}
	if cmd.Flags().Changed("warmup") {
		warmup = flagWarmup
	}
	if runs < 1 {
		return errors.New("--runs must be at least 1")
	}
	if warmup < 0 {
		return errors.New("--warmup must not be negative")
	}
	noColor := cfg.NoColor || flagNoColor

	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println()
	fmt.Println("  ⚔  clash — benchmark comparator")
	fmt.Println()

	allStats := make([]stats.CommandStats, 0, len(args))
	for i, command := range args {
		fmt.Printf("  [%d] Benchmarking: %s\n", i+1, command)

		progress := newProgressPrinter(warmup, runs)
		runner := bench.NewRunner(bench.Options{
			Runs:           runs,
			Warmup:         warmup,
			SampleInterval: time.Duration(cfg.SampleIntervalMs) * time.Millisecond,
			Progress:       progress.update,
		}, logger)

		results, err := runner.Benchmark(ctx, command)
		if err != nil {
			progress.abort()
			return err
		}
		progress.finish()

		cs := stats.Compute(command, results)
		if cs.FailedRuns > 0 {
			fmt.Fprintf(os.Stderr, "  Warning: %d/%d runs exited with non-zero status\n",
				cs.FailedRuns, cs.Runs)
		}
		allStats = append(allStats, cs)
	}

	rep := report.New(runs, warmup, allStats)
	report.NewRenderer(os.Stdout, noColor).Render(rep)

	if flagExport != "" {
		if err := rep.WriteJSON(flagExport); err != nil {
			return err
		}
		fmt.Printf("  ✓ Results exported to %s\n", flagExport)
	}

	if cfg.History.Enabled && !flagNoHistory {
		if err := saveHistory(cfg.History.DBPath, rep); err != nil {
			// History is a convenience; a broken database must not fail
			// the benchmark that just completed.
			logger.Warn("could not record history", "error", err)
		}
	}

	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func saveHistory(dbPath string, rep *report.Report) error {
	st, err := history.New(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Save(rep)
}
