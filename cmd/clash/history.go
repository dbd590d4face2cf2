package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/mohsinrashid64/clash-cli/internal/config"
	"github.com/mohsinrashid64/clash-cli/internal/history"
	"github.com/mohsinrashid64/clash-cli/internal/stats"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:          "history",
	Short:        "List recent benchmark reports",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of reports to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := history.New(cfg.History.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	reports, err := st.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Println("No benchmark history yet.")
		return nil
	}

	for _, rep := range reports {
		labels := make([]string, len(rep.Commands))
		for i, c := range rep.Commands {
			labels[i] = c.Label
		}

		line := fmt.Sprintf("  %s  %-16s %s",
			rep.ID,
			units.HumanDuration(time.Since(rep.GeneratedAt))+" ago",
			strings.Join(labels, " vs "))

		if comp := stats.CompareTime(rep.Commands); comp != nil {
			line += fmt.Sprintf("  → %s %.2fx faster",
				rep.Commands[comp.WinnerIndex].Label, comp.Ratio)
		}
		fmt.Println(line)
	}

	return nil
}
