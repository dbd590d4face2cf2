// Package report turns aggregated benchmark statistics into their
// outward-facing forms: the styled terminal report and the JSON export
// document.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mohsinrashid64/clash-cli/internal/stats"
)

// Report is one completed benchmark invocation: every command's summary
// in input order, plus the parameters the invocation ran with.
type Report struct {
	ID          string               `json:"id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Runs        int                  `json:"runs"`
	Warmup      int                  `json:"warmup"`
	Commands    []stats.CommandStats `json:"commands"`
}

func New(runs, warmup int, commands []stats.CommandStats) *Report {
	return &Report{
		ID:          uuid.New().String()[:8],
		GeneratedAt: time.Now().UTC(),
		Runs:        runs,
		Warmup:      warmup,
		Commands:    commands,
	}
}

// WriteJSON exports the report, with every per-run measurement, to path.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
