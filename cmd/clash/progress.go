package main

import (
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/mohsinrashid64/clash-cli/internal/bench"
)

// progressPrinter bridges the runner's progress callback to terminal
// progress bars, one for the warmup phase and one for the measured runs.
// The callback fires outside the timed section, so rendering cost never
// skews a measurement.
type progressPrinter struct {
	warmup  *progressbar.ProgressBar
	measure *progressbar.ProgressBar
}

func newProgressPrinter(warmup, runs int) *progressPrinter {
	p := &progressPrinter{measure: newBar(runs, "    Running")}
	if warmup > 0 {
		p.warmup = newBar(warmup, "    Warmup ")
	}
	return p
}

func newBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(20),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "━",
			SaucerPadding: "─",
			BarStart:      "",
			BarEnd:        "",
		}),
	)
}

func (p *progressPrinter) update(phase bench.Phase, completed, _ int) {
	switch phase {
	case bench.PhaseWarmup:
		if p.warmup != nil {
			_ = p.warmup.Set(completed)
		}
	case bench.PhaseMeasure:
		_ = p.measure.Set(completed)
	}
}

// finish clears both bars after a successful benchmark.
func (p *progressPrinter) finish() {
	if p.warmup != nil {
		_ = p.warmup.Finish()
	}
	_ = p.measure.Finish()
}

// abort clears the bars without filling them, for the fail-fast path.
func (p *progressPrinter) abort() {
	if p.warmup != nil {
		_ = p.warmup.Exit()
	}
	_ = p.measure.Exit()
}
