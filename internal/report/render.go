package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mohsinrashid64/clash-cli/internal/stats"
)

const barWidth = 30

// ratios this close to 1.0 are noise, not a meaningful difference
const sameRatio = 1.01

var (
	colorCyan    = lipgloss.Color("14")
	colorMagenta = lipgloss.Color("13")
	colorGreen   = lipgloss.Color("10")
	colorRed     = lipgloss.Color("9")
	colorYellow  = lipgloss.Color("11")
	colorMuted   = lipgloss.Color("8")
)

type styleSet struct {
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Winner  lipgloss.Style
	Loser   lipgloss.Style
	Warning lipgloss.Style
	Time    lipgloss.Style
	Memory  lipgloss.Style
	Border  lipgloss.Style
}

func newStyles(noColor bool) styleSet {
	if noColor {
		plain := lipgloss.NewStyle()
		return styleSet{
			Bold: plain, Muted: plain, Winner: plain, Loser: plain,
			Warning: plain, Time: plain, Memory: plain, Border: plain,
		}
	}
	return styleSet{
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(colorMuted),
		Winner:  lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
		Loser:   lipgloss.NewStyle().Foreground(colorRed),
		Warning: lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
		Time:    lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
		Memory:  lipgloss.NewStyle().Foreground(colorMagenta).Bold(true),
		Border:  lipgloss.NewStyle().Foreground(colorMuted),
	}
}

// Renderer writes the styled comparison report.
type Renderer struct {
	out    io.Writer
	styles styleSet
}

func NewRenderer(out io.Writer, noColor bool) *Renderer {
	return &Renderer{out: out, styles: newStyles(noColor)}
}

// Render prints the full report: per-command status, the time section,
// the memory section, and the overall summary.
func (r *Renderer) Render(rep *Report) {
	all := rep.Commands

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "  %s  clash — benchmark comparator\n", r.styles.Bold.Render("⚔"))
	fmt.Fprintln(r.out)

	for _, s := range all {
		status := r.styles.Winner.Render("✓")
		if s.FailedRuns > 0 {
			status = r.styles.Warning.Render(fmt.Sprintf("⚠ %d failed", s.FailedRuns))
		}
		fmt.Fprintf(r.out, "  %s %s (%d runs)\n", status, r.styles.Bold.Render(s.Label), s.Runs)
	}
	fmt.Fprintln(r.out)

	r.renderTimeSection(all)
	fmt.Fprintln(r.out)
	r.renderMemorySection(all)
	fmt.Fprintln(r.out)
	r.renderSummary(all)
}

func (r *Renderer) renderTimeSection(all []stats.CommandStats) {
	comp := stats.CompareTime(all)
	winner := -1
	if comp != nil {
		winner = comp.WinnerIndex
	}

	rows := [][]string{
		{"Mean"}, {"Min"}, {"Max"}, {"Std Dev"},
	}
	for i, s := range all {
		mean := FormatDuration(s.TimeMean)
		if i == winner {
			mean = r.styles.Winner.Render(mean)
		}
		rows[0] = append(rows[0], mean)
		rows[1] = append(rows[1], FormatDuration(s.TimeMin))
		rows[2] = append(rows[2], FormatDuration(s.TimeMax))
		rows[3] = append(rows[3], "±"+FormatDuration(s.TimeStdDev))
	}

	fmt.Fprintln(r.out, r.buildTable(r.styles.Time.Render("⏱  Time"), all, rows))
	r.renderBars(all, winner,
		func(s stats.CommandStats) float64 { return s.TimeMean.Seconds() },
		func(s stats.CommandStats) string { return FormatDuration(s.TimeMean) },
	)

	if comp != nil {
		if comp.Ratio > sameRatio {
			fmt.Fprintf(r.out, "  %s %s is %.2fx faster\n",
				r.styles.Time.Render("→"),
				r.styles.Winner.Render(all[comp.WinnerIndex].Label),
				comp.Ratio)
		} else {
			fmt.Fprintf(r.out, "  %s Roughly the same speed\n", r.styles.Time.Render("→"))
		}
	}
}

func (r *Renderer) renderMemorySection(all []stats.CommandStats) {
	measured := false
	for _, s := range all {
		if s.PeakMemoryBytes > 0 {
			measured = true
			break
		}
	}
	if !measured {
		fmt.Fprintf(r.out, "  %s\n", r.styles.Muted.Render(
			"Memory data unavailable (processes too short-lived to measure)"))
		return
	}

	comp := stats.CompareMemory(all)
	winner := -1
	if comp != nil {
		winner = comp.WinnerIndex
	}

	row := []string{"Peak RSS"}
	for i, s := range all {
		cell := FormatBytes(s.PeakMemoryBytes)
		if i == winner {
			cell = r.styles.Winner.Render(cell)
		}
		row = append(row, cell)
	}

	fmt.Fprintln(r.out, r.buildTable(r.styles.Memory.Render("🖥  Memory"), all, [][]string{row}))
	r.renderBars(all, winner,
		func(s stats.CommandStats) float64 { return float64(s.PeakMemoryBytes) },
		func(s stats.CommandStats) string { return FormatBytes(s.PeakMemoryBytes) },
	)

	if comp != nil {
		if comp.Ratio > sameRatio {
			fmt.Fprintf(r.out, "  %s %s uses %.2fx less memory\n",
				r.styles.Memory.Render("→"),
				r.styles.Winner.Render(all[comp.WinnerIndex].Label),
				comp.Ratio)
		} else {
			fmt.Fprintf(r.out, "  %s Roughly the same memory usage\n", r.styles.Memory.Render("→"))
		}
	}
}

func (r *Renderer) buildTable(title string, all []stats.CommandStats, rows [][]string) *table.Table {
	headers := []string{title}
	for _, s := range all {
		headers = append(headers, r.styles.Bold.Render(s.Label))
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.styles.Border).
		StyleFunc(func(_, _ int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)
}

// renderBars prints one horizontal bar per command, scaled to the largest
// value.
func (r *Renderer) renderBars(all []stats.CommandStats, winner int,
	value func(stats.CommandStats) float64, format func(stats.CommandStats) string) {

	var maxVal float64
	labelWidth := 0
	for _, s := range all {
		if v := value(s); v > maxVal {
			maxVal = v
		}
		if n := len([]rune(s.Label)); n > labelWidth {
			labelWidth = n
		}
	}
	if maxVal <= 0 {
		return
	}

	for i, s := range all {
		filled := int(value(s)/maxVal*float64(barWidth) + 0.5)
		if filled > barWidth {
			filled = barWidth
		}
		bar := strings.Repeat("━", filled)
		rest := strings.Repeat("─", barWidth-filled)
		label := fmt.Sprintf("%*s", labelWidth, s.Label)

		if i == winner {
			fmt.Fprintf(r.out, "  %s %s%s  %s\n",
				r.styles.Winner.Render(label),
				r.styles.Winner.Render(bar),
				r.styles.Muted.Render(rest),
				r.styles.Winner.Render(format(s)))
		} else {
			fmt.Fprintf(r.out, "  %s %s%s  %s\n",
				label,
				r.styles.Loser.Render(bar),
				r.styles.Muted.Render(rest),
				format(s))
		}
	}
}

func (r *Renderer) renderSummary(all []stats.CommandStats) {
	var parts []string

	if tc := stats.CompareTime(all); tc != nil && tc.Ratio > sameRatio {
		parts = append(parts, fmt.Sprintf("%s wins on speed (%.2fx)", all[tc.WinnerIndex].Label, tc.Ratio))
	}
	if mc := stats.CompareMemory(all); mc != nil && mc.Ratio > sameRatio {
		parts = append(parts, fmt.Sprintf("%s wins on memory (%.2fx)", all[mc.WinnerIndex].Label, mc.Ratio))
	}

	if len(parts) == 0 {
		fmt.Fprintf(r.out, "  %s All commands perform similarly.\n", r.styles.Bold.Render("Summary:"))
	} else {
		fmt.Fprintf(r.out, "  %s %s\n", r.styles.Bold.Render("Summary:"), strings.Join(parts, ", "))
	}
	fmt.Fprintln(r.out)
}
