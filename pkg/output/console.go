package output

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	isatty "github.com/mattn/go-isatty"
)

var (
	styleArrow   = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)  // cyan/blue
	styleHeader  = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)  // bright white
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)  // green
	styleSkip    = lipgloss.NewStyle().Faint(true)                                  // dim
	styleWarnLbl = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true) // yellow
	styleWarnTxt = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))            // yellow
	styleFail    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true) // red
	colorEnabled = true
)

// InitConsole configures color output based on noColor flag and TTY detection
func InitConsole(noColor bool) {
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	colorEnabled = tty && !noColor
}

func r(st lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return st.Render(s)
}

// DatasetHeader returns a colored header for a dataset merge run.
func DatasetHeader(dataset string) string {
	arrow := r(styleArrow, "→")
	return fmt.Sprintf("%s %s", arrow, r(styleHeader, dataset))
}

// RowMerged returns the progress line for a completed row.
func RowMerged(row int, filename string) string {
	return fmt.Sprintf("  %s row %d → %s", r(styleOK, "✓"), row, filename)
}

// RowSkipped returns the progress line for an already-processed row.
func RowSkipped(row int) string {
	return r(styleSkip, fmt.Sprintf("  - row %d already merged, skipped", row))
}

// RowFailed returns the progress line for a failed row.
func RowFailed(row int, detail string) string {
	return fmt.Sprintf("  %s row %d: %s", r(styleFail, "✗"), row, detail)
}

// Summary returns the run's closing counts line.
func Summary(processed, skipped, failed int) string {
	line := fmt.Sprintf("Merged %d row(s), skipped %d, failed %d", processed, skipped, failed)
	if failed > 0 {
		return r(styleWarnTxt, line)
	}
	return r(styleOK, line)
}

// Warnf returns a single-line colored warning string with a standard prefix.
func Warnf(format string, a ...interface{}) string {
	msg := fmt.Sprintf(format, a...)
	return r(styleWarnLbl, "Warning:") + " " + r(styleWarnTxt, msg)
}
