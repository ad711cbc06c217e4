package internal

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func printStatus(w io.Writer, style lipgloss.Style, symbol, plainPrefix, message string) {
	if IsTerminal(w) {
		_, _ = fmt.Fprintf(w, "%s %s\n", style.Render(symbol), message)
		return
	}
	_, _ = fmt.Fprintf(w, "%s%s\n", plainPrefix, message)
}

// FprintSuccess writes a success message to w
func FprintSuccess(w io.Writer, message string) {
	printStatus(w, successStyle, "✓", "", message)
}

// FprintInfo writes an info message to w
func FprintInfo(w io.Writer, message string) {
	printStatus(w, infoStyle, "ℹ", "", message)
}

// FprintWarning writes a warning to w
func FprintWarning(w io.Writer, message string) {
	printStatus(w, warningStyle, "⚠", "WARNING: ", message)
}

// FprintError writes an error message to w
func FprintError(w io.Writer, message string) {
	printStatus(w, errorStyle, "✗", "", message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	FprintSuccess(os.Stdout, message)
}

// PrintError prints an error message
func PrintError(message string) {
	FprintError(os.Stderr, message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	FprintInfo(os.Stdout, message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	FprintWarning(os.Stderr, message)
}
