package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chat-session/internal"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, most recently used first",
	Long:  `List all sessions in the store, most recently used first. The current session is marked with *.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(true)
		if err != nil {
			return err
		}
		defer s.Close()

		displaySessions(cmd.OutOrStdout(), s.store, time.Now())
		return nil
	},
}

func displaySessions(out io.Writer, store *internal.Store, now time.Time) {
	sessions := store.Sessions()
	if len(sessions) == 0 {
		fmt.Fprintln(out, headerStyle.Render("No sessions found"))
		return
	}

	current, _ := store.CurrentSession()

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Found %d session(s)", len(sessions))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(w, " \t"+titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Updated")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, session := range sessions {
		marker := " "
		if session.ID == current.ID {
			marker = currentStyle.Render("*")
		}

		title := session.Title
		if title == "" {
			title = "Untitled"
		}
		if runes := []rune(title); len(runes) > 50 {
			title = string(runes[:47]) + "..."
		}

		count := 0
		if messages, err := store.History(session.ID); err == nil {
			count = len(messages)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			marker,
			idStyle.Render(shortID(session.ID)),
			lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Render(title),
			countStyle.Render(strconv.Itoa(count)),
			dateStyle.Render(formatRelative(session.Timestamp, now)),
		)
	}

	_ = w.Flush()
	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("Tip: switch with `chat-session switch <id>` (an id prefix is enough)"))
}

// formatRelative renders a timestamp relative to now the way a chat list does
func formatRelative(ts internal.Timestamp, now time.Time) string {
	if ts.IsZero() {
		return "—"
	}
	t := ts.Time()
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour && t.Day() == now.Day():
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
