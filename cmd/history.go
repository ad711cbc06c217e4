package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chat-session/internal"
	"github.com/spf13/cobra"
)

var (
	historyLimit     int
	historySince     string
	historyMarkdown  bool
	historySessionID string
)

var (
	// Styles for history output
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// historyOptions filter and format a displayed transcript
type historyOptions struct {
	limit    int       // show only the most recent messages, 0 for all
	since    time.Time // hide older messages, zero for all
	markdown bool      // render message text as markdown
}

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the current session's messages",
	Long: `Display the messages of the current session (or --session-id) in
chronological order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := historyOptions{limit: historyLimit, markdown: historyMarkdown}
		if historySince != "" {
			since, err := parseSince(historySince, time.Now())
			if err != nil {
				return err
			}
			opts.since = since
		}

		s, err := openStore(true)
		if err != nil {
			return err
		}
		defer s.Close()

		var transcript *internal.Transcript
		if historySessionID != "" {
			id, err := resolveSessionID(s.store, historySessionID)
			if err != nil {
				return err
			}
			if transcript, err = s.store.Transcript(id); err != nil {
				return err
			}
		} else {
			current, ok := s.store.CurrentSession()
			if !ok {
				return internal.ErrNoCurrentSession
			}
			transcript = &internal.Transcript{Session: current, Messages: s.store.ReadHistory()}
		}

		displayTranscript(cmd.OutOrStdout(), transcript, opts)
		return nil
	},
}

// parseSince accepts an RFC3339 time or a duration back from now
func parseSince(value string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		return now.Add(-d), nil
	}
	return time.Time{}, fmt.Errorf("invalid --since value %q (expected RFC3339 time or duration such as 2h)", value)
}

func filterMessages(messages []internal.Message, opts historyOptions) ([]internal.Message, int) {
	if !opts.since.IsZero() {
		since := internal.TimestampOf(opts.since)
		filtered := make([]internal.Message, 0, len(messages))
		for _, msg := range messages {
			if msg.Timestamp >= since {
				filtered = append(filtered, msg)
			}
		}
		messages = filtered
	}

	hidden := 0
	if opts.limit > 0 && opts.limit < len(messages) {
		hidden = len(messages) - opts.limit
		messages = messages[hidden:]
	}
	return messages, hidden
}

func displayTranscript(out io.Writer, transcript *internal.Transcript, opts historyOptions) {
	displaySessionHeader(out, transcript)

	messages, hidden := filterMessages(transcript.Messages, opts)
	if hidden > 0 {
		fmt.Fprintln(out, lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true).
			Render(fmt.Sprintf("... (%d earlier message(s))", hidden)))
		fmt.Fprintln(out)
	}

	var renderer *glamour.TermRenderer
	if opts.markdown {
		renderer = newMarkdownRenderer(out)
	}

	for i, msg := range messages {
		displayMessage(out, hidden+i+1, hidden+len(messages), msg, renderer)
	}
}

func displaySessionHeader(out io.Writer, transcript *internal.Transcript) {
	session := transcript.Session
	fmt.Fprintln(out, sessionHeaderStyle.Render(session.Title))

	metaParts := []string{
		fmt.Sprintf("ID: %s", session.ID),
		fmt.Sprintf("Messages: %d", len(transcript.Messages)),
	}
	if !session.Timestamp.IsZero() {
		metaParts = append(metaParts, fmt.Sprintf("Updated: %s", session.Timestamp.Time().Format(time.RFC3339)))
	}
	fmt.Fprintln(out, sessionMetaStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Fprintln(out)
}

func displayMessage(out io.Writer, index, total int, msg internal.Message, renderer *glamour.TermRenderer) {
	actorStyle := assistantMessageStyle
	actorLabel := "Assistant"
	if msg.IsUser {
		actorStyle = userMessageStyle
		actorLabel = "User"
	}

	header := actorStyle.Render(actorLabel) + " " + timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	if !msg.Timestamp.IsZero() {
		header += " " + timestampStyle.Render(msg.Timestamp.Time().Format("15:04:05"))
	}
	fmt.Fprintln(out, header)

	content := strings.TrimSpace(msg.Text)
	switch {
	case content == "":
		fmt.Fprintln(out, messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	case renderer != nil && !msg.IsUser:
		rendered, err := renderer.Render(content)
		if err != nil {
			internal.LogDebug("Markdown rendering failed: %v", err)
			fmt.Fprintln(out, messageContentStyle.Render(wrapText(content, 80)))
			break
		}
		fmt.Fprint(out, rendered)
	default:
		fmt.Fprintln(out, messageContentStyle.Render(wrapText(content, 80)))
	}

	fmt.Fprintln(out)
}

// newMarkdownRenderer returns a glamour renderer styled for out, or nil if
// none can be built
func newMarkdownRenderer(out io.Writer) *glamour.TermRenderer {
	style := glamour.WithStylePath("notty")
	if internal.IsTerminal(out) {
		style = glamour.WithAutoStyle()
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		internal.LogDebug("Failed to create markdown renderer: %v", err)
		return nil
	}
	return renderer
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
					currentLine = word
				} else {
					wrapped = append(wrapped, word)
					currentLine = ""
				}
			} else {
				if currentLine == "" {
					currentLine = word
				} else {
					currentLine += " " + word
				}
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Show only the most recent n messages")
	historyCmd.Flags().StringVar(&historySince, "since", "", "Show messages since a time (RFC3339) or duration ago (e.g. 2h)")
	historyCmd.Flags().BoolVar(&historyMarkdown, "markdown", false, "Render assistant replies as markdown")
	historyCmd.Flags().StringVar(&historySessionID, "session-id", "", "Show a session other than the current one")
}
