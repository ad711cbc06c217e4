package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/chat-session/internal"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export exports a transcript to Markdown format
func (e *MarkdownExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	session := transcript.Session

	_, _ = fmt.Fprintf(w, "# %s\n\n", escapeMarkdown(session.Title))
	_, _ = fmt.Fprintf(w, "**Session:** %s  \n", session.ID)
	if updated := formatTime(session.Timestamp); updated != "" {
		_, _ = fmt.Fprintf(w, "**Updated:** %s  \n", updated)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(transcript.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, msg := range transcript.Messages {
		timestamp := ""
		if t := formatTime(msg.Timestamp); t != "" {
			timestamp = fmt.Sprintf(" (%s)", t)
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", msg.Actor(), timestamp, escapeMarkdown(msg.Text))

		if i < len(transcript.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown emphasis outside fenced code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
