package export

import (
	"fmt"
	"io"

	"github.com/iksnae/chat-session/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(transcript *internal.Transcript, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// formatTime renders a message timestamp for humans, or "" when unset
func formatTime(ts internal.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Time().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
