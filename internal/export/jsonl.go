package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/chat-session/internal"
)

// JSONLExporter exports transcripts in JSONL format (one message per line)
type JSONLExporter struct{}

// Export exports a transcript to JSONL format
func (e *JSONLExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range transcript.Messages {
		obj := map[string]interface{}{
			"session": transcript.Session.ID,
			"actor":   msg.Actor(),
			"text":    msg.Text,
		}

		if !msg.Timestamp.IsZero() {
			obj["timestamp"] = int64(msg.Timestamp)
			obj["time"] = formatTime(msg.Timestamp)
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
