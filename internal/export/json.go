package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/chat-session/internal"
)

// JSONExporter exports transcripts in JSON format (pretty-printed). The
// session and messages keep their stored field names.
type JSONExporter struct{}

// Export exports a transcript to JSON format
func (e *JSONExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(transcript)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
