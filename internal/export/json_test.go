package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/chat-session/internal"
	"github.com/iksnae/chat-session/testutil"
)

func TestJSONExporter_Export(t *testing.T) {
	transcript := internal.CreateTestTranscript("s1")

	var buf bytes.Buffer
	exporter := &JSONExporter{}
	if err := exporter.Export(transcript, &buf); err != nil {
		t.Fatalf("JSONExporter.Export() error = %v", err)
	}

	var got internal.Transcript
	testutil.JSONUnmarshal(t, buf.Bytes(), &got)
	if got.Session != transcript.Session {
		t.Errorf("Session = %+v, want %+v", got.Session, transcript.Session)
	}
	if len(got.Messages) != 2 || got.Messages[1] != transcript.Messages[1] {
		t.Errorf("Messages = %+v", got.Messages)
	}

	output := buf.String()
	for _, field := range []string{`"messagesKey"`, `"isUser"`, `"timestamp"`} {
		if !strings.Contains(output, field) {
			t.Errorf("Output should keep stored field name %s", field)
		}
	}
	if !strings.Contains(output, "\n  ") {
		t.Error("Output should be indented")
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	exporter := &JSONExporter{}
	if got := exporter.Extension(); got != "json" {
		t.Errorf("JSONExporter.Extension() = %v, want json", got)
	}
}
