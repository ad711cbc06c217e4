package export

import (
	"bytes"
	"testing"

	"github.com/iksnae/chat-session/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	tests := []struct {
		name       string
		transcript *internal.Transcript
	}{
		{
			name:       "basic transcript",
			transcript: internal.CreateTestTranscript("s1"),
		},
		{
			name:       "empty transcript",
			transcript: internal.CreateTestTranscriptWithMessages("s2", []internal.Message{}),
		},
		{
			name: "multiline text",
			transcript: internal.CreateTestTranscriptWithMessages("s3", []internal.Message{
				{Text: "line one\nline two: with colon", IsUser: true, Timestamp: 5},
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &YAMLExporter{}

			if err := exporter.Export(tt.transcript, &buf); err != nil {
				t.Fatalf("YAMLExporter.Export() error = %v", err)
			}

			var got internal.Transcript
			if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("Output is not valid YAML: %v\nOutput: %s", err, buf.String())
			}

			if got.Session != tt.transcript.Session {
				t.Errorf("Session = %+v, want %+v", got.Session, tt.transcript.Session)
			}
			if len(got.Messages) != len(tt.transcript.Messages) {
				t.Fatalf("Messages = %d, want %d", len(got.Messages), len(tt.transcript.Messages))
			}
			for i := range got.Messages {
				if got.Messages[i] != tt.transcript.Messages[i] {
					t.Errorf("Messages[%d] = %+v, want %+v", i, got.Messages[i], tt.transcript.Messages[i])
				}
			}
		})
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	exporter := &YAMLExporter{}
	if got := exporter.Extension(); got != "yaml" {
		t.Errorf("YAMLExporter.Extension() = %v, want yaml", got)
	}
}
