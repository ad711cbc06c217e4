package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/chat-session/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name       string
		transcript *internal.Transcript
		want       []string
		notWant    []string
	}{
		{
			name:       "basic transcript",
			transcript: internal.CreateTestTranscript("s1"),
			want: []string{
				"# Hello, how…",
				"**Session:** s1",
				"**Updated:** 2023-11-14T22:13:20.000Z",
				"**Messages:** 2",
				"## Messages",
				"**user:** (2023-11-14T22:13:20.000Z)",
				"Hello, how are you?",
				"**assistant:**",
			},
		},
		{
			name: "message without timestamp",
			transcript: internal.CreateTestTranscriptWithMessages("s2", []internal.Message{
				{Text: "Hello", IsUser: true},
			}),
			want:    []string{"**user:**\n\nHello"},
			notWant: []string{"**user:** ("},
		},
		{
			name:       "empty transcript",
			transcript: internal.CreateTestTranscriptWithMessages("s3", []internal.Message{}),
			want: []string{
				"# default session",
				"**Messages:** 0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &MarkdownExporter{}

			if err := exporter.Export(tt.transcript, &buf); err != nil {
				t.Fatalf("MarkdownExporter.Export() error = %v", err)
			}

			output := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("Output should contain %q\nOutput:\n%s", want, output)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(output, notWant) {
					t.Errorf("Output should not contain %q\nOutput:\n%s", notWant, output)
				}
			}
		})
	}
}

func TestMarkdownExporter_SeparatesMessages(t *testing.T) {
	var buf bytes.Buffer
	transcript := internal.CreateTestTranscript("s1")

	if err := (&MarkdownExporter{}).Export(transcript, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	// one rule after the header, one between the two messages
	if got := strings.Count(buf.String(), "---\n\n"); got != 2 {
		t.Errorf("Expected 2 horizontal rules, got %d", got)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text",
			input: "hello world",
			want:  "hello world",
		},
		{
			name:  "bold",
			input: "this is **bold**",
			want:  "this is \\*\\*bold\\*\\*",
		},
		{
			name:  "underscores",
			input: "__init__",
			want:  "\\_\\_init\\_\\_",
		},
		{
			name:  "code block preserved",
			input: "```go\nx := **p\n```\n**after**",
			want:  "```go\nx := **p\n```\n\\*\\*after\\*\\*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeMarkdown(tt.input); got != tt.want {
				t.Errorf("escapeMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	exporter := &MarkdownExporter{}
	if got := exporter.Extension(); got != "md" {
		t.Errorf("MarkdownExporter.Extension() = %v, want md", got)
	}
}
