package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/chat-session/internal"
	"github.com/iksnae/chat-session/internal/export"
	"github.com/spf13/cobra"
)

var (
	format          string
	outputDir       string
	exportSessionID string
	exportAll       bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to file",
	Long: `Export chat sessions to various formats (jsonl, md, yaml, json).

By default the current session is exported. Use --all for every session in the
list, or --session-id for a specific one. Each session is written to
session_<id>.<ext> in the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Create exporter first so a bad format fails before touching storage
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		s, err := openStore(true)
		if err != nil {
			return err
		}
		defer s.Close()

		var ids []string
		switch {
		case exportAll:
			for _, session := range s.store.Sessions() {
				ids = append(ids, session.ID)
			}
		case exportSessionID != "":
			id, err := resolveSessionID(s.store, exportSessionID)
			if err != nil {
				return err
			}
			ids = []string{id}
		default:
			current, ok := s.store.CurrentSession()
			if !ok {
				return internal.ErrNoCurrentSession
			}
			ids = []string{current.ID}
		}

		// Ensure output directory exists
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		exported := 0
		for _, id := range ids {
			transcript, err := s.store.Transcript(id)
			if err != nil {
				internal.LogError("Failed to load session %s: %v", id, err)
				continue
			}
			if err := writeExport(exporter, transcript, outputDir); err != nil {
				internal.LogError("%v", err)
				continue
			}
			exported++
		}

		if exported < len(ids) {
			return fmt.Errorf("exported %d of %d session(s) to %s", exported, len(ids), outputDir)
		}
		internal.FprintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Export complete: %d session(s) exported to %s", exported, outputDir))
		return nil
	},
}

// writeExport writes one transcript to dir/session_<id>.<ext>
func writeExport(exporter export.Exporter, transcript *internal.Transcript, dir string) error {
	filename := fmt.Sprintf("session_%s.%s", strings.TrimPrefix(transcript.Session.ID, "session_"), exporter.Extension())
	path := filepath.Join(dir, filename)

	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}

	if err := exporter.Export(transcript, file); err != nil {
		_ = file.Close()
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}

	if err := file.Close(); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	internal.LogDebug("Exported session %s to %s", transcript.Session.ID, path)
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVar(&exportSessionID, "session-id", "", "Export a specific session by ID")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every session")
}
