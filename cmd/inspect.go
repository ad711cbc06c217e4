package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/iksnae/chat-session/internal"
	"github.com/spf13/cobra"
)

var (
	inspectFormat string
	inspectValues bool
)

// keyInfo describes one stored key
type keyInfo struct {
	Key   string `json:"key"`
	Kind  string `json:"kind"`
	Bytes int    `json:"bytes"`
	Value string `json:"value,omitempty"`
}

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect the raw keys of the session store",
	Long: `Inspect the raw key/value pairs stored under the configured prefix.

This command provides detailed information about:
  • Every key under the prefix and its size
  • Which keys are the session index, the current pointer or message logs
  • Raw stored values (with --values)

Examples:
  chat-session inspect                        # Keys and sizes
  chat-session inspect --values               # Include raw values
  chat-session inspect --format json          # JSON output`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inspectFormat != "table" && inspectFormat != "json" {
			return fmt.Errorf("unsupported format: %s (supported: table, json)", inspectFormat)
		}

		s, err := openStore(false)
		if err != nil {
			return err
		}
		defer s.Close()

		infos, err := collectKeys(s.store)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if inspectFormat == "json" {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(infos)
		}
		printKeyTable(out, s.store.Prefix(), infos)
		return nil
	},
}

// collectKeys reads every key under the store's prefix. Backends that cannot
// list keys fall back to the keys reachable from the session index.
func collectKeys(store *internal.Store) ([]keyInfo, error) {
	storage := store.Storage()
	prefix := store.Prefix()

	sessionsKey := internal.SessionsKey(prefix)
	pointerKey := internal.CurrentSessionKey(prefix)
	logKeys := make(map[string]bool)
	for _, session := range store.Sessions() {
		logKeys[session.MessagesKey] = true
	}

	keys, err := storage.Keys()
	if errors.Is(err, internal.ErrListingUnsupported) {
		internal.LogDebug("Backend cannot list keys, showing indexed keys only")
		keys = []string{sessionsKey, pointerKey}
		for _, session := range store.Sessions() {
			keys = append(keys, session.MessagesKey)
		}
	} else if err != nil {
		return nil, err
	}

	infos := make([]keyInfo, 0, len(keys))
	for _, key := range keys {
		value, found, err := storage.Raw(key)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}

		info := keyInfo{Key: key, Bytes: len(value)}
		switch {
		case key == sessionsKey:
			info.Kind = "index"
		case key == pointerKey:
			info.Kind = "pointer"
		case logKeys[key]:
			info.Kind = "messages"
		default:
			info.Kind = "orphan"
		}
		if inspectValues {
			info.Value = value
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func printKeyTable(out io.Writer, prefix string, infos []keyInfo) {
	fmt.Fprintf(out, "📊 Keys under prefix %q: %d\n\n", prefix, len(infos))
	if len(infos) == 0 {
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tKIND\tBYTES")
	total := 0
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%d\n", info.Key, info.Kind, info.Bytes)
		total += info.Bytes
	}
	_ = w.Flush()
	fmt.Fprintf(out, "\nTotal: %d bytes\n", total)

	if inspectValues {
		for _, info := range infos {
			fmt.Fprintf(out, "\n%s:\n%s\n", info.Key, truncateValue(info.Value, 500))
		}
	}
}

func truncateValue(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit] + fmt.Sprintf("... (%d more bytes)", len(value)-limit)
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "table", "Output format (table, json)")
	inspectCmd.Flags().BoolVar(&inspectValues, "values", false, "Include raw stored values")
}
