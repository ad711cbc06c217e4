package cmd

import (
	"fmt"

	"github.com/iksnae/chat-session/internal"
	"github.com/spf13/cobra"
)

// switchCmd represents the switch command
var switchCmd = &cobra.Command{
	Use:   "switch <session-id>",
	Short: "Make a session current and show its history",
	Long: `Make a session current. The session moves to the top of the list and its
history is displayed. An unambiguous id prefix is accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(true)
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := resolveSessionID(s.store, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		s.store.OnResync(func(current internal.Session) {
			messages, err := s.store.History(current.ID)
			if err != nil {
				internal.LogWarn("Failed to load history of %s: %v", current.ID, err)
				return
			}
			displayTranscript(out, &internal.Transcript{Session: current, Messages: messages}, historyOptions{})
		})

		if err := s.store.SwitchSession(id); err != nil {
			return fmt.Errorf("failed to switch session: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(switchCmd)
}
