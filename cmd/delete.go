package cmd

import (
	"fmt"

	"github.com/iksnae/chat-session/internal"
	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its messages",
	Long: `Delete a session and its messages. Deleting the current session makes the
most recently used remaining session current, or creates a new default session
when none remain.`,
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
			internal.FprintInfo(out, fmt.Sprintf("Current session is now %s (%s)", current.Title, current.ID))
		})

		if err := s.store.DeleteSession(id); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		internal.FprintSuccess(out, fmt.Sprintf("Deleted session %s", id))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
