package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/chat-session/internal"
	"github.com/spf13/cobra"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a session and make it current",
	Long: `Create a new session at the top of the list and make it current.

Without a title the session is named after the default title until its first
user message. When the store already holds the maximum number of sessions,
the least recently used one is deleted together with its messages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(false)
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := s.store.CreateSession(strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		internal.FprintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Created session %s", id))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
