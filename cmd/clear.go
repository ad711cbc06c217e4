package cmd

import (
	"fmt"

	"github.com/iksnae/chat-session/internal"
	"github.com/spf13/cobra"
)

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all messages of the current session",
	Long:  `Delete all messages of the current session. The session and its title are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(true)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.store.ClearHistory(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}

		current, _ := s.store.CurrentSession()
		internal.FprintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Cleared history of %s", current.ID))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
