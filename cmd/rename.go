package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/chat-session/internal"
	"github.com/spf13/cobra"
)

// renameCmd represents the rename command
var renameCmd = &cobra.Command{
	Use:   "rename <session-id> <title>",
	Short: "Rename a session",
	Args:  cobra.MinimumNArgs(2),
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

		title := strings.Join(args[1:], " ")
		if err := s.store.RenameSession(id, title); err != nil {
			return fmt.Errorf("failed to rename session: %w", err)
		}

		internal.FprintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Renamed %s to %q", id, strings.TrimSpace(title)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
