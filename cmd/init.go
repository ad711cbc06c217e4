package cmd

import (
	"fmt"

	"github.com/iksnae/chat-session/internal"
	"github.com/spf13/cobra"
)

var (
	migrateLegacy bool
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the store and resolve the current session",
	Long: `Initialize the session store. An empty store gets a default session; a
stale current-session pointer is repaired.

With --migrate-legacy, a history saved by older versions as a single list
(chatHistory or calculatorHistory, depending on --mode) is moved into a new
session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Migrate before initializing so an empty store does not get a
		// default session next to the migrated one
		s, err := openStore(false)
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()

		if migrateLegacy {
			legacyKey := s.config.LegacyKey()
			if legacyKey == "" {
				return fmt.Errorf("no legacy history key for mode %q", s.config.Mode)
			}
			id, migrated, err := s.store.MigrateLegacyHistory(legacyKey)
			if err != nil {
				return fmt.Errorf("failed to migrate legacy history: %w", err)
			}
			if migrated {
				internal.FprintSuccess(out, fmt.Sprintf("Migrated legacy history from %s into session %s", legacyKey, id))
			} else {
				internal.FprintInfo(out, fmt.Sprintf("No legacy history found under %s", legacyKey))
			}
		}

		if err := s.store.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize session store: %w", err)
		}

		current, ok := s.store.CurrentSession()
		if !ok {
			return internal.ErrNoCurrentSession
		}
		internal.FprintSuccess(out, fmt.Sprintf("Current session: %s (%s)", current.Title, current.ID))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&migrateLegacy, "migrate-legacy", false, "Import history saved by versions without sessions")
}
