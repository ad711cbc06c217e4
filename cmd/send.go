package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/chat-session/internal"
	"github.com/spf13/cobra"
)

var (
	sendAssistant bool
	sendJSON      bool
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <text>",
	Short: "Append a message to the current session",
	Long: `Append a message to the current session. Messages are from the user unless
--assistant is set. With --json the argument is a raw message object such as
{"text":"hi","isUser":true}; text and isUser are required.

The first user message of an empty session becomes its title.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(true)
		if err != nil {
			return err
		}
		defer s.Close()

		if sendJSON {
			err = s.store.AppendRawMessage([]byte(strings.Join(args, " ")))
		} else {
			err = s.store.AppendMessage(internal.Message{
				Text:   strings.Join(args, " "),
				IsUser: !sendAssistant,
			})
		}
		if err != nil {
			return fmt.Errorf("failed to append message: %w", err)
		}

		current, _ := s.store.CurrentSession()
		internal.FprintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Added to %s (%s)", current.Title, current.ID))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().BoolVar(&sendAssistant, "assistant", false, "Record the message as an assistant reply")
	sendCmd.Flags().BoolVar(&sendJSON, "json", false, "Treat the argument as a raw JSON message")
}
