package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

var askSession string

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Ask a single question",
	Long: `Run one query through the assistant and print the reply.

With the memory session backend each invocation starts a fresh conversation;
use SESSION_BACKEND=redis or postgres to continue one across runs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := buildApp(ctx, "")
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.assistant.Handle(ctx, contractx.QueryRequest{
			Query:     strings.Join(args, " "),
			SessionID: askSession,
		})
		if err != nil {
			return err
		}
		renderResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askSession, "session", "s", contractx.DefaultSessionID, "session id")
	rootCmd.AddCommand(askCmd)
}
