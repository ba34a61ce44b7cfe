package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	statex "github.com/tanpawarit/chative-shop-assistant/agent/state"
	configx "github.com/tanpawarit/chative-shop-assistant/pkg/config"
	"gopkg.in/yaml.v3"
)

var (
	historyFormat string
	historyOutput string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect stored conversations",
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print a session's recent turns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		turns, err := loadHistory(args[0], historyLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(turns) == 0 {
			fmt.Fprintln(out, idStyle.Render("no turns recorded"))
			return nil
		}
		for _, turn := range turns {
			label := roleStyles[turn.Role].Render(string(turn.Role))
			fmt.Fprintf(out, "%s %s\n", label, idStyle.Render(turn.Timestamp.Format("2006-01-02 15:04:05")))
			fmt.Fprintln(out, replyStyle.Render(turn.Content))
		}
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session's turns as yaml or json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		turns, err := loadHistory(args[0], historyLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if historyOutput != "" {
			f, err := os.Create(historyOutput)
			if err != nil {
				return fmt.Errorf("create %s: %w", historyOutput, err)
			}
			defer f.Close()
			out = f
		}
		return writeHistory(out, historyFormat, args[0], turns)
	},
}

type historyExport struct {
	SessionID string           `json:"session_id" yaml:"session_id"`
	History   []contractx.Turn `json:"history" yaml:"history"`
}

func writeHistory(w io.Writer, format, sessionID string, turns []contractx.Turn) error {
	doc := historyExport{SessionID: sessionID, History: turns}
	if doc.History == nil {
		doc.History = []contractx.Turn{}
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml", "yml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: unsupported format %q", contractx.ErrValidation, format)
	}
}

func loadHistory(sessionID string, limit int) ([]contractx.Turn, error) {
	ctx := context.Background()
	sessionCfg, err := configx.New[statex.Config]("SESSION")
	if err != nil {
		return nil, fmt.Errorf("load session config: %w", err)
	}
	store, err := openStore(ctx, sessionCfg.Backend)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.History(ctx, statex.NormalizeSessionID(sessionID), limit)
}

func init() {
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", statex.MaxTurns, "number of recent turns")
	historyExportCmd.Flags().StringVarP(&historyFormat, "format", "f", "yaml", "output format: yaml or json")
	historyExportCmd.Flags().StringVarP(&historyOutput, "output", "o", "", "write to file instead of stdout")

	historyCmd.AddCommand(historyShowCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
