// Package cli implements the hermione command-line interface.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stsh89/hermione/internal/domain"
	"github.com/stsh89/hermione/internal/logger"
	"github.com/stsh89/hermione/internal/ui"
)

type rootOptions struct {
	cfgFile string
	verbose bool
	jsonOut bool
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "hermione",
		Short: "Workspaces and commands, backed up to Notion",
		Long: `hermione keeps a local catalogue of workspaces and the commands you run in
them, and mirrors that catalogue to a Notion backup.

Quick start:
  hermione backup credentials save notion --api-key ... --workspaces-db ... --commands-db ...
  hermione backup import notion
  hermione workspaces list
  hermione                     Open the terminal UI`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			model := ui.NewModel(ui.Dependencies{
				Credentials: rt.credentials,
				Importer:    rt.importer,
				Exporter:    rt.exporter,
				Store:       rt.store,
			})

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				logger.LogError("TUI", "run", err)
				return fmt.Errorf("run terminal UI: %w", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.hermione/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "mirror logs to stderr")
	cmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "output as JSON")

	cmd.AddCommand(newBackupCmd(opts))
	cmd.AddCommand(newWorkspacesCmd(opts))
	cmd.AddCommand(newCommandsCmd(opts))

	return cmd
}

// Execute runs the CLI and prints any error to stderr.
func Execute() error {
	defer logger.Close()

	if err := NewRootCmd().Execute(); err != nil {
		if kind, ok := domain.KindOf(err); ok {
			logger.LogError("CLI", string(kind), err)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
