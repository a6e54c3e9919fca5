package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stsh89/hermione/internal/domain"
)

func newBackupCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage backup credentials and sync with a backup provider",
	}

	cmd.AddCommand(newBackupCredentialsCmd(opts))
	cmd.AddCommand(newBackupImportCmd(opts))
	cmd.AddCommand(newBackupExportCmd(opts))

	return cmd
}

func newBackupCredentialsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "credentials",
		Aliases: []string{"creds"},
		Short:   "Manage stored backup credentials",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored backup credentials",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			list, err := rt.credentials.List()
			if err != nil {
				return err
			}

			views := make([]credentialsView, 0, len(list))
			for _, creds := range list {
				views = append(views, describeCredentials(creds))
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, views)
			}
			if len(views) == 0 {
				fmt.Fprintln(out, "No backup credentials. Add some with: hermione backup credentials save notion")
				return nil
			}

			w := newTable(out)
			fmt.Fprintln(w, "PROVIDER\tAPI KEY\tWORKSPACES DB\tCOMMANDS DB")
			for _, v := range views {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.Provider, v.APIKey, v.WorkspacesDB, v.CommandsDB)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <provider>",
		Short: "Show stored credentials for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseBackupProviderKind(args[0])
			if err != nil {
				return err
			}

			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			creds, err := rt.credentials.Get(kind)
			if err != nil {
				return err
			}

			v := describeCredentials(creds)
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, v)
			}

			w := newTable(out)
			fmt.Fprintf(w, "Provider:\t%s\n", kind.DisplayName())
			fmt.Fprintf(w, "API key:\t%s\n", v.APIKey)
			fmt.Fprintf(w, "Workspaces database:\t%s\n", v.WorkspacesDB)
			fmt.Fprintf(w, "Commands database:\t%s\n", v.CommandsDB)
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <provider>",
		Short: "Delete stored credentials for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseBackupProviderKind(args[0])
			if err != nil {
				return err
			}

			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.credentials.Delete(kind); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s backup credentials\n", kind.DisplayName())
			return nil
		},
	})

	cmd.AddCommand(newSaveCredentialsCmd(opts))

	return cmd
}

func newSaveCredentialsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Verify and store backup credentials",
	}

	var creds domain.NotionBackupCredentials
	notionCmd := &cobra.Command{
		Use:   "notion",
		Short: "Verify and store Notion credentials",
		Long: `Verify Notion credentials against both databases and store them.

Credentials are only stored when Notion accepts the API key for the
workspaces and the commands database.

Example:
  hermione backup credentials save notion --api-key secret_xxx \
    --workspaces-db 0123abcd --commands-db 4567ef89`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.credentials.Save(cmd.Context(), creds); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s backup credentials\n", creds.Kind().DisplayName())
			return nil
		},
	}
	notionCmd.Flags().StringVar(&creds.APIKey, "api-key", "", "Notion integration token")
	notionCmd.Flags().StringVar(&creds.WorkspacesDatabaseID, "workspaces-db", "", "Notion database id for workspaces")
	notionCmd.Flags().StringVar(&creds.CommandsDatabaseID, "commands-db", "", "Notion database id for commands")
	_ = notionCmd.MarkFlagRequired("api-key")
	_ = notionCmd.MarkFlagRequired("workspaces-db")
	_ = notionCmd.MarkFlagRequired("commands-db")

	cmd.AddCommand(notionCmd)
	return cmd
}

func newBackupImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <provider>",
		Short: "Import every backed up workspace and command into local storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseBackupProviderKind(args[0])
			if err != nil {
				return err
			}

			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			summary, err := rt.importer.Execute(cmd.Context(), kind)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, summary)
			}
			fmt.Fprintf(out, "Imported %d workspaces (%d pages) and %d commands (%d pages) from %s\n",
				summary.Workspaces, summary.WorkspacePages, summary.Commands, summary.CommandPages, kind.DisplayName())
			return nil
		},
	}
}

func newBackupExportCmd(opts *rootOptions) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Push a single workspace or command to a backup provider",
	}
	cmd.PersistentFlags().StringVar(&provider, "provider", string(domain.BackupProviderNotion), "backup provider")

	export := func(entity string, run func(rt *runtime, cmd *cobra.Command, id string, kind domain.BackupProviderKind) error) *cobra.Command {
		return &cobra.Command{
			Use:   entity + " <id>",
			Short: "Push one " + entity,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				kind, err := domain.ParseBackupProviderKind(provider)
				if err != nil {
					return err
				}

				rt, err := openRuntime(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer rt.Close()

				if err := run(rt, cmd, args[0], kind); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s %s to %s\n", entity, args[0], kind.DisplayName())
				return nil
			},
		}
	}

	cmd.AddCommand(export("workspace", func(rt *runtime, cmd *cobra.Command, id string, kind domain.BackupProviderKind) error {
		return rt.exporter.ExportWorkspace(cmd.Context(), id, kind)
	}))
	cmd.AddCommand(export("command", func(rt *runtime, cmd *cobra.Command, id string, kind domain.BackupProviderKind) error {
		return rt.exporter.ExportCommand(cmd.Context(), id, kind)
	}))

	return cmd
}
