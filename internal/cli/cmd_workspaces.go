package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newWorkspacesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspaces",
		Aliases: []string{"ws"},
		Short:   "Manage local workspaces",
	}

	var location string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			workspace, err := rt.store.CreateWorkspace(cmd.Context(), args[0], location)
			if err != nil {
				return err
			}

			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), workspace)
			}
			fmt.Fprintln(cmd.OutOrStdout(), workspace.ID)
			return nil
		},
	}
	add.Flags().StringVar(&location, "location", "", "directory the workspace lives in")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List workspaces",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			workspaces, err := rt.store.ListWorkspaces(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, workspaces)
			}
			if len(workspaces) == 0 {
				fmt.Fprintln(out, "No workspaces found. Create one with: hermione workspaces add <name>")
				return nil
			}

			w := newTable(out)
			fmt.Fprintln(w, "ID\tNAME\tLOCATION")
			for _, ws := range workspaces {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ws.ID, truncate(ws.Name, 40), ws.Location)
			}
			return w.Flush()
		},
	})

	return cmd
}

func newCommandsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "commands",
		Aliases: []string{"cmds"},
		Short:   "Manage commands of a workspace",
	}

	var workspaceID string

	add := &cobra.Command{
		Use:   "add <name> <program>",
		Short: "Create a command in a workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			command, err := rt.store.CreateCommand(cmd.Context(), workspaceID, args[0], args[1])
			if err != nil {
				return err
			}

			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), command)
			}
			fmt.Fprintln(cmd.OutOrStdout(), command.ID)
			return nil
		},
	}
	add.Flags().StringVarP(&workspaceID, "workspace", "w", "", "workspace id")
	_ = add.MarkFlagRequired("workspace")
	cmd.AddCommand(add)

	var filter string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List commands",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			commands, err := rt.store.ListCommands(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, commands)
			}
			if len(commands) == 0 {
				fmt.Fprintln(out, "No commands found.")
				return nil
			}

			w := newTable(out)
			fmt.Fprintln(w, "ID\tWORKSPACE\tNAME\tPROGRAM\tLAST RUN")
			for _, c := range commands {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.WorkspaceID, truncate(c.Name, 30), truncate(c.Program, 50), formatLastExecute(c.LastExecuteTime))
			}
			return w.Flush()
		},
	}
	list.Flags().StringVarP(&filter, "workspace", "w", "", "only commands of this workspace")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "touch <id>",
		Short: "Record that a command was just run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.store.TouchCommand(cmd.Context(), args[0], time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Touched %s\n", args[0])
			return nil
		},
	})

	return cmd
}
