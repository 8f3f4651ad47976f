package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/multinet-app/multinet-go/filter"
	"github.com/multinet-app/multinet-go/multinet"
)

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Manage workspaces",
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces",
	Args:  cobra.NoArgs,
	RunE:  runWorkspaceList,
}

var workspaceShowCmd = &cobra.Command{
	Use:   "show WORKSPACE",
	Short: "Show a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := client.Workspace(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(ws)
		}
		printWorkspace(*ws)
		return nil
	},
}

var workspaceCreateCmd = &cobra.Command{
	Use:   "create WORKSPACE",
	Short: "Create a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Safety.DryRun {
			logger.Info().Str("workspace", args[0]).Msg("[DRY RUN] Would create workspace")
			return nil
		}
		ws, err := client.CreateWorkspace(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(ws)
		}
		fmt.Printf("✓ Created workspace %s\n", ws.Name)
		return nil
	},
}

var workspaceDeleteCmd = &cobra.Command{
	Use:   "delete WORKSPACE...",
	Short: "Delete workspaces and everything in them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Safety.DryRun {
			for _, name := range args {
				logger.Info().Str("workspace", name).Msg("[DRY RUN] Would delete workspace")
			}
			return nil
		}
		if !confirm(fmt.Sprintf("Delete %d workspace(s) and all their tables and networks?", len(args))) {
			logger.Info().Msg("Deletion cancelled")
			return nil
		}
		return reportBatch("workspace", client.DeleteWorkspaces(cmd.Context(), args))
	},
}

var workspaceRenameCmd = &cobra.Command{
	Use:   "rename WORKSPACE NEW_NAME",
	Short: "Rename a workspace",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Safety.DryRun {
			logger.Info().Str("workspace", args[0]).Str("name", args[1]).Msg("[DRY RUN] Would rename workspace")
			return nil
		}
		ws, err := client.RenameWorkspace(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("✓ Renamed workspace %s to %s\n", args[0], ws.Name)
		return nil
	},
}

var workspaceStarCmd = &cobra.Command{
	Use:   "star WORKSPACE",
	Short: "Star a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return client.StarWorkspace(cmd.Context(), args[0])
	},
}

var workspaceUnstarCmd = &cobra.Command{
	Use:   "unstar WORKSPACE",
	Short: "Remove the star from a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return client.UnstarWorkspace(cmd.Context(), args[0])
	},
}

var permissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "Read or replace workspace permissions",
}

var permissionsGetCmd = &cobra.Command{
	Use:   "get WORKSPACE",
	Short: "Show who can access a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		perms, err := client.GetWorkspacePermissions(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(perms)
		}
		printPermissions(perms)
		return nil
	},
}

var permissionsFile string

var permissionsSetCmd = &cobra.Command{
	Use:   "set WORKSPACE --file PERMISSIONS.json",
	Short: "Replace workspace permissions from a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(permissionsFile)
		if err != nil {
			return fmt.Errorf("failed to read permissions: %w", err)
		}

		var perms multinet.WorkspacePermissions
		if err := json.Unmarshal(data, &perms); err != nil {
			return fmt.Errorf("failed to parse permissions: %w", err)
		}

		if cfg.Safety.DryRun {
			logger.Info().Str("workspace", args[0]).Msg("[DRY RUN] Would replace permissions")
			return nil
		}

		updated, err := client.SetWorkspacePermissions(cmd.Context(), args[0], perms)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(updated)
		}
		printPermissions(updated)
		return nil
	},
}

func init() {
	addFilterFlags(workspaceListCmd)
	addConfirmFlags(workspaceDeleteCmd)
	permissionsSetCmd.Flags().StringVar(&permissionsFile, "file", "", "JSON permissions document")
	_ = permissionsSetCmd.MarkFlagRequired("file")

	permissionsCmd.AddCommand(permissionsGetCmd, permissionsSetCmd)
	workspaceCmd.AddCommand(
		workspaceListCmd,
		workspaceShowCmd,
		workspaceCreateCmd,
		workspaceDeleteCmd,
		workspaceRenameCmd,
		workspaceStarCmd,
		workspaceUnstarCmd,
		permissionsCmd,
	)
	rootCmd.AddCommand(workspaceCmd)
}

func runWorkspaceList(cmd *cobra.Command, args []string) error {
	f, err := getFilter()
	if err != nil {
		return err
	}

	page, err := client.Workspaces(cmd.Context())
	if err != nil {
		return err
	}

	workspaces := filter.Apply(f, page.Results, filter.ForWorkspace)
	if jsonOutput {
		return printJSON(workspaces)
	}

	if len(workspaces) == 0 {
		fmt.Println("No workspaces found.")
		return nil
	}

	printHeader("Found %d workspaces:", len(workspaces))
	for _, ws := range workspaces {
		printWorkspace(ws)
	}
	return nil
}

func printWorkspace(ws multinet.Workspace) {
	fmt.Printf("• %s", ws.Name)
	if ws.Public {
		fmt.Printf(" [PUBLIC]")
	}
	if ws.Starred {
		fmt.Printf(" ★")
	}
	fmt.Println()
	fmt.Printf("  Created: %s  Modified: %s\n", formatDate(ws.Created), formatDate(ws.Modified))
}

func printPermissions(perms *multinet.WorkspacePermissions) {
	if perms.Owner != nil {
		fmt.Printf("Owner:       %s\n", perms.Owner.GetDisplayName())
	}
	printUsers("Maintainers:", perms.Maintainers)
	printUsers("Writers:", perms.Writers)
	printUsers("Readers:", perms.Readers)
	fmt.Printf("Public:      %t\n", perms.Public)
}

func printUsers(label string, users []multinet.User) {
	fmt.Printf("%-12s ", label)
	if len(users) == 0 {
		fmt.Println("-")
		return
	}
	for i, u := range users {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Print(u.Username)
	}
	fmt.Println()
}
