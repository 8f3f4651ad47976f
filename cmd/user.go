package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the connection to the Multinet server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Testing connection to %s...\n", client.BaseURL())
		if err := client.TestConnection(cmd.Context()); err != nil {
			fmt.Println("✗ Connection failed")
			return err
		}
		fmt.Println("✓ Connection successful")

		if !client.HasAuthToken() {
			fmt.Println("  No API token configured, only public workspaces are visible")
			return nil
		}

		user, err := client.Me(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("  Authenticated as %s\n", user.GetDisplayName())
		return nil
	},
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the user the configured token belongs to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := client.Me(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(user)
		}
		fmt.Printf("%s <%s>\n", user.GetDisplayName(), user.Email)
		fmt.Printf("  Username: %s\n", user.Username)
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Look up users",
}

var usersSearchCmd = &cobra.Command{
	Use:   "search USERNAME",
	Short: "Search users by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := client.SearchUsers(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(users)
		}
		if len(users) == 0 {
			fmt.Println("No users found.")
			return nil
		}
		for _, u := range users {
			fmt.Printf("• %s (%s)\n", u.Username, u.GetDisplayName())
		}
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersSearchCmd)
	rootCmd.AddCommand(testCmd, meCmd, usersCmd)
}
