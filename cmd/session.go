package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/multinet-app/multinet-go/filter"
	"github.com/multinet-app/multinet-go/multinet"
)

var (
	// Session flags
	sessionType      string
	sessionState     string
	sessionStateFile string
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage saved visualization sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list WORKSPACE",
	Short: "List sessions in a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := getFilter()
		if err != nil {
			return err
		}

		page, err := client.ListSessions(cmd.Context(), args[0], multinet.SessionType(sessionType))
		if err != nil {
			return err
		}

		sessions := filter.Apply(f, page.Results, filter.ForSession)
		if jsonOutput {
			return printJSON(sessions)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		printHeader("Found %d %s sessions in %s:", len(sessions), sessionType, args[0])
		for _, s := range sessions {
			printSession(s)
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show WORKSPACE ID",
	Short: "Show a session and its state",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseSessionID(args[1])
		if err != nil {
			return err
		}

		session, err := client.GetSession(cmd.Context(), args[0], multinet.SessionType(sessionType), id)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(session)
		}
		printSession(*session)
		fmt.Printf("  State: %s\n", session.State)
		return nil
	},
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create WORKSPACE ITEM_ID NAME",
	Short: "Create a session for a table or network",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid item id %q: %w", args[1], err)
		}

		state, err := readSessionState()
		if err != nil {
			return err
		}

		if cfg.Safety.DryRun {
			logger.Info().Str("workspace", args[0]).Str("session", args[2]).Msg("[DRY RUN] Would create session")
			return nil
		}

		session, err := client.CreateSession(cmd.Context(), args[0], multinet.SessionType(sessionType), itemID, args[2], state)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(session)
		}
		fmt.Printf("✓ Created session %d (%s)\n", session.ID, session.Name)
		return nil
	},
}

var sessionUpdateCmd = &cobra.Command{
	Use:   "update WORKSPACE ID",
	Short: "Replace the state of a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseSessionID(args[1])
		if err != nil {
			return err
		}

		state, err := readSessionState()
		if err != nil {
			return err
		}
		if len(state) == 0 {
			return fmt.Errorf("one of --state or --state-file is required")
		}

		if cfg.Safety.DryRun {
			logger.Info().Str("workspace", args[0]).Int("session", id).Msg("[DRY RUN] Would update session")
			return nil
		}

		session, err := client.UpdateSession(cmd.Context(), args[0], multinet.SessionType(sessionType), id, state)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(session)
		}
		fmt.Printf("✓ Updated session %d\n", session.ID)
		return nil
	},
}

var sessionRenameCmd = &cobra.Command{
	Use:   "rename WORKSPACE ID NEW_NAME",
	Short: "Rename a session",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseSessionID(args[1])
		if err != nil {
			return err
		}

		if cfg.Safety.DryRun {
			logger.Info().Str("workspace", args[0]).Int("session", id).Str("name", args[2]).Msg("[DRY RUN] Would rename session")
			return nil
		}

		session, err := client.RenameSession(cmd.Context(), args[0], multinet.SessionType(sessionType), id, args[2])
		if err != nil {
			return err
		}
		fmt.Printf("✓ Renamed session %d to %s\n", session.ID, session.Name)
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete WORKSPACE ID",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseSessionID(args[1])
		if err != nil {
			return err
		}

		if cfg.Safety.DryRun {
			logger.Info().Str("workspace", args[0]).Int("session", id).Msg("[DRY RUN] Would delete session")
			return nil
		}
		if !confirm(fmt.Sprintf("Delete %s session %d?", sessionType, id)) {
			logger.Info().Msg("Deletion cancelled")
			return nil
		}

		if err := client.DeleteSession(cmd.Context(), args[0], multinet.SessionType(sessionType), id); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted session %d\n", id)
		return nil
	},
}

func init() {
	sessionCmd.PersistentFlags().StringVarP(&sessionType, "type", "t", string(multinet.SessionTypeNetwork), "session type: network or table")

	addFilterFlags(sessionListCmd)
	for _, c := range []*cobra.Command{sessionCreateCmd, sessionUpdateCmd} {
		c.Flags().StringVar(&sessionState, "state", "", "session state as inline JSON")
		c.Flags().StringVar(&sessionStateFile, "state-file", "", "read session state from a JSON file")
		c.MarkFlagsMutuallyExclusive("state", "state-file")
	}
	addConfirmFlags(sessionDeleteCmd)

	sessionCmd.AddCommand(
		sessionListCmd,
		sessionShowCmd,
		sessionCreateCmd,
		sessionUpdateCmd,
		sessionRenameCmd,
		sessionDeleteCmd,
	)
	rootCmd.AddCommand(sessionCmd)
}

func parseSessionID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid session id %q: %w", arg, err)
	}
	return id, nil
}

// readSessionState returns the state given by --state or --state-file, or
// nil when neither is set.
func readSessionState() (json.RawMessage, error) {
	raw := []byte(sessionState)
	if sessionStateFile != "" {
		data, err := os.ReadFile(sessionStateFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read session state: %w", err)
		}
		raw = data
	}

	if len(raw) == 0 {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("session state is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

func printSession(s multinet.Session) {
	fmt.Printf("• %d %s", s.ID, s.Name)
	if s.Starred {
		fmt.Printf(" ★")
	}
	fmt.Println()
	fmt.Printf("  Created: %s  Modified: %s\n", formatDate(s.Created), formatDate(s.Modified))
}
