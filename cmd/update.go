package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"

	checkOnly bool
)

// SetVersion records the build information injected by main
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	// No config or client needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("multinet %s (built %s)\n", version, buildTime)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update multinet to the latest release",
	Long: `Check GitHub releases for a newer version of multinet and replace the
running binary with it. The repository is read from update.repository.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether an update is available")
	rootCmd.AddCommand(versionCmd, updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	current, err := semver.ParseTolerant(version)
	if err != nil {
		return fmt.Errorf("cannot update a development build (version %q)", version)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(cfg.Update.Repository))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", cfg.Update.Repository)
	}

	if latest.LessOrEqual(current.String()) {
		fmt.Printf("✓ multinet %s is up to date\n", current)
		return nil
	}

	fmt.Printf("New version available: %s (current %s)\n", latest.Version(), current)
	if checkOnly {
		return nil
	}
	if cfg.Safety.DryRun {
		logger.Info().Str("version", latest.Version()).Msg("[DRY RUN] Would update binary")
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	logger.Info().Str("version", latest.Version()).Str("path", exe).Msg("Updated multinet")
	fmt.Printf("✓ Updated to %s\n", latest.Version())
	return nil
}
