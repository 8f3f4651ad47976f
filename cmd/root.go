package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/multinet-app/multinet-go/config"
	"github.com/multinet-app/multinet-go/multinet"
	"github.com/multinet-app/multinet-go/s3upload"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *multinet.Client

	// Global flags
	dryRun     bool
	jsonOutput bool
	urlFlag    string
	tokenFlag  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "multinet",
	Short: "Manage Multinet workspaces, tables and networks",
	Long: `multinet is a command line client for the Multinet graph and table service.

It can list, create and delete workspaces, tables, networks and sessions,
upload CSV and JSON data, and run AQL queries against a workspace.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "show what would change without changing it")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print raw JSON")
	rootCmd.PersistentFlags().StringVar(&urlFlag, "url", "", "Multinet API URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "API token (overrides config)")
}

// initializeApp initializes the configuration and client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Override from command line if specified
	if cmd.Flags().Changed("dry-run") {
		cfg.Safety.DryRun = dryRun
	}
	if urlFlag != "" {
		cfg.Multinet.URL = urlFlag
	}
	if tokenFlag != "" {
		cfg.Multinet.Token = tokenFlag
	}

	client, err = newClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create Multinet client: %w", err)
	}

	return nil
}

func newClient(cfg *config.Config) (*multinet.Client, error) {
	return multinet.NewClient(cfg.Multinet.URL, logger,
		multinet.WithTimeout(cfg.Multinet.Timeout),
		multinet.WithUserAgent("multinet-cli/"+version),
		multinet.WithAuthToken(cfg.Multinet.Token),
		multinet.WithUploadOptions(
			s3upload.WithConcurrency(cfg.Upload.Concurrency),
			s3upload.WithPartRetries(cfg.Upload.PartRetries),
		),
	)
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
