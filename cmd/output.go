package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/multinet-app/multinet-go/filter"
	"github.com/multinet-app/multinet-go/multinet"
)

var (
	// List flags
	filterExpr string
	preset     string

	// Delete flags
	noConfirm bool
)

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
}

func addConfirmFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")
}

// getFilter compiles the filter to apply to a listing. It returns nil when
// neither --filter nor --preset was given.
func getFilter() (*filter.Filter, error) {
	// Priority: command line filter > preset
	expr := filterExpr
	if expr == "" && preset != "" {
		presetExpr, ok := cfg.Filter.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("preset '%s' not found in config", preset)
		}
		expr = presetExpr
	}

	if expr == "" {
		return nil, nil
	}

	f, err := filter.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	logger.Debug().Str("filter", f.String()).Msg("Filtering results")
	return f, nil
}

// printJSON writes v to stdout as indented JSON
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printHeader(format string, args ...any) {
	fmt.Printf("\n"+format+"\n", args...)
	fmt.Println(strings.Repeat("-", 80))
}

// confirm asks before a destructive action unless confirmation is disabled
func confirm(prompt string) bool {
	if !cfg.Safety.ConfirmDelete || noConfirm {
		return true
	}

	fmt.Printf("%s [y/N]: ", prompt)
	var response string
	fmt.Scanln(&response)
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}

// reportBatch prints the outcome of a batch delete and returns an error if
// anything failed.
func reportBatch(kind string, result multinet.BatchDeleteResult) error {
	for _, name := range result.Successful {
		fmt.Printf("✓ Deleted %s %s\n", kind, name)
	}
	for _, failure := range result.Failed {
		fmt.Printf("✗ %v\n", failure)
	}

	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d deletions failed", len(result.Failed), result.Requested)
	}
	return nil
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
