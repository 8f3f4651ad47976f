package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/multinet-app/multinet-go/multinet"
)

var (
	bindFlags []string
	queryFile string
)

var aqlCmd = &cobra.Command{
	Use:   "aql WORKSPACE [QUERY]",
	Short: "Run an AQL query in a workspace",
	Long: `Run an AQL query in a workspace and print the result documents.

Bind variables are passed with --bind NAME=VALUE. A VALUE that parses as
JSON is sent as that JSON value, anything else is sent as a string.

Examples:
  multinet aql cities 'FOR c IN airports FILTER c.code == @code RETURN c' --bind code=BOS
  multinet aql cities --file query.aql --bind limit=10`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAQL,
}

func init() {
	aqlCmd.Flags().StringArrayVar(&bindFlags, "bind", nil, "bind variable as NAME=VALUE (repeatable)")
	aqlCmd.Flags().StringVar(&queryFile, "file", "", "read the query from a file")
	rootCmd.AddCommand(aqlCmd)
}

func runAQL(cmd *cobra.Command, args []string) error {
	query, err := readQuery(args[1:])
	if err != nil {
		return err
	}

	bindVars, err := parseBindVars(bindFlags)
	if err != nil {
		return err
	}

	docs, err := client.AQL(cmd.Context(), args[0], multinet.AQLQuery{Query: query, BindVars: bindVars})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(docs)
	}
	for _, doc := range docs {
		fmt.Println(string(doc))
	}
	logger.Debug().Int("results", len(docs)).Msg("Query finished")
	return nil
}

func readQuery(args []string) (string, error) {
	if queryFile != "" {
		data, err := os.ReadFile(queryFile)
		if err != nil {
			return "", fmt.Errorf("failed to read query: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("a query argument or --file is required")
	}
	return args[0], nil
}

// parseBindVars turns NAME=VALUE flags into bind variables
func parseBindVars(flags []string) (map[string]any, error) {
	if len(flags) == 0 {
		return nil, nil
	}

	vars := make(map[string]any, len(flags))
	for _, flag := range flags {
		name, raw, ok := strings.Cut(flag, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid bind variable %q, expected NAME=VALUE", flag)
		}

		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		vars[name] = value
	}
	return vars, nil
}
