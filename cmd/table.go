package cmd

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/multinet-app/multinet-go/filter"
	"github.com/multinet-app/multinet-go/multinet"
	"github.com/multinet-app/multinet-go/s3upload"
)

var (
	// Table flags
	tableType   string
	rowOffset   int
	rowLimit    int
	outputFile  string
	edgeTable   bool
	columnFlags []string
	delimiter   string
	quoteChar   string
	fileType    string
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Manage tables",
}

var tableListCmd = &cobra.Command{
	Use:   "list WORKSPACE",
	Short: "List tables in a workspace",
	Args:  cobra.ExactArgs(1),
	RunE:  runTableList,
}

var tableRowsCmd = &cobra.Command{
	Use:   "rows WORKSPACE TABLE",
	Short: "Print rows of a table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := client.Table(cmd.Context(), args[0], args[1], multinet.OffsetLimit{Offset: rowOffset, Limit: rowLimit})
		if err != nil {
			return err
		}
		return printRows(page)
	},
}

var tableMetadataCmd = &cobra.Command{
	Use:   "metadata WORKSPACE TABLE",
	Short: "Show the column types of a table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		types, err := client.TableColumnTypes(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(types)
		}
		for _, name := range slices.Sorted(maps.Keys(types)) {
			fmt.Printf("• %-30s %s\n", name, types[name])
		}
		return nil
	},
}

var tableDownloadCmd = &cobra.Command{
	Use:   "download WORKSPACE TABLE",
	Short: "Download a table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := client.DownloadTable(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return writeOutput(data)
	},
}

var tableDeleteCmd = &cobra.Command{
	Use:   "delete WORKSPACE TABLE...",
	Short: "Delete tables",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		workspace, tables := args[0], args[1:]
		if cfg.Safety.DryRun {
			for _, name := range tables {
				logger.Info().Str("workspace", workspace).Str("table", name).Msg("[DRY RUN] Would delete table")
			}
			return nil
		}
		if !confirm(fmt.Sprintf("Delete %d table(s) from %s?", len(tables), workspace)) {
			logger.Info().Msg("Deletion cancelled")
			return nil
		}
		return reportBatch("table", client.DeleteTables(cmd.Context(), workspace, tables))
	},
}

var tableUploadCmd = &cobra.Command{
	Use:   "upload WORKSPACE TABLE FILE",
	Short: "Upload a CSV or JSON file as a new table",
	Args:  cobra.ExactArgs(3),
	RunE:  runTableUpload,
}

var tableAQLCreateCmd = &cobra.Command{
	Use:   "aql-create WORKSPACE TABLE QUERY",
	Short: "Create a table from the result of an AQL query",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Safety.DryRun {
			logger.Info().Str("workspace", args[0]).Str("table", args[1]).Msg("[DRY RUN] Would create table from query")
			return nil
		}
		table, err := client.CreateAQLTable(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(table)
		}
		fmt.Printf("✓ Created table %s\n", table.Name)
		return nil
	},
}

func init() {
	addFilterFlags(tableListCmd)
	tableListCmd.Flags().StringVar(&tableType, "type", "", "only list node or edge tables")

	tableRowsCmd.Flags().IntVar(&rowOffset, "offset", 0, "number of rows to skip")
	tableRowsCmd.Flags().IntVar(&rowLimit, "limit", 0, "maximum number of rows to return")
	tableDownloadCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write to file instead of stdout")
	addConfirmFlags(tableDeleteCmd)

	tableUploadCmd.Flags().BoolVar(&edgeTable, "edge", false, "upload as an edge table")
	tableUploadCmd.Flags().StringArrayVar(&columnFlags, "column", nil, "column type as NAME=TYPE (repeatable)")
	tableUploadCmd.Flags().StringVar(&delimiter, "delimiter", "", "CSV delimiter (detected by the server if empty)")
	tableUploadCmd.Flags().StringVar(&quoteChar, "quotechar", "", "CSV quote character")
	tableUploadCmd.Flags().StringVar(&fileType, "format", "", "csv or json (default from file extension)")

	tableCmd.AddCommand(
		tableListCmd,
		tableRowsCmd,
		tableMetadataCmd,
		tableDownloadCmd,
		tableDeleteCmd,
		tableUploadCmd,
		tableAQLCreateCmd,
	)
	rootCmd.AddCommand(tableCmd)
}

func runTableList(cmd *cobra.Command, args []string) error {
	f, err := getFilter()
	if err != nil {
		return err
	}

	page, err := client.Tables(cmd.Context(), args[0], multinet.TablesOptions{Type: multinet.TableType(tableType)})
	if err != nil {
		return err
	}

	tables := filter.Apply(f, page.Results, filter.ForTable)
	if jsonOutput {
		return printJSON(tables)
	}

	if len(tables) == 0 {
		fmt.Println("No tables found.")
		return nil
	}

	printHeader("Found %d tables in %s:", len(tables), args[0])
	for _, t := range tables {
		kind := "node"
		if t.Edge {
			kind = "edge"
		}
		fmt.Printf("• %s (%s)\n", t.Name, kind)
		fmt.Printf("  Created: %s  Modified: %s\n", formatDate(t.Created), formatDate(t.Modified))
	}
	return nil
}

func runTableUpload(cmd *cobra.Command, args []string) error {
	workspace, table, path := args[0], args[1], args[2]

	columns, err := parseColumns(columnFlags)
	if err != nil {
		return err
	}

	format := multinet.FileType(strings.ToLower(fileType))
	if format == "" {
		format = fileTypeFromPath(path)
	}

	if cfg.Safety.DryRun {
		logger.Info().
			Str("workspace", workspace).
			Str("table", table).
			Str("file", path).
			Str("format", string(format)).
			Msg("[DRY RUN] Would upload table")
		return nil
	}

	data, err := s3upload.OpenFile(path)
	if err != nil {
		return err
	}
	defer data.Close()

	upload, err := client.UploadTable(cmd.Context(), workspace, table, multinet.UploadTableOptions{
		Data:        data,
		EdgeTable:   edgeTable,
		ColumnTypes: columns,
		FileType:    format,
		Delimiter:   delimiter,
		QuoteChar:   quoteChar,
	})
	if err != nil {
		return err
	}
	return printUpload(upload)
}

// parseColumns turns NAME=TYPE flags into column types
func parseColumns(flags []string) (multinet.ColumnTypes, error) {
	columns := make(multinet.ColumnTypes, len(flags))
	for _, flag := range flags {
		name, typ, ok := strings.Cut(flag, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid column %q, expected NAME=TYPE", flag)
		}
		ct := multinet.ColumnType(typ)
		if !ct.Valid() {
			return nil, fmt.Errorf("invalid column type %q for %s", typ, name)
		}
		columns[name] = ct
	}
	return columns, nil
}

func fileTypeFromPath(path string) multinet.FileType {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return multinet.FileTypeJSON
	}
	return multinet.FileTypeCSV
}

func printRows(page *multinet.Paginated[multinet.TableRow]) error {
	if jsonOutput {
		return printJSON(page)
	}

	printHeader("Showing %d of %d rows:", len(page.Results), page.Count)
	for _, row := range page.Results {
		line, err := json.Marshal(row)
		if err != nil {
			return err
		}
		fmt.Println(string(line))
	}
	if page.HasNext() {
		fmt.Println("… more rows available, use --offset and --limit to page")
	}
	return nil
}

func printUpload(upload *multinet.Upload) error {
	if jsonOutput {
		return printJSON(upload)
	}
	fmt.Printf("✓ Upload %d accepted (status %s)\n", upload.ID, upload.Status)
	return nil
}

// writeOutput writes downloaded data to --output or stdout
func writeOutput(data []byte) error {
	if outputFile == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputFile, err)
	}
	logger.Info().Str("file", outputFile).Int("bytes", len(data)).Msg("Download saved")
	return nil
}
