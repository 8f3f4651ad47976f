package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multinet-app/multinet-go/filter"
	"github.com/multinet-app/multinet-go/multinet"
	"github.com/multinet-app/multinet-go/s3upload"
)

var (
	// Network flags
	direction         string
	networkEdgeTable  string
	nodeColumnFlags   []string
	edgeColumnFlags   []string
	networkTablesType string
)

var networkCmd = &cobra.Command{
	Use:     "network",
	Aliases: []string{"net"},
	Short:   "Manage networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list WORKSPACE",
	Short: "List networks in a workspace",
	Args:  cobra.ExactArgs(1),
	RunE:  runNetworkList,
}

var networkShowCmd = &cobra.Command{
	Use:   "show WORKSPACE NETWORK",
	Short: "Show a network and the tables it is built from",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := client.Network(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(spec)
		}

		printNetwork(spec.Network)
		fmt.Printf("  Edge table:  %s\n", spec.EdgeTable)
		for _, t := range spec.NodeTables {
			fmt.Printf("  Node table:  %s\n", t)
		}
		return nil
	},
}

var networkNodesCmd = &cobra.Command{
	Use:   "nodes WORKSPACE NETWORK",
	Short: "Print nodes of a network",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := client.Nodes(cmd.Context(), args[0], args[1], multinet.OffsetLimit{Offset: rowOffset, Limit: rowLimit})
		if err != nil {
			return err
		}
		return printRows(page)
	},
}

var networkEdgesCmd = &cobra.Command{
	Use:   "edges WORKSPACE NETWORK",
	Short: "Print edges of a network",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := multinet.EdgesOptions{
			OffsetLimit: multinet.OffsetLimit{Offset: rowOffset, Limit: rowLimit},
			Direction:   multinet.Direction(direction),
		}
		page, err := client.Edges(cmd.Context(), args[0], args[1], opts)
		if err != nil {
			return err
		}
		return printRows(page)
	},
}

var networkTablesCmd = &cobra.Command{
	Use:   "tables WORKSPACE NETWORK",
	Short: "List the tables a network is built from",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := client.NetworkTables(cmd.Context(), args[0], args[1], multinet.TablesOptions{Type: multinet.TableType(networkTablesType)})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(tables)
		}
		for _, t := range tables {
			kind := "node"
			if t.Edge {
				kind = "edge"
			}
			fmt.Printf("• %s (%s)\n", t.Name, kind)
		}
		return nil
	},
}

var networkCreateCmd = &cobra.Command{
	Use:   "create WORKSPACE NETWORK --edge-table TABLE",
	Short: "Create a network from an edge table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Safety.DryRun {
			logger.Info().
				Str("workspace", args[0]).
				Str("network", args[1]).
				Str("edge_table", networkEdgeTable).
				Msg("[DRY RUN] Would create network")
			return nil
		}
		network, err := client.CreateNetwork(cmd.Context(), args[0], args[1], multinet.CreateNetworkOptions{EdgeTable: networkEdgeTable})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(network)
		}
		fmt.Printf("✓ Created network %s\n", network.Name)
		return nil
	},
}

var networkDeleteCmd = &cobra.Command{
	Use:   "delete WORKSPACE NETWORK...",
	Short: "Delete networks (their tables are kept)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		workspace, networks := args[0], args[1:]
		if cfg.Safety.DryRun {
			for _, name := range networks {
				logger.Info().Str("workspace", workspace).Str("network", name).Msg("[DRY RUN] Would delete network")
			}
			return nil
		}
		if !confirm(fmt.Sprintf("Delete %d network(s) from %s?", len(networks), workspace)) {
			logger.Info().Msg("Deletion cancelled")
			return nil
		}
		return reportBatch("network", client.DeleteNetworks(cmd.Context(), workspace, networks))
	},
}

var networkDownloadCmd = &cobra.Command{
	Use:   "download WORKSPACE NETWORK",
	Short: "Download a network",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := client.DownloadNetwork(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return writeOutput(data)
	},
}

var networkUploadCmd = &cobra.Command{
	Use:   "upload WORKSPACE NETWORK FILE",
	Short: "Upload a JSON network document",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		workspace, network, path := args[0], args[1], args[2]

		nodeColumns, err := parseColumns(nodeColumnFlags)
		if err != nil {
			return err
		}
		edgeColumns, err := parseColumns(edgeColumnFlags)
		if err != nil {
			return err
		}

		if cfg.Safety.DryRun {
			logger.Info().
				Str("workspace", workspace).
				Str("network", network).
				Str("file", path).
				Msg("[DRY RUN] Would upload network")
			return nil
		}

		data, err := s3upload.OpenFile(path)
		if err != nil {
			return err
		}
		defer data.Close()

		upload, err := client.UploadNetwork(cmd.Context(), workspace, network, data, nodeColumns, edgeColumns)
		if err != nil {
			return err
		}
		return printUpload(upload)
	},
}

func init() {
	addFilterFlags(networkListCmd)

	for _, c := range []*cobra.Command{networkNodesCmd, networkEdgesCmd} {
		c.Flags().IntVar(&rowOffset, "offset", 0, "number of rows to skip")
		c.Flags().IntVar(&rowLimit, "limit", 0, "maximum number of rows to return")
	}
	networkEdgesCmd.Flags().StringVar(&direction, "direction", "", "all, incoming or outgoing")
	networkTablesCmd.Flags().StringVar(&networkTablesType, "type", "", "only list node or edge tables")

	networkCreateCmd.Flags().StringVar(&networkEdgeTable, "edge-table", "", "edge table the network is built from")
	_ = networkCreateCmd.MarkFlagRequired("edge-table")

	addConfirmFlags(networkDeleteCmd)
	networkDownloadCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write to file instead of stdout")

	networkUploadCmd.Flags().StringArrayVar(&nodeColumnFlags, "node-column", nil, "node column type as NAME=TYPE (repeatable)")
	networkUploadCmd.Flags().StringArrayVar(&edgeColumnFlags, "edge-column", nil, "edge column type as NAME=TYPE (repeatable)")

	networkCmd.AddCommand(
		networkListCmd,
		networkShowCmd,
		networkNodesCmd,
		networkEdgesCmd,
		networkTablesCmd,
		networkCreateCmd,
		networkDeleteCmd,
		networkDownloadCmd,
		networkUploadCmd,
	)
	rootCmd.AddCommand(networkCmd)
}

func runNetworkList(cmd *cobra.Command, args []string) error {
	f, err := getFilter()
	if err != nil {
		return err
	}

	page, err := client.Networks(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	networks := filter.Apply(f, page.Results, filter.ForNetwork)
	if jsonOutput {
		return printJSON(networks)
	}

	if len(networks) == 0 {
		fmt.Println("No networks found.")
		return nil
	}

	printHeader("Found %d networks in %s:", len(networks), args[0])
	for _, n := range networks {
		printNetwork(n)
	}
	return nil
}

func printNetwork(n multinet.Network) {
	fmt.Printf("• %s\n", n.Name)
	fmt.Printf("  Nodes: %d  Edges: %d\n", n.NodeCount, n.EdgeCount)
	fmt.Printf("  Created: %s  Modified: %s\n", formatDate(n.Created), formatDate(n.Modified))
}
