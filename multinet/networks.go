package multinet

import (
	"context"
	"fmt"
	"net/http"
)

// EdgesOptions pages and filters an edge listing
type EdgesOptions struct {
	OffsetLimit
	Direction Direction `url:"direction,omitempty"`
}

// CreateNetworkOptions describes a network to create
type CreateNetworkOptions struct {
	EdgeTable string
}

type createNetworkBody struct {
	Name      string `json:"name"`
	EdgeTable string `json:"edge_table"`
}

// Networks lists the networks of a workspace
func (c *Client) Networks(ctx context.Context, workspace string) (*Paginated[Network], error) {
	if err := requireArg("workspace", workspace); err != nil {
		return nil, err
	}

	page, err := get[Paginated[Network]](ctx, c, endpoint("workspaces", workspace, "networks"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list networks in %s: %w", workspace, err)
	}
	return page, nil
}

// Network fetches a single network
func (c *Client) Network(ctx context.Context, workspace, network string) (*NetworkSpec, error) {
	if err := requireArgs("workspace", workspace, "network", network); err != nil {
		return nil, err
	}

	spec, err := get[NetworkSpec](ctx, c, endpoint("workspaces", workspace, "networks", network), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get network %s/%s: %w", workspace, network, err)
	}
	return spec, nil
}

// Nodes returns a page of node rows from a network
func (c *Client) Nodes(ctx context.Context, workspace, network string, opts OffsetLimit) (*Paginated[TableRow], error) {
	if err := requireArgs("workspace", workspace, "network", network); err != nil {
		return nil, err
	}

	params, err := encodeQuery(opts)
	if err != nil {
		return nil, err
	}

	page, err := get[Paginated[TableRow]](ctx, c, endpoint("workspaces", workspace, "networks", network, "nodes"), params)
	if err != nil {
		return nil, fmt.Errorf("failed to get nodes of %s/%s: %w", workspace, network, err)
	}
	return page, nil
}

// Edges returns a page of edge rows from a network
func (c *Client) Edges(ctx context.Context, workspace, network string, opts EdgesOptions) (*Paginated[TableRow], error) {
	if err := requireArgs("workspace", workspace, "network", network); err != nil {
		return nil, err
	}

	params, err := encodeQuery(opts)
	if err != nil {
		return nil, err
	}

	page, err := get[Paginated[TableRow]](ctx, c, endpoint("workspaces", workspace, "networks", network, "edges"), params)
	if err != nil {
		return nil, fmt.Errorf("failed to get edges of %s/%s: %w", workspace, network, err)
	}
	return page, nil
}

// NetworkTables lists the node and edge tables a network is built from
func (c *Client) NetworkTables(ctx context.Context, workspace, network string, opts TablesOptions) ([]Table, error) {
	if err := requireArgs("workspace", workspace, "network", network); err != nil {
		return nil, err
	}

	params, err := encodeQuery(opts)
	if err != nil {
		return nil, err
	}

	tables, err := get[[]Table](ctx, c, endpoint("workspaces", workspace, "networks", network, "tables"), params)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables of %s/%s: %w", workspace, network, err)
	}
	return *tables, nil
}

// CreateNetwork creates a network from an existing edge table
func (c *Client) CreateNetwork(ctx context.Context, workspace, network string, opts CreateNetworkOptions) (*Network, error) {
	if err := requireArgs("workspace", workspace, "network", network); err != nil {
		return nil, err
	}

	body := createNetworkBody{Name: network, EdgeTable: opts.EdgeTable}
	created, err := send[Network](ctx, c, http.MethodPost, endpoint("workspaces", workspace, "networks"), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create network %s/%s: %w", workspace, network, err)
	}

	c.logger.Info().Str("workspace", workspace).Str("network", network).Msg("Created network")
	return created, nil
}

// DeleteNetwork deletes a network. Its tables are left in place.
func (c *Client) DeleteNetwork(ctx context.Context, workspace, network string) error {
	if err := requireArgs("workspace", workspace, "network", network); err != nil {
		return err
	}

	if _, err := c.doRequest(ctx, http.MethodDelete, endpoint("workspaces", workspace, "networks", network), nil, nil); err != nil {
		return fmt.Errorf("failed to delete network %s/%s: %w", workspace, network, err)
	}

	c.logger.Info().Str("workspace", workspace).Str("network", network).Msg("Deleted network")
	return nil
}

// DownloadNetwork returns the raw export of a network
func (c *Client) DownloadNetwork(ctx context.Context, workspace, network string) ([]byte, error) {
	if err := requireArgs("workspace", workspace, "network", network); err != nil {
		return nil, err
	}

	data, err := c.doRequest(ctx, http.MethodGet, endpoint("workspaces", workspace, "networks", network, "download"), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download network %s/%s: %w", workspace, network, err)
	}
	return data, nil
}
