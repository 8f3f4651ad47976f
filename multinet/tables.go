package multinet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TablesOptions filters a table listing
type TablesOptions struct {
	Type TableType `url:"type,omitempty"`
}

// OffsetLimit pages through rows. Zero values are left to the server.
type OffsetLimit struct {
	Offset int `url:"offset,omitempty"`
	Limit  int `url:"limit,omitempty"`
}

// RowsResult summarises a bulk row mutation
type RowsResult struct {
	Inserted int               `json:"inserted"`
	Updated  int               `json:"updated"`
	Deleted  int               `json:"deleted"`
	Errors   []json.RawMessage `json:"errors"`
}

type aqlTableBody struct {
	Name  string `json:"name"`
	Query string `json:"query"`
}

// Tables lists the tables of a workspace
func (c *Client) Tables(ctx context.Context, workspace string, opts TablesOptions) (*Paginated[Table], error) {
	if err := requireArg("workspace", workspace); err != nil {
		return nil, err
	}

	params, err := encodeQuery(opts)
	if err != nil {
		return nil, err
	}

	page, err := get[Paginated[Table]](ctx, c, endpoint("workspaces", workspace, "tables"), params)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables in %s: %w", workspace, err)
	}
	return page, nil
}

// Table returns a page of rows from a table
func (c *Client) Table(ctx context.Context, workspace, table string, opts OffsetLimit) (*Paginated[TableRow], error) {
	if err := requireArgs("workspace", workspace, "table", table); err != nil {
		return nil, err
	}

	params, err := encodeQuery(opts)
	if err != nil {
		return nil, err
	}

	page, err := get[Paginated[TableRow]](ctx, c, endpoint("workspaces", workspace, "tables", table, "rows"), params)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows of %s/%s: %w", workspace, table, err)
	}
	return page, nil
}

// DeleteTable deletes a table
func (c *Client) DeleteTable(ctx context.Context, workspace, table string) error {
	if err := requireArgs("workspace", workspace, "table", table); err != nil {
		return err
	}

	if _, err := c.doRequest(ctx, http.MethodDelete, endpoint("workspaces", workspace, "tables", table), nil, nil); err != nil {
		return fmt.Errorf("failed to delete table %s/%s: %w", workspace, table, err)
	}

	c.logger.Info().Str("workspace", workspace).Str("table", table).Msg("Deleted table")
	return nil
}

// TableMetadata returns the column annotations of a table
func (c *Client) TableMetadata(ctx context.Context, workspace, table string) (*TableMetadata, error) {
	if err := requireArgs("workspace", workspace, "table", table); err != nil {
		return nil, err
	}

	meta, err := get[TableMetadata](ctx, c, endpoint("workspaces", workspace, "tables", table, "metadata"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata of %s/%s: %w", workspace, table, err)
	}
	return meta, nil
}

// TableColumnTypes returns the column types of a table as a map
func (c *Client) TableColumnTypes(ctx context.Context, workspace, table string) (ColumnTypes, error) {
	meta, err := c.TableMetadata(ctx, workspace, table)
	if err != nil {
		return nil, err
	}
	return meta.ColumnTypes(), nil
}

// DownloadTable returns the raw export of a table
func (c *Client) DownloadTable(ctx context.Context, workspace, table string) ([]byte, error) {
	if err := requireArgs("workspace", workspace, "table", table); err != nil {
		return nil, err
	}

	data, err := c.doRequest(ctx, http.MethodGet, endpoint("workspaces", workspace, "tables", table, "download"), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download table %s/%s: %w", workspace, table, err)
	}
	return data, nil
}

// AddTableRows inserts or updates rows, matched by _key
func (c *Client) AddTableRows(ctx context.Context, workspace, table string, rows []TableRow) (*RowsResult, error) {
	if err := requireArgs("workspace", workspace, "table", table); err != nil {
		return nil, err
	}

	result, err := send[RowsResult](ctx, c, http.MethodPut, endpoint("workspaces", workspace, "tables", table, "rows"), rows)
	if err != nil {
		return nil, fmt.Errorf("failed to add rows to %s/%s: %w", workspace, table, err)
	}
	return result, nil
}

// DeleteTableRows deletes the rows whose _key matches one of rows
func (c *Client) DeleteTableRows(ctx context.Context, workspace, table string, rows []TableRow) (*RowsResult, error) {
	if err := requireArgs("workspace", workspace, "table", table); err != nil {
		return nil, err
	}

	result, err := send[RowsResult](ctx, c, http.MethodDelete, endpoint("workspaces", workspace, "tables", table, "rows"), rows)
	if err != nil {
		return nil, fmt.Errorf("failed to delete rows from %s/%s: %w", workspace, table, err)
	}
	return result, nil
}

// CreateAQLTable materialises the result of an AQL query as a new table
func (c *Client) CreateAQLTable(ctx context.Context, workspace, table, query string) (*Table, error) {
	if err := requireArgs("workspace", workspace, "table", table); err != nil {
		return nil, err
	}

	created, err := send[Table](ctx, c, http.MethodPost, endpoint("workspaces", workspace, "tables"), aqlTableBody{Name: table, Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to create table %s/%s from query: %w", workspace, table, err)
	}
	return created, nil
}
