package multinet

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRoutes(t *testing.T) {
	runRouteCases(t, []routeCase{
		{
			name: "list all",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Tables(ctx, "ws", TablesOptions{})
				return err
			},
			method: http.MethodGet,
			path:   "/api/workspaces/ws/tables/",
		},
		{
			name: "list edge tables",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Tables(ctx, "ws", TablesOptions{Type: TableTypeEdge})
				return err
			},
			method: http.MethodGet,
			path:   "/api/workspaces/ws/tables/",
			query:  "type=edge",
		},
		{
			name: "rows",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Table(ctx, "ws", "airports", OffsetLimit{})
				return err
			},
			method: http.MethodGet,
			path:   "/api/workspaces/ws/tables/airports/rows/",
		},
		{
			name: "rows paged",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Table(ctx, "ws", "airports", OffsetLimit{Offset: 20, Limit: 10})
				return err
			},
			method: http.MethodGet,
			path:   "/api/workspaces/ws/tables/airports/rows/",
			query:  "limit=10&offset=20",
		},
		{
			name: "delete",
			call: func(ctx context.Context, c *Client) error {
				return c.DeleteTable(ctx, "ws", "airports")
			},
			method: http.MethodDelete,
			path:   "/api/workspaces/ws/tables/airports/",
		},
		{
			name: "metadata",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.TableMetadata(ctx, "ws", "airports")
				return err
			},
			method: http.MethodGet,
			path:   "/api/workspaces/ws/tables/airports/metadata/",
		},
		{
			name: "download",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.DownloadTable(ctx, "ws", "airports")
				return err
			},
			method: http.MethodGet,
			path:   "/api/workspaces/ws/tables/airports/download/",
		},
		{
			name: "add rows",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.AddTableRows(ctx, "ws", "airports", []TableRow{{"_key": "BOS", "city": "Boston"}})
				return err
			},
			method: http.MethodPut,
			path:   "/api/workspaces/ws/tables/airports/rows/",
			body:   `[{"_key":"BOS","city":"Boston"}]`,
		},
		{
			name: "delete rows",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.DeleteTableRows(ctx, "ws", "airports", []TableRow{{"_key": "BOS"}})
				return err
			},
			method: http.MethodDelete,
			path:   "/api/workspaces/ws/tables/airports/rows/",
			body:   `[{"_key":"BOS"}]`,
		},
		{
			name: "create from query",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.CreateAQLTable(ctx, "ws", "big", "FOR a IN airports RETURN a")
				return err
			},
			method: http.MethodPost,
			path:   "/api/workspaces/ws/tables/",
			body:   `{"name":"big","query":"FOR a IN airports RETURN a"}`,
		},
	})
}

func TestTableInvalidArguments(t *testing.T) {
	runInvalidArgCases(t, map[string]func(ctx context.Context, c *Client) error{
		"list": func(ctx context.Context, c *Client) error {
			_, err := c.Tables(ctx, "", TablesOptions{})
			return err
		},
		"rows without table": func(ctx context.Context, c *Client) error {
			_, err := c.Table(ctx, "ws", "", OffsetLimit{})
			return err
		},
		"delete without workspace": func(ctx context.Context, c *Client) error {
			return c.DeleteTable(ctx, "", "t")
		},
		"metadata": func(ctx context.Context, c *Client) error {
			_, err := c.TableMetadata(ctx, "ws", "")
			return err
		},
		"column types": func(ctx context.Context, c *Client) error {
			_, err := c.TableColumnTypes(ctx, "", "t")
			return err
		},
		"download": func(ctx context.Context, c *Client) error {
			_, err := c.DownloadTable(ctx, "ws", "")
			return err
		},
		"add rows": func(ctx context.Context, c *Client) error {
			_, err := c.AddTableRows(ctx, "", "t", nil)
			return err
		},
		"delete rows": func(ctx context.Context, c *Client) error {
			_, err := c.DeleteTableRows(ctx, "ws", "", nil)
			return err
		},
		"create from query without table": func(ctx context.Context, c *Client) error {
			_, err := c.CreateAQLTable(ctx, "ws", "", "RETURN 1")
			return err
		},
	})
}

func TestTableRows(t *testing.T) {
	rec := &recorder{response: map[string]any{
		"count": 2,
		"next":  "http://localhost/api/workspaces/ws/tables/flights/rows/?offset=1&limit=1",
		"results": []map[string]any{
			{"_key": "1", "_id": "flights/1", "_rev": "abc", "_from": "airports/BOS", "_to": "airports/JFK"},
		},
	}}
	client := newTestClient(t, rec)

	page, err := client.Table(context.Background(), "ws", "flights", OffsetLimit{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)
	assert.True(t, page.HasNext())
	require.Len(t, page.Results, 1)

	row := page.Results[0]
	assert.Equal(t, "1", row.Key())
	assert.Equal(t, "flights/1", row.ID())
	assert.Equal(t, "abc", row.Rev())

	edge, ok := row.Edge()
	require.True(t, ok)
	assert.Equal(t, "airports/BOS", edge.From)
	assert.Equal(t, "airports/JFK", edge.To)
}

func TestTableColumnTypes(t *testing.T) {
	rec := &recorder{response: map[string]any{
		"columns": []map[string]any{
			{"key": "code", "type": "primary key"},
			{"key": "population", "type": "number"},
		},
	}}
	client := newTestClient(t, rec)

	types, err := client.TableColumnTypes(context.Background(), "ws", "airports")
	require.NoError(t, err)
	assert.Equal(t, ColumnTypes{
		"code":       ColumnPrimaryKey,
		"population": ColumnNumber,
	}, types)
}

func TestDownloadTableReturnsRawBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("_key,city\nBOS,Boston\n"))
	}))

	data, err := client.DownloadTable(context.Background(), "ws", "airports")
	require.NoError(t, err)
	assert.Equal(t, "_key,city\nBOS,Boston\n", string(data))
}
