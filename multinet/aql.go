package multinet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// AQL runs a parametrized query in a workspace and returns the result
// documents undecoded. The query is not inspected locally.
func (c *Client) AQL(ctx context.Context, workspace string, q AQLQuery) ([]json.RawMessage, error) {
	if err := requireArg("workspace", workspace); err != nil {
		return nil, err
	}

	docs, err := send[[]json.RawMessage](ctx, c, http.MethodPost, endpoint("workspaces", workspace, "aql"), q)
	if err != nil {
		return nil, fmt.Errorf("failed to run query in %s: %w", workspace, err)
	}

	c.logger.Debug().Str("workspace", workspace).Int("results", len(*docs)).Msg("Executed AQL query")
	return *docs, nil
}

// AQLInto runs a query and decodes every result document into T
func AQLInto[T any](ctx context.Context, c *Client, workspace string, q AQLQuery) ([]T, error) {
	docs, err := c.AQL(ctx, workspace, q)
	if err != nil {
		return nil, err
	}

	results := make([]T, 0, len(docs))
	for i, doc := range docs {
		var v T
		if err := json.Unmarshal(doc, &v); err != nil {
			return nil, fmt.Errorf("failed to parse result %d: %w", i, err)
		}
		results = append(results, v)
	}
	return results, nil
}
