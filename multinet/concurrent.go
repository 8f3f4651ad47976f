package multinet

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is the default number of batch requests in flight
const DefaultBatchSize = 5

// BatchDeleteResult contains the results of a batch delete operation
type BatchDeleteResult struct {
	Requested  int
	Successful []string
	Failed     []DeleteError
}

// DeleteError contains information about a failed delete operation
type DeleteError struct {
	Name string
	Err  error
}

// Error implements the error interface
func (e DeleteError) Error() string {
	return fmt.Sprintf("failed to delete %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error
func (e DeleteError) Unwrap() error {
	return e.Err
}

// DeleteWorkspaces deletes workspaces concurrently. A failure never stops
// the remaining deletions.
func (c *Client) DeleteWorkspaces(ctx context.Context, workspaces []string) BatchDeleteResult {
	return c.batchDelete(ctx, workspaces, func(ctx context.Context, name string) error {
		return c.DeleteWorkspace(ctx, name)
	})
}

// DeleteTables deletes tables of one workspace concurrently
func (c *Client) DeleteTables(ctx context.Context, workspace string, tables []string) BatchDeleteResult {
	return c.batchDelete(ctx, tables, func(ctx context.Context, name string) error {
		return c.DeleteTable(ctx, workspace, name)
	})
}

// DeleteNetworks deletes networks of one workspace concurrently
func (c *Client) DeleteNetworks(ctx context.Context, workspace string, networks []string) BatchDeleteResult {
	return c.batchDelete(ctx, networks, func(ctx context.Context, name string) error {
		return c.DeleteNetwork(ctx, workspace, name)
	})
}

func (c *Client) batchDelete(ctx context.Context, names []string, del func(context.Context, string) error) BatchDeleteResult {
	result := BatchDeleteResult{
		Requested: len(names),
	}

	if len(names) == 0 {
		return result
	}

	var g errgroup.Group
	g.SetLimit(c.concurrency)

	var mu sync.Mutex
	for _, name := range names {
		g.Go(func() error {
			err := del(ctx, name)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.logger.Warn().Err(err).Str("name", name).Msg("Batch delete failed")
				result.Failed = append(result.Failed, DeleteError{Name: name, Err: err})
			} else {
				result.Successful = append(result.Successful, name)
			}
			return nil // Don't stop on individual errors
		})
	}

	_ = g.Wait()
	return result
}
