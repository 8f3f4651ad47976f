package multinet

import (
	"context"
	"fmt"
	"net/http"
)

type nameBody struct {
	Name string `json:"name"`
}

// Workspaces lists the workspaces visible to the current credential
func (c *Client) Workspaces(ctx context.Context) (*Paginated[Workspace], error) {
	page, err := get[Paginated[Workspace]](ctx, c, endpoint("workspaces"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	c.logger.Debug().Int("count", page.Count).Msg("Retrieved workspaces from Multinet")
	return page, nil
}

// Workspace fetches a single workspace by name
func (c *Client) Workspace(ctx context.Context, workspace string) (*Workspace, error) {
	if err := requireArg("workspace", workspace); err != nil {
		return nil, err
	}

	ws, err := get[Workspace](ctx, c, endpoint("workspaces", workspace), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace %s: %w", workspace, err)
	}
	return ws, nil
}

// CreateWorkspace creates a workspace and returns the server's representation
func (c *Client) CreateWorkspace(ctx context.Context, workspace string) (*Workspace, error) {
	if err := requireArg("workspace", workspace); err != nil {
		return nil, err
	}

	ws, err := send[Workspace](ctx, c, http.MethodPost, endpoint("workspaces"), nameBody{Name: workspace})
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace %s: %w", workspace, err)
	}

	c.logger.Info().Str("workspace", workspace).Msg("Created workspace")
	return ws, nil
}

// DeleteWorkspace deletes a workspace and everything in it
func (c *Client) DeleteWorkspace(ctx context.Context, workspace string) error {
	if err := requireArg("workspace", workspace); err != nil {
		return err
	}

	if _, err := c.doRequest(ctx, http.MethodDelete, endpoint("workspaces", workspace), nil, nil); err != nil {
		return fmt.Errorf("failed to delete workspace %s: %w", workspace, err)
	}

	c.logger.Info().Str("workspace", workspace).Msg("Deleted workspace")
	return nil
}

// RenameWorkspace renames a workspace
func (c *Client) RenameWorkspace(ctx context.Context, workspace, name string) (*Workspace, error) {
	if err := requireArg("workspace", workspace); err != nil {
		return nil, err
	}

	ws, err := send[Workspace](ctx, c, http.MethodPut, endpoint("workspaces", workspace), nameBody{Name: name})
	if err != nil {
		return nil, fmt.Errorf("failed to rename workspace %s: %w", workspace, err)
	}
	return ws, nil
}

// StarWorkspace marks a workspace as starred for the current user
func (c *Client) StarWorkspace(ctx context.Context, workspace string) error {
	if err := requireArg("workspace", workspace); err != nil {
		return err
	}

	if _, err := c.doRequest(ctx, http.MethodPost, endpoint("workspaces", workspace, "star"), nil, nil); err != nil {
		return fmt.Errorf("failed to star workspace %s: %w", workspace, err)
	}
	return nil
}

// UnstarWorkspace removes the current user's star from a workspace
func (c *Client) UnstarWorkspace(ctx context.Context, workspace string) error {
	if err := requireArg("workspace", workspace); err != nil {
		return err
	}

	if _, err := c.doRequest(ctx, http.MethodDelete, endpoint("workspaces", workspace, "star"), nil, nil); err != nil {
		return fmt.Errorf("failed to unstar workspace %s: %w", workspace, err)
	}
	return nil
}

// GetWorkspacePermissions returns who may access a workspace
func (c *Client) GetWorkspacePermissions(ctx context.Context, workspace string) (*WorkspacePermissions, error) {
	if err := requireArg("workspace", workspace); err != nil {
		return nil, err
	}

	perms, err := get[WorkspacePermissions](ctx, c, endpoint("workspaces", workspace, "permissions"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions for %s: %w", workspace, err)
	}
	return perms, nil
}

// SetWorkspacePermissions replaces the permissions of a workspace
func (c *Client) SetWorkspacePermissions(ctx context.Context, workspace string, perms WorkspacePermissions) (*WorkspacePermissions, error) {
	if err := requireArg("workspace", workspace); err != nil {
		return nil, err
	}

	updated, err := send[WorkspacePermissions](ctx, c, http.MethodPut, endpoint("workspaces", workspace, "permissions"), perms)
	if err != nil {
		return nil, fmt.Errorf("failed to set permissions for %s: %w", workspace, err)
	}
	return updated, nil
}
