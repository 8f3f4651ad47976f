package multinet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

type sessionStateBody struct {
	State json.RawMessage `json:"state"`
}

func sessionPath(workspace string, sessionType SessionType, extra ...string) string {
	segments := append([]string{"workspaces", workspace, "sessions", string(sessionType)}, extra...)
	return endpoint(segments...)
}

func checkSession(workspace string, sessionType SessionType) error {
	if err := requireArg("workspace", workspace); err != nil {
		return err
	}
	if !sessionType.Valid() {
		return fmt.Errorf("%w: unknown session type %q", ErrInvalidArgument, sessionType)
	}
	return nil
}

func checkSessionID(workspace string, sessionType SessionType, id int) error {
	if err := checkSession(workspace, sessionType); err != nil {
		return err
	}
	if id <= 0 {
		return fmt.Errorf("%w: argument \"id\" must be a positive session id", ErrInvalidArgument)
	}
	return nil
}

// CreateSession saves new visualization state for the table or network
// identified by itemID.
func (c *Client) CreateSession(ctx context.Context, workspace string, sessionType SessionType, itemID int, name string, state json.RawMessage) (*Session, error) {
	if err := checkSession(workspace, sessionType); err != nil {
		return nil, err
	}
	if len(state) == 0 {
		state = json.RawMessage("{}")
	}

	body := map[string]any{
		"name":              name,
		string(sessionType): itemID,
		"state":             state,
	}

	session, err := send[Session](ctx, c, http.MethodPost, sessionPath(workspace, sessionType), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s session in %s: %w", sessionType, workspace, err)
	}
	return session, nil
}

// ListSessions lists the sessions of one type in a workspace
func (c *Client) ListSessions(ctx context.Context, workspace string, sessionType SessionType) (*Paginated[Session], error) {
	if err := checkSession(workspace, sessionType); err != nil {
		return nil, err
	}

	page, err := get[Paginated[Session]](ctx, c, sessionPath(workspace, sessionType), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s sessions in %s: %w", sessionType, workspace, err)
	}
	return page, nil
}

// GetSession fetches a single session
func (c *Client) GetSession(ctx context.Context, workspace string, sessionType SessionType, id int) (*Session, error) {
	if err := checkSessionID(workspace, sessionType, id); err != nil {
		return nil, err
	}

	session, err := get[Session](ctx, c, sessionPath(workspace, sessionType, strconv.Itoa(id)), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s session %d: %w", sessionType, id, err)
	}
	return session, nil
}

// UpdateSession replaces the saved state of a session
func (c *Client) UpdateSession(ctx context.Context, workspace string, sessionType SessionType, id int, state json.RawMessage) (*Session, error) {
	if err := checkSessionID(workspace, sessionType, id); err != nil {
		return nil, err
	}

	path := sessionPath(workspace, sessionType, strconv.Itoa(id), "state")
	session, err := send[Session](ctx, c, http.MethodPatch, path, sessionStateBody{State: state})
	if err != nil {
		return nil, fmt.Errorf("failed to update %s session %d: %w", sessionType, id, err)
	}
	return session, nil
}

// RenameSession renames a session
func (c *Client) RenameSession(ctx context.Context, workspace string, sessionType SessionType, id int, name string) (*Session, error) {
	if err := checkSessionID(workspace, sessionType, id); err != nil {
		return nil, err
	}

	path := sessionPath(workspace, sessionType, strconv.Itoa(id), "name")
	session, err := send[Session](ctx, c, http.MethodPatch, path, nameBody{Name: name})
	if err != nil {
		return nil, fmt.Errorf("failed to rename %s session %d: %w", sessionType, id, err)
	}
	return session, nil
}

// DeleteSession deletes a session
func (c *Client) DeleteSession(ctx context.Context, workspace string, sessionType SessionType, id int) error {
	if err := checkSessionID(workspace, sessionType, id); err != nil {
		return err
	}

	if _, err := c.doRequest(ctx, http.MethodDelete, sessionPath(workspace, sessionType, strconv.Itoa(id)), nil, nil); err != nil {
		return fmt.Errorf("failed to delete %s session %d: %w", sessionType, id, err)
	}
	return nil
}
