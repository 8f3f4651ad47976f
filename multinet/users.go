package multinet

import (
	"context"
	"fmt"
)

type userSearchOptions struct {
	Username string `url:"username"`
}

// Me returns the user the current credential belongs to
func (c *Client) Me(ctx context.Context) (*User, error) {
	user, err := get[User](ctx, c, endpoint("users", "me"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return user, nil
}

// SearchUsers finds users whose name matches username
func (c *Client) SearchUsers(ctx context.Context, username string) ([]User, error) {
	params, err := encodeQuery(userSearchOptions{Username: username})
	if err != nil {
		return nil, err
	}

	users, err := get[[]User](ctx, c, endpoint("users", "search"), params)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return *users, nil
}
