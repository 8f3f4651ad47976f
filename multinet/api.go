package multinet

import (
	"context"
	"encoding/json"

	"github.com/multinet-app/multinet-go/s3upload"
)

// Uploader obtains a storage reference for a file through the server's
// presigned upload flow. *s3upload.Client implements it.
type Uploader interface {
	Upload(ctx context.Context, fieldID string, file *s3upload.File) (string, error)
}

// WorkspaceAPI defines workspace and permission operations
type WorkspaceAPI interface {
	Workspaces(ctx context.Context) (*Paginated[Workspace], error)
	Workspace(ctx context.Context, workspace string) (*Workspace, error)
	CreateWorkspace(ctx context.Context, workspace string) (*Workspace, error)
	DeleteWorkspace(ctx context.Context, workspace string) error
	RenameWorkspace(ctx context.Context, workspace, name string) (*Workspace, error)
	GetWorkspacePermissions(ctx context.Context, workspace string) (*WorkspacePermissions, error)
	SetWorkspacePermissions(ctx context.Context, workspace string, perms WorkspacePermissions) (*WorkspacePermissions, error)
}

// TableAPI defines table operations
type TableAPI interface {
	Tables(ctx context.Context, workspace string, opts TablesOptions) (*Paginated[Table], error)
	Table(ctx context.Context, workspace, table string, opts OffsetLimit) (*Paginated[TableRow], error)
	DeleteTable(ctx context.Context, workspace, table string) error
	UploadTable(ctx context.Context, workspace, table string, opts UploadTableOptions) (*Upload, error)
}

// NetworkAPI defines network operations
type NetworkAPI interface {
	Networks(ctx context.Context, workspace string) (*Paginated[Network], error)
	Network(ctx context.Context, workspace, network string) (*NetworkSpec, error)
	Nodes(ctx context.Context, workspace, network string, opts OffsetLimit) (*Paginated[TableRow], error)
	Edges(ctx context.Context, workspace, network string, opts EdgesOptions) (*Paginated[TableRow], error)
	CreateNetwork(ctx context.Context, workspace, network string, opts CreateNetworkOptions) (*Network, error)
	DeleteNetwork(ctx context.Context, workspace, network string) error
	UploadNetwork(ctx context.Context, workspace, network string, data *s3upload.File, nodeColumns, edgeColumns ColumnTypes) (*Upload, error)
}

// SessionAPI defines session operations
type SessionAPI interface {
	CreateSession(ctx context.Context, workspace string, sessionType SessionType, itemID int, name string, state json.RawMessage) (*Session, error)
	ListSessions(ctx context.Context, workspace string, sessionType SessionType) (*Paginated[Session], error)
	GetSession(ctx context.Context, workspace string, sessionType SessionType, id int) (*Session, error)
	UpdateSession(ctx context.Context, workspace string, sessionType SessionType, id int, state json.RawMessage) (*Session, error)
	RenameSession(ctx context.Context, workspace string, sessionType SessionType, id int, name string) (*Session, error)
	DeleteSession(ctx context.Context, workspace string, sessionType SessionType, id int) error
}

// API is the full Multinet surface implemented by *Client
type API interface {
	WorkspaceAPI
	TableAPI
	NetworkAPI
	SessionAPI

	Me(ctx context.Context) (*User, error)
	SearchUsers(ctx context.Context, username string) ([]User, error)
	AQL(ctx context.Context, workspace string, q AQLQuery) ([]json.RawMessage, error)
	SetAuthToken(token string)
	ClearAuthToken()
}

var _ API = (*Client)(nil)
