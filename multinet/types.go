package multinet

import (
	"encoding/json"
	"time"
)

// Paginated is the list envelope returned by collection endpoints
type Paginated[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether the server advertised another page
func (p *Paginated[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// Workspace represents a Multinet workspace
type Workspace struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Created      time.Time `json:"created"`
	Modified     time.Time `json:"modified"`
	ArangoDBName string    `json:"arango_db_name"`
	Public       bool      `json:"public"`
	Starred      bool      `json:"starred"`
}

// User represents a Multinet user
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// GetDisplayName returns the best available display name for the user
func (u *User) GetDisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	}
	return u.Email
}

// WorkspacePermissions groups the users holding each role on a workspace
type WorkspacePermissions struct {
	Owner       *User  `json:"owner"`
	Maintainers []User `json:"maintainers"`
	Writers     []User `json:"writers"`
	Readers     []User `json:"readers"`
	Public      bool   `json:"public"`
}

// TableType selects which tables a listing returns
type TableType string

const (
	TableTypeAll  TableType = "all"
	TableTypeNode TableType = "node"
	TableTypeEdge TableType = "edge"
)

// Table represents a table inside a workspace
type Table struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Edge      bool      `json:"edge"`
	Created   time.Time `json:"created"`
	Modified  time.Time `json:"modified"`
	Workspace Workspace `json:"workspace"`
}

// TableRow is a document stored in a table. Besides user columns every row
// carries _key, _id and _rev; edge rows also carry _from and _to.
type TableRow map[string]any

func (r TableRow) str(field string) string {
	if v, ok := r[field].(string); ok {
		return v
	}
	return ""
}

// Key returns the row's primary key
func (r TableRow) Key() string { return r.str("_key") }

// ID returns the row's document id ("table/key")
func (r TableRow) ID() string { return r.str("_id") }

// Rev returns the row's revision
func (r TableRow) Rev() string { return r.str("_rev") }

// Edge interprets the row as an edge. ok is false when the row lacks
// either endpoint.
func (r TableRow) Edge() (edge Edge, ok bool) {
	edge = Edge{
		Key:  r.Key(),
		ID:   r.ID(),
		From: r.str("_from"),
		To:   r.str("_to"),
	}
	return edge, edge.From != "" && edge.To != ""
}

// Edge connects two rows, referenced by document id
type Edge struct {
	Key  string `json:"_key"`
	ID   string `json:"_id"`
	From string `json:"_from"`
	To   string `json:"_to"`
}

// Network represents a graph built from one edge table and its node tables
type Network struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	Created   time.Time `json:"created"`
	Modified  time.Time `json:"modified"`
	Workspace Workspace `json:"workspace"`
}

// NetworkSpec is the detailed view of a single network
type NetworkSpec struct {
	Network
	EdgeTable  string   `json:"edge_table,omitempty"`
	NodeTables []string `json:"node_tables,omitempty"`
}

// Direction filters edges relative to their nodes
type Direction string

const (
	DirectionAll      Direction = "all"
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// ColumnType is the semantic type of a table column
type ColumnType string

const (
	ColumnPrimaryKey ColumnType = "primary key"
	ColumnEdgeSource ColumnType = "edge source"
	ColumnEdgeTarget ColumnType = "edge target"
	ColumnLabel      ColumnType = "label"
	ColumnString     ColumnType = "string"
	ColumnBoolean    ColumnType = "boolean"
	ColumnCategory   ColumnType = "category"
	ColumnNumber     ColumnType = "number"
	ColumnDate       ColumnType = "date"
	ColumnIgnored    ColumnType = "ignored"
)

// Valid reports whether ct is a type the server understands
func (ct ColumnType) Valid() bool {
	switch ct {
	case ColumnPrimaryKey, ColumnEdgeSource, ColumnEdgeTarget, ColumnLabel, ColumnString,
		ColumnBoolean, ColumnCategory, ColumnNumber, ColumnDate, ColumnIgnored:
		return true
	}
	return false
}

// ColumnTypes maps column names to their types
type ColumnTypes map[string]ColumnType

// ColumnTypeEntry is one column in table metadata
type ColumnTypeEntry struct {
	Key  string     `json:"key"`
	Type ColumnType `json:"type"`
}

// TableMetadata holds the column annotations of a table
type TableMetadata struct {
	Columns []ColumnTypeEntry `json:"columns"`
}

// ColumnTypes flattens the metadata into a name → type map
func (m *TableMetadata) ColumnTypes() ColumnTypes {
	types := make(ColumnTypes, len(m.Columns))
	for _, entry := range m.Columns {
		types[entry.Key] = entry.Type
	}
	return types
}

// SessionType is the kind of item a session is attached to
type SessionType string

const (
	SessionTypeNetwork SessionType = "network"
	SessionTypeTable   SessionType = "table"
)

// Valid reports whether st is a known session type
func (st SessionType) Valid() bool {
	return st == SessionTypeNetwork || st == SessionTypeTable
}

// Session is saved visualization state attached to a table or network
type Session struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Created  time.Time       `json:"created"`
	Modified time.Time       `json:"modified"`
	Starred  bool            `json:"starred"`
	Network  *int            `json:"network,omitempty"`
	Table    *int            `json:"table,omitempty"`
	State    json.RawMessage `json:"state"`
}

// UploadStatus is the ingestion state of an upload
type UploadStatus string

const (
	UploadPending  UploadStatus = "PENDING"
	UploadStarted  UploadStatus = "STARTED"
	UploadFailed   UploadStatus = "FAILED"
	UploadFinished UploadStatus = "FINISHED"
)

// Upload is the ingestion job the server creates for a completed upload
type Upload struct {
	ID            int          `json:"id"`
	Workspace     Workspace    `json:"workspace"`
	Blob          string       `json:"blob"`
	User          string       `json:"user"`
	DataType      string       `json:"data_type"`
	Status        UploadStatus `json:"status"`
	ErrorMessages []string     `json:"error_messages"`
	Created       time.Time    `json:"created"`
	Modified      time.Time    `json:"modified"`
}

// AQLQuery is a parametrized query executed server-side
type AQLQuery struct {
	Query    string         `json:"query"`
	BindVars map[string]any `json:"bind_vars,omitempty"`
}
