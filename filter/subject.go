package filter

import (
	"time"

	"github.com/multinet-app/multinet-go/multinet"
)

// Kind names the type of item a Subject was built from
type Kind string

const (
	KindWorkspace Kind = "workspace"
	KindTable     Kind = "table"
	KindNetwork   Kind = "network"
	KindSession   Kind = "session"
)

// Subject is the flattened view of a listed item that expressions see.
// Fields that do not apply to an item keep their zero value.
type Subject struct {
	Kind      Kind
	Name      string
	Workspace string
	Created   time.Time
	Modified  time.Time
	Public    bool
	Starred   bool
	Edge      bool
	NodeCount int
	EdgeCount int
}

// ForWorkspace builds a Subject from a workspace
func ForWorkspace(ws multinet.Workspace) Subject {
	return Subject{
		Kind:      KindWorkspace,
		Name:      ws.Name,
		Workspace: ws.Name,
		Created:   ws.Created,
		Modified:  ws.Modified,
		Public:    ws.Public,
		Starred:   ws.Starred,
	}
}

// ForTable builds a Subject from a table
func ForTable(t multinet.Table) Subject {
	return Subject{
		Kind:      KindTable,
		Name:      t.Name,
		Workspace: t.Workspace.Name,
		Created:   t.Created,
		Modified:  t.Modified,
		Public:    t.Workspace.Public,
		Edge:      t.Edge,
	}
}

// ForNetwork builds a Subject from a network
func ForNetwork(n multinet.Network) Subject {
	return Subject{
		Kind:      KindNetwork,
		Name:      n.Name,
		Workspace: n.Workspace.Name,
		Created:   n.Created,
		Modified:  n.Modified,
		Public:    n.Workspace.Public,
		NodeCount: n.NodeCount,
		EdgeCount: n.EdgeCount,
	}
}

// ForSession builds a Subject from a session
func ForSession(s multinet.Session) Subject {
	return Subject{
		Kind:     KindSession,
		Name:     s.Name,
		Created:  s.Created,
		Modified: s.Modified,
		Starred:  s.Starred,
	}
}
