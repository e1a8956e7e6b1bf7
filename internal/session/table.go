package session

import (
	"sort"
	"sync"
)

type entry struct {
	conn   Conn
	userID string
}

// Table is the in-process Store. A user may be bound on several
// connections; ConnFor resolves to the newest one still open.
type Table struct {
	mu     sync.RWMutex
	byConn map[string]entry
	// login order, newest last
	byUser map[string][]Conn
}

func NewTable() *Table {
	return &Table{
		byConn: make(map[string]entry),
		byUser: make(map[string][]Conn),
	}
}

func (t *Table) Bind(c Conn, userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// re-login on the same connection, as someone else or again
	if prev, ok := t.byConn[c.ID()]; ok {
		t.dropUserLocked(prev.userID, c)
	}

	t.byConn[c.ID()] = entry{conn: c, userID: userID}
	t.byUser[userID] = append(t.byUser[userID], c)
}

func (t *Table) Lookup(c Conn) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.byConn[c.ID()]
	return e.userID, ok
}

func (t *Table) Unbind(c Conn) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.byConn[c.ID()]
	if !ok {
		return "", false
	}
	delete(t.byConn, c.ID())
	t.dropUserLocked(e.userID, c)
	return e.userID, true
}

func (t *Table) ConnFor(userID string) (Conn, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	conns := t.byUser[userID]
	if len(conns) == 0 {
		return nil, false
	}
	return conns[len(conns)-1], true
}

func (t *Table) Online() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, 0, len(t.byUser))
	for id := range t.byUser {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// dropUserLocked removes c from the user's connections. Other
// connections of the same user stay bound.
func (t *Table) dropUserLocked(userID string, c Conn) {
	conns := t.byUser[userID]
	kept := conns[:0]
	for _, cur := range conns {
		if cur.ID() != c.ID() {
			kept = append(kept, cur)
		}
	}

	if len(kept) == 0 {
		delete(t.byUser, userID)
		return
	}
	t.byUser[userID] = kept
}

var _ Store = (*Table)(nil)
