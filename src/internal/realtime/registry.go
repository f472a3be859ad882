package realtime

import "sync"

// Registry is the single source of truth for which users currently hold an
// open connection. At most one connection per identity: a later bind for the
// same identity wins and the earlier connection is orphaned, left open but no
// longer addressed by the router.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]Conn   // identity -> live connection
	owners map[string]string // connection id -> identity
}

func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]Conn),
		owners: make(map[string]string),
	}
}

// Bind records conn as the active connection for identity, replacing any
// previous connection. A connection only ever speaks for one identity, so a
// re-bind under a new identity releases the old one first.
func (r *Registry) Bind(identity string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.owners[conn.ID()]; ok && prev != identity {
		if current, ok := r.conns[prev]; ok && current.ID() == conn.ID() {
			delete(r.conns, prev)
		}
	}

	if old, ok := r.conns[identity]; ok && old.ID() != conn.ID() {
		delete(r.owners, old.ID())
	}

	r.conns[identity] = conn
	r.owners[conn.ID()] = identity
}

// Unbind removes the presence entry held by conn and reports the identity it
// was bound to. It removes only an entry that still points at conn: when a
// fast reconnect already replaced it, or conn never bound, nothing is removed
// and ok is false.
func (r *Registry) Unbind(conn Conn) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.owners[conn.ID()]
	if !ok {
		return "", false
	}
	delete(r.owners, conn.ID())

	current, ok := r.conns[identity]
	if !ok || current.ID() != conn.ID() {
		return "", false
	}
	delete(r.conns, identity)

	return identity, true
}

// Lookup returns the active connection for an identity, if any.
func (r *Registry) Lookup(identity string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[identity]
	return conn, ok
}

// IdentityOf returns the identity a connection is bound to, if any.
func (r *Registry) IdentityOf(conn Conn) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.owners[conn.ID()]
	return identity, ok
}

// Online returns the identities currently bound to a connection.
func (r *Registry) Online() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	online := make([]string, 0, len(r.conns))
	for identity := range r.conns {
		online = append(online, identity)
	}
	return online
}

// Connections returns a snapshot of every live connection for broadcast
// fan-out.
func (r *Registry) Connections() []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]Conn, 0, len(r.conns))
	for _, conn := range r.conns {
		conns = append(conns, conn)
	}
	return conns
}

// Count returns the number of bound identities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns)
}
