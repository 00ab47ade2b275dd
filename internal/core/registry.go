package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/inkwell-dev/inkwell/internal/domain"
	"github.com/inkwell-dev/inkwell/internal/metrics"
)

// Registry is the process-wide table of live document groups. It is the
// only shared mutable state in the session layer; all membership changes
// go through Attach/Detach. An instance is injected into the transport
// rather than held as a package global so tests can run registries in
// isolation.
type Registry struct {
	mu     sync.RWMutex
	groups map[domain.DocumentID]map[ConnID]Entry
}

func NewRegistry() *Registry {
	return &Registry{
		groups: make(map[domain.DocumentID]map[ConnID]Entry),
	}
}

// Attach adds the connection to the document's group, creating the group
// if absent. Re-attaching an already present connection overwrites its
// entry.
func (r *Registry) Attach(docID domain.DocumentID, conn Conn, member domain.Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	group, ok := r.groups[docID]
	if !ok {
		group = make(map[ConnID]Entry)
		r.groups[docID] = group
		metrics.ActiveDocuments.Inc()
	}
	if _, present := group[conn.ID()]; !present {
		metrics.ActiveConnections.Inc()
	}
	group[conn.ID()] = Entry{Conn: conn, Member: member}
	log.Info().Str("module", "core.registry").
		Str("doc", string(docID)).
		Str("conn", string(conn.ID())).
		Str("user", string(member.UserID)).
		Msg("member attached")
}

// Detach removes the connection and reports how many members remain.
// The group entry is deleted the moment it empties. Detaching a
// connection that was never attached is a no-op.
func (r *Registry) Detach(docID domain.DocumentID, connID ConnID) (remaining int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	group, exists := r.groups[docID]
	if !exists {
		return 0, false
	}
	if _, present := group[connID]; !present {
		return len(group), false
	}
	delete(group, connID)
	metrics.ActiveConnections.Dec()
	if len(group) == 0 {
		delete(r.groups, docID)
		metrics.ActiveDocuments.Dec()
	}
	log.Info().Str("module", "core.registry").
		Str("doc", string(docID)).
		Str("conn", string(connID)).
		Int("remaining", len(group)).
		Msg("member detached")
	return len(group), true
}

// Members returns a snapshot of the group's participation meta for
// presence rendering. Empty if the document has no group.
func (r *Registry) Members(docID domain.DocumentID) []domain.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	group := r.groups[docID]
	out := make([]domain.Member, 0, len(group))
	for _, e := range group {
		out = append(out, e.Member)
	}
	return out
}

// Snapshot returns the group's entries, connections included, for fanout.
func (r *Registry) Snapshot(docID domain.DocumentID) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	group := r.groups[docID]
	out := make([]Entry, 0, len(group))
	for _, e := range group {
		out = append(out, e)
	}
	return out
}

// GroupCount reports the number of live document groups.
func (r *Registry) GroupCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups)
}
