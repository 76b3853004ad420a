package search

import (
	"container/list"
	"context"
	"sync"

	"atelier/internal/logging"
	"atelier/internal/types"
)

// Session serializes one client's searches so that only the latest result is
// applied. Starting a search cancels the one in flight, and a result whose
// sequence number is no longer current is reported stale.
type Session struct {
	ID string

	orch    *Orchestrator
	history *History

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewSession creates a session with its own history.
func NewSession(id string, orch *Orchestrator, historySize int) *Session {
	return &Session{ID: id, orch: orch, history: NewHistory(historySize)}
}

// Search runs q and reports whether a newer search superseded it.
// Stale results are not recorded in the history.
func (s *Session) Search(ctx context.Context, q Query) (Result, bool) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	res := s.orch.Run(ctx, q)
	res.Seq = seq

	s.mu.Lock()
	stale := seq != s.seq
	if !stale {
		s.cancel = nil
	}
	s.mu.Unlock()

	if stale {
		logging.SearchDebug("Session %s: discarding stale search %d (%q)", s.ID, seq, res.Query.Text)
		logging.AuditWithSession(s.ID, logging.CategorySearch).Log(logging.AuditEvent{
			EventType: logging.AuditSearchStale,
			Target:    res.Query.Text,
			Success:   true,
		})
		return res, true
	}

	s.history.Add(types.SearchRecord{
		Query:       res.Query.Text,
		Timestamp:   s.orch.now(),
		ResultCount: len(res.Candidates),
	})
	return res, false
}

// Seq returns the latest issued sequence number.
func (s *Session) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Recent returns the session's recent searches, most recent first.
func (s *Session) Recent() []types.SearchRecord {
	return s.history.Recent()
}

// DefaultMaxSessions bounds the registry when no size is configured.
const DefaultMaxSessions = 1000

// Sessions maps client ids to their sessions. It holds at most max sessions
// and evicts the least recently used one to admit a new client.
type Sessions struct {
	orch        *Orchestrator
	historySize int
	max         int

	mu       sync.Mutex
	sessions map[string]*list.Element
	lru      *list.List // front is most recently used
}

// NewSessions creates an empty registry holding at most max sessions.
// Non-positive max falls back to DefaultMaxSessions.
func NewSessions(orch *Orchestrator, historySize, max int) *Sessions {
	if max <= 0 {
		max = DefaultMaxSessions
	}
	return &Sessions{
		orch:        orch,
		historySize: historySize,
		max:         max,
		sessions:    make(map[string]*list.Element),
		lru:         list.New(),
	}
}

// Get returns the session for id, creating it on first use.
func (r *Sessions) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if el, ok := r.sessions[id]; ok {
		r.lru.MoveToFront(el)
		return el.Value.(*Session)
	}

	for r.lru.Len() >= r.max {
		oldest := r.lru.Back()
		evicted := r.lru.Remove(oldest).(*Session)
		delete(r.sessions, evicted.ID)
		logging.SearchDebug("Evicted search session %s", evicted.ID)
	}
	s := NewSession(id, r.orch, r.historySize)
	r.sessions[id] = r.lru.PushFront(s)
	logging.SearchDebug("New search session %s", id)
	return s
}

// Lookup returns the session for id without creating one.
func (r *Sessions) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	el, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	r.lru.MoveToFront(el)
	return el.Value.(*Session), true
}

// Len reports the number of sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
