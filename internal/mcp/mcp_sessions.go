package mcp

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/huangsam/chartscope/core"
)

// maxSessions caps the number of charts a client may keep open.
const maxSessions = 32

// session is one chart opened through open_chart.
type session struct {
	key   string
	model *core.ChartModel
}

// sessionTable maps session ids to open charts. It is safe for concurrent use.
type sessionTable struct {
	mu    sync.Mutex
	limit int
	open  map[string]*session
}

func newSessionTable(limit int) *sessionTable {
	return &sessionTable{limit: limit, open: make(map[string]*session)}
}

// add stores sess under a fresh id.
func (t *sessionTable) add(sess *session) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.open) >= t.limit {
		return "", fmt.Errorf("too many open charts (limit %d): close one with close_chart", t.limit)
	}
	id := uuid.NewString()
	t.open[id] = sess
	return id, nil
}

func (t *sessionTable) get(id string) (*session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sess, ok := t.open[id]
	return sess, ok
}

func (t *sessionTable) remove(id string) (*session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sess, ok := t.open[id]
	delete(t.open, id)
	return sess, ok
}

// drain removes and returns every open session.
func (t *sessionTable) drain() []*session {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*session, 0, len(t.open))
	for id, sess := range t.open {
		out = append(out, sess)
		delete(t.open, id)
	}
	return out
}

func (t *sessionTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.open)
}
