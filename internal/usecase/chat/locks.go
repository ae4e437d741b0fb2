package chat

import "sync"

// rowLocks serializes read-modify-write cycles per chat row. Two concurrent
// vote requests on the same (session_id, message_id) would otherwise both
// read the pre-mutation card and the second write would drop the first vote.
type rowLocks struct {
	mu   sync.Mutex
	rows map[string]*rowLock
}

type rowLock struct {
	mu   sync.Mutex
	refs int
}

func newRowLocks() *rowLocks {
	return &rowLocks{rows: make(map[string]*rowLock)}
}

// acquire blocks until the caller holds the row exclusively. The returned
// release func must be called exactly once.
func (l *rowLocks) acquire(key string) (release func()) {
	l.mu.Lock()
	rl, ok := l.rows[key]
	if !ok {
		rl = &rowLock{}
		l.rows[key] = rl
	}
	rl.refs++
	l.mu.Unlock()

	rl.mu.Lock()

	return func() {
		rl.mu.Unlock()

		l.mu.Lock()
		rl.refs--
		if rl.refs == 0 {
			delete(l.rows, key)
		}
		l.mu.Unlock()
	}
}
