package speech

import (
	"sync"
	"time"
)

// userState holds one user's queues and serving bookkeeping.
//
// mu only guards lastServed and lastAccess; reading lastServed and later
// recording the served category are separate critical sections, so two
// concurrent Next calls for the same user may serve the same category twice.
type userState struct {
	userID string
	queues [len(Categories)]*categoryQueue

	mu         sync.Mutex
	lastServed Category
	lastAccess time.Time
}

func newUserState(userID string, now time.Time) *userState {
	st := &userState{userID: userID, lastAccess: now}
	for i := range st.queues {
		st.queues[i] = newCategoryQueue()
	}
	return st
}

func (st *userState) queue(c Category) *categoryQueue {
	return st.queues[c.index()]
}

func (st *userState) offer(content string, c Category, now time.Time, ttl time.Duration) Category {
	c = c.normalize()
	st.queue(c).push(newEntry(content, c, now, ttl))
	return c
}

func (st *userState) purge(now time.Time) int {
	removed := 0
	for _, q := range st.queues {
		removed += q.purge(now)
	}
	return removed
}

// popPreferring pops from the preferred category, then the other one
func (st *userState) popPreferring(preferred Category, now time.Time) (Entry, bool) {
	if e, ok := st.queue(preferred).pop(now); ok {
		return e, true
	}
	return st.queue(preferred.Opposite()).pop(now)
}

func (st *userState) desired() Category {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.lastServed.Opposite()
}

func (st *userState) markServed(c Category, now time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.lastServed = c
	st.lastAccess = now
}

func (st *userState) touch(now time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.lastAccess = now
}

func (st *userState) idleFor(now time.Time) time.Duration {
	st.mu.Lock()
	defer st.mu.Unlock()
	return now.Sub(st.lastAccess)
}

func (st *userState) depths(now time.Time) map[Category]int {
	out := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		out[c] = st.queue(c).depth(now)
	}
	return out
}
