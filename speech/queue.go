package speech

import (
	"container/list"
	"sync"
	"time"
)

// categoryQueue is a FIFO of entries for one user and one category.
// It is safe for concurrent push and pop.
type categoryQueue struct {
	mu    sync.Mutex
	items *list.List // front = oldest
}

func newCategoryQueue() *categoryQueue {
	return &categoryQueue{items: list.New()}
}

func (q *categoryQueue) push(e Entry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items.PushBack(e)
}

// pop removes and returns the oldest live entry, discarding expired entries
// found in front of it
func (q *categoryQueue) pop(now time.Time) (Entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for el := q.items.Front(); el != nil; el = q.items.Front() {
		q.items.Remove(el)
		if e := el.Value.(Entry); !e.Expired(now) {
			return e, true
		}
	}
	return Entry{}, false
}

// purge removes every expired entry and returns how many were removed
func (q *categoryQueue) purge(now time.Time) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.purgeLocked(now)
}

func (q *categoryQueue) purgeLocked(now time.Time) int {
	removed := 0
	for el := q.items.Front(); el != nil; {
		next := el.Next()
		if el.Value.(Entry).Expired(now) {
			q.items.Remove(el)
			removed++
		}
		el = next
	}
	return removed
}

// depth returns the number of live entries at now
func (q *categoryQueue) depth(now time.Time) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.purgeLocked(now)
	return q.items.Len()
}

// snapshot copies the queue contents, oldest first
func (q *categoryQueue) snapshot() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Entry, 0, q.items.Len())
	for el := q.items.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(Entry))
	}
	return out
}
