package speech

import "time"

// defaultContent is served when nothing could be buffered or generated
const defaultContent = "I'm cheering for you today!"

// Entry is one buffered piece of content. It is immutable.
type Entry struct {
	Content   string    `json:"content"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newEntry(content string, category Category, now time.Time, ttl time.Duration) Entry {
	return Entry{
		Content:   content,
		Category:  category,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether e may no longer be served at now.
// An entry is dead from ExpiresAt on, inclusive.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// DefaultEntry returns the hardcoded fallback entry, tagged with the
// secondary category
func DefaultEntry(now time.Time, ttl time.Duration) Entry {
	return newEntry(defaultContent, CategoryCheer, now, ttl)
}
