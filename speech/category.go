package speech

import "strings"

// Category partitions buffered content. The set is closed.
type Category string

const (
	// CategoryDaily is the primary category: everyday small talk
	CategoryDaily Category = "DAILY"
	// CategoryCheer is the secondary category: encouragement tied to the
	// user's progress
	CategoryCheer Category = "CHEER"
)

// Categories lists every category, primary first
var Categories = [...]Category{CategoryDaily, CategoryCheer}

// ParseCategory maps s to a category, ignoring case and surrounding space
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Valid reports whether c is one of Categories
func (c Category) Valid() bool {
	return c == CategoryDaily || c == CategoryCheer
}

// Opposite returns the other category. Anything that is not the secondary
// category, including the empty value, maps to the secondary one; so a user
// with nothing served yet starts on CategoryCheer.
func (c Category) Opposite() Category {
	if c == CategoryCheer {
		return CategoryDaily
	}
	return CategoryCheer
}

// normalize buckets unknown categories into the primary one
func (c Category) normalize() Category {
	if c.Valid() {
		return c
	}
	return CategoryDaily
}

func (c Category) index() int {
	if c == CategoryCheer {
		return 1
	}
	return 0
}
