package idgen

import "github.com/google/uuid"

// NewFunc produces identifiers; tests may replace it.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier.
func New() string { return NewFunc() }

// Sequence replaces NewFunc with one returning ids in order and returns a
// function restoring the previous generator.
func Sequence(ids ...string) (restore func()) {
	prev := NewFunc
	i := 0
	NewFunc = func() string {
		if i >= len(ids) {
			return prev()
		}
		ret := ids[i]
		i++
		return ret
	}
	return func() { NewFunc = prev }
}
