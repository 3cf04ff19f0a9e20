// Package idgen mints identifiers for companions, playthroughs and saved stories
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator returns a new identifier on every call
type Generator interface {
	Generate() string
}

// Func adapts a plain function to Generator
type Func func() string

func (f Func) Generate() string {
	return f()
}

// NewUUID returns ids shaped "<prefix>_<uuid>", e.g. "companion_3f1c...".
// An empty prefix yields the bare UUID.
func NewUUID(prefix string) Generator {
	return Func(func() string {
		return withPrefix(prefix, uuid.NewString())
	})
}

// NewSequential returns "<prefix>_1", "<prefix>_2", ... so tests can
// predict ids. Safe for concurrent use.
func NewSequential(prefix string) Generator {
	var n atomic.Uint64
	return Func(func() string {
		return withPrefix(prefix, strconv.FormatUint(n.Add(1), 10))
	})
}

func withPrefix(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
