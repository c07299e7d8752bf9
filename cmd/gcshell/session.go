package main

import (
	"fmt"
	"sort"

	"github.com/emberlang/runtime/gc"
	"github.com/emberlang/runtime/mapping"
)

// session is the state one gcshell invocation carries across REPL lines:
// the collector itself, the type universe currently in effect, and a
// table of short names the user types instead of a raw Handle value.
type session struct {
	gc       *gc.GC
	universe universe
	migrated bool

	names    map[string]gc.Handle
	nextName int
}

func newSession() *session {
	return &session{
		gc:       gc.New(gc.LogObserver{}),
		universe: buildUniverseV1(),
		names:    make(map[string]gc.Handle),
	}
}

// bind assigns the next "hN" name to h and returns it.
func (s *session) bind(h gc.Handle) string {
	s.nextName++
	name := fmt.Sprintf("h%d", s.nextName)
	s.names[name] = h
	return name
}

func (s *session) resolve(name string) (gc.Handle, bool) {
	h, ok := s.names[name]
	return h, ok
}

func (s *session) sortedTypeNames() []string {
	names := make([]string, 0, len(s.universe))
	for n := range s.universe {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// migrate runs the online schema migration: it diffs the current universe
// against V2 and applies the resulting plan to every live allocation
// (spec.md sections 4.4 and 4.6). It is idempotent at the session level —
// calling it twice is a user error, not a crash, since there is no V3 to
// migrate into.
func (s *session) migrate() ([]gc.Handle, error) {
	if s.migrated {
		return nil, fmt.Errorf("gcshell: already migrated to the v2 schema")
	}
	next := buildUniverseV2()
	m, err := mapping.Diff(s.universe.types(), next.types())
	if err != nil {
		return nil, err
	}
	deleted := s.gc.MapMemory(m)
	s.universe = next
	s.migrated = true
	return deleted, nil
}
