// Package resolve maps names typed at the console to NPCs on the roster.
package resolve

import (
	"fmt"
	"strings"

	"github.com/nathoo/skirmish/types"
)

// AmbiguityError indicates multiple NPCs matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no NPC matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no npc called %q on the roster", e.Name)
}

// Resolve finds the NPC a query refers to. Matching is tried in order and
// the first stage with any hits wins:
//  1. exact name
//  2. case-insensitive name
//  3. case-insensitive prefix
func Resolve(roster []types.Snapshot, query string) (types.Snapshot, error) {
	// 1. Exact match. Names are unique, so at most one hit.
	for _, s := range roster {
		if s.Name == query {
			return s, nil
		}
	}

	lower := strings.ToLower(query)
	stages := []func(name string) bool{
		func(name string) bool { return strings.ToLower(name) == lower },
		func(name string) bool { return strings.HasPrefix(strings.ToLower(name), lower) },
	}

	for _, match := range stages {
		var hits []types.Snapshot
		for _, s := range roster {
			if match(s.Name) {
				hits = append(hits, s)
			}
		}
		switch len(hits) {
		case 0:
			continue
		case 1:
			return hits[0], nil
		default:
			names := make([]string, len(hits))
			for i, h := range hits {
				names[i] = h.Name
			}
			return types.Snapshot{}, &AmbiguityError{Name: query, Candidates: names}
		}
	}

	return types.Snapshot{}, &NotFoundError{Name: query}
}
