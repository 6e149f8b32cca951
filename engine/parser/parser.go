// Package parser converts console command strings into Intent structs.
// Intentionally dumb: the first word is the verb, the rest are arguments.
package parser

import (
	"strings"

	"github.com/nathoo/skirmish/types"
)

var verbAliases = map[string]string{
	// Add
	"new":    "add",
	"create": "add",
	"place":  "add",

	// Fight
	"f":      "fight",
	"battle": "fight",
	"sweep":  "fight",

	// List
	"ls":     "list",
	"l":      "list",
	"roster": "list",
	"dump":   "list",

	// Show
	"x":       "show",
	"inspect": "show",
	"examine": "show",
	"who":     "show",

	// Spawn
	"populate": "spawn",
	"random":   "spawn",

	// Rules
	"matrix": "rules",
	"table":  "rules",

	// Miscellaneous
	"g":     "again",
	"count": "stats",
}

// Parse converts a raw command string into an Intent. The verb is lowercased
// and aliased; arguments keep their case since NPC names are case sensitive.
func Parse(input string) types.Intent {
	words := strings.Fields(input)
	if len(words) == 0 {
		return types.Intent{}
	}

	verb := strings.ToLower(words[0])
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}

	var args []string
	if len(words) > 1 {
		args = words[1:]
	}
	return types.Intent{Verb: verb, Args: args}
}

// Canonical returns the canonical verb for a word, or the lowercased word
// itself if it has no alias.
func Canonical(word string) string {
	w := strings.ToLower(word)
	if alias, ok := verbAliases[w]; ok {
		return alias
	}
	return w
}
