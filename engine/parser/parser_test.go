package parser

import (
	"reflect"
	"testing"

	"github.com/nathoo/skirmish/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Intent
	}{
		// Empty / whitespace
		{
			name:  "empty string",
			input: "",
			want:  types.Intent{},
		},
		{
			name:  "whitespace only",
			input: "  \t ",
			want:  types.Intent{},
		},

		// Bare verbs
		{
			name:  "fight",
			input: "fight",
			want:  types.Intent{Verb: "fight"},
		},
		{
			name:  "list",
			input: "list",
			want:  types.Intent{Verb: "list"},
		},

		// Aliases
		{
			name:  "f → fight",
			input: "f 30",
			want:  types.Intent{Verb: "fight", Args: []string{"30"}},
		},
		{
			name:  "ls → list",
			input: "ls",
			want:  types.Intent{Verb: "list"},
		},
		{
			name:  "g → again",
			input: "g",
			want:  types.Intent{Verb: "again"},
		},
		{
			name:  "populate → spawn",
			input: "populate 5",
			want:  types.Intent{Verb: "spawn", Args: []string{"5"}},
		},
		{
			name:  "x → show",
			input: "x Bob",
			want:  types.Intent{Verb: "show", Args: []string{"Bob"}},
		},

		// Case handling
		{
			name:  "verb lowercased, args preserved",
			input: "ADD squirrel Nutty 10 20",
			want:  types.Intent{Verb: "add", Args: []string{"squirrel", "Nutty", "10", "20"}},
		},
		{
			name:  "extra spaces collapse",
			input: "  add   Druid    Merlin  1 2  ",
			want:  types.Intent{Verb: "add", Args: []string{"Druid", "Merlin", "1", "2"}},
		},

		// Unknown verbs pass through
		{
			name:  "unknown verb",
			input: "dance wildly",
			want:  types.Intent{Verb: "dance", Args: []string{"wildly"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	tests := map[string]string{
		"F":      "fight",
		"battle": "fight",
		"add":    "add",
		"Spawn":  "spawn",
		"zzz":    "zzz",
	}
	for in, want := range tests {
		if got := Canonical(in); got != want {
			t.Errorf("Canonical(%q) = %q, want %q", in, got, want)
		}
	}
}
