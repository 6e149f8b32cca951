package factory

import (
	"errors"
	"testing"

	"github.com/nathoo/skirmish/engine/codec"
	"github.com/nathoo/skirmish/engine/npc"
	"github.com/nathoo/skirmish/types"
)

func TestCreate_Bounds(t *testing.T) {
	f := New(DefaultBounds)

	tests := []struct {
		name    string
		point   types.Point
		wantErr bool
	}{
		{"origin", types.Point{X: 0, Y: 0}, false},
		{"far corner", types.Point{X: 500, Y: 500}, false},
		{"middle", types.Point{X: 250, Y: 250}, false},
		{"x over", types.Point{X: 501, Y: 0}, true},
		{"y over", types.Point{X: 0, Y: 501}, true},
		{"both over", types.Point{X: 600, Y: 600}, true},
	}
	for _, tt := range tests {
		_, err := f.Create(types.KindDruid, tt.point, "npc")
		if tt.wantErr {
			if !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("%s: err = %v, want ErrOutOfBounds", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
		}
	}
}

func TestCreate_CustomBounds(t *testing.T) {
	f := New(Bounds{MaxX: 10, MaxY: 20})

	if _, err := f.Create(types.KindDruid, types.Point{X: 10, Y: 20}, "edge"); err != nil {
		t.Errorf("edge of custom bounds rejected: %v", err)
	}
	if _, err := f.Create(types.KindDruid, types.Point{X: 11, Y: 0}, "out"); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
	if f.Bounds() != (Bounds{MaxX: 10, MaxY: 20}) {
		t.Errorf("Bounds = %+v", f.Bounds())
	}
}

func TestCreate_Properties(t *testing.T) {
	f := New(DefaultBounds)

	n, err := f.Create(types.KindWerewolf, types.Point{X: 5, Y: 6}, "Werewolf1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if n.Kind() != types.KindWerewolf || n.Name() != "Werewolf1" || !n.Alive() {
		t.Errorf("unexpected NPC: %+v", n.Snapshot())
	}
}

func TestCreate_InvalidName(t *testing.T) {
	f := New(DefaultBounds)

	for _, name := range []string{"", "two words", "tab\tname", "new\nline"} {
		if _, err := f.Create(types.KindDruid, types.Point{}, name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Create(name=%q) err = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestCreate_UnknownKind(t *testing.T) {
	f := New(DefaultBounds)
	if _, err := f.Create(types.Kind(7), types.Point{}, "x"); !errors.Is(err, npc.ErrUnknownKind) {
		t.Errorf("err = %v, want npc.ErrUnknownKind", err)
	}
}

func TestParseLine(t *testing.T) {
	f := New(DefaultBounds)

	n, err := f.ParseLine("[Squirrel] B [2,2]")
	if err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}
	if n.Kind() != types.KindSquirrel || n.Name() != "B" || n.Position() != (types.Point{X: 2, Y: 2}) {
		t.Errorf("unexpected NPC: %+v", n.Snapshot())
	}
}

func TestParseLine_Errors(t *testing.T) {
	f := New(DefaultBounds)

	tests := []struct {
		line string
		want error
	}{
		{"[Dragon] A [1,1]", codec.ErrUnknownKind},
		{"[Druid] A", codec.ErrMalformedLine},
		{"[Druid] A [501,0]", ErrOutOfBounds},
	}
	for _, tt := range tests {
		if _, err := f.ParseLine(tt.line); !errors.Is(err, tt.want) {
			t.Errorf("ParseLine(%q) err = %v, want %v", tt.line, err, tt.want)
		}
	}
}
