// Package codec encodes and decodes the one-line-per-NPC roster format:
//
//	[<Kind>] <name> [<x>,<y>]
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/skirmish/engine/npc"
	"github.com/nathoo/skirmish/types"
)

var (
	// ErrUnknownKind wraps npc.ErrUnknownKind for a well-formed line whose
	// kind tag is not recognised.
	ErrUnknownKind = fmt.Errorf("decode: %w", npc.ErrUnknownKind)

	// ErrMalformedLine is returned when a line does not have the
	// three-field shape.
	ErrMalformedLine = errors.New("decode: malformed line")
)

// Record is a decoded line.
type Record struct {
	Kind  types.Kind
	Name  string
	Point types.Point
}

// Encode renders a single line without the trailing newline.
func Encode(kind types.Kind, name string, p types.Point) string {
	return fmt.Sprintf("[%s] %s [%d,%d]", npc.KindName(kind), name, p.X, p.Y)
}

// EncodeSnapshot renders a snapshot as a line.
func EncodeSnapshot(s types.Snapshot) string {
	return Encode(s.Kind, s.Name, s.Point)
}

// Decode parses a single line. Surrounding whitespace (including a
// trailing carriage return) is ignored.
func Decode(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Record{}, fmt.Errorf("%w: want 3 fields, got %d", ErrMalformedLine, len(fields))
	}

	kindName, ok := unbracket(fields[0])
	if !ok {
		return Record{}, fmt.Errorf("%w: kind %q is not bracketed", ErrMalformedLine, fields[0])
	}
	kind, err := npc.ParseKind(kindName)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownKind, kindName)
	}

	p, err := decodePoint(fields[2])
	if err != nil {
		return Record{}, err
	}

	return Record{Kind: kind, Name: fields[1], Point: p}, nil
}

// decodePoint parses "[x,y]".
func decodePoint(s string) (types.Point, error) {
	inner, ok := unbracket(s)
	if !ok {
		return types.Point{}, fmt.Errorf("%w: point %q is not bracketed", ErrMalformedLine, s)
	}
	xs, ys, ok := strings.Cut(inner, ",")
	if !ok {
		return types.Point{}, fmt.Errorf("%w: point %q has no comma", ErrMalformedLine, s)
	}
	x, err := strconv.ParseUint(xs, 10, 64)
	if err != nil {
		return types.Point{}, fmt.Errorf("%w: x coordinate %q", ErrMalformedLine, xs)
	}
	y, err := strconv.ParseUint(ys, 10, 64)
	if err != nil {
		return types.Point{}, fmt.Errorf("%w: y coordinate %q", ErrMalformedLine, ys)
	}
	return types.Point{X: x, Y: y}, nil
}

func unbracket(s string) (string, bool) {
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return "", false
	}
	return s[1 : len(s)-1], true
}
