// Package engine owns the roster of NPCs and runs battles over it.
// An Engine is not safe for concurrent use; callers serialise access.
package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nathoo/skirmish/engine/codec"
	"github.com/nathoo/skirmish/engine/events"
	"github.com/nathoo/skirmish/engine/factory"
	"github.com/nathoo/skirmish/engine/npc"
	"github.com/nathoo/skirmish/types"
)

// ErrDuplicateName is returned when the roster already holds an NPC with
// the same name.
var ErrDuplicateName = errors.New("duplicate npc name")

// LineError reports which input line stopped a load.
type LineError struct {
	Line int // 1-based
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// LoadReport describes how far a load got.
type LoadReport struct {
	Loaded int // NPCs added to the roster
	Lines  int // lines consumed, including the failing one
}

// Engine holds the roster, the factory that validates additions and the
// observers notified of kills.
type Engine struct {
	factory *factory.Factory
	roster  []npc.NPC
	bus     events.Bus
	log     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for battle and load diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an empty engine. A nil factory means the default 0..500 arena.
func New(f *factory.Factory, opts ...Option) *Engine {
	if f == nil {
		f = factory.New(factory.DefaultBounds)
	}
	e := &Engine{
		factory: f,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Factory returns the factory used to validate additions.
func (e *Engine) Factory() *factory.Factory {
	return e.factory
}

// AddObserver registers an observer for kill notifications.
func (e *Engine) AddObserver(o events.Observer) {
	e.bus.Subscribe(o)
}

// Observers returns the number of registered observers.
func (e *Engine) Observers() int {
	return e.bus.Len()
}

// Add creates an NPC through the factory and appends it to the roster.
// The roster is unchanged when an error is returned.
func (e *Engine) Add(kind types.Kind, p types.Point, name string) error {
	n, err := e.factory.Create(kind, p, name)
	if err != nil {
		return err
	}
	return e.appendNPC(n)
}

func (e *Engine) appendNPC(n npc.NPC) error {
	if e.indexOf(n.Name()) >= 0 {
		e.log.Debug("rejected duplicate npc", "name", n.Name())
		return fmt.Errorf("%w: %q", ErrDuplicateName, n.Name())
	}
	e.roster = append(e.roster, n)
	return nil
}

func (e *Engine) indexOf(name string) int {
	for i := range e.roster {
		if e.roster[i].Name() == name {
			return i
		}
	}
	return -1
}

// Len returns the roster size.
func (e *Engine) Len() int {
	return len(e.roster)
}

// NPCs returns snapshots of the roster in order.
func (e *Engine) NPCs() []types.Snapshot {
	result := make([]types.Snapshot, len(e.roster))
	for i := range e.roster {
		result[i] = e.roster[i].Snapshot()
	}
	return result
}

// Find returns the snapshot of the NPC with the given name.
func (e *Engine) Find(name string) (types.Snapshot, bool) {
	i := e.indexOf(name)
	if i < 0 {
		return types.Snapshot{}, false
	}
	return e.roster[i].Snapshot(), true
}

// Counts returns how many NPCs of each kind are on the roster.
func (e *Engine) Counts() map[types.Kind]int {
	counts := make(map[types.Kind]int, 3)
	for i := range e.roster {
		counts[e.roster[i].Kind()]++
	}
	return counts
}

// Dump writes the roster in the line format, one NPC per line.
func (e *Engine) Dump(w io.Writer) error {
	for i := range e.roster {
		if _, err := io.WriteString(w, codec.EncodeSnapshot(e.roster[i].Snapshot())+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the roster to w through a buffer.
func (e *Engine) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := e.Dump(bw); err != nil {
		return fmt.Errorf("writing roster: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing roster: %w", err)
	}
	return nil
}

// Load reads roster lines until end of input, appending each NPC. The first
// line that fails to decode or validate stops the load; NPCs added before it
// stay on the roster. The report says how many were added and the error, if
// any, is a *LineError.
func (e *Engine) Load(r io.Reader) (LoadReport, error) {
	return e.load(r, false)
}

// LoadAll behaves like Load but adds nothing unless every line succeeds.
func (e *Engine) LoadAll(r io.Reader) (LoadReport, error) {
	return e.load(r, true)
}

// Replace swaps the roster for the NPCs read from r. On any error the
// current roster is kept as it was.
func (e *Engine) Replace(r io.Reader) (LoadReport, error) {
	saved := e.roster
	e.roster = nil
	report, err := e.load(r, true)
	if err != nil {
		e.roster = saved
	}
	return report, err
}

// Reset empties the roster. Observers stay registered.
func (e *Engine) Reset() {
	e.roster = nil
}

func (e *Engine) load(r io.Reader, atomic bool) (LoadReport, error) {
	var (
		report LoadReport
		batch  []npc.NPC
		seen   = map[string]bool{}
	)

	commit := func() {
		e.roster = append(e.roster, batch...)
		report.Loaded = len(batch)
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		report.Lines++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		n, err := e.factory.ParseLine(line)
		if err == nil && (seen[n.Name()] || e.indexOf(n.Name()) >= 0) {
			err = fmt.Errorf("%w: %q", ErrDuplicateName, n.Name())
		}
		if err != nil {
			if !atomic {
				commit()
			}
			e.log.Warn("roster load halted",
				"line", report.Lines, "loaded", report.Loaded, "err", err)
			return report, &LineError{Line: report.Lines, Err: err}
		}

		seen[n.Name()] = true
		batch = append(batch, n)
	}
	if err := scanner.Err(); err != nil {
		if !atomic {
			commit()
		}
		return report, fmt.Errorf("reading roster: %w", err)
	}

	commit()
	return report, nil
}
