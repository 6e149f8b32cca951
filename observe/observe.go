// Package observe provides the stock kill observers: a console printer, an
// append-only log file, a structured logger and an in-memory recorder.
package observe

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/nathoo/skirmish/engine/npc"
	"github.com/nathoo/skirmish/types"
)

// DefaultLogFile is the file the Logger observer appends to unless told
// otherwise.
const DefaultLogFile = "log.txt"

// Message formats a kill the way every text observer prints it.
func Message(ev types.KillEvent) string {
	return fmt.Sprintf("[%s] killed by [%s]!", ev.Killed.Name, ev.Killer.Name)
}

var (
	styleKilled = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleKiller = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
)

// Styled renders Message with the victim in red and the killer in green.
func Styled(ev types.KillEvent) string {
	return "[" + styleKilled.Render(ev.Killed.Name) + "] killed by [" +
		styleKiller.Render(ev.Killer.Name) + "]!"
}

// Screen prints each kill on its own line.
type Screen struct {
	Out   io.Writer
	Color bool // render with lipgloss styles
}

// NewScreen creates a plain Screen printing to w.
func NewScreen(w io.Writer) *Screen {
	return &Screen{Out: w}
}

// OnKill prints the kill message.
func (s *Screen) OnKill(ev types.KillEvent) {
	msg := Message(ev)
	if s.Color {
		msg = Styled(ev)
	}
	fmt.Fprintln(s.Out, msg)
}

// Logger appends each kill to a file and flushes after every line, so the
// file is current even if the process dies mid-battle.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
	err  error
}

// OpenLogger opens (or creates) path for appending.
func OpenLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening kill log: %w", err)
	}
	return &Logger{file: f, w: bufio.NewWriter(f)}, nil
}

// OnKill appends the kill message. The first write error is kept and later
// kills are dropped; see Err.
func (l *Logger) OnKill(ev types.KillEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return
	}
	if _, err := l.w.WriteString(Message(ev) + "\n"); err != nil {
		l.err = err
		return
	}
	l.err = l.w.Flush()
}

// Err returns the first write error, if any.
func (l *Logger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close flushes and closes the file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	flushErr := l.w.Flush()
	if err := l.file.Close(); err != nil {
		return err
	}
	return flushErr
}

// Slog records each kill as an info-level structured log entry.
type Slog struct {
	Log *slog.Logger
}

// OnKill logs the kill.
func (s Slog) OnKill(ev types.KillEvent) {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(context.Background(), "npc killed",
		"battle", ev.Battle,
		"killer", ev.Killer.Name,
		"killer_kind", npc.KindName(ev.Killer.Kind),
		"killed", ev.Killed.Name,
		"killed_kind", npc.KindName(ev.Killed.Kind),
	)
}

// Recorder keeps kills in memory until drained.
type Recorder struct {
	mu    sync.Mutex
	kills []types.KillEvent
}

// OnKill stores the event.
func (r *Recorder) OnKill(ev types.KillEvent) {
	r.mu.Lock()
	r.kills = append(r.kills, ev)
	r.mu.Unlock()
}

// Drain returns the recorded kills and forgets them.
func (r *Recorder) Drain() []types.KillEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.kills
	r.kills = nil
	return out
}

// Len returns the number of kills not yet drained.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.kills)
}
