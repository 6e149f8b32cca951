package tui

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nathoo/skirmish/engine"
	"github.com/nathoo/skirmish/engine/session"
	"github.com/nathoo/skirmish/types"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"[Druid] Merlin [1,2]", kindRoster},
		{"[W] killed by [S]!", kindKill},
		{"Before battle (2):", kindHeader},
		{"Battle over at distance 20: 1 killed, 1 survive.", kindHeader},
		{"[trace] Kills: 1", kindTrace},
		{"Cannot add X: duplicate npc name", kindError},
		{"Usage: spawn <count>", kindError},
		{"which nut? (Nutty, nutmeg)", kindError},
		{"Added [Druid] Merlin [1,2].", kindPlain},
		{"The arena is empty.", kindPlain},
		{"", kindPlain},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"Battle over at distance 20: 1 killed, 1 survive.", 25,
			"Battle over at distance\n20: 1 killed, 1 survive."},
		{"", 80, ""},
		{"one", 80, "one"},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("add druid D 1 1")
	h.Push("spawn 3")
	h.Push("fight")

	for _, want := range []string{"fight", "spawn 3", "add druid D 1 1", "add druid D 1 1"} {
		prev, ok := h.Prev()
		if !ok || prev != want {
			t.Errorf("expected %q, got %q (ok=%v)", want, prev, ok)
		}
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("list")
	h.Push("fight")

	h.Prev() // "fight"
	h.Prev() // "list"

	next, ok := h.Next()
	if !ok || next != "fight" {
		t.Errorf("expected 'fight', got %q (ok=%v)", next, ok)
	}

	_, ok = h.Next()
	if ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(); ok {
		t.Error("expected false on empty history")
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_Limit(t *testing.T) {
	h := NewHistory(3)
	for _, cmd := range []string{"a", "b", "c", "d", "e"} {
		h.Push(cmd)
	}
	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}
	for _, want := range []string{"e", "d", "c", "c"} {
		if got, _ := h.Prev(); got != want {
			t.Errorf("Prev = %q, want %q", got, want)
		}
	}
}

func TestHistory_SkipsBlankAndRepeats(t *testing.T) {
	h := NewHistory(5)
	h.Push("fight")
	h.Push("fight")
	h.Push("")
	if h.Len() != 1 {
		t.Errorf("Len = %d, want 1", h.Len())
	}
}

func TestHistory_ResetCursor(t *testing.T) {
	h := NewHistory(5)
	h.Push("a")
	h.Push("b")
	h.Prev()
	h.ResetCursor()
	if got, _ := h.Prev(); got != "b" {
		t.Errorf("after reset Prev = %q, want b", got)
	}
}

func testModel(t *testing.T) Model {
	t.Helper()
	eng := engine.New(nil, engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	m := New(session.New(eng, 20, 1), t.TempDir())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func submit(t *testing.T, m Model, input string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(input)
	updated, cmd := m.handleEnter()
	return updated.(Model), cmd
}

func lastLines(m Model) string {
	var b strings.Builder
	for _, rl := range m.rawLines {
		b.WriteString(rl.text)
		b.WriteString("\n")
	}
	return b.String()
}

func TestModel_ArenaCommand(t *testing.T) {
	m := testModel(t)
	m, _ = submit(t, m, "add squirrel S 10 10")
	m, _ = submit(t, m, "add werewolf W 11 11")
	m, _ = submit(t, m, "fight")

	out := lastLines(m)
	if !strings.Contains(out, "> fight") || !strings.Contains(out, "[W] killed by [S]!") {
		t.Errorf("output missing fight:\n%s", out)
	}
	if m.session.Engine.Len() != 1 {
		t.Errorf("Len = %d", m.session.Engine.Len())
	}
	if m.history.Len() != 3 {
		t.Errorf("history Len = %d", m.history.Len())
	}
}

func TestModel_Again(t *testing.T) {
	m := testModel(t)
	m, _ = submit(t, m, "g")
	if !strings.Contains(lastLines(m), "Nothing to repeat.") {
		t.Error("expected 'Nothing to repeat.'")
	}
	m, _ = submit(t, m, "spawn 2")
	m, _ = submit(t, m, "again")
	if m.session.Engine.Len() != 4 {
		t.Errorf("Len = %d, want 4", m.session.Engine.Len())
	}
}

func TestModel_StatusBar(t *testing.T) {
	m := testModel(t)
	m, _ = submit(t, m, "add druid D 1 1")
	bar := m.renderStatusBar()
	for _, want := range []string{"Squirrel 0", "Druid 1", "d:20", "B:0"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar %q missing %q", bar, want)
		}
	}

	m.width = 20
	bar = m.renderStatusBar()
	if !strings.Contains(bar, "D:1") {
		t.Errorf("narrow status bar %q missing D:1", bar)
	}
}

func TestModel_View(t *testing.T) {
	m := New(session.New(engine.New(nil), 20, 1), t.TempDir())
	if m.View() != "Loading..." {
		t.Errorf("View before resize = %q", m.View())
	}
	m = testModel(t)
	if !strings.Contains(m.View(), "> ") {
		t.Error("expected prompt in view")
	}
}

func TestHandleMeta_Quit(t *testing.T) {
	m := testModel(t)
	m, cmd := submit(t, m, "/quit")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("expected empty view after quit")
	}
}

func TestHandleMeta_SaveLoad(t *testing.T) {
	m := testModel(t)
	m.session.Step("add druid D 1 1")

	out, quit := m.handleMeta("/save slot")
	if quit || !strings.Contains(out[0], "Arena saved to slot.") {
		t.Errorf("save output = %v", out)
	}
	m.session.Step("clear")

	out, _ = m.handleMeta("/load slot")
	if !strings.Contains(out[0], "Arena loaded from slot") || m.session.Engine.Len() != 1 {
		t.Errorf("load output = %v, Len = %d", out, m.session.Engine.Len())
	}

	out, _ = m.handleMeta("/saves")
	if out[0] != "Saves: slot" {
		t.Errorf("saves output = %v", out)
	}
}

func TestHandleMeta_LoadNonexistent(t *testing.T) {
	m := testModel(t)
	out, _ := m.handleMeta("/load missing")
	if !strings.Contains(out[0], "Load failed") {
		t.Errorf("output = %v", out)
	}
}

func TestHandleMeta_HelpStateUnknown(t *testing.T) {
	m := testModel(t)
	help, _ := m.handleMeta("/help")
	if !strings.Contains(strings.Join(help, "\n"), "PgUp/PgDn") {
		t.Error("expected navigation help")
	}
	state, _ := m.handleMeta("/state")
	if state[0] != "NPCs: 0" {
		t.Errorf("state = %v", state)
	}
	unknown, _ := m.handleMeta("/bogus")
	if !strings.Contains(unknown[0], "Unknown command") {
		t.Errorf("unknown = %v", unknown)
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	m := testModel(t)
	out, _ := m.handleMeta("/trace")
	if !m.trace || out[0] != "Trace output enabled." {
		t.Errorf("trace on: %v %v", m.trace, out)
	}
	m, _ = submit(t, m, "add squirrel S 10 10")
	m, _ = submit(t, m, "add druid D 11 11")
	m, _ = submit(t, m, "fight")
	if !strings.Contains(lastLines(m), "[trace]   Squirrel S [10,10] > Druid D [11,11]") {
		t.Errorf("missing trace lines:\n%s", lastLines(m))
	}

	out, _ = m.handleMeta("/trace")
	if m.trace || out[0] != "Trace output disabled." {
		t.Errorf("trace off: %v %v", m.trace, out)
	}
}

func TestFormatTrace_NoKills(t *testing.T) {
	if lines := formatTrace(types.Result{}); lines != nil {
		t.Errorf("formatTrace = %v", lines)
	}
	lines := formatTrace(types.Result{Kills: []types.KillEvent{{Battle: uuid.Nil}}})
	if len(lines) != 2 {
		t.Errorf("formatTrace = %v", lines)
	}
}
