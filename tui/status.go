package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nathoo/skirmish/engine/npc"
)

// kindInitial is the one-letter tag used when the bar is narrow.
func kindInitial(name string) string {
	if name == "" {
		return "?"
	}
	return name[:1]
}

// renderStatusBar produces a full-width inverted status line showing the
// per-kind population, battle distance and battles fought.
func (m Model) renderStatusBar() string {
	s := m.session
	counts := s.Engine.Counts()

	long := make([]string, 0, len(npc.Kinds()))
	short := make([]string, 0, len(npc.Kinds()))
	for _, k := range npc.Kinds() {
		name := npc.KindName(k)
		long = append(long, fmt.Sprintf("%s %d", name, counts[k]))
		short = append(short, fmt.Sprintf("%s:%d", kindInitial(name), counts[k]))
	}

	right := fmt.Sprintf("d:%g B:%d ", s.Distance, s.Battles)
	left := " Arena | " + strings.Join(long, " | ")
	if lipgloss.Width(left)+lipgloss.Width(right)+2 >= m.width {
		left = " " + strings.Join(short, " ")
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
