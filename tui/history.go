package tui

// History keeps the most recent commands typed at the prompt and a cursor
// for Up/Down navigation.
type History struct {
	entries []string
	limit   int
	cursor  int // -1 when not navigating
}

// NewHistory creates a history holding at most limit commands.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{
		entries: make([]string, 0, limit),
		limit:   limit,
		cursor:  -1,
	}
}

// Push records a command. Blank commands and repeats of the newest entry are
// not recorded.
func (h *History) Push(cmd string) {
	if cmd == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Len returns the number of stored commands.
func (h *History) Len() int {
	return len(h.entries)
}

// Prev steps back to an older command. It stays on the oldest one once
// reached.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps forward to a newer command. Past the newest it returns false
// and navigation ends.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// ResetCursor ends navigation.
func (h *History) ResetCursor() {
	h.cursor = -1
}
