package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nathoo/skirmish/engine/codec"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePlain = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleRoster = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleHeader = lipgloss.NewStyle().
			Bold(true)

	styleKill = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindPlain lineKind = iota
	kindRoster
	kindHeader
	kindKill
	kindError
	kindTrace
)

var errorPrefixes = []string{
	"Cannot ", "Bad ", "Usage:", "I don't know", "no npc called", "which ", "Spawn failed",
}

var headerPrefixes = []string{
	"Before battle", "After battle", "Battle over",
}

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	if strings.HasPrefix(line, "[trace]") {
		return kindTrace
	}
	if strings.Contains(line, "] killed by [") {
		return kindKill
	}
	if _, err := codec.Decode(line); err == nil {
		return kindRoster
	}
	for _, p := range headerPrefixes {
		if strings.HasPrefix(line, p) {
			return kindHeader
		}
	}
	for _, p := range errorPrefixes {
		if strings.HasPrefix(line, p) {
			return kindError
		}
	}
	return kindPlain
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindRoster:
		return styleRoster.Render(line)
	case kindHeader:
		return styleHeader.Render(line)
	case kindKill:
		return styleKill.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return stylePlain.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with braces.
func styledSystemMsg(text string) string {
	return styleSystem.Render("{" + text + "}")
}
