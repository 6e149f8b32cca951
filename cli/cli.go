// Package cli provides line-mode terminal I/O and meta-command dispatch for
// the skirmish arena.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/skirmish/engine/npc"
	"github.com/nathoo/skirmish/engine/save"
	"github.com/nathoo/skirmish/engine/session"
	"github.com/nathoo/skirmish/types"
)

// CLI handles terminal interaction with the user.
type CLI struct {
	Session   *session.Session
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given session.
func New(s *session.Session) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Session: s,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".skirmish", "rosters"),
	}
}

// Run shows the banner then loops: prompt → input → dispatch → output.
func (c *CLI) Run() {
	c.printLine("Skirmish arena. Type /help for commands.")
	c.printLine(fmt.Sprintf("%d npcs in the arena, battle distance %g.",
		c.Session.Engine.Len(), c.Session.Distance))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last arena command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.printResult(c.Session.Step(input))
	}
}

// handleMeta dispatches meta-commands. Returns true if the session should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/saves":
		c.cmdSaves()

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) store() save.Store {
	return save.Store{Dir: c.SaveDir}
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}
	if err := c.store().Write(name, c.Session.Engine, c.Session.State()); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Arena saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}
	st, err := c.store().Read(name, c.Session.Engine)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.Session.Restore(st)
	c.printSystem(fmt.Sprintf("Arena loaded from %s (%d npcs, %d battles).",
		name, c.Session.Engine.Len(), st.Battles))
}

func (c *CLI) cmdSaves() {
	names, err := c.store().List()
	if err != nil {
		c.printSystem(fmt.Sprintf("Listing saves failed: %v", err))
		return
	}
	if len(names) == 0 {
		c.printSystem("No saves.")
		return
	}
	c.printSystem("Saves: " + strings.Join(names, ", "))
}

// HelpLines is the command summary shared with the TUI.
var HelpLines = []string{
	"System:",
	"  /save [name]  Save the arena (default: quicksave)",
	"  /load [name]  Load the arena (default: quicksave)",
	"  /saves        List saves",
	"  /quit         Exit",
	"  /help         Show this help",
	"  /state        Debug: dump session state",
	"",
	"Arena commands:",
	"  add <kind> <name> <x> <y>  Place a Squirrel, Werewolf or Druid",
	"  fight [distance] (f)       Run one battle",
	"  list (ls)                  Show the roster",
	"  show <name> (x)            Describe one npc",
	"  spawn <count>              Add random npcs",
	"  rules                      Show who kills whom",
	"  stats                      Count npcs by kind",
	"  distance [d]               Show or set the battle distance",
	"  clear                      Remove every npc",
	"  again (g)                  Repeat your last command",
}

func (c *CLI) cmdHelp() {
	for _, line := range HelpLines {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Session
	c.printSystem(fmt.Sprintf("NPCs: %d", s.Engine.Len()))
	counts := s.Engine.Counts()
	for _, k := range npc.Kinds() {
		c.printSystem(fmt.Sprintf("%s: %d", npc.KindName(k), counts[k]))
	}
	c.printSystem(fmt.Sprintf("Distance: %g", s.Distance))
	c.printSystem(fmt.Sprintf("Battles: %d", s.Battles))
	c.printSystem(fmt.Sprintf("Seed: %d (draws: %d)", s.RNG.Seed(), s.RNG.Position()))
	c.printSystem(fmt.Sprintf("Observers: %d", s.Engine.Observers()))
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "{%s}\n", text)
}
