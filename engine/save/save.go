// Package save implements JSON serialization of an arena session. The roster
// itself is stored in the line format so a save file can be read by eye.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/skirmish/engine"
	"github.com/nathoo/skirmish/engine/codec"
)

// Version is written into every save.
const Version = "1"

var (
	// ErrEmptyName is returned for a blank save slot name.
	ErrEmptyName = errors.New("empty save name")

	// ErrBadName is returned for a slot name that would leave the save
	// directory.
	ErrBadName = errors.New("save name must not contain path separators or ..")
)

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version    string   `json:"version"`
	Distance   float64  `json:"distance"`
	Battles    int      `json:"battles"`
	RNGSeed    int64    `json:"rng_seed"`
	Roster     []string `json:"roster"`
	CommandLog []string `json:"command_log"`
}

// Session is the part of a console session that survives a save.
type Session struct {
	Distance   float64
	Battles    int
	RNGSeed    int64
	CommandLog []string
}

// Save serializes the roster and session settings to JSON bytes.
func Save(e *engine.Engine, s Session) ([]byte, error) {
	npcs := e.NPCs()
	data := SaveData{
		Version:    Version,
		Distance:   s.Distance,
		Battles:    s.Battles,
		RNGSeed:    s.RNGSeed,
		Roster:     make([]string, len(npcs)),
		CommandLog: s.CommandLog,
	}
	for i, n := range npcs {
		data.Roster[i] = codec.EncodeSnapshot(n)
	}
	if data.CommandLog == nil {
		data.CommandLog = []string{}
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	// Ensure slices are never nil after load.
	if sd.Roster == nil {
		sd.Roster = []string{}
	}
	if sd.CommandLog == nil {
		sd.CommandLog = []string{}
	}
	return &sd, nil
}

// Apply replaces the engine's roster with the saved one and returns the
// saved session settings. The roster is untouched if any saved line fails.
func Apply(e *engine.Engine, sd *SaveData) (Session, error) {
	var b strings.Builder
	for _, line := range sd.Roster {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if _, err := e.Replace(strings.NewReader(b.String())); err != nil {
		return Session{}, fmt.Errorf("restoring roster: %w", err)
	}
	return Session{
		Distance:   sd.Distance,
		Battles:    sd.Battles,
		RNGSeed:    sd.RNGSeed,
		CommandLog: sd.CommandLog,
	}, nil
}

// Store keeps named saves as JSON files in a directory.
type Store struct {
	Dir string
}

// Path returns the file used for a save slot.
func (s Store) Path(name string) string {
	return filepath.Join(s.Dir, name+".json")
}

// checkName rejects slot names that are blank or not a plain file name.
func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return nil
}

// Write saves the engine under name, creating the directory if needed.
func (s Store) Write(name string, e *engine.Engine, sess Session) error {
	if err := checkName(name); err != nil {
		return err
	}
	data, err := Save(e, sess)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.Path(name), data, 0o644)
}

// Read restores the save called name into e.
func (s Store) Read(name string, e *engine.Engine) (Session, error) {
	if err := checkName(name); err != nil {
		return Session{}, err
	}
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return Session{}, err
	}
	sd, err := Load(data)
	if err != nil {
		return Session{}, fmt.Errorf("parsing %s: %w", name, err)
	}
	return Apply(e, sd)
}

// List returns the names of saves in the directory, sorted. A missing
// directory has no saves.
func (s Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, ent := range entries {
		if ent.IsDir() || filepath.Ext(ent.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(ent.Name(), ".json"))
	}
	return names, nil
}
