package rowan

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/hajimehoshi/ebiten/v2"
)

// bindingsFile is the decoded shape of a TOML bindings file:
//
//	[actions]
//	left  = ["ArrowLeft", "A"]
//	right = ["ArrowRight", "D"]
//	jump  = ["Space"]
//
// Key names follow ebiten.Key's text form (the Key name without the
// leading "Key"). Decoding goes through ebiten.Key.UnmarshalText, so an
// unknown key name is a decode error, not a silent miss.
type bindingsFile struct {
	Actions map[string][]ebiten.Key `toml:"actions"`
}

// LoadBindings reads a TOML bindings file and registers its actions.
func (in *Input) LoadBindings(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("rowan: failed to read bindings file: %w", err)
	}
	return in.ApplyBindings(data)
}

// ApplyBindings parses TOML bindings data and registers each action with
// its keys. Actions are registered in sorted name order so dispatch order
// is deterministic regardless of table order; actions already registered
// keep their position and get the new bindings.
func (in *Input) ApplyBindings(data []byte) error {
	var file bindingsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("rowan: failed to parse bindings: %w", err)
	}
	if len(file.Actions) == 0 {
		return fmt.Errorf("rowan: bindings data has no [actions] table")
	}

	names := make([]string, 0, len(file.Actions))
	for name := range file.Actions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		in.RegisterAction(name, file.Actions[name]...)
	}
	return nil
}
