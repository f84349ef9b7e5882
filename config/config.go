// Package config holds the settings shared by the assembler and the
// simulator, as read from a TOML settings file.
package config

import (
	"maps"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/umips/asm"
	"github.com/ezrec/umips/emulator"
	"github.com/ezrec/umips/mem"
)

// Settings for a session.
type Settings struct {
	Layout            string            `toml:"layout"`
	DelayedBranching  bool              `toml:"delayed_branching"`
	ExtendedAssembler bool              `toml:"extended_assembler"`
	WarningsAreErrors bool              `toml:"warnings_are_errors"`
	StartAtMain       bool              `toml:"start_at_main"`
	SelfModifyingCode bool              `toml:"self_modifying_code"`
	MaxSteps          int               `toml:"max_steps"`
	Verbose           bool              `toml:"verbose"`
	Equates           map[string]string `toml:"equates"`
	Breakpoints       []string          `toml:"breakpoints"` // Addresses or labels.
}

// Default returns the default settings.
func Default() (settings *Settings) {
	settings = &Settings{
		Layout:            mem.LayoutDefault.Name,
		DelayedBranching:  true,
		ExtendedAssembler: true,
	}
	return
}

// Load reads settings from a TOML file, over the defaults.
func Load(path string) (settings *Settings, err error) {
	settings = Default()
	md, err := toml.DecodeFile(path, settings)
	if err != nil {
		return nil, err
	}
	return settings.decoded(md)
}

// Parse reads settings from TOML text, over the defaults.
func Parse(text string) (settings *Settings, err error) {
	settings = Default()
	md, err := toml.Decode(text, settings)
	if err != nil {
		return nil, err
	}
	return settings.decoded(md)
}

func (settings *Settings) decoded(md toml.MetaData) (*Settings, error) {
	if keys := md.Undecoded(); len(keys) != 0 {
		var undecoded ErrUndecoded
		for _, key := range keys {
			undecoded = append(undecoded, key.String())
		}
		return nil, undecoded
	}

	err := settings.Validate()
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks the settings for consistency.
func (settings *Settings) Validate() (err error) {
	_, err = mem.LayoutByName(settings.Layout)
	if err != nil {
		return
	}
	if settings.MaxSteps < 0 {
		err = ErrMaxSteps
	}
	return
}

// Assembler returns an assembler configured by the settings.
func (settings *Settings) Assembler() (assembler *asm.Assembler, err error) {
	layout, err := mem.LayoutByName(settings.Layout)
	if err != nil {
		return
	}

	assembler = asm.NewAssembler()
	assembler.Verbose = settings.Verbose
	assembler.Layout = layout
	assembler.ExtendedAssembler = settings.ExtendedAssembler
	assembler.WarningsAreErrors = settings.WarningsAreErrors
	assembler.StartAtMain = settings.StartAtMain

	for _, name := range slices.Sorted(maps.Keys(settings.Equates)) {
		assembler.Predefine(name, settings.Equates[name])
	}
	return
}

// Options returns the emulator options of the settings. Breakpoints are
// resolved separately, once a program is assembled.
func (settings *Settings) Options() (opts []emulator.Option, err error) {
	layout, err := mem.LayoutByName(settings.Layout)
	if err != nil {
		return
	}

	opts = []emulator.Option{
		emulator.WithVerbose(settings.Verbose),
		emulator.WithLayout(layout),
		emulator.WithDelayedBranching(settings.DelayedBranching),
		emulator.WithSelfModifyingCode(settings.SelfModifyingCode),
		emulator.WithMaxSteps(settings.MaxSteps),
	}
	return
}

// ResolveBreakpoints converts the breakpoints to addresses, looking up
// labels in the program.
func (settings *Settings) ResolveBreakpoints(prog *asm.Program) (addrs []uint32, err error) {
	for _, bp := range settings.Breakpoints {
		value, perr := asm.ParseInteger(bp)
		if perr == nil && value >= 0 && value <= 0xffffffff {
			addrs = append(addrs, uint32(value))
			continue
		}

		sym, ok := prog.Symbol(bp)
		if !ok {
			err = ErrBreakpoint(bp)
			return
		}
		addrs = append(addrs, sym.Address)
	}
	return
}
