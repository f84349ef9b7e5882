// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/ezrec/umips/asm"
	"github.com/ezrec/umips/config"
	"github.com/ezrec/umips/emulator"
	"github.com/ezrec/umips/io"
	"github.com/ezrec/umips/mem"
)

// breakpoints collects repeated -b flags.
type breakpoints []string

func (bp *breakpoints) String() string {
	return strings.Join(*bp, ",")
}

func (bp *breakpoints) Set(value string) error {
	*bp = append(*bp, value)
	return nil
}

// options are the parsed command line.
type options struct {
	assembleOnly bool
	dump         string
	segment      string
	output       string
	debug        bool
	input        string
	files        []string
	settings     *config.Settings
}

// parseArgs parses the command line, layering the flags over the
// settings file named by -c.
func parseArgs(name string, args []string) (opts *options, err error) {
	opts = &options{}

	var settingsFile string
	var layout string
	var breaks breakpoints
	var maxSteps int
	var verbose bool

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.BoolVar(&opts.assembleOnly, "a", false, "Assemble only, do not simulate")
	flags.StringVar(&opts.dump, "dump", "", "Dump a segment after assembly (binary, hextext, binarytext, ascii)")
	flags.StringVar(&opts.segment, "s", "text", "Segment to dump")
	flags.StringVar(&opts.output, "o", "-", "Dump output")
	flags.BoolVar(&opts.debug, "g", false, "Interactive debugger")
	flags.StringVar(&settingsFile, "c", "", "Settings .toml file")
	flags.StringVar(&layout, "m", "", fmt.Sprintf("Memory layout (%v)", strings.Join(mem.LayoutNames(), ", ")))
	flags.StringVar(&opts.input, "i", "-", "Console input")
	flags.Var(&breaks, "b", "Breakpoint address or label (repeatable)")
	flags.IntVar(&maxSteps, "max", 0, "Maximum instructions to execute, 0 for no limit")
	flags.BoolVar(&verbose, "v", false, "Verbose mode")

	err = flags.Parse(args)
	if err != nil {
		return nil, err
	}

	opts.files = flags.Args()
	if len(opts.files) == 0 {
		return nil, ErrNoSources
	}

	if len(opts.dump) != 0 {
		_, err = mem.ParseDumpFormat(opts.dump)
		if err != nil {
			return nil, err
		}
	}

	opts.settings = config.Default()
	if len(settingsFile) != 0 {
		opts.settings, err = config.Load(settingsFile)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", settingsFile, err)
		}
	}

	flags.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "m":
			opts.settings.Layout = layout
		case "max":
			opts.settings.MaxSteps = maxSteps
		case "v":
			opts.settings.Verbose = verbose
		}
	})
	opts.settings.Breakpoints = append(opts.settings.Breakpoints, breaks...)

	err = opts.settings.Validate()
	if err != nil {
		return nil, err
	}
	return
}

func main() {
	opts, err := parseArgs(os.Args[0], os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	settings := opts.settings

	prog, err := assemble(settings, opts.files)
	if err != nil {
		var list asm.ErrorList
		if errors.As(err, &list) {
			for _, item := range list {
				fmt.Fprintln(os.Stderr, item)
			}
			os.Exit(1)
		}
		log.Fatal(err)
	}
	for _, warning := range prog.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %v\n", warning)
	}

	if len(opts.dump) != 0 {
		err = dumpSegment(prog, opts.dump, opts.segment, opts.output)
		if err != nil {
			log.Fatalf("%v: %v", opts.output, err)
		}
	}

	if opts.assembleOnly {
		return
	}

	emuOpts, err := settings.Options()
	if err != nil {
		log.Fatal(err)
	}
	addrs, err := settings.ResolveBreakpoints(prog)
	if err != nil {
		log.Fatal(err)
	}
	emuOpts = append(emuOpts, emulator.WithBreakpoints(addrs...))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if opts.debug {
		err = debugger(ctx, prog, emuOpts)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	tape := &io.Tape{Input: os.Stdin, Output: os.Stdout}
	if opts.input != "-" {
		inf, err := os.Open(opts.input)
		if err != nil {
			log.Fatalf("%v: %v", opts.input, err)
		}
		defer inf.Close()
		tape.Input = inf
	}
	emuOpts = append(emuOpts, emulator.WithConsole(tape))

	code, err := run(ctx, prog, emuOpts)
	if err != nil {
		log.Print(err)
	}
	stop()
	os.Exit(code)
}

// assemble reads and assembles the source files.
func assemble(settings *config.Settings, paths []string) (prog *asm.Program, err error) {
	assembler, err := settings.Assembler()
	if err != nil {
		return
	}

	var files []asm.Source
	for _, path := range paths {
		inf, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer inf.Close()
		files = append(files, asm.Source{Name: path, Input: inf})
	}

	prog, err = assembler.Assemble(files...)
	return
}

// dumpSegment writes one segment of the assembled image.
func dumpSegment(prog *asm.Program, format string, segment string, output string) (err error) {
	dumpFormat, err := mem.ParseDumpFormat(format)
	if err != nil {
		return
	}

	kind := mem.KIND_TEXT
	for ; kind <= mem.KIND_MMIO; kind++ {
		if kind.String() == segment {
			break
		}
	}
	if kind > mem.KIND_MMIO {
		err = ErrSegment(segment)
		return
	}

	memory := mem.NewMemory(prog.Layout)
	err = prog.Load(memory)
	if err != nil {
		return
	}

	w := os.Stdout
	if output != "-" {
		w, err = os.Create(output)
		if err != nil {
			return
		}
		defer w.Close()
	}

	var end uint32
	if kind == mem.KIND_TEXT {
		end = prog.TextEnd
	}
	err = memory.DumpSegment(w, dumpFormat, kind, end)
	return
}

// run simulates the program to completion, reporting breakpoints as they
// are passed. The returned code is the program's exit code, or 2 if it
// faulted.
func run(ctx context.Context, prog *asm.Program, opts []emulator.Option) (code int, err error) {
	emu := emulator.NewEmulator(opts...)
	err = emu.Load(prog)
	if err != nil {
		return 2, err
	}

	for {
		err = emu.Run(ctx)
		if !errors.Is(err, emulator.ErrBreakpoint) {
			break
		}
		fmt.Fprintf(os.Stderr, "breakpoint at %#08x (line %d)\n%v", emu.PC, emu.LineNo(), &emu.Registers)
	}

	switch emu.State() {
	case emulator.STATE_HALTED:
		return int(emu.ExitCode()), nil
	case emulator.STATE_FAULTED:
		fault, _ := emu.FaultInfo()
		return 2, fault
	}

	if err == nil {
		err = emulator.ErrRunning
	}
	return 2, err
}
