package main

import (
	"context"
	"errors"
	"fmt"
	stdio "io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/ezrec/umips/asm"
	"github.com/ezrec/umips/cpu"
	"github.com/ezrec/umips/emulator"
	"github.com/ezrec/umips/io"
)

const debugHelp = `commands:
  step [n]          execute n instructions (default 1)
  run               run until a breakpoint, halt or fault
  pause             pause a running program
  break <addr>      set a breakpoint at an address or label
  clear <addr>      clear a breakpoint
  reg [name]        show all registers, or one
  mem <addr> [n]    show n words of memory (default 4)
  input <text>      send a line of console input
  state             show the session state
  reset             reload the program
  quit              leave the debugger
`

// session is an interactive debugger over a served emulator.
type session struct {
	ctx      context.Context
	prog     *asm.Program
	terminal *term.Terminal
	console  *io.Queue
	commands chan emulator.Command
	group    *errgroup.Group
}

func (dbg *session) printf(format string, args ...any) {
	fmt.Fprintf(dbg.terminal, format, args...)
}

// send issues a command, returning the channel its reply arrives on.
func (dbg *session) send(cmd emulator.Command) <-chan emulator.Reply {
	reply := make(chan emulator.Reply, 1)
	cmd.Reply = reply
	if err := dbg.ctx.Err(); err != nil {
		reply <- emulator.Reply{Err: err}
		return reply
	}
	select {
	case dbg.commands <- cmd:
	case <-dbg.ctx.Done():
		reply <- emulator.Reply{Err: dbg.ctx.Err()}
	}
	return reply
}

func (dbg *session) call(cmd emulator.Command) emulator.Reply {
	return <-dbg.send(cmd)
}

// address parses a number or a program label.
func (dbg *session) address(text string) (addr uint32, err error) {
	value, err := asm.ParseInteger(text)
	if err == nil && value >= 0 && value <= 0xffffffff {
		addr = uint32(value)
		return
	}
	sym, ok := dbg.prog.Symbol(text)
	if !ok {
		err = fmt.Errorf("%v: not an address or label", text)
		return
	}
	addr, err = sym.Address, nil
	return
}

// stopped reports why a run or step ended.
func (dbg *session) stopped(reply emulator.Reply) {
	switch {
	case errors.Is(reply.Err, emulator.ErrBreakpoint):
		dbg.printf("breakpoint at %#08x\n", reply.Value)
	case errors.Is(reply.Err, io.ErrInputPending):
		dbg.printf("waiting for console input\n")
	case reply.Err != nil:
		dbg.printf("%v\n", reply.Err)
	}

	switch reply.State {
	case emulator.STATE_HALTED:
		dbg.printf("program halted\n")
	case emulator.STATE_FAULTED:
		dbg.printf("program faulted\n")
	}
}

// execute handles one command line. It returns false to quit.
func (dbg *session) execute(line string) (more bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true, nil
	}
	args := fields[1:]

	switch fields[0] {
	case "help", "?":
		dbg.printf("%s", debugHelp)
	case "q", "quit", "exit":
		return false, nil
	case "s", "step":
		count := 1
		if len(args) > 0 {
			count, err = strconv.Atoi(args[0])
			if err != nil {
				return true, err
			}
		}
		var reply emulator.Reply
		for range count {
			reply = dbg.call(emulator.Command{Kind: emulator.COMMAND_STEP})
			if reply.Err != nil || reply.State.Terminal() {
				dbg.stopped(reply)
				break
			}
		}
		if word, ok := dbg.prog.WordAt(reply.Value); ok {
			dbg.printf("%#08x: %v\n", word.Address, word.Source)
		}
	case "r", "run", "c", "continue":
		reply := dbg.send(emulator.Command{Kind: emulator.COMMAND_RUN})
		dbg.group.Go(func() error {
			dbg.stopped(<-reply)
			return nil
		})
	case "p", "pause":
		dbg.call(emulator.Command{Kind: emulator.COMMAND_PAUSE})
	case "b", "break", "clear":
		if len(args) != 1 {
			return true, fmt.Errorf("%v: address required", fields[0])
		}
		var addr uint32
		addr, err = dbg.address(args[0])
		if err != nil {
			return true, err
		}
		kind := emulator.COMMAND_SET_BREAKPOINT
		if fields[0] == "clear" {
			kind = emulator.COMMAND_CLEAR_BREAKPOINT
		}
		dbg.call(emulator.Command{Kind: kind, Address: addr})
	case "reg":
		if len(args) == 0 {
			for index := range cpu.REGISTER_COUNT {
				reply := dbg.call(emulator.Command{Kind: emulator.COMMAND_READ_REGISTER, Index: index})
				if reply.Err != nil {
					return true, reply.Err
				}
				dbg.printf("%4d: %08x\n", index, reply.Value)
			}
			return true, nil
		}
		var index int
		index, err = cpu.RegisterIndex(args[0])
		if err != nil {
			return true, err
		}
		reply := dbg.call(emulator.Command{Kind: emulator.COMMAND_READ_REGISTER, Index: index})
		if reply.Err != nil {
			return true, reply.Err
		}
		dbg.printf("%v: %#08x (%d)\n", args[0], reply.Value, int32(reply.Value))
	case "mem":
		if len(args) == 0 {
			return true, fmt.Errorf("mem: address required")
		}
		var addr uint32
		addr, err = dbg.address(args[0])
		if err != nil {
			return true, err
		}
		count := 4
		if len(args) > 1 {
			count, err = strconv.Atoi(args[1])
			if err != nil {
				return true, err
			}
		}
		for n := range count {
			at := addr + uint32(n)*4
			reply := dbg.call(emulator.Command{Kind: emulator.COMMAND_READ_MEMORY, Address: at, Width: 4})
			if reply.Err != nil {
				return true, reply.Err
			}
			dbg.printf("%#08x: %08x\n", at, reply.Value)
		}
	case "input":
		dbg.console.Send(strings.Join(args, " ") + "\n")
	case "state":
		reply := dbg.call(emulator.Command{Kind: emulator.COMMAND_STATE})
		dbg.printf("%v\n", reply.State)
	case "reset":
		reply := dbg.call(emulator.Command{Kind: emulator.COMMAND_RESET})
		if reply.Err != nil {
			return true, reply.Err
		}
	default:
		return true, fmt.Errorf("%v: unknown command, try 'help'", fields[0])
	}

	return true, nil
}

// debugger runs an interactive session on the terminal. The program's
// console input is supplied with the 'input' command.
func debugger(ctx context.Context, prog *asm.Program, opts []emulator.Option) (err error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		var state *term.State
		state, err = term.MakeRaw(fd)
		if err != nil {
			return
		}
		defer term.Restore(fd, state)
	}

	screen := struct {
		stdio.Reader
		stdio.Writer
	}{os.Stdin, os.Stdout}
	terminal := term.NewTerminal(screen, "(umips) ")

	console := &io.Queue{Output: terminal}
	emu := emulator.NewEmulator(append(opts, emulator.WithConsole(console))...)
	err = emu.Load(prog)
	if err != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	dbg := &session{
		ctx:      ctx,
		prog:     prog,
		terminal: terminal,
		console:  console,
		commands: make(chan emulator.Command),
		group:    g,
	}

	g.Go(func() error {
		err := emu.Serve(ctx, dbg.commands)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		return err
	})

	g.Go(func() error {
		defer close(dbg.commands)
		for {
			line, err := terminal.ReadLine()
			if err == stdio.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			more, err := dbg.execute(line)
			if err != nil {
				dbg.printf("%v\n", err)
			}
			if !more {
				return nil
			}
		}
	})

	err = g.Wait()
	return
}
