package emulator

import (
	"context"
	"errors"
)

// CommandKind selects a server command.
type CommandKind int

//go:generate go tool stringer -linecomment -type=CommandKind
const (
	COMMAND_STEP             = CommandKind(0) // step
	COMMAND_RUN              = CommandKind(1) // run
	COMMAND_PAUSE            = CommandKind(2) // pause
	COMMAND_RESET            = CommandKind(3) // reset
	COMMAND_SET_BREAKPOINT   = CommandKind(4) // set-breakpoint
	COMMAND_CLEAR_BREAKPOINT = CommandKind(5) // clear-breakpoint
	COMMAND_READ_REGISTER    = CommandKind(6) // read-register
	COMMAND_READ_MEMORY      = CommandKind(7) // read-memory
	COMMAND_STATE            = CommandKind(8) // state
)

// Command is a control request to a served session. Reply must be
// buffered, or read by the caller until answered.
type Command struct {
	Kind    CommandKind
	Address uint32 // For breakpoints and memory reads.
	Index   int    // Register index.
	Width   int    // Memory read width.
	Reply   chan<- Reply
}

// Reply answers a Command. COMMAND_RUN is answered once the run stops.
type Reply struct {
	State State
	Value uint32 // Register or memory value; the PC after a run or step.
	Err   error
}

// Serve runs the session on the calling goroutine, taking every control
// command from commands, until ctx is done or commands is closed. While
// running, commands are polled between instructions.
func (emu *Emulator) Serve(ctx context.Context, commands <-chan Command) (err error) {
	var running chan<- Reply
	var start int

	stop := func(err error) {
		emu.end()
		if running != nil {
			running <- Reply{State: emu.State(), Value: emu.PC, Err: err}
			running = nil
		}
	}
	defer func() {
		if running != nil {
			emu.Pause()
			_, err := emu.iterate(context.Background(), start)
			stop(err)
		}
	}()

	for {
		if running == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case cmd, ok := <-commands:
				if !ok {
					return nil
				}
				if cmd.Kind == COMMAND_RUN {
					err := emu.begin()
					if err != nil {
						cmd.Reply <- Reply{State: emu.State(), Err: err}
						continue
					}
					emu.setState(STATE_RUNNING)
					running = cmd.Reply
					start = emu.Cpu.Ticks
					continue
				}
				cmd.Reply <- emu.command(cmd)
			}
			continue
		}

		select {
		case cmd, ok := <-commands:
			if !ok {
				return nil
			}
			cmd.Reply <- emu.command(cmd)
		default:
		}

		done, err := emu.iterate(ctx, start)
		if done {
			stop(err)
		}
	}
}

// command handles a single non-run command.
func (emu *Emulator) command(cmd Command) (reply Reply) {
	switch cmd.Kind {
	case COMMAND_STEP:
		reply.Err = emu.Step()
		if !errors.Is(reply.Err, ErrRunning) {
			reply.Value = emu.PC
		}
	case COMMAND_RUN:
		reply.Err = ErrRunning
	case COMMAND_PAUSE:
		emu.Pause()
	case COMMAND_RESET:
		reply.Err = emu.Reset()
	case COMMAND_SET_BREAKPOINT:
		emu.SetBreakpoint(cmd.Address)
	case COMMAND_CLEAR_BREAKPOINT:
		emu.ClearBreakpoint(cmd.Address)
	case COMMAND_READ_REGISTER:
		reply.Value, reply.Err = emu.ReadRegister(cmd.Index)
	case COMMAND_READ_MEMORY:
		reply.Value, reply.Err = emu.ReadMemory(cmd.Address, cmd.Width)
	case COMMAND_STATE:
	default:
		reply.Err = ErrCommand
	}

	reply.State = emu.State()
	return
}
