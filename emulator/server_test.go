package emulator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ezrec/umips/isa"
)

// client sends commands to a served session.
type client chan Command

func (c client) send(cmd Command) <-chan Reply {
	reply := make(chan Reply, 1)
	cmd.Reply = reply
	c <- cmd
	return reply
}

func (c client) call(cmd Command) Reply {
	return <-c.send(cmd)
}

func TestServe(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newSession(t, `	li $t0, 7
	li $t1, 8
	addu $t2, $t0, $t1
	li $v0, 17
	li $a0, 4
	syscall
`)

	commands := make(client)
	var g errgroup.Group
	g.Go(func() error {
		return emu.Serve(context.Background(), commands)
	})

	reply := commands.call(Command{Kind: COMMAND_SET_BREAKPOINT, Address: 0x00400008})
	assert.NoError(reply.Err)
	assert.Equal(STATE_LOADED, reply.State)

	reply = commands.call(Command{Kind: COMMAND_RUN})
	assert.ErrorIs(reply.Err, ErrBreakpoint)
	assert.Equal(STATE_PAUSED, reply.State)
	assert.Equal(uint32(0x00400008), reply.Value)

	reply = commands.call(Command{Kind: COMMAND_READ_REGISTER, Index: isa.REG_T0 + 1})
	assert.NoError(reply.Err)
	assert.Equal(uint32(8), reply.Value)

	reply = commands.call(Command{Kind: COMMAND_STEP})
	assert.NoError(reply.Err)
	assert.Equal(uint32(0x0040000c), reply.Value)

	reply = commands.call(Command{Kind: COMMAND_READ_REGISTER, Index: isa.REG_T0 + 2})
	assert.Equal(uint32(15), reply.Value)

	reply = commands.call(Command{Kind: COMMAND_READ_MEMORY, Address: 0x00400000, Width: 4})
	assert.NoError(reply.Err)
	assert.Equal(uint32(0x24080007), reply.Value)

	reply = commands.call(Command{Kind: COMMAND_CLEAR_BREAKPOINT, Address: 0x00400008})
	assert.NoError(reply.Err)

	reply = commands.call(Command{Kind: COMMAND_RUN})
	assert.NoError(reply.Err)
	assert.Equal(STATE_HALTED, reply.State)
	assert.Equal(int32(4), emu.ExitCode())

	reply = commands.call(Command{Kind: COMMAND_RESET})
	assert.NoError(reply.Err)
	assert.Equal(STATE_LOADED, reply.State)

	reply = commands.call(Command{Kind: CommandKind(99)})
	assert.ErrorIs(reply.Err, ErrCommand)

	close(commands)
	assert.NoError(g.Wait())
}

func TestServePause(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newSession(t, "loop:\tj loop\n\tnop\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	commands := make(client)
	var g errgroup.Group
	g.Go(func() error {
		return emu.Serve(ctx, commands)
	})

	running := commands.send(Command{Kind: COMMAND_RUN})

	reply := commands.call(Command{Kind: COMMAND_STATE})
	assert.Equal(STATE_RUNNING, reply.State)

	reply = commands.call(Command{Kind: COMMAND_READ_REGISTER, Index: isa.REG_T0})
	assert.ErrorIs(reply.Err, ErrRunning)

	reply = commands.call(Command{Kind: COMMAND_STEP})
	assert.ErrorIs(reply.Err, ErrRunning)

	reply = commands.call(Command{Kind: COMMAND_RUN})
	assert.ErrorIs(reply.Err, ErrRunning)

	reply = commands.call(Command{Kind: COMMAND_PAUSE})
	assert.NoError(reply.Err)

	reply = <-running
	assert.NoError(reply.Err)
	assert.Equal(STATE_PAUSED, reply.State)
	assert.Greater(emu.Steps(), 0)

	cancel()
	require.ErrorIs(t, g.Wait(), context.Canceled)
}
