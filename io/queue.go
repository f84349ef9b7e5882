package io

import (
	"bytes"
	"io"
	"sync"
)

// Queue is a non-blocking console.
//
// Input is supplied with Send from any goroutine. A read that cannot be
// satisfied from the queued input returns ErrInputPending, and leaves the
// queue untouched so the caller can retry after more input arrives. Once
// Close is called, partial lines are returned and an empty queue reads as
// io.EOF.
//
// Output goes to Output when set, and is otherwise collected for Drain.
type Queue struct {
	Output io.Writer

	mutex   sync.Mutex
	input   []byte
	output  bytes.Buffer
	closed  bool
	waiting chan struct{}
}

var _ Console = (*Queue)(nil)

// Send queues input bytes.
func (qc *Queue) Send(text string) {
	qc.mutex.Lock()
	defer qc.mutex.Unlock()

	qc.input = append(qc.input, text...)
	qc.wake()
}

// Close marks the end of input.
func (qc *Queue) Close() {
	qc.mutex.Lock()
	defer qc.mutex.Unlock()

	qc.closed = true
	qc.wake()
}

// Pending returns the number of queued input bytes.
func (qc *Queue) Pending() int {
	qc.mutex.Lock()
	defer qc.mutex.Unlock()

	return len(qc.input)
}

// Ready returns a channel that is closed when input is next sent, or the
// queue is closed.
func (qc *Queue) Ready() <-chan struct{} {
	qc.mutex.Lock()
	defer qc.mutex.Unlock()

	if qc.waiting == nil {
		qc.waiting = make(chan struct{})
	}

	return qc.waiting
}

func (qc *Queue) wake() {
	if qc.waiting != nil {
		close(qc.waiting)
		qc.waiting = nil
	}
}

// Rewind discards queued input, and reopens a closed queue.
func (qc *Queue) Rewind() {
	qc.mutex.Lock()
	defer qc.mutex.Unlock()

	qc.input = nil
	qc.closed = false
}

// ReadLine returns the next complete line.
func (qc *Queue) ReadLine() (line string, err error) {
	qc.mutex.Lock()
	defer qc.mutex.Unlock()

	n := bytes.IndexByte(qc.input, '\n')
	switch {
	case n >= 0:
		n++
	case !qc.closed:
		err = ErrInputPending
		return
	case len(qc.input) == 0:
		err = io.EOF
		return
	default:
		n = len(qc.input)
	}

	line = string(qc.input[:n])
	qc.input = qc.input[n:]
	return
}

// ReadByte returns the next queued byte.
func (qc *Queue) ReadByte() (b byte, err error) {
	qc.mutex.Lock()
	defer qc.mutex.Unlock()

	if len(qc.input) == 0 {
		if qc.closed {
			err = io.EOF
		} else {
			err = ErrInputPending
		}
		return
	}

	b = qc.input[0]
	qc.input = qc.input[1:]
	return
}

// Write sends bytes to Output, or collects them for Drain.
func (qc *Queue) Write(data []byte) (n int, err error) {
	qc.mutex.Lock()
	defer qc.mutex.Unlock()

	if qc.Output != nil {
		return qc.Output.Write(data)
	}

	return qc.output.Write(data)
}

// Drain returns and clears the collected output.
func (qc *Queue) Drain() (text string) {
	qc.mutex.Lock()
	defer qc.mutex.Unlock()

	text = qc.output.String()
	qc.output.Reset()
	return
}
