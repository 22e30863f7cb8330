package local

import (
	"fmt"
	"testing"
	"time"

	"github.com/minevcs/minevcs/internal/history"
	"github.com/stretchr/testify/require"
)

func fixedEmitter() *Emitter {
	e := NewEmitter(nil)
	e.now = func() time.Time { return time.Date(2026, 1, 2, 15, 4, 5, 0, time.Local) }
	return e
}

func drain(ch <-chan string) []string {
	var lines []string
	for {
		select {
		case line, ok := <-ch:
			if !ok {
				return lines
			}
			lines = append(lines, line)
		default:
			return lines
		}
	}
}

func TestEmitter_TimestampsAndFansOut(t *testing.T) {
	e := fixedEmitter()
	a := e.Subscribe()
	b := e.Subscribe()

	e.Emit("Saving user data locally...")
	e.Emitf("Error uploading world: %s ❌", "quota")

	want := []string{
		"[15:04:05] Saving user data locally...",
		"[15:04:05] Error uploading world: quota ❌",
	}
	require.Equal(t, want, drain(a.Lines()))
	require.Equal(t, want, drain(b.Lines()))
}

func TestEmitter_ReplaysBoundedBacklog(t *testing.T) {
	e := fixedEmitter()
	for i := 1; i <= 250; i++ {
		e.Emit(fmt.Sprintf("line %d", i))
	}

	sub := e.Subscribe()
	lines := drain(sub.Lines())

	require.Len(t, lines, history.DefaultCapacity)
	require.Equal(t, "[15:04:05] line 51", lines[0])
	require.Equal(t, "[15:04:05] line 250", lines[len(lines)-1])
}

func TestEmitter_CloseIsIdempotent(t *testing.T) {
	e := fixedEmitter()
	sub := e.Subscribe()
	require.Equal(t, 1, e.Subscribers())

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
	require.Zero(t, e.Subscribers())

	_, ok := <-sub.Lines()
	require.False(t, ok)

	// Emitting after close must not panic.
	e.Emit("after")
}

func TestEmitter_SlowSubscriberDoesNotBlock(t *testing.T) {
	e := fixedEmitter()
	sub := e.Subscribe()

	for i := 0; i < subscriberBuffer+10; i++ {
		e.Emit("x")
	}

	require.Len(t, drain(sub.Lines()), subscriberBuffer)
}
