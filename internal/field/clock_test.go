package field

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitTask(t *testing.T, loop *Loop) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, loop.Next(ctx))
}

func TestLoop_QueuesCallbacks(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Unix(100, 0))
	loop := NewLoop(WrapClock(fake))
	var fired []string
	loop.AfterFunc(time.Second, func() { fired = append(fired, "early") })
	stopped := loop.AfterFunc(time.Second, func() { fired = append(fired, "stopped") })
	assert.Equal(t, 2, loop.Pending())

	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())
	assert.Equal(t, 1, loop.Pending())

	fake.Advance(500 * time.Millisecond)
	assert.Zero(t, loop.RunPending())

	fake.Advance(time.Second)
	waitTask(t, loop)
	assert.Equal(t, []string{"early"}, fired, "callbacks only run when the loop is drained")
	assert.Zero(t, loop.Pending())
	assert.Equal(t, time.Unix(101, int64(500*time.Millisecond)), loop.Now())
}

func TestLoop_StoppedAfterFiring(t *testing.T) {
	fake := clockwork.NewFakeClock()
	loop := NewLoop(WrapClock(fake))
	ran := false
	timer := loop.AfterFunc(time.Second, func() { ran = true })

	fake.Advance(time.Second)
	assert.True(t, timer.Stop(), "a queued callback can still be cancelled")
	loop.Post(func() {})
	waitTask(t, loop)
	loop.RunPending()
	assert.False(t, ran)
	assert.Zero(t, loop.Pending())
}

func TestLoop_Run(t *testing.T) {
	loop := NewLoop(SystemClock)
	done := make(chan struct{})
	loop.AfterFunc(time.Millisecond, func() { close(done) })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go func() {
		<-done
		cancel()
	}()

	err := loop.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
