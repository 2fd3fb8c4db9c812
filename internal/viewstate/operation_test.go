package viewstate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/studentbook/internal/records"
)

func TestOperation_SuccessAndReset(t *testing.T) {
	op := NewOperation()
	assert.Equal(t, Idle, op.State().Phase)

	state, err := op.Run(context.Background(), func(context.Context) error {
		assert.Equal(t, Submitting, op.State().Phase)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, State{Phase: Success}, state)
	assert.Equal(t, Success, op.State().Phase)

	op.Reset()
	assert.Equal(t, State{Phase: Idle}, op.State())
}

func TestOperation_FailedCarriesReason(t *testing.T) {
	op := NewOperation()

	state, err := op.Run(context.Background(), func(context.Context) error {
		return &records.Error{Kind: records.ErrValidation, Reason: "Name is mandatory"}
	})
	require.NoError(t, err)
	assert.Equal(t, State{Phase: Failed, Reason: "Name is mandatory"}, state)
}

func TestOperation_RejectsWhileSubmitting(t *testing.T) {
	op := NewOperation()
	release := make(chan struct{})

	done, err := op.Start(context.Background(), func(context.Context) error {
		<-release
		return nil
	})
	require.NoError(t, err)

	calls := 0
	_, err = op.Run(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, ErrBusy)
	assert.Zero(t, calls)

	op.Reset()
	assert.Equal(t, Submitting, op.State().Phase, "reset has no effect while submitting")

	close(release)
	final := <-done
	assert.Equal(t, Success, final.Phase)

	_, open := <-done
	assert.False(t, open)
}

func TestOperation_NoAutomaticRetry(t *testing.T) {
	op := NewOperation()
	calls := 0

	state, err := op.Run(context.Background(), func(context.Context) error {
		calls++
		return errors.New("Failed to add student")
	})
	require.NoError(t, err)
	assert.Equal(t, Failed, state.Phase)
	assert.Equal(t, 1, calls)

	// A new attempt is allowed straight from Failed.
	state, err = op.Run(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, Success, state.Phase)
	assert.Equal(t, 2, calls)
}

func TestOperation_SubscribeConflates(t *testing.T) {
	op := NewOperation()
	states, cancel := op.Subscribe()
	defer cancel()

	assert.Equal(t, Idle, (<-states).Phase)

	_, err := op.Run(context.Background(), func(context.Context) error { return nil })
	require.NoError(t, err)

	// Submitting was overwritten by Success before we read.
	select {
	case s := <-states:
		assert.Equal(t, Success, s.Phase)
	case <-time.After(time.Second):
		t.Fatal("expected a state")
	}

	cancel()
	_, open := <-states
	assert.False(t, open)
	cancel() // idempotent
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "submitting", Submitting.String())
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

func TestOperation_PanicLeavesFailed(t *testing.T) {
	op := NewOperation()

	assert.PanicsWithValue(t, "boom", func() {
		_, _ = op.Run(context.Background(), func(context.Context) error { panic("boom") })
	})
	assert.Equal(t, State{Phase: Failed, Reason: "Unexpected error"}, op.State())

	state, err := op.Run(context.Background(), func(context.Context) error { return nil })
	require.NoError(t, err, "a panicked attempt must not leave the operation busy")
	assert.Equal(t, Success, state.Phase)
}

func TestOperation_StartRecoversPanic(t *testing.T) {
	op := NewOperation()

	done, err := op.Start(context.Background(), func(context.Context) error { panic("boom") })
	require.NoError(t, err)

	select {
	case state := <-done:
		assert.Equal(t, Failed, state.Phase)
	case <-time.After(time.Second):
		t.Fatal("panicked attempt never finished")
	}
	assert.Equal(t, Failed, op.State().Phase)
}
