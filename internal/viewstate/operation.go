// Package viewstate sequences lifecycle calls for display layers and exposes
// their progress as observable state.
//
// Every client-visible operation shares one shape:
//
//	Idle -> Submitting -> Success | Failed(reason)
//
// Success and Failed return to Idle only through an explicit Reset.
// Nothing is retried automatically.
package viewstate

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mmynk/studentbook/internal/records"
)

// ErrBusy is returned when an operation is invoked while a previous attempt is still submitting.
var ErrBusy = errors.New("operation already in progress")

// Phase is a step in the operation state machine.
type Phase int

const (
	Idle Phase = iota
	Submitting
	Success
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of an operation. Reason is set only when Phase is Failed.
type State struct {
	Phase  Phase
	Reason string
}

// Operation tracks one client-visible operation. The zero value is not usable; use NewOperation.
type Operation struct {
	mu     sync.Mutex
	state  State
	subs   map[int]chan State
	nextID int
}

// NewOperation returns an operation in the Idle phase.
func NewOperation() *Operation {
	return &Operation{subs: make(map[int]chan State)}
}

// State returns the current state.
func (o *Operation) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Subscribe returns a stream of state changes, starting with the current state.
// The stream conflates: a slow reader sees the latest state, not every transition.
// Call cancel to stop receiving; the channel is closed afterwards.
func (o *Operation) Subscribe() (<-chan State, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ch := make(chan State, 1)
	ch <- o.state
	id := o.nextID
	o.nextID++
	o.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// errPanicked is the failure recorded when an attempt panics.
var errPanicked = errors.New("Unexpected error")

// Run executes fn as one attempt: Submitting, then Success if fn returns nil or
// Failed with the error's reason. It returns ErrBusy without calling fn if an
// attempt is already submitting. A panic in fn leaves the operation Failed and
// is then re-raised.
func (o *Operation) Run(ctx context.Context, fn func(ctx context.Context) error) (State, error) {
	if !o.begin() {
		return o.State(), ErrBusy
	}
	state, recovered := o.attempt(ctx, fn)
	if recovered != nil {
		panic(recovered)
	}
	return state, nil
}

// Start is Run on a separate goroutine. The returned channel receives the final
// state and is then closed. A panic in fn is logged and reported as Failed.
func (o *Operation) Start(ctx context.Context, fn func(ctx context.Context) error) (<-chan State, error) {
	if !o.begin() {
		return nil, ErrBusy
	}
	done := make(chan State, 1)
	go func() {
		defer close(done)
		state, recovered := o.attempt(ctx, fn)
		if recovered != nil {
			slog.Error("Operation panicked", "panic", recovered)
		}
		done <- state
	}()
	return done, nil
}

// attempt runs fn and always leaves Submitting, returning any recovered panic value.
func (o *Operation) attempt(ctx context.Context, fn func(ctx context.Context) error) (state State, recovered any) {
	defer func() {
		if r := recover(); r != nil {
			recovered = r
			state = o.finish(errPanicked)
		}
	}()
	return o.finish(fn(ctx)), nil
}

// Reset returns a finished operation to Idle. It has no effect while submitting.
func (o *Operation) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Phase == Submitting {
		return
	}
	o.setLocked(State{Phase: Idle})
}

func (o *Operation) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Phase == Submitting {
		return false
	}
	o.setLocked(State{Phase: Submitting})
	return true
}

func (o *Operation) finish(err error) State {
	next := State{Phase: Success}
	if err != nil {
		next = State{Phase: Failed, Reason: records.Reason(err)}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.setLocked(next)
	return next
}

// fail moves straight to Failed, used for caller-side checks that never reach the lifecycle layer.
func (o *Operation) fail(reason string) (State, error) {
	if !o.begin() {
		return o.State(), ErrBusy
	}
	return o.finish(errors.New(reason)), nil
}

func (o *Operation) setLocked(s State) {
	o.state = s
	for _, ch := range o.subs {
		// Drop the stale value so the newest state always fits.
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}
