// Package viewstate models the lifecycle of one remote data load as seen by
// a client screen: nothing requested yet, in flight, loaded, or failed.
package viewstate

import (
	"context"
	"errors"
	"fmt"
)

type Kind int

const (
	Idle Kind = iota
	Loading
	Success
	Failed
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// State holds exactly one of: no payload (Idle, Loading), Data (Success) or
// Message (Failed).
type State[T any] struct {
	kind    Kind
	data    T
	message string
}

func NewIdle[T any]() State[T] {
	return State[T]{kind: Idle}
}

func NewLoading[T any]() State[T] {
	return State[T]{kind: Loading}
}

func NewSuccess[T any](data T) State[T] {
	return State[T]{kind: Success, data: data}
}

func NewFailed[T any](message string) State[T] {
	return State[T]{kind: Failed, message: message}
}

func (s State[T]) Kind() Kind { return s.kind }

// Data returns the payload and whether the state is Success.
func (s State[T]) Data() (T, bool) {
	if s.kind != Success {
		var zero T
		return zero, false
	}
	return s.data, true
}

// Message returns the failure message and whether the state is Failed.
func (s State[T]) Message() (string, bool) {
	if s.kind != Failed {
		return "", false
	}
	return s.message, true
}

// Start moves Idle, Success or Failed into Loading. A state that is already
// Loading is returned unchanged.
func (s State[T]) Start() State[T] {
	return NewLoading[T]()
}

// Finish settles a Loading state from the outcome of fn. Calling it on any
// other state is a programming error and yields ErrNotLoading.
func (s State[T]) Finish(data T, err error) (State[T], error) {
	if s.kind != Loading {
		return s, ErrNotLoading
	}
	if err != nil {
		return NewFailed[T](err.Error()), nil
	}
	return NewSuccess(data), nil
}

var ErrNotLoading = errors.New("viewstate: finish called outside loading")

// Load runs fn and reports each transition to notify: Loading first, then
// Success or Failed. The final state is returned. A nil notify is allowed.
func Load[T any](ctx context.Context, notify func(State[T]), fn func(context.Context) (T, error)) State[T] {
	if notify == nil {
		notify = func(State[T]) {}
	}
	s := NewLoading[T]()
	notify(s)

	data, err := fn(ctx)
	if err == nil {
		err = ctx.Err()
	}
	s, _ = s.Finish(data, err)
	notify(s)
	return s
}
