// Package runtime drives the chat session: event loop, connection lifecycle and routing.
// It orchestrates the system without containing projection rules.
package runtime

import (
	"chat-client/errors"
	"context"
	"sync"
)

// Loop is the single event-processing context of the engine.
// Every mutation of engine-owned state runs inside a closure executed by Run,
// so no two mutations ever interleave.
type Loop struct {
	ops      chan func()
	done     chan struct{}
	stopOnce sync.Once
}

func NewLoop(bufferSize int) *Loop {
	return &Loop{
		ops:  make(chan func(), bufferSize),
		done: make(chan struct{}),
	}
}

// Run executes posted closures in order until ctx is canceled.
// A panicking closure escapes to the caller and the closures queued behind it stay queued
// for the next Run. Once ctx is canceled the loop is stopped for good: Post and Call fail.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.stopOnce.Do(func() { close(l.done) })
			return nil
		case fn := <-l.ops:
			fn()
		}
	}
}

// Post queues fn. It returns false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.ops <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call runs fn on the loop and waits for it.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return errors.ErrEngineStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return errors.ErrEngineStopped
		}
	}
}

// Stopped is closed when Run returned because its context ended.
func (l *Loop) Stopped() <-chan struct{} {
	return l.done
}
