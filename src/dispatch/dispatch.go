// Package dispatch runs data-source work on a background execution context.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned by Run after the dispatcher has been closed
var ErrClosed = errors.New("dispatcher closed")

// Dispatcher executes fn and returns its error once it has finished
type Dispatcher interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// Inline runs work on the calling goroutine
type Inline struct{}

func (Inline) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return call(ctx, fn)
}

type job struct {
	ctx  context.Context
	fn   func(ctx context.Context) error
	done chan error
}

// Serial runs every submitted function, one at a time, on a single worker goroutine
type Serial struct {
	jobs      chan job
	quit      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewSerial starts the worker goroutine
func NewSerial() *Serial {
	s := &Serial{
		jobs: make(chan job),
		quit: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.loop()
	return s
}

func (s *Serial) loop() {
	defer s.wg.Done()
	for {
		select {
		case j := <-s.jobs:
			j.done <- call(j.ctx, j.fn)
		case <-s.quit:
			return
		}
	}
}

// Run hands fn to the worker and waits for the result or for ctx to end
func (s *Serial) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	done := make(chan error, 1)

	select {
	case s.jobs <- job{ctx: ctx, fn: fn, done: done}:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.quit:
		return ErrClosed
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the worker after the job in progress, if any, completes
func (s *Serial) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
	s.wg.Wait()
}

// call turns a panic inside fn into an error
func call(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return fn(ctx)
}
