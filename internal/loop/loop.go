// Package loop runs tasks one at a time on a single goroutine, giving the
// storefront core its one logical thread. Blocking work is started with Go
// and its result comes back as a task on the loop.
package loop

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Loop is a serial task queue.
type Loop struct {
	ch   chan func()
	log  *zap.Logger
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func New(log *zap.Logger, buffer int) *Loop {
	if buffer <= 0 {
		buffer = 1024
	}
	return &Loop{ch: make(chan func(), buffer), log: log, done: make(chan struct{})}
}

// Run executes posted tasks until ctx is cancelled. Background work started
// with Go is waited for before Run returns; its continuations are dropped.
// A panicking task is not recovered.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.once.Do(func() { close(l.done) })
		l.wg.Wait()
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.ch:
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
	case l.ch <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Go runs work on its own goroutine and posts the continuation it returns.
func (l *Loop) Go(work func() func()) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		next := work()
		if next == nil {
			return
		}
		if !l.Post(next) {
			l.log.Warn("loop stopped, dropping continuation")
		}
	}()
}
