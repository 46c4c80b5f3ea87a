/*
 * pool.go, part of gomof.
 *
 * Copyright 2024 Raul Mera <rmeraa{at}academicos(dot)uta(dot)cl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package batch

import (
	"context"
	"runtime"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one task. Err is nil if the task succeeded.
type Result[T any] struct {
	Name  string
	Value T
	Err   error
}

// Pool runs tasks on a fixed number of goroutines and sends their results, in the
// order they finish, through a channel. A task that panics produces a Result with
// an error, the rest of the pool is not affected.
type Pool[T any] struct {
	ctx       context.Context
	g         *errgroup.Group
	results   chan Result[T]
	submitted *atomic.Int64
	finished  *atomic.Int64
	panicked  *atomic.Int64
	closeOnce sync.Once
}

// NewPool returns a pool with the given number of workers. If workers is
// not positive, runtime.NumCPU() workers are used.
func NewPool[T any](ctx context.Context, workers int) *Pool[T] {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	g := new(errgroup.Group)
	g.SetLimit(workers)
	return &Pool[T]{
		ctx:       ctx,
		g:         g,
		results:   make(chan Result[T], workers),
		submitted: atomic.NewInt64(0),
		finished:  atomic.NewInt64(0),
		panicked:  atomic.NewInt64(0),
	}
}

// Submit queues task, which will be identified by name in its Result. It blocks while
// all the workers are busy. It returns an error, and doesn't queue the task, if the pool's
// context is done.
func (p *Pool[T]) Submit(name string, task func() (T, error)) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	p.submitted.Inc()
	p.g.Go(func() error {
		r := p.run(name, task)
		p.finished.Inc()
		p.results <- r
		return nil
	})
	return nil
}

func (p *Pool[T]) run(name string, task func() (T, error)) (res Result[T]) {
	res.Name = name
	defer func() {
		if r := recover(); r != nil {
			p.panicked.Inc()
			var zero T
			res.Value = zero
			res.Err = errors.Newf("panic while processing %s: %v", name, r)
		}
	}()
	res.Value, res.Err = task()
	return res
}

// Results returns the channel where results are sent. It is closed after Close is called
// and all the tasks are done.
func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Close waits for all the submitted tasks and closes the results channel.
// It must be called after the last Submit, and the results must be consumed
// concurrently, or Close will block forever.
func (p *Pool[T]) Close() {
	p.closeOnce.Do(func() {
		p.g.Wait()
		close(p.results)
	})
}

// Submitted returns the number of tasks submitted so far.
func (p *Pool[T]) Submitted() int64 { return p.submitted.Load() }

// Finished returns the number of tasks that have completed, successfully or not.
func (p *Pool[T]) Finished() int64 { return p.finished.Load() }

// Panicked returns the number of tasks that panicked.
func (p *Pool[T]) Panicked() int64 { return p.panicked.Load() }
