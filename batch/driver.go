/*
 * driver.go, part of gomof.
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

// Package batch processes many structure files in parallel, writing one CSV row
// per structure as soon as it is ready.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	chem "github.com/rmera/gomof"
	"github.com/rmera/gomof/log"
)

// Row is anything that can be written as a CSV row.
type Row interface {
	Fields() []string
}

// RowWriter receives the rows produced by a Driver.
type RowWriter interface {
	Write(fields []string) error
}

// Task processes the file path and returns its row.
type Task func(path string) (Row, error)

// Failure describes a structure that was skipped.
type Failure struct {
	Name string
	Kind string
	Err  error
}

// Summary of a batch run.
type Summary struct {
	Submitted int
	Written   int
	Failed    []Failure
}

// Driver runs a Task over many files on a pool of goroutines, and writes the results
// as they arrive. Only the goroutine calling Run writes.
type Driver struct {
	header  []string
	task    Task
	workers int
}

// NewDriver returns a driver that will run task on workers goroutines (runtime.NumCPU() if workers is not positive)
// and write the given header before the results.
func NewDriver(header []string, task Task, workers int) *Driver {
	return &Driver{header: header, task: task, workers: workers}
}

// Run processes the files in paths and writes the row of each one to w, in the order
// they are finished. Failures in one structure are logged and recorded in the Summary,
// and the batch continues. An error writing to w, or a critical error in a task, stops
// the batch and is returned. If ctx is done before all the paths are submitted, Run
// returns an error once the running tasks finish. The header is not written by Run.
func (D *Driver) Run(parent context.Context, paths []string, w RowWriter) (*Summary, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	pool := NewPool[Row](ctx, D.workers)
	go func() {
		for _, p := range paths {
			path := p
			if err := pool.Submit(filepath.Base(path), func() (Row, error) { return D.task(path) }); err != nil {
				break
			}
		}
		pool.Close()
	}()
	sum := new(Summary)
	var fatal error
	for res := range pool.Results() {
		if fatal != nil {
			continue //we just let the pool finish.
		}
		if res.Err != nil {
			if chem.IsCritical(res.Err) {
				fatal = res.Err
				cancel()
				continue
			}
			kind := chem.KindOf(res.Err)
			sum.Failed = append(sum.Failed, Failure{Name: res.Name, Kind: kind, Err: res.Err})
			log.L().Warn("structure skipped", zap.String("structure", res.Name), zap.String("kind", kind), zap.Error(res.Err))
			continue
		}
		if res.Value == nil {
			err := errors.Newf("no result for %s", res.Name)
			sum.Failed = append(sum.Failed, Failure{Name: res.Name, Kind: chem.KindOf(err), Err: err})
			log.L().Warn("structure skipped", zap.String("structure", res.Name), zap.Error(err))
			continue
		}
		if err := w.Write(res.Value.Fields()); err != nil {
			fatal = err
			cancel()
			continue
		}
		sum.Written++
	}
	sum.Submitted = int(pool.Submitted())
	if fatal == nil && sum.Submitted < len(paths) && parent.Err() != nil {
		fatal = errors.Wrapf(parent.Err(), "batch interrupted, %d of %d structures not processed", len(paths)-sum.Submitted, len(paths))
	}
	if fatal != nil {
		log.L().Error("batch aborted", zap.Error(fatal), zap.Int("written", sum.Written))
	}
	return sum, fatal
}

// RunFile creates the CSV file dst, writes the header, and calls Run on it.
// If the output can't be created, no structure is processed.
func (D *Driver) RunFile(ctx context.Context, paths []string, dst string) (*Summary, error) {
	start := time.Now()
	log.L().Info("starting batch", zap.Int("structures", len(paths)), zap.Int("workers", D.workers), zap.String("output", dst))
	w, err := NewWriter(dst, D.header)
	if err != nil {
		return nil, err
	}
	sum, err := D.Run(ctx, paths, w)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return sum, err
	}
	log.L().Info("batch finished", zap.String("output", dst), zap.Int("written", sum.Written),
		zap.Int("failed", len(sum.Failed)), zap.Duration("elapsed", time.Since(start)))
	return sum, nil
}

// Discover returns, sorted, the files in dir that match pattern (*.cif if pattern
// is empty), including gzip and zstandard compressed files (pattern.gz and pattern.zst).
func Discover(dir, pattern string) ([]string, error) {
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		if err == nil {
			err = os.ErrInvalid
		}
		return nil, chem.NewIOError(dir, err, true)
	}
	if pattern == "" {
		pattern = "*.cif"
	}
	var ret []string
	for _, p := range []string{pattern, pattern + ".gz", pattern + ".zst"} {
		m, err := filepath.Glob(filepath.Join(dir, p))
		if err != nil {
			return nil, chem.NewIOError(dir, err, true)
		}
		ret = append(ret, m...)
	}
	ret = lo.Filter(lo.Uniq(ret), func(s string, _ int) bool {
		st, err := os.Stat(s)
		return err == nil && !st.IsDir() && !strings.HasPrefix(filepath.Base(s), ".")
	})
	sort.Strings(ret)
	return ret, nil
}
