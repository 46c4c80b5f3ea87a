package batch

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	chem "github.com/rmera/gomof"
	"github.com/rmera/gomof/rdf"
)

func TestPool(Te *testing.T) {
	pool := NewPool[int](context.Background(), 3)
	running := atomic.NewInt64(0)
	maxrunning := atomic.NewInt64(0)
	go func() {
		for i := 0; i < 20; i++ {
			i := i
			pool.Submit(fmt.Sprintf("task%d", i), func() (int, error) {
				n := running.Inc()
				for {
					m := maxrunning.Load()
					if n <= m || maxrunning.CompareAndSwap(m, n) {
						break
					}
				}
				defer running.Dec()
				time.Sleep(time.Millisecond)
				switch i {
				case 5:
					panic("boom")
				case 7:
					return 0, errors.New("failed")
				}
				return i * i, nil
			})
		}
		pool.Close()
	}()
	var got []int
	var failed []string
	for r := range pool.Results() {
		if r.Err != nil {
			failed = append(failed, r.Name)
			continue
		}
		got = append(got, r.Value)
	}
	sort.Strings(failed)
	assert.Equal(Te, []string{"task5", "task7"}, failed)
	assert.Len(Te, got, 18)
	assert.Equal(Te, int64(20), pool.Submitted())
	assert.Equal(Te, int64(20), pool.Finished())
	assert.Equal(Te, int64(1), pool.Panicked())
	assert.LessOrEqual(Te, maxrunning.Load(), int64(3))
}

func TestPoolCancelled(Te *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pool := NewPool[int](ctx, 0)
	err := pool.Submit("x", func() (int, error) { return 1, nil })
	assert.Error(Te, err)
	pool.Close()
	_, ok := <-pool.Results()
	assert.False(Te, ok)
}

func readCSV(Te *testing.T, name string) [][]string {
	f, err := chem.OpenMaybeCompressed(name)
	require.NoError(Te, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(Te, err)
	return rows
}

func TestWriter(Te *testing.T) {
	dir := Te.TempDir()
	for _, ext := range []string{".csv", ".csv.gz", ".csv.zst"} {
		name := filepath.Join(dir, "out"+ext)
		w, err := NewWriter(name, []string{"Structure_Name", "v"})
		require.NoError(Te, err)
		require.NoError(Te, w.Write([]string{"a.cif", "0.5"}))
		require.NoError(Te, w.Write([]string{"b,c.cif", "1e-05"}))
		assert.Equal(Te, 2, w.Rows())
		require.NoError(Te, w.Close())
		rows := readCSV(Te, name)
		require.Len(Te, rows, 3, ext)
		assert.Equal(Te, []string{"b,c.cif", "1e-05"}, rows[2])
	}
	_, err := NewWriter(filepath.Join(dir, "nothere", "out.csv"), nil)
	require.Error(Te, err)
	assert.True(Te, chem.IsCritical(err))
}

func TestDiscover(Te *testing.T) {
	dir := Te.TempDir()
	for _, n := range []string{"b.cif", "a.cif.gz", "c.txt", "d.cif.zst", ".hidden.cif"} {
		require.NoError(Te, os.WriteFile(filepath.Join(dir, n), []byte("data_x\n"), 0o644))
	}
	require.NoError(Te, os.Mkdir(filepath.Join(dir, "sub.cif"), 0o755))
	files, err := Discover(dir, "")
	require.NoError(Te, err)
	assert.Equal(Te, []string{filepath.Join(dir, "a.cif.gz"), filepath.Join(dir, "b.cif"), filepath.Join(dir, "d.cif.zst")}, files)
	_, err = Discover(filepath.Join(dir, "nothere"), "")
	assert.Error(Te, err)
}

func rdfTask(path string) (Row, error) {
	s, err := chem.CIFFileRead(path)
	if err != nil {
		return nil, err
	}
	return rdf.Compute(s, chem.DefaultProperties())
}

// The structures that can't be processed are skipped, the rest are written.
func TestDriver(Te *testing.T) {
	names := []string{"cubic2.cif", "mixed.cif", "unknown.cif", "noatoms.cif", "nogamma.cif", "missing.cif"}
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join("..", "test", n)
	}
	header := rdf.DefaultOptions().Header()
	dst := filepath.Join(Te.TempDir(), "RDFs.csv")
	D := NewDriver(header, rdfTask, 2)
	sum, err := D.RunFile(context.Background(), paths, dst)
	require.NoError(Te, err)
	assert.Equal(Te, 6, sum.Submitted)
	assert.Equal(Te, 2, sum.Written)
	kinds := make(map[string]string)
	for _, f := range sum.Failed {
		kinds[f.Name] = f.Kind
	}
	assert.Equal(Te, map[string]string{
		"unknown.cif": chem.KindUnknownElem,
		"noatoms.cif": chem.KindDegenerate,
		"nogamma.cif": chem.KindMissingField,
		"missing.cif": chem.KindIO,
	}, kinds)
	rows := readCSV(Te, dst)
	require.Len(Te, rows, 3)
	assert.Equal(Te, header, rows[0])
	written := []string{rows[1][0], rows[2][0]}
	sort.Strings(written)
	assert.Equal(Te, []string{"cubic2.cif", "mixed.cif"}, written)
	for _, r := range rows[1:] {
		assert.Len(Te, r, 3*113+1)
	}
}

// Re-running gives the same rows.
func TestDriverDeterministic(Te *testing.T) {
	paths := []string{"../test/mixed.cif", "../test/cubic2.cif"}
	D := NewDriver(rdf.DefaultOptions().Header(), rdfTask, 2)
	byname := func(rows [][]string) map[string][]string {
		m := make(map[string][]string)
		for _, r := range rows[1:] {
			m[r[0]] = r
		}
		return m
	}
	dir := Te.TempDir()
	_, err := D.RunFile(context.Background(), paths, filepath.Join(dir, "a.csv"))
	require.NoError(Te, err)
	_, err = D.RunFile(context.Background(), paths, filepath.Join(dir, "b.csv.zst"))
	require.NoError(Te, err)
	assert.Equal(Te, byname(readCSV(Te, filepath.Join(dir, "a.csv"))), byname(readCSV(Te, filepath.Join(dir, "b.csv.zst"))))
}

type failWriter struct{ calls int }

func (f *failWriter) Write([]string) error {
	f.calls++
	return chem.NewIOError("out.csv", errors.New("disk full"), true)
}

func TestDriverWriteFailure(Te *testing.T) {
	paths := []string{"../test/mixed.cif", "../test/cubic2.cif", "../test/cubic2.cif"}
	D := NewDriver(nil, rdfTask, 1)
	w := new(failWriter)
	sum, err := D.Run(context.Background(), paths, w)
	require.Error(Te, err)
	assert.True(Te, chem.IsCritical(err))
	assert.Equal(Te, 0, sum.Written)
	assert.Equal(Te, 1, w.calls)
}

func TestRunFileUnwritable(Te *testing.T) {
	calls := atomic.NewInt64(0)
	task := func(string) (Row, error) { calls.Inc(); return nil, nil }
	D := NewDriver([]string{"a"}, task, 1)
	_, err := D.RunFile(context.Background(), []string{"x.cif"}, filepath.Join(Te.TempDir(), "no", "out.csv"))
	require.Error(Te, err)
	assert.Equal(Te, int64(0), calls.Load())
}

type nameRow string

func (n nameRow) Fields() []string { return []string{string(n)} }

// A batch cancelled before all the structures are submitted is an error.
func TestDriverInterrupted(Te *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	paths := make([]string, 20)
	for i := range paths {
		paths[i] = fmt.Sprintf("s%02d.cif", i)
	}
	task := func(path string) (Row, error) {
		cancel()
		return nameRow(path), nil
	}
	dst := filepath.Join(Te.TempDir(), "out.csv")
	sum, err := NewDriver([]string{"Structure_Name"}, task, 1).RunFile(ctx, paths, dst)
	require.Error(Te, err)
	assert.ErrorIs(Te, err, context.Canceled)
	assert.Less(Te, sum.Submitted, len(paths))
	assert.Equal(Te, sum.Submitted, sum.Written)
	assert.Len(Te, readCSV(Te, dst), sum.Written+1, "the finished rows are kept")

	//cancelling after the last structure was submitted is not an error
	ctx2, cancel2 := context.WithCancel(context.Background())
	last := func(path string) (Row, error) {
		if path == "s19.cif" {
			cancel2()
		}
		return nameRow(path), nil
	}
	sum, err = NewDriver(nil, last, 1).Run(ctx2, paths, new(sliceWriter))
	require.NoError(Te, err)
	assert.Equal(Te, 20, sum.Written)
}

type sliceWriter struct{ rows [][]string }

func (s *sliceWriter) Write(fields []string) error {
	s.rows = append(s.rows, fields)
	return nil
}

func TestDriverNilRow(Te *testing.T) {
	task := func(path string) (Row, error) {
		if path == "b.cif" {
			return nil, nil
		}
		return nameRow(path), nil
	}
	w := new(sliceWriter)
	sum, err := NewDriver(nil, task, 2).Run(context.Background(), []string{"a.cif", "b.cif", "c.cif"}, w)
	require.NoError(Te, err)
	assert.Equal(Te, 2, sum.Written)
	require.Len(Te, sum.Failed, 1)
	assert.Equal(Te, "b.cif", sum.Failed[0].Name)
	assert.Len(Te, w.rows, 2)
}
