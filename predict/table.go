/*
 * table.go, part of gomof.
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

package predict

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"

	chem "github.com/rmera/gomof"
)

// Table is a descriptor table: one row per structure, one named
// numeric column per descriptor. Values that can't be parsed as
// numbers are kept as NaN, so they only matter if they are selected.
type Table struct {
	names   []string
	columns []string
	colidx  map[string]int
	rows    [][]float64
}

// NewTable returns an empty table with the given columns.
// Repeated column names are an error.
func NewTable(columns []string) (*Table, error) {
	T := &Table{columns: make([]string, 0, len(columns)), colidx: make(map[string]int, len(columns))}
	for _, c := range columns {
		if _, ok := T.colidx[c]; ok {
			return nil, errors.Newf("column %q repeated", c)
		}
		T.colidx[c] = len(T.columns)
		T.columns = append(T.columns, c)
	}
	return T, nil
}

// AddRow adds a row for the structure name. There must be one value per column.
func (T *Table) AddRow(name string, values []float64) error {
	if len(values) != len(T.columns) {
		return errors.Newf("row %s has %d values for %d columns", name, len(values), len(T.columns))
	}
	r := make([]float64, len(values))
	copy(r, values)
	T.names = append(T.names, name)
	T.rows = append(T.rows, r)
	return nil
}

// Len returns the number of rows in the table.
func (T *Table) Len() int {
	return len(T.rows)
}

// Names returns the structure names, in row order. The slice should not be modified.
func (T *Table) Names() []string {
	return T.names
}

// Columns returns the column names. The slice should not be modified.
func (T *Table) Columns() []string {
	return T.columns
}

// Column returns a copy of the values of the column name.
func (T *Table) Column(name string) ([]float64, error) {
	j, ok := T.colidx[name]
	if !ok {
		return nil, errors.Newf("no column %q in table", name)
	}
	ret := make([]float64, len(T.rows))
	for i, r := range T.rows {
		ret[i] = r[j]
	}
	return ret, nil
}

// Select returns a matrix with one row per structure and the given columns,
// in the given order. It is an error to select a missing or non-numeric value.
func (T *Table) Select(columns []string) (*mat.Dense, error) {
	if len(T.rows) == 0 || len(columns) == 0 {
		return nil, errors.Newf("nothing to select: %d rows, %d columns", len(T.rows), len(columns))
	}
	idx := make([]int, len(columns))
	for k, c := range columns {
		j, ok := T.colidx[c]
		if !ok {
			return nil, errors.Newf("no column %q in table", c)
		}
		idx[k] = j
	}
	ret := mat.NewDense(len(T.rows), len(columns), nil)
	for i, r := range T.rows {
		for k, j := range idx {
			if math.IsNaN(r[j]) {
				return nil, errors.Newf("non-numeric value for %s in column %s", T.names[i], columns[k])
			}
			ret.Set(i, k, r[j])
		}
	}
	return ret, nil
}

// Join returns the inner join of the tables on the structure name. Rows follow
// the order of the first table. A column present in more than one table is
// taken from the first one that has it.
func Join(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, errors.New("no tables to join")
	}
	if len(tables) == 1 {
		return tables[0], nil
	}
	type source struct {
		t    int
		col  int
		name string
	}
	var srcs []source
	seen := make(map[string]bool)
	for ti, t := range tables {
		for j, c := range t.columns {
			if seen[c] {
				continue
			}
			seen[c] = true
			srcs = append(srcs, source{ti, j, c})
		}
	}
	cols := make([]string, len(srcs))
	for i, s := range srcs {
		cols[i] = s.name
	}
	ret, err := NewTable(cols)
	if err != nil {
		return nil, err
	}
	rowidx := make([]map[string]int, len(tables))
	for ti, t := range tables {
		rowidx[ti] = make(map[string]int, len(t.names))
		for i, n := range t.names {
			if _, ok := rowidx[ti][n]; !ok {
				rowidx[ti][n] = i
			}
		}
	}
	vals := make([]float64, len(srcs))
Rows:
	for i, name := range tables[0].names {
		rows := make([]int, len(tables))
		rows[0] = i
		for ti := 1; ti < len(tables); ti++ {
			r, ok := rowidx[ti][name]
			if !ok {
				continue Rows
			}
			rows[ti] = r
		}
		for k, s := range srcs {
			vals[k] = tables[s.t].rows[rows[s.t]][s.col]
		}
		ret.AddRow(name, vals)
	}
	return ret, nil
}

// ReadTable reads a descriptor table in CSV format. The first column contains
// the structure names and its header is ignored.
func ReadTable(r io.Reader) (*Table, error) {
	c := csv.NewReader(r)
	c.ReuseRecord = true
	header, err := c.Read()
	if err != nil {
		return nil, errors.Wrap(err, "reading table header")
	}
	if len(header) < 2 {
		return nil, errors.Newf("table has %d columns, needs names and at least one value", len(header))
	}
	cols := make([]string, len(header)-1)
	for i, h := range header[1:] {
		cols[i] = strings.TrimSpace(h)
	}
	T, err := NewTable(cols)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, len(cols))
	for line := 2; ; line++ {
		rec, err := c.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading table line %d", line)
		}
		for i, s := range rec[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				v = math.NaN()
			}
			vals[i] = v
		}
		if err := T.AddRow(rec[0], vals); err != nil {
			return nil, err
		}
	}
	return T, nil
}

// TableFileRead reads a descriptor table from the file name, which can be gzip or
// zstd compressed. Errors are critical chem.IOErrors.
func TableFileRead(name string) (*Table, error) {
	f, err := chem.OpenMaybeCompressed(name)
	if err != nil {
		return nil, chem.NewIOError(name, err, true)
	}
	defer f.Close()
	T, err := ReadTable(f)
	if err != nil {
		return nil, chem.NewIOError(name, err, true)
	}
	return T, nil
}
