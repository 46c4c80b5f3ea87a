/*
 * output.go, part of gomof.
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
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	chem "github.com/rmera/gomof"
)

type flushWriteCloser interface {
	io.WriteCloser
	Flush() error
}

// Writer writes CSV rows to a file, flushing after each one, so every row
// written is in the file even if the program is interrupted. If the file name ends
// in .gz or .zst, the output is compressed with gzip or zstandard, respectively.
// A Writer is not safe for concurrent use.
type Writer struct {
	name string
	f    *os.File
	comp flushWriteCloser //nil for uncompressed output
	csv  *csv.Writer
	rows int
}

// NewWriter creates the file name, and writes the header to it. Errors are critical *chem.IOError.
func NewWriter(name string, header []string) (*Writer, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, chem.NewIOError(name, err, true)
	}
	W := &Writer{name: name, f: f}
	var out io.Writer = f
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		W.comp = gzip.NewWriter(f)
	case ".zst":
		z, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, chem.NewIOError(name, err, true)
		}
		W.comp = z
	}
	if W.comp != nil {
		out = W.comp
	}
	W.csv = csv.NewWriter(out)
	if len(header) > 0 {
		if err := W.write(header); err != nil {
			W.Close()
			return nil, err
		}
	}
	return W, nil
}

// Write writes one row and flushes it to the file.
func (W *Writer) Write(fields []string) error {
	if err := W.write(fields); err != nil {
		return err
	}
	W.rows++
	return nil
}

func (W *Writer) write(fields []string) error {
	if err := W.csv.Write(fields); err != nil {
		return chem.NewIOError(W.name, err, true)
	}
	W.csv.Flush()
	if err := W.csv.Error(); err != nil {
		return chem.NewIOError(W.name, err, true)
	}
	if W.comp != nil {
		if err := W.comp.Flush(); err != nil {
			return chem.NewIOError(W.name, err, true)
		}
	}
	return nil
}

// Rows returns the number of rows written, not counting the header.
func (W *Writer) Rows() int {
	return W.rows
}

// Name returns the name of the output file.
func (W *Writer) Name() string {
	return W.name
}

// Close finishes the compressed stream, if any, and closes the file.
func (W *Writer) Close() error {
	var err error
	if W.comp != nil {
		err = W.comp.Close()
	}
	if err2 := W.f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return chem.NewIOError(W.name, err, true)
	}
	return nil
}
