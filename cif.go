/*
 * cif.go, part of gomof.
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
 *
 */

package chem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	v3 "github.com/rmera/gomof/v3"
)

var tl func(string) string = strings.ToLower

// The CIF tags we need. Both the "core" (_cell_length_a) and the
// mmCIF (_cell.length_a) forms are accepted, we always work with the first one.
const (
	cifLengthA  = "_cell_length_a"
	cifLengthB  = "_cell_length_b"
	cifLengthC  = "_cell_length_c"
	cifAlpha    = "_cell_angle_alpha"
	cifBeta     = "_cell_angle_beta"
	cifGamma    = "_cell_angle_gamma"
	cifVolume   = "_cell_volume"
	cifSymbol   = "_atom_site_type_symbol"
	cifLabel    = "_atom_site_label"
	cifFractX   = "_atom_site_fract_x"
	cifFractY   = "_atom_site_fract_y"
	cifFractZ   = "_atom_site_fract_z"
	cifDataHead = "data_"
)

// CIFFileRead reads a CIF file and returns the structure in its first data block.
// Files ending in .gz and .zst are decompressed on the fly. The name of the
// structure is the base name of the file.
func CIFFileRead(cifname string) (*Structure, error) {
	cif, err := OpenMaybeCompressed(cifname)
	if err != nil {
		return nil, NewIOError(cifname, err, false)
	}
	defer cif.Close()
	s, err := CIFRead(cif, filepath.Base(cifname))
	if err != nil {
		var serr interface{ SetFileName(string) }
		if errors.As(err, &serr) {
			serr.SetFileName(filepath.Base(cifname))
		}
		return nil, errDecorate(err, "CIFFileRead")
	}
	return s, nil
}

// CIFRead reads a CIF from an io.Reader and returns a Structure with the given name.
// Only the first data block is considered. The structure must be in P1, i.e. all the atoms
// of the unit cell must be listed, as symmetry operations are not applied.
func CIFRead(cif io.Reader, name string) (*Structure, error) {
	block, err := cifParse(bufio.NewReader(cif))
	if err != nil {
		return nil, NewIOError(name, err, false)
	}
	nums := make(map[string]float64, 7)
	for _, tag := range []string{cifLengthA, cifLengthB, cifLengthC, cifAlpha, cifBeta, cifGamma} {
		str, ok := block.items[tag]
		if !ok {
			return nil, NewMissingFieldError(name, tag, "not present")
		}
		v, err := cifFloat(str)
		if err != nil {
			return nil, NewMissingFieldError(name, tag, err.Error())
		}
		nums[tag] = v
	}
	vol := -1.0
	if str, ok := block.items[cifVolume]; ok {
		if v, err := cifFloat(str); err == nil {
			vol = v
		}
	}
	cell, err := NewCell(nums[cifLengthA], nums[cifLengthB], nums[cifLengthC], nums[cifAlpha], nums[cifBeta], nums[cifGamma], vol)
	if err != nil {
		if g, ok := err.(*GeometryError); ok {
			g.SetFileName(name)
		}
		return nil, err
	}
	atoms, coords, err := cifAtoms(block, name)
	if err != nil {
		return nil, err
	}
	frac, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, NewMissingFieldError(name, cifFractX, err.Error())
	}
	return NewStructure(name, cell, atoms, frac)
}

func cifAtoms(block *cifBlock, name string) ([]*Atom, []float64, error) {
	loop := block.loopWith(cifFractX)
	if loop == nil {
		return nil, nil, NewMissingFieldError(name, cifFractX, "no atom site loop with fractional coordinates")
	}
	m := make(map[string]int, len(loop.tags))
	for i, t := range loop.tags {
		m[t] = i
	}
	for _, t := range []string{cifFractY, cifFractZ} {
		if _, ok := m[t]; !ok {
			return nil, nil, NewMissingFieldError(name, t, "not present")
		}
	}
	symi, hassym := m[cifSymbol]
	labi, haslab := m[cifLabel]
	if !hassym && !haslab {
		return nil, nil, NewMissingFieldError(name, cifSymbol, "atoms have neither symbol nor label")
	}
	atoms := make([]*Atom, 0, len(loop.rows))
	coords := make([]float64, 0, 3*len(loop.rows))
	for i, row := range loop.rows {
		at := &Atom{ID: i + 1}
		if haslab {
			at.Label = row[labi]
		}
		if hassym && row[symi] != "?" && row[symi] != "." {
			at.Symbol = symbolFromType(row[symi])
		} else {
			at.Symbol = symbolFromType(at.Label)
		}
		if at.Symbol == "" {
			return nil, nil, NewMissingFieldError(name, cifSymbol, fmt.Sprintf("can't get a symbol for atom %d", i+1))
		}
		for _, t := range []string{cifFractX, cifFractY, cifFractZ} {
			v, err := cifFloat(row[m[t]])
			if err != nil {
				return nil, nil, NewMissingFieldError(name, t, fmt.Sprintf("atom %d: %s", i+1, err.Error()))
			}
			coords = append(coords, v)
		}
		atoms = append(atoms, at)
	}
	return atoms, coords, nil
}

// symbolFromType obtains an element symbol from a CIF type symbol or label,
// such as "Zn2+", "ZN" or "O12". It returns an empty string if it fails.
func symbolFromType(s string) string {
	r := []rune(s)
	end := 0
	for end < len(r) && end < 2 && unicode.IsLetter(r[end]) {
		end++
	}
	if end == 0 {
		return ""
	}
	sym := strings.ToUpper(string(r[0]))
	if end == 2 {
		//labels such as "CA1" are ambiguous. We follow the usual convention of
		//reading a second uppercase letter as part of the label, not of the symbol.
		if unicode.IsLower(r[1]) || s == strings.ToUpper(s) && len(r) == 2 {
			sym += strings.ToLower(string(r[1]))
		}
	}
	return sym
}

// cifFloat parses a CIF number, which can contain the standard uncertainty in parentheses,
// i.e. 12.345(6). The CIF null values "?" and "." give an error.
func cifFloat(s string) (float64, error) {
	if s == "?" || s == "." {
		return 0, errors.Newf("value not given (%s)", s)
	}
	if i := strings.IndexByte(s, '('); i > 0 {
		s = s[:i]
	}
	return strconv.ParseFloat(s, 64)
}

type cifLoop struct {
	tags []string
	rows [][]string
}

type cifBlock struct {
	name  string
	items map[string]string
	loops []*cifLoop
}

// returns the first loop containing the given tag, or nil.
func (b *cifBlock) loopWith(tag string) *cifLoop {
	for _, l := range b.loops {
		for _, t := range l.tags {
			if t == tag {
				return l
			}
		}
	}
	return nil
}

type cifToken struct {
	s      string
	quoted bool //quoted strings and text fields are always values
}

func (t cifToken) isTag() bool { return !t.quoted && strings.HasPrefix(t.s, "_") }
func (t cifToken) isLoop() bool {
	return !t.quoted && tl(t.s) == "loop_"
}
func (t cifToken) isData() bool {
	return !t.quoted && strings.HasPrefix(tl(t.s), cifDataHead)
}

// normalizes a tag to the lowercase, "core CIF" form.
func cifTag(s string) string {
	return strings.Replace(tl(s), ".", "_", 1)
}

// cifParse reads the first data block of a CIF.
func cifParse(cif *bufio.Reader) (*cifBlock, error) {
	tokens, err := cifTokens(cif)
	if err != nil {
		return nil, err
	}
	block := &cifBlock{items: make(map[string]string)}
	started := false
	for i := 0; i < len(tokens); {
		t := tokens[i]
		switch {
		case t.isData():
			if started {
				return block, nil //we only read the first block
			}
			started = true
			block.name = t.s[len(cifDataHead):]
			i++
		case t.isLoop():
			loop := new(cifLoop)
			i++
			for i < len(tokens) && tokens[i].isTag() {
				loop.tags = append(loop.tags, cifTag(tokens[i].s))
				i++
			}
			if len(loop.tags) == 0 {
				return nil, errors.Newf("cifParse: loop_ without tags")
			}
			var row []string
			for i < len(tokens) && !tokens[i].isTag() && !tokens[i].isLoop() && !tokens[i].isData() {
				row = append(row, tokens[i].s)
				if len(row) == len(loop.tags) {
					loop.rows = append(loop.rows, row)
					row = nil
				}
				i++
			}
			if len(row) != 0 {
				return nil, errors.Newf("cifParse: loop with %s has %d trailing values", loop.tags[0], len(row))
			}
			block.loops = append(block.loops, loop)
		case t.isTag():
			if i+1 >= len(tokens) {
				return nil, errors.Newf("cifParse: tag %s without value", t.s)
			}
			block.items[cifTag(t.s)] = tokens[i+1].s
			i += 2
		default:
			//Stray values, we just ignore them.
			i++
		}
	}
	if !started && len(block.items) == 0 && len(block.loops) == 0 {
		return nil, errors.Newf("cifParse: no data found")
	}
	return block, nil
}

func cifTokens(cif *bufio.Reader) ([]cifToken, error) {
	var tokens []cifToken
	var text []string
	intext := false
	for {
		line, err := cif.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(line, ";") {
			if intext {
				tokens = append(tokens, cifToken{strings.Join(text, "\n"), true})
				text = nil
				intext = false
			} else {
				intext = true
				text = append(text, line[1:])
			}
		} else if intext {
			text = append(text, line)
		} else {
			tokens = append(tokens, cifLineTokens(line)...)
		}
		if err == io.EOF {
			break
		}
	}
	if intext {
		return nil, errors.Newf("cifTokens: unterminated text field")
	}
	return tokens, nil
}

// splits a line in tokens, respecting quotes and removing comments.
func cifLineTokens(line string) []cifToken {
	var ret []cifToken
	r := []rune(line)
	for i := 0; i < len(r); {
		if unicode.IsSpace(r[i]) {
			i++
			continue
		}
		if r[i] == '#' {
			break
		}
		if r[i] == '\'' || r[i] == '"' {
			q := r[i]
			j := i + 1
			//a quote only closes the string if followed by a blank or the end of line.
			for j < len(r) && !(r[j] == q && (j+1 == len(r) || unicode.IsSpace(r[j+1]))) {
				j++
			}
			ret = append(ret, cifToken{string(r[i+1 : min(j, len(r))]), true})
			i = j + 1
			continue
		}
		j := i
		for j < len(r) && !unicode.IsSpace(r[j]) {
			j++
		}
		ret = append(ret, cifToken{string(r[i:j]), false})
		i = j
	}
	return ret
}

// zstdCloser makes a *zstd.Decoder into an io.ReadCloser.
type zstdCloser struct {
	*zstd.Decoder
	f *os.File
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

type gzCloser struct {
	*gzip.Reader
	f *os.File
}

func (g gzCloser) Close() error {
	g.Reader.Close()
	return g.f.Close()
}

// OpenMaybeCompressed opens the file name for reading. If the name ends with .gz or .zst, the
// data is decompressed (with gzip and zstandard, respectively) as it is read.
func OpenMaybeCompressed(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	switch tl(filepath.Ext(name)) {
	case ".gz":
		r, err := gzip.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, err
		}
		return gzCloser{r, f}, nil
	case ".zst":
		r, err := zstd.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, err
		}
		return zstdCloser{r, f}, nil
	default:
		return f, nil
	}
}
