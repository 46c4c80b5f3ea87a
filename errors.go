/*
 * errors.go, part of gomof.
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

package chem

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kinds of per-structure errors, as reported when a structure is skipped.
const (
	KindMissingField = "MissingFieldError"
	KindUnknownElem  = "UnknownElementError"
	KindDegenerate   = "DegenerateStructureError"
	KindIO           = "IOError"
	KindGeometry     = "GeometryError"
	KindCutoff       = "CutoffError"
	KindModel        = "ModelError"
)

// errorBase contains what all the errors in this package share.
// It fullfills chem.Error, but not Kind, which each error sets.
type errorBase struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

// Decorate adds new information to the error.
func (err *errorBase) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error should stop the whole run, not only the current structure.
func (err *errorBase) Critical() bool { return err.critical }

// FileName returns the name of the file related to the error, if any.
func (err *errorBase) FileName() string { return err.filename }

// SetFileName sets the file name of the error, if it didn't have one already.
func (err *errorBase) SetFileName(name string) {
	if err.filename == "" {
		err.filename = name
	}
}

func (err *errorBase) prefix() string {
	ret := ""
	if err.filename != "" {
		ret = err.filename + ": "
	}
	if len(err.deco) > 0 {
		ret = ret + strings.Join(err.deco, ": ") + ": "
	}
	return ret
}

// MissingFieldError is returned when a structure lacks a required
// field (a cell parameter, the coordinates) or the field can't be parsed.
type MissingFieldError struct {
	errorBase
	Field string
}

func NewMissingFieldError(filename, field, message string) *MissingFieldError {
	return &MissingFieldError{errorBase{message: message, filename: filename}, field}
}

func (err *MissingFieldError) Error() string {
	return fmt.Sprintf("%smissing or invalid field %s: %s", err.prefix(), err.Field, err.message)
}

func (err *MissingFieldError) Kind() string { return KindMissingField }

// UnknownElementError is returned when an element symbol has no
// value for a requested property.
type UnknownElementError struct {
	errorBase
	Symbol   string
	Property string
}

func NewUnknownElementError(symbol, property string) *UnknownElementError {
	return &UnknownElementError{errorBase{message: "not in the property table"}, symbol, property}
}

func (err *UnknownElementError) Error() string {
	if err.Property == "" {
		return fmt.Sprintf("%selement %q %s", err.prefix(), err.Symbol, err.message)
	}
	return fmt.Sprintf("%sproperty %q of element %q %s", err.prefix(), err.Property, err.Symbol, err.message)
}

func (err *UnknownElementError) Kind() string { return KindUnknownElem }

// DegenerateStructureError is returned for structures with no atoms
// (or no atom pairs), for which a normalized descriptor can't be obtained.
type DegenerateStructureError struct {
	errorBase
	Atoms int
}

func NewDegenerateStructureError(filename string, atoms int) *DegenerateStructureError {
	return &DegenerateStructureError{errorBase{message: "not enough atoms", filename: filename}, atoms}
}

func (err *DegenerateStructureError) Error() string {
	return fmt.Sprintf("%s%s (%d)", err.prefix(), err.message, err.Atoms)
}

func (err *DegenerateStructureError) Kind() string { return KindDegenerate }

// IOError is returned when a file can't be read or written. Errors
// writing the output are critical.
type IOError struct {
	errorBase
	cause error
}

func NewIOError(filename string, cause error, critical bool) *IOError {
	return &IOError{errorBase{message: "I/O failure", filename: filename, critical: critical}, cause}
}

func (err *IOError) Error() string {
	if err.cause == nil {
		return err.prefix() + err.message
	}
	return fmt.Sprintf("%s%s: %v", err.prefix(), err.message, err.cause)
}

func (err *IOError) Unwrap() error { return err.cause }

func (err *IOError) Kind() string { return KindIO }

// GeometryError is returned when the cell parameters are present but
// don't describe a valid cell.
type GeometryError struct {
	errorBase
}

func NewGeometryError(message string) *GeometryError {
	return &GeometryError{errorBase{message: message}}
}

func (err *GeometryError) Error() string {
	return err.prefix() + "invalid cell: " + err.message
}

func (err *GeometryError) Kind() string { return KindGeometry }

// CutoffError is returned when the largest distance considered is not
// smaller than half the narrowest width of the cell, so the 27 nearest
// periodic images don't guarantee the minimum image.
type CutoffError struct {
	errorBase
	Cutoff float64
	Width  float64
}

func NewCutoffError(filename string, cutoff, width float64) *CutoffError {
	return &CutoffError{errorBase{message: "cutoff not smaller than half the cell width", filename: filename}, cutoff, width}
}

func (err *CutoffError) Error() string {
	return fmt.Sprintf("%s%s: %.3f >= %.3f/2", err.prefix(), err.message, err.Cutoff, err.Width)
}

func (err *CutoffError) Kind() string { return KindCutoff }

// ModelError is returned when a prediction model or its inputs are inconsistent:
// array shapes that don't chain, missing arrays, feature counts that don't
// match the first layer. It is always critical.
type ModelError struct {
	errorBase
}

func NewModelError(filename, message string) *ModelError {
	return &ModelError{errorBase{message: message, filename: filename, critical: true}}
}

func (err *ModelError) Error() string {
	return err.prefix() + "model: " + err.message
}

func (err *ModelError) Kind() string { return KindModel }

// KindOf returns the kind of a StructureError anywhere in the chain of err,
// or "Error" if there is none.
func KindOf(err error) string {
	var serr StructureError
	if errors.As(err, &serr) {
		return serr.Kind()
	}
	return "Error"
}

// IsCritical returns true if err, or an error it wraps, is a critical chem.Error.
func IsCritical(err error) bool {
	var cerr Error
	if errors.As(err, &cerr) {
		return cerr.Critical()
	}
	return false
}

// errDecorate decorates the error with the caller's name before returning it,
// if the error is a chem.Error. Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var cerr Error
	if errors.As(err, &cerr) {
		cerr.Decorate(caller)
	}
	return err
}
