/*
 * interfaces.go, part of gomof.
 *
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

// Atomer is implemented by anything holding a sequence of atoms.
type Atomer interface {

	//Atom returns the Atom corresponding to the index i
	//of the Atom slice. Should panic if
	//out of range.
	Atom(i int) *Atom

	Len() int
}

// Propertier gives scalar atomic properties for element symbols.
type Propertier interface {
	//Value returns the value of the property prop for the element symbol.
	//It returns an *UnknownElementError if either is not present.
	Value(symbol, prop string) (float64, error)
}

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call also returns the "decoration" slice of strings resulting from the current call. If passed an empty string, it should just return the current value, not add the empty string to the slice.
	Critical() bool
}

// StructureError is the interface for errors that concern one particular
// structure (file). They carry a kind, which is what gets reported when the
// structure is skipped in a batch.
type StructureError interface {
	Error
	FileName() string
	Kind() string
}
