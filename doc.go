/*
 * doc.go, part of gomof.
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

/*
Package chem is the main package of the goMOF library. It provides the crystal structure,
atom and unit cell types, a reader for CIF files and the table of atomic properties
used to weight structural descriptors of porous materials (MOFs and friends).

	**goMOF Capabilities**

	Reads CIF files (plain, gzip or zstd compressed), keeping the unit cell and the
	fractional coordinates and element symbols of all the atoms in the cell (P1).

	Converts fractional to cartesian coordinates for any triclinic cell.

	Calculates atomic property weighted radial distribution functions (AP-RDF)
	with periodic boundary conditions (package rdf), concurrently over many
	structures (package batch).

	Calculates "bag of atoms" descriptors, with Lennard-Jones parameters summed
	over a grid of cuboids spanning the unit cell (package boa).

	Loads simple multilayer perceptrons, with weights stored as numpy arrays, and
	predicts adsorption properties from the descriptors (package predict).

	Plots the AP-RDF of a structure (package chemplot).

Coordinates are kept in the v3.Matrix type, based on gonum's mat.Dense, where
each row represents one point in space.
*/
package chem
