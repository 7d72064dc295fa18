/*
Copyright © 2024 the PatchGrid authors.
This file is part of PatchGrid.

PatchGrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PatchGrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PatchGrid.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package patchgrid builds the spatial structure for multi-patch
// compartmental epidemic models. Given a collection of administrative
// polygons it tiles the region of interest with square or hexagonal grid
// cells, computes the area-weighted distribution of each cell over the
// underlying polygons (the cell "mixture"), and derives a symmetric binary
// adjacency matrix connecting cells (or the polygons themselves) that share
// a boundary. The grid table and adjacency matrix together parameterize
// per-patch transition rates and cross-patch migration terms in a generated
// model file; see the sbml subpackage.
package patchgrid
