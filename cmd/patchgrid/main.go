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

// Command patchgrid is a command-line interface for building the spatial
// structure of multi-patch epidemic models.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/patchgrid/patchgridutil"
)

func main() {
	if err := patchgridutil.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
