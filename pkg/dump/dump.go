// Package dump writes point groups as LAMMPS-style text trajectories that
// OVITO and similar viewers read directly.
//
// The file holds a single timestep:
//
//	ITEM: TIMESTEP
//	0
//	ITEM: NUMBER OF ATOMS
//	<n>
//	ITEM: BOX BOUNDS pp pp pp
//	<lo> <hi>    (three times, lo = floor(-L/2), hi = floor(L/2))
//	ITEM: ATOMS id type x y z
//	<id> <type> <x> <y> <z>
//
// Ids restart at 1 for every group. A group whose points carry their own type
// is written with type+groupIndex; an untyped group i gets i+1+maxType, where
// maxType is the largest per-point type seen in earlier groups.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/matzehuels/pointpack/pkg/errors"
	"github.com/matzehuels/pointpack/pkg/shape"
)

// Group is one block of points. A group is typed when its first point has a
// non-zero Type.
type Group []shape.Point

func (g Group) typed() bool { return len(g) > 0 && g[0].Type != 0 }

// Count returns the total number of points across groups.
func Count(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	return n
}

// Write encodes groups into w for a cubic box of side boxLen.
func Write(w io.Writer, groups []Group, boxLen float64) error {
	bw := bufio.NewWriter(w)

	lo, hi := math.Floor(-boxLen/2), math.Floor(boxLen/2)
	fmt.Fprintf(bw, "ITEM: TIMESTEP\n0\n")
	fmt.Fprintf(bw, "ITEM: NUMBER OF ATOMS\n%d\n", Count(groups))
	fmt.Fprintf(bw, "ITEM: BOX BOUNDS pp pp pp\n")
	for range 3 {
		fmt.Fprintf(bw, "%.1f %.1f\n", lo, hi)
	}
	fmt.Fprintf(bw, "ITEM: ATOMS id type x y z\n")

	maxType := 0
	for i, g := range groups {
		typed := g.typed()
		for j, p := range g {
			typ := i + 1 + maxType
			if typed {
				typ = p.Type + i
				maxType = max(maxType, p.Type)
			}
			fmt.Fprintf(bw, "%d %d %.6f %.6f %.6f\n", j+1, typ, p.Pos.X, p.Pos.Y, p.Pos.Z)
		}
	}
	return bw.Flush()
}

// WriteFile writes groups to path, creating parent directories as needed.
func WriteFile(path string, groups []Group, boxLen float64) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dump file: %w", err)
	}
	if err := Write(f, groups, boxLen); err != nil {
		f.Close()
		return fmt.Errorf("write dump file: %w", err)
	}
	return f.Close()
}
