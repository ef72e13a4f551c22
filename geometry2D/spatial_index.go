package geometry2D

import (
	"fmt"
	"math"
	"sort"

	"github.com/seanpm2001/fenris/utils"
)

// SpatialIndex answers point containment queries over a set of element
// bounding boxes. The cell to element incidence is assembled once into a DOK
// and frozen to CSR, after which the index is immutable and safe to share
// between concurrent readers.
type SpatialIndex struct {
	Bounds BoundingBox
	boxes  []BoundingBox
	nx, ny int
	dx, dy float64
	cells  utils.CSR // (nx*ny) x len(boxes) incidence
}

func NewSpatialIndex(boxes []BoundingBox) (si *SpatialIndex, err error) {
	if len(boxes) == 0 {
		err = fmt.Errorf("no bounding boxes supplied")
		return
	}
	si = &SpatialIndex{
		Bounds: boxes[0],
		boxes:  boxes,
	}
	for i := 1; i < len(boxes); i++ {
		si.Bounds.Union(&boxes[i])
	}
	if si.Bounds.IsDegenerate() {
		err = fmt.Errorf("degenerate geometry, zero extent in both directions")
		si = nil
		return
	}
	// Roughly two elements per cell on average
	n := int(math.Ceil(math.Sqrt(float64(len(boxes)) / 2.)))
	if n < 1 {
		n = 1
	}
	si.nx, si.ny = n, n
	si.dx = (si.Bounds.XMax[0] - si.Bounds.XMin[0]) / float64(si.nx)
	si.dy = (si.Bounds.XMax[1] - si.Bounds.XMin[1]) / float64(si.ny)
	if si.dx <= 0 || si.dy <= 0 {
		err = fmt.Errorf("degenerate geometry, zero extent in one direction")
		si = nil
		return
	}
	dok := utils.NewDOK(si.nx*si.ny, len(boxes))
	pad := 1.e-09 * math.Max(si.dx, si.dy)
	for k, box := range boxes {
		i0, j0 := si.cellOf(NewPoint(box.XMin[0]-pad, box.XMin[1]-pad))
		i1, j1 := si.cellOf(NewPoint(box.XMax[0]+pad, box.XMax[1]+pad))
		for j := j0; j <= j1; j++ {
			for i := i0; i <= i1; i++ {
				dok.Set(j*si.nx+i, k, 1)
			}
		}
	}
	si.cells = dok.ToCSR()
	return
}

func (si *SpatialIndex) NumElements() int { return len(si.boxes) }

func (si *SpatialIndex) cellOf(p Point) (i, j int) {
	i = int(math.Floor((p.X[0] - si.Bounds.XMin[0]) / si.dx))
	j = int(math.Floor((p.X[1] - si.Bounds.XMin[1]) / si.dy))
	i = clamp(i, 0, si.nx-1)
	j = clamp(j, 0, si.ny-1)
	return
}

// Query returns the ids, in ascending order, of all elements whose bounding
// box contains p within tol. dst is reused when its capacity allows.
func (si *SpatialIndex) Query(p Point, tol float64, dst []int) []int {
	dst = dst[:0]
	if !si.Bounds.Contains(p, tol) {
		return dst
	}
	i, j := si.cellOf(p)
	si.cells.DoRowNonZero(j*si.nx+i, func(_, k int, _ float64) {
		if si.boxes[k].Contains(p, tol) {
			dst = append(dst, k)
		}
	})
	sort.Ints(dst)
	return dst
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
