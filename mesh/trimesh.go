package mesh

import (
	"fmt"

	"github.com/seanpm2001/fenris/geometry2D"
	"github.com/seanpm2001/fenris/utils"
)

// TriMesh2D is an unstructured triangle mesh. Vertex coordinates are stored
// in VX, VY and the element to vertex connectivity in EToV, one row per
// element, three vertex ids per row.
type TriMesh2D struct {
	K, Nv  int // Number of elements, number of vertices
	VX, VY utils.Vector
	EToV   utils.Matrix
}

func NewTriMesh2D(vx, vy []float64, etov [][3]int) (msh *TriMesh2D) {
	var (
		K  = len(etov)
		Nv = len(vx)
	)
	if len(vy) != Nv {
		panic(fmt.Errorf("coordinate lengths differ: len(vx) = %v, len(vy) = %v", len(vx), len(vy)))
	}
	msh = &TriMesh2D{
		K:  K,
		Nv: Nv,
		VX: utils.NewVector(Nv, vx),
		VY: utils.NewVector(Nv, vy),
	}
	if K == 0 {
		return
	}
	msh.EToV = utils.NewMatrix(K, 3)
	for k, tri := range etov {
		for n, v := range tri {
			if v < 0 || v >= Nv {
				panic(fmt.Errorf("vertex id out of range: element %d references vertex %d, have %d vertices", k, v, Nv))
			}
			msh.EToV.Set(k, n, float64(v))
		}
	}
	msh.EToV.SetReadOnly("EToV")
	return
}

func (msh *TriMesh2D) NumElements() int { return msh.K }

func (msh *TriMesh2D) NumVertices() int { return msh.Nv }

func (msh *TriMesh2D) Vertex(i int) geometry2D.Point {
	return geometry2D.NewPoint(msh.VX.AtVec(i), msh.VY.AtVec(i))
}

func (msh *TriMesh2D) Vertices() (pts []geometry2D.Point) {
	pts = make([]geometry2D.Point, msh.Nv)
	for i := range pts {
		pts[i] = msh.Vertex(i)
	}
	return
}

func (msh *TriMesh2D) ElementVertexIds(k int) (verts [3]int) {
	for n := 0; n < 3; n++ {
		verts[n] = int(msh.EToV.At(k, n))
	}
	return
}

func (msh *TriMesh2D) ElementVertices(k int) (pts [3]geometry2D.Point) {
	verts := msh.ElementVertexIds(k)
	for n, v := range verts {
		pts[n] = msh.Vertex(v)
	}
	return
}

// BoundingBoxes returns one axis aligned box per element, the input to
// spatial index construction.
func (msh *TriMesh2D) BoundingBoxes() (boxes []geometry2D.BoundingBox) {
	boxes = make([]geometry2D.BoundingBox, msh.K)
	for k := range boxes {
		pts := msh.ElementVertices(k)
		boxes[k] = *geometry2D.NewBoundingBox(pts[:])
	}
	return
}

// UnitSquareUniformTriMesh subdivides [0,1]^2 into cellsPerDim x cellsPerDim
// quads and splits each along its up-diagonal, producing 2*cellsPerDim^2
// counterclockwise triangles.
func UnitSquareUniformTriMesh(cellsPerDim int) (msh *TriMesh2D) {
	if cellsPerDim < 1 {
		panic(fmt.Errorf("cellsPerDim must be >= 1, have %d", cellsPerDim))
	}
	var (
		n      = cellsPerDim
		nVerts = (n + 1) * (n + 1)
		vx     = make([]float64, nVerts)
		vy     = make([]float64, nVerts)
		etov   = make([][3]int, 0, 2*n*n)
		h      = 1. / float64(n)
	)
	vid := func(i, j int) int { return j*(n+1) + i }
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			vx[vid(i, j)] = float64(i) * h
			vy[vid(i, j)] = float64(j) * h
		}
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			v00, v10 := vid(i, j), vid(i+1, j)
			v01, v11 := vid(i, j+1), vid(i+1, j+1)
			etov = append(etov,
				[3]int{v00, v10, v11},
				[3]int{v00, v11, v01},
			)
		}
	}
	return NewTriMesh2D(vx, vy, etov)
}
