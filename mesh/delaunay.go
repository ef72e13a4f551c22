package mesh

import (
	"fmt"

	"github.com/pradeep-pyro/triangle"
	"github.com/seanpm2001/fenris/geometry2D"
)

// FromPoints builds a triangle mesh over a scattered point cloud using a
// Delaunay triangulation of the points. The points themselves become the
// mesh vertices, in input order.
func FromPoints(points []geometry2D.Point) (msh *TriMesh2D, err error) {
	if len(points) < 3 {
		err = fmt.Errorf("need at least 3 points to triangulate, have %d", len(points))
		return
	}
	var (
		pts = make([][2]float64, len(points))
		vx  = make([]float64, len(points))
		vy  = make([]float64, len(points))
	)
	for i, p := range points {
		pts[i] = p.X
		vx[i] = p.X[0]
		vy[i] = p.X[1]
	}
	faces := triangle.Delaunay(pts)
	if len(faces) == 0 {
		err = fmt.Errorf("triangulation produced no triangles, points may be collinear")
		return
	}
	etov := make([][3]int, len(faces))
	for k, f := range faces {
		for n := 0; n < 3; n++ {
			etov[k][n] = int(f[n])
		}
	}
	msh = NewTriMesh2D(vx, vy, etov)
	return
}
