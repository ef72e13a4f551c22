package space

import (
	"github.com/seanpm2001/fenris/geometry2D"
	"github.com/seanpm2001/fenris/mesh"
	"github.com/seanpm2001/fenris/utils"
)

// referenceDomainSlack bounds how far outside the reference triangle a point
// may sit before basis evaluation rejects it outright. Point location admits
// boundary points well within this.
const referenceDomainSlack = 1.e-09

// TriLagrangeSpace is the linear (P1) Lagrange space over a triangle mesh.
// The reference triangle has corners (-1,-1), (1,-1), (-1,1); degrees of
// freedom coincide with the mesh vertices, so the geometric map is affine
// with a constant per-element Jacobian, precomputed here once.
type TriLagrangeSpace struct {
	Msh   *mesh.TriMesh2D
	jac   []utils.Matrix
	boxes []geometry2D.BoundingBox
}

func NewTriLagrangeSpace(msh *mesh.TriMesh2D) (sp *TriLagrangeSpace) {
	sp = &TriLagrangeSpace{
		Msh:   msh,
		jac:   make([]utils.Matrix, msh.NumElements()),
		boxes: msh.BoundingBoxes(),
	}
	for k := range sp.jac {
		v := msh.ElementVertices(k)
		J := utils.NewMatrix(2, 2, []float64{
			0.5 * (v[1].X[0] - v[0].X[0]), 0.5 * (v[2].X[0] - v[0].X[0]),
			0.5 * (v[1].X[1] - v[0].X[1]), 0.5 * (v[2].X[1] - v[0].X[1]),
		})
		sp.jac[k] = J.SetReadOnly("ElementReferenceJacobian")
	}
	return
}

func (sp *TriLagrangeSpace) NumElements() int   { return sp.Msh.NumElements() }
func (sp *TriLagrangeSpace) NumGlobalDofs() int { return sp.Msh.NumVertices() }
func (sp *TriLagrangeSpace) LocalDofs() int     { return 3 }
func (sp *TriLagrangeSpace) ReferenceDim() int  { return 2 }
func (sp *TriLagrangeSpace) GeometryDim() int   { return 2 }

func (sp *TriLagrangeSpace) ElementDofs(elem int, dst []int) ([]int, error) {
	if elem < 0 || elem >= sp.NumElements() {
		return nil, &ErrInvalidElementID{ElementID: elem, NumElements: sp.NumElements()}
	}
	if cap(dst) < 3 {
		dst = make([]int, 3)
	}
	dst = dst[:3]
	verts := sp.Msh.ElementVertexIds(elem)
	copy(dst, verts[:])
	return dst, nil
}

// barycentric evaluates the P1 shape functions at a reference point.
func barycentric(pt geometry2D.Point) (l1, l2, l3 float64) {
	r, s := pt.X[0], pt.X[1]
	l1 = -0.5 * (r + s)
	l2 = 0.5 * (1. + r)
	l3 = 0.5 * (1. + s)
	return
}

func (sp *TriLagrangeSpace) EvalBasis(pt geometry2D.Point, dst []float64) ([]float64, error) {
	if !sp.ReferenceDomainContains(pt, referenceDomainSlack) {
		return nil, &ErrInvalidReferencePoint{Point: pt}
	}
	if cap(dst) < 3 {
		dst = make([]float64, 3)
	}
	dst = dst[:3]
	dst[0], dst[1], dst[2] = barycentric(pt)
	return dst, nil
}

func (sp *TriLagrangeSpace) EvalBasisGradients(pt geometry2D.Point, dst utils.Matrix) (utils.Matrix, error) {
	if !sp.ReferenceDomainContains(pt, referenceDomainSlack) {
		return utils.Matrix{}, &ErrInvalidReferencePoint{Point: pt}
	}
	if dst.IsEmpty() {
		dst = utils.NewMatrix(2, 3)
	} else if nr, nc := dst.Dims(); nr != 2 || nc != 3 {
		dst = utils.NewMatrix(2, 3)
	}
	// Constant for P1: d(lambda)/dr and d(lambda)/ds per basis function
	dst.Set(0, 0, -0.5).Set(0, 1, 0.5).Set(0, 2, 0)
	dst.Set(1, 0, -0.5).Set(1, 1, 0).Set(1, 2, 0.5)
	return dst, nil
}

func (sp *TriLagrangeSpace) MapElementReferenceCoords(elem int, pt geometry2D.Point) (geometry2D.Point, error) {
	if elem < 0 || elem >= sp.NumElements() {
		return geometry2D.Point{}, &ErrInvalidElementID{ElementID: elem, NumElements: sp.NumElements()}
	}
	l1, l2, l3 := barycentric(pt)
	v := sp.Msh.ElementVertices(elem)
	return geometry2D.NewPoint(
		l1*v[0].X[0]+l2*v[1].X[0]+l3*v[2].X[0],
		l1*v[0].X[1]+l2*v[1].X[1]+l3*v[2].X[1],
	), nil
}

func (sp *TriLagrangeSpace) ElementReferenceJacobian(elem int, pt geometry2D.Point) (utils.Matrix, error) {
	if elem < 0 || elem >= sp.NumElements() {
		return utils.Matrix{}, &ErrInvalidElementID{ElementID: elem, NumElements: sp.NumElements()}
	}
	// Affine map, the Jacobian is constant over the element
	return sp.jac[elem], nil
}

func (sp *TriLagrangeSpace) ReferenceDomainContains(pt geometry2D.Point, tol float64) bool {
	r, s := pt.X[0], pt.X[1]
	return r >= -1.-tol && s >= -1.-tol && r+s <= tol
}

func (sp *TriLagrangeSpace) ElementBoundingBoxes() []geometry2D.BoundingBox {
	return sp.boxes
}
