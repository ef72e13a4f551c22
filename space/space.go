/*
Package space evaluates coefficient-defined fields over finite element
meshes, either at reference coordinates within a known element
(InterpolationBuffer) or at arbitrary physical points located through a
spatial index (SpatiallyIndexed).
*/
package space

import (
	"github.com/seanpm2001/fenris/geometry2D"
	"github.com/seanpm2001/fenris/utils"
)

// FiniteElementSpace is the contract the interpolation machinery consumes.
// Element ids are dense integers in [0, NumElements()).
type FiniteElementSpace interface {
	NumElements() int
	NumGlobalDofs() int

	// LocalDofs is the basis count per element, fixed for the space.
	LocalDofs() int
	ReferenceDim() int
	GeometryDim() int

	// ElementDofs writes the local to global degree of freedom map for the
	// element into dst, growing it as needed.
	ElementDofs(elem int, dst []int) ([]int, error)

	// EvalBasis evaluates the basis functions at a reference point, one
	// value per local degree of freedom. Points outside the reference
	// domain fail with ErrInvalidReferencePoint.
	EvalBasis(pt geometry2D.Point, dst []float64) ([]float64, error)

	// EvalBasisGradients evaluates the reference space basis gradients,
	// (ReferenceDim x LocalDofs), column k holding the gradient of basis k.
	EvalBasisGradients(pt geometry2D.Point, dst utils.Matrix) (utils.Matrix, error)

	// MapElementReferenceCoords evaluates the (possibly non-affine)
	// geometric map. The map must be defined beyond the reference domain,
	// point location iterates through exterior trial points.
	MapElementReferenceCoords(elem int, pt geometry2D.Point) (geometry2D.Point, error)

	// ElementReferenceJacobian is J[i][j] = dx_i/dxi_j at the point. The
	// physical gradient of a field is J^-T times its reference gradient.
	ElementReferenceJacobian(elem int, pt geometry2D.Point) (utils.Matrix, error)

	// ReferenceDomainContains reports membership of pt in the reference
	// domain, admitting points within tol of the boundary.
	ReferenceDomainContains(pt geometry2D.Point, tol float64) bool

	// ElementBoundingBoxes is the element bounding geometry the spatial
	// index is built over.
	ElementBoundingBoxes() []geometry2D.BoundingBox
}

// GlobalVectorFromPointFn samples f at each point and packs the results into
// a flat coefficient vector of length len(points)*solutionDim, point-major.
// For nodal Lagrange spaces this produces the coefficients interpolating f.
func GlobalVectorFromPointFn(points []geometry2D.Point, solutionDim int,
	f func(geometry2D.Point) []float64) (coeffs []float64) {
	coeffs = make([]float64, 0, len(points)*solutionDim)
	for _, p := range points {
		v := f(p)
		if len(v) != solutionDim {
			panic(&ErrDimensionMismatch{
				Expected: solutionDim,
				Actual:   len(v),
				What:     "point function result",
			})
		}
		coeffs = append(coeffs, v...)
	}
	return
}
