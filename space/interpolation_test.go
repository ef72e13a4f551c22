package space

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanpm2001/fenris/geometry2D"
	"github.com/seanpm2001/fenris/mesh"
	"github.com/seanpm2001/fenris/quadrature"
	"github.com/seanpm2001/fenris/utils"
)

func uScalar(p geometry2D.Point) []float64 {
	x, y := p.X[0], p.X[1]
	return []float64{(math.Cos(x) + math.Sin(y)) * x * x}
}

func uVector(p geometry2D.Point) []float64 {
	x, y := p.X[0], p.X[1]
	return []float64{
		(math.Cos(x) + math.Sin(y)) * x * x,
		math.Log(x*x+0.5)*math.Log(y*y+0.25) + x*y + 3.0,
	}
}

type expectedInterpolationValues struct {
	x     []geometry2D.Point
	u     []float64 // len(x) * dim
	gradU []float64 // len(x) * 2 * dim, row-major (d/dx then d/dy)
}

// computeExpectedInterpolationValues evaluates the field element by element
// in reference coordinates, recording the physical image of every point so
// the same locations can be queried again through the spatial index.
func computeExpectedInterpolationValues(t *testing.T, sp FiniteElementSpace,
	quadPoints []geometry2D.Point, coeffs []float64, dim int) (ev expectedInterpolationValues) {
	buffer := NewInterpolationBuffer()
	for k := 0; k < sp.NumElements(); k++ {
		require.NoError(t, buffer.PrepareElementInSpace(k, sp, coeffs, dim))
		for _, xi := range quadPoints {
			require.NoError(t, buffer.UpdateReferencePoint(xi, Both))
			u, err := buffer.Interpolate(nil)
			require.NoError(t, err)
			gradRef, err := buffer.InterpolateRefGradient(utils.Matrix{})
			require.NoError(t, err)
			J, err := buffer.ElementReferenceJacobian()
			require.NoError(t, err)
			JinvT, err := J.InverseTranspose()
			require.NoError(t, err)
			grad := JinvT.Mul(gradRef)
			x, err := sp.MapElementReferenceCoords(k, xi)
			require.NoError(t, err)

			ev.x = append(ev.x, x)
			ev.u = append(ev.u, u...)
			ev.gradU = append(ev.gradU, grad.Data()...)
		}
	}
	return
}

// TestSpatiallyIndexedInterpolationTrimesh interpolates at points of a
// finite element space in two ways: by computing values in the reference
// coordinates of each element (the expected values), and by interpolating at
// the corresponding physical coordinates through the spatially indexed
// wrapper. Both must agree for interior points in value and gradient. For
// points on element interfaces only values are compared, gradients are
// discontinuous there.
func TestSpatiallyIndexedInterpolationTrimesh(t *testing.T) {
	msh := mesh.UnitSquareUniformTriMesh(10)
	sp := NewTriLagrangeSpace(msh)

	uWeightsScalar := GlobalVectorFromPointFn(msh.Vertices(), 1, uScalar)
	uWeightsVector := GlobalVectorFromPointFn(msh.Vertices(), 2, uVector)

	indexed, err := FromSpace(sp)
	require.NoError(t, err)

	_, interiorPoints, err := quadrature.TriangleTotalOrder(4)
	require.NoError(t, err)

	// Points on the boundary of the reference element, which map to the
	// boundary of the physical element and thus onto interfaces between
	// neighboring elements
	interfacePoints := []geometry2D.Point{
		geometry2D.NewPoint(-1, -1),
		geometry2D.NewPoint(1, -1),
		geometry2D.NewPoint(-1, 1),
		geometry2D.NewPoint(-1, 0.5),
		geometry2D.NewPoint(0.5, -1),
		geometry2D.NewPoint(0, 0),
	}

	check := func(dim int, coeffs []float64, refPoints []geometry2D.Point, checkGradients bool) {
		ev := computeExpectedInterpolationValues(t, sp, refPoints, coeffs, dim)

		values := make([]float64, len(ev.x)*dim)
		require.NoError(t, indexed.InterpolateAtPoints(ev.x, coeffs, dim, values))
		for i := range values {
			assert.InDelta(t, ev.u[i], values[i], 1.e-12)
		}

		if checkGradients {
			gradients := make([]float64, len(ev.x)*2*dim)
			require.NoError(t, indexed.InterpolateGradientAtPoints(ev.x, coeffs, dim, gradients))
			for i := range gradients {
				assert.InDelta(t, ev.gradU[i], gradients[i], 1.e-12)
			}
		}
	}

	// Interior quadrature points: values and gradients, scalar then vector
	check(1, uWeightsScalar, interiorPoints, true)
	check(2, uWeightsVector, interiorPoints, true)

	// Interface points: values only, gradients are discontinuous there
	check(1, uWeightsScalar, interfacePoints, false)
	check(2, uWeightsVector, interfacePoints, false)
}

// The exact reproduction of a linear field is a direct consequence of P1
// interpolation and makes the consistency checks above meaningful.
func TestLinearFieldReproduction(t *testing.T) {
	var (
		msh     = mesh.UnitSquareUniformTriMesh(4)
		sp      = NewTriLagrangeSpace(msh)
		uLinear = func(p geometry2D.Point) []float64 {
			return []float64{3.*p.X[0] - 2.*p.X[1] + 0.5}
		}
		coeffs = GlobalVectorFromPointFn(msh.Vertices(), 1, uLinear)
	)
	indexed, err := FromSpace(sp)
	require.NoError(t, err)

	queries := []geometry2D.Point{
		geometry2D.NewPoint(0.123, 0.456),
		geometry2D.NewPoint(0.999, 0.001),
		geometry2D.NewPoint(0.5, 0.5),
		geometry2D.NewPoint(0, 0),
		geometry2D.NewPoint(1, 1),
	}
	values := make([]float64, len(queries))
	require.NoError(t, indexed.InterpolateAtPoints(queries, coeffs, 1, values))
	for i, q := range queries {
		assert.InDelta(t, uLinear(q)[0], values[i], 1.e-13)
	}

	gradients := make([]float64, len(queries)*2)
	require.NoError(t, indexed.InterpolateGradientAtPoints(queries, coeffs, 1, gradients))
	for i := range queries {
		assert.InDelta(t, 3., gradients[2*i], 1.e-12)
		assert.InDelta(t, -2., gradients[2*i+1], 1.e-12)
	}
}
