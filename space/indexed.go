package space

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/seanpm2001/fenris/geometry2D"
	"github.com/seanpm2001/fenris/utils"
)

const (
	DefaultMaxIterations              = 32
	DefaultConvergenceTolerance       = 1.e-14
	DefaultBoundaryAdmissionTolerance = 1.e-12
)

// Option configures a SpatiallyIndexed wrapper.
type Option func(*SpatiallyIndexed)

// WithMaxIterations bounds the Newton iteration count of the reference
// coordinate recovery for non-affine geometric maps.
func WithMaxIterations(n int) Option {
	return func(s *SpatiallyIndexed) { s.maxIterations = n }
}

// WithConvergenceTolerance sets the physical space residual below which the
// map inversion is accepted.
func WithConvergenceTolerance(tol float64) Option {
	return func(s *SpatiallyIndexed) { s.convergenceTol = tol }
}

// WithBoundaryAdmissionTolerance sets how far outside the reference domain a
// recovered point may sit and still be attributed to the element, admitting
// queries on shared element boundaries.
func WithBoundaryAdmissionTolerance(tol float64) Option {
	return func(s *SpatiallyIndexed) { s.boundaryTol = tol }
}

// WithWorkers distributes batch calls over n workers, each owning its own
// interpolation buffer. Output ordering is unaffected.
func WithWorkers(n int) Option {
	return func(s *SpatiallyIndexed) { s.workers = n }
}

// WithFailFast makes batch calls abort on the first per-point failure
// instead of collecting a PointwiseErrors report.
func WithFailFast() Option {
	return func(s *SpatiallyIndexed) { s.failFast = true }
}

// SpatiallyIndexed wraps a finite element space with a spatial index over
// its element bounding geometry, so fields can be queried at physical points
// without knowing which element contains them. The index is built once in
// FromSpace; afterwards the wrapper is read-only and safe for concurrent
// use.
//
// When a query point lies on a boundary shared by several elements, the
// element with the lowest id wins. Values are continuous across such
// boundaries, gradients generally are not, so gradient queries there report
// the winning element's one-sided gradient.
type SpatiallyIndexed struct {
	space FiniteElementSpace
	index *geometry2D.SpatialIndex

	maxIterations  int
	convergenceTol float64
	boundaryTol    float64
	workers        int
	failFast       bool
}

func FromSpace(sp FiniteElementSpace, opts ...Option) (s *SpatiallyIndexed, err error) {
	if sp.NumElements() == 0 {
		err = fmt.Errorf("%w: space has no elements", ErrEmptyMesh)
		return
	}
	index, err := geometry2D.NewSpatialIndex(sp.ElementBoundingBoxes())
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrEmptyMesh, err)
		return
	}
	s = &SpatiallyIndexed{
		space:          sp,
		index:          index,
		maxIterations:  DefaultMaxIterations,
		convergenceTol: DefaultConvergenceTolerance,
		boundaryTol:    DefaultBoundaryAdmissionTolerance,
		workers:        1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxIterations < 1 {
		s.maxIterations = 1
	}
	if s.workers < 1 {
		s.workers = 1
	}
	return
}

// Space returns the wrapped finite element space.
func (s *SpatiallyIndexed) Space() FiniteElementSpace { return s.space }

// LocatePoint finds the element containing the physical point p and the
// reference coordinates p maps back to. Candidates from the spatial index
// are tried in ascending element id order and the first acceptance wins,
// which makes shared-boundary resolution deterministic.
func (s *SpatiallyIndexed) LocatePoint(p geometry2D.Point) (elem int, ref geometry2D.Point, err error) {
	var scratch []int
	return s.locate(p, &scratch)
}

func (s *SpatiallyIndexed) locate(p geometry2D.Point, scratch *[]int) (elem int, ref geometry2D.Point, err error) {
	candidates := s.index.Query(p, s.boundaryTol, *scratch)
	*scratch = candidates
	for _, k := range candidates {
		xi, ok := s.invertMap(k, p)
		if ok && s.space.ReferenceDomainContains(xi, s.boundaryTol) {
			return k, xi, nil
		}
	}
	return -1, geometry2D.Point{}, &ErrPointLocation{Point: p, Candidates: len(candidates)}
}

// invertMap recovers reference coordinates for p on element k by damped
// Newton on the geometric map. Affine maps converge on the first step.
func (s *SpatiallyIndexed) invertMap(k int, p geometry2D.Point) (xi geometry2D.Point, ok bool) {
	xi = geometry2D.NewPoint(-1./3., -1./3.) // reference centroid start
	x, err := s.space.MapElementReferenceCoords(k, xi)
	if err != nil {
		return
	}
	res := math.Hypot(x.X[0]-p.X[0], x.X[1]-p.X[1])
	for it := 0; it < s.maxIterations && res > s.convergenceTol; it++ {
		J, err := s.space.ElementReferenceJacobian(k, xi)
		if err != nil {
			return
		}
		i00, i01, i10, i11, err := invert2x2(J)
		if err != nil {
			// Degenerate geometry, the candidate cannot accept the point
			return
		}
		var (
			dx0, dx1 = x.X[0] - p.X[0], x.X[1] - p.X[1]
			d0       = i00*dx0 + i01*dx1
			d1       = i10*dx0 + i11*dx1
			improved bool
		)
		for lambda := 1.; lambda >= 1./16.; lambda *= 0.5 {
			trial := geometry2D.NewPoint(xi.X[0]-lambda*d0, xi.X[1]-lambda*d1)
			xt, err := s.space.MapElementReferenceCoords(k, trial)
			if err != nil {
				return
			}
			if rt := math.Hypot(xt.X[0]-p.X[0], xt.X[1]-p.X[1]); rt < res {
				xi, x, res = trial, xt, rt
				improved = true
				break
			}
		}
		if !improved {
			break
		}
	}
	ok = res <= s.convergenceTol
	return
}

// invert2x2 inverts a 2x2 Jacobian without allocating, so the point location
// hot path stays allocation free.
func invert2x2(J utils.Matrix) (i00, i01, i10, i11 float64, err error) {
	var (
		a, b = J.At(0, 0), J.At(0, 1)
		c, d = J.At(1, 0), J.At(1, 1)
		det  = a*d - b*c
	)
	if math.Abs(det) <= 1.e-14*(math.Abs(a*d)+math.Abs(b*c)) {
		err = fmt.Errorf("2x2 determinant vanishes: %g", det)
		return
	}
	i00, i01 = d/det, -b/det
	i10, i11 = -c/det, a/det
	return
}

// InterpolateAtPoints evaluates the field at each physical point, writing
// values into the caller-preallocated out, flat point-major with stride
// solutionDim. Per-point failures are collected into a PointwiseErrors
// report (their out entries are left untouched) unless WithFailFast was set.
func (s *SpatiallyIndexed) InterpolateAtPoints(points []geometry2D.Point,
	coeffs []float64, solutionDim int, out []float64) error {
	if err := s.checkBatchArgs(points, coeffs, solutionDim, out, solutionDim); err != nil {
		return err
	}
	return s.runBatch(points, func(buf *InterpolationBuffer, i int, elem int, ref geometry2D.Point) (err error) {
		if buf.ElementID() != elem {
			if err = buf.PrepareElementInSpace(elem, s.space, coeffs, solutionDim); err != nil {
				return
			}
		}
		if err = buf.UpdateReferencePoint(ref, ValueOnly); err != nil {
			return
		}
		_, err = buf.Interpolate(out[i*solutionDim : (i+1)*solutionDim])
		return
	})
}

// InterpolateGradientAtPoints evaluates the physical space field gradient at
// each point, writing (ReferenceDim x solutionDim) row-major blocks into out
// with stride ReferenceDim*solutionDim. Gradients are one-sided on shared
// element boundaries, see the tie-break rule on SpatiallyIndexed.
func (s *SpatiallyIndexed) InterpolateGradientAtPoints(points []geometry2D.Point,
	coeffs []float64, solutionDim int, out []float64) error {
	refDim := s.space.ReferenceDim()
	if err := s.checkBatchArgs(points, coeffs, solutionDim, out, refDim*solutionDim); err != nil {
		return err
	}
	return s.runBatch(points, func(buf *InterpolationBuffer, i int, elem int, ref geometry2D.Point) (err error) {
		if buf.ElementID() != elem {
			if err = buf.PrepareElementInSpace(elem, s.space, coeffs, solutionDim); err != nil {
				return
			}
		}
		if err = buf.UpdateReferencePoint(ref, GradientOnly); err != nil {
			return
		}
		if buf.gradScratch, err = buf.InterpolateRefGradient(buf.gradScratch); err != nil {
			return
		}
		J, err := buf.ElementReferenceJacobian()
		if err != nil {
			return
		}
		// physical gradient = J^-T x reference gradient
		i00, i01, i10, i11, err := invert2x2(J)
		if err != nil {
			return &ErrJacobianSingular{ElementID: elem, cause: err}
		}
		block := out[i*refDim*solutionDim : (i+1)*refDim*solutionDim]
		for c := 0; c < solutionDim; c++ {
			g0, g1 := buf.gradScratch.At(0, c), buf.gradScratch.At(1, c)
			block[c] = i00*g0 + i10*g1
			block[solutionDim+c] = i01*g0 + i11*g1
		}
		return
	})
}

func (s *SpatiallyIndexed) checkBatchArgs(points []geometry2D.Point, coeffs []float64,
	solutionDim int, out []float64, stride int) error {
	if solutionDim < 1 {
		return &ErrDimensionMismatch{Expected: 1, Actual: solutionDim, What: "solution dimension"}
	}
	if want := s.space.NumGlobalDofs() * solutionDim; len(coeffs) != want {
		return &ErrDimensionMismatch{Expected: want, Actual: len(coeffs), What: "global coefficient vector"}
	}
	if want := len(points) * stride; len(out) != want {
		return &ErrDimensionMismatch{Expected: want, Actual: len(out), What: "output storage"}
	}
	return nil
}

// runBatch distributes the point sequence over workers in contiguous
// chunks. Workers own their buffers and write disjoint output ranges, so no
// synchronization is needed beyond the final error merge.
func (s *SpatiallyIndexed) runBatch(points []geometry2D.Point,
	eval func(buf *InterpolationBuffer, i int, elem int, ref geometry2D.Point) error) error {
	if len(points) == 0 {
		return nil
	}
	workers := s.workers
	if workers > len(points) {
		workers = len(points)
	}
	var (
		chunkErrs = make([]PointwiseErrors, workers)
		chunk     = (len(points) + workers - 1) / workers
	)
	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		var (
			lo = w * chunk
			hi = lo + chunk
			me = w
		)
		if hi > len(points) {
			hi = len(points)
		}
		g.Go(func() error {
			var (
				buf     = NewInterpolationBuffer()
				scratch []int
			)
			for i := lo; i < hi; i++ {
				if s.failFast && ctx.Err() != nil {
					return ctx.Err()
				}
				elem, ref, err := s.locate(points[i], &scratch)
				if err == nil {
					err = eval(buf, i, elem, ref)
				}
				if err != nil {
					if s.failFast {
						return PointError{Index: i, Err: err}
					}
					chunkErrs[me] = append(chunkErrs[me], PointError{Index: i, Err: err})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	var all PointwiseErrors
	for _, pe := range chunkErrs {
		all = append(all, pe...)
	}
	if len(all) == 0 {
		return nil
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Index < all[j].Index })
	return all
}
