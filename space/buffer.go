package space

import (
	"fmt"

	"github.com/seanpm2001/fenris/geometry2D"
	"github.com/seanpm2001/fenris/utils"
)

// BufferUpdate selects which basis data UpdateReferencePoint recomputes. A
// caller visiting many points inside one element pays only for the data it
// asks for at each point.
type BufferUpdate uint8

const (
	ValueOnly BufferUpdate = iota
	GradientOnly
	Both
)

// InterpolationBuffer is reusable per-worker scratch state for evaluating a
// coefficient-defined field inside one element at a time. Binding to an
// element gathers the element-local coefficient slice once; subsequent point
// updates recompute only the basis data the requested mode needs, and only
// when the point actually changed.
//
// The buffer holds a read-only view of the global coefficient vector from
// PrepareElementInSpace until Release or the next rebind; the vector must
// not be mutated in that window. A buffer is never shared between
// concurrent workers.
type InterpolationBuffer struct {
	space       FiniteElementSpace
	coeffs      []float64
	solutionDim int
	elem        int

	dofs        []int
	localCoeffs utils.Matrix // LocalDofs x solutionDim

	refPoint geometry2D.Point
	hasPoint bool

	basisValues    []float64
	basisGradients utils.Matrix // ReferenceDim x LocalDofs
	jacobian       utils.Matrix

	haveValues    bool
	haveGradients bool
	haveJacobian  bool

	// gradScratch is reused by batch gradient evaluation so the steady
	// state stays allocation free.
	gradScratch utils.Matrix
}

func NewInterpolationBuffer() *InterpolationBuffer {
	return &InterpolationBuffer{elem: -1}
}

// ElementID returns the bound element, -1 when unbound.
func (b *InterpolationBuffer) ElementID() int { return b.elem }

func (b *InterpolationBuffer) SolutionDim() int { return b.solutionDim }

// PrepareElementInSpace binds the buffer to an element, gathering its local
// coefficients from globalCoeffs through the element's degree of freedom
// map. All cached point data is invalidated.
func (b *InterpolationBuffer) PrepareElementInSpace(elem int, sp FiniteElementSpace,
	globalCoeffs []float64, solutionDim int) (err error) {
	if solutionDim < 1 {
		return &ErrDimensionMismatch{Expected: 1, Actual: solutionDim, What: "solution dimension"}
	}
	if elem < 0 || elem >= sp.NumElements() {
		return &ErrInvalidElementID{ElementID: elem, NumElements: sp.NumElements()}
	}
	if want := sp.NumGlobalDofs() * solutionDim; len(globalCoeffs) != want {
		return &ErrDimensionMismatch{Expected: want, Actual: len(globalCoeffs), What: "global coefficient vector"}
	}
	if b.dofs, err = sp.ElementDofs(elem, b.dofs); err != nil {
		return
	}
	local := sp.LocalDofs()
	if b.localCoeffs.IsEmpty() {
		b.localCoeffs = utils.NewMatrix(local, solutionDim)
	} else if nr, nc := b.localCoeffs.Dims(); nr != local || nc != solutionDim {
		b.localCoeffs = utils.NewMatrix(local, solutionDim)
	}
	for k, dof := range b.dofs {
		for c := 0; c < solutionDim; c++ {
			b.localCoeffs.Set(k, c, globalCoeffs[dof*solutionDim+c])
		}
	}
	b.space = sp
	b.coeffs = globalCoeffs
	b.solutionDim = solutionDim
	b.elem = elem
	b.invalidate()
	return
}

// Release unbinds the buffer and drops its view of the coefficient vector.
func (b *InterpolationBuffer) Release() {
	b.space = nil
	b.coeffs = nil
	b.solutionDim = 0
	b.elem = -1
	b.invalidate()
}

func (b *InterpolationBuffer) invalidate() {
	b.hasPoint = false
	b.haveValues = false
	b.haveGradients = false
	b.haveJacobian = false
}

// UpdateReferencePoint moves the buffer to a reference point, recomputing
// exactly the basis data mode requires. Repeating a point is free.
func (b *InterpolationBuffer) UpdateReferencePoint(pt geometry2D.Point, mode BufferUpdate) (err error) {
	if b.elem < 0 {
		return fmt.Errorf("%w: no element bound, call PrepareElementInSpace first", ErrStaleBuffer)
	}
	if !b.hasPoint || pt != b.refPoint {
		b.invalidate()
		b.refPoint = pt
		b.hasPoint = true
	}
	if (mode == ValueOnly || mode == Both) && !b.haveValues {
		if b.basisValues, err = b.space.EvalBasis(pt, b.basisValues); err != nil {
			return
		}
		b.haveValues = true
	}
	if mode == GradientOnly || mode == Both {
		if !b.haveGradients {
			if b.basisGradients, err = b.space.EvalBasisGradients(pt, b.basisGradients); err != nil {
				return
			}
			b.haveGradients = true
		}
		if !b.haveJacobian {
			if b.jacobian, err = b.space.ElementReferenceJacobian(b.elem, pt); err != nil {
				return
			}
			b.haveJacobian = true
		}
	}
	return
}

// Interpolate writes the field value at the current point into dst, length
// SolutionDim. Requires a prior ValueOnly or Both update.
func (b *InterpolationBuffer) Interpolate(dst []float64) ([]float64, error) {
	if !b.haveValues {
		return nil, fmt.Errorf("%w: Interpolate requires a ValueOnly or Both update", ErrStaleBuffer)
	}
	if cap(dst) < b.solutionDim {
		dst = make([]float64, b.solutionDim)
	}
	dst = dst[:b.solutionDim]
	for c := 0; c < b.solutionDim; c++ {
		var sum float64
		for k, phi := range b.basisValues {
			sum += b.localCoeffs.At(k, c) * phi
		}
		dst[c] = sum
	}
	return dst, nil
}

// InterpolateRefGradient writes the reference space field gradient at the
// current point into dst, (ReferenceDim x SolutionDim). Requires a prior
// GradientOnly or Both update.
func (b *InterpolationBuffer) InterpolateRefGradient(dst utils.Matrix) (utils.Matrix, error) {
	if !b.haveGradients {
		return utils.Matrix{}, fmt.Errorf("%w: InterpolateRefGradient requires a GradientOnly or Both update", ErrStaleBuffer)
	}
	refDim := b.space.ReferenceDim()
	if dst.IsEmpty() {
		dst = utils.NewMatrix(refDim, b.solutionDim)
	} else if nr, nc := dst.Dims(); nr != refDim || nc != b.solutionDim {
		dst = utils.NewMatrix(refDim, b.solutionDim)
	}
	dst.M.Mul(b.basisGradients.M, b.localCoeffs.M)
	return dst, nil
}

// ElementReferenceJacobian returns the cached Jacobian of the geometric map
// at the current point. The returned matrix is shared and read-only.
func (b *InterpolationBuffer) ElementReferenceJacobian() (utils.Matrix, error) {
	if !b.haveJacobian {
		return utils.Matrix{}, fmt.Errorf("%w: ElementReferenceJacobian requires a GradientOnly or Both update", ErrStaleBuffer)
	}
	return b.jacobian, nil
}
