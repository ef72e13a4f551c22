package space

import (
	"errors"
	"fmt"

	"github.com/seanpm2001/fenris/geometry2D"
)

var (
	// ErrEmptyMesh is returned when a spatial index is requested over zero
	// elements or a mesh with no spatial extent.
	ErrEmptyMesh = errors.New("empty or degenerate mesh")

	// ErrStaleBuffer is returned when buffer results are requested without a
	// prior update supplying the required basis data.
	ErrStaleBuffer = errors.New("stale interpolation buffer")
)

// ErrDimensionMismatch indicates a coefficient or output storage length
// inconsistent with the space and solution dimension.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	What     string
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch in %s: expected %d, got %d", e.What, e.Expected, e.Actual)
}

// ErrInvalidElementID indicates an element id outside [0, NumElements).
type ErrInvalidElementID struct {
	ElementID   int
	NumElements int
}

func (e *ErrInvalidElementID) Error() string {
	return fmt.Sprintf("invalid element id %d, space has %d elements", e.ElementID, e.NumElements)
}

// ErrInvalidReferencePoint indicates a point outside the valid reference
// domain of the element.
type ErrInvalidReferencePoint struct {
	Point geometry2D.Point
}

func (e *ErrInvalidReferencePoint) Error() string {
	return fmt.Sprintf("reference point (%g,%g) outside the reference domain", e.Point.X[0], e.Point.X[1])
}

// ErrJacobianSingular indicates degenerate or inverted element geometry.
// Terminal for the query point, never retried.
//
// The underlying inversion error (if any) can be accessed via errors.Unwrap.
type ErrJacobianSingular struct {
	ElementID int
	cause     error
}

func (e *ErrJacobianSingular) Error() string {
	return fmt.Sprintf("singular reference jacobian on element %d", e.ElementID)
}

func (e *ErrJacobianSingular) Unwrap() error { return e.cause }

// ErrPointLocation indicates that no element accepted a physical query point.
type ErrPointLocation struct {
	Point      geometry2D.Point
	Candidates int
}

func (e *ErrPointLocation) Error() string {
	return fmt.Sprintf("no element contains point (%g,%g), %d candidate(s) rejected",
		e.Point.X[0], e.Point.X[1], e.Candidates)
}

// PointError carries the failure of a single point within a batch call.
type PointError struct {
	Index int
	Err   error
}

func (e PointError) Error() string { return fmt.Sprintf("point %d: %v", e.Index, e.Err) }

func (e PointError) Unwrap() error { return e.Err }

// PointwiseErrors is the partial failure report of a batch operation. Output
// entries for indices it names are untouched; all other outputs are valid.
type PointwiseErrors []PointError

func (e PointwiseErrors) Error() string {
	switch len(e) {
	case 0:
		return "no point errors"
	case 1:
		return e[0].Error()
	default:
		return fmt.Sprintf("%d points failed, first: %v", len(e), e[0])
	}
}
