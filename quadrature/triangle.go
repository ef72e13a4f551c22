package quadrature

import (
	"fmt"
	"math"

	"github.com/seanpm2001/fenris/geometry2D"
)

/*
Symmetric quadrature rules on the reference triangle with corners
(-1,-1), (1,-1), (-1,1), exact for polynomials up to the requested total
order. Weights sum to the reference element area of 2.

Rules are the classic symmetric (Dunavant) point sets, generated from their
closed forms rather than truncated decimal tables.
*/

// TriangleTotalOrder returns the weights and reference coordinates of a
// quadrature rule integrating total-degree <= order polynomials exactly.
func TriangleTotalOrder(order int) (w []float64, pts []geometry2D.Point, err error) {
	switch {
	case order <= 1:
		w, pts = centroidOrbit(1.)
	case order == 2:
		w, pts = symmetricOrbit(1./3., 1./6.)
	case order == 3:
		w, pts = centroidOrbit(-27. / 48.)
		w2, p2 := symmetricOrbit(25./48., 0.2)
		w, pts = append(w, w2...), append(pts, p2...)
	case order == 4:
		var (
			s10 = math.Sqrt(10.)
			d   = math.Sqrt(38. - 44.*math.Sqrt(2./5.))
			ws  = math.Sqrt(213125. - 53320.*s10)
		)
		w, pts = symmetricOrbit((620.+ws)/3720., (8.-s10+d)/18.)
		w2, p2 := symmetricOrbit((620.-ws)/3720., (8.-s10-d)/18.)
		w, pts = append(w, w2...), append(pts, p2...)
	case order == 5:
		s15 := math.Sqrt(15.)
		w, pts = centroidOrbit(9. / 40.)
		w2, p2 := symmetricOrbit((155.+s15)/1200., (6.+s15)/21.)
		w3, p3 := symmetricOrbit((155.-s15)/1200., (6.-s15)/21.)
		w, pts = append(w, w2...), append(pts, p2...)
		w, pts = append(w, w3...), append(pts, p3...)
	default:
		err = fmt.Errorf("no triangle rule for total order %d, have orders 1-5", order)
	}
	return
}

// fromBarycentric maps (l1,l2,l3), l1+l2+l3 = 1, onto the reference triangle.
func fromBarycentric(l1, l2, l3 float64) geometry2D.Point {
	return geometry2D.NewPoint(l2-l1-l3, l3-l1-l2)
}

func centroidOrbit(weight float64) (w []float64, pts []geometry2D.Point) {
	third := 1. / 3.
	w = []float64{2. * weight}
	pts = []geometry2D.Point{fromBarycentric(third, third, third)}
	return
}

// symmetricOrbit produces the three cyclic permutations of (1-2a, a, a).
func symmetricOrbit(weight, a float64) (w []float64, pts []geometry2D.Point) {
	b := 1. - 2.*a
	w = []float64{2. * weight, 2. * weight, 2. * weight}
	pts = []geometry2D.Point{
		fromBarycentric(b, a, a),
		fromBarycentric(a, b, a),
		fromBarycentric(a, a, b),
	}
	return
}
