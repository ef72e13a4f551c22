package quadrature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// refTriangleMonomialIntegral computes the exact integral of r^i s^j over the
// reference triangle with corners (-1,-1), (1,-1), (-1,1). Substituting
// r = 2a-1, s = 2b-1 maps onto the unit triangle, where the monomial
// integral has the closed form m! n! / (m+n+2)!.
func refTriangleMonomialIntegral(i, j int) (val float64) {
	factorial := func(n int) (f float64) {
		f = 1
		for k := 2; k <= n; k++ {
			f *= float64(k)
		}
		return
	}
	binomial := func(n, k int) float64 {
		return factorial(n) / (factorial(k) * factorial(n-k))
	}
	for k := 0; k <= i; k++ {
		for l := 0; l <= j; l++ {
			sign := 1.
			if (i+j-k-l)%2 == 1 {
				sign = -1.
			}
			val += sign * binomial(i, k) * binomial(j, l) *
				math.Pow(2, float64(k+l)) *
				factorial(k) * factorial(l) / factorial(k+l+2)
		}
	}
	val *= 4.
	return
}

func TestTriangleTotalOrderExactness(t *testing.T) {
	expectedCounts := map[int]int{1: 1, 2: 3, 3: 4, 4: 6, 5: 7}
	for order := 1; order <= 5; order++ {
		w, pts, err := TriangleTotalOrder(order)
		require.NoError(t, err)
		require.Len(t, w, expectedCounts[order])
		require.Len(t, pts, expectedCounts[order])

		// Weights sum to the reference triangle area
		var sum float64
		for _, wi := range w {
			sum += wi
		}
		assert.InDelta(t, 2., sum, 1.e-13)

		// All monomials up to the total order integrate exactly
		for i := 0; i <= order; i++ {
			for j := 0; i+j <= order; j++ {
				var approx float64
				for q, p := range pts {
					approx += w[q] * math.Pow(p.X[0], float64(i)) * math.Pow(p.X[1], float64(j))
				}
				assert.InDelta(t, refTriangleMonomialIntegral(i, j), approx, 1.e-12,
					"order %d fails on r^%d s^%d", order, i, j)
			}
		}
	}
}

func TestTriangleTotalOrderPointsInsideDomain(t *testing.T) {
	for order := 1; order <= 5; order++ {
		_, pts, err := TriangleTotalOrder(order)
		require.NoError(t, err)
		for _, p := range pts {
			r, s := p.X[0], p.X[1]
			assert.True(t, r >= -1 && s >= -1 && r+s <= 1.e-14,
				"order %d point (%g,%g) outside the reference triangle", order, r, s)
		}
	}
}

func TestTriangleTotalOrderUnsupported(t *testing.T) {
	_, _, err := TriangleTotalOrder(6)
	assert.Error(t, err)
}
