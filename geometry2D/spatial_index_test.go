package geometry2D

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingBox(t *testing.T) {
	box := NewBoundingBox([]Point{
		NewPoint(0, 0), NewPoint(1, 0), NewPoint(0.25, 0.75),
	})
	require.NotNil(t, box)
	assert.Equal(t, [2]float64{0, 0}, box.XMin)
	assert.Equal(t, [2]float64{1, 0.75}, box.XMax)

	assert.True(t, box.Contains(NewPoint(0.5, 0.5), 0))
	assert.True(t, box.Contains(NewPoint(1, 0.75), 0))
	assert.False(t, box.Contains(NewPoint(1.001, 0.5), 0))
	assert.True(t, box.Contains(NewPoint(1.001, 0.5), 0.01))

	assert.Equal(t, NewPoint(0.5, 0.375), box.Centroid())
	assert.Nil(t, NewBoundingBox(nil))
}

func TestSpatialIndexQuery(t *testing.T) {
	// A 4x4 tiling of the unit square, one box per tile
	var boxes []BoundingBox
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			boxes = append(boxes, BoundingBox{
				XMin: [2]float64{float64(i) * 0.25, float64(j) * 0.25},
				XMax: [2]float64{float64(i+1) * 0.25, float64(j+1) * 0.25},
			})
		}
	}
	si, err := NewSpatialIndex(boxes)
	require.NoError(t, err)
	assert.Equal(t, 16, si.NumElements())

	// Tile interiors resolve to exactly their own box
	hits := si.Query(NewPoint(0.125, 0.125), 1.e-12, nil)
	assert.Equal(t, []int{0}, hits)
	hits = si.Query(NewPoint(0.875, 0.875), 1.e-12, hits)
	assert.Equal(t, []int{15}, hits)

	// A shared tile corner belongs to all four adjacent boxes, ascending
	hits = si.Query(NewPoint(0.25, 0.25), 1.e-12, hits)
	assert.Equal(t, []int{0, 1, 4, 5}, hits)

	// Outside the indexed area
	hits = si.Query(NewPoint(2, 2), 1.e-12, hits)
	assert.Empty(t, hits)
	hits = si.Query(NewPoint(-0.5, 0.5), 1.e-12, hits)
	assert.Empty(t, hits)
}

func TestSpatialIndexDegenerate(t *testing.T) {
	_, err := NewSpatialIndex(nil)
	assert.Error(t, err)

	_, err = NewSpatialIndex([]BoundingBox{{
		XMin: [2]float64{0.5, 0.5},
		XMax: [2]float64{0.5, 0.5},
	}})
	assert.Error(t, err)
}
