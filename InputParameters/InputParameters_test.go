package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInputParameters(t *testing.T) {
	deck := `
Title: boundary sweep
MeshCells: 25
SolutionDim: 2
MaxIterations: 50
ConvergenceTolerance: 1.e-13
BoundaryAdmissionTolerance: 1.e-11
Workers: 4
Gradient: true
QueryPoints:
  - [0.5, 0.5]
  - [0.25, 0.75]
`
	var ip InputParameters
	require.NoError(t, ip.Parse([]byte(deck)))
	assert.Equal(t, "boundary sweep", ip.Title)
	assert.Equal(t, 25, ip.MeshCells)
	assert.Equal(t, 2, ip.SolutionDim)
	assert.Equal(t, 50, ip.MaxIterations)
	assert.Equal(t, 1.e-13, ip.ConvergenceTolerance)
	assert.Equal(t, 1.e-11, ip.BoundaryAdmissionTolerance)
	assert.Equal(t, 4, ip.Workers)
	assert.True(t, ip.Gradient)
	require.Len(t, ip.QueryPoints, 2)
	assert.Equal(t, [2]float64{0.25, 0.75}, ip.QueryPoints[1])
}

func TestSetDefaults(t *testing.T) {
	var ip InputParameters
	ip.SetDefaults()
	assert.Equal(t, 10, ip.MeshCells)
	assert.Equal(t, 1, ip.SolutionDim)
	assert.Equal(t, 4, ip.QuadratureOrder)
	assert.Equal(t, 1, ip.Workers)
}
