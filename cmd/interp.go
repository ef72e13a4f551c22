/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/seanpm2001/fenris/InputParameters"
	"github.com/seanpm2001/fenris/geometry2D"
	"github.com/seanpm2001/fenris/mesh"
	"github.com/seanpm2001/fenris/quadrature"
	"github.com/seanpm2001/fenris/space"
)

// interpCmd represents the interp command
var interpCmd = &cobra.Command{
	Use:   "interp",
	Short: "Interpolate a sample field at physical query points",
	Long: `Builds a uniform triangle mesh on the unit square, samples an analytic
field at the mesh vertices and evaluates the resulting finite element field
at physical query points through the spatially indexed wrapper.

Query points come from the YAML input file; without one, the quadrature
points of every element are used.`,
	Run: func(cmd *cobra.Command, args []string) {
		ip := &InputParameters.InputParameters{Title: "interp"}
		if inputFile, _ := cmd.Flags().GetString("input"); inputFile != "" {
			data, err := os.ReadFile(inputFile)
			if err != nil {
				fmt.Printf("unable to read input file %s: %v\n", inputFile, err)
				os.Exit(1)
			}
			if err = ip.Parse(data); err != nil {
				fmt.Printf("unable to parse input file %s: %v\n", inputFile, err)
				os.Exit(1)
			}
		}
		ip.SetDefaults()
		ip.Print()
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			defer profile.Start().Stop()
		}
		if err := runInterp(ip); err != nil {
			fmt.Printf("interpolation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(interpCmd)
	interpCmd.Flags().StringP("input", "I", "", "YAML input deck with query points and tolerances")
	interpCmd.Flags().Bool("profile", false, "generate a CPU profile of the run")
}

// sampleField is the analytic field the command interpolates. Components
// beyond the first follow a fixed smooth pattern.
func sampleField(solutionDim int) func(geometry2D.Point) []float64 {
	return func(p geometry2D.Point) (u []float64) {
		x, y := p.X[0], p.X[1]
		u = make([]float64, solutionDim)
		u[0] = (math.Cos(x) + math.Sin(y)) * x * x
		for c := 1; c < solutionDim; c++ {
			u[c] = math.Log(x*x+0.5)*math.Log(y*y+0.25) + x*y + float64(c+2)
		}
		return
	}
}

func runInterp(ip *InputParameters.InputParameters) (err error) {
	msh := mesh.UnitSquareUniformTriMesh(ip.MeshCells)
	fmt.Printf("mesh: %d elements, %d vertices\n", msh.NumElements(), msh.NumVertices())
	sp := space.NewTriLagrangeSpace(msh)
	coeffs := space.GlobalVectorFromPointFn(msh.Vertices(), ip.SolutionDim, sampleField(ip.SolutionDim))

	opts := []space.Option{space.WithWorkers(ip.Workers)}
	if ip.MaxIterations != 0 {
		opts = append(opts, space.WithMaxIterations(ip.MaxIterations))
	}
	if ip.ConvergenceTolerance != 0 {
		opts = append(opts, space.WithConvergenceTolerance(ip.ConvergenceTolerance))
	}
	if ip.BoundaryAdmissionTolerance != 0 {
		opts = append(opts, space.WithBoundaryAdmissionTolerance(ip.BoundaryAdmissionTolerance))
	}
	if ip.FailFast {
		opts = append(opts, space.WithFailFast())
	}
	indexed, err := space.FromSpace(sp, opts...)
	if err != nil {
		return
	}

	points, err := queryPoints(ip, sp)
	if err != nil {
		return
	}
	fmt.Printf("evaluating at %d points\n", len(points))

	values := make([]float64, len(points)*ip.SolutionDim)
	err = indexed.InterpolateAtPoints(points, coeffs, ip.SolutionDim, values)
	if perr, partial := err.(space.PointwiseErrors); partial {
		fmt.Printf("warning: %v\n", perr)
		err = nil
	}
	if err != nil {
		return
	}
	var gradients []float64
	if ip.Gradient {
		gradients = make([]float64, len(points)*2*ip.SolutionDim)
		err = indexed.InterpolateGradientAtPoints(points, coeffs, ip.SolutionDim, gradients)
		if perr, partial := err.(space.PointwiseErrors); partial {
			fmt.Printf("warning: %v\n", perr)
			err = nil
		}
		if err != nil {
			return
		}
	}
	for i, p := range points {
		fmt.Printf("u(%8.5f,%8.5f) =", p.X[0], p.X[1])
		for c := 0; c < ip.SolutionDim; c++ {
			fmt.Printf(" %12.8f", values[i*ip.SolutionDim+c])
		}
		if ip.Gradient {
			block := gradients[i*2*ip.SolutionDim : (i+1)*2*ip.SolutionDim]
			fmt.Printf("  grad =")
			for _, g := range block {
				fmt.Printf(" %12.8f", g)
			}
		}
		fmt.Printf("\n")
	}
	return
}

func queryPoints(ip *InputParameters.InputParameters, sp *space.TriLagrangeSpace) (points []geometry2D.Point, err error) {
	if len(ip.QueryPoints) != 0 {
		points = make([]geometry2D.Point, len(ip.QueryPoints))
		for i, xy := range ip.QueryPoints {
			points[i] = geometry2D.Point{X: xy}
		}
		return
	}
	// Default to the physical images of the quadrature points of each element
	_, refPoints, err := quadrature.TriangleTotalOrder(ip.QuadratureOrder)
	if err != nil {
		return
	}
	for k := 0; k < sp.NumElements(); k++ {
		for _, xi := range refPoints {
			var x geometry2D.Point
			if x, err = sp.MapElementReferenceCoords(k, xi); err != nil {
				return
			}
			points = append(points, x)
		}
	}
	return
}
