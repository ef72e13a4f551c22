package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title                      string       `yaml:"Title"`
	MeshCells                  int          `yaml:"MeshCells"`
	SolutionDim                int          `yaml:"SolutionDim"`
	QuadratureOrder            int          `yaml:"QuadratureOrder"`
	MaxIterations              int          `yaml:"MaxIterations"`
	ConvergenceTolerance       float64      `yaml:"ConvergenceTolerance"`
	BoundaryAdmissionTolerance float64      `yaml:"BoundaryAdmissionTolerance"`
	Workers                    int          `yaml:"Workers"`
	FailFast                   bool         `yaml:"FailFast"`
	Gradient                   bool         `yaml:"Gradient"`
	QueryPoints                [][2]float64 `yaml:"QueryPoints"`
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t= Mesh Cells per Dimension\n", ip.MeshCells)
	fmt.Printf("[%d]\t\t\t= Solution Dimension\n", ip.SolutionDim)
	fmt.Printf("[%d]\t\t\t= Quadrature Order\n", ip.QuadratureOrder)
	fmt.Printf("[%d]\t\t\t= Max Newton Iterations\n", ip.MaxIterations)
	fmt.Printf("%8.3e\t\t= Convergence Tolerance\n", ip.ConvergenceTolerance)
	fmt.Printf("%8.3e\t\t= Boundary Admission Tolerance\n", ip.BoundaryAdmissionTolerance)
	fmt.Printf("[%d]\t\t\t= Workers\n", ip.Workers)
	fmt.Printf("[%v]\t\t\t= Gradient Output\n", ip.Gradient)
	fmt.Printf("[%d]\t\t\t= Query Points\n", len(ip.QueryPoints))
}

// SetDefaults fills the zero-valued fields callers usually omit.
func (ip *InputParameters) SetDefaults() {
	if ip.MeshCells == 0 {
		ip.MeshCells = 10
	}
	if ip.SolutionDim == 0 {
		ip.SolutionDim = 1
	}
	if ip.QuadratureOrder == 0 {
		ip.QuadratureOrder = 4
	}
	if ip.Workers == 0 {
		ip.Workers = 1
	}
}
