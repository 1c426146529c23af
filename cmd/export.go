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
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/gofoam/foam"
	"github.com/notargets/gofoam/grid"
	"github.com/notargets/gofoam/mesh/readers"
)

type ExportRun struct {
	GridFile   string
	ParamsFile string
	OutDir     string
	Verbose    bool
	Profile    bool
}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a grid file to an OpenFOAM polyMesh case directory",
	Long: `Export a grid file to an OpenFOAM polyMesh case directory.

Reads a Gambit neutral (.neu) or SU2 (.su2) grid, applies the volume and
boundary conditions named in the parameters file and writes
constant/polyMesh under the output directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		er := &ExportRun{}
		if er.GridFile, err = cmd.Flags().GetString("gridFile"); err != nil {
			panic(err)
		}
		if er.ParamsFile, err = cmd.Flags().GetString("paramsFile"); err != nil {
			panic(err)
		}
		if er.OutDir, err = cmd.Flags().GetString("outDir"); err != nil {
			panic(err)
		}
		er.Verbose, _ = cmd.Flags().GetBool("verbose")
		er.Profile, _ = cmd.Flags().GetBool("profile")
		params := processExportInput(er)
		RunExport(er, params)
	},
}

func processExportInput(er *ExportRun) (params *foam.Parameters) {
	var (
		err      error
		willExit bool
	)
	if len(er.GridFile) == 0 {
		err := fmt.Errorf("must supply a grid file (-F, --gridFile) in .neu (Gambit neutral file) or .su2 (SU2) format")
		fmt.Printf("error: %s\n", err.Error())
		willExit = true
	}
	if willExit {
		os.Exit(1)
	}
	params = foam.NewParameters()
	if len(er.ParamsFile) != 0 {
		var data []byte
		if data, err = ioutil.ReadFile(er.ParamsFile); err != nil {
			panic(err)
		}
		if err = params.Parse(data); err != nil {
			fmt.Printf("error parsing %s: %s\n", er.ParamsFile, err.Error())
			exampleFile := `
########################################
Title: "Test Case"
CellExport: SetsAndZones
FaceExport: SetsAndZones
PointPrecision: 16
Thickness: 0 # auto from mean boundary edge length
SideBCExport: Single
VolumeConditions:
  rotor:
    Type: MRFZone
    Artifacts: CellsFaces
BoundaryConditions:
  inlet:
    Type: patch
  walls:
    Type: wall
########################################
`
			fmt.Printf("Example File:%s\n", exampleFile)
			os.Exit(1)
		}
	}
	return
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("gridFile", "F", "", "Grid file to read in Gambit (.neu) or SU2 (.su2) format")
	exportCmd.Flags().StringP("paramsFile", "I", "", "YAML file for export parameters like:\n\t- CellExport\n\t- Thickness (for 2D grids)")
	exportCmd.Flags().StringP("outDir", "o", ".", "case directory to write constant/polyMesh into")
	exportCmd.Flags().BoolP("verbose", "v", false, "print parameters and per-step progress")
	exportCmd.Flags().Bool("profile", false, "write a CPU profile for the export")
}

func RunExport(er *ExportRun, params *foam.Parameters) {
	if er.Profile {
		defer profile.Start().Stop()
	}
	if er.Verbose {
		params.Print()
	}
	opts, err := params.Options()
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}

	m, err := readers.ReadMeshFile(er.GridFile)
	if err != nil {
		fmt.Printf("error reading %s: %s\n", er.GridFile, err.Error())
		os.Exit(1)
	}
	if er.Verbose {
		fmt.Printf("read %s: %d vertices, %d cells, %d blocks, %d patches\n",
			er.GridFile, m.VertexCount(), m.CellCount(), m.BlockCount(), m.DomainCount())
	}

	for name, vc := range params.VolumeConditions {
		tid, err := grid.ParseVcMask(vc.Artifacts)
		if err != nil {
			fmt.Printf("error: VolumeConditions[%s]: %s\n", name, err.Error())
			os.Exit(1)
		}
		n := m.SetBlockCondition(name, grid.Condition{Name: name, Type: vc.Type, TID: tid})
		if n == 0 {
			fmt.Printf("warning: VolumeConditions[%s] matches no block in %s\n", name, er.GridFile)
		}
	}
	for name, bc := range params.BoundaryConditions {
		n := m.SetDomainCondition(name, grid.Condition{Name: name, Type: bc.Type})
		if n == 0 {
			fmt.Printf("warning: BoundaryConditions[%s] matches no patch in %s\n", name, er.GridFile)
		}
	}

	meshDir := filepath.Join(er.OutDir, "constant", "polyMesh")
	if err = os.MkdirAll(meshDir, 0755); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}

	var prog foam.Progress = foam.NopProgress{}
	if er.Verbose {
		prog = &consoleProgress{}
	}
	ex := foam.NewExporter(m, meshDir, opts, prog)
	if err = ex.Export(); err != nil {
		fmt.Printf("export failed: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Printf("wrote polyMesh to %s\n", meshDir)
}

// consoleProgress prints a dot per progressTick items and a newline at the
// end of each step.
type consoleProgress struct {
	count int
	step  int
}

const progressTick = 10000

func (c *consoleProgress) BeginStep(total int) bool {
	c.step++
	c.count = 0
	fmt.Printf("step %d (%d items) ", c.step, total)
	return true
}

func (c *consoleProgress) Incr() bool {
	c.count++
	if c.count%progressTick == 0 {
		fmt.Print(".")
	}
	return true
}

func (c *consoleProgress) EndStep() bool {
	fmt.Printf(" done (%d)\n", c.count)
	return true
}

func (c *consoleProgress) Info(msg string) {
	fmt.Println(msg)
}
