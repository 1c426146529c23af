package foam

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/gofoam/grid"
)

// Default option values.
const (
	PointPrecisionDef = 16
	PointPrecisionMin = 4
	PointPrecisionMax = 16
	ThicknessDef      = 0.0 // 0 = auto (mean boundary edge length)
	PointToleranceDef = 1e-10
)

// VCSpec assigns a type string and artifact selection to a named volume
// condition in the parameters file.
type VCSpec struct {
	Type      string `yaml:"Type"`
	Artifacts string `yaml:"Artifacts"` // None|InteriorFaces|BoundaryFaces|Faces|SplitFaces|Cells|CellsFaces|CellsSplitFaces
}

// BCSpec assigns a type string to a named boundary condition.
type BCSpec struct {
	Type string `yaml:"Type"`
}

// Parameters is the user-facing export configuration, read from a YAML
// file.
type Parameters struct {
	Title              string            `yaml:"Title"`
	CellExport         string            `yaml:"CellExport"` // None|Sets|Zones|SetsAndZones
	FaceExport         string            `yaml:"FaceExport"`
	PointPrecision     int               `yaml:"PointPrecision"`
	Thickness          float64           `yaml:"Thickness"`
	SideBCExport       string            `yaml:"SideBCExport"` // Unspecified|Single|BaseTop|Multiple
	PointTolerance     float64           `yaml:"PointTolerance"`
	VolumeConditions   map[string]VCSpec `yaml:"VolumeConditions"`
	BoundaryConditions map[string]BCSpec `yaml:"BoundaryConditions"`
}

// NewParameters returns parameters with the documented defaults.
func NewParameters() *Parameters {
	return &Parameters{
		CellExport:     "SetsAndZones",
		FaceExport:     "SetsAndZones",
		PointPrecision: PointPrecisionDef,
		Thickness:      ThicknessDef,
		SideBCExport:   "Single",
		PointTolerance: PointToleranceDef,
	}
}

// Parse reads YAML data over the current values.
func (p *Parameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, p)
}

// Print writes the effective parameters to stdout.
func (p *Parameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", p.Title)
	fmt.Printf("[%s]\t= CellExport\n", p.CellExport)
	fmt.Printf("[%s]\t= FaceExport\n", p.FaceExport)
	fmt.Printf("[%d]\t\t\t= PointPrecision\n", p.PointPrecision)
	fmt.Printf("%8.5f\t\t= Thickness\n", p.Thickness)
	fmt.Printf("[%s]\t\t= SideBCExport\n", p.SideBCExport)
	keys := make([]string, 0, len(p.VolumeConditions))
	for k := range p.VolumeConditions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("VC[%s] = %+v\n", k, p.VolumeConditions[k])
	}
	keys = keys[:0]
	for k := range p.BoundaryConditions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("BC[%s] = %+v\n", k, p.BoundaryConditions[k])
	}
}

// Options is the resolved, validated export configuration consumed by the
// Exporter.
type Options struct {
	CellExport     grid.ExportPolicy
	FaceExport     grid.ExportPolicy
	PointPrecision int
	Thickness      float64
	SideBC         grid.SideBCMode
	PointTolerance float64
}

// Options resolves the string-valued parameters into typed options.
func (p *Parameters) Options() (Options, error) {
	var (
		o   Options
		err error
	)
	if o.CellExport, err = grid.ParseExportPolicy(p.CellExport); err != nil {
		return o, fmt.Errorf("CellExport: %w", err)
	}
	if o.FaceExport, err = grid.ParseExportPolicy(p.FaceExport); err != nil {
		return o, fmt.Errorf("FaceExport: %w", err)
	}
	if o.SideBC, err = grid.ParseSideBCMode(p.SideBCExport); err != nil {
		return o, fmt.Errorf("SideBCExport: %w", err)
	}
	if p.PointPrecision < PointPrecisionMin || p.PointPrecision > PointPrecisionMax {
		return o, fmt.Errorf("PointPrecision %d out of range [%d, %d]",
			p.PointPrecision, PointPrecisionMin, PointPrecisionMax)
	}
	o.PointPrecision = p.PointPrecision
	if p.Thickness < 0 {
		return o, fmt.Errorf("Thickness must be >= 0, got %g", p.Thickness)
	}
	o.Thickness = p.Thickness
	o.PointTolerance = p.PointTolerance
	if o.PointTolerance <= 0 {
		o.PointTolerance = PointToleranceDef
	}
	return o, nil
}
