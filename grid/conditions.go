package grid

import (
	"fmt"
	"strings"
)

// Condition is a named/typed tag assigned to a block of cells (volume
// condition) or to a domain of boundary faces (boundary condition). TID is a
// bitmask of Vc* values selecting which derived set/zone artifacts are
// produced for a volume condition; TID == 0 means the condition is
// unspecified and excluded from set/zone generation.
type Condition struct {
	Name string
	Type string
	ID   uint32
	TID  uint32
}

// Unspecified is the condition applied to blocks and domains that carry no
// user assignment.
var Unspecified = Condition{Name: "Unspecified", Type: "Unspecified"}

// Volume condition artifact selection bits.
const (
	VcNone   uint32 = 0
	VcIFaces uint32 = 0x0001 // interior VC faces
	VcBFaces uint32 = 0x0002 // boundary VC faces
	VcSplit  uint32 = 0x0004 // separate interior/boundary files (needs VcFaces)
	VcCells  uint32 = 0x0008 // VC cells

	VcFaces        = VcIFaces | VcBFaces
	VcIBFaces      = VcSplit | VcFaces
	VcCellsFaces   = VcCells | VcFaces
	VcCellsIFaces  = VcCells | VcIFaces
	VcCellsBFaces  = VcCells | VcBFaces
	VcCellsIBFaces = VcCells | VcIBFaces
)

// VcMaskNameMap maps user-facing artifact names to Vc* bitmasks.
var VcMaskNameMap = map[string]uint32{
	"none":            VcNone,
	"interiorfaces":   VcIFaces,
	"boundaryfaces":   VcBFaces,
	"faces":           VcFaces,
	"splitfaces":      VcIBFaces,
	"cells":           VcCells,
	"cellsfaces":      VcCellsFaces,
	"cellssplitfaces": VcCells | VcIBFaces,
}

// ParseVcMask converts an artifact selection name into a Vc* bitmask.
func ParseVcMask(name string) (uint32, error) {
	mask, ok := VcMaskNameMap[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return VcNone, fmt.Errorf("unknown volume condition artifacts %q", name)
	}
	return mask, nil
}

// FaceType classifies a streamed face.
type FaceType int

const (
	FaceInterior   FaceType = iota // both cells in one block
	FaceBoundary                   // one cell, on a named patch
	FaceConnection                 // two cells in different blocks
)

func (t FaceType) String() string {
	switch t {
	case FaceInterior:
		return "Interior"
	case FaceBoundary:
		return "Boundary"
	case FaceConnection:
		return "Connection"
	}
	return "Unknown"
}

// Orientation is the rotational sense of a planar grid about the Z axis.
type Orientation int

const (
	NegativeZ Orientation = -1
	UnknownZ  Orientation = 0
	PositiveZ Orientation = 1
)

func (o Orientation) String() string {
	switch o {
	case NegativeZ:
		return "NegativeZ"
	case PositiveZ:
		return "PositiveZ"
	}
	return "UnknownZ"
}

// ExportPolicy controls set/zone file generation. It forms a bit field
// where SetsAndZones == Sets|Zones.
type ExportPolicy int

const (
	ExportNone         ExportPolicy = 0
	ExportSets         ExportPolicy = 1
	ExportZones        ExportPolicy = 2
	ExportSetsAndZones ExportPolicy = 3
)

// Sets reports whether set files are retained on disk.
func (p ExportPolicy) Sets() bool { return p&ExportSets != 0 }

// Zones reports whether an aggregate zones file is written.
func (p ExportPolicy) Zones() bool { return p&ExportZones != 0 }

var exportPolicyNameMap = map[string]ExportPolicy{
	"none":         ExportNone,
	"sets":         ExportSets,
	"zones":        ExportZones,
	"setsandzones": ExportSetsAndZones,
}

// ParseExportPolicy converts one of None|Sets|Zones|SetsAndZones.
func ParseExportPolicy(name string) (ExportPolicy, error) {
	p, ok := exportPolicyNameMap[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ExportNone, fmt.Errorf("unknown export policy %q", name)
	}
	return p, nil
}

// SideBCMode controls boundary condition naming for the base/top patches
// synthesized by 2D extrusion.
type SideBCMode int

const (
	SideBCUnspecified SideBCMode = iota
	SideBCSingle                 // one "BaseAndTop" patch
	SideBCBaseTop                // "Base" and "Top" patches
	SideBCMultiple               // per-block "<vc>-base" / "<vc>-top" patches
)

var sideBCNameMap = map[string]SideBCMode{
	"unspecified": SideBCUnspecified,
	"single":      SideBCSingle,
	"basetop":     SideBCBaseTop,
	"multiple":    SideBCMultiple,
}

// ParseSideBCMode converts one of Unspecified|Single|BaseTop|Multiple.
func ParseSideBCMode(name string) (SideBCMode, error) {
	m, ok := sideBCNameMap[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return SideBCUnspecified, fmt.Errorf("unknown side BC mode %q", name)
	}
	return m, nil
}
