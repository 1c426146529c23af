package foam

import (
	"github.com/notargets/gofoam/grid"
)

// addressItemsPerRow is the number of labels written per line in labelList
// files.
const addressItemsPerRow = 10

// PointFile writes the "points" vectorField, one "(x y z)" per vertex at a
// configurable decimal precision.
type PointFile struct {
	*FoamFile
	prec int
}

// NewPointFile creates the points writer.
func NewPointFile(prec int) *PointFile {
	return &PointFile{FoamFile: NewFoamFile("vectorField", "points", ""), prec: prec}
}

// WriteVertex writes one vertex record.
func (p *PointFile) WriteVertex(x, y, z float64) {
	p.Printf("(%.*g %.*g %.*g)\n", p.prec, x, p.prec, y, p.prec, z)
	p.IncrItems()
}

// FacesFile writes the "faces" faceList. The input winding has face normals
// pointing into the owning cell; OpenFOAM wants interior normals pointing
// from the lower to the higher numbered cell and boundary normals pointing
// outward, so every face is written reversed. Reversal is a pairwise swap
// (quad 0<->3, 1<->2; tri 0<->2) rather than a generic reverse so the
// starting vertex stays recognizable. In 2D mode, 2-vertex bars expand into
// the 4-vertex side quads of the one-cell-thick extrusion using the offset
// point plane (v0, v1, v1+N, v0+N).
type FacesFile struct {
	*FoamFile
	is2D        bool
	vertexCount int
}

// NewFacesFile creates the faces writer. vertexCount is the original mesh
// vertex count N used for the 2D offset plane indexing.
func NewFacesFile(is2D bool, vertexCount int) *FacesFile {
	return &FacesFile{
		FoamFile:    NewFoamFile("faceList", "faces", ""),
		is2D:        is2D,
		vertexCount: vertexCount,
	}
}

// WriteFace writes one face record with corrected winding.
func (ffl *FacesFile) WriteFace(e grid.ElemData) {
	v := e.Nodes
	switch e.Type {
	case grid.Quad:
		ffl.Printf("4(%d %d %d %d)\n", v[3], v[2], v[1], v[0])
		ffl.IncrItems()
	case grid.Triangle:
		ffl.Printf("3(%d %d %d)\n", v[2], v[1], v[0])
		ffl.IncrItems()
	case grid.Bar:
		if ffl.is2D {
			ffl.Printf("4(%d %d %d %d)\n",
				v[0], v[1], v[1]+ffl.vertexCount, v[0]+ffl.vertexCount)
		} else {
			ffl.Printf("2(%d %d)\n", v[1], v[0])
		}
		ffl.IncrItems()
	}
}

// AddressFile writes a labelList of unsigned integers, wrapping to a new
// line every ten entries. A partially filled final row is terminated with a
// newline on close so the file parses as one well-formed labelList.
type AddressFile struct {
	*FoamFile
}

// NewAddressFile creates a labelList writer for the given object name.
func NewAddressFile(object, location string) *AddressFile {
	ff := NewFoamFile("labelList", object, location)
	ff.onClose = func(f *FoamFile) {
		if f.Items()%addressItemsPerRow != 0 {
			f.WriteString("\n")
		}
	}
	return &AddressFile{FoamFile: ff}
}

// WriteAddress appends one label to the current row.
func (a *AddressFile) WriteAddress(addr int) {
	if a.Items()%addressItemsPerRow == addressItemsPerRow-1 {
		a.Printf(" %d\n", addr)
	} else {
		a.Printf(" %d", addr)
	}
	a.IncrItems()
}

// NewOwnerFile creates the "owner" labelList writer: one owning cell index
// per face.
func NewOwnerFile() *AddressFile {
	return NewAddressFile("owner", "")
}

// NewNeighbourFile creates the "neighbour" labelList writer: one neighbour
// cell index per interior face. Boundary faces have no neighbour entry.
func NewNeighbourFile() *AddressFile {
	return NewAddressFile("neighbour", "")
}

// SetFile is a labelList of cell or face indices sharing one condition and
// role, written under the sets directory.
type SetFile struct {
	*AddressFile
}

// NewFaceSetFile creates a faceSet writer. The object name is assigned at
// Create time by the caller.
func NewFaceSetFile(object string) *SetFile {
	a := NewAddressFile(object, "constant/polyMesh/sets")
	a.Class = "faceSet"
	return &SetFile{AddressFile: a}
}

// NewCellSetFile creates a cellSet writer.
func NewCellSetFile(object string) *SetFile {
	a := NewAddressFile(object, "constant/polyMesh/sets")
	a.Class = "cellSet"
	return &SetFile{AddressFile: a}
}
