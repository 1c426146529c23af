package foam

import "github.com/notargets/gofoam/grid"

// BcStat is one maximal contiguous run of boundary faces sharing a boundary
// condition name, in streaming order.
type BcStat struct {
	Name      string
	Type      string
	NFaces    int
	StartFace int
}

// BcStats accumulates boundary face runs. Faces must be pushed in streaming
// order with boundary groups last; a new run starts only when the condition
// name differs from the previous face's.
type BcStats []BcStat

// Push records one boundary face under cond.
func (s *BcStats) Push(cond grid.Condition, faceID int) {
	if n := len(*s); n == 0 || (*s)[n-1].Name != cond.Name {
		*s = append(*s, BcStat{
			Name:      cond.Name,
			Type:      cond.Type,
			NFaces:    1,
			StartFace: faceID,
		})
		return
	}
	(*s)[len(*s)-1].NFaces++
}

// BoundaryFile writes the "boundary" polyBoundaryMesh file: one block per
// BcStat run.
type BoundaryFile struct {
	*FoamFile
}

// NewBoundaryFile creates the boundary writer.
func NewBoundaryFile() *BoundaryFile {
	return &BoundaryFile{FoamFile: NewFoamFile("polyBoundaryMesh", "boundary", "")}
}

// WriteBoundaries emits the accumulated runs.
func (b *BoundaryFile) WriteBoundaries(stats BcStats) {
	for _, st := range stats {
		b.Printf("    %s\n", st.Name)
		b.Printf("    {\n")
		b.Printf("        type %s;\n", st.Type)
		b.Printf("        nFaces %d;\n", st.NFaces)
		b.Printf("        startFace %d;\n", st.StartFace)
		b.Printf("    }\n")
		b.IncrItems()
	}
}
