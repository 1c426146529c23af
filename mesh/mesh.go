// Package mesh provides an in-memory unstructured mesh that implements the
// grid.Model contract consumed by the exporter. Cells are stored block-major;
// blocks carry volume conditions and domains carry boundary conditions.
package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/gofoam/grid"
)

// DomainFace references one face of a cell by its local face index.
type DomainFace struct {
	Cell  int
	Local int
}

// Domain is a named patch of boundary faces. A domain whose faces turn out
// to lie between two cells is a non-inflatable (shadow) domain; its faces
// classify as connection faces.
type Domain struct {
	Condition grid.Condition
	Faces     []DomainFace
}

// Block is a contiguous run of cells sharing one volume condition.
type Block struct {
	Condition grid.Condition
	FirstCell int
	CellCount int
}

// Mesh is a complete unstructured mesh with vertex coordinates, cell
// connectivity, blocks and boundary domains.
type Mesh struct {
	Vertices  [][]float64 // [nverts][3]
	EToV      [][]int     // cell to vertex connectivity, block-major
	CellTypes []grid.ElementType
	CellBlock []int
	Blocks    []Block
	Domains   []Domain

	faces       []meshFace
	cellFaceIDs [][]int
	faceKeys    map[string]int
	facesBuilt  bool
}

// NewMesh creates an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{}
}

// AddBlock appends a block and returns its index. Cells added afterwards
// belong to it until the next AddBlock call.
func (m *Mesh) AddBlock(cond grid.Condition) int {
	m.Blocks = append(m.Blocks, Block{Condition: cond, FirstCell: len(m.EToV)})
	return len(m.Blocks) - 1
}

// AddCell appends a cell to the most recently added block.
func (m *Mesh) AddCell(etype grid.ElementType, nodes []int) (int, error) {
	if len(m.Blocks) == 0 {
		return 0, fmt.Errorf("mesh: AddCell before AddBlock")
	}
	if len(nodes) != etype.VertexCount() {
		return 0, fmt.Errorf("mesh: %s cell needs %d vertices, got %d",
			etype, etype.VertexCount(), len(nodes))
	}
	id := len(m.EToV)
	m.EToV = append(m.EToV, nodes)
	m.CellTypes = append(m.CellTypes, etype)
	m.CellBlock = append(m.CellBlock, len(m.Blocks)-1)
	m.Blocks[len(m.Blocks)-1].CellCount++
	m.facesBuilt = false
	return id, nil
}

// AddDomain appends a boundary domain and returns its index.
func (m *Mesh) AddDomain(cond grid.Condition) int {
	m.Domains = append(m.Domains, Domain{Condition: cond})
	return len(m.Domains) - 1
}

// AddDomainFace assigns face local of cell to domain d. Domain assignment
// happens at stream time, so adding faces never rebuilds connectivity.
func (m *Mesh) AddDomainFace(d, cell, local int) {
	m.Domains[d].Faces = append(m.Domains[d].Faces, DomainFace{Cell: cell, Local: local})
}

// LocateFace finds the cell and local face index of the face with exactly
// the given vertices, in any order and winding. Used by readers whose
// boundary markers list faces by vertex rather than by cell side.
func (m *Mesh) LocateFace(verts []int) (cell, local int, ok bool) {
	m.buildFaces()
	sorted := make([]int, len(verts))
	copy(sorted, verts)
	sort.Ints(sorted)
	id, found := m.faceKeys[fmt.Sprintf("%v", sorted)]
	if !found {
		return 0, 0, false
	}
	f := m.faces[id]
	for l, fid := range m.cellFaceIDs[f.owner] {
		if fid == id {
			return f.owner, l, true
		}
	}
	return 0, 0, false
}

// SetBlockCondition replaces the condition of every block whose condition
// name matches name. Returns the number of blocks updated.
func (m *Mesh) SetBlockCondition(name string, cond grid.Condition) int {
	n := 0
	for i := range m.Blocks {
		if m.Blocks[i].Condition.Name == name {
			m.Blocks[i].Condition = cond
			n++
		}
	}
	return n
}

// SetDomainCondition replaces the condition of every domain whose condition
// name matches name. Returns the number of domains updated.
func (m *Mesh) SetDomainCondition(name string, cond grid.Condition) int {
	n := 0
	for i := range m.Domains {
		if m.Domains[i].Condition.Name == name {
			m.Domains[i].Condition = cond
			n++
		}
	}
	return n
}

// Dimension returns 2 when every cell is a planar shape (tri/quad), else 3.
func (m *Mesh) Dimension() int {
	for _, t := range m.CellTypes {
		switch t {
		case grid.Tet, grid.Hex, grid.Prism, grid.Pyramid:
			return 3
		}
	}
	return 2
}

func (m *Mesh) VertexCount() int { return len(m.Vertices) }

func (m *Mesh) Vertex(n int) ([3]float64, bool) {
	if n < 0 || n >= len(m.Vertices) {
		return [3]float64{}, false
	}
	var xyz [3]float64
	copy(xyz[:], m.Vertices[n])
	return xyz, true
}

func (m *Mesh) BlockCount() int { return len(m.Blocks) }

func (m *Mesh) BlockCondition(n int) (grid.Condition, bool) {
	if n < 0 || n >= len(m.Blocks) {
		return grid.Condition{}, false
	}
	return m.Blocks[n].Condition, true
}

func (m *Mesh) BlockElementCount(n int) int {
	if n < 0 || n >= len(m.Blocks) {
		return 0
	}
	return m.Blocks[n].CellCount
}

func (m *Mesh) BlockElement(n, i int) (grid.ElemData, bool) {
	if n < 0 || n >= len(m.Blocks) || i < 0 || i >= m.Blocks[n].CellCount {
		return grid.ElemData{}, false
	}
	cell := m.Blocks[n].FirstCell + i
	return grid.ElemData{Type: m.CellTypes[cell], Nodes: m.EToV[cell]}, true
}

func (m *Mesh) CellCount() int { return len(m.EToV) }

func (m *Mesh) Cell(n int) (grid.ElemData, int, bool) {
	if n < 0 || n >= len(m.EToV) {
		return grid.ElemData{}, 0, false
	}
	return grid.ElemData{Type: m.CellTypes[n], Nodes: m.EToV[n]}, m.CellBlock[n], true
}

func (m *Mesh) DomainCount() int { return len(m.Domains) }

func (m *Mesh) DomainCondition(n int) (grid.Condition, bool) {
	if n < 0 || n >= len(m.Domains) {
		return grid.Condition{}, false
	}
	return m.Domains[n].Condition, true
}

// SortCellsByCondition regroups blocks so that blocks sharing one volume
// condition name become adjacent, preserving relative order otherwise, and
// renumbers cells and domain face references accordingly.
func (m *Mesh) SortCellsByCondition() {
	if len(m.Blocks) < 2 {
		return
	}
	order := make([]int, len(m.Blocks))
	for i := range order {
		order[i] = i
	}
	// first appearance rank per condition name keeps the result stable
	rank := make(map[string]int)
	for i, b := range m.Blocks {
		if _, ok := rank[b.Condition.Name]; !ok {
			rank[b.Condition.Name] = i
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rank[m.Blocks[order[a]].Condition.Name] <
			rank[m.Blocks[order[b]].Condition.Name]
	})

	perm := make([]int, len(m.EToV)) // old cell id -> new cell id
	newEToV := make([][]int, 0, len(m.EToV))
	newTypes := make([]grid.ElementType, 0, len(m.CellTypes))
	newBlock := make([]int, 0, len(m.CellBlock))
	newBlocks := make([]Block, 0, len(m.Blocks))
	for newID, oldID := range order {
		b := m.Blocks[oldID]
		nb := Block{Condition: b.Condition, FirstCell: len(newEToV), CellCount: b.CellCount}
		for c := b.FirstCell; c < b.FirstCell+b.CellCount; c++ {
			perm[c] = len(newEToV)
			newEToV = append(newEToV, m.EToV[c])
			newTypes = append(newTypes, m.CellTypes[c])
			newBlock = append(newBlock, newID)
		}
		newBlocks = append(newBlocks, nb)
	}
	for d := range m.Domains {
		for f := range m.Domains[d].Faces {
			m.Domains[d].Faces[f].Cell = perm[m.Domains[d].Faces[f].Cell]
		}
	}
	m.EToV = newEToV
	m.CellTypes = newTypes
	m.CellBlock = newBlock
	m.Blocks = newBlocks
	m.facesBuilt = false
}
