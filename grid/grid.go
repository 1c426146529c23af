// Package grid defines the mesh-model vocabulary shared by the mesh
// implementation and the OpenFOAM exporter: element and condition types, the
// Model interface supplying vertices/cells/blocks/domains, and the face
// streaming contract.
package grid

// ElementType identifies face and cell shapes.
type ElementType int

const (
	Point ElementType = iota
	Bar
	Triangle
	Quad
	Tet
	Hex
	Prism
	Pyramid
)

func (e ElementType) String() string {
	return [...]string{"Point", "Bar", "Triangle", "Quad", "Tet", "Hex",
		"Prism", "Pyramid"}[e]
}

// VertexCount returns the number of vertices for the element type.
func (e ElementType) VertexCount() int {
	return [...]int{1, 2, 3, 4, 4, 8, 6, 5}[e]
}

// ElemData is one element: a shape tag plus an ordered vertex index list
// whose winding encodes orientation.
type ElemData struct {
	Type  ElementType
	Nodes []int
}

// FaceOrder selects the ordering of a face streaming pass.
type FaceOrder int

// FaceOrderBCGroupsLast streams interior and connection faces first, then
// boundary faces grouped by domain. The boundary accumulator relies on this
// ordering to keep per-condition face runs contiguous.
const FaceOrderBCGroupsLast FaceOrder = iota

// BeginStreamData is passed to StreamHandler.Begin.
type BeginStreamData struct {
	TotalFaces int
}

// FaceStreamData describes one streamed face. The winding of Elem has the
// face normal pointing into the owner cell. NeighbourCell and NeighbourBlock
// are -1 for boundary faces; Domain is -1 when no patch covers the face.
type FaceStreamData struct {
	Face           int
	Type           FaceType
	Elem           ElemData
	OwnerCell      int
	OwnerBlock     int
	NeighbourCell  int
	NeighbourBlock int
	Domain         int
}

// StreamHandler receives face streaming events. Returning false from any
// callback cancels the pass; the source stops streaming and returns false.
type StreamHandler interface {
	Begin(data BeginStreamData) bool
	Face(data *FaceStreamData) bool
	End(ok bool) bool
}

// Model is the host mesh-model collaborator consumed by the exporter.
// Vertices, cells and blocks are identified by dense 0-based indices; cells
// are grouped block-major.
type Model interface {
	// Dimension is 2 for planar tri/quad meshes, 3 otherwise.
	Dimension() int

	VertexCount() int
	// Vertex returns the coordinates of vertex n.
	Vertex(n int) ([3]float64, bool)

	BlockCount() int
	BlockCondition(n int) (Condition, bool)
	BlockElementCount(n int) int
	// BlockElement returns element i of block n.
	BlockElement(n, i int) (ElemData, bool)

	CellCount() int
	// Cell returns the element data and owning block of global cell n.
	Cell(n int) (ElemData, int, bool)

	DomainCount() int
	DomainCondition(n int) (Condition, bool)

	// StreamFaces drives a single pass over all mesh faces in the requested
	// order. It returns false if any handler callback cancelled the pass.
	StreamFaces(order FaceOrder, h StreamHandler) bool
}

// CellOrderer is implemented by models that can regroup their cells so that
// blocks sharing one volume condition become adjacent in the global cell
// enumeration. The 2D export path requires this ordering.
type CellOrderer interface {
	SortCellsByCondition()
}
