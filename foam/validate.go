package foam

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/notargets/gofoam/grid"
)

// GridProperties describes the geometry of a 2D export candidate: whether
// the grid lies in a constant-Z plane, the plane height, the rotational
// sense shared by the blocks and whether all blocks agree with the first.
type GridProperties struct {
	Planar      bool
	PlaneZ      float64
	Orientation grid.Orientation
	Consistent  bool
}

// ValidateGrid determines the grid properties from the first element of the
// first block. The extrusion direction always follows the first block; a
// block oriented the other way only clears Consistent.
func ValidateGrid(m grid.Model, pointTol float64) (GridProperties, error) {
	props := GridProperties{Orientation: grid.UnknownZ, Consistent: true}
	if m.BlockCount() == 0 || m.VertexCount() == 0 {
		return props, fmt.Errorf("foam: cannot validate an empty grid")
	}

	o, err := blockOrientation(m, 0)
	if err != nil {
		return props, err
	}
	props.Orientation = o

	for b := 1; b < m.BlockCount(); b++ {
		bo, err := blockOrientation(m, b)
		if err != nil {
			return props, err
		}
		if bo != props.Orientation {
			props.Consistent = false
			break
		}
	}

	props.Planar, props.PlaneZ = isPlanar(m, pointTol)
	return props, nil
}

// blockOrientation computes the rotational sense of block b from the edge
// vectors of its first element: vertex 0 to vertex 1, and vertex 0 to the
// far vertex (index 3 for quads, 2 for tris). Only the z component of their
// cross product matters.
func blockOrientation(m grid.Model, b int) (grid.Orientation, error) {
	e, ok := m.BlockElement(b, 0)
	if !ok {
		return grid.UnknownZ, fmt.Errorf("foam: block %d has no elements", b)
	}
	far := 0
	switch e.Type {
	case grid.Quad:
		far = 3
	case grid.Triangle:
		far = 2
	default:
		return grid.UnknownZ, fmt.Errorf("foam: block %d starts with a %s element, want Triangle or Quad",
			b, e.Type)
	}
	p0, ok0 := m.Vertex(e.Nodes[0])
	p1, ok1 := m.Vertex(e.Nodes[1])
	p2, ok2 := m.Vertex(e.Nodes[far])
	if !ok0 || !ok1 || !ok2 {
		return grid.UnknownZ, fmt.Errorf("foam: block %d references missing vertices", b)
	}
	crossZ := (p1[0]-p0[0])*(p2[1]-p0[1]) - (p1[1]-p0[1])*(p2[0]-p0[0])
	if crossZ > 0 {
		return grid.PositiveZ, nil
	}
	return grid.NegativeZ, nil
}

// isPlanar compares the z coordinate of vertex 0 against every other vertex
// within pointTol.
func isPlanar(m grid.Model, pointTol float64) (bool, float64) {
	p0, ok := m.Vertex(0)
	if !ok {
		return false, 0
	}
	planeZ := p0[2]
	for i := 1; i < m.VertexCount(); i++ {
		p, ok := m.Vertex(i)
		if !ok {
			return false, planeZ
		}
		if !scalar.EqualWithinAbs(p[2], planeZ, pointTol) {
			return false, planeZ
		}
	}
	return true, planeZ
}
