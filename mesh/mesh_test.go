package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofoam/grid"
)

// twoQuadMesh builds a 2x1 quad strip:
//
//	3 --- 4 --- 5
//	|  0  |  1  |
//	0 --- 1 --- 2
func twoQuadMesh(t *testing.T) *Mesh {
	m := NewMesh()
	m.Vertices = [][]float64{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0},
		{0, 1, 0}, {1, 1, 0}, {2, 1, 0},
	}
	m.AddBlock(grid.Condition{Name: "fluid", Type: "Unspecified"})
	_, err := m.AddCell(grid.Quad, []int{0, 1, 4, 3})
	require.NoError(t, err)
	_, err = m.AddCell(grid.Quad, []int{1, 2, 5, 4})
	require.NoError(t, err)
	return m
}

// twoHexMesh builds two unit hexes sharing the x=1 face, one block each.
func twoHexMesh(t *testing.T) *Mesh {
	m := NewMesh()
	m.Vertices = [][]float64{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
		{2, 0, 0}, {2, 1, 0}, {2, 0, 1}, {2, 1, 1},
	}
	m.AddBlock(grid.Condition{Name: "left", Type: "Unspecified"})
	_, err := m.AddCell(grid.Hex, []int{0, 1, 2, 3, 4, 5, 6, 7})
	require.NoError(t, err)
	m.AddBlock(grid.Condition{Name: "right", Type: "Unspecified"})
	_, err = m.AddCell(grid.Hex, []int{1, 8, 9, 2, 5, 10, 11, 6})
	require.NoError(t, err)
	return m
}

func TestAddCell(t *testing.T) {
	m := NewMesh()
	_, err := m.AddCell(grid.Quad, []int{0, 1, 2, 3})
	assert.Error(t, err, "cells require a block")

	m.AddBlock(grid.Condition{Name: "fluid"})
	_, err = m.AddCell(grid.Quad, []int{0, 1, 2})
	assert.Error(t, err, "quad with 3 vertices")

	id, err := m.AddCell(grid.Triangle, []int{0, 1, 2})
	assert.NoError(t, err)
	assert.Equal(t, 0, id)
	assert.Equal(t, 1, m.BlockElementCount(0))
}

func TestDimension(t *testing.T) {
	m2d := twoQuadMesh(t)
	assert.Equal(t, 2, m2d.Dimension())
	m3d := twoHexMesh(t)
	assert.Equal(t, 3, m3d.Dimension())
}

func TestSetConditions(t *testing.T) {
	m := twoHexMesh(t)
	n := m.SetBlockCondition("left", grid.Condition{Name: "left", Type: "MRFZone", TID: grid.VcCells})
	assert.Equal(t, 1, n)
	vc, ok := m.BlockCondition(0)
	require.True(t, ok)
	assert.Equal(t, "MRFZone", vc.Type)

	assert.Equal(t, 0, m.SetBlockCondition("nosuch", grid.Unspecified))

	m.AddDomain(grid.Condition{Name: "inlet", Type: "patch"})
	assert.Equal(t, 1, m.SetDomainCondition("inlet", grid.Condition{Name: "inlet", Type: "wall"}))
	bc, ok := m.DomainCondition(0)
	require.True(t, ok)
	assert.Equal(t, "wall", bc.Type)
}

func TestLocateFace(t *testing.T) {
	m := twoHexMesh(t)

	// the shared face, listed in arbitrary order and winding
	cell, local, ok := m.LocateFace([]int{6, 1, 5, 2})
	require.True(t, ok)
	assert.Equal(t, 0, cell, "owner is the lower-numbered cell")
	assert.Equal(t, 3, local)

	// a boundary face of the second hex
	_, _, ok = m.LocateFace([]int{8, 9, 11, 10})
	assert.True(t, ok)

	_, _, ok = m.LocateFace([]int{0, 1, 2, 7})
	assert.False(t, ok)
}

func TestSortCellsByCondition(t *testing.T) {
	m := NewMesh()
	m.Vertices = [][]float64{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0},
		{0, 1, 0}, {1, 1, 0}, {2, 1, 0}, {3, 1, 0},
	}
	// blocks a, b, a: the two "a" blocks must become adjacent
	m.AddBlock(grid.Condition{Name: "a"})
	m.AddCell(grid.Quad, []int{0, 1, 5, 4})
	m.AddBlock(grid.Condition{Name: "b"})
	m.AddCell(grid.Quad, []int{1, 2, 6, 5})
	m.AddBlock(grid.Condition{Name: "a"})
	m.AddCell(grid.Quad, []int{2, 3, 7, 6})

	d := m.AddDomain(grid.Condition{Name: "bottom", Type: "patch"})
	m.AddDomainFace(d, 2, 0) // edge {2,3} of the last cell

	m.SortCellsByCondition()

	require.Equal(t, 3, m.BlockCount())
	names := make([]string, 3)
	for i := range names {
		vc, _ := m.BlockCondition(i)
		names[i] = vc.Name
	}
	assert.Equal(t, []string{"a", "a", "b"}, names)

	// former cell 2 is now cell 1; the domain face must follow it
	assert.Equal(t, 1, m.Domains[0].Faces[0].Cell)
	ed, blk, ok := m.Cell(m.Domains[0].Faces[0].Cell)
	require.True(t, ok)
	assert.Equal(t, []int{2, 3, 7, 6}, ed.Nodes)
	assert.Equal(t, 1, blk)
}
