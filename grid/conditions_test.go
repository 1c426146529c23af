package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVcMask(t *testing.T) {
	{ // name lookup is case and whitespace insensitive
		mask, err := ParseVcMask(" CellsFaces ")
		assert.NoError(t, err)
		assert.Equal(t, VcCellsFaces, mask)
	}
	{
		mask, err := ParseVcMask("SplitFaces")
		assert.NoError(t, err)
		assert.Equal(t, VcIBFaces, mask)
		// split implies both face roles
		assert.Equal(t, VcFaces, mask&VcFaces)
	}
	{
		mask, err := ParseVcMask("None")
		assert.NoError(t, err)
		assert.Equal(t, VcNone, mask)
	}
	{
		_, err := ParseVcMask("everything")
		assert.Error(t, err)
	}
}

func TestParseExportPolicy(t *testing.T) {
	p, err := ParseExportPolicy("SetsAndZones")
	assert.NoError(t, err)
	assert.True(t, p.Sets())
	assert.True(t, p.Zones())

	p, err = ParseExportPolicy("zones")
	assert.NoError(t, err)
	assert.False(t, p.Sets())
	assert.True(t, p.Zones())

	p, err = ParseExportPolicy("None")
	assert.NoError(t, err)
	assert.False(t, p.Sets())
	assert.False(t, p.Zones())

	_, err = ParseExportPolicy("all")
	assert.Error(t, err)
}

func TestParseSideBCMode(t *testing.T) {
	m, err := ParseSideBCMode("BaseTop")
	assert.NoError(t, err)
	assert.Equal(t, SideBCBaseTop, m)

	m, err = ParseSideBCMode("single")
	assert.NoError(t, err)
	assert.Equal(t, SideBCSingle, m)

	_, err = ParseSideBCMode("sides")
	assert.Error(t, err)
}

func TestElementTypeVertexCount(t *testing.T) {
	assert.Equal(t, 2, Bar.VertexCount())
	assert.Equal(t, 3, Triangle.VertexCount())
	assert.Equal(t, 4, Quad.VertexCount())
	assert.Equal(t, 4, Tet.VertexCount())
	assert.Equal(t, 8, Hex.VertexCount())
	assert.Equal(t, 6, Prism.VertexCount())
	assert.Equal(t, 5, Pyramid.VertexCount())
	assert.Equal(t, "Prism", Prism.String())
}
