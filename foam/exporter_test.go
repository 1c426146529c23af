package foam

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofoam/grid"
	"github.com/notargets/gofoam/mesh"
)

// testProgress records info messages and can cancel at a given Incr count.
type testProgress struct {
	infos    []string
	incrs    int
	cancelAt int // cancel when incrs reaches this count, 0 = never
}

func (p *testProgress) BeginStep(int) bool { return true }
func (p *testProgress) Incr() bool {
	p.incrs++
	return p.cancelAt == 0 || p.incrs < p.cancelAt
}
func (p *testProgress) EndStep() bool   { return true }
func (p *testProgress) Info(msg string) { p.infos = append(p.infos, msg) }

func defaultOptions() Options {
	p := NewParameters()
	opts, err := p.Options()
	if err != nil {
		panic(err)
	}
	return opts
}

// twoHexMesh builds two unit hexes sharing the x=1 face, one block each.
func twoHexMesh(leftName, rightName string) *mesh.Mesh {
	m := mesh.NewMesh()
	m.Vertices = [][]float64{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
		{2, 0, 0}, {2, 1, 0}, {2, 0, 1}, {2, 1, 1},
	}
	m.AddBlock(grid.Condition{Name: leftName, Type: "Unspecified", TID: grid.VcCellsFaces})
	m.AddCell(grid.Hex, []int{0, 1, 2, 3, 4, 5, 6, 7})
	m.AddBlock(grid.Condition{Name: rightName, Type: "Unspecified", TID: grid.VcCellsFaces})
	m.AddCell(grid.Hex, []int{1, 8, 9, 2, 5, 10, 11, 6})
	return m
}

// quadStripMesh builds a 2x1 planar quad strip with a "bottom" patch.
func quadStripMesh() *mesh.Mesh {
	m := mesh.NewMesh()
	m.Vertices = [][]float64{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0},
		{0, 1, 0}, {1, 1, 0}, {2, 1, 0},
	}
	m.AddBlock(grid.Condition{Name: "fluid", Type: "Unspecified"})
	m.AddCell(grid.Quad, []int{0, 1, 4, 3})
	m.AddCell(grid.Quad, []int{1, 2, 5, 4})
	d := m.AddDomain(grid.Condition{Name: "bottom", Type: "wall"})
	m.AddDomainFace(d, 0, 0)
	m.AddDomainFace(d, 1, 0)
	return m
}

func TestExport3DSameConditionBlocks(t *testing.T) {
	dir := t.TempDir()
	m := twoHexMesh("fluid", "fluid")

	ex := NewExporter(m, dir, defaultOptions(), nil)
	require.NoError(t, ex.Export())

	for _, name := range []string{"points", "faces", "owner", "neighbour", "boundary", "cellZones", "faceZones"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	// the cross-block face streams first and both sides write addresses
	owner := readOutput(t, dir, "owner")
	assert.Contains(t, owner, "\n11        \n")
	neighbour := readOutput(t, dir, "neighbour")
	assert.Contains(t, neighbour, "\n1         \n")
	assert.Contains(t, neighbour, " 1\n")

	// no patches: one Unspecified run covering all 10 boundary faces
	boundary := readOutput(t, dir, "boundary")
	assert.Contains(t, boundary, "\n1         \n")
	assert.Contains(t, boundary, "    Unspecified\n")
	assert.Contains(t, boundary, "        nFaces 10;\n")
	assert.Contains(t, boundary, "        startFace 1;\n")

	// same condition name on both sides: one bundle, the shared face is
	// interior to it and recorded once
	setsDir := filepath.Join(dir, "sets")
	faces := readOutput(t, setsDir, "fluid-faces")
	assert.Contains(t, faces, "\n11        \n")
	cells := readOutput(t, setsDir, "fluid-cells")
	assert.Contains(t, cells, "\n2         \n")
	assert.Contains(t, cells, " 0 1\n")
}

func TestExport3DShadowDomain(t *testing.T) {
	dir := t.TempDir()
	m := twoHexMesh("left", "right")
	d := m.AddDomain(grid.Condition{Name: "interface", Type: "patch"})
	m.AddDomainFace(d, 0, 3) // the shared face

	ex := NewExporter(m, dir, defaultOptions(), nil)
	require.NoError(t, ex.Export())

	// the shadow domain face never inflates into the boundary file
	boundary := readOutput(t, dir, "boundary")
	assert.NotContains(t, boundary, "interface")

	// but it is captured as a face set and spliced into faceZones
	setsDir := filepath.Join(dir, "sets")
	shadow := readOutput(t, setsDir, "interface")
	assert.Contains(t, shadow, "\n1         \n")
	assert.Contains(t, shadow, " 0\n")
	zones := readOutput(t, dir, "faceZones")
	assert.Contains(t, zones, "interface\n{\n")

	// distinct conditions: the connection face lands in both bundles
	left := readOutput(t, setsDir, "left-faces")
	right := readOutput(t, setsDir, "right-faces")
	assert.Contains(t, left, " 0")
	assert.Contains(t, right, " 0")
}

func TestExport3DSplitFaceRoles(t *testing.T) {
	dir := t.TempDir()
	m := twoHexMesh("fluid", "fluid")
	m.SetBlockCondition("fluid", grid.Condition{Name: "fluid", TID: grid.VcIBFaces})

	ex := NewExporter(m, dir, defaultOptions(), nil)
	require.NoError(t, ex.Export())

	// the merged cross-block face is interior, never a boundary set member
	setsDir := filepath.Join(dir, "sets")
	interior := readOutput(t, setsDir, "fluid-interiorFaces")
	assert.Contains(t, interior, "\n1         \n")
	assert.Contains(t, interior, " 0\n")
	boundary := readOutput(t, setsDir, "fluid-boundaryFaces")
	assert.Contains(t, boundary, "\n10        \n")
	assert.NotContains(t, boundary, " 0 ")
}

func TestExportCellSetsOnlyFaceExportNone(t *testing.T) {
	dir := t.TempDir()
	m := twoHexMesh("fluid", "fluid")

	opts := defaultOptions()
	opts.FaceExport = grid.ExportNone
	ex := NewExporter(m, dir, opts, nil)
	require.NoError(t, ex.Export())

	setsDir := filepath.Join(dir, "sets")
	_, err := os.Stat(filepath.Join(setsDir, "fluid-cells"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(setsDir, "fluid-faces"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "faceZones"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "cellZones"))
	assert.NoError(t, err)
}

func TestExportZonesOnlyRemovesSets(t *testing.T) {
	dir := t.TempDir()
	m := twoHexMesh("fluid", "fluid")

	opts := defaultOptions()
	opts.CellExport = grid.ExportZones
	opts.FaceExport = grid.ExportZones
	ex := NewExporter(m, dir, opts, nil)
	require.NoError(t, ex.Export())

	_, err := os.Stat(filepath.Join(dir, "cellZones"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "faceZones"))
	assert.NoError(t, err)
	// set files are deleted and the empty sets dir removed with them
	_, err = os.Stat(filepath.Join(dir, "sets"))
	assert.True(t, os.IsNotExist(err))
}

func TestExport2DExtrusion(t *testing.T) {
	dir := t.TempDir()
	m := quadStripMesh()

	opts := defaultOptions()
	opts.CellExport = grid.ExportNone
	opts.FaceExport = grid.ExportNone
	opts.Thickness = 0.5
	ex := NewExporter(m, dir, opts, nil)
	require.NoError(t, ex.Export())

	// 7 cell edges become side quads, plus 2 base and 2 top layer faces
	faces := readOutput(t, dir, "faces")
	assert.Contains(t, faces, "\n11        \n")
	assert.Contains(t, faces, "4(1 4 10 7)\n", "interior edge side quad")
	assert.Contains(t, faces, "4(0 1 7 6)\n", "bottom edge side quad")
	assert.Contains(t, faces, "4(3 4 1 0)\n", "base layer face, winding reversed")
	assert.Contains(t, faces, "4(6 7 10 9)\n", "top layer face on the offset plane")

	owner := readOutput(t, dir, "owner")
	assert.Contains(t, owner, "\n11        \n")
	neighbour := readOutput(t, dir, "neighbour")
	assert.Contains(t, neighbour, "\n1         \n")

	// doubled point plane at planeZ + orientation*thickness
	points := readOutput(t, dir, "points")
	assert.Contains(t, points, "\n12        \n")
	assert.Contains(t, points, "(2 1 0)\n")
	assert.Contains(t, points, "(2 1 0.5)\n")

	// boundary runs: bottom patch, unpatched edges, extrusion caps
	boundary := readOutput(t, dir, "boundary")
	assert.Contains(t, boundary, "\n3         \n")
	assert.Contains(t, boundary, "    bottom\n    {\n        type wall;\n        nFaces 2;\n        startFace 1;\n")
	assert.Contains(t, boundary, "    Unspecified\n    {\n        type Unspecified;\n        nFaces 4;\n        startFace 3;\n")
	assert.Contains(t, boundary, "    BaseAndTop\n    {\n        type empty;\n        nFaces 4;\n        startFace 7;\n")

	// no sets were requested, so no sets dir survives
	_, err := os.Stat(filepath.Join(dir, "sets"))
	assert.True(t, os.IsNotExist(err))
}

func TestExport2DAutoThickness(t *testing.T) {
	dir := t.TempDir()
	m := quadStripMesh()

	opts := defaultOptions()
	opts.CellExport = grid.ExportNone
	opts.FaceExport = grid.ExportNone
	prog := &testProgress{}
	ex := NewExporter(m, dir, opts, prog)
	require.NoError(t, ex.Export())

	// all 7 streamed edges have unit length
	require.NotEmpty(t, prog.infos)
	assert.Equal(t, "2D Thickness set to 1", prog.infos[0])

	points := readOutput(t, dir, "points")
	assert.Contains(t, points, "(0 0 1)\n")
}

func TestExport2DSideBCModes(t *testing.T) {
	cases := []struct {
		mode  grid.SideBCMode
		names []string
	}{
		{grid.SideBCSingle, []string{"BaseAndTop"}},
		{grid.SideBCBaseTop, []string{"Base", "Top"}},
		{grid.SideBCMultiple, []string{"fluid-base", "fluid-top"}},
		{grid.SideBCUnspecified, []string{"Unspecified"}},
	}
	for _, c := range cases {
		dir := t.TempDir()
		m := quadStripMesh()
		opts := defaultOptions()
		opts.CellExport = grid.ExportNone
		opts.FaceExport = grid.ExportNone
		opts.SideBC = c.mode
		ex := NewExporter(m, dir, opts, nil)
		require.NoError(t, ex.Export())

		boundary := readOutput(t, dir, "boundary")
		for _, name := range c.names {
			assert.Contains(t, boundary, "    "+name+"\n", "mode %v", c.mode)
		}
	}
}

func TestExport2DRejectsBadGeometry(t *testing.T) {
	opts := defaultOptions()

	m := quadStripMesh()
	m.Vertices[5][2] = 0.1
	ex := NewExporter(m, t.TempDir(), opts, nil)
	err := ex.Export()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not Z-planar")

	m = quadStripMesh()
	m.AddBlock(grid.Condition{Name: "cw"})
	m.AddCell(grid.Quad, []int{1, 4, 5, 2}) // clockwise winding
	ex = NewExporter(m, t.TempDir(), opts, nil)
	err = ex.Export()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inconsistent normals")
}

func TestExportCancellation(t *testing.T) {
	dir := t.TempDir()
	m := twoHexMesh("fluid", "fluid")

	prog := &testProgress{cancelAt: 3}
	ex := NewExporter(m, dir, defaultOptions(), prog)
	err := ex.Export()
	assert.ErrorIs(t, err, ErrCancelled)
}
