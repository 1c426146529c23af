package readers

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofoam/grid"
)

const neuFixture = `        CONTROL INFO 2.0.0
** GAMBIT NEUTRAL FILE
strip
PROGRAM:                Gambit     VERSION:  2.0.0
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         6         2         2         1         2         2
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.00000000000e+00   0.00000000000e+00
         2   1.00000000000e+00   0.00000000000e+00
         3   2.00000000000e+00   0.00000000000e+00
         4   0.00000000000e+00   1.00000000000e+00
         5   1.00000000000e+00   1.00000000000e+00
         6   2.00000000000e+00   1.00000000000e+00
ENDOFSECTION
      ELEMENTS/CELLS 2.0.0
       1  2  4        1       2       5       4
       2  2  4        2       3       6       5
ENDOFSECTION
       ELEMENT GROUP 2.0.0
GROUP:          1 ELEMENTS:          1 MATERIAL:          2 NFLAGS:          1
                              rotor
       0
       2
ENDOFSECTION
       ELEMENT GROUP 2.0.0
GROUP:          2 ELEMENTS:          1 MATERIAL:          2 NFLAGS:          1
                             stator
       0
       1
ENDOFSECTION
 BOUNDARY CONDITIONS 2.0.0
                              bottom         1         2         0         6
         1         2         1
         2         2         1
ENDOFSECTION
`

func writeFixture(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadGambitNeutral(t *testing.T) {
	m, err := ReadGambitNeutral(writeFixture(t, "strip.neu", neuFixture))
	require.NoError(t, err)

	assert.Equal(t, 6, m.VertexCount())
	assert.Equal(t, 2, m.CellCount())
	require.Equal(t, 2, m.BlockCount())

	// groups become blocks, block-major: the rotor group lists element 2,
	// so that cell becomes global cell 0
	vc, _ := m.BlockCondition(0)
	assert.Equal(t, "rotor", vc.Name)
	ed, blk, ok := m.Cell(0)
	require.True(t, ok)
	assert.Equal(t, 0, blk)
	assert.Equal(t, grid.Quad, ed.Type)
	assert.Equal(t, []int{1, 2, 5, 4}, ed.Nodes, "1-based file ids shifted down")

	vc, _ = m.BlockCondition(1)
	assert.Equal(t, "stator", vc.Name)
	ed, _, _ = m.Cell(1)
	assert.Equal(t, []int{0, 1, 4, 3}, ed.Nodes)

	// the boundary set follows the permuted element ids
	require.Equal(t, 1, m.DomainCount())
	bc, _ := m.DomainCondition(0)
	assert.Equal(t, "bottom", bc.Name)
	assert.Equal(t, "patch", bc.Type)
	require.Len(t, m.Domains[0].Faces, 2)
	assert.Equal(t, 1, m.Domains[0].Faces[0].Cell, "file element 1 is now cell 1")
	assert.Equal(t, 0, m.Domains[0].Faces[0].Local)
	assert.Equal(t, 0, m.Domains[0].Faces[1].Cell)

	p, ok := m.Vertex(2)
	require.True(t, ok)
	assert.Equal(t, [3]float64{2, 0, 0}, p)
}

func TestReadGambitNeutralOrphanElements(t *testing.T) {
	// only one group: the leftover element must land in a trailing
	// Unspecified block
	const orphanFixture = `        CONTROL INFO 2.0.0
** GAMBIT NEUTRAL FILE
strip
PROGRAM:                Gambit     VERSION:  2.0.0
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         6         2         1         0         2         2
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.0   0.0
         2   1.0   0.0
         3   2.0   0.0
         4   0.0   1.0
         5   1.0   1.0
         6   2.0   1.0
ENDOFSECTION
      ELEMENTS/CELLS 2.0.0
       1  2  4        1       2       5       4
       2  2  4        2       3       6       5
ENDOFSECTION
       ELEMENT GROUP 2.0.0
GROUP:          1 ELEMENTS:          1 MATERIAL:          2 NFLAGS:          1
                              rotor
       0
       2
ENDOFSECTION
`
	m, err := ReadGambitNeutral(writeFixture(t, "orphan.neu", orphanFixture))
	require.NoError(t, err)
	require.Equal(t, 2, m.BlockCount())
	vc, _ := m.BlockCondition(1)
	assert.Equal(t, grid.Unspecified.Name, vc.Name)
	assert.Equal(t, 1, m.BlockElementCount(1))
}

func TestReadGambitNeutralErrors(t *testing.T) {
	_, err := ReadGambitNeutral(filepath.Join(t.TempDir(), "missing.neu"))
	assert.Error(t, err)

	truncated := `        CONTROL INFO 2.0.0
** GAMBIT NEUTRAL FILE
strip
PROGRAM:                Gambit     VERSION:  2.0.0
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         6         2         0         0         2         2
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.0   0.0
`
	_, err = ReadGambitNeutral(writeFixture(t, "trunc.neu", truncated))
	assert.Error(t, err)
}

func TestReadMeshFileDispatch(t *testing.T) {
	_, err := ReadMeshFile("grid.msh")
	assert.Error(t, err)

	m, err := ReadMeshFile(writeFixture(t, "strip.neu", neuFixture))
	require.NoError(t, err)
	assert.Equal(t, 2, m.CellCount())
}
