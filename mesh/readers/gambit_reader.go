package readers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gofoam/grid"
	"github.com/notargets/gofoam/mesh"
)

// rawElement is one element as read, before block-major regrouping.
type rawElement struct {
	etype grid.ElementType
	nodes []int
}

// ReadGambitNeutral reads a Gambit neutral file (.neu). Element groups
// become blocks carrying the group name as their volume condition name, and
// boundary condition sets become domains. Cells are regrouped block-major.
func ReadGambitNeutral(filename string) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	// Control variables from header
	var numnp, nelem, ngrps, nbsets int

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "NUMNP") && strings.Contains(line, "NELEM") {
			if !scanner.Scan() {
				return nil, fmt.Errorf("unexpected EOF after control header")
			}
			values := strings.Fields(scanner.Text())
			if len(values) >= 4 {
				numnp, _ = strconv.Atoi(values[0])
				nelem, _ = strconv.Atoi(values[1])
				ngrps, _ = strconv.Atoi(values[2])
				nbsets, _ = strconv.Atoi(values[3])
			}
			break
		}
	}

	var (
		vertices [][]float64
		elements []rawElement
		groups   []elementGroup
		bcs      []boundarySet
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "ENDOFSECTION" || line == "":
			continue

		case strings.Contains(line, "NODAL COORDINATES"):
			vertices = make([][]float64, numnp)
			for i := 0; i < numnp; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < 3 {
					return nil, fmt.Errorf("invalid node line %q", scanner.Text())
				}
				nodeID, _ := strconv.Atoi(fields[0])
				xyz := make([]float64, 3)
				for j, f := range fields[1:] {
					if j > 2 {
						break
					}
					xyz[j], _ = strconv.ParseFloat(f, 64)
				}
				// Gambit uses 1-based node IDs
				idx := nodeID - 1
				if idx >= 0 && idx < numnp {
					vertices[idx] = xyz
				}
			}

		case strings.Contains(line, "ELEMENTS/CELLS"):
			elements = make([]rawElement, 0, nelem)
			for i := 0; i < nelem; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < 3 {
					return nil, fmt.Errorf("invalid element line %q", scanner.Text())
				}
				gambitType, _ := strconv.Atoi(fields[1])
				numNodes, _ := strconv.Atoi(fields[2])

				etype, ok := gambitElementTypeMap[gambitType]
				if !ok {
					return nil, fmt.Errorf("unsupported Gambit element type %d", gambitType)
				}
				if len(fields) < 3+numNodes {
					// connectivity may wrap to continuation lines
					for len(fields) < 3+numNodes && scanner.Scan() {
						fields = append(fields, strings.Fields(scanner.Text())...)
					}
					if len(fields) < 3+numNodes {
						return nil, fmt.Errorf("truncated element connectivity")
					}
				}
				nodes := make([]int, numNodes)
				for j := 0; j < numNodes; j++ {
					nodeID, _ := strconv.Atoi(fields[3+j])
					nodes[j] = nodeID - 1
				}
				elements = append(elements, rawElement{etype: etype, nodes: nodes})
			}

		case strings.Contains(line, "ELEMENT GROUP"):
			g, err := readElementGroup(scanner)
			if err != nil {
				return nil, err
			}
			groups = append(groups, g)

		case strings.Contains(line, "BOUNDARY CONDITIONS"):
			b, err := readBoundarySet(scanner)
			if err != nil {
				return nil, err
			}
			if b.name != "" {
				bcs = append(bcs, b)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(groups) > ngrps {
		groups = groups[:ngrps]
	}
	if len(bcs) > nbsets {
		bcs = bcs[:nbsets]
	}

	return assembleMesh(vertices, elements, groups, bcs)
}

// gambitElementTypeMap maps Gambit NTYPE values to element types.
var gambitElementTypeMap = map[int]grid.ElementType{
	2: grid.Quad, // quadrilateral
	3: grid.Triangle,
	4: grid.Hex,   // brick
	5: grid.Prism, // wedge
	6: grid.Tet,
	7: grid.Pyramid,
}

type elementGroup struct {
	name     string
	elements []int // 0-based element ids
}

type boundarySet struct {
	name  string
	faces [][2]int // (0-based element id, 0-based local face)
}

// readElementGroup parses one "ELEMENT GROUP" section: the GROUP header
// line, the group name, the flags line and the element id rows.
func readElementGroup(scanner *bufio.Scanner) (elementGroup, error) {
	var g elementGroup
	if !scanner.Scan() {
		return g, fmt.Errorf("unexpected EOF reading element group")
	}
	groupLine := strings.TrimSpace(scanner.Text())
	for !strings.HasPrefix(groupLine, "GROUP:") {
		if !scanner.Scan() {
			return g, fmt.Errorf("missing GROUP: header")
		}
		groupLine = strings.TrimSpace(scanner.Text())
	}
	fields := strings.Fields(groupLine)
	nelems := 0
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == "ELEMENTS:" {
			nelems, _ = strconv.Atoi(fields[i+1])
		}
	}
	if !scanner.Scan() {
		return g, fmt.Errorf("unexpected EOF reading group name")
	}
	g.name = strings.TrimSpace(scanner.Text())
	// flags line
	if !scanner.Scan() {
		return g, fmt.Errorf("unexpected EOF reading group flags")
	}
	for len(g.elements) < nelems && scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "ENDOFSECTION" {
			break
		}
		for _, f := range strings.Fields(line) {
			id, err := strconv.Atoi(f)
			if err != nil {
				return g, fmt.Errorf("invalid element id %q in group %s", f, g.name)
			}
			g.elements = append(g.elements, id-1)
		}
	}
	if len(g.elements) != nelems {
		return g, fmt.Errorf("group %s: expected %d elements, got %d",
			g.name, nelems, len(g.elements))
	}
	return g, nil
}

// readBoundarySet parses one "BOUNDARY CONDITIONS" section of element-side
// type (ITYPE 1): header "NAME ITYPE NENTRY NVALUES", then NENTRY lines of
// "ELEM ETYPE FACE". Node-type sets (ITYPE 0) are skipped.
func readBoundarySet(scanner *bufio.Scanner) (boundarySet, error) {
	var b boundarySet
	if !scanner.Scan() {
		return b, fmt.Errorf("unexpected EOF reading boundary set")
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) < 3 {
		return b, fmt.Errorf("invalid boundary set header %q", scanner.Text())
	}
	name := fields[0]
	itype, _ := strconv.Atoi(fields[1])
	nentry, _ := strconv.Atoi(fields[2])

	if itype != 1 {
		// node-based set, not a face patch
		for i := 0; i < nentry && scanner.Scan(); i++ {
		}
		return boundarySet{}, nil
	}
	b.name = name
	b.faces = make([][2]int, 0, nentry)
	for i := 0; i < nentry; i++ {
		if !scanner.Scan() {
			return b, fmt.Errorf("unexpected EOF reading boundary set %s", name)
		}
		f := strings.Fields(scanner.Text())
		if len(f) < 3 {
			return b, fmt.Errorf("invalid boundary entry %q", scanner.Text())
		}
		elem, _ := strconv.Atoi(f[0])
		face, _ := strconv.Atoi(f[2])
		b.faces = append(b.faces, [2]int{elem - 1, face - 1})
	}
	return b, nil
}

// assembleMesh regroups elements block-major per element group and attaches
// boundary sets as domains, remapping element ids through the permutation.
func assembleMesh(vertices [][]float64, elements []rawElement,
	groups []elementGroup, bcs []boundarySet) (*mesh.Mesh, error) {

	m := mesh.NewMesh()
	m.Vertices = vertices

	perm := make([]int, len(elements))
	for i := range perm {
		perm[i] = -1
	}
	addGroup := func(name string, ids []int) error {
		m.AddBlock(grid.Condition{Name: name, Type: "Unspecified"})
		for _, old := range ids {
			if old < 0 || old >= len(elements) {
				return fmt.Errorf("group %s references element %d of %d",
					name, old+1, len(elements))
			}
			newID, err := m.AddCell(elements[old].etype, elements[old].nodes)
			if err != nil {
				return err
			}
			perm[old] = newID
		}
		return nil
	}
	for _, g := range groups {
		if err := addGroup(g.name, g.elements); err != nil {
			return nil, err
		}
	}
	var orphans []int
	for i, p := range perm {
		if p < 0 {
			orphans = append(orphans, i)
		}
	}
	if len(orphans) > 0 {
		if err := addGroup(grid.Unspecified.Name, orphans); err != nil {
			return nil, err
		}
	}

	for _, b := range bcs {
		d := m.AddDomain(grid.Condition{Name: b.name, Type: "patch"})
		for _, ef := range b.faces {
			if ef[0] < 0 || ef[0] >= len(perm) {
				return nil, fmt.Errorf("boundary set %s references element %d", b.name, ef[0]+1)
			}
			m.AddDomainFace(d, perm[ef[0]], ef[1])
		}
	}
	return m, nil
}
