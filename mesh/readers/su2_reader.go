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

// vtkElementTypeMap maps SU2/VTK element type codes to element types.
// Line elements appear only inside marker sections.
var vtkElementTypeMap = map[int]grid.ElementType{
	3:  grid.Bar,
	5:  grid.Triangle,
	9:  grid.Quad,
	10: grid.Tet,
	12: grid.Hex,
	13: grid.Prism,
	14: grid.Pyramid,
}

type su2Marker struct {
	name  string
	faces [][]int // vertex lists, one per marker element
}

// ReadSU2 reads an SU2 native mesh file (.su2). All cells land in a single
// "fluid" block; each MARKER_TAG section becomes a domain whose faces are
// resolved against the cell connectivity.
func ReadSU2(filename string) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	m := mesh.NewMesh()
	m.AddBlock(grid.Condition{Name: "fluid", Type: "Unspecified"})

	var (
		ndime   int
		markers []su2Marker
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		key, value := splitSU2Keyword(line)

		switch key {
		case "NDIME":
			ndime, err = strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid NDIME: %v", err)
			}
			if ndime != 2 && ndime != 3 {
				return nil, fmt.Errorf("unsupported dimension %d", ndime)
			}

		case "NELEM":
			nelem, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid NELEM: %v", err)
			}
			for i := 0; i < nelem; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				etype, nodes, err := parseSU2Element(scanner.Text())
				if err != nil {
					return nil, err
				}
				if _, err = m.AddCell(etype, nodes); err != nil {
					return nil, err
				}
			}

		case "NPOIN":
			npoin, err := strconv.Atoi(strings.Fields(value)[0])
			if err != nil {
				return nil, fmt.Errorf("invalid NPOIN: %v", err)
			}
			m.Vertices = make([][]float64, npoin)
			for i := 0; i < npoin; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading points")
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < ndime {
					return nil, fmt.Errorf("invalid point line %q", scanner.Text())
				}
				xyz := make([]float64, 3)
				for j := 0; j < ndime; j++ {
					xyz[j], err = strconv.ParseFloat(fields[j], 64)
					if err != nil {
						return nil, fmt.Errorf("invalid coordinate %q: %v", fields[j], err)
					}
				}
				m.Vertices[i] = xyz
			}

		case "NMARK":
			nmark, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid NMARK: %v", err)
			}
			for i := 0; i < nmark; i++ {
				mk, err := readSU2Marker(scanner)
				if err != nil {
					return nil, err
				}
				markers = append(markers, mk)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Markers resolve against cell connectivity, so attach them last.
	for _, mk := range markers {
		d := m.AddDomain(grid.Condition{Name: mk.name, Type: "patch"})
		for _, verts := range mk.faces {
			cell, local, ok := m.LocateFace(verts)
			if !ok {
				return nil, fmt.Errorf("marker %s: face %v matches no cell", mk.name, verts)
			}
			m.AddDomainFace(d, cell, local)
		}
	}
	return m, nil
}

func splitSU2Keyword(line string) (key, value string) {
	parts := strings.SplitN(line, "=", 2)
	key = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		value = strings.TrimSpace(parts[1])
	}
	return
}

func parseSU2Element(line string) (grid.ElementType, []int, error) {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return 0, nil, fmt.Errorf("empty element line")
	}
	code, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, nil, fmt.Errorf("invalid element type %q", fields[0])
	}
	etype, ok := vtkElementTypeMap[code]
	if !ok {
		return 0, nil, fmt.Errorf("unsupported VTK element type %d", code)
	}
	n := etype.VertexCount()
	if len(fields) < 1+n {
		return 0, nil, fmt.Errorf("element line %q: expected %d vertices", line, n)
	}
	nodes := make([]int, n)
	for j := 0; j < n; j++ {
		nodes[j], err = strconv.Atoi(fields[1+j])
		if err != nil {
			return 0, nil, fmt.Errorf("invalid vertex id %q", fields[1+j])
		}
	}
	return etype, nodes, nil
}

func readSU2Marker(scanner *bufio.Scanner) (su2Marker, error) {
	var mk su2Marker
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		key, value := splitSU2Keyword(line)
		if key != "MARKER_TAG" {
			return mk, fmt.Errorf("expected MARKER_TAG, got %q", line)
		}
		mk.name = value
		break
	}
	if mk.name == "" {
		return mk, fmt.Errorf("unexpected EOF reading marker tag")
	}
	if !scanner.Scan() {
		return mk, fmt.Errorf("unexpected EOF reading marker %s", mk.name)
	}
	key, value := splitSU2Keyword(strings.TrimSpace(scanner.Text()))
	if key != "MARKER_ELEMS" {
		return mk, fmt.Errorf("expected MARKER_ELEMS for %s, got %q", mk.name, key)
	}
	nelems, err := strconv.Atoi(value)
	if err != nil {
		return mk, fmt.Errorf("invalid MARKER_ELEMS for %s: %v", mk.name, err)
	}
	mk.faces = make([][]int, 0, nelems)
	for i := 0; i < nelems; i++ {
		if !scanner.Scan() {
			return mk, fmt.Errorf("unexpected EOF in marker %s", mk.name)
		}
		_, verts, err := parseSU2Element(scanner.Text())
		if err != nil {
			return mk, fmt.Errorf("marker %s: %v", mk.name, err)
		}
		mk.faces = append(mk.faces, verts)
	}
	return mk, nil
}
