// Package readers loads unstructured meshes from common grid file formats
// into the mesh.Mesh model consumed by the exporter.
package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/gofoam/mesh"
)

// ReadMeshFile reads a mesh file based on extension.
func ReadMeshFile(filename string) (*mesh.Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".neu":
		return ReadGambitNeutral(filename)
	case ".su2":
		return ReadSU2(filename)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}
