package foam

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/notargets/gofoam/grid"
)

// safeFileName sanitizes a condition name for use as a set file name:
// every character that is not alphanumeric or one of "-_." becomes an
// underscore.
func safeFileName(unsafe, suffix string) string {
	b := []byte(unsafe)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			b[i] = '_'
		}
	}
	return string(b) + suffix
}

// uniqueSafeFileName sanitizes a name and de-duplicates it against the used
// registry by appending an incrementing "-N" suffix on collision.
func uniqueSafeFileName(unsafe string, used map[string]bool, suffix string) string {
	base := safeFileName(unsafe, suffix)
	name := base
	for ndx := 1; used[name]; ndx++ {
		name = fmt.Sprintf("%s-%d", base, ndx)
	}
	used[name] = true
	return name
}

// VcSets is the per-volume-condition bundle of set files. Depending on the
// condition's TID bitmask it owns up to three: an interior face set, a
// boundary face set (which may alias the interior one when interior and
// boundary faces share a file) and a cell set.
type VcSets struct {
	interiorFaces *SetFile
	boundaryFaces *SetFile
	cells         *SetFile
	setsDir       string
}

// NewVcSets lazily creates the set files requested by vc.TID inside setsDir,
// registering each file name in used.
func NewVcSets(vc grid.Condition, setsDir string, used map[string]bool) (*VcSets, error) {
	v := &VcSets{setsDir: setsDir}
	create := func(sf *SetFile) error {
		if err := sf.Create(setsDir); err != nil {
			return err
		}
		return nil
	}
	switch {
	case vc.TID&grid.VcIBFaces == grid.VcIBFaces:
		// interior and boundary faces go to separate set files
		v.interiorFaces = NewFaceSetFile(uniqueSafeFileName(vc.Name, used, "-interiorFaces"))
		if err := create(v.interiorFaces); err != nil {
			return nil, err
		}
		v.boundaryFaces = NewFaceSetFile(uniqueSafeFileName(vc.Name, used, "-boundaryFaces"))
		if err := create(v.boundaryFaces); err != nil {
			return nil, err
		}
	case vc.TID&grid.VcFaces == grid.VcFaces:
		// interior and boundary faces share one set file
		v.interiorFaces = NewFaceSetFile(uniqueSafeFileName(vc.Name, used, "-faces"))
		if err := create(v.interiorFaces); err != nil {
			return nil, err
		}
		v.boundaryFaces = v.interiorFaces
	case vc.TID&grid.VcIFaces != 0:
		v.interiorFaces = NewFaceSetFile(uniqueSafeFileName(vc.Name, used, "-interiorFaces"))
		if err := create(v.interiorFaces); err != nil {
			return nil, err
		}
	case vc.TID&grid.VcBFaces != 0:
		v.boundaryFaces = NewFaceSetFile(uniqueSafeFileName(vc.Name, used, "-boundaryFaces"))
		if err := create(v.boundaryFaces); err != nil {
			return nil, err
		}
	}
	if vc.TID&grid.VcCells != 0 {
		v.cells = NewCellSetFile(uniqueSafeFileName(vc.Name, used, "-cells"))
		if err := create(v.cells); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// AddFace records a streamed face under the matching role. Connection faces
// count as boundary faces of the volume they touch.
func (v *VcSets) AddFace(t grid.FaceType, faceID int) {
	switch t {
	case grid.FaceBoundary, grid.FaceConnection:
		if v.boundaryFaces != nil {
			v.boundaryFaces.WriteAddress(faceID)
		}
	case grid.FaceInterior:
		if v.interiorFaces != nil {
			v.interiorFaces.WriteAddress(faceID)
		}
	}
}

// HasCellSet reports whether a cell set file was requested.
func (v *VcSets) HasCellSet() bool { return v.cells != nil }

// PushCell records one cell index.
func (v *VcSets) PushCell(cellID int) {
	if v.cells != nil {
		v.cells.WriteAddress(cellID)
	}
}

// sharedFaceFile reports whether interior and boundary faces alias one file.
func (v *VcSets) sharedFaceFile() bool {
	return v.interiorFaces != nil && v.interiorFaces == v.boundaryFaces
}

// FinalizeFaceSets closes the face set files.
func (v *VcSets) FinalizeFaceSets() {
	if v.interiorFaces != nil {
		v.interiorFaces.Close()
	}
	if v.boundaryFaces != nil && !v.sharedFaceFile() {
		v.boundaryFaces.Close()
	}
}

// FinalizeCellSet closes the cell set file.
func (v *VcSets) FinalizeCellSet() {
	if v.cells != nil {
		v.cells.Close()
	}
}

// AddFaceSetsToZones splices the face set file bodies into the faceZones
// file.
func (v *VcSets) AddFaceSetsToZones(z *ZoneFile) error {
	if v.interiorFaces != nil {
		if err := z.WriteSet(v.setsDir, v.interiorFaces.Object); err != nil {
			return err
		}
	}
	if v.boundaryFaces != nil && !v.sharedFaceFile() {
		if err := z.WriteSet(v.setsDir, v.boundaryFaces.Object); err != nil {
			return err
		}
	}
	return nil
}

// AddCellSetToZones splices the cell set file body into the cellZones file.
func (v *VcSets) AddCellSetToZones(z *ZoneFile) error {
	if v.cells == nil {
		return nil
	}
	return z.WriteSet(v.setsDir, v.cells.Object)
}

// DeleteFaceSetFiles closes and removes the face set files from disk. Used
// when only zones, not sets, were requested.
func (v *VcSets) DeleteFaceSetFiles() {
	v.FinalizeFaceSets()
	if v.interiorFaces != nil {
		os.Remove(filepath.Join(v.setsDir, v.interiorFaces.Object))
	}
	if v.boundaryFaces != nil && !v.sharedFaceFile() {
		os.Remove(filepath.Join(v.setsDir, v.boundaryFaces.Object))
	}
}

// DeleteCellSetFiles closes and removes the cell set file from disk.
func (v *VcSets) DeleteCellSetFiles() {
	v.FinalizeCellSet()
	if v.cells != nil {
		os.Remove(filepath.Join(v.setsDir, v.cells.Object))
	}
}
