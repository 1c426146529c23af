package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/gofoam/grid"
)

// meshFace is one unique face of the mesh. nodes carries the export winding:
// for 3D faces the normal points into the owner cell; for 2D edges the
// vertices follow the owner cell's winding direction.
type meshFace struct {
	nodes          []int
	ftype          grid.FaceType
	owner          int
	ownerBlock     int
	neighbour      int
	neighbourBlock int
	domain         int
}

// buildFaces derives the unique face list and owner/neighbour adjacency.
// The owner of a face is always the lower-numbered cell because cells are
// visited in ascending order and the first visitor claims the face.
func (m *Mesh) buildFaces() {
	if m.facesBuilt {
		return
	}
	m.faces = m.faces[:0]
	m.cellFaceIDs = make([][]int, len(m.EToV))
	keyToFace := make(map[string]int)
	m.faceKeys = keyToFace

	for cell := range m.EToV {
		locals := cellFaces(m.CellTypes[cell], m.EToV[cell])
		m.cellFaceIDs[cell] = make([]int, len(locals))
		for local, fv := range locals {
			sorted := make([]int, len(fv))
			copy(sorted, fv)
			sort.Ints(sorted)
			key := fmt.Sprintf("%v", sorted)

			if id, ok := keyToFace[key]; ok {
				f := &m.faces[id]
				f.neighbour = cell
				f.neighbourBlock = m.CellBlock[cell]
				m.cellFaceIDs[cell][local] = id
				continue
			}
			nodes := fv
			if len(fv) > 2 {
				// 3D input convention: face normal points into the owner
				nodes = reversed(fv)
			}
			id := len(m.faces)
			m.faces = append(m.faces, meshFace{
				nodes:          nodes,
				owner:          cell,
				ownerBlock:     m.CellBlock[cell],
				neighbour:      -1,
				neighbourBlock: -1,
				domain:         -1,
			})
			keyToFace[key] = id
			m.cellFaceIDs[cell][local] = id
		}
	}

	m.facesBuilt = true
}

// applyDomains refreshes domain assignments and face classification from
// the current domain lists. Kept separate from buildFaces so domain faces
// may be added without rebuilding connectivity.
func (m *Mesh) applyDomains() {
	for i := range m.faces {
		m.faces[i].domain = -1
	}
	for d := range m.Domains {
		for _, df := range m.Domains[d].Faces {
			if df.Cell < 0 || df.Cell >= len(m.cellFaceIDs) {
				continue
			}
			ids := m.cellFaceIDs[df.Cell]
			if df.Local < 0 || df.Local >= len(ids) {
				continue
			}
			m.faces[ids[df.Local]].domain = d
		}
	}
	for i := range m.faces {
		f := &m.faces[i]
		switch {
		case f.neighbour < 0:
			f.ftype = grid.FaceBoundary
		case f.ownerBlock != f.neighbourBlock || f.domain >= 0:
			// a domain covering a two-sided face is a shadow patch
			f.ftype = grid.FaceConnection
		default:
			f.ftype = grid.FaceInterior
		}
	}
}

// StreamFaces drives one pass over all unique mesh faces. With
// FaceOrderBCGroupsLast, interior and connection faces stream first in
// ascending owner order, then boundary faces grouped per domain in domain
// order, then patch-less boundary faces. Face ids are assigned sequentially
// in stream order.
func (m *Mesh) StreamFaces(order grid.FaceOrder, h grid.StreamHandler) bool {
	_ = order // FaceOrderBCGroupsLast is the only supported ordering
	m.buildFaces()
	m.applyDomains()

	if !h.Begin(grid.BeginStreamData{TotalFaces: len(m.faces)}) {
		h.End(false)
		return false
	}

	faceID := 0
	emit := func(f *meshFace) bool {
		data := grid.FaceStreamData{
			Face:           faceID,
			Type:           f.ftype,
			Elem:           grid.ElemData{Type: faceElemType(len(f.nodes)), Nodes: f.nodes},
			OwnerCell:      f.owner,
			OwnerBlock:     f.ownerBlock,
			NeighbourCell:  f.neighbour,
			NeighbourBlock: f.neighbourBlock,
			Domain:         f.domain,
		}
		faceID++
		return h.Face(&data)
	}

	ok := true
	for i := range m.faces {
		if m.faces[i].ftype == grid.FaceBoundary {
			continue
		}
		if !emit(&m.faces[i]) {
			ok = false
			break
		}
	}
	streamed := make([]bool, len(m.faces))
	if ok {
	domains:
		for d := range m.Domains {
			for _, df := range m.Domains[d].Faces {
				id := m.cellFaceIDs[df.Cell][df.Local]
				f := &m.faces[id]
				if f.ftype != grid.FaceBoundary || f.domain != d || streamed[id] {
					continue // shadow face or duplicate listing
				}
				streamed[id] = true
				if !emit(f) {
					ok = false
					break domains
				}
			}
		}
	}
	if ok {
		for i := range m.faces {
			f := &m.faces[i]
			if f.ftype == grid.FaceBoundary && f.domain < 0 {
				if !emit(f) {
					ok = false
					break
				}
			}
		}
	}
	return h.End(ok) && ok
}
