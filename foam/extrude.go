package foam

import "github.com/notargets/gofoam/grid"

// Side patch conditions synthesized for the extrusion layers.
const (
	sideBcType = "empty"
	sideBcTID  = 103
)

// writeExtrudedFaces emits the original 2D elements and their offset-plane
// duplicates as boundary faces of the one-cell-thick 3D mesh. Each 2D
// tri/quad cell becomes a prism/hex with the same id; that cell owns both
// layer faces. Face ids continue past the streamed cell edges, base layer
// first.
func (e *Exporter) writeExtrudedFaces() {
	faceOffset := e.numFaces
	e.writeLayerFaces(faceOffset, 0)
	faceOffset += e.model.CellCount()
	e.writeLayerFaces(faceOffset, e.model.VertexCount())
}

func (e *Exporter) writeLayerFaces(faceOffset, vertOffset int) {
	isOffset := vertOffset > 0
	prevBlk := -1
	var bc grid.Condition
	for cell := 0; cell < e.model.CellCount(); cell++ {
		ed, blk, ok := e.model.Cell(cell)
		if !ok {
			break
		}
		nodes := ed.Nodes
		if isOffset {
			nodes = offsetVertices(ed.Type, nodes, vertOffset)
		}
		e.faces.WriteFace(grid.ElemData{Type: ed.Type, Nodes: nodes})
		e.owner.WriteAddress(cell)

		if blk != prevBlk {
			prevBlk = blk
			bc = e.sideCondition(blk, isOffset)
		}
		faceID := cell + faceOffset
		e.pushBcFace(bc, faceID)
		if e.doFaceSets {
			// a layer face is a boundary face of the volume it caps
			e.addFaceToBlockSet(blk, grid.FaceBoundary, faceID)
		}
	}
}

// offsetVertices shifts the element onto the duplicate point plane and flips
// its winding with the pairwise swap (quad 0<->3, 1<->2; tri 0<->2) so the
// offset layer's written normal points out of the mesh.
func offsetVertices(t grid.ElementType, v []int, offset int) []int {
	out := make([]int, len(v))
	for i, n := range v {
		out[i] = n + offset
	}
	switch t {
	case grid.Quad:
		out[0], out[3] = out[3], out[0]
		out[1], out[2] = out[2], out[1]
	case grid.Triangle:
		out[0], out[2] = out[2], out[0]
	}
	return out
}

// sideCondition names the boundary condition of a layer face per the
// configured side BC mode, using the originating block's volume condition
// as the base.
func (e *Exporter) sideCondition(blk int, isOffset bool) grid.Condition {
	vc, ok := e.model.BlockCondition(blk)
	if !ok {
		vc = grid.Unspecified
	}
	switch e.opts.SideBC {
	case grid.SideBCUnspecified:
		return grid.Unspecified
	case grid.SideBCBaseTop:
		name := "Base"
		if isOffset {
			name = "Top"
		}
		return grid.Condition{Name: name, Type: sideBcType, TID: sideBcTID}
	case grid.SideBCMultiple:
		name := vc.Name + "-base"
		if isOffset {
			name = vc.Name + "-top"
		}
		return grid.Condition{Name: name, Type: sideBcType, TID: sideBcTID}
	default: // SideBCSingle
		return grid.Condition{Name: "BaseAndTop", Type: sideBcType, TID: sideBcTID}
	}
}
