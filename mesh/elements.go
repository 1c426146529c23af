package mesh

import "github.com/notargets/gofoam/grid"

// cellFaces returns the faces of a cell as vertex index lists. For 3D cells
// the winding of each face has its normal pointing out of the cell. For 2D
// cells (tri/quad) the "faces" are the edges in the cell's winding order.
func cellFaces(etype grid.ElementType, v []int) [][]int {
	switch etype {
	case grid.Tet:
		return [][]int{
			{v[0], v[2], v[1]},
			{v[0], v[1], v[3]},
			{v[1], v[2], v[3]},
			{v[0], v[3], v[2]},
		}
	case grid.Hex:
		return [][]int{
			{v[0], v[3], v[2], v[1]}, // bottom
			{v[4], v[5], v[6], v[7]}, // top
			{v[0], v[1], v[5], v[4]},
			{v[1], v[2], v[6], v[5]},
			{v[2], v[3], v[7], v[6]},
			{v[3], v[0], v[4], v[7]},
		}
	case grid.Prism:
		return [][]int{
			{v[0], v[2], v[1]}, // bottom tri
			{v[3], v[4], v[5]}, // top tri
			{v[0], v[1], v[4], v[3]},
			{v[1], v[2], v[5], v[4]},
			{v[2], v[0], v[3], v[5]},
		}
	case grid.Pyramid:
		return [][]int{
			{v[0], v[3], v[2], v[1]}, // base quad
			{v[0], v[1], v[4]},
			{v[1], v[2], v[4]},
			{v[2], v[3], v[4]},
			{v[3], v[0], v[4]},
		}
	case grid.Triangle:
		return [][]int{
			{v[0], v[1]},
			{v[1], v[2]},
			{v[2], v[0]},
		}
	case grid.Quad:
		return [][]int{
			{v[0], v[1]},
			{v[1], v[2]},
			{v[2], v[3]},
			{v[3], v[0]},
		}
	default:
		return nil
	}
}

// faceElemType maps a face vertex count to its element type.
func faceElemType(nverts int) grid.ElementType {
	switch nverts {
	case 2:
		return grid.Bar
	case 3:
		return grid.Triangle
	default:
		return grid.Quad
	}
}

// reversed returns the vertex list in opposite winding.
func reversed(v []int) []int {
	r := make([]int, len(v))
	for i, n := range v {
		r[len(v)-1-i] = n
	}
	return r
}
