package city

import "github.com/ChicagoDave/episim/pkg/grid"

// AreaType identifies what a city block is used for.
type AreaType string

const (
	AreaGreen       AreaType = "green"
	AreaResidential AreaType = "residential"
	AreaHospital    AreaType = "hospital"
	AreaShopping    AreaType = "shopping"
	AreaWorkplace   AreaType = "workplace"
)

// BlockSize identifies the cell footprint of a block.
type BlockSize string

const (
	SizeStandard         BlockSize = "standard"          // 1 cell
	SizeDoubleVertical   BlockSize = "double_vertical"   // 2 cells stacked
	SizeDoubleHorizontal BlockSize = "double_horizontal" // 2 cells side by side
	SizeQuadSquare       BlockSize = "quad_square"       // 2x2 cells
)

// largeSizes are the footprints tried during large block placement.
var largeSizes = []BlockSize{SizeDoubleVertical, SizeDoubleHorizontal, SizeQuadSquare}

// CellCount returns how many cells a block of this size occupies.
func (s BlockSize) CellCount() int {
	switch s {
	case SizeDoubleVertical, SizeDoubleHorizontal:
		return 2
	case SizeQuadSquare:
		return 4
	default:
		return 1
	}
}

// companions returns the cells that must join base to form a block of size s.
// base is always the top-left cell of the block.
func (s BlockSize) companions(base grid.Vec2i) []grid.Vec2i {
	switch s {
	case SizeDoubleVertical:
		return []grid.Vec2i{{X: base.X, Y: base.Y + 1}}
	case SizeDoubleHorizontal:
		return []grid.Vec2i{{X: base.X + 1, Y: base.Y}}
	case SizeQuadSquare:
		return []grid.Vec2i{
			{X: base.X + 1, Y: base.Y},
			{X: base.X, Y: base.Y + 1},
			{X: base.X + 1, Y: base.Y + 1},
		}
	default:
		return nil
	}
}

// Block is a contiguous group of cells sharing one area type.
type Block struct {
	Cells []grid.Vec2i `json:"cells"` // Cells[0] is the top-left cell
	Size  BlockSize    `json:"size"`
	Area  AreaType     `json:"area"`
}

// Anchor returns the top-left cell of the block.
func (b Block) Anchor() grid.Vec2i {
	return b.Cells[0]
}

// Plan is a generated city: a Side x Side grid partitioned into blocks.
type Plan struct {
	Side   int     `json:"side"`
	Blocks []Block `json:"blocks"`
}

// Geometry returns the pixel geometry for the plan's grid.
func (p *Plan) Geometry() grid.Geometry {
	return grid.NewGeometry(p.Side)
}

// CountArea returns the number of cells with the given area type.
func (p *Plan) CountArea(area AreaType) int {
	n := 0
	for _, b := range p.Blocks {
		if b.Area == area {
			n += len(b.Cells)
		}
	}
	return n
}
