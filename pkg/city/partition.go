package city

import (
	"fmt"

	"github.com/ChicagoDave/episim/pkg/grid"
)

// CheckPartition verifies that the plan's blocks cover every grid cell exactly
// once, that each block's cells match its size, and that there is exactly one
// hospital block of standard size.
func CheckPartition(p *Plan) error {
	g := p.Geometry()
	seen := make(map[grid.Vec2i]int, p.Side*p.Side)
	hospitals := 0

	for i, b := range p.Blocks {
		if len(b.Cells) != b.Size.CellCount() {
			return fmt.Errorf("block %d: %s block has %d cells, want %d", i, b.Size, len(b.Cells), b.Size.CellCount())
		}
		want := append([]grid.Vec2i{b.Anchor()}, b.Size.companions(b.Anchor())...)
		for j, c := range b.Cells {
			if c != want[j] {
				return fmt.Errorf("block %d: cell %v is not contiguous with anchor %v for size %s", i, c, b.Anchor(), b.Size)
			}
			if !g.Contains(c) {
				return fmt.Errorf("block %d: cell %v outside %dx%d grid", i, c, p.Side, p.Side)
			}
			if prev, dup := seen[c]; dup {
				return fmt.Errorf("cell %v claimed by blocks %d and %d", c, prev, i)
			}
			seen[c] = i
		}
		if b.Area == AreaHospital {
			hospitals++
			if b.Size != SizeStandard {
				return fmt.Errorf("block %d: hospital block has size %s, want %s", i, b.Size, SizeStandard)
			}
		}
	}

	if len(seen) != p.Side*p.Side {
		return fmt.Errorf("blocks cover %d of %d cells", len(seen), p.Side*p.Side)
	}
	if hospitals != 1 {
		return fmt.Errorf("found %d hospital blocks, want 1", hospitals)
	}
	return nil
}
