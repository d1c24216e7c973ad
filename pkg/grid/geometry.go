package grid

// Reference dimensions of a city square and the road around it, in pixels.
const (
	SquareWidth = 100
	RoadWidth   = 30
)

// Geometry converts between pixel space and grid space for a square city of
// Side x Side cells. The city is centered on the pixel origin.
//
// A grid index addresses both a cell and the road intersection at that
// cell's top-left corner: GridToPixel returns the intersection, CellCenter
// returns the middle of the cell where a building sits.
type Geometry struct {
	Side        int `json:"side"`
	SquareWidth int `json:"square_width"`
	RoadWidth   int `json:"road_width"`
}

// NewGeometry returns a Geometry with the reference square and road widths.
func NewGeometry(side int) Geometry {
	return Geometry{Side: side, SquareWidth: SquareWidth, RoadWidth: RoadWidth}
}

// Pitch is the distance between two neighbouring intersections.
func (g Geometry) Pitch() int {
	return g.SquareWidth + g.RoadWidth
}

// PixelSize is the width of the whole city including the outer roads.
func (g Geometry) PixelSize() int {
	return g.Side*g.SquareWidth + (g.Side+1)*g.RoadWidth
}

func (g Geometry) half() int {
	return g.PixelSize() / 2
}

// PixelToGrid returns the grid index whose pitch-sized window contains p.
func (g Geometry) PixelToGrid(p Vec2i) Vec2i {
	rel := Vec2i{p.X + g.half(), p.Y + g.half()}
	return Vec2i{rel.X / g.Pitch(), rel.Y / g.Pitch()}
}

// GridToPixel returns the pixel position of the intersection at grid index c.
func (g Geometry) GridToPixel(c Vec2i) Vec2i {
	return Vec2i{
		c.X*g.Pitch() + g.RoadWidth/2 - g.half(),
		c.Y*g.Pitch() + g.RoadWidth/2 - g.half(),
	}
}

// CellOrigin returns the top-left pixel of the square at cell c.
func (g Geometry) CellOrigin(c Vec2i) Vec2i {
	return Vec2i{
		-g.half() + g.RoadWidth + c.X*g.Pitch(),
		-g.half() + g.RoadWidth + c.Y*g.Pitch(),
	}
}

// CellCenter returns the pixel at the middle of the square at cell c.
func (g Geometry) CellCenter(c Vec2i) Vec2i {
	o := g.CellOrigin(c)
	return Vec2i{o.X + g.SquareWidth/2, o.Y + g.SquareWidth/2}
}

// Contains reports whether c is a valid cell index.
func (g Geometry) Contains(c Vec2i) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Side && c.Y < g.Side
}
