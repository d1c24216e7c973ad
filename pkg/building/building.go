// Package building turns a generated city plan into point buildings that
// agents live in, work at, shop at, or are treated in.
package building

import (
	"errors"
	"fmt"

	"github.com/ChicagoDave/episim/pkg/city"
	"github.com/ChicagoDave/episim/pkg/grid"
)

// Kind is the building type tag.
type Kind string

const (
	KindHouse     Kind = "house"
	KindShop      Kind = "shop"
	KindHospital  Kind = "hospital"
	KindWorkplace Kind = "workplace"
)

// ErrNoHospital is returned when a plan contains no hospital block.
var ErrNoHospital = errors.New("no hospital building in city")

// ID is a stable handle into a Registry.
type ID int

// Building is a point entity placed at the center of one city cell.
type Building struct {
	ID       ID         `json:"id"`
	Kind     Kind       `json:"kind"`
	Cell     grid.Vec2i `json:"cell"`
	Position grid.Vec2i `json:"position"`
}

// kindFor maps an area type to the building kind placed on it.
// Green areas have no buildings.
func kindFor(area city.AreaType) (Kind, bool) {
	switch area {
	case city.AreaResidential:
		return KindHouse, true
	case city.AreaHospital:
		return KindHospital, true
	case city.AreaShopping:
		return KindShop, true
	case city.AreaWorkplace:
		return KindWorkplace, true
	default:
		return "", false
	}
}

// Registry owns every building of a city. Buildings are created once and
// never move, so IDs stay valid for the lifetime of the registry.
type Registry struct {
	geometry  grid.Geometry
	buildings []Building
	hospital  ID
}

// NewRegistry places one building on every occupied cell of every non-green
// block in the plan.
func NewRegistry(plan *city.Plan) (*Registry, error) {
	r := &Registry{geometry: plan.Geometry(), hospital: -1}

	for _, block := range plan.Blocks {
		kind, ok := kindFor(block.Area)
		if !ok {
			continue
		}
		for _, cell := range block.Cells {
			id := ID(len(r.buildings))
			r.buildings = append(r.buildings, Building{
				ID:       id,
				Kind:     kind,
				Cell:     cell,
				Position: r.geometry.CellCenter(cell),
			})
			if kind == KindHospital && r.hospital < 0 {
				r.hospital = id
			}
		}
	}

	if r.hospital < 0 {
		return nil, fmt.Errorf("building registry for %dx%d city: %w", plan.Side, plan.Side, ErrNoHospital)
	}
	return r, nil
}

// Geometry returns the pixel geometry the buildings were placed with.
func (r *Registry) Geometry() grid.Geometry {
	return r.geometry
}

// All returns every building, indexed by ID.
func (r *Registry) All() []Building {
	return r.buildings
}

// Get returns the building with the given ID.
func (r *Registry) Get(id ID) Building {
	return r.buildings[id]
}

// Len returns the number of buildings.
func (r *Registry) Len() int {
	return len(r.buildings)
}

// Hospital returns the ID of the city's hospital.
func (r *Registry) Hospital() ID {
	return r.hospital
}

// OfKind returns the IDs of all buildings of the given kind in registry order.
func (r *Registry) OfKind(kind Kind) []ID {
	var ids []ID
	for _, b := range r.buildings {
		if b.Kind == kind {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

// PixelToGrid converts a pixel position to a grid index.
func (r *Registry) PixelToGrid(p grid.Vec2i) grid.Vec2i {
	return r.geometry.PixelToGrid(p)
}

// GridToPixel converts a grid index to its intersection pixel position.
func (r *Registry) GridToPixel(c grid.Vec2i) grid.Vec2i {
	return r.geometry.GridToPixel(c)
}
