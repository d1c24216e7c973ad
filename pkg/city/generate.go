package city

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/ChicagoDave/episim/pkg/grid"
)

const (
	// ResidentialShare is the fraction of cells expected to end up residential.
	ResidentialShare = 0.7

	// DefaultIntensity scales the number of large block placement attempts
	// relative to the cell count.
	DefaultIntensity = 10.0
)

// ErrInvalidInput is returned by SideLength for non-positive inputs.
var ErrInvalidInput = errors.New("population size and residents per house must be greater than zero")

// areaWeights holds the relative weights used when drawing a block's area type.
var areaWeights = []struct {
	area   AreaType
	weight int
}{
	{AreaResidential, 70},
	{AreaGreen, 18},
	{AreaShopping, 5},
	{AreaWorkplace, 7},
}

// SideLength returns the grid side needed to house population people with at
// most residentsPerHouse residents in each house.
//
//	houses = ceil(P / R)
//	cells  = ceil(houses / 0.7)
//	side   = ceil(sqrt(cells)) + 1
func SideLength(population, residentsPerHouse int) (int, error) {
	if population <= 0 || residentsPerHouse <= 0 {
		return 0, fmt.Errorf("%w (population=%d, residents_per_house=%d)", ErrInvalidInput, population, residentsPerHouse)
	}
	houses := (population + residentsPerHouse - 1) / residentsPerHouse
	// Integer form of ceil(houses / 0.7).
	cells := (houses*10 + 6) / 7
	return int(math.Ceil(math.Sqrt(float64(cells)))) + 1, nil
}

// Generate builds a side x side city. The center cell is always a standard
// hospital block. Every other cell is first offered to randomly sized large
// blocks; whatever is left becomes standard single-cell blocks.
func Generate(side int, intensity float64, rng *rand.Rand) *Plan {
	plan := &Plan{Side: side}
	if side <= 0 {
		return plan
	}

	// 1. Shuffled pool of unassigned cells.
	pool := make([]grid.Vec2i, 0, side*side)
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			pool = append(pool, grid.Pt(x, y))
		}
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	// 2. Hospital at the center.
	hospital := grid.Pt(side/2, side/2)
	pool = slices.DeleteFunc(pool, func(c grid.Vec2i) bool { return c == hospital })
	plan.Blocks = append(plan.Blocks, Block{
		Cells: []grid.Vec2i{hospital},
		Size:  SizeStandard,
		Area:  AreaHospital,
	})

	// 3. Large blocks. A failed attempt leaves the pool untouched, so the same
	// back-of-pool cell is tried again on the next attempt.
	attempts := int(math.Round(float64(side*side) * intensity))
	for attempts > 0 && len(pool) > 0 {
		base := pool[len(pool)-1]
		size := largeSizes[rng.IntN(len(largeSizes))]
		area := randomArea(rng)

		if cells, ok := formBlock(base, size, pool); ok {
			pool = slices.DeleteFunc(pool, func(c grid.Vec2i) bool { return slices.Contains(cells, c) })
			plan.Blocks = append(plan.Blocks, Block{Cells: cells, Size: size, Area: area})
		}
		attempts--
	}

	// 4. Standard blocks for the rest.
	for _, c := range pool {
		plan.Blocks = append(plan.Blocks, Block{
			Cells: []grid.Vec2i{c},
			Size:  SizeStandard,
			Area:  randomArea(rng),
		})
	}

	return plan
}

// formBlock returns the cells of a block of the given size anchored at base,
// or false if any companion cell is no longer in the pool.
func formBlock(base grid.Vec2i, size BlockSize, pool []grid.Vec2i) ([]grid.Vec2i, bool) {
	cells := []grid.Vec2i{base}
	for _, c := range size.companions(base) {
		if !slices.Contains(pool, c) {
			return nil, false
		}
		cells = append(cells, c)
	}
	return cells, true
}

func randomArea(rng *rand.Rand) AreaType {
	total := 0
	for _, w := range areaWeights {
		total += w.weight
	}
	r := rng.IntN(total)
	for _, w := range areaWeights {
		if r < w.weight {
			return w.area
		}
		r -= w.weight
	}
	return AreaResidential
}
