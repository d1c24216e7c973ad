package agent

import "math/rand/v2"

// Schedule holds the hours of day at which an agent changes destination.
type Schedule struct {
	WorkStart     int `json:"work_start"`
	WorkEnd       int `json:"work_end"`
	ShoppingStart int `json:"shopping_start"`
	ShoppingEnd   int `json:"shopping_end"`
}

// RandomSchedule draws a daily schedule: work starts between 5 and 8 and
// lasts 9 hours, shopping starts 1 to 3 hours after work and lasts 1 or 2 hours.
func RandomSchedule(rng *rand.Rand) Schedule {
	workStart := 5 + rng.IntN(4)
	workEnd := (workStart + 9) % 24
	shoppingStart := workEnd + 1 + rng.IntN(3)
	shoppingEnd := (shoppingStart + 1 + rng.IntN(2)) % 24
	return Schedule{
		WorkStart:     workStart,
		WorkEnd:       workEnd,
		ShoppingStart: shoppingStart,
		ShoppingEnd:   shoppingEnd,
	}
}
