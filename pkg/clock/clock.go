// Package clock tracks simulated hours and days from elapsed frame time.
package clock

// Clock advances one simulated hour each time HourLength seconds of frame
// time have accumulated. Hours run 0..23 and the day counter starts at 1.
type Clock struct {
	hourLength  float64
	accumulator float64
	hour        int
	day         int
	hourChanged bool
}

// New returns a clock at hour 0 of day 1.
func New(hourLength float64) *Clock {
	return &Clock{hourLength: hourLength, day: 1}
}

// Advance adds dt seconds of frame time. At most one hour passes per call and
// the accumulator restarts from zero when it does.
func (c *Clock) Advance(dt float64) {
	c.accumulator += dt
	if c.accumulator >= c.hourLength {
		c.hour = (c.hour + 1) % 24
		if c.hour == 0 {
			c.day++
		}
		c.accumulator = 0
		c.hourChanged = true
	}
}

// ConsumeHourChanged reports whether an hour passed since the last call.
func (c *Clock) ConsumeHourChanged() bool {
	if c.hourChanged {
		c.hourChanged = false
		return true
	}
	return false
}

// SetHourLength changes the hour length. It is compared against on the next Advance.
func (c *Clock) SetHourLength(seconds float64) {
	c.hourLength = seconds
}

func (c *Clock) Hour() int { return c.hour }
func (c *Clock) Day() int { return c.day }
func (c *Clock) HourLength() float64 { return c.hourLength }

// FramesPerHour returns the number of whole frames in one simulated hour at
// the given frame rate, rounded up.
func FramesPerHour(hourLength, frameRate float64) int {
	n := hourLength * frameRate
	whole := int(n)
	if float64(whole) < n {
		whole++
	}
	return whole
}
