package emotion

// Throttle is a count-based sampling cadence: Allow reports true on every
// Nth call. Classification is expensive, so the stabilizer only does real
// work on allowed ticks and repeats its last state on the rest.
type Throttle struct {
	every int
	calls int
}

func NewThrottle(every int) *Throttle {
	if every < 1 {
		every = 1
	}
	return &Throttle{every: every}
}

func (t *Throttle) Allow() bool {
	t.calls++
	return t.calls%t.every == 0
}
