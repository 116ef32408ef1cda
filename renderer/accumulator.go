package renderer

// The AccumulationCounter tracks the number of consecutive frames that
// contribute to the running average since the last scene change. Its
// value is never less than 1.
type AccumulationCounter struct {
	value uint32
}

func NewAccumulationCounter() *AccumulationCounter {
	return &AccumulationCounter{value: 1}
}

// Advance the counter by one frame. A scene change restarts accumulation.
func (ac *AccumulationCounter) Tick(sceneChanged bool) uint32 {
	if sceneChanged {
		ac.value = 1
	} else {
		ac.value++
	}
	return ac.value
}

// Get the current value.
func (ac *AccumulationCounter) Value() uint32 {
	return ac.value
}

// Restart accumulation.
func (ac *AccumulationCounter) Reset() {
	ac.value = 1
}
