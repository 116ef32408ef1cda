package renderer

import "fmt"

// Bounds and defaults for the user-tunable render settings.
const (
	MinBounceCount     = 1
	MaxBounceCount     = 500
	DefaultBounceCount = 30

	MinRaysPerPixel     = 1
	MaxRaysPerPixel     = 300
	DefaultRaysPerPixel = 10
)

// The SettingsSource interface is implemented by the collaborator that
// owns the user-tunable settings. Values are expected to be within bounds;
// the renderer does not validate them.
type SettingsSource interface {
	MaxBounceCount() int
	RaysPerPixel() int
}

// User-tunable render settings.
type Settings struct {
	// Max number of bounces per traced path.
	Bounces int

	// Number of traced paths per pixel and frame.
	Rays int
}

// Create settings populated with the default values.
func DefaultSettings() *Settings {
	return &Settings{
		Bounces: DefaultBounceCount,
		Rays:    DefaultRaysPerPixel,
	}
}

func (s *Settings) MaxBounceCount() int {
	return s.Bounces
}

func (s *Settings) RaysPerPixel() int {
	return s.Rays
}

// Check that the settings are within bounds.
func (s *Settings) Validate() error {
	if s.Bounces < MinBounceCount || s.Bounces > MaxBounceCount {
		return fmt.Errorf("renderer: bounce count %d outside of range [%d, %d]", s.Bounces, MinBounceCount, MaxBounceCount)
	}
	if s.Rays < MinRaysPerPixel || s.Rays > MaxRaysPerPixel {
		return fmt.Errorf("renderer: rays per pixel %d outside of range [%d, %d]", s.Rays, MinRaysPerPixel, MaxRaysPerPixel)
	}
	return nil
}

// Change the bounce count by delta, clamping the result to the valid range.
func (s *Settings) AdjustBounces(delta int) {
	s.Bounces = clamp(s.Bounces+delta, MinBounceCount, MaxBounceCount)
}

// Change the rays per pixel by delta, clamping the result to the valid range.
func (s *Settings) AdjustRays(delta int) {
	s.Rays = clamp(s.Rays+delta, MinRaysPerPixel, MaxRaysPerPixel)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
