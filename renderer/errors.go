package renderer

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration    = errors.New("renderer: configuration error")
	ErrDegenerateCamera = errors.New("renderer: degenerate camera state")
	ErrInvalidFrameSize = errors.New("renderer: invalid frame size")
	ErrClosed           = errors.New("renderer: renderer has been closed")
)

// Tag err as a fatal configuration fault.
func configError(err error) error {
	if errors.Is(err, ErrConfiguration) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrConfiguration, err)
}
