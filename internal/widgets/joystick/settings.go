package joystick

import (
	"fmt"
	"math"

	"github.com/phinze/gamepads/internal/widget"
)

const (
	// DefaultMaxDistance is the default throw radius in pixels.
	DefaultMaxDistance = 60
	// DefaultTopSpeed is the default speed reported at full throw.
	DefaultTopSpeed = 200
)

// Settings configures a Joystick.
type Settings struct {
	// MaxDistance is the radius at which the stick is fully deflected.
	MaxDistance float64

	// TopSpeed is the speed reported at full deflection.
	TopSpeed float64

	// SingleDirection restricts output to the four cardinal directions.
	SingleDirection bool

	// Float makes the anchor follow a finger dragged past MaxDistance.
	Float bool

	// Analog scales speed with deflection. When false, speed is TopSpeed
	// along the stick angle once past the dead zone.
	Analog bool
}

// DefaultSettings returns a floating analog stick with a 60px throw.
func DefaultSettings() Settings {
	return Settings{
		MaxDistance: DefaultMaxDistance,
		TopSpeed:    DefaultTopSpeed,
		Float:       true,
		Analog:      true,
	}
}

// Validate rejects settings the per-frame math cannot work with.
func (s Settings) Validate() error {
	if !(s.MaxDistance > 0) || math.IsInf(s.MaxDistance, 0) {
		return fmt.Errorf("%w: max distance must be a positive number, got %v", widget.ErrInvalidConfig, s.MaxDistance)
	}
	if !(s.TopSpeed >= 0) || math.IsInf(s.TopSpeed, 0) {
		return fmt.Errorf("%w: top speed must not be negative, got %v", widget.ErrInvalidConfig, s.TopSpeed)
	}
	return nil
}
