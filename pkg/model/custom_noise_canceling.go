package model

import "fmt"

// DefaultCustomNoiseCancelingMax is the highest custom noise canceling
// strength accepted by most devices.
const DefaultCustomNoiseCancelingMax uint8 = 10

// NoiseCancelingLimits describes the custom noise canceling range of a device.
// Strengths range from 0 to Max inclusive.
type NoiseCancelingLimits struct {
	Max uint8
}

// DefaultNoiseCancelingLimits is used when no device profile is involved.
var DefaultNoiseCancelingLimits = NoiseCancelingLimits{Max: DefaultCustomNoiseCancelingMax}

// CustomNoiseCanceling is the user adjustable noise canceling strength used
// when the noise canceling mode is Custom.
type CustomNoiseCanceling struct {
	strength uint8
}

// NewCustomNoiseCanceling validates strength against DefaultNoiseCancelingLimits.
func NewCustomNoiseCanceling(strength int) (CustomNoiseCanceling, error) {
	return DefaultNoiseCancelingLimits.NewCustomNoiseCanceling(strength)
}

// NewCustomNoiseCanceling validates strength against l.
func (l NoiseCancelingLimits) NewCustomNoiseCanceling(strength int) (CustomNoiseCanceling, error) {
	if strength < 0 || strength > int(l.Max) {
		return CustomNoiseCanceling{}, fmt.Errorf("%w: %d not in 0..%d", ErrStrengthOutOfRange, strength, l.Max)
	}
	return CustomNoiseCanceling{strength: uint8(strength)}, nil
}

// Contains returns true if c is within l.
func (l NoiseCancelingLimits) Contains(c CustomNoiseCanceling) bool {
	return c.strength <= l.Max
}

// Strength returns the strength value.
func (c CustomNoiseCanceling) Strength() uint8 {
	return c.strength
}

// String returns the strength as a decimal number.
func (c CustomNoiseCanceling) String() string {
	return fmt.Sprintf("%d", c.strength)
}
