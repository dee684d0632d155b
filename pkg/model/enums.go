package model

import (
	"fmt"
	"strings"
)

// AmbientSoundMode selects how the device treats outside sound.
type AmbientSoundMode uint8

const (
	// AmbientSoundModeNoiseCanceling suppresses outside sound.
	AmbientSoundModeNoiseCanceling AmbientSoundMode = 0

	// AmbientSoundModeTransparency passes outside sound through.
	AmbientSoundModeTransparency AmbientSoundMode = 1

	// AmbientSoundModeNormal disables both noise canceling and transparency.
	AmbientSoundModeNormal AmbientSoundMode = 2
)

// ParseAmbientSoundMode converts a device code to an AmbientSoundMode.
func ParseAmbientSoundMode(code uint8) (AmbientSoundMode, error) {
	m := AmbientSoundMode(code)
	if !m.IsValid() {
		return 0, fmt.Errorf("%w: ambient sound mode %d", ErrInvalidEnumValue, code)
	}
	return m, nil
}

// Code returns the device code.
func (m AmbientSoundMode) Code() uint8 {
	return uint8(m)
}

// IsValid returns true if m is one of the defined modes.
func (m AmbientSoundMode) IsValid() bool {
	return m <= AmbientSoundModeNormal
}

// String returns the mode name.
func (m AmbientSoundMode) String() string {
	switch m {
	case AmbientSoundModeNoiseCanceling:
		return "NoiseCanceling"
	case AmbientSoundModeTransparency:
		return "Transparency"
	case AmbientSoundModeNormal:
		return "Normal"
	default:
		return "UNKNOWN"
	}
}

// AllAmbientSoundModes returns every ambient sound mode in code order.
func AllAmbientSoundModes() []AmbientSoundMode {
	return []AmbientSoundMode{
		AmbientSoundModeNoiseCanceling,
		AmbientSoundModeTransparency,
		AmbientSoundModeNormal,
	}
}

// ParseAmbientSoundModeName looks up an ambient sound mode by name.
// Matching ignores case, dashes and underscores ("noise-canceling").
func ParseAmbientSoundModeName(name string) (AmbientSoundMode, error) {
	for _, m := range AllAmbientSoundModes() {
		if normalizeName(m.String()) == normalizeName(name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: ambient sound mode %q", ErrInvalidEnumValue, name)
}

// NoiseCancelingMode selects the noise canceling profile used while the
// ambient sound mode is NoiseCanceling.
type NoiseCancelingMode uint8

const (
	// NoiseCancelingModeTransport is tuned for vehicle noise.
	NoiseCancelingModeTransport NoiseCancelingMode = 0

	// NoiseCancelingModeOutdoor is tuned for wind and street noise.
	NoiseCancelingModeOutdoor NoiseCancelingMode = 1

	// NoiseCancelingModeIndoor is tuned for voices and office noise.
	NoiseCancelingModeIndoor NoiseCancelingMode = 2

	// NoiseCancelingModeCustom uses the CustomNoiseCanceling strength.
	NoiseCancelingModeCustom NoiseCancelingMode = 3
)

// ParseNoiseCancelingMode converts a device code to a NoiseCancelingMode.
func ParseNoiseCancelingMode(code uint8) (NoiseCancelingMode, error) {
	m := NoiseCancelingMode(code)
	if !m.IsValid() {
		return 0, fmt.Errorf("%w: noise canceling mode %d", ErrInvalidEnumValue, code)
	}
	return m, nil
}

// Code returns the device code.
func (m NoiseCancelingMode) Code() uint8 {
	return uint8(m)
}

// IsValid returns true if m is one of the defined modes.
func (m NoiseCancelingMode) IsValid() bool {
	return m <= NoiseCancelingModeCustom
}

// String returns the mode name.
func (m NoiseCancelingMode) String() string {
	switch m {
	case NoiseCancelingModeTransport:
		return "Transport"
	case NoiseCancelingModeOutdoor:
		return "Outdoor"
	case NoiseCancelingModeIndoor:
		return "Indoor"
	case NoiseCancelingModeCustom:
		return "Custom"
	default:
		return "UNKNOWN"
	}
}

// AllNoiseCancelingModes returns every noise canceling mode in code order.
func AllNoiseCancelingModes() []NoiseCancelingMode {
	return []NoiseCancelingMode{
		NoiseCancelingModeTransport,
		NoiseCancelingModeOutdoor,
		NoiseCancelingModeIndoor,
		NoiseCancelingModeCustom,
	}
}

// ParseNoiseCancelingModeName looks up a noise canceling mode by name.
func ParseNoiseCancelingModeName(name string) (NoiseCancelingMode, error) {
	for _, m := range AllNoiseCancelingModes() {
		if normalizeName(m.String()) == normalizeName(name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: noise canceling mode %q", ErrInvalidEnumValue, name)
}

// TransparencyMode selects how outside sound is passed through while the
// ambient sound mode is Transparency.
type TransparencyMode uint8

const (
	// TransparencyModeFullyTransparent passes all outside sound.
	TransparencyModeFullyTransparent TransparencyMode = 0

	// TransparencyModeVocalMode emphasizes voices.
	TransparencyModeVocalMode TransparencyMode = 1
)

// ParseTransparencyMode converts a device code to a TransparencyMode.
func ParseTransparencyMode(code uint8) (TransparencyMode, error) {
	m := TransparencyMode(code)
	if !m.IsValid() {
		return 0, fmt.Errorf("%w: transparency mode %d", ErrInvalidEnumValue, code)
	}
	return m, nil
}

// Code returns the device code.
func (m TransparencyMode) Code() uint8 {
	return uint8(m)
}

// IsValid returns true if m is one of the defined modes.
func (m TransparencyMode) IsValid() bool {
	return m <= TransparencyModeVocalMode
}

// String returns the mode name.
func (m TransparencyMode) String() string {
	switch m {
	case TransparencyModeFullyTransparent:
		return "FullyTransparent"
	case TransparencyModeVocalMode:
		return "VocalMode"
	default:
		return "UNKNOWN"
	}
}

// AllTransparencyModes returns every transparency mode in code order.
func AllTransparencyModes() []TransparencyMode {
	return []TransparencyMode{
		TransparencyModeFullyTransparent,
		TransparencyModeVocalMode,
	}
}

// ParseTransparencyModeName looks up a transparency mode by name.
func ParseTransparencyModeName(name string) (TransparencyMode, error) {
	for _, m := range AllTransparencyModes() {
		if normalizeName(m.String()) == normalizeName(name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: transparency mode %q", ErrInvalidEnumValue, name)
}

func normalizeName(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}
