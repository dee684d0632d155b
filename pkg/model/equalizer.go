package model

import "fmt"

// CustomProfileID is the profile id devices report for custom offsets.
const CustomProfileID uint16 = 0xfefe

// EqualizerConfiguration is either a preset profile or a custom set of band
// offsets. Band offsets are always available; the preset is only reported
// when the configuration was built from one.
type EqualizerConfiguration struct {
	preset    PresetEqualizerProfile
	hasPreset bool
	offsets   EqualizerBandOffsets
}

// EqualizerConfigurationFromPreset resolves a preset to its fixed curve.
func EqualizerConfigurationFromPreset(p PresetEqualizerProfile) EqualizerConfiguration {
	return EqualizerConfiguration{
		preset:    p,
		hasPreset: true,
		offsets:   p.BandOffsets(),
	}
}

// EqualizerConfigurationFromPresetWithExtraBands resolves a preset for a
// device with more bands than the preset curve. extra holds the offsets of
// the bands past the curve. Trailing zeros are dropped, so a preset whose
// extra bands are all zero equals the plain preset.
func EqualizerConfigurationFromPresetWithExtraBands(p PresetEqualizerProfile, extra ...int16) (EqualizerConfiguration, error) {
	c := EqualizerConfigurationFromPreset(p)
	for len(extra) > 0 && extra[len(extra)-1] == 0 {
		extra = extra[:len(extra)-1]
	}
	n := c.offsets.Len() + len(extra)
	if n > MaxEqualizerBands {
		return EqualizerConfiguration{}, fmt.Errorf("%w: %s with %d extra bands exceeds %d",
			ErrBandCountMismatch, p, len(extra), MaxEqualizerBands)
	}
	copy(c.offsets.values[c.offsets.n:], extra)
	c.offsets.n = uint8(n)
	return c, nil
}

// EqualizerConfigurationFromOffsets builds a custom configuration.
func EqualizerConfigurationFromOffsets(o EqualizerBandOffsets) EqualizerConfiguration {
	return EqualizerConfiguration{offsets: o}
}

// ProfileID returns the preset id, or CustomProfileID for custom offsets.
func (c EqualizerConfiguration) ProfileID() uint16 {
	if c.hasPreset {
		return c.preset.ID()
	}
	return CustomProfileID
}

// PresetProfile returns the preset the configuration was built from.
// The second result is false for custom configurations, even when the
// offsets equal a preset curve.
func (c EqualizerConfiguration) PresetProfile() (PresetEqualizerProfile, bool) {
	return c.preset, c.hasPreset
}

// IsCustom returns true if the configuration was built from raw offsets.
func (c EqualizerConfiguration) IsCustom() bool {
	return !c.hasPreset
}

// BandOffsets returns the concrete offsets.
func (c EqualizerConfiguration) BandOffsets() EqualizerBandOffsets {
	return c.offsets
}

// BandOffsetsFor returns the offsets to send to a device with n bands.
// Preset curves are zero-extended or cut to n bands, but extra bands past n
// cannot be dropped. Custom offsets must already have n bands.
func (c EqualizerConfiguration) BandOffsetsFor(n int) (EqualizerBandOffsets, error) {
	if n < 1 || n > MaxEqualizerBands {
		return EqualizerBandOffsets{}, fmt.Errorf("%w: %d bands not in 1..%d", ErrBandCountMismatch, n, MaxEqualizerBands)
	}
	if c.offsets.Len() == n {
		return c.offsets, nil
	}
	if !c.hasPreset {
		return EqualizerBandOffsets{}, fmt.Errorf("%w: custom offsets have %d bands, want %d",
			ErrBandCountMismatch, c.offsets.Len(), n)
	}
	if extra := len(c.ExtraBands()); extra > 0 && n < c.offsets.Len() {
		return EqualizerBandOffsets{}, fmt.Errorf("%w: %s with %d extra bands does not fit %d bands",
			ErrBandCountMismatch, c.preset, extra, n)
	}
	return c.offsets.resize(n), nil
}

// ExtraBands returns the offsets of a preset configuration past the preset
// curve. It is empty for custom configurations.
func (c EqualizerConfiguration) ExtraBands() []int16 {
	if !c.hasPreset {
		return nil
	}
	curve := c.preset.BandOffsets().Len()
	return c.offsets.Values()[curve:]
}

// Equal compares provenance and offsets.
func (c EqualizerConfiguration) Equal(other EqualizerConfiguration) bool {
	return c == other
}

// String returns the preset name or "Custom" followed by the offsets.
func (c EqualizerConfiguration) String() string {
	if c.hasPreset {
		return fmt.Sprintf("%s %s", c.preset, c.offsets)
	}
	return fmt.Sprintf("Custom %s", c.offsets)
}
