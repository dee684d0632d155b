package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualizerConfigurationFromPreset(t *testing.T) {
	for _, p := range AllPresetEqualizerProfiles() {
		t.Run(p.String(), func(t *testing.T) {
			c := EqualizerConfigurationFromPreset(p)

			assert.Equal(t, p.BandOffsets(), c.BandOffsets())
			assert.Equal(t, p.ID(), c.ProfileID())
			assert.False(t, c.IsCustom())

			got, ok := c.PresetProfile()
			assert.True(t, ok)
			assert.Equal(t, p, got)
		})
	}
}

func TestEqualizerConfigurationFromOffsets(t *testing.T) {
	o, err := NewEqualizerBandOffsets(-60, 60, 23, 40, 22, 60, -4, 16)
	require.NoError(t, err)

	c := EqualizerConfigurationFromOffsets(o)
	assert.Equal(t, o, c.BandOffsets())
	assert.Equal(t, CustomProfileID, c.ProfileID())
	assert.True(t, c.IsCustom())

	_, ok := c.PresetProfile()
	assert.False(t, ok)
}

func TestCustomOffsetsMatchingPresetStayCustom(t *testing.T) {
	c := EqualizerConfigurationFromOffsets(PresetAcoustic.BandOffsets())

	_, ok := c.PresetProfile()
	assert.False(t, ok)
	assert.Equal(t, CustomProfileID, c.ProfileID())
	assert.False(t, c.Equal(EqualizerConfigurationFromPreset(PresetAcoustic)))
}

func TestPresetTableValues(t *testing.T) {
	assert.Equal(t, []int16{0, 0, 0, -20, -30, -40, -40, -60}, PresetTrebleReducer.BandOffsets().Values())
	assert.Equal(t, []int16{40, 10, 20, 20, 40, 40, 40, 20}, PresetAcoustic.BandOffsets().Values())
	assert.Equal(t, uint16(0x15), PresetTrebleReducer.ID())
}

func TestPresetTablesAreDistinct(t *testing.T) {
	seen := make(map[EqualizerBandOffsets]PresetEqualizerProfile)
	for _, p := range AllPresetEqualizerProfiles() {
		o := p.BandOffsets()
		if other, ok := seen[o]; ok {
			t.Errorf("%s and %s share the same curve", p, other)
		}
		seen[o] = p
		assert.True(t, DefaultEqualizerLimits.Contains(o), "%s outside default limits", p)
	}
	assert.Len(t, seen, 22)
}

func TestParsePresetEqualizerProfile(t *testing.T) {
	p, err := ParsePresetEqualizerProfile(0x0a)
	require.NoError(t, err)
	assert.Equal(t, PresetHipHop, p)

	_, err = ParsePresetEqualizerProfile(0x16)
	assert.ErrorIs(t, err, ErrInvalidEnumValue)

	_, err = ParsePresetEqualizerProfile(CustomProfileID)
	assert.ErrorIs(t, err, ErrInvalidEnumValue)

	p, err = ParsePresetName("treble-reducer")
	require.NoError(t, err)
	assert.Equal(t, PresetTrebleReducer, p)

	_, err = ParsePresetName("loudness")
	assert.ErrorIs(t, err, ErrInvalidEnumValue)
}

func TestEqualizerConfigurationBandOffsetsFor(t *testing.T) {
	c := EqualizerConfigurationFromPreset(PresetRock)

	wide, err := c.BandOffsetsFor(10)
	require.NoError(t, err)
	assert.Equal(t, []int16{30, 20, -10, -10, 10, 30, 30, 30, 0, 0}, wide.Values())

	same, err := c.BandOffsetsFor(8)
	require.NoError(t, err)
	assert.Equal(t, c.BandOffsets(), same)

	narrow, err := c.BandOffsetsFor(6)
	require.NoError(t, err)
	assert.Equal(t, []int16{30, 20, -10, -10, 10, 30}, narrow.Values())

	custom := EqualizerConfigurationFromOffsets(PresetRock.BandOffsets())
	_, err = custom.BandOffsetsFor(10)
	assert.ErrorIs(t, err, ErrBandCountMismatch)

	_, err = c.BandOffsetsFor(11)
	assert.ErrorIs(t, err, ErrBandCountMismatch)

	extended, err := EqualizerConfigurationFromPresetWithExtraBands(PresetRock, 15)
	require.NoError(t, err)
	_, err = extended.BandOffsetsFor(8)
	assert.ErrorIs(t, err, ErrBandCountMismatch)
}

func TestEqualizerConfigurationExtraBands(t *testing.T) {
	plain := EqualizerConfigurationFromPreset(PresetJazz)
	assert.Empty(t, plain.ExtraBands())

	zeros, err := EqualizerConfigurationFromPresetWithExtraBands(PresetJazz, 0, 0)
	require.NoError(t, err)
	assert.True(t, zeros.Equal(plain))
	assert.Equal(t, plain, zeros)

	extra, err := EqualizerConfigurationFromPresetWithExtraBands(PresetJazz, 10, 0)
	require.NoError(t, err)
	assert.False(t, extra.Equal(plain))
	assert.Equal(t, []int16{10}, extra.ExtraBands())
	assert.Equal(t, PresetJazz.ID(), extra.ProfileID())
	p, ok := extra.PresetProfile()
	assert.True(t, ok)
	assert.Equal(t, PresetJazz, p)

	offsets, err := extra.BandOffsetsFor(10)
	require.NoError(t, err)
	assert.Equal(t, append(PresetJazz.BandOffsets().Values(), 10, 0), offsets.Values())

	_, err = EqualizerConfigurationFromPresetWithExtraBands(PresetJazz, 1, 2, 3)
	assert.ErrorIs(t, err, ErrBandCountMismatch)

	assert.Empty(t, EqualizerConfigurationFromOffsets(PresetJazz.BandOffsets()).ExtraBands())
}

func TestEqualizerConfigurationString(t *testing.T) {
	assert.Equal(t, "SoundcoreSignature [+0.0 +0.0 +0.0 +0.0 +0.0 +0.0 +0.0 +0.0]",
		EqualizerConfigurationFromPreset(PresetSoundcoreSignature).String())
}
