package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEqualizerBandOffsets(t *testing.T) {
	o, err := NewEqualizerBandOffsets(-120, -60, 0, 10, 20, 60, 100, 135)
	require.NoError(t, err)

	assert.Equal(t, 8, o.Len())
	assert.Equal(t, int16(-120), o.At(0))
	assert.Equal(t, int16(135), o.At(7))
	assert.Equal(t, []int16{-120, -60, 0, 10, 20, 60, 100, 135}, o.Values())
}

func TestNewEqualizerBandOffsetsOutOfRange(t *testing.T) {
	_, err := NewEqualizerBandOffsets(0, 0, 0, 136, 0, 0, 0, 0)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)

	_, err = NewEqualizerBandOffsets(0, 0, 0, 0, 0, 0, 0, -121)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
}

func TestNewEqualizerBandOffsetsWrongCount(t *testing.T) {
	_, err := NewEqualizerBandOffsets(0, 0, 0)
	assert.ErrorIs(t, err, ErrBandCountMismatch)

	_, err = NewEqualizerBandOffsets(make([]int16, 9)...)
	assert.ErrorIs(t, err, ErrBandCountMismatch)
}

func TestEqualizerLimitsCustomDevice(t *testing.T) {
	limits := EqualizerLimits{Bands: 10, Min: -60, Max: 60}
	require.NoError(t, limits.Validate())

	o, err := limits.NewBandOffsets([]int16{-60, 0, 0, 0, 0, 0, 0, 0, 0, 60})
	require.NoError(t, err)
	assert.Equal(t, 10, o.Len())
	assert.True(t, limits.Contains(o))
	assert.False(t, DefaultEqualizerLimits.Contains(o))

	_, err = limits.NewBandOffsets([]int16{-61, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
}

func TestEqualizerLimitsValidate(t *testing.T) {
	assert.ErrorIs(t, EqualizerLimits{Bands: 0, Min: 0, Max: 1}.Validate(), ErrBandCountMismatch)
	assert.ErrorIs(t, EqualizerLimits{Bands: 11, Min: 0, Max: 1}.Validate(), ErrBandCountMismatch)
	assert.ErrorIs(t, EqualizerLimits{Bands: 8, Min: 5, Max: 1}.Validate(), ErrOffsetOutOfRange)
}

func TestEqualizerBandOffsetsEquality(t *testing.T) {
	a, _ := NewEqualizerBandOffsets(1, 2, 3, 4, 5, 6, 7, 8)
	b, _ := NewEqualizerBandOffsets(1, 2, 3, 4, 5, 6, 7, 8)
	c, _ := NewEqualizerBandOffsets(1, 2, 3, 4, 5, 6, 7, 9)

	assert.True(t, a.Equal(b))
	assert.True(t, a == b)
	assert.False(t, a.Equal(c))
}

func TestEqualizerBandOffsetsValuesIsCopy(t *testing.T) {
	o, _ := NewEqualizerBandOffsets(1, 2, 3, 4, 5, 6, 7, 8)
	v := o.Values()
	v[0] = 100
	assert.Equal(t, int16(1), o.At(0))
}

func TestEqualizerBandOffsetsAtPanics(t *testing.T) {
	o, _ := NewEqualizerBandOffsets(1, 2, 3, 4, 5, 6, 7, 8)
	assert.Panics(t, func() { o.At(8) })
	assert.Panics(t, func() { o.At(-1) })
}

func TestEqualizerBandOffsetsString(t *testing.T) {
	o, _ := NewEqualizerBandOffsets(40, -15, 0, 0, 0, 0, 0, 135)
	assert.Equal(t, "[+4.0 -1.5 +0.0 +0.0 +0.0 +0.0 +0.0 +13.5]", o.String())
}
