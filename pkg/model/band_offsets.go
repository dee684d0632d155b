package model

import (
	"fmt"
	"strings"
)

// Equalizer limits.
const (
	// MaxEqualizerBands is the largest band count any supported device uses.
	MaxEqualizerBands = 10

	// DefaultEqualizerBands is the band count of most devices.
	DefaultEqualizerBands = 8

	// DefaultMinBandOffset is the lowest offset in tenths of dB (-12.0 dB).
	DefaultMinBandOffset int16 = -120

	// DefaultMaxBandOffset is the highest offset in tenths of dB (+13.5 dB).
	// Offsets are sent as offset-Min in a single byte, so Max = Min + 255.
	DefaultMaxBandOffset int16 = 135
)

// EqualizerLimits describes the equalizer of a device model.
type EqualizerLimits struct {
	// Bands is the number of equalizer bands.
	Bands int

	// Min and Max bound each band offset, in tenths of dB.
	Min int16
	Max int16
}

// DefaultEqualizerLimits is used when no device profile is involved.
var DefaultEqualizerLimits = EqualizerLimits{
	Bands: DefaultEqualizerBands,
	Min:   DefaultMinBandOffset,
	Max:   DefaultMaxBandOffset,
}

// Validate checks that the limits describe a usable equalizer.
func (l EqualizerLimits) Validate() error {
	if l.Bands < 1 || l.Bands > MaxEqualizerBands {
		return fmt.Errorf("%w: %d bands not in 1..%d", ErrBandCountMismatch, l.Bands, MaxEqualizerBands)
	}
	if l.Min > l.Max {
		return fmt.Errorf("%w: min %d > max %d", ErrOffsetOutOfRange, l.Min, l.Max)
	}
	return nil
}

// EqualizerBandOffsets is an immutable sequence of per-band gain offsets in
// tenths of dB. Values are comparable with ==.
type EqualizerBandOffsets struct {
	values [MaxEqualizerBands]int16
	n      uint8
}

// NewEqualizerBandOffsets validates values against DefaultEqualizerLimits.
func NewEqualizerBandOffsets(values ...int16) (EqualizerBandOffsets, error) {
	return DefaultEqualizerLimits.NewBandOffsets(values)
}

// NewBandOffsets validates values against l. Exactly l.Bands values are
// required and each must lie within l.Min..l.Max.
func (l EqualizerLimits) NewBandOffsets(values []int16) (EqualizerBandOffsets, error) {
	if len(values) != l.Bands || l.Bands > MaxEqualizerBands {
		return EqualizerBandOffsets{}, fmt.Errorf("%w: got %d, want %d", ErrBandCountMismatch, len(values), l.Bands)
	}
	var o EqualizerBandOffsets
	for i, v := range values {
		if v < l.Min || v > l.Max {
			return EqualizerBandOffsets{}, fmt.Errorf("%w: band %d offset %d not in %d..%d",
				ErrOffsetOutOfRange, i, v, l.Min, l.Max)
		}
		o.values[i] = v
	}
	o.n = uint8(len(values))
	return o, nil
}

// Contains returns true if o has l.Bands bands that all lie within l.
func (l EqualizerLimits) Contains(o EqualizerBandOffsets) bool {
	if o.Len() != l.Bands {
		return false
	}
	for _, v := range o.values[:o.n] {
		if v < l.Min || v > l.Max {
			return false
		}
	}
	return true
}

// mustBandOffsets builds offsets from a static table. It is only used for
// preset tables, which are covered by tests.
func mustBandOffsets(values ...int16) EqualizerBandOffsets {
	var o EqualizerBandOffsets
	copy(o.values[:], values)
	o.n = uint8(len(values))
	return o
}

// Len returns the number of bands.
func (o EqualizerBandOffsets) Len() int {
	return int(o.n)
}

// At returns the offset of band i. It panics if i is out of range.
func (o EqualizerBandOffsets) At(i int) int16 {
	if i < 0 || i >= int(o.n) {
		panic(fmt.Sprintf("model: band index %d out of range [0,%d)", i, o.n))
	}
	return o.values[i]
}

// Values returns a copy of the offsets.
func (o EqualizerBandOffsets) Values() []int16 {
	out := make([]int16, o.n)
	copy(out, o.values[:o.n])
	return out
}

// Equal compares the offsets element by element.
func (o EqualizerBandOffsets) Equal(other EqualizerBandOffsets) bool {
	return o == other
}

// resize returns o truncated or zero-extended to n bands.
func (o EqualizerBandOffsets) resize(n int) EqualizerBandOffsets {
	out := o
	for i := n; i < MaxEqualizerBands; i++ {
		out.values[i] = 0
	}
	out.n = uint8(n)
	return out
}

// String returns the offsets in dB, e.g. "[+4.0 +1.0 -2.0]".
func (o EqualizerBandOffsets) String() string {
	parts := make([]string, o.n)
	for i, v := range o.values[:o.n] {
		parts[i] = fmt.Sprintf("%+.1f", float64(v)/10)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
