// Package model implements the device state model of Soundcore audio devices.
//
// # Value Types
//
// All types in this package are immutable values. They are validated when
// constructed and can be copied, compared with == and shared between
// goroutines without synchronization:
//
//	SoundModes
//	├── AmbientSoundMode      (NoiseCanceling, Transparency, Normal)
//	├── NoiseCancelingMode    (Transport, Outdoor, Indoor, Custom)
//	├── TransparencyMode      (FullyTransparent, VocalMode)
//	└── CustomNoiseCanceling  (strength, 0..10 by default)
//
//	EqualizerConfiguration
//	├── PresetEqualizerProfile (factory curve, optional)
//	└── EqualizerBandOffsets   (per-band gain in tenths of dB)
//
// # Codes
//
// Every enum is backed by the numeric code the device uses on the wire.
// Parse functions reject codes outside the closed set with
// ErrInvalidEnumValue; Code is total. Device-specific bounds (band count,
// offset range, noise canceling strength) are expressed by EqualizerLimits
// and NoiseCancelingLimits, which default to the values shared by most
// models.
//
// # Equalizer Provenance
//
// An EqualizerConfiguration remembers whether it was built from a preset or
// from raw offsets. PresetProfile reports the preset only for the former,
// even if custom offsets happen to equal a preset table.
package model
