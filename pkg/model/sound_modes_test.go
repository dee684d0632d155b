package model

import (
	"errors"
	"testing"
)

func mustCustom(t *testing.T, v int) CustomNoiseCanceling {
	t.Helper()
	c, err := NewCustomNoiseCanceling(v)
	if err != nil {
		t.Fatalf("NewCustomNoiseCanceling(%d) failed: %v", v, err)
	}
	return c
}

func TestCustomNoiseCanceling(t *testing.T) {
	c := mustCustom(t, 3)
	if c.Strength() != 3 {
		t.Errorf("Strength() = %d, want 3", c.Strength())
	}

	for _, v := range []int{-1, 11, 99} {
		if _, err := NewCustomNoiseCanceling(v); !errors.Is(err, ErrStrengthOutOfRange) {
			t.Errorf("NewCustomNoiseCanceling(%d): expected ErrStrengthOutOfRange, got %v", v, err)
		}
	}
}

func TestCustomNoiseCancelingDeviceLimits(t *testing.T) {
	limits := NoiseCancelingLimits{Max: 5}

	if _, err := limits.NewCustomNoiseCanceling(5); err != nil {
		t.Errorf("strength 5 should be valid: %v", err)
	}
	if _, err := limits.NewCustomNoiseCanceling(6); !errors.Is(err, ErrStrengthOutOfRange) {
		t.Errorf("expected ErrStrengthOutOfRange, got %v", err)
	}
	if limits.Contains(mustCustom(t, 8)) {
		t.Error("strength 8 should not fit 0..5")
	}
}

func TestSoundModesEquality(t *testing.T) {
	base := NewSoundModes(AmbientSoundModeNormal, NoiseCancelingModeIndoor, TransparencyModeVocalMode, mustCustom(t, 2))
	same := NewSoundModes(AmbientSoundModeNormal, NoiseCancelingModeIndoor, TransparencyModeVocalMode, mustCustom(t, 2))

	if !base.Equal(same) {
		t.Error("identical sound modes should be equal")
	}

	variants := []SoundModes{
		NewSoundModes(AmbientSoundModeTransparency, NoiseCancelingModeIndoor, TransparencyModeVocalMode, mustCustom(t, 2)),
		NewSoundModes(AmbientSoundModeNormal, NoiseCancelingModeOutdoor, TransparencyModeVocalMode, mustCustom(t, 2)),
		NewSoundModes(AmbientSoundModeNormal, NoiseCancelingModeIndoor, TransparencyModeFullyTransparent, mustCustom(t, 2)),
		NewSoundModes(AmbientSoundModeNormal, NoiseCancelingModeIndoor, TransparencyModeVocalMode, mustCustom(t, 3)),
	}
	for i, v := range variants {
		if base.Equal(v) {
			t.Errorf("variant %d differs in one field but compared equal", i)
		}
	}
}

func TestPlanSoundModesTransition(t *testing.T) {
	c0 := mustCustom(t, 0)
	c5 := mustCustom(t, 5)

	tests := []struct {
		name    string
		current SoundModes
		target  SoundModes
		want    []SoundModes
	}{
		{
			name:    "no change",
			current: NewSoundModes(AmbientSoundModeNormal, NoiseCancelingModeIndoor, TransparencyModeVocalMode, c0),
			target:  NewSoundModes(AmbientSoundModeNormal, NoiseCancelingModeIndoor, TransparencyModeVocalMode, c0),
			want:    nil,
		},
		{
			name:    "ambient only",
			current: NewSoundModes(AmbientSoundModeNormal, NoiseCancelingModeIndoor, TransparencyModeVocalMode, c0),
			target:  NewSoundModes(AmbientSoundModeTransparency, NoiseCancelingModeIndoor, TransparencyModeVocalMode, c0),
			want: []SoundModes{
				NewSoundModes(AmbientSoundModeTransparency, NoiseCancelingModeIndoor, TransparencyModeVocalMode, c0),
			},
		},
		{
			name:    "noise canceling mode while already canceling",
			current: NewSoundModes(AmbientSoundModeNoiseCanceling, NoiseCancelingModeIndoor, TransparencyModeVocalMode, c0),
			target:  NewSoundModes(AmbientSoundModeNoiseCanceling, NoiseCancelingModeCustom, TransparencyModeVocalMode, c5),
			want: []SoundModes{
				NewSoundModes(AmbientSoundModeNoiseCanceling, NoiseCancelingModeCustom, TransparencyModeVocalMode, c5),
			},
		},
		{
			name:    "noise canceling mode while normal",
			current: NewSoundModes(AmbientSoundModeNormal, NoiseCancelingModeIndoor, TransparencyModeVocalMode, c0),
			target:  NewSoundModes(AmbientSoundModeNormal, NoiseCancelingModeOutdoor, TransparencyModeFullyTransparent, c0),
			want: []SoundModes{
				NewSoundModes(AmbientSoundModeNoiseCanceling, NoiseCancelingModeIndoor, TransparencyModeVocalMode, c0),
				NewSoundModes(AmbientSoundModeNoiseCanceling, NoiseCancelingModeOutdoor, TransparencyModeFullyTransparent, c0),
				NewSoundModes(AmbientSoundModeNormal, NoiseCancelingModeOutdoor, TransparencyModeFullyTransparent, c0),
			},
		},
		{
			name:    "switch into noise canceling with new mode",
			current: NewSoundModes(AmbientSoundModeTransparency, NoiseCancelingModeIndoor, TransparencyModeVocalMode, c0),
			target:  NewSoundModes(AmbientSoundModeNoiseCanceling, NoiseCancelingModeTransport, TransparencyModeVocalMode, c0),
			want: []SoundModes{
				NewSoundModes(AmbientSoundModeNoiseCanceling, NoiseCancelingModeIndoor, TransparencyModeVocalMode, c0),
				NewSoundModes(AmbientSoundModeNoiseCanceling, NoiseCancelingModeTransport, TransparencyModeVocalMode, c0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanSoundModesTransition(tt.current, tt.target)
			if len(got) != len(tt.want) {
				t.Fatalf("plan has %d steps, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("step %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
			if len(got) > 0 && got[len(got)-1] != tt.target {
				t.Errorf("plan does not end at target")
			}
		})
	}
}
