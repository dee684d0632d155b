package model

import "fmt"

// SoundModes is the combined ambient, noise canceling and transparency
// configuration of a device. All fields are mandatory; each constituent
// validates itself when constructed, so SoundModes adds no checks of its own.
type SoundModes struct {
	AmbientSoundMode     AmbientSoundMode
	NoiseCancelingMode   NoiseCancelingMode
	TransparencyMode     TransparencyMode
	CustomNoiseCanceling CustomNoiseCanceling
}

// NewSoundModes builds a SoundModes from its four constituents.
func NewSoundModes(
	ambient AmbientSoundMode,
	noiseCanceling NoiseCancelingMode,
	transparency TransparencyMode,
	custom CustomNoiseCanceling,
) SoundModes {
	return SoundModes{
		AmbientSoundMode:     ambient,
		NoiseCancelingMode:   noiseCanceling,
		TransparencyMode:     transparency,
		CustomNoiseCanceling: custom,
	}
}

// Equal compares all four fields.
func (s SoundModes) Equal(other SoundModes) bool {
	return s == other
}

// String returns a compact representation for logs and CLI output.
func (s SoundModes) String() string {
	return fmt.Sprintf("ambient=%s noiseCanceling=%s transparency=%s custom=%s",
		s.AmbientSoundMode, s.NoiseCancelingMode, s.TransparencyMode, s.CustomNoiseCanceling)
}

// PlanSoundModesTransition returns the states that must be sent, in order,
// to move a device from current to target. The result is empty when both are
// equal and otherwise always ends with target.
//
// Devices switch into noise canceling without updating the reported ambient
// sound mode if the noise canceling mode changes while another ambient mode
// is active. The plan therefore passes through NoiseCanceling first and
// restores the target ambient mode last.
func PlanSoundModesTransition(current, target SoundModes) []SoundModes {
	if current == target {
		return nil
	}

	needsNoiseCanceling := current.AmbientSoundMode != AmbientSoundModeNoiseCanceling &&
		current.NoiseCancelingMode != target.NoiseCancelingMode

	var steps []SoundModes
	if needsNoiseCanceling {
		step := current
		step.AmbientSoundMode = AmbientSoundModeNoiseCanceling
		steps = append(steps, step)
	}

	step := target
	if needsNoiseCanceling {
		step.AmbientSoundMode = AmbientSoundModeNoiseCanceling
	}
	steps = append(steps, step)

	if step != target {
		steps = append(steps, target)
	}
	return steps
}
