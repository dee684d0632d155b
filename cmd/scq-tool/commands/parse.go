// Package commands implements the scq-tool CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/scq-protocol/scq-go/pkg/log"
	"github.com/scq-protocol/scq-go/pkg/model"
)

// ParseSoundModes parses "ambient,noiseCanceling,transparency[,strength]",
// e.g. "noise-canceling,custom,vocal-mode,5". Names match case-insensitively.
func ParseSoundModes(s string, limits model.NoiseCancelingLimits) (model.SoundModes, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return model.SoundModes{}, fmt.Errorf("invalid sound modes %q (want ambient,noiseCanceling,transparency[,strength])", s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	ambient, err := model.ParseAmbientSoundModeName(parts[0])
	if err != nil {
		return model.SoundModes{}, err
	}
	nc, err := model.ParseNoiseCancelingModeName(parts[1])
	if err != nil {
		return model.SoundModes{}, err
	}
	transparency, err := model.ParseTransparencyModeName(parts[2])
	if err != nil {
		return model.SoundModes{}, err
	}

	var custom model.CustomNoiseCanceling
	if len(parts) == 4 {
		n, err := strconv.Atoi(parts[3])
		if err != nil {
			return model.SoundModes{}, fmt.Errorf("invalid strength %q: %w", parts[3], err)
		}
		if custom, err = limits.NewCustomNoiseCanceling(n); err != nil {
			return model.SoundModes{}, err
		}
	}

	return model.NewSoundModes(ambient, nc, transparency, custom), nil
}

// ParseEqualizer parses a preset name ("TrebleReducer") or a comma
// separated list of band offsets in tenths of dB ("-60,60,23,40,22,60,-4,16").
func ParseEqualizer(s string, limits model.EqualizerLimits) (model.EqualizerConfiguration, error) {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, ",0123456789") {
		p, err := model.ParsePresetName(s)
		if err != nil {
			return model.EqualizerConfiguration{}, err
		}
		return model.EqualizerConfigurationFromPreset(p), nil
	}

	fields := strings.Split(s, ",")
	values := make([]int16, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 16)
		if err != nil {
			return model.EqualizerConfiguration{}, fmt.Errorf("invalid band offset %q: %w", f, err)
		}
		values[i] = int16(v)
	}

	offsets, err := limits.NewBandOffsets(values)
	if err != nil {
		return model.EqualizerConfiguration{}, err
	}
	return model.EqualizerConfigurationFromOffsets(offsets), nil
}

// ParseHex decodes hex bytes, ignoring whitespace, colons and a 0x prefix.
func ParseHex(s string) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", "\t", "", "\n", "", ":", "", "0x", "").Replace(strings.ToLower(s))
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return b, nil
}

// ParseLayerFlag parses a layer string from command-line flag (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "codec":
		return log.LayerCodec, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport or codec)", s)
	}
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	c, ok := log.ParseCategory(strings.ToUpper(s))
	if !ok {
		return 0, fmt.Errorf("invalid category: %s (must be packet, ack, state, or error)", s)
	}
	return c, nil
}
