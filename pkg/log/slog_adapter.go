package log

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see packets in the console.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter creates a SlogAdapter that writes to the given slog.Logger
// at Debug level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter that logs at level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

// Log writes the event to the slog logger. Error events are logged at Warn
// level or above.
func (a *SlogAdapter) Log(event Event) {
	level := a.level
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.Model != "" {
		attrs = append(attrs, slog.String("model", event.Model))
	}

	switch {
	case event.Packet != nil:
		attrs = append(attrs,
			slog.String("command", event.Packet.Command),
			slog.Int("size", event.Packet.Size),
			slog.String("data", fmt.Sprintf("% x", event.Packet.Data)),
		)
		if event.Packet.Truncated {
			attrs = append(attrs, slog.Bool("truncated", true))
		}
	case event.State != nil:
		s := event.State
		attrs = append(attrs, slog.String("command", s.Command))
		if s.AmbientSoundMode != "" {
			attrs = append(attrs,
				slog.String("ambient", s.AmbientSoundMode),
				slog.String("noise_canceling", s.NoiseCancelingMode),
				slog.String("transparency", s.TransparencyMode),
			)
		}
		if s.CustomNoiseCanceling != nil {
			attrs = append(attrs, slog.Int("custom_noise_canceling", int(*s.CustomNoiseCanceling)))
		}
		if s.EqualizerProfile != "" {
			attrs = append(attrs,
				slog.String("equalizer", s.EqualizerProfile),
				slog.Any("band_offsets", s.BandOffsets),
			)
		}
		if s.Firmware != "" {
			attrs = append(attrs, slog.String("firmware", s.Firmware))
		}
		if s.Serial != "" {
			attrs = append(attrs, slog.String("serial", s.Serial))
		}
	case event.Error != nil:
		if level < slog.LevelWarn {
			level = slog.LevelWarn
		}
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "protocol", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
