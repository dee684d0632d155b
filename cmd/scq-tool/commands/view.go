package commands

import (
	"fmt"
	"io"

	"github.com/scq-protocol/scq-go/pkg/log"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session:id] DIRECTION LAYER CATEGORY model
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	header := fmt.Sprintf("%s [session:%s] %-3s %s %s",
		ts, shortenSessionID(event.SessionID), event.Direction, event.Layer, event.Category)
	if event.Model != "" {
		header += " " + event.Model
	}
	fmt.Fprintln(w, header)

	switch {
	case event.Packet != nil:
		formatPacketDetails(w, event.Packet)
	case event.State != nil:
		formatStateDetails(w, event.State)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatPacketDetails(w io.Writer, p *log.PacketEvent) {
	fmt.Fprintf(w, "  Command: %s\n", p.Command)
	fmt.Fprintf(w, "  Size: %d bytes\n", p.Size)
	if len(p.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", FormatHex(p.Data))
		if p.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatStateDetails(w io.Writer, s *log.StateEvent) {
	fmt.Fprintf(w, "  Command: %s\n", s.Command)
	if s.AmbientSoundMode != "" {
		fmt.Fprintf(w, "  Ambient: %s  NoiseCanceling: %s  Transparency: %s",
			s.AmbientSoundMode, s.NoiseCancelingMode, s.TransparencyMode)
		if s.CustomNoiseCanceling != nil {
			fmt.Fprintf(w, "  Custom: %d", *s.CustomNoiseCanceling)
		}
		fmt.Fprintln(w)
	}
	if s.EqualizerProfile != "" {
		fmt.Fprintf(w, "  Equalizer: %s %v\n", s.EqualizerProfile, s.BandOffsets)
	}
	if s.Firmware != "" {
		fmt.Fprintf(w, "  Firmware: %s\n", s.Firmware)
	}
	if s.Serial != "" {
		fmt.Fprintf(w, "  Serial: %s\n", s.Serial)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer)
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// RunView prints every event in the log file that matches filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	if err := reader.Each(func(e log.Event) error {
		formatEvent(output, e)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to read event: %w", err)
	}
	return nil
}
