package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logJSON(t *testing.T, adapter func(*slog.Logger) *SlogAdapter, event Event) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter(slog.New(handler)).Log(event)

	require.NotEmpty(t, buf.String(), "no output produced")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestSlogAdapterLogsPacketEvent(t *testing.T) {
	entry := logJSON(t, NewSlogAdapter, Event{
		Timestamp: time.Now(),
		SessionID: "session-123",
		Direction: DirectionIn,
		Layer:     LayerTransport,
		Category:  CategoryAck,
		Model:     "a3028",
		Packet: &PacketEvent{
			Size:    10,
			Command: "06 81",
			Data:    []byte{0x09, 0xff, 0x00, 0x00, 0x01, 0x06, 0x81, 0x0a, 0x00, 0x9a},
		},
	})

	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "protocol", entry["msg"])
	assert.Equal(t, "session-123", entry["session_id"])
	assert.Equal(t, "IN", entry["direction"])
	assert.Equal(t, "TRANSPORT", entry["layer"])
	assert.Equal(t, "ACK", entry["category"])
	assert.Equal(t, "a3028", entry["model"])
	assert.Equal(t, "06 81", entry["command"])
	assert.Equal(t, float64(10), entry["size"])
	assert.Equal(t, "09 ff 00 00 01 06 81 0a 00 9a", entry["data"])
	assert.NotContains(t, entry, "truncated")
}

func TestSlogAdapterLogsStateEvent(t *testing.T) {
	strength := uint8(3)
	entry := logJSON(t, NewSlogAdapter, Event{
		SessionID: "session-456",
		Direction: DirectionIn,
		Layer:     LayerCodec,
		Category:  CategoryState,
		State: &StateEvent{
			Command:              "01 01",
			AmbientSoundMode:     "Normal",
			NoiseCancelingMode:   "Indoor",
			TransparencyMode:     "VocalMode",
			CustomNoiseCanceling: &strength,
			EqualizerProfile:     "Jazz",
			BandOffsets:          []int16{20, 20, -20, -20, 0, 20, 30, 40},
			Firmware:             "02.61",
		},
	})

	assert.Equal(t, "Normal", entry["ambient"])
	assert.Equal(t, "Indoor", entry["noise_canceling"])
	assert.Equal(t, "VocalMode", entry["transparency"])
	assert.Equal(t, float64(3), entry["custom_noise_canceling"])
	assert.Equal(t, "Jazz", entry["equalizer"])
	assert.Len(t, entry["band_offsets"], 8)
	assert.Equal(t, "02.61", entry["firmware"])
	assert.NotContains(t, entry, "serial")
}

func TestSlogAdapterRaisesErrorLevel(t *testing.T) {
	entry := logJSON(t, NewSlogAdapter, Event{
		SessionID: "session-789",
		Category:  CategoryError,
		Error: &ErrorEventData{
			Layer:   LayerTransport,
			Message: "packet truncated",
			Context: "reading packet",
		},
	})

	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "packet truncated", entry["error_msg"])
	assert.Equal(t, "reading packet", entry["error_context"])
}

func TestSlogAdapterWithLevel(t *testing.T) {
	entry := logJSON(t, func(l *slog.Logger) *SlogAdapter {
		return NewSlogAdapter(l).WithLevel(slog.LevelInfo)
	}, Event{SessionID: "s", Packet: &PacketEvent{Command: "01 01"}})

	assert.Equal(t, "INFO", entry["level"])
}
