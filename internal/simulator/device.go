// Package simulator provides a simulated device that answers protocol
// requests over a byte stream. It backs the scq-tool simulate command and
// end to end tests of the transport and codec packages.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/scq-protocol/scq-go/pkg/codec"
	"github.com/scq-protocol/scq-go/pkg/log"
	"github.com/scq-protocol/scq-go/pkg/model"
	"github.com/scq-protocol/scq-go/pkg/transport"
	"github.com/scq-protocol/scq-go/pkg/wire"
)

// Device is a simulated device. It is safe for concurrent use; one Device
// may serve several streams, which then share its state.
type Device struct {
	codec  *codec.Codec
	logger *slog.Logger

	// Handlers are optional callbacks for state changes.
	Handlers DeviceHandlers

	// ProtocolLogger receives packet events of every served stream.
	ProtocolLogger log.Logger

	mu    sync.RWMutex
	state codec.State
	right *model.EqualizerConfiguration

	// Silent, when set, makes the device drop requests for a command
	// without answering. Used to exercise client retries.
	silent map[wire.Command]int
}

// DeviceHandlers holds callbacks for device operations.
type DeviceHandlers struct {
	// OnSoundModes is called after a set sound modes request was applied.
	OnSoundModes func(model.SoundModes)

	// OnEqualizer is called after a set equalizer request was applied.
	OnEqualizer func(left model.EqualizerConfiguration, right *model.EqualizerConfiguration)
}

// New creates a simulated device. The codec must encode inbound packets,
// which is its default.
func New(c *codec.Codec, initial codec.State, logger *slog.Logger) *Device {
	if logger == nil {
		logger = slog.Default()
	}
	return &Device{
		codec:  c,
		logger: logger,
		state:  initial,
		silent: make(map[wire.Command]int),
	}
}

// State returns the current device state.
func (d *Device) State() codec.State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// RightEqualizer returns the second channel of the last set equalizer
// request, or nil if it carried one channel.
func (d *Device) RightEqualizer() *model.EqualizerConfiguration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.right
}

// DropNext makes the device ignore the next n requests carrying command.
func (d *Device) DropNext(command wire.Command, n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.silent[command] = n
}

// Serve answers requests on rw until the stream ends or ctx is cancelled.
// A clean end of stream returns nil. Malformed packets are logged and
// skipped.
func (d *Device) Serve(ctx context.Context, rw io.ReadWriter) error {
	conn := transport.NewConn(rw, d.codec.Framing())
	if d.ProtocolLogger != nil {
		conn.SetLogger(d.ProtocolLogger, "")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		p, err := conn.ReadPacket()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			if errors.Is(err, wire.ErrMalformedPacket) {
				d.logger.Warn("discarding malformed request", "error", err)
				continue
			}
			return err
		}

		replies, err := d.Handle(p)
		if err != nil {
			d.logger.Warn("request rejected", "command", p.Command.String(), "error", err)
			continue
		}
		for _, r := range replies {
			if err := conn.Write(r); err != nil {
				return fmt.Errorf("failed to reply: %w", err)
			}
		}
	}
}

// Handle applies one request and returns the packets to send back.
// Requests the device drops or does not know yield no packets.
func (d *Device) Handle(p wire.Packet) ([][]byte, error) {
	if p.Direction != wire.DirectionOutbound {
		d.logger.Debug("ignoring inbound packet", "command", p.Command.String())
		return nil, nil
	}
	if d.drop(p.Command) {
		d.logger.Debug("dropping request", "command", p.Command.String())
		return nil, nil
	}

	switch p.Command {
	case d.codec.Profile().StateCommand():
		return d.handleStateRequest()
	case wire.CommandSetSoundModes:
		return d.handleSetSoundModes(p)
	case wire.CommandSetEqualizer:
		return d.handleSetEqualizer(p)
	default:
		d.logger.Debug("unknown command", "command", p.Command.String())
		return nil, nil
	}
}

func (d *Device) drop(command wire.Command) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.silent[command] > 0 {
		d.silent[command]--
		return true
	}
	return false
}

func (d *Device) handleStateRequest() ([][]byte, error) {
	data, err := d.codec.EncodeState(d.State())
	if err != nil {
		return nil, err
	}
	return [][]byte{data}, nil
}

func (d *Device) handleSetSoundModes(p wire.Packet) ([][]byte, error) {
	modes, err := d.codec.DecodeSetSoundModes(p)
	if err != nil {
		return nil, err
	}
	if err := d.codec.Profile().Supports(modes); err != nil {
		return nil, err
	}
	update, err := d.codec.SoundModesUpdatePacket(modes)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.state.SoundModes = modes
	d.mu.Unlock()

	d.logger.Info("sound modes set", "modes", modes.String())
	if d.Handlers.OnSoundModes != nil {
		d.Handlers.OnSoundModes(modes)
	}
	return [][]byte{d.codec.AckPacket(p.Command), update}, nil
}

func (d *Device) handleSetEqualizer(p wire.Packet) ([][]byte, error) {
	left, right, err := d.codec.DecodeSetEqualizer(p)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.state.Equalizer = left
	d.right = right
	d.mu.Unlock()

	d.logger.Info("equalizer set", "equalizer", left.String())
	if d.Handlers.OnEqualizer != nil {
		d.Handlers.OnEqualizer(left, right)
	}
	return [][]byte{d.codec.AckPacket(p.Command)}, nil
}
