package interactive

import (
	"bytes"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scq-protocol/scq-go/internal/simulator"
	"github.com/scq-protocol/scq-go/pkg/codec"
	"github.com/scq-protocol/scq-go/pkg/model"
	"github.com/scq-protocol/scq-go/pkg/profile"
	"github.com/scq-protocol/scq-go/pkg/transport"
	"github.com/scq-protocol/scq-go/pkg/version"
)

// syncBuffer is a bytes.Buffer safe for the shell and its watcher.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newCodec(t *testing.T) *codec.Codec {
	t.Helper()
	p, err := profile.Load("a3028")
	require.NoError(t, err)
	c, err := codec.New(p)
	require.NoError(t, err)
	return c
}

func outdoorState(t *testing.T) codec.State {
	t.Helper()
	fw, err := version.Parse("02.61")
	require.NoError(t, err)
	return codec.State{
		SoundModes: model.NewSoundModes(model.AmbientSoundModeNormal, model.NoiseCancelingModeOutdoor,
			model.TransparencyModeVocalMode, model.CustomNoiseCanceling{}),
		Equalizer: model.EqualizerConfigurationFromPreset(model.PresetSoundcoreSignature),
		Firmware:  &fw,
		Serial:    "3028ABCDEF012345",
	}
}

func TestShellOffline(t *testing.T) {
	c := newCodec(t)
	out := &syncBuffer{}
	sh := New(c, nil, outdoorState(t), out)
	ctx := context.Background()

	assert.False(t, sh.Execute(ctx, "show"))
	assert.Contains(t, out.String(), "Outdoor")
	assert.Contains(t, out.String(), "3028ABCDEF012345")

	assert.False(t, sh.Execute(ctx, "modes normal,indoor,vocal-mode"))
	output := out.String()
	assert.Contains(t, output, "-> 08 ee 00 00 00 06 81 0e 00 00 01 01 00 8d")
	assert.Contains(t, output, "-> 08 ee 00 00 00 06 81 0e 00 00 02 01 00 8e")
	assert.Contains(t, output, "-> 08 ee 00 00 00 06 81 0e 00 02 02 01 00 90")
	assert.Equal(t, model.NoiseCancelingModeIndoor, sh.State().SoundModes.NoiseCancelingMode)

	assert.False(t, sh.Execute(ctx, "m normal,indoor,vocal-mode"))
	assert.Contains(t, out.String(), "Already in target state")

	assert.False(t, sh.Execute(ctx, "eq Jazz"))
	assert.Contains(t, out.String(), "Equalizer: Jazz")
	p, ok := sh.State().Equalizer.PresetProfile()
	require.True(t, ok)
	assert.Equal(t, model.PresetJazz, p)
}

func TestShellEncodeDecode(t *testing.T) {
	c := newCodec(t)
	out := &syncBuffer{}
	initial := outdoorState(t)
	sh := New(c, nil, initial, out)
	ctx := context.Background()

	sh.Execute(ctx, "eq -60,60,23,40,22,60,-4,16")
	sh.Execute(ctx, "encode")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	packet := lines[len(lines)-1]
	require.True(t, strings.HasPrefix(packet, "09 ff 00 00 01 01 01"), packet)

	other := New(c, nil, initial, out)
	assert.False(t, other.Execute(ctx, "decode "+packet))
	assert.True(t, other.State().Equal(sh.State()))
	assert.True(t, other.State().Equalizer.IsCustom())
}

func TestShellErrors(t *testing.T) {
	c := newCodec(t)
	out := &syncBuffer{}
	sh := New(c, nil, outdoorState(t), out)
	ctx := context.Background()

	tests := []struct {
		line string
		want string
	}{
		{"bogus", "Unknown command: bogus"},
		{"refresh", "Error: " + ErrNotConnected.Error()},
		{"modes", "Error: usage: modes"},
		{"modes loud,indoor,vocal-mode", "Error:"},
		{"eq", "Error: usage: eq"},
		{"eq Polka", "Error:"},
		{"decode", "Error: usage: decode"},
		{"decode 09 ff", "Error:"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			before := sh.State()
			assert.False(t, sh.Execute(ctx, tt.line))
			assert.Contains(t, out.String(), tt.want)
			assert.True(t, sh.State().Equal(before))
		})
	}
}

func TestShellQuit(t *testing.T) {
	c := newCodec(t)
	out := &syncBuffer{}
	sh := New(c, nil, outdoorState(t), out)

	assert.False(t, sh.Execute(context.Background(), "   "))
	for _, line := range []string{"quit", "exit", "q", "QUIT"} {
		assert.True(t, sh.Execute(context.Background(), line), line)
	}
	assert.Contains(t, out.String(), "Exiting...")
}

// connect serves a simulated device and returns a shell attached to it.
func connect(t *testing.T, c *codec.Codec, d *simulator.Device, out *syncBuffer) *Shell {
	t.Helper()
	client, device := net.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- d.Serve(ctx, device) }()

	t.Cleanup(func() {
		cancel()
		client.Close()
		device.Close()
		<-served
	})

	session := transport.NewSession(ctx, transport.NewConn(client, c.Framing()),
		transport.SessionConfig{ResponseTimeout: 50 * time.Millisecond})

	sh := New(c, session, codec.State{}, out)
	go sh.Watch(ctx)
	return sh
}

func TestShellConnected(t *testing.T) {
	c := newCodec(t)
	d := simulator.New(c, outdoorState(t), nil)
	out := &syncBuffer{}
	sh := connect(t, c, d, out)
	ctx := context.Background()

	sh.Execute(ctx, "refresh")
	require.True(t, sh.State().Equal(outdoorState(t)), "state after refresh: %+v", sh.State())

	sh.Execute(ctx, "modes noise-canceling,custom,vocal-mode,6")
	assert.NotContains(t, out.String(), "Error:")
	assert.NotContains(t, out.String(), "->")

	custom, err := model.NewCustomNoiseCanceling(6)
	require.NoError(t, err)
	target := model.NewSoundModes(model.AmbientSoundModeNoiseCanceling, model.NoiseCancelingModeCustom,
		model.TransparencyModeVocalMode, custom)
	assert.Equal(t, target, d.State().SoundModes)

	// The watcher applies each update as it arrives; the last one is the target.
	require.Eventually(t, func() bool {
		return sh.State().SoundModes == target &&
			strings.Contains(out.String(), "[device] Sound modes: "+target.String())
	}, time.Second, 10*time.Millisecond)

	// The packet carries only the left profile id, so a different right
	// preset reaches the device as its offsets.
	sh.Execute(ctx, "eq Jazz Piano")
	assert.NotContains(t, out.String(), "Error:")
	assert.True(t, d.State().Equalizer.Equal(model.EqualizerConfigurationFromPreset(model.PresetJazz)))
	right := d.RightEqualizer()
	require.NotNil(t, right)
	assert.True(t, right.IsCustom())
	assert.Equal(t, model.PresetPiano.BandOffsets(), right.BandOffsets())

	sh.Execute(ctx, "eq Jazz Jazz")
	right = d.RightEqualizer()
	require.NotNil(t, right)
	p, ok := right.PresetProfile()
	require.True(t, ok)
	assert.Equal(t, model.PresetJazz, p)
}

func TestShellRetriesDroppedRequest(t *testing.T) {
	c := newCodec(t)
	d := simulator.New(c, outdoorState(t), nil)
	d.DropNext(c.Profile().StateCommand(), 1)
	out := &syncBuffer{}
	sh := connect(t, c, d, out)

	sh.Execute(context.Background(), "r")
	assert.NotContains(t, out.String(), "Error:")
	assert.True(t, sh.State().Equal(outdoorState(t)))
}

func TestShellReportsDisconnect(t *testing.T) {
	c := newCodec(t)
	client, device := net.Pipe()
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session := transport.NewSession(ctx, transport.NewConn(client, c.Framing()), transport.DefaultSessionConfig())

	out := &syncBuffer{}
	sh := New(c, session, codec.State{}, out)
	done := make(chan struct{})
	go func() {
		sh.Watch(ctx)
		close(done)
	}()

	device.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.Contains(t, out.String(), "Device disconnected")
}
