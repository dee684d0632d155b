package transport

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/scq-protocol/scq-go/pkg/wire"
)

var setEqualizerPacket = wire.DefaultFraming.Marshal(wire.Packet{
	Direction: wire.DirectionOutbound,
	Command:   wire.CommandSetEqualizer,
	Body:      []byte{0x0b, 0x00, 0x8c, 0x8c, 0x64, 0x64, 0x78, 0x8c, 0x96, 0xa0},
})

func TestRequestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, resultOK},
		{fmt.Errorf("%w: 06 81 after 3 attempts", ErrResponseTimeout), resultTimeout},
		{context.Canceled, resultCancelled},
		{context.DeadlineExceeded, resultCancelled},
		{ErrSessionClosed, resultClosed},
		{errors.New("broken pipe"), resultError},
	}
	for _, tt := range tests {
		if got := requestResult(tt.err); got != tt.want {
			t.Errorf("requestResult(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestSessionMetrics(t *testing.T) {
	command := wire.CommandSetEqualizer.String()
	ok := requestsTotal.WithLabelValues(command, resultOK)
	timeout := requestsTotal.WithLabelValues(command, resultTimeout)
	resends := resendsTotal.WithLabelValues(command)

	okBefore := testutil.ToFloat64(ok)
	timeoutBefore := testutil.ToFloat64(timeout)
	resendsBefore := testutil.ToFloat64(resends)
	unsolicitedBefore := testutil.ToFloat64(unsolicitedPacketsTotal)

	var silent atomic.Bool
	conn, _ := startDevice(t, func(n int, req wire.Packet) []wire.Packet {
		if silent.Load() || n == 1 {
			return nil
		}
		return []wire.Packet{
			ack(req),
			{Direction: wire.DirectionInbound, Command: wire.CommandSoundModesUpdate, Body: []byte{0, 0, 1, 0}},
		}
	})
	s := NewSession(context.Background(), conn, SessionConfig{Retries: 2, ResponseTimeout: 20 * time.Millisecond})

	// First attempt is ignored, the resend is acknowledged.
	if err := s.RequestAck(context.Background(), setEqualizerPacket); err != nil {
		t.Fatalf("RequestAck failed: %v", err)
	}
	select {
	case <-s.Packets():
	case <-time.After(time.Second):
		t.Fatal("no unsolicited packet")
	}

	silent.Store(true)
	if err := s.RequestAck(context.Background(), setEqualizerPacket); !errors.Is(err, ErrResponseTimeout) {
		t.Fatalf("RequestAck error = %v, want ErrResponseTimeout", err)
	}

	if got := testutil.ToFloat64(ok) - okBefore; got != 1 {
		t.Errorf("ok requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(timeout) - timeoutBefore; got != 1 {
		t.Errorf("timed out requests = %v, want 1", got)
	}
	// One resend per request; the last attempt of the failed one is not a resend.
	if got := testutil.ToFloat64(resends) - resendsBefore; got != 2 {
		t.Errorf("resends = %v, want 2", got)
	}
	if got := testutil.ToFloat64(unsolicitedPacketsTotal) - unsolicitedBefore; got != 1 {
		t.Errorf("unsolicited packets = %v, want 1", got)
	}
}
