// Package transport moves framed packets over a byte stream such as an
// RFCOMM socket.
//
// PacketReader and PacketWriter read and write whole packets using a
// wire.Framing. Both can emit protocol log events through a log.Logger;
// Conn ties a reader and writer to one stream and one session ID.
//
// Session runs a read loop on a Conn and pairs each request with the next
// inbound packet carrying the same command:
//
//	s := transport.NewSession(ctx, conn, transport.DefaultSessionConfig())
//	if err := s.RequestAck(ctx, data); err != nil {
//		return err
//	}
//	for p := range s.Packets() {
//		// unsolicited updates
//	}
//
// # Retries
//
// A request is sent up to SessionConfig.Retries times. Attempt n waits
// n * SessionConfig.ResponseTimeout for the response, so with the
// defaults a silent device fails after 3 seconds.
//
// # Metrics
//
// Sessions count requests by command and result, resends, and unsolicited,
// dropped and malformed packets in the default Prometheus registry.
//
// Opening the stream (Bluetooth discovery, pairing, RFCOMM channel
// selection) is left to the caller.
package transport
