// Package wire defines the binary packet framing of Soundcore devices.
//
// Every packet has the same envelope:
//
//	+-----------+---------+--------+------+----------+
//	| direction | command | length | body | checksum |
//	|  5 bytes  | 2 bytes | u16 LE |  n   |  1 byte  |
//	+-----------+---------+--------+------+----------+
//
// The direction prefix distinguishes host-to-device packets (08 ee 00 00 00)
// from device-to-host packets (09 ff 00 00 01). Length counts the whole
// packet including the checksum. The checksum is the sum of all preceding
// bytes modulo 256.
//
// # Acknowledgements
//
// Devices acknowledge most commands by echoing the command in an inbound
// packet with an empty body. Use Packet.IsAckFor to match them.
//
// # Framing Parameters
//
// The checksum is a Framing parameter rather than a constant so device
// profiles can describe firmware that omits it.
package wire
