// Package codec translates device state to and from packets.
//
// A Codec is bound to a device profile, which supplies the byte offsets of
// each field in the state update body together with the equalizer and noise
// canceling limits. Codecs hold no mutable state and are safe for concurrent
// use.
//
// State update body, for the standard 8-band layout:
//
//	offset  size  field
//	2       2     equalizer profile id, little-endian (0xfefe = custom)
//	4       8     band offsets, each stored as offset - min
//	35      1     ambient sound mode
//	36      1     noise canceling mode
//	37      1     transparency mode
//	38      1     custom noise canceling strength
//	39      5     firmware version, ASCII "MM.mm"
//	44      16    serial number, ASCII
//
// Bytes the layout does not name are written as zero and ignored on decode.
//
// Besides state updates the package builds the command packets used to
// change a device: set sound modes, set equalizer and the state request.
package codec
