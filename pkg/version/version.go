// Package version provides firmware version parsing and comparison.
//
// Devices report their firmware as five ASCII bytes, "MM.mm", inside state
// update packets. Some behavior differs between firmware revisions, so device
// profiles may name a minimum version for a feature.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// WireLength is the size of a firmware version on the wire ("02.30").
const WireLength = 5

// MaxComponent is the largest major or minor number the wire form holds.
const MaxComponent = 99

// ErrInvalidVersion indicates a version that has no wire form.
var ErrInvalidVersion = errors.New("invalid firmware version")

// FirmwareVersion represents a parsed "major.minor" firmware version.
type FirmwareVersion struct {
	Major uint8
	Minor uint8
}

// Parse parses a "major.minor" version string. Each component must be a
// decimal number between 0 and 99.
func Parse(s string) (FirmwareVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return FirmwareVersion{}, fmt.Errorf("%w %q: expected major.minor", ErrInvalidVersion, s)
	}

	major, err := parseComponent(parts[0])
	if err != nil {
		return FirmwareVersion{}, fmt.Errorf("%w %q: bad major component", ErrInvalidVersion, s)
	}

	minor, err := parseComponent(parts[1])
	if err != nil {
		return FirmwareVersion{}, fmt.Errorf("%w %q: bad minor component", ErrInvalidVersion, s)
	}

	return FirmwareVersion{Major: major, Minor: minor}, nil
}

// ParseBytes parses the five byte wire form.
func ParseBytes(b []byte) (FirmwareVersion, error) {
	if len(b) != WireLength {
		return FirmwareVersion{}, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidVersion, len(b), WireLength)
	}
	if b[2] != '.' {
		return FirmwareVersion{}, fmt.Errorf("%w %q: missing separator", ErrInvalidVersion, b)
	}
	return Parse(string(b))
}

func parseComponent(s string) (uint8, error) {
	if s == "" || len(s) > 2 {
		return 0, fmt.Errorf("bad component %q", s)
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(n), nil
}

// String returns the version in wire form, zero padded ("02.30").
func (v FirmwareVersion) String() string {
	return fmt.Sprintf("%02d.%02d", v.Major, v.Minor)
}

// Validate checks that both components fit two decimal digits.
func (v FirmwareVersion) Validate() error {
	if v.Major > MaxComponent || v.Minor > MaxComponent {
		return fmt.Errorf("%w: %d.%d has a component above %d", ErrInvalidVersion, v.Major, v.Minor, MaxComponent)
	}
	return nil
}

// Bytes returns the five byte wire form. It is only meaningful for versions
// that pass Validate.
func (v FirmwareVersion) Bytes() []byte {
	return []byte(v.String())
}

// Number returns the combined version number, major*100 + minor.
func (v FirmwareVersion) Number() uint16 {
	return uint16(v.Major)*100 + uint16(v.Minor)
}

// Compare returns -1, 0 or +1 depending on whether v is older than, equal to
// or newer than other.
func (v FirmwareVersion) Compare(other FirmwareVersion) int {
	a, b := v.Number(), other.Number()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// AtLeast returns true if v is min or newer.
func (v FirmwareVersion) AtLeast(min FirmwareVersion) bool {
	return v.Compare(min) >= 0
}
