package topology

import (
	"fmt"
	"strconv"
	"strings"
)

// CurrentVersion is the topology format version written by Export.
const CurrentVersion = "1.0"

// FormatVersion is a parsed "major.minor" topology format version.
type FormatVersion struct {
	Major uint16
	Minor uint16
}

// ParseVersion parses a "major.minor" version string.
func ParseVersion(s string) (FormatVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return FormatVersion{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return FormatVersion{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return FormatVersion{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return FormatVersion{Major: uint16(major), Minor: uint16(minor)}, nil
}

// String returns the version as "major.minor".
func (v FormatVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible reports whether documents of version other can be read.
func (v FormatVersion) Compatible(other FormatVersion) bool {
	return v.Major == other.Major
}

// checkVersion accepts an empty version as the current one.
func checkVersion(s string) error {
	if s == "" {
		return nil
	}
	v, err := ParseVersion(s)
	if err != nil {
		return err
	}
	current, _ := ParseVersion(CurrentVersion)
	if !current.Compatible(v) {
		return fmt.Errorf("unsupported version %s (reader supports %d.x)", v, current.Major)
	}
	return nil
}
