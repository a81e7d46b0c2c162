package gamba

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MetadataVersion = "0"
	DefaultGameTag  = "Blinks"
	DefaultOrigin   = "Solana-Blinks"
)

var ErrInvalidMetadata = errors.New("gamba: invalid metadata")

// Metadata is stored on-chain with every play as "version:gameTag:origin".
// Feed consumers split on ':' and match field 1 against their tag, so the
// field order and separator must not change within a version.
type Metadata struct {
	Version string
	GameTag string
	Origin  string
}

func DefaultMetadata() Metadata {
	return Metadata{Version: MetadataVersion, GameTag: DefaultGameTag, Origin: DefaultOrigin}
}

func (m Metadata) String() string {
	return m.Version + ":" + m.GameTag + ":" + m.Origin
}

// Validate rejects separators in the fixed-position fields.
func (m Metadata) Validate() error {
	if m.Version == "" || m.GameTag == "" {
		return fmt.Errorf("%w: version and game tag are required", ErrInvalidMetadata)
	}
	if strings.Contains(m.Version, ":") || strings.Contains(m.GameTag, ":") {
		return fmt.Errorf("%w: version and game tag must not contain ':'", ErrInvalidMetadata)
	}
	return nil
}

// ParseMetadata splits a metadata string. The origin keeps any further colons.
func ParseMetadata(s string) (Metadata, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return Metadata{}, fmt.Errorf("%w: %q", ErrInvalidMetadata, s)
	}
	m := Metadata{Version: parts[0], GameTag: parts[1]}
	if len(parts) == 3 {
		m.Origin = parts[2]
	}
	return m, nil
}

// HasTag reports whether the game tag equals tag, ignoring case.
func (m Metadata) HasTag(tag string) bool {
	return strings.EqualFold(m.GameTag, tag)
}
