// Package ident defines the identity and domain types shared across
// relaywarden. An Identity is a fixed-width account identity; a DomainID
// names an execution domain. Both are value types with no behavior beyond
// parsing and formatting.
package ident

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// IdentityLen is the fixed width of an identity in bytes.
const IdentityLen = 20

// Identity is a fixed-width account identity. The zero value is the null
// identity, which no operation may be authorized as.
type Identity [IdentityLen]byte

// Null is the null identity.
var Null Identity

// IsZero reports whether the identity is the null identity.
func (id Identity) IsZero() bool {
	return id == Null
}

// String renders the identity as 0x-prefixed lowercase hex.
func (id Identity) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// MarshalText implements encoding.TextMarshaler so identities serialize as
// hex strings in JSON and YAML.
func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseIdentity parses a 0x-prefixed hex identity. The input must encode
// exactly IdentityLen bytes.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	trimmed := strings.TrimSpace(s)
	hexPart, ok := strings.CutPrefix(trimmed, "0x")
	if !ok {
		hexPart, ok = strings.CutPrefix(trimmed, "0X")
	}
	if !ok {
		return id, fmt.Errorf("identity %q must have 0x prefix", s)
	}
	if len(hexPart) != IdentityLen*2 {
		return id, fmt.Errorf("identity %q must encode %d bytes, got %d hex digits", s, IdentityLen, len(hexPart))
	}
	raw, err := hex.DecodeString(hexPart)
	if err != nil {
		return id, fmt.Errorf("identity %q is not valid hex: %w", s, err)
	}
	copy(id[:], raw)
	return id, nil
}

// MustIdentity parses an identity or panics. Intended for tests and
// compile-time constants only.
func MustIdentity(s string) Identity {
	id, err := ParseIdentity(s)
	if err != nil {
		panic(err)
	}
	return id
}

// DomainID identifies an execution domain. Zero is never a valid domain.
type DomainID uint64

// IsZero reports whether the domain id is the invalid zero domain.
func (d DomainID) IsZero() bool {
	return d == 0
}

func (d DomainID) String() string {
	return fmt.Sprintf("%d", uint64(d))
}
