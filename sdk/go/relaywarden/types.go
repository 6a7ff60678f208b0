package relaywarden

import (
	"github.com/pivanov/relaywarden/internal/envelope"
	"github.com/pivanov/relaywarden/internal/ident"
)

// Identity is a 20-byte participant identity.
type Identity = ident.Identity

// DomainID identifies an execution domain.
type DomainID = ident.DomainID

// Instruction is a decoded instruction body.
type Instruction = envelope.Instruction

// Null is the null identity.
var Null = ident.Null

// ParseIdentity parses a 0x-prefixed hex identity.
func ParseIdentity(s string) (Identity, error) {
	return ident.ParseIdentity(s)
}

// MustIdentity parses an identity and panics on error. For tests and
// hardcoded constants.
func MustIdentity(s string) Identity {
	return ident.MustIdentity(s)
}
