// Package envelope encodes relayed instruction payloads.
//
// A relayed payload is an instruction body followed by a fixed-width origin
// trailer the relay appends on delivery: the 8-byte big-endian origin
// domain id, then the 20-byte origin sender identity. Consumers read the
// trailer at a fixed offset from the end of the payload, so the body may
// grow or shrink freely but the trailer never changes shape.
package envelope

import (
	"encoding/binary"
	"errors"

	"github.com/pivanov/relaywarden/internal/ident"
)

// TrailerLen is the fixed size of the origin trailer in bytes.
const TrailerLen = 8 + ident.IdentityLen

// ErrNoTrailer is returned when a payload is too short to carry the origin
// trailer.
var ErrNoTrailer = errors.New("envelope: payload shorter than origin trailer")

// AppendOrigin returns body with the origin trailer appended, as the relay
// does on delivery. The body slice is not modified.
func AppendOrigin(body []byte, domain ident.DomainID, sender ident.Identity) []byte {
	out := make([]byte, 0, len(body)+TrailerLen)
	out = append(out, body...)
	out = binary.BigEndian.AppendUint64(out, uint64(domain))
	out = append(out, sender[:]...)
	return out
}

// Origin reads the origin domain id and sender identity from the payload
// trailer.
func Origin(payload []byte) (ident.DomainID, ident.Identity, error) {
	if len(payload) < TrailerLen {
		return 0, ident.Null, ErrNoTrailer
	}
	tail := payload[len(payload)-TrailerLen:]
	domain := ident.DomainID(binary.BigEndian.Uint64(tail[:8]))
	var sender ident.Identity
	copy(sender[:], tail[8:])
	return domain, sender, nil
}

// Body returns the instruction body with the origin trailer stripped.
func Body(payload []byte) ([]byte, error) {
	if len(payload) < TrailerLen {
		return nil, ErrNoTrailer
	}
	return payload[:len(payload)-TrailerLen], nil
}
