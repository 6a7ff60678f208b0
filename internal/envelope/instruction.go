package envelope

import (
	"encoding/binary"
	"fmt"

	"github.com/pivanov/relaywarden/internal/ident"
)

// Op identifies the operation an instruction body requests.
type Op byte

const (
	// OpExecute forwards a call to an arbitrary target.
	OpExecute Op = 0x01
	// OpTransferOwnership offers ownership to a new identity (two-step).
	OpTransferOwnership Op = 0x02
	// OpClaimOwnership completes a pending ownership transfer.
	OpClaimOwnership Op = 0x03
	// OpRenounceOwnership sets the owner to the null identity.
	OpRenounceOwnership Op = 0x04
	// OpSetOwner reassigns ownership immediately (single-step).
	OpSetOwner Op = 0x05
	// OpRevokeRecovery clears the recovery address.
	OpRevokeRecovery Op = 0x06
	// OpTransferRecovery reassigns the recovery address.
	OpTransferRecovery Op = 0x07
)

var opNames = map[Op]string{
	OpExecute:           "execute",
	OpTransferOwnership: "transfer_ownership",
	OpClaimOwnership:    "claim_ownership",
	OpRenounceOwnership: "renounce_ownership",
	OpSetOwner:          "set_owner",
	OpRevokeRecovery:    "revoke_recovery",
	OpTransferRecovery:  "transfer_recovery",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("op(0x%02x)", byte(op))
}

// OpFromName resolves an operation from its textual name.
func OpFromName(name string) (Op, error) {
	for op, n := range opNames {
		if n == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("envelope: unknown operation %q", name)
}

// Instruction is a decoded instruction body. Which fields are meaningful
// depends on Op: Target/Value/Data for OpExecute, NewAddr for the
// ownership and recovery reassignment ops, nothing for the rest.
type Instruction struct {
	Op      Op
	Target  ident.Identity
	Value   uint64
	Data    []byte
	NewAddr ident.Identity
}

// Encode serializes the instruction body. Layouts are fixed-width:
//
//	execute:   op | target(20) | value(8, big-endian) | data
//	reassign:  op | newAddr(20)
//	bare ops:  op
func (in Instruction) Encode() ([]byte, error) {
	switch in.Op {
	case OpExecute:
		out := make([]byte, 0, 1+ident.IdentityLen+8+len(in.Data))
		out = append(out, byte(in.Op))
		out = append(out, in.Target[:]...)
		out = binary.BigEndian.AppendUint64(out, in.Value)
		out = append(out, in.Data...)
		return out, nil
	case OpTransferOwnership, OpSetOwner, OpTransferRecovery:
		out := make([]byte, 0, 1+ident.IdentityLen)
		out = append(out, byte(in.Op))
		out = append(out, in.NewAddr[:]...)
		return out, nil
	case OpClaimOwnership, OpRenounceOwnership, OpRevokeRecovery:
		return []byte{byte(in.Op)}, nil
	default:
		return nil, fmt.Errorf("envelope: cannot encode unknown op 0x%02x", byte(in.Op))
	}
}

// Decode parses an instruction body. It validates argument lengths but
// leaves authorization entirely to the authority.
func Decode(body []byte) (Instruction, error) {
	if len(body) == 0 {
		return Instruction{}, fmt.Errorf("envelope: empty instruction body")
	}
	op := Op(body[0])
	args := body[1:]

	switch op {
	case OpExecute:
		if len(args) < ident.IdentityLen+8 {
			return Instruction{}, fmt.Errorf("envelope: execute body too short: %d bytes", len(body))
		}
		var target ident.Identity
		copy(target[:], args[:ident.IdentityLen])
		value := binary.BigEndian.Uint64(args[ident.IdentityLen : ident.IdentityLen+8])
		data := args[ident.IdentityLen+8:]
		return Instruction{Op: op, Target: target, Value: value, Data: data}, nil
	case OpTransferOwnership, OpSetOwner, OpTransferRecovery:
		if len(args) != ident.IdentityLen {
			return Instruction{}, fmt.Errorf("envelope: %s body must carry exactly one identity, got %d bytes", op, len(args))
		}
		var addr ident.Identity
		copy(addr[:], args)
		return Instruction{Op: op, NewAddr: addr}, nil
	case OpClaimOwnership, OpRenounceOwnership, OpRevokeRecovery:
		if len(args) != 0 {
			return Instruction{}, fmt.Errorf("envelope: %s body must carry no arguments, got %d bytes", op, len(args))
		}
		return Instruction{Op: op}, nil
	default:
		return Instruction{}, fmt.Errorf("envelope: unknown op 0x%02x", body[0])
	}
}
