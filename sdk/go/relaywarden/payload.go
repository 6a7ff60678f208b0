package relaywarden

import (
	"github.com/pivanov/relaywarden/internal/envelope"
)

// ExecutePayload builds a relayed payload forwarding a call to target.
func ExecutePayload(domain DomainID, sender, target Identity, value uint64, data []byte) ([]byte, error) {
	return seal(domain, sender, Instruction{
		Op:     envelope.OpExecute,
		Target: target,
		Value:  value,
		Data:   data,
	})
}

// TransferOwnershipPayload builds a relayed payload offering ownership to
// newOwner (two-step).
func TransferOwnershipPayload(domain DomainID, sender, newOwner Identity) ([]byte, error) {
	return seal(domain, sender, Instruction{Op: envelope.OpTransferOwnership, NewAddr: newOwner})
}

// ClaimOwnershipPayload builds a relayed payload completing a pending
// ownership transfer. The sender must be the pending owner.
func ClaimOwnershipPayload(domain DomainID, sender Identity) ([]byte, error) {
	return seal(domain, sender, Instruction{Op: envelope.OpClaimOwnership})
}

// RenounceOwnershipPayload builds a relayed payload setting the owner to
// the null identity.
func RenounceOwnershipPayload(domain DomainID, sender Identity) ([]byte, error) {
	return seal(domain, sender, Instruction{Op: envelope.OpRenounceOwnership})
}

// SetOwnerPayload builds a relayed payload reassigning ownership
// immediately (single-step authorities only).
func SetOwnerPayload(domain DomainID, sender, newOwner Identity) ([]byte, error) {
	return seal(domain, sender, Instruction{Op: envelope.OpSetOwner, NewAddr: newOwner})
}

// RevokeRecoveryPayload builds a relayed payload clearing the recovery
// address.
func RevokeRecoveryPayload(domain DomainID, sender Identity) ([]byte, error) {
	return seal(domain, sender, Instruction{Op: envelope.OpRevokeRecovery})
}

// TransferRecoveryPayload builds a relayed payload reassigning the
// recovery address.
func TransferRecoveryPayload(domain DomainID, sender, newAddr Identity) ([]byte, error) {
	return seal(domain, sender, Instruction{Op: envelope.OpTransferRecovery, NewAddr: newAddr})
}

// DecodePayload splits a relayed payload into its instruction and origin
// metadata. For relay implementations and debugging.
func DecodePayload(payload []byte) (Instruction, DomainID, Identity, error) {
	domain, sender, err := envelope.Origin(payload)
	if err != nil {
		return Instruction{}, 0, Null, err
	}
	body, err := envelope.Body(payload)
	if err != nil {
		return Instruction{}, 0, Null, err
	}
	inst, err := envelope.Decode(body)
	if err != nil {
		return Instruction{}, 0, Null, err
	}
	return inst, domain, sender, nil
}

func seal(domain DomainID, sender Identity, inst Instruction) ([]byte, error) {
	body, err := inst.Encode()
	if err != nil {
		return nil, err
	}
	return envelope.AppendOrigin(body, domain, sender), nil
}
