package authority

import (
	"context"
	"fmt"

	"github.com/pivanov/relaywarden/internal/envelope"
)

// Dispatch decodes the instruction body of a relayed message and routes it
// to the matching operation. It performs no authentication itself; each
// operation runs its own gate against the same Inbound. Only Execute
// produces result bytes; the lifecycle operations return nil on success.
func (a *Authority) Dispatch(ctx context.Context, in Inbound) ([]byte, error) {
	body, err := envelope.Body(in.Payload)
	if err != nil {
		return nil, err
	}
	inst, err := envelope.Decode(body)
	if err != nil {
		return nil, err
	}

	switch inst.Op {
	case envelope.OpExecute:
		return a.Execute(ctx, in, inst.Target, inst.Value, inst.Data)
	case envelope.OpTransferOwnership:
		return nil, a.TransferOwnership(in, inst.NewAddr)
	case envelope.OpClaimOwnership:
		return nil, a.ClaimOwnership(in)
	case envelope.OpRenounceOwnership:
		return nil, a.RenounceOwnership(in)
	case envelope.OpSetOwner:
		return nil, a.SetOwner(in, inst.NewAddr)
	case envelope.OpRevokeRecovery:
		return nil, a.RevokeRecoveryPermission(in)
	case envelope.OpTransferRecovery:
		return nil, a.TransferRecoveryPermission(in, inst.NewAddr)
	default:
		return nil, fmt.Errorf("authority: no operation for %s", inst.Op)
	}
}
