package authority

import (
	"time"

	"github.com/pivanov/relaywarden/internal/ident"
)

// Event types. Ownership renouncement and recovery revocation reuse the
// transfer types with a null New identity, mirroring how the lifecycle
// treats them.
const (
	EventOwnershipOffered              = "ownership_offered"
	EventOwnershipTransferred          = "ownership_transferred"
	EventRecoveryPermissionTransferred = "recovery_permission_transferred"
	EventRecoveryClaimInitiated        = "recovery_claim_initiated"
	EventRecoveryClaimRenounced        = "recovery_claim_renounced"
	EventValueReceived                 = "value_received"
	EventCallForwarded                 = "call_forwarded"
)

// Event is one observability record. Which fields are set depends on Type:
// Previous/New for ownership and recovery permission changes, From/Amount
// for value transfers, Target/Amount for forwarded calls. Authority and At
// are stamped by the instance.
type Event struct {
	Authority string
	Type      string
	Previous  ident.Identity
	New       ident.Identity
	From      ident.Identity
	Target    ident.Identity
	Amount    uint64
	At        time.Time
}
