package authority

import (
	"errors"
	"fmt"
	"time"

	"github.com/pivanov/relaywarden/internal/ident"
)

// Authentication failures. Each gate check fails with its own type so a
// caller can tell which check tripped. Checks run in a fixed order
// (forwarder, then origin domain, then origin sender), so a message that
// violates more than one always surfaces the earliest violation.

// UntrustedCallerError reports an immediate caller that is neither the
// trusted forwarder (relayed path) nor the recovery address (local path).
type UntrustedCallerError struct {
	Caller ident.Identity
}

func (e *UntrustedCallerError) Error() string {
	return fmt.Sprintf("authority: untrusted caller %s", e.Caller)
}

// UnsupportedDomainError reports an instruction whose origin domain does
// not match the configured origin domain.
type UnsupportedDomainError struct {
	Domain ident.DomainID
}

func (e *UnsupportedDomainError) Error() string {
	return fmt.Sprintf("authority: unsupported origin domain %s", e.Domain)
}

// SenderMismatchError reports an origin sender that is not the identity
// required for the requested operation.
type SenderMismatchError struct {
	Sender ident.Identity
}

func (e *SenderMismatchError) Error() string {
	return fmt.Sprintf("authority: origin sender mismatch %s", e.Sender)
}

// CallFailedError reports a forwarded call that failed. Raw carries the
// target's failure payload byte-for-byte, never reformatted, so callers can
// decode the original cause.
type CallFailedError struct {
	Raw []byte
}

func (e *CallFailedError) Error() string {
	return fmt.Sprintf("authority: forwarded call failed: %s", e.Raw)
}

// ClaimAlreadyInitiatedError reports an attempt to initiate a recovery
// claim while one is already in flight.
type ClaimAlreadyInitiatedError struct {
	At time.Time
}

func (e *ClaimAlreadyInitiatedError) Error() string {
	return fmt.Sprintf("authority: recovery claim already initiated at %s", e.At.Format(time.RFC3339))
}

// ClaimNotActiveError reports a recovery execution attempted before the
// claim has aged past the configured delay.
type ClaimNotActiveError struct {
	Now      time.Time
	ActiveAt time.Time
}

func (e *ClaimNotActiveError) Error() string {
	return fmt.Sprintf("authority: recovery claim not active until %s (now %s)",
		e.ActiveAt.Format(time.RFC3339), e.Now.Format(time.RFC3339))
}

var (
	// ErrNullOwner rejects ownership reassignment to the null identity.
	ErrNullOwner = errors.New("authority: new owner must not be null")

	// ErrNullRecoveryAddress rejects recovery reassignment to the null
	// identity; use RevokeRecoveryPermission to disable recovery.
	ErrNullRecoveryAddress = errors.New("authority: new recovery address must not be null")

	// ErrClaimNotInitiated reports a recovery execution with no claim in
	// flight.
	ErrClaimNotInitiated = errors.New("authority: recovery claim not initiated")

	// ErrRecoveryDisabled reports a recovery operation on an instance with
	// no recovery address, either never configured or since revoked.
	ErrRecoveryDisabled = errors.New("authority: recovery is disabled")

	// ErrTwoStepDisabled reports a two-step ownership operation on an
	// instance configured with the single-step policy.
	ErrTwoStepDisabled = errors.New("authority: two-step ownership not enabled")

	// ErrSingleStepDisabled reports a direct owner reassignment on an
	// instance configured with the two-step policy.
	ErrSingleStepDisabled = errors.New("authority: single-step ownership not enabled")

	// ErrReentrantCall reports an entry into a forwarding operation while
	// another forwarded call on the same instance is still in flight.
	ErrReentrantCall = errors.New("authority: reentrant forwarding call")
)
