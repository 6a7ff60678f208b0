package authority

import (
	"context"
	"time"

	"github.com/pivanov/relaywarden/internal/ident"
)

// The recovery path is a local safety valve for when the origin owner is
// unreachable: the recovery address initiates a claim, waits out the
// configured delay, then may execute calls without any cross-domain
// authentication. Claim and execution authenticate the direct local
// caller, never the relay. Owner-gated management of the recovery
// permission stays on the relayed path.

// RecoveryAddress returns the local identity empowered to attempt
// recovery, or null when recovery is disabled.
func (a *Authority) RecoveryAddress() ident.Identity {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recoveryAddr
}

// RecoveryInitiatedAt returns the timestamp of the current claim, or the
// zero time when no claim is in flight.
func (a *Authority) RecoveryInitiatedAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recoveryAt
}

// RecoveryDelay returns the configured claim aging period.
func (a *Authority) RecoveryDelay() time.Duration {
	return a.recoveryDelay
}

// RecoveryClaimActive reports whether a claim exists and has aged past the
// delay. The boundary is inclusive: a claim is active exactly at
// initiatedAt+delay.
func (a *Authority) RecoveryClaimActive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.recoveryAt.IsZero() {
		return false
	}
	return !a.now().UTC().Before(a.recoveryAt.Add(a.recoveryDelay))
}

// requireRecoveryCaller gates the local recovery entry points. Caller must
// hold a.mu.
func (a *Authority) requireRecoveryCaller(caller ident.Identity) error {
	if !a.recoveryEnabled || a.recoveryAddr.IsZero() {
		return ErrRecoveryDisabled
	}
	if caller != a.recoveryAddr {
		return &UntrustedCallerError{Caller: caller}
	}
	return nil
}

// InitiateRecoveryClaim starts the recovery timer. Only one claim may be in
// flight at a time.
func (a *Authority) InitiateRecoveryClaim(caller ident.Identity) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireRecoveryCaller(caller); err != nil {
		return err
	}
	if !a.recoveryAt.IsZero() {
		return &ClaimAlreadyInitiatedError{At: a.recoveryAt}
	}

	a.recoveryAt = a.now().UTC()
	a.record(Event{Type: EventRecoveryClaimInitiated, From: caller})
	return nil
}

// RenounceRecoveryClaim resets any claim to inactive. A later claim
// restarts the delay from its own timestamp, never the old one. Renouncing
// with no claim in flight is a no-op.
func (a *Authority) RenounceRecoveryClaim(caller ident.Identity) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireRecoveryCaller(caller); err != nil {
		return err
	}
	if a.recoveryAt.IsZero() {
		return nil
	}

	a.recoveryAt = time.Time{}
	a.record(Event{Type: EventRecoveryClaimRenounced, From: caller})
	return nil
}

// RecoveryExecute forwards a call through the break-glass path. It carries
// the same verbatim bytes-in/bytes-out contract as Execute and is gated on
// the caller being the recovery address with an active claim; origin and
// owner authentication are deliberately bypassed.
func (a *Authority) RecoveryExecute(ctx context.Context, caller ident.Identity, target ident.Identity, value uint64, data []byte) ([]byte, error) {
	a.mu.Lock()
	if err := a.requireRecoveryCaller(caller); err != nil {
		a.mu.Unlock()
		return nil, err
	}
	if a.recoveryAt.IsZero() {
		a.mu.Unlock()
		return nil, ErrClaimNotInitiated
	}
	now := a.now().UTC()
	activeAt := a.recoveryAt.Add(a.recoveryDelay)
	if now.Before(activeAt) {
		a.mu.Unlock()
		return nil, &ClaimNotActiveError{Now: now, ActiveAt: activeAt}
	}
	out, err := a.forward(ctx, target, value, data)
	if err == nil {
		a.record(Event{Type: EventCallForwarded, Target: target, Amount: value})
	}
	return out, err
}

// RevokeRecoveryPermission clears the recovery address and forces any claim
// inactive, disabling recovery until reassigned. Owner-gated, relayed.
func (a *Authority) RevokeRecoveryPermission(in Inbound) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.recoveryEnabled {
		return ErrRecoveryDisabled
	}
	if err := a.requireOrigin(in, a.owner); err != nil {
		return err
	}

	prev := a.recoveryAddr
	a.recoveryAddr = ident.Null
	a.recoveryAt = time.Time{}
	a.record(Event{Type: EventRecoveryPermissionTransferred, Previous: prev, New: ident.Null})
	return nil
}

// TransferRecoveryPermission reassigns the recovery address. Any in-flight
// claim is unconditionally invalidated so the previous holder cannot ride
// out its timer. Owner-gated, relayed.
func (a *Authority) TransferRecoveryPermission(in Inbound, newAddr ident.Identity) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.recoveryEnabled {
		return ErrRecoveryDisabled
	}
	if err := a.requireOrigin(in, a.owner); err != nil {
		return err
	}
	if newAddr.IsZero() {
		return ErrNullRecoveryAddress
	}

	prev := a.recoveryAddr
	a.recoveryAddr = newAddr
	a.recoveryAt = time.Time{}
	a.record(Event{Type: EventRecoveryPermissionTransferred, Previous: prev, New: newAddr})
	return nil
}
