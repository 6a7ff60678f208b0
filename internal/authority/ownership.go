package authority

import (
	"github.com/pivanov/relaywarden/internal/ident"
)

// TransferOwnership offers ownership to newOwner under the two-step policy.
// The current owner keeps control until newOwner claims; a later transfer
// overwrites the pending offer.
func (a *Authority) TransferOwnership(in Inbound, newOwner ident.Identity) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.twoStep {
		return ErrTwoStepDisabled
	}
	if err := a.requireOrigin(in, a.owner); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return ErrNullOwner
	}

	a.pendingOwner = newOwner
	a.record(Event{Type: EventOwnershipOffered, Previous: a.owner, New: newOwner})
	return nil
}

// ClaimOwnership completes a pending transfer. The claim is gated on the
// origin sender being the pending owner; with no transfer in flight the
// pending owner is null and no sender can match it.
func (a *Authority) ClaimOwnership(in Inbound) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.twoStep {
		return ErrTwoStepDisabled
	}
	if err := a.requireOrigin(in, a.pendingOwner); err != nil {
		return err
	}

	prev := a.owner
	a.owner = a.pendingOwner
	a.pendingOwner = ident.Null
	a.record(Event{Type: EventOwnershipTransferred, Previous: prev, New: a.owner})
	return nil
}

// RenounceOwnership sets the owner to the null identity and clears any
// pending offer. Terminal: no owner-gated operation can succeed afterwards.
func (a *Authority) RenounceOwnership(in Inbound) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireOrigin(in, a.owner); err != nil {
		return err
	}

	prev := a.owner
	a.owner = ident.Null
	a.pendingOwner = ident.Null
	a.record(Event{Type: EventOwnershipTransferred, Previous: prev, New: ident.Null})
	return nil
}

// SetOwner reassigns ownership immediately under the single-step policy.
// The front-running-at-deployment risk this accepts is a documented
// configuration choice, mitigated only by redeploying if front-run.
func (a *Authority) SetOwner(in Inbound, newOwner ident.Identity) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.twoStep {
		return ErrSingleStepDisabled
	}
	if err := a.requireOrigin(in, a.owner); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return ErrNullOwner
	}

	prev := a.owner
	a.owner = newOwner
	a.record(Event{Type: EventOwnershipTransferred, Previous: prev, New: newOwner})
	return nil
}
