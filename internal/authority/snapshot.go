package authority

import (
	"fmt"
	"time"

	"github.com/pivanov/relaywarden/internal/ident"
)

// Snapshot is the persistable state record of an authority instance. It
// captures both the immutable configuration and the mutable ownership and
// recovery state, so an instance can be resumed across process restarts.
type Snapshot struct {
	ID                  string
	OriginDomain        ident.DomainID
	Owner               ident.Identity
	PendingOwner        ident.Identity
	TwoStepOwnership    bool
	RecoveryEnabled     bool
	RecoveryAddress     ident.Identity
	RecoveryInitiatedAt time.Time
	RecoveryDelay       time.Duration
	UpdatedAt           time.Time
}

// Snapshot returns the current state record.
func (a *Authority) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		ID:                  a.id,
		OriginDomain:        a.domain,
		Owner:               a.owner,
		PendingOwner:        a.pendingOwner,
		TwoStepOwnership:    a.twoStep,
		RecoveryEnabled:     a.recoveryEnabled,
		RecoveryAddress:     a.recoveryAddr,
		RecoveryInitiatedAt: a.recoveryAt,
		RecoveryDelay:       a.recoveryDelay,
		UpdatedAt:           a.now().UTC(),
	}
}

// FromSnapshot resumes an instance from a persisted state record. Unlike
// New it accepts a null owner (renouncement is a legitimate persisted
// state) but still rejects a zero origin domain, which no instance may
// ever carry.
func FromSnapshot(snap Snapshot, deps Deps) (*Authority, error) {
	if snap.ID == "" {
		return nil, fmt.Errorf("authority: snapshot id is required")
	}
	if snap.OriginDomain.IsZero() {
		return nil, fmt.Errorf("authority: origin domain id must be non-zero")
	}
	if snap.RecoveryEnabled && snap.RecoveryDelay <= 0 {
		return nil, fmt.Errorf("authority: recovery delay must be positive")
	}

	a, err := build(snap.ID, deps)
	if err != nil {
		return nil, err
	}
	a.domain = snap.OriginDomain
	a.owner = snap.Owner
	a.pendingOwner = snap.PendingOwner
	a.twoStep = snap.TwoStepOwnership
	a.recoveryEnabled = snap.RecoveryEnabled
	a.recoveryAddr = snap.RecoveryAddress
	a.recoveryAt = snap.RecoveryInitiatedAt
	a.recoveryDelay = snap.RecoveryDelay
	return a, nil
}
