// Package authority implements the remote-side authority that lets a
// controlling identity on an origin domain act on this domain through a
// message relay. The relay only vouches for who sent a message and from
// where; the authority decides whether that sender is allowed to act.
//
// Every relayed operation passes a three-check authentication gate in a
// fixed order: the immediate caller must be the trusted forwarder, the
// instruction's origin domain must match the configured domain, and the
// origin sender must be the identity the operation requires. Authorized
// calls are forwarded verbatim: result bytes and failure payloads pass
// through unmodified.
//
// One Authority type covers all deployment variants. The ownership policy
// (two-step handshake or direct reassignment) and the optional timed
// recovery path are selected once at construction and never change.
package authority

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pivanov/relaywarden/internal/ident"
)

// Caller is the dynamic-call capability the authority forwards through.
// Implementations return the target's raw response bytes. When the target
// itself fails, the returned error should be (or wrap) a *TargetError
// carrying the raw failure payload.
type Caller interface {
	Call(ctx context.Context, target ident.Identity, value uint64, data []byte) ([]byte, error)
}

// TargetError is returned by Caller implementations when the target failed.
// Payload holds the target's failure bytes exactly as produced.
type TargetError struct {
	Payload []byte
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("target failed: %s", e.Payload)
}

// Authenticator answers the two questions the gate asks about a relayed
// message: is the immediate caller the trusted forwarder, and what origin
// the relay attached to the payload.
type Authenticator interface {
	TrustedForwarder(caller ident.Identity) bool
	Origin(payload []byte) (ident.DomainID, ident.Identity, error)
}

// Recorder receives observability events. Events are append-only and never
// consumed internally; a failing recorder must not affect the operation
// that produced the event, so Record returns nothing.
type Recorder interface {
	Record(ev Event)
}

// Inbound is a relayed message as the forwarder hands it over: the
// immediate local caller identity and the full payload including the
// origin trailer.
type Inbound struct {
	Caller  ident.Identity
	Payload []byte
}

// RecoveryConfig enables the timed local recovery path.
type RecoveryConfig struct {
	// Address is the local identity allowed to claim recovery.
	Address ident.Identity
	// Delay is how long a claim must age before it becomes active.
	Delay time.Duration
}

// Config holds the construction parameters of an authority instance.
type Config struct {
	// ID names the instance in events. Generated when empty.
	ID string
	// OriginDomain is the sole domain instructions may originate from.
	OriginDomain ident.DomainID
	// Owner is the origin-domain identity authorized to issue instructions.
	Owner ident.Identity
	// TwoStepOwnership selects the transfer/claim handshake; false selects
	// direct owner reassignment via SetOwner. The two policies are never
	// available on the same instance.
	TwoStepOwnership bool
	// Recovery, when set, enables the timed local break-glass path.
	Recovery *RecoveryConfig
}

// Deps are the injected collaborators of an authority instance.
type Deps struct {
	Authenticator Authenticator
	Caller        Caller
	// Recorder is optional.
	Recorder Recorder
	// Now is optional and defaults to time.Now. Injected for the recovery
	// delay comparison.
	Now func() time.Time
}

// Authority is the remote-side authority instance. All state mutation goes
// through the authenticated entry points; the instance is never destroyed,
// only potentially rendered inert.
type Authority struct {
	id      string
	domain  ident.DomainID
	twoStep bool

	auth     Authenticator
	caller   Caller
	recorder Recorder
	now      func() time.Time

	mu           sync.Mutex
	owner        ident.Identity
	pendingOwner ident.Identity

	recoveryEnabled bool
	recoveryDelay   time.Duration
	recoveryAddr    ident.Identity
	recoveryAt      time.Time

	forwarding bool
}

// New validates the configuration and builds an authority. Construction
// fails outright on a zero origin domain, null owner, missing
// collaborators, or (when recovery is enabled) a null recovery address.
// No partial instance exists afterwards.
func New(cfg Config, deps Deps) (*Authority, error) {
	if cfg.OriginDomain.IsZero() {
		return nil, fmt.Errorf("authority: origin domain id must be non-zero")
	}
	if cfg.Owner.IsZero() {
		return nil, fmt.Errorf("authority: owner must not be null")
	}
	if cfg.Recovery != nil {
		if cfg.Recovery.Address.IsZero() {
			return nil, fmt.Errorf("authority: recovery address must not be null")
		}
		if cfg.Recovery.Delay <= 0 {
			return nil, fmt.Errorf("authority: recovery delay must be positive")
		}
	}

	a, err := build(cfg.ID, deps)
	if err != nil {
		return nil, err
	}
	a.domain = cfg.OriginDomain
	a.owner = cfg.Owner
	a.twoStep = cfg.TwoStepOwnership
	if cfg.Recovery != nil {
		a.recoveryEnabled = true
		a.recoveryAddr = cfg.Recovery.Address
		a.recoveryDelay = cfg.Recovery.Delay
	}
	return a, nil
}

func build(id string, deps Deps) (*Authority, error) {
	if deps.Authenticator == nil {
		return nil, fmt.Errorf("authority: authenticator is required")
	}
	if deps.Caller == nil {
		return nil, fmt.Errorf("authority: caller is required")
	}
	if id == "" {
		id = uuid.NewString()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Authority{
		id:       id,
		auth:     deps.Authenticator,
		caller:   deps.Caller,
		recorder: deps.Recorder,
		now:      now,
	}, nil
}

// ID returns the instance id stamped into events.
func (a *Authority) ID() string {
	return a.id
}

// OriginDomain returns the configured origin domain id.
func (a *Authority) OriginDomain() ident.DomainID {
	return a.domain
}

// Owner returns the current owner identity.
func (a *Authority) Owner() ident.Identity {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.owner
}

// PendingOwner returns the identity offered ownership, or null when no
// transfer is in flight.
func (a *Authority) PendingOwner() ident.Identity {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pendingOwner
}

// TwoStepOwnership reports the configured ownership policy.
func (a *Authority) TwoStepOwnership() bool {
	return a.twoStep
}

// requireOrigin authenticates a relayed message against the required origin
// sender. Checks run in the fixed order forwarder, domain, sender. Caller
// must hold a.mu so the required identity is read fresh.
func (a *Authority) requireOrigin(in Inbound, want ident.Identity) error {
	if !a.auth.TrustedForwarder(in.Caller) {
		return &UntrustedCallerError{Caller: in.Caller}
	}
	domain, sender, err := a.auth.Origin(in.Payload)
	if err != nil {
		return err
	}
	if domain != a.domain {
		return &UnsupportedDomainError{Domain: domain}
	}
	if sender != want {
		return &SenderMismatchError{Sender: sender}
	}
	return nil
}

// Execute forwards a call to target with the given value and data on behalf
// of the origin owner. The target's raw result bytes are returned
// unmodified; a failing target surfaces as *CallFailedError carrying the
// raw failure payload. A forwarded call that re-enters Execute or
// RecoveryExecute on the same instance fails with ErrReentrantCall.
func (a *Authority) Execute(ctx context.Context, in Inbound, target ident.Identity, value uint64, data []byte) ([]byte, error) {
	a.mu.Lock()
	if err := a.requireOrigin(in, a.owner); err != nil {
		a.mu.Unlock()
		return nil, err
	}
	out, err := a.forward(ctx, target, value, data)
	if err == nil {
		a.record(Event{Type: EventCallForwarded, Target: target, Amount: value})
	}
	return out, err
}

// forward performs the guarded dynamic call. Callers must hold a.mu; it is
// released for the duration of the call so views stay reachable from
// within the target.
func (a *Authority) forward(ctx context.Context, target ident.Identity, value uint64, data []byte) ([]byte, error) {
	if a.forwarding {
		a.mu.Unlock()
		return nil, ErrReentrantCall
	}
	a.forwarding = true
	a.mu.Unlock()

	out, err := a.caller.Call(ctx, target, value, data)

	a.mu.Lock()
	a.forwarding = false
	a.mu.Unlock()

	if err != nil {
		return nil, &CallFailedError{Raw: failurePayload(err)}
	}
	return out, nil
}

// failurePayload extracts the raw target failure bytes from a caller error.
// Transport-level errors with no target payload degrade to their message
// bytes so the failure is never swallowed.
func failurePayload(err error) []byte {
	var te *TargetError
	if errors.As(err, &te) {
		return te.Payload
	}
	return []byte(err.Error())
}

// Receive records an unsolicited value transfer. It carries no instruction
// body, requires no authentication, and triggers no logic beyond the event.
func (a *Authority) Receive(from ident.Identity, amount uint64) {
	a.record(Event{Type: EventValueReceived, From: from, Amount: amount})
}

// record emits an observability event. It may run with a.mu held, so
// recorders must not call back into the authority.
func (a *Authority) record(ev Event) {
	if a.recorder == nil {
		return
	}
	ev.Authority = a.id
	ev.At = a.now().UTC()
	a.recorder.Record(ev)
}
