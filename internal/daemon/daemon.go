// Package daemon composes the authority with its local collaborators: the
// snapshot store, the event ledger, alert dispatch, and the HTTP target
// caller. One daemon hosts one authority instance.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pivanov/relaywarden/internal/alert"
	"github.com/pivanov/relaywarden/internal/authority"
	"github.com/pivanov/relaywarden/internal/config"
	"github.com/pivanov/relaywarden/internal/envelope"
	"github.com/pivanov/relaywarden/internal/event"
	"github.com/pivanov/relaywarden/internal/ident"
	"github.com/pivanov/relaywarden/internal/relay"
	"github.com/pivanov/relaywarden/internal/store"
)

// Daemon hosts a single authority instance and its supporting state.
type Daemon struct {
	cfg    *config.Config
	auth   *relay.RotatingAuth
	caller *relay.WebhookCaller
	sink   *event.Sink
	store  *store.Store
	ledger *event.Ledger
	warden *authority.Authority
}

// New builds a daemon from configuration. If a snapshot for the configured
// authority id exists (or exactly one snapshot exists and no id is
// configured), the instance resumes from it; otherwise a fresh instance is
// created and persisted.
func New(cfg *config.Config) (*Daemon, error) {
	forwarder, err := cfg.ForwarderIdentity()
	if err != nil {
		return nil, err
	}
	targets, err := cfg.TargetURLs()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Paths.StateDB)
	if err != nil {
		return nil, err
	}

	ledger, err := event.Open(cfg.Paths.EventLog)
	if err != nil {
		st.Close()
		return nil, err
	}

	d := &Daemon{
		cfg:    cfg,
		auth:   relay.NewRotatingAuth(forwarder),
		caller: relay.NewWebhookCaller(targets),
		store:  st,
		ledger: ledger,
	}
	d.sink = event.NewSink(ledger, alert.NewDispatcher(cfg.Alerts), func(err error) {
		fmt.Fprintf(os.Stderr, "event ledger: %v\n", err)
	})

	if err := d.loadAuthority(context.Background()); err != nil {
		d.Close()
		return nil, err
	}

	return d, nil
}

func (d *Daemon) loadAuthority(ctx context.Context) error {
	deps := authority.Deps{
		Authenticator: d.auth,
		Caller:        d.caller,
		Recorder:      d.sink,
	}

	snap, err := d.findSnapshot(ctx)
	if err == nil {
		d.warden, err = authority.FromSnapshot(snap, deps)
		if err != nil {
			return fmt.Errorf("resume authority %s: %w", snap.ID, err)
		}
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	ac, err := d.cfg.AuthorityConfig()
	if err != nil {
		return err
	}
	d.warden, err = authority.New(ac, deps)
	if err != nil {
		return err
	}
	return d.Save(ctx)
}

func (d *Daemon) findSnapshot(ctx context.Context) (authority.Snapshot, error) {
	if id := d.cfg.Authority.ID; id != "" {
		return d.store.Load(ctx, id)
	}
	snaps, err := d.store.List(ctx)
	if err != nil {
		return authority.Snapshot{}, err
	}
	if len(snaps) == 1 {
		return snaps[0], nil
	}
	if len(snaps) > 1 {
		return authority.Snapshot{}, fmt.Errorf("daemon: %d snapshots present, set authority.id to pick one", len(snaps))
	}
	return authority.Snapshot{}, store.ErrNotFound
}

// Authority exposes the hosted instance.
func (d *Daemon) Authority() *authority.Authority {
	return d.warden
}

// Forwarder returns the currently trusted forwarder identity.
func (d *Daemon) Forwarder() ident.Identity {
	return d.auth.Forwarder()
}

// EventLogPath returns the ledger location.
func (d *Daemon) EventLogPath() string {
	return d.cfg.Paths.EventLog
}

// Deliver runs a relayed instruction through the authority as if it arrived
// from the trusted forwarder, then persists the resulting state.
func (d *Daemon) Deliver(ctx context.Context, domain ident.DomainID, sender ident.Identity, inst envelope.Instruction) ([]byte, error) {
	in, err := relay.Deliver(d.auth.Forwarder(), domain, sender, inst)
	if err != nil {
		return nil, err
	}

	result, dispatchErr := d.warden.Dispatch(ctx, in)

	if err := d.Save(ctx); err != nil && dispatchErr == nil {
		return result, err
	}
	return result, dispatchErr
}

// InitiateRecovery starts the break-glass recovery claim for caller.
func (d *Daemon) InitiateRecovery(ctx context.Context, caller ident.Identity) error {
	if err := d.warden.InitiateRecoveryClaim(caller); err != nil {
		return err
	}
	return d.Save(ctx)
}

// RenounceRecovery cancels a pending recovery claim.
func (d *Daemon) RenounceRecovery(ctx context.Context, caller ident.Identity) error {
	if err := d.warden.RenounceRecoveryClaim(caller); err != nil {
		return err
	}
	return d.Save(ctx)
}

// RecoveryExecute forwards a call on behalf of the recovery address once
// its claim has matured.
func (d *Daemon) RecoveryExecute(ctx context.Context, caller, target ident.Identity, value uint64, data []byte) ([]byte, error) {
	return d.warden.RecoveryExecute(ctx, caller, target, value, data)
}

// Receive records an incoming value transfer and persists state.
func (d *Daemon) Receive(ctx context.Context, from ident.Identity, amount uint64) error {
	d.warden.Receive(from, amount)
	return d.Save(ctx)
}

// Status returns the current state record.
func (d *Daemon) Status() authority.Snapshot {
	return d.warden.Snapshot()
}

// Events queries the event ledger.
func (d *Daemon) Events(filter event.Filter) (*event.QueryResult, error) {
	return event.Query(d.cfg.Paths.EventLog, filter)
}

// VerifyLedger validates the event ledger hash chain.
func (d *Daemon) VerifyLedger() event.VerifyResult {
	return event.Verify(d.cfg.Paths.EventLog)
}

// Save persists the current snapshot.
func (d *Daemon) Save(ctx context.Context) error {
	return d.store.Save(ctx, d.warden.Snapshot())
}

// Reload applies a changed configuration to the running daemon: forwarder
// rotation, target routes, and alert destinations. Authority identity and
// storage paths are fixed for the process lifetime.
func (d *Daemon) Reload(cfg *config.Config) error {
	forwarder, err := cfg.ForwarderIdentity()
	if err != nil {
		return err
	}
	targets, err := cfg.TargetURLs()
	if err != nil {
		return err
	}

	d.auth.SetForwarder(forwarder)
	d.caller.SetTargets(targets)
	d.sink.SetAlerts(alert.NewDispatcher(cfg.Alerts))
	return nil
}

// Close releases the ledger and the store.
func (d *Daemon) Close() error {
	var errs []error
	if d.ledger != nil {
		if err := d.ledger.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
