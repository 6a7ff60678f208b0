package authority

import (
	"errors"
	"testing"

	"github.com/pivanov/relaywarden/internal/ident"
)

func TestTwoStepTransferAndClaim(t *testing.T) {
	sink := &eventSink{}
	a := newTestAuthority(t, Config{OriginDomain: testDomain, Owner: testOwner, TwoStepOwnership: true}, Deps{Recorder: sink})

	if err := a.TransferOwnership(relayed(testOwner, nil), testNewOwner); err != nil {
		t.Fatal(err)
	}
	if a.Owner() != testOwner {
		t.Error("owner must not change before claim")
	}
	if a.PendingOwner() != testNewOwner {
		t.Errorf("expected pending owner %s, got %s", testNewOwner, a.PendingOwner())
	}

	if err := a.ClaimOwnership(relayed(testNewOwner, nil)); err != nil {
		t.Fatal(err)
	}
	if a.Owner() != testNewOwner {
		t.Errorf("expected owner %s, got %s", testNewOwner, a.Owner())
	}
	if !a.PendingOwner().IsZero() {
		t.Error("pending owner must reset after claim")
	}

	if len(sink.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(sink.events))
	}
	if sink.events[0].Type != EventOwnershipOffered || sink.events[0].New != testNewOwner {
		t.Errorf("unexpected offer event: %+v", sink.events[0])
	}
	if sink.events[1].Type != EventOwnershipTransferred ||
		sink.events[1].Previous != testOwner || sink.events[1].New != testNewOwner {
		t.Errorf("unexpected transfer event: %+v", sink.events[1])
	}
}

func TestClaimByNonPendingOwnerFails(t *testing.T) {
	a := newTestAuthority(t, Config{OriginDomain: testDomain, Owner: testOwner, TwoStepOwnership: true}, Deps{})
	if err := a.TransferOwnership(relayed(testOwner, nil), testNewOwner); err != nil {
		t.Fatal(err)
	}

	var mismatch *SenderMismatchError
	if err := a.ClaimOwnership(relayed(testStranger, nil)); !errors.As(err, &mismatch) {
		t.Errorf("expected SenderMismatchError, got %v", err)
	}
	// The current owner cannot claim either.
	if err := a.ClaimOwnership(relayed(testOwner, nil)); !errors.As(err, &mismatch) {
		t.Errorf("expected SenderMismatchError for owner, got %v", err)
	}
	if a.Owner() != testOwner || a.PendingOwner() != testNewOwner {
		t.Error("failed claim must not change state")
	}
}

func TestClaimWithNoTransferInFlight(t *testing.T) {
	a := newTestAuthority(t, Config{OriginDomain: testDomain, Owner: testOwner, TwoStepOwnership: true}, Deps{})
	var mismatch *SenderMismatchError
	if err := a.ClaimOwnership(relayed(testNewOwner, nil)); !errors.As(err, &mismatch) {
		t.Errorf("expected SenderMismatchError, got %v", err)
	}
}

func TestTransferOverwritesPendingOffer(t *testing.T) {
	a := newTestAuthority(t, Config{OriginDomain: testDomain, Owner: testOwner, TwoStepOwnership: true}, Deps{})
	if err := a.TransferOwnership(relayed(testOwner, nil), testNewOwner); err != nil {
		t.Fatal(err)
	}
	if err := a.TransferOwnership(relayed(testOwner, nil), testStranger); err != nil {
		t.Fatal(err)
	}
	if a.PendingOwner() != testStranger {
		t.Errorf("expected pending owner %s, got %s", testStranger, a.PendingOwner())
	}
	// The overwritten offer is dead.
	var mismatch *SenderMismatchError
	if err := a.ClaimOwnership(relayed(testNewOwner, nil)); !errors.As(err, &mismatch) {
		t.Errorf("expected SenderMismatchError for stale offer, got %v", err)
	}
}

func TestTransferToNullOwnerFails(t *testing.T) {
	a := newTestAuthority(t, Config{OriginDomain: testDomain, Owner: testOwner, TwoStepOwnership: true}, Deps{})
	if err := a.TransferOwnership(relayed(testOwner, nil), ident.Null); !errors.Is(err, ErrNullOwner) {
		t.Errorf("expected ErrNullOwner, got %v", err)
	}
}

func TestRenounceOwnershipIsTerminal(t *testing.T) {
	a := newTestAuthority(t, Config{OriginDomain: testDomain, Owner: testOwner, TwoStepOwnership: true}, Deps{})
	if err := a.TransferOwnership(relayed(testOwner, nil), testNewOwner); err != nil {
		t.Fatal(err)
	}
	if err := a.RenounceOwnership(relayed(testOwner, nil)); err != nil {
		t.Fatal(err)
	}
	if !a.Owner().IsZero() {
		t.Error("owner must be null after renouncement")
	}
	if !a.PendingOwner().IsZero() {
		t.Error("renouncement must clear the pending offer")
	}

	// No owner-gated operation can succeed afterwards.
	var mismatch *SenderMismatchError
	if err := a.TransferOwnership(relayed(testOwner, nil), testNewOwner); !errors.As(err, &mismatch) {
		t.Errorf("expected SenderMismatchError after renounce, got %v", err)
	}
}

func TestSingleStepSetOwner(t *testing.T) {
	sink := &eventSink{}
	a := newTestAuthority(t, Config{OriginDomain: testDomain, Owner: testOwner}, Deps{Recorder: sink})

	if err := a.SetOwner(relayed(testOwner, nil), testNewOwner); err != nil {
		t.Fatal(err)
	}
	if a.Owner() != testNewOwner {
		t.Errorf("expected owner %s, got %s", testNewOwner, a.Owner())
	}
	if err := a.SetOwner(relayed(testNewOwner, nil), ident.Null); !errors.Is(err, ErrNullOwner) {
		t.Errorf("expected ErrNullOwner, got %v", err)
	}
	if len(sink.events) != 1 || sink.events[0].Type != EventOwnershipTransferred {
		t.Errorf("unexpected events: %+v", sink.events)
	}
}

func TestOwnershipPoliciesNeverMix(t *testing.T) {
	single := newTestAuthority(t, Config{OriginDomain: testDomain, Owner: testOwner}, Deps{})
	if err := single.TransferOwnership(relayed(testOwner, nil), testNewOwner); !errors.Is(err, ErrTwoStepDisabled) {
		t.Errorf("expected ErrTwoStepDisabled, got %v", err)
	}
	if err := single.ClaimOwnership(relayed(testNewOwner, nil)); !errors.Is(err, ErrTwoStepDisabled) {
		t.Errorf("expected ErrTwoStepDisabled, got %v", err)
	}

	twoStep := newTestAuthority(t, Config{OriginDomain: testDomain, Owner: testOwner, TwoStepOwnership: true}, Deps{})
	if err := twoStep.SetOwner(relayed(testOwner, nil), testNewOwner); !errors.Is(err, ErrSingleStepDisabled) {
		t.Errorf("expected ErrSingleStepDisabled, got %v", err)
	}
}

func TestOwnershipOpsGated(t *testing.T) {
	a := newTestAuthority(t, Config{OriginDomain: testDomain, Owner: testOwner, TwoStepOwnership: true}, Deps{})
	var mismatch *SenderMismatchError
	if err := a.TransferOwnership(relayed(testStranger, nil), testNewOwner); !errors.As(err, &mismatch) {
		t.Errorf("expected SenderMismatchError, got %v", err)
	}
	if err := a.RenounceOwnership(relayed(testStranger, nil)); !errors.As(err, &mismatch) {
		t.Errorf("expected SenderMismatchError, got %v", err)
	}
}
