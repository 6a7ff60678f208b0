package authority

import (
	"context"
	"testing"
	"time"
)

func TestSnapshotResume(t *testing.T) {
	clock := &testClock{at: time.Unix(1700000000, 0).UTC()}
	a := newTestAuthority(t, Config{
		ID:               "resume-me",
		OriginDomain:     testDomain,
		Owner:            testOwner,
		TwoStepOwnership: true,
		Recovery:         &RecoveryConfig{Address: testRecovery, Delay: testDelay},
	}, Deps{Now: clock.Now})

	if err := a.TransferOwnership(relayed(testOwner, nil), testNewOwner); err != nil {
		t.Fatal(err)
	}
	if err := a.InitiateRecoveryClaim(testRecovery); err != nil {
		t.Fatal(err)
	}

	snap := a.Snapshot()
	if snap.ID != "resume-me" || snap.OriginDomain != testDomain {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.PendingOwner != testNewOwner || snap.RecoveryInitiatedAt.IsZero() {
		t.Fatalf("snapshot missed mutable state: %+v", snap)
	}

	resumed, err := FromSnapshot(snap, Deps{
		Authenticator: staticAuth{forwarder: testForwarder},
		Caller:        echoCaller(),
		Now:           clock.Now,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resumed.Owner() != testOwner || resumed.PendingOwner() != testNewOwner {
		t.Error("resumed instance lost ownership state")
	}
	if !resumed.RecoveryInitiatedAt().Equal(snap.RecoveryInitiatedAt) {
		t.Error("resumed instance lost the recovery claim")
	}

	// The in-flight handshake completes on the resumed instance.
	if err := resumed.ClaimOwnership(relayed(testNewOwner, nil)); err != nil {
		t.Fatal(err)
	}
	if resumed.Owner() != testNewOwner {
		t.Error("claim failed on resumed instance")
	}

	// The aged claim stays valid across the restart.
	clock.Advance(testDelay)
	if _, err := resumed.RecoveryExecute(context.Background(), testRecovery, testTarget, 0, nil); err != nil {
		t.Fatal(err)
	}
}

func TestFromSnapshotAcceptsRenouncedOwner(t *testing.T) {
	snap := Snapshot{ID: "inert", OriginDomain: testDomain}
	a, err := FromSnapshot(snap, Deps{
		Authenticator: staticAuth{forwarder: testForwarder},
		Caller:        echoCaller(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !a.Owner().IsZero() {
		t.Error("expected null owner")
	}
}

func TestFromSnapshotRejects(t *testing.T) {
	deps := Deps{Authenticator: staticAuth{forwarder: testForwarder}, Caller: echoCaller()}
	cases := []struct {
		name string
		snap Snapshot
	}{
		{"missing id", Snapshot{OriginDomain: testDomain}},
		{"zero domain", Snapshot{ID: "x"}},
		{"recovery without delay", Snapshot{ID: "x", OriginDomain: testDomain, RecoveryEnabled: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromSnapshot(tc.snap, deps); err == nil {
				t.Error("expected error")
			}
		})
	}
}
