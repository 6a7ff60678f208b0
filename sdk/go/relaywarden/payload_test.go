package relaywarden

import (
	"bytes"
	"context"
	"testing"

	"github.com/pivanov/relaywarden/internal/authority"
	"github.com/pivanov/relaywarden/internal/envelope"
)

var (
	sdkDomain   = DomainID(10)
	sdkSender   = MustIdentity("0x1111111111111111111111111111111111111111")
	sdkTarget   = MustIdentity("0x4444444444444444444444444444444444444444")
	sdkNewOwner = MustIdentity("0x2222222222222222222222222222222222222222")
)

func TestExecutePayloadRoundTrips(t *testing.T) {
	payload, err := ExecutePayload(sdkDomain, sdkSender, sdkTarget, 7, []byte("calldata"))
	if err != nil {
		t.Fatal(err)
	}

	inst, domain, sender, err := DecodePayload(payload)
	if err != nil {
		t.Fatal(err)
	}
	if domain != sdkDomain || sender != sdkSender {
		t.Errorf("origin mismatch: domain=%d sender=%s", domain, sender)
	}
	if inst.Op != envelope.OpExecute || inst.Target != sdkTarget || inst.Value != 7 {
		t.Errorf("instruction mismatch: %+v", inst)
	}
	if !bytes.Equal(inst.Data, []byte("calldata")) {
		t.Errorf("data mismatch: %q", inst.Data)
	}
}

func TestOwnershipPayloadsRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		build   func() ([]byte, error)
		wantOp  envelope.Op
		wantNew Identity
	}{
		{"transfer", func() ([]byte, error) { return TransferOwnershipPayload(sdkDomain, sdkSender, sdkNewOwner) }, envelope.OpTransferOwnership, sdkNewOwner},
		{"claim", func() ([]byte, error) { return ClaimOwnershipPayload(sdkDomain, sdkSender) }, envelope.OpClaimOwnership, Null},
		{"renounce", func() ([]byte, error) { return RenounceOwnershipPayload(sdkDomain, sdkSender) }, envelope.OpRenounceOwnership, Null},
		{"set_owner", func() ([]byte, error) { return SetOwnerPayload(sdkDomain, sdkSender, sdkNewOwner) }, envelope.OpSetOwner, sdkNewOwner},
		{"revoke_recovery", func() ([]byte, error) { return RevokeRecoveryPayload(sdkDomain, sdkSender) }, envelope.OpRevokeRecovery, Null},
		{"transfer_recovery", func() ([]byte, error) { return TransferRecoveryPayload(sdkDomain, sdkSender, sdkNewOwner) }, envelope.OpTransferRecovery, sdkNewOwner},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := tc.build()
			if err != nil {
				t.Fatal(err)
			}
			inst, domain, sender, err := DecodePayload(payload)
			if err != nil {
				t.Fatal(err)
			}
			if domain != sdkDomain || sender != sdkSender {
				t.Errorf("origin mismatch: domain=%d sender=%s", domain, sender)
			}
			if inst.Op != tc.wantOp {
				t.Errorf("expected op %s, got %s", tc.wantOp, inst.Op)
			}
			if inst.NewAddr != tc.wantNew {
				t.Errorf("expected new address %s, got %s", tc.wantNew, inst.NewAddr)
			}
		})
	}
}

func TestDecodePayloadRejectsShortPayload(t *testing.T) {
	if _, _, _, err := DecodePayload([]byte{0x01, 0x02}); err == nil {
		t.Fatal("expected error for truncated payload")
	}
}

// The payload an SDK sender builds must pass the authority's own gates.
func TestPayloadAcceptedByAuthority(t *testing.T) {
	forwarder := MustIdentity("0x5555555555555555555555555555555555555555")

	warden, err := authority.New(authority.Config{
		ID:               "sdk-test",
		OriginDomain:     sdkDomain,
		Owner:            sdkSender,
		TwoStepOwnership: true,
	}, authority.Deps{
		Authenticator: sdkAuth{forwarder: forwarder},
		Caller:        nopCaller{},
	})
	if err != nil {
		t.Fatal(err)
	}

	payload, err := TransferOwnershipPayload(sdkDomain, sdkSender, sdkNewOwner)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := warden.Dispatch(context.Background(), authority.Inbound{
		Caller:  forwarder,
		Payload: payload,
	}); err != nil {
		t.Fatalf("authority rejected SDK payload: %v", err)
	}
	if warden.PendingOwner() != sdkNewOwner {
		t.Errorf("transfer not applied: %s", warden.PendingOwner())
	}
}

type nopCaller struct{}

func (nopCaller) Call(ctx context.Context, target Identity, value uint64, data []byte) ([]byte, error) {
	return nil, nil
}

type sdkAuth struct {
	forwarder Identity
}

func (a sdkAuth) TrustedForwarder(caller Identity) bool {
	return caller == a.forwarder
}

func (a sdkAuth) Origin(payload []byte) (DomainID, Identity, error) {
	return envelope.Origin(payload)
}
