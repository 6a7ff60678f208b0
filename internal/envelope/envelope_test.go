package envelope

import (
	"bytes"
	"testing"

	"github.com/pivanov/relaywarden/internal/ident"
)

var (
	testSender = ident.MustIdentity("0x00112233445566778899aabbccddeeff00112233")
	testTarget = ident.MustIdentity("0xffeeddccbbaa99887766554433221100ffeeddcc")
)

func TestOriginRoundTrip(t *testing.T) {
	body := []byte("instruction body")
	payload := AppendOrigin(body, 10, testSender)

	if len(payload) != len(body)+TrailerLen {
		t.Fatalf("expected %d bytes, got %d", len(body)+TrailerLen, len(payload))
	}

	domain, sender, err := Origin(payload)
	if err != nil {
		t.Fatal(err)
	}
	if domain != 10 {
		t.Errorf("expected domain 10, got %d", domain)
	}
	if sender != testSender {
		t.Errorf("expected sender %s, got %s", testSender, sender)
	}

	got, err := Body(payload)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("body mismatch: %q", got)
	}
}

func TestOriginEmptyBody(t *testing.T) {
	payload := AppendOrigin(nil, 7, testSender)
	domain, sender, err := Origin(payload)
	if err != nil {
		t.Fatal(err)
	}
	if domain != 7 || sender != testSender {
		t.Errorf("unexpected origin: %d %s", domain, sender)
	}
	body, err := Body(payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(body) != 0 {
		t.Errorf("expected empty body, got %d bytes", len(body))
	}
}

func TestOriginTooShort(t *testing.T) {
	for _, n := range []int{0, 1, TrailerLen - 1} {
		if _, _, err := Origin(make([]byte, n)); err != ErrNoTrailer {
			t.Errorf("len %d: expected ErrNoTrailer, got %v", n, err)
		}
		if _, err := Body(make([]byte, n)); err != ErrNoTrailer {
			t.Errorf("len %d: expected ErrNoTrailer, got %v", n, err)
		}
	}
}

func TestInstructionRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   Instruction
	}{
		{"execute", Instruction{Op: OpExecute, Target: testTarget, Value: 1234, Data: []byte("payload")}},
		{"execute empty data", Instruction{Op: OpExecute, Target: testTarget}},
		{"transfer ownership", Instruction{Op: OpTransferOwnership, NewAddr: testSender}},
		{"claim ownership", Instruction{Op: OpClaimOwnership}},
		{"renounce ownership", Instruction{Op: OpRenounceOwnership}},
		{"set owner", Instruction{Op: OpSetOwner, NewAddr: testSender}},
		{"revoke recovery", Instruction{Op: OpRevokeRecovery}},
		{"transfer recovery", Instruction{Op: OpTransferRecovery, NewAddr: testTarget}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, err := tc.in.Encode()
			if err != nil {
				t.Fatal(err)
			}
			out, err := Decode(body)
			if err != nil {
				t.Fatal(err)
			}
			if out.Op != tc.in.Op || out.Target != tc.in.Target || out.Value != tc.in.Value || out.NewAddr != tc.in.NewAddr {
				t.Errorf("round trip mismatch: %+v vs %+v", tc.in, out)
			}
			if !bytes.Equal(out.Data, tc.in.Data) {
				t.Errorf("data mismatch: %q vs %q", out.Data, tc.in.Data)
			}
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	cases := []struct {
		name string
		body []byte
	}{
		{"empty", nil},
		{"unknown op", []byte{0xff}},
		{"execute truncated", append([]byte{byte(OpExecute)}, make([]byte, 10)...)},
		{"transfer short", append([]byte{byte(OpTransferOwnership)}, make([]byte, 5)...)},
		{"transfer long", append([]byte{byte(OpTransferOwnership)}, make([]byte, 25)...)},
		{"claim with args", []byte{byte(OpClaimOwnership), 0x01}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.body); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}

func TestEncodeUnknownOp(t *testing.T) {
	if _, err := (Instruction{Op: 0x7f}).Encode(); err == nil {
		t.Error("expected encode error for unknown op")
	}
}

func TestOpNames(t *testing.T) {
	for _, op := range []Op{OpExecute, OpTransferOwnership, OpClaimOwnership, OpRenounceOwnership, OpSetOwner, OpRevokeRecovery, OpTransferRecovery} {
		back, err := OpFromName(op.String())
		if err != nil {
			t.Errorf("%s: %v", op, err)
			continue
		}
		if back != op {
			t.Errorf("expected %v, got %v", op, back)
		}
	}
	if _, err := OpFromName("nope"); err == nil {
		t.Error("expected error for unknown name")
	}
}
