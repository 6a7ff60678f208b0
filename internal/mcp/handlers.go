package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pivanov/relaywarden/internal/envelope"
	"github.com/pivanov/relaywarden/internal/event"
	"github.com/pivanov/relaywarden/internal/ident"
)

// --- Input/Output types ---

// StatusInput is empty, no parameters needed.
type StatusInput struct{}

// StatusOutput reports the authority's current state.
type StatusOutput struct {
	ID                  string `json:"id"`
	OriginDomain        uint64 `json:"origin_domain"`
	Owner               string `json:"owner,omitempty"`
	PendingOwner        string `json:"pending_owner,omitempty"`
	TwoStepOwnership    bool   `json:"two_step_ownership"`
	RecoveryEnabled     bool   `json:"recovery_enabled"`
	RecoveryAddress     string `json:"recovery_address,omitempty"`
	RecoveryDelay       string `json:"recovery_delay,omitempty"`
	RecoveryInitiatedAt string `json:"recovery_initiated_at,omitempty"`
	RecoveryClaimActive bool   `json:"recovery_claim_active"`
	Forwarder           string `json:"forwarder"`
}

// DeliverInput defines parameters for the warden_deliver tool.
type DeliverInput struct {
	FromDomain uint64 `json:"from_domain" jsonschema:"origin domain id of the sender"`
	FromSender string `json:"from_sender" jsonschema:"origin sender identity (0x-prefixed hex)"`
	Op         string `json:"op" jsonschema:"operation name (execute/transfer_ownership/claim_ownership/renounce_ownership/set_owner/revoke_recovery/transfer_recovery)"`
	Target     string `json:"target,omitempty" jsonschema:"target identity for execute"`
	Value      uint64 `json:"value,omitempty" jsonschema:"value to attach to an execute call"`
	Data       string `json:"data,omitempty" jsonschema:"calldata for execute, passed verbatim"`
	NewAddress string `json:"new_address,omitempty" jsonschema:"new identity for ownership/recovery reassignment ops"`
}

// DeliverOutput contains the forwarded result or the rejection.
type DeliverOutput struct {
	Result   string `json:"result,omitempty"`
	Rejected bool   `json:"rejected,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// RecoveryInput defines parameters for the warden_recovery tool.
type RecoveryInput struct {
	Action string `json:"action" jsonschema:"one of initiate, renounce, execute"`
	As     string `json:"as" jsonschema:"caller identity (0x-prefixed hex)"`
	Target string `json:"target,omitempty" jsonschema:"target identity for execute"`
	Value  uint64 `json:"value,omitempty" jsonschema:"value to attach to an execute call"`
	Data   string `json:"data,omitempty" jsonschema:"calldata for execute, passed verbatim"`
}

// RecoveryOutput contains the recovery action result.
type RecoveryOutput struct {
	Status   string `json:"status,omitempty"`
	Result   string `json:"result,omitempty"`
	Rejected bool   `json:"rejected,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// EventsInput defines parameters for the warden_events tool.
type EventsInput struct {
	Authority string `json:"authority,omitempty" jsonschema:"authority id filter"`
	Type      string `json:"type,omitempty" jsonschema:"event type filter"`
}

// EventsOutput lists matching ledger entries.
type EventsOutput struct {
	Entries []event.Entry `json:"entries"`
	Summary event.Summary `json:"summary"`
}

// VerifyInput is empty, no parameters needed.
type VerifyInput struct{}

// --- Handlers ---

func (s *Server) handleStatus(ctx context.Context, req *mcpsdk.CallToolRequest, input StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	snap := s.daemon.Status()
	out := StatusOutput{
		ID:                  snap.ID,
		OriginDomain:        uint64(snap.OriginDomain),
		TwoStepOwnership:    snap.TwoStepOwnership,
		RecoveryEnabled:     snap.RecoveryEnabled,
		RecoveryClaimActive: s.daemon.Authority().RecoveryClaimActive(),
		Forwarder:           s.daemon.Forwarder().String(),
	}
	if !snap.Owner.IsZero() {
		out.Owner = snap.Owner.String()
	}
	if !snap.PendingOwner.IsZero() {
		out.PendingOwner = snap.PendingOwner.String()
	}
	if snap.RecoveryEnabled {
		out.RecoveryAddress = snap.RecoveryAddress.String()
		out.RecoveryDelay = snap.RecoveryDelay.String()
	}
	if !snap.RecoveryInitiatedAt.IsZero() {
		out.RecoveryInitiatedAt = snap.RecoveryInitiatedAt.UTC().Format(event.TimestampFormat)
	}
	return nil, out, nil
}

func (s *Server) handleDeliver(ctx context.Context, req *mcpsdk.CallToolRequest, input DeliverInput) (*mcpsdk.CallToolResult, DeliverOutput, error) {
	inst, err := buildInstruction(input)
	if err != nil {
		return nil, DeliverOutput{}, err
	}
	sender, err := ident.ParseIdentity(input.FromSender)
	if err != nil {
		return nil, DeliverOutput{}, fmt.Errorf("from_sender: %w", err)
	}

	result, err := s.daemon.Deliver(ctx, ident.DomainID(input.FromDomain), sender, inst)
	if err != nil {
		out := DeliverOutput{Rejected: true, Reason: err.Error()}
		return &mcpsdk.CallToolResult{IsError: true}, out, nil
	}
	return nil, DeliverOutput{Result: string(result)}, nil
}

func (s *Server) handleRecovery(ctx context.Context, req *mcpsdk.CallToolRequest, input RecoveryInput) (*mcpsdk.CallToolResult, RecoveryOutput, error) {
	caller, err := ident.ParseIdentity(input.As)
	if err != nil {
		return nil, RecoveryOutput{}, fmt.Errorf("as: %w", err)
	}

	switch input.Action {
	case "initiate":
		if err := s.daemon.InitiateRecovery(ctx, caller); err != nil {
			return &mcpsdk.CallToolResult{IsError: true}, RecoveryOutput{Rejected: true, Reason: err.Error()}, nil
		}
		return nil, RecoveryOutput{Status: "claim initiated"}, nil

	case "renounce":
		if err := s.daemon.RenounceRecovery(ctx, caller); err != nil {
			return &mcpsdk.CallToolResult{IsError: true}, RecoveryOutput{Rejected: true, Reason: err.Error()}, nil
		}
		return nil, RecoveryOutput{Status: "claim renounced"}, nil

	case "execute":
		target, err := ident.ParseIdentity(input.Target)
		if err != nil {
			return nil, RecoveryOutput{}, fmt.Errorf("target: %w", err)
		}
		result, err := s.daemon.RecoveryExecute(ctx, caller, target, input.Value, []byte(input.Data))
		if err != nil {
			return &mcpsdk.CallToolResult{IsError: true}, RecoveryOutput{Rejected: true, Reason: err.Error()}, nil
		}
		return nil, RecoveryOutput{Status: "executed", Result: string(result)}, nil

	default:
		return nil, RecoveryOutput{}, fmt.Errorf("unknown recovery action %q", input.Action)
	}
}

func (s *Server) handleEvents(ctx context.Context, req *mcpsdk.CallToolRequest, input EventsInput) (*mcpsdk.CallToolResult, EventsOutput, error) {
	result, err := s.daemon.Events(event.Filter{Authority: input.Authority, Type: input.Type})
	if err != nil {
		return nil, EventsOutput{}, err
	}
	return nil, EventsOutput{Entries: result.Entries, Summary: result.Summary}, nil
}

func (s *Server) handleVerify(ctx context.Context, req *mcpsdk.CallToolRequest, input VerifyInput) (*mcpsdk.CallToolResult, event.VerifyResult, error) {
	result := s.daemon.VerifyLedger()
	if !result.Valid {
		return &mcpsdk.CallToolResult{IsError: true}, result, nil
	}
	return nil, result, nil
}

func buildInstruction(input DeliverInput) (envelope.Instruction, error) {
	op, err := envelope.OpFromName(input.Op)
	if err != nil {
		return envelope.Instruction{}, err
	}

	inst := envelope.Instruction{Op: op, Value: input.Value, Data: []byte(input.Data)}
	if input.Target != "" {
		if inst.Target, err = ident.ParseIdentity(input.Target); err != nil {
			return envelope.Instruction{}, fmt.Errorf("target: %w", err)
		}
	}
	if input.NewAddress != "" {
		if inst.NewAddr, err = ident.ParseIdentity(input.NewAddress); err != nil {
			return envelope.Instruction{}, fmt.Errorf("new_address: %w", err)
		}
	}
	return inst, nil
}
