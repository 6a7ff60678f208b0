// Package relay provides local implementations of the authority's
// collaborator interfaces: origin authentication over the payload trailer
// and dynamic-call capabilities for reaching targets. No cross-domain
// transport lives here. The relay itself is an external system; these are
// the pieces that sit on its receiving end.
package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/pivanov/relaywarden/internal/authority"
	"github.com/pivanov/relaywarden/internal/envelope"
	"github.com/pivanov/relaywarden/internal/ident"
)

// TrailerAuth authenticates relayed messages against a single trusted
// forwarder identity and reads origin metadata from the payload trailer.
// A zero Forwarder trusts nothing.
type TrailerAuth struct {
	Forwarder ident.Identity
}

func (t TrailerAuth) TrustedForwarder(caller ident.Identity) bool {
	return !t.Forwarder.IsZero() && caller == t.Forwarder
}

func (t TrailerAuth) Origin(payload []byte) (ident.DomainID, ident.Identity, error) {
	return envelope.Origin(payload)
}

// RotatingAuth is a TrailerAuth whose forwarder identity can be swapped at
// runtime, for relay rotation without restarting the authority.
type RotatingAuth struct {
	mu        sync.RWMutex
	forwarder ident.Identity
}

// NewRotatingAuth creates a RotatingAuth trusting the given forwarder.
func NewRotatingAuth(forwarder ident.Identity) *RotatingAuth {
	return &RotatingAuth{forwarder: forwarder}
}

// SetForwarder swaps the trusted forwarder identity.
func (r *RotatingAuth) SetForwarder(forwarder ident.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forwarder = forwarder
}

// Forwarder returns the currently trusted forwarder identity.
func (r *RotatingAuth) Forwarder() ident.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.forwarder
}

func (r *RotatingAuth) TrustedForwarder(caller ident.Identity) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return !r.forwarder.IsZero() && caller == r.forwarder
}

func (r *RotatingAuth) Origin(payload []byte) (ident.DomainID, ident.Identity, error) {
	return envelope.Origin(payload)
}

// Handler is an in-process target endpoint.
type Handler func(ctx context.Context, value uint64, data []byte) ([]byte, error)

// Registry is an in-process target registry for tests and demos. Unknown
// targets fail at the transport level, not as a target failure.
type Registry struct {
	mu       sync.RWMutex
	handlers map[ident.Identity]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[ident.Identity]Handler)}
}

// Register binds a handler to a target identity, replacing any previous one.
func (r *Registry) Register(target ident.Identity, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[target] = h
}

func (r *Registry) Call(ctx context.Context, target ident.Identity, value uint64, data []byte) ([]byte, error) {
	r.mu.RLock()
	h, ok := r.handlers[target]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("relay: no handler registered for target %s", target)
	}
	return h(ctx, value, data)
}

const webhookTimeout = 10 * time.Second

// WebhookCaller reaches targets over HTTP. Each target identity maps to a
// URL; the instruction data posts as the request body and the response body
// comes back verbatim. A non-2xx response surfaces the response body as the
// target's raw failure payload.
type WebhookCaller struct {
	client *http.Client

	mu      sync.RWMutex
	targets map[ident.Identity]string
}

// NewWebhookCaller creates a WebhookCaller with the given target routes.
func NewWebhookCaller(targets map[ident.Identity]string) *WebhookCaller {
	if targets == nil {
		targets = make(map[ident.Identity]string)
	}
	return &WebhookCaller{
		client:  &http.Client{Timeout: webhookTimeout},
		targets: targets,
	}
}

// SetTargets replaces the target route table.
func (w *WebhookCaller) SetTargets(targets map[ident.Identity]string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.targets = targets
}

func (w *WebhookCaller) Call(ctx context.Context, target ident.Identity, value uint64, data []byte) ([]byte, error) {
	w.mu.RLock()
	url, ok := w.targets[target]
	w.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("relay: no route for target %s", target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("relay: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Relaywarden-Target", target.String())
	req.Header.Set("X-Relaywarden-Value", strconv.FormatUint(value, 10))

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay: call target %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("relay: read response from %s: %w", target, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &authority.TargetError{Payload: body}
	}
	return body, nil
}

// Deliver builds the Inbound a trusted forwarder would hand to the
// authority for an instruction originating from (domain, sender).
func Deliver(forwarder ident.Identity, domain ident.DomainID, sender ident.Identity, inst envelope.Instruction) (authority.Inbound, error) {
	body, err := inst.Encode()
	if err != nil {
		return authority.Inbound{}, err
	}
	return authority.Inbound{
		Caller:  forwarder,
		Payload: envelope.AppendOrigin(body, domain, sender),
	}, nil
}
