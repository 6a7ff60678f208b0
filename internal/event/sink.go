package event

import (
	"sync"

	"github.com/pivanov/relaywarden/internal/alert"
	"github.com/pivanov/relaywarden/internal/authority"
	"github.com/pivanov/relaywarden/internal/ident"
)

// Sink adapts the ledger and the alert dispatcher to the authority's
// Recorder interface. The ledger write is best-effort from the authority's
// point of view: a failed append must not fail the instruction that
// produced the event, so write errors surface through OnError instead.
type Sink struct {
	Ledger  *Ledger
	OnError func(error)

	mu     sync.RWMutex
	alerts *alert.Dispatcher
}

// NewSink creates a Sink writing to the ledger and fanning out to alerts.
// Both may be nil.
func NewSink(ledger *Ledger, alerts *alert.Dispatcher, onError func(error)) *Sink {
	return &Sink{Ledger: ledger, OnError: onError, alerts: alerts}
}

// SetAlerts swaps the alert dispatcher. Used on config reload.
func (s *Sink) SetAlerts(d *alert.Dispatcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = d
}

// Record implements authority.Recorder.
func (s *Sink) Record(ev authority.Event) {
	entry := Entry{
		Timestamp: ev.At.UTC().Format(TimestampFormat),
		Authority: ev.Authority,
		Type:      ev.Type,
		Previous:  hexOrEmpty(ev.Previous),
		New:       hexOrEmpty(ev.New),
		From:      hexOrEmpty(ev.From),
		Target:    hexOrEmpty(ev.Target),
		Amount:    ev.Amount,
	}

	if s.Ledger != nil {
		if err := s.Ledger.Record(entry); err != nil && s.OnError != nil {
			s.OnError(err)
		}
	}

	s.mu.RLock()
	alerts := s.alerts
	s.mu.RUnlock()

	alerts.Dispatch(alert.AlertEvent{
		Timestamp: entry.Timestamp,
		Authority: entry.Authority,
		Type:      entry.Type,
		Previous:  entry.Previous,
		New:       entry.New,
		From:      entry.From,
		Amount:    entry.Amount,
	})
}

func hexOrEmpty(id ident.Identity) string {
	if id.IsZero() {
		return ""
	}
	return id.String()
}
