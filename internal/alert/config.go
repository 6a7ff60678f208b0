package alert

// AlertConfig defines a webhook alert destination.
type AlertConfig struct {
	URL     string            `yaml:"url"     json:"url"`
	Format  string            `yaml:"format"  json:"format"` // "generic", "slack", "pagerduty"
	Events  []string          `yaml:"events"  json:"events"` // event types, e.g. ["recovery_claim_initiated"]
	Headers map[string]string `yaml:"headers" json:"headers"`
}

// AlertEvent is the payload sent to webhook endpoints. It mirrors the
// authority's observability events.
type AlertEvent struct {
	Timestamp string `json:"timestamp"`
	Authority string `json:"authority"`
	Type      string `json:"type"`
	Previous  string `json:"previous,omitempty"`
	New       string `json:"new,omitempty"`
	From      string `json:"from,omitempty"`
	Amount    uint64 `json:"amount,omitempty"`
}
