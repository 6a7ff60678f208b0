package alert

import (
	"encoding/json"
	"fmt"
)

// FormatPayload builds the webhook body for the given format.
func FormatPayload(format string, event AlertEvent) ([]byte, error) {
	switch format {
	case "slack":
		return formatSlack(event)
	case "pagerduty":
		return formatPagerDuty(event)
	default:
		return formatGeneric(event)
	}
}

func formatGeneric(event AlertEvent) ([]byte, error) {
	return json.Marshal(event)
}

func formatSlack(event AlertEvent) ([]byte, error) {
	fields := []any{
		map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Authority:* %s", event.Authority)},
		map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Event:* %s", event.Type)},
	}
	if event.Previous != "" || event.New != "" {
		fields = append(fields,
			map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Previous:* %s", event.Previous)},
			map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*New:* %s", event.New)},
		)
	}
	if event.From != "" {
		fields = append(fields,
			map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*From:* %s", event.From)},
		)
	}

	payload := map[string]any{
		"blocks": []any{
			map[string]any{
				"type": "header",
				"text": map[string]any{
					"type": "plain_text",
					"text": fmt.Sprintf("relaywarden: %s", event.Type),
				},
			},
			map[string]any{
				"type":   "section",
				"fields": fields,
			},
		},
	}
	return json.Marshal(payload)
}

func formatPagerDuty(event AlertEvent) ([]byte, error) {
	payload := map[string]any{
		"event_action": "trigger",
		"payload": map[string]any{
			"summary":  fmt.Sprintf("relaywarden %s on %s", event.Type, event.Authority),
			"severity": severityFor(event.Type),
			"source":   "relaywarden",
			"custom_details": map[string]any{
				"authority": event.Authority,
				"type":      event.Type,
				"previous":  event.Previous,
				"new":       event.New,
				"from":      event.From,
				"amount":    event.Amount,
			},
		},
	}
	return json.Marshal(payload)
}

// severityFor ranks event types: the break-glass path and ownership
// changes page, routine observability stays informational.
func severityFor(eventType string) string {
	switch eventType {
	case "recovery_claim_initiated":
		return "critical"
	case "ownership_transferred", "recovery_permission_transferred":
		return "error"
	case "ownership_offered", "recovery_claim_renounced":
		return "warning"
	default:
		return "info"
	}
}
