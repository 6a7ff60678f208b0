package event

import (
	"encoding/json"
	"fmt"
	"strings"
)

const separator = "──────────────────────────────────────────────────────────────────"

// FormatTimeline renders a QueryResult as a human-readable text timeline.
func FormatTimeline(result *QueryResult) string {
	if len(result.Entries) == 0 {
		if result.Authority != "" {
			return fmt.Sprintf("Authority: %s | No entries found.\n", result.Authority)
		}
		return "No entries found.\n"
	}

	var b strings.Builder

	if result.Authority != "" {
		b.WriteString(fmt.Sprintf("Authority: %s | %s–%s UTC\n",
			result.Authority, result.Summary.FirstTimestamp, result.Summary.LastTimestamp))
	} else {
		b.WriteString(fmt.Sprintf("%s–%s UTC\n",
			result.Summary.FirstTimestamp, result.Summary.LastTimestamp))
	}
	b.WriteString(separator + "\n")

	for _, e := range result.Entries {
		b.WriteString(fmt.Sprintf("%-24s %-32s %s\n", e.Timestamp, e.Type, detail(e)))
	}

	b.WriteString(separator + "\n")
	b.WriteString(fmt.Sprintf("Total: %d | offered: %d | transferred: %d | recovery: %d | value: %d | calls: %d\n",
		result.Summary.Total, result.Summary.OfferedCount, result.Summary.TransferredCount,
		result.Summary.RecoveryCount, result.Summary.ValueCount, result.Summary.CallCount))

	return b.String()
}

func detail(e Entry) string {
	switch {
	case e.Type == "call_forwarded":
		return fmt.Sprintf("target=%s value=%d", e.Target, e.Amount)
	case e.Type == "value_received":
		return fmt.Sprintf("from=%s amount=%d", e.From, e.Amount)
	case e.Previous != "" || e.New != "":
		return fmt.Sprintf("%s -> %s", orNull(e.Previous), orNull(e.New))
	default:
		return ""
	}
}

func orNull(s string) string {
	if s == "" {
		return "(null)"
	}
	return s
}

// FormatJSON renders a QueryResult as indented JSON.
func FormatJSON(result *QueryResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal query result: %w", err)
	}
	return string(data), nil
}
