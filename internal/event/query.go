package event

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Filter holds criteria for querying the ledger.
type Filter struct {
	Authority string    // empty = all authorities
	Type      string    // empty = all event types
	From      time.Time // zero value = no lower bound
	To        time.Time // zero value = no upper bound
}

// Summary holds per-type counts and metadata for a queried range.
type Summary struct {
	Total            int    `json:"total"`
	OfferedCount     int    `json:"offered_count"`
	TransferredCount int    `json:"transferred_count"`
	RecoveryCount    int    `json:"recovery_count"`
	ValueCount       int    `json:"value_count"`
	CallCount        int    `json:"call_count"`
	FirstTimestamp   string `json:"first_timestamp"`
	LastTimestamp    string `json:"last_timestamp"`
}

// QueryResult holds filtered entries and their summary.
type QueryResult struct {
	Authority string  `json:"authority,omitempty"`
	Entries   []Entry `json:"entries"`
	Summary   Summary `json:"summary"`
}

// Query reads the ledger and returns entries matching the filter.
func Query(path string, filter Filter) (*QueryResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event ledger: %w", err)
	}
	defer f.Close()

	result := &QueryResult{
		Authority: filter.Authority,
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue // skip malformed lines
		}

		if filter.Authority != "" && entry.Authority != filter.Authority {
			continue
		}
		if filter.Type != "" && entry.Type != filter.Type {
			continue
		}

		if !filter.From.IsZero() || !filter.To.IsZero() {
			ts, err := time.Parse(TimestampFormat, entry.Timestamp)
			if err != nil {
				continue // skip unparseable timestamps
			}
			if !filter.From.IsZero() && ts.Before(filter.From) {
				continue
			}
			if !filter.To.IsZero() && ts.After(filter.To) {
				continue
			}
		}

		result.Entries = append(result.Entries, entry)
		updateSummary(&result.Summary, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read event ledger: %w", err)
	}

	return result, nil
}

func updateSummary(s *Summary, entry Entry) {
	s.Total++

	switch entry.Type {
	case "ownership_offered":
		s.OfferedCount++
	case "ownership_transferred":
		s.TransferredCount++
	case "recovery_claim_initiated", "recovery_claim_renounced", "recovery_permission_transferred":
		s.RecoveryCount++
	case "value_received":
		s.ValueCount++
	case "call_forwarded":
		s.CallCount++
	}

	if s.FirstTimestamp == "" {
		s.FirstTimestamp = entry.Timestamp
	}
	s.LastTimestamp = entry.Timestamp
}
