package event

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func seedLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	entries := []Entry{
		{Timestamp: "2026-01-15T10:00:00.000Z", Authority: "warden-a", Type: "ownership_offered", Previous: "0xaa", New: "0xbb"},
		{Timestamp: "2026-01-15T11:00:00.000Z", Authority: "warden-a", Type: "ownership_transferred", Previous: "0xaa", New: "0xbb"},
		{Timestamp: "2026-01-15T12:00:00.000Z", Authority: "warden-b", Type: "value_received", From: "0xcc", Amount: 7},
		{Timestamp: "2026-01-15T13:00:00.000Z", Authority: "warden-a", Type: "recovery_claim_initiated", From: "0xdd"},
	}
	for _, e := range entries {
		if err := l.Record(e); err != nil {
			t.Fatal(err)
		}
	}
	l.Close()
	return path
}

func TestQueryFiltersByAuthority(t *testing.T) {
	path := seedLedger(t)

	result, err := Query(path, Filter{Authority: "warden-a"})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("expected 3 entries for warden-a, got %d", len(result.Entries))
	}
	if result.Summary.Total != 3 {
		t.Fatalf("expected summary total 3, got %d", result.Summary.Total)
	}
	if result.Summary.OfferedCount != 1 || result.Summary.TransferredCount != 1 || result.Summary.RecoveryCount != 1 {
		t.Fatalf("unexpected summary counts: %+v", result.Summary)
	}
}

func TestQueryFiltersByType(t *testing.T) {
	path := seedLedger(t)

	result, err := Query(path, Filter{Type: "value_received"})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 value_received entry, got %d", len(result.Entries))
	}
	if result.Entries[0].Amount != 7 {
		t.Fatalf("expected amount 7, got %d", result.Entries[0].Amount)
	}
}

func TestQueryFiltersByTimeRange(t *testing.T) {
	path := seedLedger(t)

	from := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	to := time.Date(2026, 1, 15, 12, 30, 0, 0, time.UTC)
	result, err := Query(path, Filter{From: from, To: to})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries in range, got %d", len(result.Entries))
	}
	if result.Summary.FirstTimestamp != "2026-01-15T11:00:00.000Z" {
		t.Fatalf("unexpected first timestamp: %s", result.Summary.FirstTimestamp)
	}
}

func TestQuerySkipsMalformedLines(t *testing.T) {
	path := seedLedger(t)

	// Corrupt the file with a garbage line, query should still work
	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	l.file.Write([]byte("not json\n"))
	l.Close()

	result, err := Query(path, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Summary.Total != 4 {
		t.Fatalf("expected 4 parseable entries, got %d", result.Summary.Total)
	}
}

func TestFormatTimeline(t *testing.T) {
	path := seedLedger(t)

	result, err := Query(path, Filter{Authority: "warden-a"})
	if err != nil {
		t.Fatal(err)
	}

	out := FormatTimeline(result)
	if !strings.Contains(out, "Authority: warden-a") {
		t.Errorf("expected authority header, got:\n%s", out)
	}
	if !strings.Contains(out, "ownership_transferred") {
		t.Errorf("expected ownership_transferred row, got:\n%s", out)
	}
	if !strings.Contains(out, "Total: 3") {
		t.Errorf("expected summary footer, got:\n%s", out)
	}
}

func TestFormatTimelineEmpty(t *testing.T) {
	out := FormatTimeline(&QueryResult{Authority: "warden-x"})
	if !strings.Contains(out, "No entries found") {
		t.Errorf("expected empty notice, got: %s", out)
	}
}
