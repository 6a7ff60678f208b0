package event

// TimestampFormat is the layout used in ledger entry timestamps.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Entry is one line in the hash-chained JSONL event ledger. All fields are
// scalars (no map[string]any) to guarantee deterministic json.Marshal field
// order for reproducible hashing.
type Entry struct {
	Timestamp string `json:"ts"`
	Authority string `json:"authority"`
	Type      string `json:"type"`
	Previous  string `json:"previous,omitempty"`
	New       string `json:"new,omitempty"`
	From      string `json:"from,omitempty"`
	Target    string `json:"target,omitempty"`
	Amount    uint64 `json:"amount,omitempty"`
	PrevHash  string `json:"prev_hash"`
}
