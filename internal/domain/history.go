package domain

import "time"

// History record kinds. The set is open-ended; renderers treat unknown
// kinds and parameter keys as pass-through.
const (
	HistoryStatusChange = "status_change"
	HistoryNotesUpdate  = "notes_update"
	HistoryAmountUpdate = "amount_update"
	HistoryInfo         = "info"
)

// HistoryRecord is one immutable audit-log line attached to a ledger entry.
// MessageKey is an opaque translation key; interpolation of Parameters
// happens in the presentation layer so the log stays language-agnostic.
type HistoryRecord struct {
	EntryID    string
	Sequence   int64
	MessageKey string
	Kind       string
	Parameters map[string]any
	ActorName  *string
	RecordedAt time.Time
}
