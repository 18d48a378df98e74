package verifier

import (
	"time"

	"premolt/internal/domain"
)

// Ledger is the append-only finding log of a single evaluation. It is never
// shared between evaluations and has no removal operation.
type Ledger struct {
	now     func() time.Time
	entries []domain.Finding
}

func NewLedger(now func() time.Time) *Ledger {
	if now == nil {
		now = defaultNow
	}
	return &Ledger{now: now}
}

func (l *Ledger) Record(level domain.Severity, message string) {
	l.entries = append(l.entries, domain.Finding{
		Timestamp: l.now(),
		Message:   message,
		Level:     level,
	})
}

// All returns the findings in emission order. The slice is a copy.
func (l *Ledger) All() []domain.Finding {
	out := make([]domain.Finding, len(l.entries))
	copy(out, l.entries)
	return out
}

func defaultNow() time.Time { return time.Now().UTC() }
