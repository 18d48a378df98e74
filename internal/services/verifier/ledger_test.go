package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"premolt/internal/domain"
)

func TestLedger_PreservesOrderAndCopies(t *testing.T) {
	l := NewLedger(fixedClock())
	l.Record(domain.SeverityInfo, "first")
	l.Record(domain.SeverityWarning, "second")
	l.Record(domain.SeverityError, "third")

	all := l.All()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{all[0].Message, all[1].Message, all[2].Message})
	assert.True(t, all[0].Timestamp.Before(all[1].Timestamp))
	assert.True(t, all[1].Timestamp.Before(all[2].Timestamp))

	all[0].Message = "mutated"
	assert.Equal(t, "first", l.All()[0].Message)
	assert.Len(t, l.All(), 3)
}

func TestLedger_DefaultClockIsUTC(t *testing.T) {
	l := NewLedger(nil)
	l.Record(domain.SeverityInfo, "x")
	assert.Equal(t, "UTC", l.All()[0].Timestamp.Location().String())
}
