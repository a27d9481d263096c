package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{"pending funds", StatusPending, StatusFunded, false},
		{"pending denied", StatusPending, StatusDenied, false},
		{"funded completes", StatusFunded, StatusCompleted, false},
		{"funded goes overdue", StatusFunded, StatusOverdue, false},
		{"overdue completes", StatusOverdue, StatusCompleted, false},
		{"denied is terminal", StatusDenied, StatusFunded, true},
		{"completed is terminal", StatusCompleted, StatusFunded, true},
		{"overdue cannot unwind", StatusOverdue, StatusFunded, true},
		{"pending cannot complete", StatusPending, StatusCompleted, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Loan{Status: tt.from}
			err := l.Transition(tt.to, now)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, l.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, l.Status)
			assert.Equal(t, now, l.StatusUpdatedAt)
		})
	}
}

func TestTransition_SameStatusIsNoOp(t *testing.T) {
	stamp := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := &Loan{Status: StatusFunded, StatusUpdatedAt: stamp}

	require.NoError(t, l.Transition(StatusFunded, stamp.Add(time.Hour)))
	assert.Equal(t, stamp, l.StatusUpdatedAt, "repeat confirmation must not bump the stamp")
}

func TestHealthForDaysLate(t *testing.T) {
	assert.Equal(t, HealthBehind, HealthForDaysLate(1))
	assert.Equal(t, HealthBehind, HealthForDaysLate(14))
	assert.Equal(t, HealthFailing, HealthForDaysLate(15))
	assert.Equal(t, HealthFailing, HealthForDaysLate(30))
	assert.Equal(t, HealthDefaulted, HealthForDaysLate(31))
}

func TestDegrade_NeverImproves(t *testing.T) {
	l := &Loan{Health: HealthFailing}
	l.Degrade(HealthBehind)
	assert.Equal(t, HealthFailing, l.Health)
	l.Degrade(HealthDefaulted)
	assert.Equal(t, HealthDefaulted, l.Health)
}

func TestDaysLate(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	l := &Loan{PaybackDate: due}

	assert.Zero(t, l.DaysLate(due))
	assert.Zero(t, l.DaysLate(due.Add(-time.Hour)))
	assert.Equal(t, 0, l.DaysLate(due.Add(12*time.Hour)), "partial days do not count")
	assert.Equal(t, 5, l.DaysLate(due.Add(5*24*time.Hour)))
}
