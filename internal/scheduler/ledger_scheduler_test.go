package scheduler

import (
	"errors"
	"testing"

	"github.com/sibors/sibors-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
)

type stubVerifier struct {
	reports []service.LedgerReport
	err     error
	calls   int
}

func (v *stubVerifier) VerifyAllLedgers() ([]service.LedgerReport, error) {
	v.calls++
	return v.reports, v.err
}

func TestLedgerScheduler_RunOnce(t *testing.T) {
	tests := []struct {
		name     string
		verifier *stubVerifier
		want     int
	}{
		{
			name: "All consistent",
			verifier: &stubVerifier{reports: []service.LedgerReport{
				{VariantID: 1, Consistent: true},
				{VariantID: 2, Consistent: true},
			}},
			want: 0,
		},
		{
			name: "One mismatch",
			verifier: &stubVerifier{reports: []service.LedgerReport{
				{VariantID: 1, Consistent: true},
				{VariantID: 2, Consistent: false, Issues: []string{"stock 4 != ledger 3"}},
			}},
			want: 1,
		},
		{
			name:     "Verifier failure",
			verifier: &stubVerifier{err: errors.New("db closed")},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLedgerScheduler(tt.verifier, "")
			assert.Equal(t, tt.want, s.RunOnce())
			assert.Equal(t, 1, tt.verifier.calls)
		})
	}
}

func TestLedgerScheduler_Start(t *testing.T) {
	s := NewLedgerScheduler(&stubVerifier{}, "")
	assert.Equal(t, DefaultLedgerSchedule, s.schedule)
	assert.NoError(t, s.Start())
	s.Stop()

	bad := NewLedgerScheduler(&stubVerifier{}, "not a schedule")
	assert.Error(t, bad.Start())
}
