package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(EntriesCreated.WithLabelValues("bank_withdrawal"))
	EntriesCreated.WithLabelValues("bank_withdrawal").Inc()
	after := testutil.ToFloat64(EntriesCreated.WithLabelValues("bank_withdrawal"))

	if after != before+1 {
		t.Fatalf("expected counter to increment, got %f -> %f", before, after)
	}

	before = testutil.ToFloat64(StatusTransitions.WithLabelValues("withdrawal", "approved"))
	StatusTransitions.WithLabelValues("withdrawal", "approved").Inc()
	after = testutil.ToFloat64(StatusTransitions.WithLabelValues("withdrawal", "approved"))

	if after != before+1 {
		t.Fatalf("expected counter to increment, got %f -> %f", before, after)
	}
}
