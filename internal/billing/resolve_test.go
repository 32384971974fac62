package billing_test

import (
	"testing"

	"github.com/str8builders/invoice/internal/billing"
)

func TestResolveMetrics(t *testing.T) {
	tests := []struct {
		name   string
		target float64
		want   billing.Metrics
	}{
		{
			name:   "exact fit at higher rate wins outright",
			target: 130,
			want:   billing.Metrics{Hours: 2, Rate: 65, Amount: 130},
		},
		{
			name:   "exact fit at lower rate",
			target: 240,
			want:   billing.Metrics{Hours: 4, Rate: 60, Amount: 240},
		},
		{
			name:   "single hour at higher rate",
			target: 65,
			want:   billing.Metrics{Hours: 1, Rate: 65, Amount: 65},
		},
		{
			name:   "no exact fit keeps closest snap",
			target: 100,
			want:   billing.Metrics{Hours: 2, Rate: 60, Amount: 120},
		},
		{
			name:   "tiny target clamps to one hour",
			target: 25,
			want:   billing.Metrics{Hours: 1, Rate: 60, Amount: 60},
		},
		{
			name:   "half hour boundary rounds away inside search",
			target: 390,
			want:   billing.Metrics{Hours: 6, Rate: 65, Amount: 390},
		},
		{
			name:   "large target",
			target: 1300,
			want:   billing.Metrics{Hours: 20, Rate: 65, Amount: 1300},
		},
		{
			name:   "zero target short-circuits to default rate",
			target: 0,
			want:   billing.Metrics{Hours: 0, Rate: 60, Amount: 0},
		},
		{
			name:   "negative target degrades like zero",
			target: -45,
			want:   billing.Metrics{Hours: 0, Rate: 60, Amount: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := billing.ResolveMetrics(tt.target); got != tt.want {
				t.Errorf("ResolveMetrics(%v) = %+v, want %+v", tt.target, got, tt.want)
			}
		})
	}
}

// 780 decomposes exactly at both allowed rates (13x60 and 12x65). The
// earlier-listed rate must win the tie: the best candidate is only displaced
// by a strictly smaller difference.
func TestResolveMetricsTieFavoursEarlierRate(t *testing.T) {
	got := billing.ResolveMetrics(780)
	want := billing.Metrics{Hours: 13, Rate: 60, Amount: 780}
	if got != want {
		t.Errorf("ResolveMetrics(780) = %+v, want %+v", got, want)
	}
}
