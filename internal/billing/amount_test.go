package billing_test

import (
	"math"
	"testing"

	"github.com/str8builders/invoice/internal/billing"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		rate  float64
		want  float64
	}{
		{name: "whole hours at 65", hours: 3, rate: 65, want: 195},
		{name: "whole hours at 60", hours: 2, rate: 60, want: 120},
		{name: "zero hours", hours: 0, rate: 65, want: 0},
		{name: "zero rate", hours: 3, rate: 0, want: 0},
		{name: "half dollar rounds away from zero", hours: 3.5, rate: 65, want: 228},
		{name: "fractional product rounds down", hours: 2.4, rate: 60, want: 144},
		{name: "fractional product rounds up", hours: 1.33, rate: 60, want: 80},
		{name: "nan hours treated as zero", hours: math.NaN(), rate: 65, want: 0},
		{name: "infinite rate treated as zero", hours: 2, rate: math.Inf(1), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := billing.Amount(tt.hours, tt.rate); got != tt.want {
				t.Errorf("Amount(%v, %v) = %v, want %v", tt.hours, tt.rate, got, tt.want)
			}
		})
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "half rounds up", in: 2.5, want: 3},
		{name: "half rounds away when negative", in: -2.5, want: -3},
		{name: "below half rounds down", in: 2.4999, want: 2},
		{name: "above half rounds up", in: 19.5, want: 20},
		{name: "whole stays", in: 130, want: 130},
		{name: "nan collapses to zero", in: math.NaN(), want: 0},
		{name: "inf collapses to zero", in: math.Inf(-1), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := billing.Round(tt.in); got != tt.want {
				t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
