package services

import (
	"errors"
	"math"
	"testing"
)

func TestEstimatePayout(t *testing.T) {
	got, err := EstimatePayout(2_000_000, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if got != 10000 {
		t.Fatalf("expected 10000, got %v", got)
	}

	got, err = EstimatePayout(0, 5000)
	if err != nil || got != 0 {
		t.Fatalf("zero streams: got %v, %v", got, err)
	}
	got, err = EstimatePayout(1_500_000, 0)
	if err != nil || got != 0 {
		t.Fatalf("zero rate: got %v, %v", got, err)
	}
}

func TestEstimatePayoutRejectsBadInput(t *testing.T) {
	cases := []struct {
		streams int64
		rate    float64
	}{
		{-1, 5000},
		{100, -0.5},
		{100, math.NaN()},
		{100, math.Inf(1)},
		{100, math.Inf(-1)},
	}
	for _, tc := range cases {
		if _, err := EstimatePayout(tc.streams, tc.rate); !errors.Is(err, ErrInvalidPayout) {
			t.Fatalf("streams=%d rate=%v: expected ErrInvalidPayout, got %v", tc.streams, tc.rate, err)
		}
	}
}

func TestRoundedPayout(t *testing.T) {
	if got := RoundedPayout(1_234_567, 5000); got != 6173 {
		t.Fatalf("expected 6173, got %d", got)
	}
	if got := RoundedPayout(100, math.NaN()); got != 0 {
		t.Fatalf("invalid rate should round to 0, got %d", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	for in, want := range map[int64]string{
		0:         "$0",
		999:       "$999",
		10000:     "$10,000",
		1_234_567: "$1,234,567",
		-5:        "-$5",
	} {
		if got := FormatCurrency(in); got != want {
			t.Fatalf("FormatCurrency(%d) = %q, want %q", in, got, want)
		}
	}
}
