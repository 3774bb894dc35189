package services

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

const streamsPerMillion = 1_000_000

// EstimatePayout converts a stream count to a currency amount at ratePerMillion.
// Negative or non-finite inputs are rejected.
func EstimatePayout(streams int64, ratePerMillion float64) (float64, error) {
	if streams < 0 {
		return 0, fmt.Errorf("%w: streams must not be negative", ErrInvalidPayout)
	}
	if err := ValidatePayoutRate(ratePerMillion); err != nil {
		return 0, err
	}
	return float64(streams) / streamsPerMillion * ratePerMillion, nil
}

func ValidatePayoutRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("%w: rate must be a finite number", ErrInvalidPayout)
	}
	if rate < 0 {
		return fmt.Errorf("%w: rate must not be negative", ErrInvalidPayout)
	}
	return nil
}

// RoundedPayout is EstimatePayout rounded to whole currency units. Callers
// validate the rate once up front; an invalid input rounds to zero here.
func RoundedPayout(streams int64, ratePerMillion float64) int64 {
	v, err := EstimatePayout(streams, ratePerMillion)
	if err != nil {
		return 0
	}
	return int64(math.Round(v))
}

// FormatCurrency renders a whole-unit amount as "$12,345".
func FormatCurrency(amount int64) string {
	if amount < 0 {
		return "-$" + humanize.Comma(-amount)
	}
	return "$" + humanize.Comma(amount)
}
