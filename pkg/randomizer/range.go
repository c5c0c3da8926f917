package randomizer

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/aretw0/thicket/pkg/domain"
)

// Range draws integers uniformly from the inclusive range [Low, High].
type Range struct {
	low, high int
}

// NewRange creates a Range randomizer. It fails when low > high.
func NewRange(low, high int) (*Range, error) {
	if low > high {
		return nil, &domain.ConstructionError{
			Randomizer: "range",
			Reason:     fmt.Sprintf("low %d is greater than high %d", low, high),
			Err:        domain.ErrInvalidRange,
		}
	}
	return &Range{low: low, high: high}, nil
}

// Bounds returns the inclusive bounds.
func (rg *Range) Bounds() (low, high int) {
	return rg.low, rg.high
}

// Generate returns an int in [low, high]. It always yields a value.
func (rg *Range) Generate(r *rand.Rand) (any, bool) {
	span := uint64(rg.high-rg.low) + 1
	if span == 0 {
		// full int64 range
		return int(r.Uint64()), true
	}
	return rg.low + int(r.Uint64N(span)), true
}

func (rg *Range) String() string {
	return fmt.Sprintf("range(%d, %d)", rg.low, rg.high)
}

// DateLayout is the day-granularity format produced by DateRange.
const DateLayout = time.DateOnly

// DateRange draws calendar days uniformly from an inclusive range and renders
// them as "YYYY-MM-DD".
type DateRange struct {
	low  time.Time
	days int64
	gate gate
}

// NewDateRange creates a DateRange randomizer. Both bounds are truncated to
// their UTC calendar day; it fails when low falls after high.
func NewDateRange(low, high time.Time, opts ...Option) (*DateRange, error) {
	o, err := buildOptions("date_range", opts)
	if err != nil {
		return nil, err
	}

	lo, hi := day(low), day(high)
	if lo.After(hi) {
		return nil, &domain.ConstructionError{
			Randomizer: "date_range",
			Reason:     fmt.Sprintf("low %s is after high %s", lo.Format(DateLayout), hi.Format(DateLayout)),
			Err:        domain.ErrInvalidRange,
		}
	}

	return &DateRange{
		low:  lo,
		days: int64(hi.Sub(lo)/(24*time.Hour)) + 1,
		gate: gate(o.probability),
	}, nil
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Generate returns a date string, or no value with probability 1-p.
func (dr *DateRange) Generate(r *rand.Rand) (any, bool) {
	if !dr.gate.pass(r) {
		return nil, false
	}
	offset := r.Int64N(dr.days)
	return dr.low.AddDate(0, 0, int(offset)).Format(DateLayout), true
}

func (dr *DateRange) probability() gate { return dr.gate }

func (dr *DateRange) String() string {
	high := dr.low.AddDate(0, 0, int(dr.days-1))
	return fmt.Sprintf("date_range(%s, %s)%s", dr.low.Format(DateLayout), high.Format(DateLayout), suffix(dr.gate))
}

func suffix(g gate) string {
	if g >= 1 {
		return ""
	}
	return fmt.Sprintf(" p=%g", float64(g))
}
