package models

import (
	"fmt"
	"time"

	"github.com/recordflow/allocation-ledger/utils"
	"github.com/shopspring/decimal"
)

// PayoutSlab is one productivity tier: resources whose average cases per
// working hour fall inside [Min, Max] earn Rate per logging case. Slabs form
// an ordered partition of [0, inf); the last slab's Max is treated as
// unbounded regardless of its stored value.
type PayoutSlab struct {
	Min  float64         `json:"min"`
	Max  float64         `json:"max"`
	Rate decimal.Decimal `json:"rate"`
}

// PayoutConfig bundles the slab table with the bonus ceiling and the fixed
// target thresholds reported by the to-achieve metrics.
type PayoutConfig struct {
	Slabs   []PayoutSlab    `json:"slabs"`
	TopRate decimal.Decimal `json:"top_rate"`
	Targets []float64       `json:"targets"`
}

// Validate checks that the slab table is an ordered partition starting at
// zero with strictly ascending boundaries.
func (c *PayoutConfig) Validate() error {
	if len(c.Slabs) == 0 {
		return fmt.Errorf("payout config requires at least one slab")
	}
	if c.Slabs[0].Min != 0 {
		return fmt.Errorf("first slab must start at 0, got %v", c.Slabs[0].Min)
	}
	for i := 1; i < len(c.Slabs); i++ {
		prev, cur := c.Slabs[i-1], c.Slabs[i]
		if cur.Min <= prev.Min {
			return fmt.Errorf("slab %d min %v does not ascend past %v", i, cur.Min, prev.Min)
		}
		if prev.Max >= cur.Min {
			return fmt.Errorf("slab %d overlaps its predecessor (%v >= %v)", i, prev.Max, cur.Min)
		}
	}
	for _, t := range c.Targets {
		if t < 0 {
			return fmt.Errorf("negative target threshold %v", t)
		}
	}
	return nil
}

// SlabFor selects the slab for an average-cases-per-hour value: the last slab
// whose Min does not exceed the value. A value sitting exactly on a slab
// boundary therefore resolves to the slab whose Min it is, and anything past
// the last slab's Min lands in the last slab (its Max is unbounded).
func (c *PayoutConfig) SlabFor(value float64) PayoutSlab {
	idx := 0
	for i, s := range c.Slabs {
		if value >= s.Min {
			idx = i
		} else {
			break
		}
	}
	return c.Slabs[idx]
}

// WorkingDaysConfig carries the period-shape inputs of a payout computation.
// HoursPerDay defaults to the fixed 8-hour workday when non-positive. Today
// is optional and feeds only the informational working-days-remaining figure;
// payout amounts never depend on it.
type WorkingDaysConfig struct {
	HoursPerDay int        `json:"hours_per_day"`
	PeriodStart time.Time  `json:"period_start"`
	PeriodEnd   time.Time  `json:"period_end"`
	Today       *time.Time `json:"today,omitempty"`
}

// EffectiveHoursPerDay applies the defensive 8-hour default
func (w *WorkingDaysConfig) EffectiveHoursPerDay() int {
	if w.HoursPerDay <= 0 {
		return utils.HoursPerWorkday
	}
	return w.HoursPerDay
}

// WorkingDaysRemaining counts the Mon-Fri days strictly after Today through
// the period end. Nil when Today was not supplied.
func (w *WorkingDaysConfig) WorkingDaysRemaining() *int {
	if w.Today == nil || w.PeriodEnd.IsZero() {
		return nil
	}
	remaining := utils.WeekdaysBetween(utils.DateOnly(*w.Today).AddDate(0, 0, 1), w.PeriodEnd)
	return &remaining
}

// TargetProgress reports how many more logging cases a resource needs this
// period to reach one productivity target.
type TargetProgress struct {
	Target      float64 `json:"target"`
	CasesNeeded int     `json:"cases_needed"`
}

// PerResourceResult is one row of a payout report, scoped to a single
// resource within a single client ledger.
type PerResourceResult struct {
	ClientType   ClientType `json:"client_type"`
	ResourceID   uint       `json:"resource_id"`
	ResourceName string     `json:"resource_name"`

	WeekdayDaysWorked    int     `json:"weekday_days_worked"`
	TotalHours           int     `json:"total_hours"`
	LoggingCases         int     `json:"logging_cases"`
	ProcessingCases      int     `json:"processing_cases"`
	CompleteLoggingCases int     `json:"complete_logging_cases"`
	AvgCasesPerHour      float64 `json:"avg_cases_per_hour"`

	SlabRate    decimal.Decimal `json:"slab_rate"`
	BasicPayout decimal.Decimal `json:"basic_payout"`
	Bonus       decimal.Decimal `json:"bonus"`
	TotalPayout decimal.Decimal `json:"total_payout"`

	// BilledAmount sums the entries' stored billing amounts for the period;
	// informational alongside the productivity payout.
	BilledAmount decimal.Decimal `json:"billed_amount"`

	ToAchieve []TargetProgress `json:"to_achieve"`

	WorkingDaysRemaining *int `json:"working_days_remaining,omitempty"`
}
