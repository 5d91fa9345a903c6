package dto

import "github.com/shopspring/decimal"

// ComputePayoutRequest asks for a payout report over a date window. Dates use
// the YYYY-MM-DD format, both bounds inclusive. Refresh bypasses the cached
// report and recomputes from the ledger.
type ComputePayoutRequest struct {
	ClientType  string `json:"client_type" validate:"required,oneof=mro verisma datavant"`
	PeriodStart string `json:"period_start" validate:"required"`
	PeriodEnd   string `json:"period_end" validate:"required"`
	ResourceID  *uint  `json:"resource_id,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`
	// Internal: populated by handler from auth claims
	AdminID   uint   `json:"-"`
	AdminName string `json:"-"`
}

// TargetProgressDTO reports the cases still needed to reach a rate target
type TargetProgressDTO struct {
	Target      float64 `json:"target"`
	CasesNeeded int     `json:"cases_needed"`
}

// PayoutResultDTO is the computed payout line for one resource
type PayoutResultDTO struct {
	ResourceID           uint                `json:"resource_id"`
	ResourceName         string              `json:"resource_name"`
	WeekdayDaysWorked    int                 `json:"weekday_days_worked"`
	TotalHours           float64             `json:"total_hours"`
	LoggingCases         int                 `json:"logging_cases"`
	ProcessingCases      int                 `json:"processing_cases"`
	CompleteLoggingCases int                 `json:"complete_logging_cases"`
	AvgCasesPerHour      float64             `json:"avg_cases_per_hour"`
	SlabRate             decimal.Decimal     `json:"slab_rate"`
	BasicPayout          decimal.Decimal     `json:"basic_payout"`
	Bonus                decimal.Decimal     `json:"bonus"`
	TotalPayout          decimal.Decimal     `json:"total_payout"`
	BilledAmount         decimal.Decimal     `json:"billed_amount"`
	ToAchieve            []TargetProgressDTO `json:"to_achieve"`
	WorkingDaysRemaining *int                `json:"working_days_remaining,omitempty"`
}

// PayoutTotalsDTO aggregates the report across resources
type PayoutTotalsDTO struct {
	Resources       int             `json:"resources"`
	LoggingCases    int             `json:"logging_cases"`
	ProcessingCases int             `json:"processing_cases"`
	TotalPayout     decimal.Decimal `json:"total_payout"`
	BilledAmount    decimal.Decimal `json:"billed_amount"`
}

// ComputePayoutResponse returns the payout report, one line per resource
// sorted by resource id
type ComputePayoutResponse struct {
	Message     string            `json:"message"`
	ClientType  string            `json:"client_type"`
	PeriodStart string            `json:"period_start"`
	PeriodEnd   string            `json:"period_end"`
	ComputedAt  string            `json:"computed_at"`
	FromCache   bool              `json:"from_cache,omitempty"`
	Results     []PayoutResultDTO `json:"results"`
	Totals      PayoutTotalsDTO   `json:"totals"`
}
