// Package businessflow contains the core business logic and use cases for payout workflows
package businessflow

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/recordflow/allocation-ledger/models"
	"github.com/recordflow/allocation-ledger/utils"
	"github.com/shopspring/decimal"
)

// payoutKey groups entries per resource within one client ledger
type payoutKey struct {
	clientType models.ClientType
	resourceID uint
}

// payoutAccum collects one resource's raw figures before the money math
type payoutAccum struct {
	resourceName         string
	loggingCases         int
	processingCases      int
	completeLoggingCases int
	billedAmount         decimal.Decimal
	weekdays             map[time.Time]struct{}
}

// ComputePayout derives per-resource payout rows from a snapshot of ledger
// entries. The function is pure: it reads nothing beyond its arguments,
// writes nothing, and produces bit-identical results for identical inputs.
// Results are sorted by client then resource id.
//
// Cases split into logging and processing by the process catalog; only
// logging cases earn. Days worked are the distinct Mon-Fri dates carrying at
// least one logging entry; weekend entries add cases but never days. The
// average cases per hour selects a slab, every logging case earns the slab
// rate, and complete-logging cases additionally earn the gap up to the top
// rate. Bad records never fail the computation: a count below one counts as
// one, a process missing from the catalog counts as processing.
func ComputePayout(entries []*models.AllocationEntry, catalog models.ProcessCatalog, cfg models.PayoutConfig, days models.WorkingDaysConfig) ([]models.PerResourceResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPayoutConfigInvalid, err.Error())
	}

	accums := make(map[payoutKey]*payoutAccum)

	for _, entry := range entries {
		if entry == nil || entry.IsDeleted {
			continue
		}

		key := payoutKey{clientType: entry.ClientType, resourceID: entry.ResourceID}
		acc, ok := accums[key]
		if !ok {
			acc = &payoutAccum{
				resourceName: entry.ResourceName,
				billedAmount: decimal.Zero,
				weekdays:     make(map[time.Time]struct{}),
			}
			accums[key] = acc
		}
		if acc.resourceName == "" {
			acc.resourceName = entry.ResourceName
		}

		count := entry.Count
		if count < 1 {
			count = 1
		}

		if catalog[entry.ProcessID].IsLogging {
			acc.loggingCases += count
			if catalog[entry.ProcessID].IsCompleteLogging {
				acc.completeLoggingCases += count
			}
			date := utils.DateOnly(entry.AllocationDate)
			if utils.IsWeekday(date) {
				acc.weekdays[date] = struct{}{}
			}
		} else {
			acc.processingCases += count
		}

		acc.billedAmount = acc.billedAmount.Add(entry.BillingAmount)
	}

	keys := make([]payoutKey, 0, len(accums))
	for key := range accums {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b payoutKey) int {
		if c := strings.Compare(string(a.clientType), string(b.clientType)); c != 0 {
			return c
		}
		return cmp.Compare(a.resourceID, b.resourceID)
	})

	hoursPerDay := days.EffectiveHoursPerDay()

	results := make([]models.PerResourceResult, 0, len(keys))
	for _, key := range keys {
		acc := accums[key]

		daysWorked := len(acc.weekdays)
		totalHours := daysWorked * hoursPerDay

		avg := 0.0
		if totalHours > 0 {
			avg = float64(acc.loggingCases) / float64(totalHours)
		}

		slab := cfg.SlabFor(avg)

		basic := slab.Rate.Mul(decimal.NewFromInt(int64(acc.loggingCases)))

		perCaseBonus := cfg.TopRate.Sub(slab.Rate)
		if perCaseBonus.IsNegative() {
			perCaseBonus = decimal.Zero
		}
		bonus := perCaseBonus.Mul(decimal.NewFromInt(int64(acc.completeLoggingCases)))

		toAchieve := make([]models.TargetProgress, 0, len(cfg.Targets))
		for _, target := range cfg.Targets {
			needed := int(math.Ceil(target*float64(totalHours))) - acc.loggingCases
			if needed < 0 {
				needed = 0
			}
			toAchieve = append(toAchieve, models.TargetProgress{Target: target, CasesNeeded: needed})
		}

		result := models.PerResourceResult{
			ClientType:           key.clientType,
			ResourceID:           key.resourceID,
			ResourceName:         acc.resourceName,
			WeekdayDaysWorked:    daysWorked,
			TotalHours:           totalHours,
			LoggingCases:         acc.loggingCases,
			ProcessingCases:      acc.processingCases,
			CompleteLoggingCases: acc.completeLoggingCases,
			AvgCasesPerHour:      avg,
			SlabRate:             slab.Rate,
			BasicPayout:          basic,
			Bonus:                bonus,
			TotalPayout:          basic.Add(bonus),
			BilledAmount:         acc.billedAmount,
			ToAchieve:            toAchieve,
		}

		if remaining := days.WorkingDaysRemaining(); remaining != nil {
			result.WorkingDaysRemaining = utils.ToPtr(*remaining)
		}

		results = append(results, result)
	}

	return results, nil
}
