package businessflow

import (
	"math"
	"testing"
	"time"

	"github.com/recordflow/allocation-ledger/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testProcessLogging         = uint(1)
	testProcessCompleteLogging = uint(2)
	testProcessCorrespondence  = uint(3)
)

func testCatalog() models.ProcessCatalog {
	return models.ProcessCatalog{
		testProcessLogging:         {IsLogging: true},
		testProcessCompleteLogging: {IsLogging: true, IsCompleteLogging: true},
		testProcessCorrespondence:  {},
	}
}

func testPayoutConfig() models.PayoutConfig {
	return models.PayoutConfig{
		Slabs: []models.PayoutSlab{
			{Min: 0, Max: 12.99, Rate: decimal.RequireFromString("0.50")},
			{Min: 13, Max: 15.99, Rate: decimal.RequireFromString("0.55")},
			{Min: 16, Max: 18.99, Rate: decimal.RequireFromString("0.60")},
			{Min: 19, Max: math.Inf(1), Rate: decimal.RequireFromString("0.65")},
		},
		TopRate: decimal.RequireFromString("0.65"),
		Targets: []float64{13, 16, 19},
	}
}

func engineEntry(client models.ClientType, resourceID uint, name string, processID uint, count int, day time.Time) *models.AllocationEntry {
	return &models.AllocationEntry{
		ClientType:     client,
		ResourceID:     resourceID,
		ResourceName:   name,
		ProcessID:      processID,
		Count:          count,
		AllocationDate: day,
		BillingAmount:  decimal.Zero,
	}
}

// Monday through Friday of the first full week of August 2026.
var engineWeek = []time.Time{
	time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC),
	time.Date(2026, time.August, 4, 0, 0, 0, 0, time.UTC),
	time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC),
	time.Date(2026, time.August, 6, 0, 0, 0, 0, time.UTC),
	time.Date(2026, time.August, 7, 0, 0, 0, 0, time.UTC),
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, actual.Equal(decimal.RequireFromString(expected)),
		"got %s, want %s %v", actual.String(), expected, msgAndArgs)
}

func TestComputePayoutConcreteScenario(t *testing.T) {
	// Ten single-case logging entries spread over five weekdays: two per day.
	entries := make([]*models.AllocationEntry, 0, 10)
	for _, day := range engineWeek {
		entries = append(entries,
			engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessLogging, 1, day),
			engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessLogging, 1, day),
		)
	}

	results, err := ComputePayout(entries, testCatalog(), testPayoutConfig(), models.WorkingDaysConfig{HoursPerDay: 8})
	require.NoError(t, err)
	require.Len(t, results, 1)

	row := results[0]
	assert.Equal(t, models.ClientTypeMRO, row.ClientType)
	assert.Equal(t, uint(7), row.ResourceID)
	assert.Equal(t, "Jordan Smith", row.ResourceName)

	assert.Equal(t, 5, row.WeekdayDaysWorked)
	assert.Equal(t, 40, row.TotalHours)
	assert.Equal(t, 10, row.LoggingCases)
	assert.Equal(t, 0, row.ProcessingCases)
	assert.Equal(t, 0, row.CompleteLoggingCases)
	assert.InDelta(t, 0.25, row.AvgCasesPerHour, 1e-12)

	assertDecimal(t, "0.50", row.SlabRate)
	assertDecimal(t, "5.00", row.BasicPayout)
	assertDecimal(t, "0", row.Bonus)
	assertDecimal(t, "5.00", row.TotalPayout)

	require.Len(t, row.ToAchieve, 3)
	assert.Equal(t, models.TargetProgress{Target: 13, CasesNeeded: 510}, row.ToAchieve[0])
	assert.Equal(t, models.TargetProgress{Target: 16, CasesNeeded: 630}, row.ToAchieve[1])
	assert.Equal(t, models.TargetProgress{Target: 19, CasesNeeded: 750}, row.ToAchieve[2])

	assert.Nil(t, row.WorkingDaysRemaining)
}

func TestComputePayoutDeterminism(t *testing.T) {
	entries := []*models.AllocationEntry{
		engineEntry(models.ClientTypeVerisma, 2, "Riley Chen", testProcessLogging, 3, engineWeek[0]),
		engineEntry(models.ClientTypeMRO, 9, "Jordan Smith", testProcessCompleteLogging, 2, engineWeek[1]),
		engineEntry(models.ClientTypeVerisma, 2, "Riley Chen", testProcessCorrespondence, 4, engineWeek[2]),
		engineEntry(models.ClientTypeMRO, 1, "Casey Patel", testProcessLogging, 1, engineWeek[3]),
	}

	first, err := ComputePayout(entries, testCatalog(), testPayoutConfig(), models.WorkingDaysConfig{HoursPerDay: 8})
	require.NoError(t, err)

	// Reversed input order must not change anything in the output.
	reversed := make([]*models.AllocationEntry, len(entries))
	for i, e := range entries {
		reversed[len(entries)-1-i] = e
	}
	second, err := ComputePayout(reversed, testCatalog(), testPayoutConfig(), models.WorkingDaysConfig{HoursPerDay: 8})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputePayoutOrdering(t *testing.T) {
	entries := []*models.AllocationEntry{
		engineEntry(models.ClientTypeVerisma, 1, "Riley Chen", testProcessLogging, 1, engineWeek[0]),
		engineEntry(models.ClientTypeMRO, 9, "Jordan Smith", testProcessLogging, 1, engineWeek[0]),
		engineEntry(models.ClientTypeMRO, 2, "Casey Patel", testProcessLogging, 1, engineWeek[0]),
		engineEntry(models.ClientTypeDatavant, 5, "Sam Ortiz", testProcessLogging, 1, engineWeek[0]),
	}

	results, err := ComputePayout(entries, testCatalog(), testPayoutConfig(), models.WorkingDaysConfig{HoursPerDay: 8})
	require.NoError(t, err)
	require.Len(t, results, 4)

	// Sorted by client type then resource id
	assert.Equal(t, models.ClientTypeDatavant, results[0].ClientType)
	assert.Equal(t, uint(5), results[0].ResourceID)
	assert.Equal(t, models.ClientTypeMRO, results[1].ClientType)
	assert.Equal(t, uint(2), results[1].ResourceID)
	assert.Equal(t, models.ClientTypeMRO, results[2].ClientType)
	assert.Equal(t, uint(9), results[2].ResourceID)
	assert.Equal(t, models.ClientTypeVerisma, results[3].ClientType)
	assert.Equal(t, uint(1), results[3].ResourceID)
}

func TestComputePayoutCompleteLoggingBonus(t *testing.T) {
	// Four complete-logging cases and six plain logging cases on one weekday.
	// The average stays in the first slab, so every complete case earns the
	// 0.15 gap up to the top rate.
	entries := []*models.AllocationEntry{
		engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessCompleteLogging, 4, engineWeek[0]),
		engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessLogging, 6, engineWeek[0]),
	}

	results, err := ComputePayout(entries, testCatalog(), testPayoutConfig(), models.WorkingDaysConfig{HoursPerDay: 8})
	require.NoError(t, err)
	require.Len(t, results, 1)

	row := results[0]
	assert.Equal(t, 10, row.LoggingCases, "complete logging cases are logging cases too")
	assert.Equal(t, 4, row.CompleteLoggingCases)
	assert.Equal(t, 1, row.WeekdayDaysWorked)
	assert.InDelta(t, 1.25, row.AvgCasesPerHour, 1e-12)

	assertDecimal(t, "0.50", row.SlabRate)
	assertDecimal(t, "5.00", row.BasicPayout)
	assertDecimal(t, "0.60", row.Bonus)
	assertDecimal(t, "5.60", row.TotalPayout)
}

func TestComputePayoutBonusNeverNegative(t *testing.T) {
	// Top rate below the slab rate clamps the per-case bonus at zero.
	cfg := models.PayoutConfig{
		Slabs: []models.PayoutSlab{
			{Min: 0, Max: math.Inf(1), Rate: decimal.RequireFromString("0.80")},
		},
		TopRate: decimal.RequireFromString("0.65"),
	}

	entries := []*models.AllocationEntry{
		engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessCompleteLogging, 5, engineWeek[0]),
	}

	results, err := ComputePayout(entries, testCatalog(), cfg, models.WorkingDaysConfig{HoursPerDay: 8})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assertDecimal(t, "0", results[0].Bonus)
	assertDecimal(t, "4.00", results[0].TotalPayout)
}

func TestComputePayoutWeekendEntries(t *testing.T) {
	saturday := time.Date(2026, time.August, 8, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, time.August, 9, 0, 0, 0, 0, time.UTC)

	entries := []*models.AllocationEntry{
		engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessLogging, 2, engineWeek[4]),
		engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessLogging, 3, saturday),
		engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessLogging, 1, sunday),
	}

	results, err := ComputePayout(entries, testCatalog(), testPayoutConfig(), models.WorkingDaysConfig{HoursPerDay: 8})
	require.NoError(t, err)
	require.Len(t, results, 1)

	row := results[0]
	// Weekend work adds cases but never days
	assert.Equal(t, 1, row.WeekdayDaysWorked)
	assert.Equal(t, 8, row.TotalHours)
	assert.Equal(t, 6, row.LoggingCases)
	assert.InDelta(t, 0.75, row.AvgCasesPerHour, 1e-12)
	assertDecimal(t, "3.00", row.BasicPayout)
}

func TestComputePayoutOnlyWeekendWork(t *testing.T) {
	saturday := time.Date(2026, time.August, 8, 0, 0, 0, 0, time.UTC)

	entries := []*models.AllocationEntry{
		engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessLogging, 4, saturday),
	}

	results, err := ComputePayout(entries, testCatalog(), testPayoutConfig(), models.WorkingDaysConfig{HoursPerDay: 8})
	require.NoError(t, err)
	require.Len(t, results, 1)

	row := results[0]
	assert.Equal(t, 0, row.WeekdayDaysWorked)
	assert.Equal(t, 0, row.TotalHours)
	assert.Equal(t, 4, row.LoggingCases)
	assert.Equal(t, 0.0, row.AvgCasesPerHour)

	// Cases still earn the first slab rate even with zero hours
	assertDecimal(t, "0.50", row.SlabRate)
	assertDecimal(t, "2.00", row.BasicPayout)

	// Zero hours means every target is already met
	for _, progress := range row.ToAchieve {
		assert.Equal(t, 0, progress.CasesNeeded)
	}
}

func TestComputePayoutDefensiveInputs(t *testing.T) {
	t.Run("count below one counts as one", func(t *testing.T) {
		entries := []*models.AllocationEntry{
			engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessLogging, 0, engineWeek[0]),
			engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessLogging, -5, engineWeek[1]),
		}

		results, err := ComputePayout(entries, testCatalog(), testPayoutConfig(), models.WorkingDaysConfig{HoursPerDay: 8})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 2, results[0].LoggingCases)
	})

	t.Run("nil and deleted entries skipped", func(t *testing.T) {
		entries := []*models.AllocationEntry{
			nil,
			engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessLogging, 1, engineWeek[0]),
			func() *models.AllocationEntry {
				e := engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessLogging, 100, engineWeek[1])
				e.IsDeleted = true
				return e
			}(),
		}

		results, err := ComputePayout(entries, testCatalog(), testPayoutConfig(), models.WorkingDaysConfig{HoursPerDay: 8})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 1, results[0].LoggingCases)
		assert.Equal(t, 1, results[0].WeekdayDaysWorked)
	})

	t.Run("unknown process counts as processing", func(t *testing.T) {
		entries := []*models.AllocationEntry{
			engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", uint(999), 3, engineWeek[0]),
		}

		results, err := ComputePayout(entries, testCatalog(), testPayoutConfig(), models.WorkingDaysConfig{HoursPerDay: 8})
		require.NoError(t, err)
		require.Len(t, results, 1)

		row := results[0]
		assert.Equal(t, 0, row.LoggingCases)
		assert.Equal(t, 3, row.ProcessingCases)
		assert.Equal(t, 0, row.WeekdayDaysWorked)
		assertDecimal(t, "0", row.BasicPayout)
	})
}

func TestComputePayoutProcessingEarnsNothing(t *testing.T) {
	entries := []*models.AllocationEntry{
		engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessLogging, 2, engineWeek[0]),
		engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessCorrespondence, 5, engineWeek[0]),
	}
	entries[0].BillingAmount = decimal.RequireFromString("2.00")
	entries[1].BillingAmount = decimal.RequireFromString("3.75")

	results, err := ComputePayout(entries, testCatalog(), testPayoutConfig(), models.WorkingDaysConfig{HoursPerDay: 8})
	require.NoError(t, err)
	require.Len(t, results, 1)

	row := results[0]
	assert.Equal(t, 2, row.LoggingCases)
	assert.Equal(t, 5, row.ProcessingCases)
	assertDecimal(t, "1.00", row.BasicPayout)

	// Billed amounts sum across all work, logging or not
	assertDecimal(t, "5.75", row.BilledAmount)
}

func TestComputePayoutHoursPerDayDefault(t *testing.T) {
	entries := []*models.AllocationEntry{
		engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessLogging, 16, engineWeek[0]),
	}

	// Zero hours per day falls back to the 8-hour workday
	results, err := ComputePayout(entries, testCatalog(), testPayoutConfig(), models.WorkingDaysConfig{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 8, results[0].TotalHours)
	assert.InDelta(t, 2.0, results[0].AvgCasesPerHour, 1e-12)
}

func TestComputePayoutWorkingDaysRemaining(t *testing.T) {
	today := time.Date(2026, time.August, 21, 0, 0, 0, 0, time.UTC) // Friday
	days := models.WorkingDaysConfig{
		HoursPerDay: 8,
		PeriodStart: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC), // Tuesday
		Today:       &today,
	}

	entries := []*models.AllocationEntry{
		engineEntry(models.ClientTypeMRO, 7, "Jordan Smith", testProcessLogging, 1, engineWeek[0]),
	}

	results, err := ComputePayout(entries, testCatalog(), testPayoutConfig(), days)
	require.NoError(t, err)
	require.Len(t, results, 1)

	require.NotNil(t, results[0].WorkingDaysRemaining)
	assert.Equal(t, 2, *results[0].WorkingDaysRemaining)
}

func TestComputePayoutInvalidConfig(t *testing.T) {
	_, err := ComputePayout(nil, testCatalog(), models.PayoutConfig{}, models.WorkingDaysConfig{})
	require.Error(t, err)
	assert.True(t, IsPayoutConfigInvalid(err))
	assert.True(t, IsValidationError(err))
}

func TestComputePayoutEmptyInput(t *testing.T) {
	results, err := ComputePayout(nil, testCatalog(), testPayoutConfig(), models.WorkingDaysConfig{HoursPerDay: 8})
	require.NoError(t, err)
	assert.Empty(t, results)
}
