package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthFullyElapsed(t *testing.T) {
	tests := []struct {
		name           string
		allocationDate time.Time
		now            time.Time
		expected       bool
	}{
		{
			name:           "same month mid-month",
			allocationDate: date(2026, time.August, 10),
			now:            date(2026, time.August, 25),
			expected:       false,
		},
		{
			name:           "now on the last day of the month",
			allocationDate: date(2026, time.August, 10),
			now:            date(2026, time.August, 31),
			expected:       false,
		},
		{
			name:           "window closes at first midnight of the next month",
			allocationDate: date(2026, time.August, 10),
			now:            date(2026, time.September, 1),
			expected:       true,
		},
		{
			name:           "several months later",
			allocationDate: date(2026, time.March, 5),
			now:            date(2026, time.August, 25),
			expected:       true,
		},
		{
			name:           "allocation in a future month",
			allocationDate: date(2026, time.October, 1),
			now:            date(2026, time.August, 25),
			expected:       false,
		},
		{
			name:           "december rolls into january",
			allocationDate: date(2025, time.December, 31),
			now:            date(2026, time.January, 1),
			expected:       true,
		},
		{
			name:           "leap february still open on the 29th",
			allocationDate: date(2024, time.February, 10),
			now:            date(2024, time.February, 29),
			expected:       false,
		},
		{
			name:           "leap february closed on march 1st",
			allocationDate: date(2024, time.February, 10),
			now:            date(2024, time.March, 1),
			expected:       true,
		},
		{
			name:           "time of day within the closing day is ignored",
			allocationDate: date(2026, time.August, 10),
			now:            time.Date(2026, time.August, 31, 23, 59, 59, 0, time.UTC),
			expected:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MonthFullyElapsed(tt.allocationDate, tt.now))
		})
	}
}

func TestIsLockedAt(t *testing.T) {
	now := date(2026, time.August, 25)

	t.Run("open month without override", func(t *testing.T) {
		entry := &AllocationEntry{AllocationDate: date(2026, time.August, 10)}
		assert.False(t, entry.IsLockedAt(now))
		assert.True(t, entry.WindowOpenAt(now))
	})

	t.Run("admin override locks an open month", func(t *testing.T) {
		entry := &AllocationEntry{AllocationDate: date(2026, time.August, 10), Locked: true}
		assert.True(t, entry.IsLockedAt(now))
		assert.False(t, entry.WindowOpenAt(now))
	})

	t.Run("elapsed month locks without override", func(t *testing.T) {
		entry := &AllocationEntry{AllocationDate: date(2026, time.July, 10)}
		assert.True(t, entry.IsLockedAt(now))
		assert.False(t, entry.WindowOpenAt(now))
	})

	t.Run("both override and elapsed month", func(t *testing.T) {
		entry := &AllocationEntry{AllocationDate: date(2026, time.July, 10), Locked: true}
		assert.True(t, entry.IsLockedAt(now))
	})
}

func TestIsLateLog(t *testing.T) {
	tests := []struct {
		name           string
		allocationDate time.Time
		createdAt      time.Time
		expected       bool
	}{
		{
			name:           "logged on the same day",
			allocationDate: date(2026, time.August, 25),
			createdAt:      time.Date(2026, time.August, 25, 14, 30, 0, 0, time.UTC),
			expected:       false,
		},
		{
			name:           "logged the next day",
			allocationDate: date(2026, time.August, 24),
			createdAt:      time.Date(2026, time.August, 25, 9, 0, 0, 0, time.UTC),
			expected:       true,
		},
		{
			name:           "logged a week later",
			allocationDate: date(2026, time.August, 18),
			createdAt:      date(2026, time.August, 25),
			expected:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &AllocationEntry{AllocationDate: tt.allocationDate, CreatedAt: tt.createdAt}
			assert.Equal(t, tt.expected, entry.IsLateLog())
		})
	}
}

func TestHasPendingDeleteRequest(t *testing.T) {
	t.Run("no delete requests loaded", func(t *testing.T) {
		entry := &AllocationEntry{}
		assert.False(t, entry.HasPendingDeleteRequest())
	})

	t.Run("only resolved requests", func(t *testing.T) {
		entry := &AllocationEntry{
			DeleteRequests: []DeleteRequest{
				{Status: DeleteRequestStatusApproved},
				{Status: DeleteRequestStatusRejected},
			},
		}
		assert.False(t, entry.HasPendingDeleteRequest())
	})

	t.Run("pending request among resolved ones", func(t *testing.T) {
		entry := &AllocationEntry{
			DeleteRequests: []DeleteRequest{
				{Status: DeleteRequestStatusRejected},
				{Status: DeleteRequestStatusPending},
			},
		}
		assert.True(t, entry.HasPendingDeleteRequest())
	})
}

func TestAllocationEntryBeforeCreate(t *testing.T) {
	entry := &AllocationEntry{
		ClientType:     ClientTypeMRO,
		AllocationDate: time.Date(2026, time.August, 25, 16, 45, 12, 0, time.UTC),
	}

	require.NoError(t, entry.BeforeCreate(nil))

	assert.NotEqual(t, uuid.Nil, entry.UUID)
	assert.Equal(t, 1, entry.Count, "count below one defaults to one")
	assert.Equal(t, date(2026, time.August, 25), entry.AllocationDate, "allocation date truncates to midnight UTC")
	assert.False(t, entry.CreatedAt.IsZero())

	// An explicit UUID survives the hook
	fixed := uuid.New()
	entry2 := &AllocationEntry{UUID: fixed, Count: 5, AllocationDate: date(2026, time.August, 25)}
	require.NoError(t, entry2.BeforeCreate(nil))
	assert.Equal(t, fixed, entry2.UUID)
	assert.Equal(t, 5, entry2.Count)
}

func TestAllocationEntryTableName(t *testing.T) {
	assert.Equal(t, "allocation_entries", AllocationEntry{}.TableName())
}

func TestEditableEntryFieldsOrder(t *testing.T) {
	expected := []string{
		"location_id",
		"process_id",
		"request_type",
		"requestor_type",
		"task_type",
		"request_id",
		"count",
		"allocation_date",
		"remark",
		"facility_name",
		"billing_rate",
		"billing_amount",
	}
	assert.Equal(t, expected, EditableEntryFields)
}
