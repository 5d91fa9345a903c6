package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/recordflow/allocation-ledger/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AllocationEntry is one unit-of-work record logged by a resource against a
// location/process on a given date. One logical ledger exists per client type;
// all ledgers share this table, partitioned by client_type.
//
// Soft deletion happens through the delete-request workflow and sets IsDeleted
// while keeping the row readable in "include deleted" views. Hard deletion
// tombstones the row via DeletedAt so it never reappears in any listing; the
// action log row recording the deletion survives independently.
type AllocationEntry struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_allocation_entries_uuid" json:"uuid"`

	ClientType ClientType `gorm:"type:varchar(20);not null;index:idx_entries_client_request_id;index:idx_entries_client_date" json:"client_type"`

	// Classification
	LocationID    uint          `gorm:"not null;index:idx_entries_location" json:"location_id"`
	ProcessID     uint          `gorm:"not null;index:idx_entries_process" json:"process_id"`
	RequestType   RequestType   `gorm:"type:varchar(30);not null;index:idx_entries_request_type" json:"request_type"`
	RequestorType RequestorType `gorm:"type:varchar(30)" json:"requestor_type,omitempty"`
	TaskType      TaskType      `gorm:"type:varchar(30)" json:"task_type,omitempty"`

	// Business identifier. Primary-type uniqueness per identifier is advisory
	// only and intentionally not a schema constraint.
	RequestID string `gorm:"type:varchar(100);index:idx_entries_client_request_id" json:"request_id"`

	Count int `gorm:"not null;default:1" json:"count"`

	// AllocationDate is the calendar date the work is attributed to; it may be
	// earlier than CreatedAt (a "late log").
	AllocationDate time.Time `gorm:"type:date;not null;index:idx_entries_client_date" json:"allocation_date"`

	// Ownership, denormalized at creation so audit reads stay stable when the
	// roster changes.
	ResourceID    uint   `gorm:"not null;index:idx_entries_resource" json:"resource_id"`
	ResourceName  string `gorm:"type:varchar(255);not null" json:"resource_name"`
	ResourceEmail string `gorm:"type:varchar(255)" json:"resource_email"`

	// Financials, computed at creation from the billing rate table and frozen
	// until an edit explicitly recomputes them.
	BillingRate   decimal.Decimal `gorm:"type:numeric(12,4);not null;default:0" json:"billing_rate"`
	BillingAmount decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"billing_amount"`

	// Locked is the explicit admin override; the effective lock state also
	// depends on the month window, see IsLockedAt.
	Locked    bool `gorm:"not null;default:false" json:"locked"`
	IsDeleted bool `gorm:"not null;default:false;index:idx_entries_is_deleted" json:"is_deleted"`
	EditCount int  `gorm:"not null;default:0" json:"edit_count"`

	Remark       string `gorm:"type:text" json:"remark,omitempty"`
	FacilityName string `gorm:"type:varchar(255)" json:"facility_name,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_entries_created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relations
	DeleteRequests []DeleteRequest     `gorm:"foreignKey:EntryID;references:ID" json:"delete_requests,omitempty"`
	EditHistory    []EditHistoryRecord `gorm:"foreignKey:EntryID;references:ID" json:"edit_history,omitempty"`
}

// TableName returns the table name for the model
func (AllocationEntry) TableName() string {
	return "allocation_entries"
}

// BeforeCreate is called before creating a new record
func (e *AllocationEntry) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == uuid.Nil {
		e.UUID = uuid.New()
	}
	if e.Count < 1 {
		e.Count = 1
	}
	e.AllocationDate = utils.DateOnly(e.AllocationDate)
	if e.CreatedAt.IsZero() {
		e.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (e *AllocationEntry) BeforeUpdate(tx *gorm.DB) error {
	e.UpdatedAt = utils.UTCNow()
	return nil
}

// MonthFullyElapsed reports whether now's calendar date is past the last day
// of the month containing allocationDate. All comparisons are UTC calendar
// dates; the window closes at the first midnight of the following month.
func MonthFullyElapsed(allocationDate, now time.Time) bool {
	return utils.DateOnly(now).After(utils.LastDayOfMonth(allocationDate))
}

// IsLockedAt computes the effective lock state at the given instant: either
// the admin override is set or the entry's month has fully elapsed. There is
// no stored transition and no unlock.
func (e *AllocationEntry) IsLockedAt(now time.Time) bool {
	return e.Locked || MonthFullyElapsed(e.AllocationDate, now)
}

// WindowOpenAt reports whether the entry may still be edited at now
func (e *AllocationEntry) WindowOpenAt(now time.Time) bool {
	return !e.IsLockedAt(now)
}

// IsLateLog reports whether the entry was logged on a different calendar day
// than the date the work is attributed to
func (e *AllocationEntry) IsLateLog() bool {
	return !utils.SameCalendarDay(e.AllocationDate, e.CreatedAt)
}

// HasPendingDeleteRequest derives the pending-deletion flag from the loaded
// DeleteRequests relation; callers must preload it with a pending filter or
// treat false as "unknown"
func (e *AllocationEntry) HasPendingDeleteRequest() bool {
	for i := range e.DeleteRequests {
		if e.DeleteRequests[i].IsPending() {
			return true
		}
	}
	return false
}

// AllocationEntryFilter represents filter criteria for ledger queries.
// IncludeDeleted widens the default view to soft-deleted rows; hard-deleted
// rows are never returned.
type AllocationEntryFilter struct {
	ID             *uint        `json:"id,omitempty"`
	UUID           *uuid.UUID   `json:"uuid,omitempty"`
	ClientType     *ClientType  `json:"client_type,omitempty"`
	ResourceID     *uint        `json:"resource_id,omitempty"`
	LocationID     *uint        `json:"location_id,omitempty"`
	ProcessID      *uint        `json:"process_id,omitempty"`
	RequestType    *RequestType `json:"request_type,omitempty"`
	RequestID      *string      `json:"request_id,omitempty"`
	DateFrom       *time.Time   `json:"date_from,omitempty"`
	DateTo         *time.Time   `json:"date_to,omitempty"`
	IncludeDeleted bool         `json:"include_deleted,omitempty"`
	OnlyDeleted    *bool        `json:"only_deleted,omitempty"`
	CreatedAfter   *time.Time   `json:"created_after,omitempty"`
	CreatedBefore  *time.Time   `json:"created_before,omitempty"`
}

// EditableEntryFields enumerates the fields an edit request may touch, in the
// order diffs are reported
var EditableEntryFields = []string{
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
