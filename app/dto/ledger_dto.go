package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateEntryRequest carries data to log a new allocation entry.
// AllocationDate uses the YYYY-MM-DD format and may point at an earlier day of
// an open month (a late log) but never at the future.
// ProceedDespiteWarning acknowledges a duplicate-identifier warning from a
// previous attempt and lets the entry through.
type CreateEntryRequest struct {
	ClientType            string  `json:"client_type" validate:"required,oneof=mro verisma datavant"`
	LocationID            uint    `json:"location_id" validate:"required,min=1"`
	ProcessID             uint    `json:"process_id" validate:"required,min=1"`
	RequestType           string  `json:"request_type" validate:"required"`
	RequestorType         *string `json:"requestor_type,omitempty" validate:"omitempty"`
	TaskType              *string `json:"task_type,omitempty" validate:"omitempty"`
	RequestID             *string `json:"request_id,omitempty" validate:"omitempty,max=100"`
	Count                 *int    `json:"count,omitempty" validate:"omitempty,min=1"`
	AllocationDate        string  `json:"allocation_date" validate:"required"`
	Remark                *string `json:"remark,omitempty"`
	FacilityName          *string `json:"facility_name,omitempty"`
	ProceedDespiteWarning bool    `json:"proceed_despite_warning,omitempty"`
	// Internal: populated by handler from auth claims
	ResourceID    uint   `json:"-"`
	ResourceName  string `json:"-"`
	ResourceEmail string `json:"-"`
}

// EntryDTO represents an allocation entry in API responses
type EntryDTO struct {
	ID                      uint            `json:"id"`
	UUID                    string          `json:"uuid"`
	ClientType              string          `json:"client_type"`
	LocationID              uint            `json:"location_id"`
	ProcessID               uint            `json:"process_id"`
	RequestType             string          `json:"request_type"`
	RequestTypeDisplay      string          `json:"request_type_display"`
	RequestorType           string          `json:"requestor_type,omitempty"`
	TaskType                string          `json:"task_type,omitempty"`
	RequestID               string          `json:"request_id,omitempty"`
	Count                   int             `json:"count"`
	AllocationDate          string          `json:"allocation_date"`
	ResourceID              uint            `json:"resource_id"`
	ResourceName            string          `json:"resource_name"`
	BillingRate             decimal.Decimal `json:"billing_rate"`
	BillingAmount           decimal.Decimal `json:"billing_amount"`
	Locked                  bool            `json:"locked"`
	IsDeleted               bool            `json:"is_deleted"`
	IsLateLog               bool            `json:"is_late_log"`
	EditCount               int             `json:"edit_count"`
	HasPendingDeleteRequest bool            `json:"has_pending_delete_request"`
	Remark                  string          `json:"remark,omitempty"`
	FacilityName            string          `json:"facility_name,omitempty"`
	CreatedAt               string          `json:"created_at"`
	UpdatedAt               string          `json:"updated_at"`
}

// CreateEntryResponse returns the created entry
type CreateEntryResponse struct {
	Message string   `json:"message"`
	Entry   EntryDTO `json:"entry"`
}

// EditEntryRequest carries a partial update for an entry. Nil fields stay
// untouched; ChangeReason is mandatory. RecomputeBilling re-resolves the rate
// from the billing table after classification changes.
type EditEntryRequest struct {
	UUID                  string  `json:"-"`
	LocationID            *uint   `json:"location_id,omitempty" validate:"omitempty,min=1"`
	ProcessID             *uint   `json:"process_id,omitempty" validate:"omitempty,min=1"`
	RequestType           *string `json:"request_type,omitempty"`
	RequestorType         *string `json:"requestor_type,omitempty"`
	TaskType              *string `json:"task_type,omitempty"`
	RequestID             *string `json:"request_id,omitempty" validate:"omitempty,max=100"`
	Count                 *int    `json:"count,omitempty" validate:"omitempty,min=1"`
	AllocationDate        *string `json:"allocation_date,omitempty"`
	Remark                *string `json:"remark,omitempty"`
	FacilityName          *string `json:"facility_name,omitempty"`
	ChangeReason          string  `json:"change_reason" validate:"required"`
	ChangeNotes           *string `json:"change_notes,omitempty"`
	RecomputeBilling      bool    `json:"recompute_billing,omitempty"`
	ProceedDespiteWarning bool    `json:"proceed_despite_warning,omitempty"`
	// Internal: populated by handler from auth claims
	ActorID   uint   `json:"-"`
	ActorName string `json:"-"`
	ActorRole string `json:"-"`
}

// FieldChangeDTO is one field-level diff reported back after an edit
type FieldChangeDTO struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// EditEntryResponse returns the updated entry and the applied diff.
// NoChanges is true when the request matched the stored state exactly; no
// history record is written in that case.
type EditEntryResponse struct {
	Message       string           `json:"message"`
	Entry         EntryDTO         `json:"entry"`
	FieldsChanged []FieldChangeDTO `json:"fields_changed"`
	NoChanges     bool             `json:"no_changes,omitempty"`
}

// GetEntryResponse returns a single entry
type GetEntryResponse struct {
	Message string   `json:"message"`
	Entry   EntryDTO `json:"entry"`
}

// ListEntriesFilter represents filter criteria for listing entries in request layer
type ListEntriesFilter struct {
	ResourceID     *uint      `json:"resource_id,omitempty"`
	LocationID     *uint      `json:"location_id,omitempty"`
	ProcessID      *uint      `json:"process_id,omitempty"`
	RequestType    *string    `json:"request_type,omitempty"`
	RequestID      *string    `json:"request_id,omitempty"`
	DateFrom       *time.Time `json:"date_from,omitempty"`
	DateTo         *time.Time `json:"date_to,omitempty"`
	IncludeDeleted bool       `json:"include_deleted,omitempty"`
	OnlyDeleted    *bool      `json:"only_deleted,omitempty"`
}

// ListEntriesRequest represents a paginated list request for a client's ledger
type ListEntriesRequest struct {
	ClientType string             `json:"client_type" validate:"required,oneof=mro verisma datavant"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	OrderBy    string             `json:"orderby"` // newest, oldest
	Filter     *ListEntriesFilter `json:"filter,omitempty"`
	// Internal: set for resource tokens so they only see their own rows
	RestrictToResourceID *uint `json:"-"`
}

// PaginationInfo contains pagination metadata
type PaginationInfo struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// ListEntriesResponse represents a paginated page of ledger entries
type ListEntriesResponse struct {
	Message    string         `json:"message"`
	Items      []EntryDTO     `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// EditHistoryItemDTO is one append-only edit trail record
type EditHistoryItemDTO struct {
	ID            uint             `json:"id"`
	EditedBy      uint             `json:"edited_by"`
	EditedByName  string           `json:"edited_by_name"`
	EditedByRole  string           `json:"edited_by_role"`
	EditedAt      string           `json:"edited_at"`
	ChangeReason  string           `json:"change_reason"`
	ChangeNotes   *string          `json:"change_notes,omitempty"`
	FieldsChanged []FieldChangeDTO `json:"fields_changed"`
}

// GetEditHistoryResponse returns the full edit trail of an entry oldest first
type GetEditHistoryResponse struct {
	Message   string               `json:"message"`
	EntryUUID string               `json:"entry_uuid"`
	EditCount int                  `json:"edit_count"`
	Items     []EditHistoryItemDTO `json:"items"`
}

// CheckRequestIDRequest asks whether a request identifier may still carry the
// given request type for a client. The answer is advisory.
type CheckRequestIDRequest struct {
	ClientType  string `json:"client_type" validate:"required,oneof=mro verisma datavant"`
	RequestID   string `json:"request_id" validate:"required,max=100"`
	RequestType string `json:"request_type" validate:"required"`
}

// CheckRequestIDResponse reports identifier availability and, when the primary
// type is already taken, the deterministic fallback suggestion
type CheckRequestIDResponse struct {
	Message              string   `json:"message"`
	ClientType           string   `json:"client_type"`
	RequestID            string   `json:"request_id"`
	RequestType          string   `json:"request_type"`
	Available            bool     `json:"available"`
	InUseTypes           []string `json:"in_use_types,omitempty"`
	SuggestedType        *string  `json:"suggested_type,omitempty"`
	SuggestedTypeDisplay *string  `json:"suggested_type_display,omitempty"`
}

// LockEntryRequest marks an entry locked ahead of the month window closing.
// The operation is one way and idempotent.
type LockEntryRequest struct {
	UUID string `json:"-"`
	// Internal: populated by handler from auth claims
	AdminID   uint   `json:"-"`
	AdminName string `json:"-"`
}

// LockEntryResponse returns the lock result
type LockEntryResponse struct {
	Message       string `json:"message"`
	UUID          string `json:"uuid"`
	Locked        bool   `json:"locked"`
	AlreadyLocked bool   `json:"already_locked"`
}
