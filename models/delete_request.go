package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/recordflow/allocation-ledger/utils"
	"gorm.io/gorm"
)

// DeleteRequestStatus represents the status of a delete request
type DeleteRequestStatus string

const (
	DeleteRequestStatusPending  DeleteRequestStatus = "pending"
	DeleteRequestStatusApproved DeleteRequestStatus = "approved"
	DeleteRequestStatusRejected DeleteRequestStatus = "rejected"
)

// String returns the string representation of the status
func (s DeleteRequestStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s DeleteRequestStatus) Valid() bool {
	switch s {
	case DeleteRequestStatusPending, DeleteRequestStatusApproved, DeleteRequestStatusRejected:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for DeleteRequestStatus
func (s *DeleteRequestStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = DeleteRequestStatus(v)
	case []byte:
		*s = DeleteRequestStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into DeleteRequestStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for DeleteRequestStatus
func (s DeleteRequestStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid DeleteRequestStatus: %s", s)
	}
	return string(s), nil
}

// CanTransitionTo checks if the status can transition to the given status
func (s DeleteRequestStatus) CanTransitionTo(target DeleteRequestStatus) bool {
	switch s {
	case DeleteRequestStatusPending:
		return target == DeleteRequestStatusApproved || target == DeleteRequestStatusRejected
	default:
		return false
	}
}

// DeleteMode selects how an approved deletion is applied
type DeleteMode string

const (
	// DeleteModeSoft marks the entry deleted but keeps it readable for audit
	DeleteModeSoft DeleteMode = "soft"
	// DeleteModeHard tombstones the entry out of every listing
	DeleteModeHard DeleteMode = "hard"
)

// Valid checks if the delete mode is valid
func (m DeleteMode) Valid() bool {
	return m == DeleteModeSoft || m == DeleteModeHard
}

// Scan implements the sql.Scanner interface for DeleteMode
func (m *DeleteMode) Scan(value any) error {
	if value == nil {
		*m = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*m = DeleteMode(v)
	case []byte:
		*m = DeleteMode(string(v))
	default:
		return fmt.Errorf("cannot scan %T into DeleteMode", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for DeleteMode
func (m DeleteMode) Value() (driver.Value, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid DeleteMode: %s", m)
	}
	return string(m), nil
}

// DeleteRequest decouples requestor-initiated deletion from admin approval.
// At most one pending request may exist per entry at any time; the guard is
// enforced transactionally under a row lock on the entry, not by the schema.
type DeleteRequest struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_delete_requests_uuid" json:"uuid"`

	EntryID    uint       `gorm:"not null;index:idx_delete_requests_entry" json:"entry_id"`
	EntryUUID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_delete_requests_entry_uuid" json:"entry_uuid"`
	ClientType ClientType `gorm:"type:varchar(20);not null;index:idx_delete_requests_client" json:"client_type"`

	RequestedBy     uint      `gorm:"not null;index:idx_delete_requests_requested_by" json:"requested_by"`
	RequestedByName string    `gorm:"type:varchar(255);not null" json:"requested_by_name"`
	RequestedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"requested_at"`
	DeleteReason    string    `gorm:"type:text;not null" json:"delete_reason"`

	Status DeleteRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_delete_requests_status" json:"status"`

	// Resolution fields, set exactly once when the request leaves pending
	ReviewerID    *uint       `gorm:"index:idx_delete_requests_reviewer" json:"reviewer_id,omitempty"`
	ReviewerName  *string     `gorm:"type:varchar(255)" json:"reviewer_name,omitempty"`
	ReviewedAt    *time.Time  `json:"reviewed_at,omitempty"`
	ReviewComment *string     `gorm:"type:text" json:"review_comment,omitempty"`
	DeleteMode    *DeleteMode `gorm:"type:varchar(10)" json:"delete_mode,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_delete_requests_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Entry *AllocationEntry `gorm:"foreignKey:EntryID;references:ID" json:"entry,omitempty"`
}

// TableName returns the table name for the model
func (DeleteRequest) TableName() string {
	return "delete_requests"
}

// BeforeCreate is called before creating a new record
func (d *DeleteRequest) BeforeCreate(tx *gorm.DB) error {
	if d.UUID == uuid.Nil {
		d.UUID = uuid.New()
	}
	if d.Status == "" {
		d.Status = DeleteRequestStatusPending
	}
	if d.RequestedAt.IsZero() {
		d.RequestedAt = utils.UTCNow()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (d *DeleteRequest) BeforeUpdate(tx *gorm.DB) error {
	d.UpdatedAt = utils.UTCNow()
	return nil
}

// IsPending returns true while the request awaits review
func (d *DeleteRequest) IsPending() bool {
	return d.Status == DeleteRequestStatusPending
}

// IsResolved returns true once the request has been approved or rejected
func (d *DeleteRequest) IsResolved() bool {
	return d.Status == DeleteRequestStatusApproved || d.Status == DeleteRequestStatusRejected
}

// DeleteRequestFilter represents filter criteria for delete request queries
type DeleteRequestFilter struct {
	ID            *uint                `json:"id,omitempty"`
	UUID          *uuid.UUID           `json:"uuid,omitempty"`
	EntryID       *uint                `json:"entry_id,omitempty"`
	EntryUUID     *uuid.UUID           `json:"entry_uuid,omitempty"`
	ClientType    *ClientType          `json:"client_type,omitempty"`
	Status        *DeleteRequestStatus `json:"status,omitempty"`
	RequestedBy   *uint                `json:"requested_by,omitempty"`
	ReviewerID    *uint                `json:"reviewer_id,omitempty"`
	CreatedAfter  *time.Time           `json:"created_after,omitempty"`
	CreatedBefore *time.Time           `json:"created_before,omitempty"`
}
