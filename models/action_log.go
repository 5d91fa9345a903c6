// Package models contains domain entities and business models for the allocation ledger
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActionLog records every mutating ledger operation. Rows reference entries by
// UUID without a foreign key so the record of a hard deletion outlives the
// entry itself. Insert-only.
type ActionLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ActorID      *uint           `gorm:"index:idx_action_logs_actor_id" json:"actor_id,omitempty"`
	ActorName    *string         `gorm:"type:varchar(255)" json:"actor_name,omitempty"`
	ActorRole    *string         `gorm:"type:varchar(20)" json:"actor_role,omitempty"`
	Action       string          `gorm:"type:varchar(50);not null;index:idx_action_logs_action" json:"action"`
	ClientType   *ClientType     `gorm:"type:varchar(20);index:idx_action_logs_client" json:"client_type,omitempty"`
	EntryUUID    *uuid.UUID      `gorm:"type:uuid;index:idx_action_logs_entry_uuid" json:"entry_uuid,omitempty"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"type:inet;index:idx_action_logs_ip_address" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_action_logs_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_action_logs_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_action_logs_created_at" json:"created_at"`
}

func (ActionLog) TableName() string {
	return "action_logs"
}

// Action constants
const (
	ActionEntryCreated    = "entry_created"
	ActionEntryEdited     = "entry_edited"
	ActionEntryLocked     = "entry_locked"
	ActionDeleteRequested = "delete_requested"
	ActionDeleteApproved  = "delete_approved"
	ActionDeleteRejected  = "delete_rejected"
	ActionPayoutComputed  = "payout_computed"
	ActionPayoutExported  = "payout_exported"
)

// ActionLogFilter represents filter criteria for action log queries
type ActionLogFilter struct {
	ID            *uint
	ActorID       *uint
	Action        *string
	ClientType    *ClientType
	EntryUUID     *uuid.UUID
	Success       *bool
	IPAddress     *string
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *ActionLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}

// IsDeletionEvent reports whether the row records part of the delete workflow
func (a *ActionLog) IsDeletionEvent() bool {
	switch a.Action {
	case ActionDeleteRequested, ActionDeleteApproved, ActionDeleteRejected:
		return true
	default:
		return false
	}
}
