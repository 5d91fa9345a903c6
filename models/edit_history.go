package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/recordflow/allocation-ledger/utils"
	"gorm.io/gorm"
)

// EditorRole distinguishes who performed an edit
type EditorRole string

const (
	EditorRoleResource EditorRole = "resource"
	EditorRoleAdmin    EditorRole = "admin"
)

// Valid checks if the editor role is valid
func (r EditorRole) Valid() bool {
	return r == EditorRoleResource || r == EditorRoleAdmin
}

// Scan implements the sql.Scanner interface for EditorRole
func (r *EditorRole) Scan(value any) error {
	if value == nil {
		*r = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*r = EditorRole(v)
	case []byte:
		*r = EditorRole(string(v))
	default:
		return fmt.Errorf("cannot scan %T into EditorRole", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for EditorRole
func (r EditorRole) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid EditorRole: %s", r)
	}
	return string(r), nil
}

// FieldChange is one field-level diff inside an edit history record
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// FieldChangeList is the ordered diff stored with each history record
type FieldChangeList []FieldChange

// Value implements the driver.Valuer interface for FieldChangeList
func (l FieldChangeList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for FieldChangeList
func (l *FieldChangeList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into FieldChangeList", value)
	}

	return json.Unmarshal(bytes, l)
}

// EditHistoryRecord is one append-only audit row written per effective edit.
// Rows are never updated or deleted once written; ordering within an entry is
// by ID (monotonic) with EditedAt as the human-facing timestamp.
type EditHistoryRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EntryID   uint      `gorm:"not null;index:idx_edit_history_entry" json:"entry_id"`
	EntryUUID uuid.UUID `gorm:"type:uuid;not null;index:idx_edit_history_entry_uuid" json:"entry_uuid"`

	EditedBy     uint       `gorm:"not null;index:idx_edit_history_edited_by" json:"edited_by"`
	EditedByName string     `gorm:"type:varchar(255);not null" json:"edited_by_name"`
	EditedByRole EditorRole `gorm:"type:varchar(10);not null" json:"edited_by_role"`
	EditedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_edit_history_edited_at" json:"edited_at"`

	ChangeReason string  `gorm:"type:text;not null" json:"change_reason"`
	ChangeNotes  *string `gorm:"type:text" json:"change_notes,omitempty"`

	FieldsChanged FieldChangeList `gorm:"type:jsonb;not null" json:"fields_changed"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName returns the table name for the model
func (EditHistoryRecord) TableName() string {
	return "edit_history"
}

// BeforeCreate is called before creating a new record
func (r *EditHistoryRecord) BeforeCreate(tx *gorm.DB) error {
	if r.EditedAt.IsZero() {
		r.EditedAt = utils.UTCNow()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	return nil
}

// EditHistoryFilter represents filter criteria for edit history queries
type EditHistoryFilter struct {
	ID           *uint       `json:"id,omitempty"`
	EntryID      *uint       `json:"entry_id,omitempty"`
	EntryUUID    *uuid.UUID  `json:"entry_uuid,omitempty"`
	EditedBy     *uint       `json:"edited_by,omitempty"`
	EditedByRole *EditorRole `json:"edited_by_role,omitempty"`
	EditedAfter  *time.Time  `json:"edited_after,omitempty"`
	EditedBefore *time.Time  `json:"edited_before,omitempty"`
}
