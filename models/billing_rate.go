package models

import (
	"time"

	"github.com/recordflow/allocation-ledger/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillingRate is one row of the per-client rate table. Entry billing is
// resolved by exact (client_type, process_id, request_type) match at creation
// time; a missing row bills at zero rather than rejecting the entry.
type BillingRate struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ClientType  ClientType      `gorm:"type:varchar(20);not null;uniqueIndex:uk_billing_rates_key" json:"client_type"`
	ProcessID   uint            `gorm:"not null;uniqueIndex:uk_billing_rates_key" json:"process_id"`
	RequestType RequestType     `gorm:"type:varchar(30);not null;uniqueIndex:uk_billing_rates_key" json:"request_type"`
	Rate        decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"rate"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName returns the table name for the model
func (BillingRate) TableName() string {
	return "billing_rates"
}

// BeforeUpdate is called before updating a record
func (r *BillingRate) BeforeUpdate(tx *gorm.DB) error {
	r.UpdatedAt = utils.UTCNow()
	return nil
}

// BillingRateFilter represents filter criteria for rate table queries
type BillingRateFilter struct {
	ID          *uint        `json:"id,omitempty"`
	ClientType  *ClientType  `json:"client_type,omitempty"`
	ProcessID   *uint        `json:"process_id,omitempty"`
	RequestType *RequestType `json:"request_type,omitempty"`
}
