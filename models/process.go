package models

import (
	"strings"
	"time"

	"github.com/recordflow/allocation-ledger/utils"
	"gorm.io/gorm"
)

// Process is reference data describing one client process/project. Managed
// outside this service; read here for payout classification and billing rate
// lookups. The classification booleans are explicit attributes rather than
// being re-derived from the name at computation time.
type Process struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	ClientType        ClientType `gorm:"type:varchar(20);not null;uniqueIndex:uk_processes_client_name" json:"client_type"`
	Name              string     `gorm:"type:varchar(255);not null;uniqueIndex:uk_processes_client_name" json:"name"`
	IsLogging         bool       `gorm:"not null;default:false" json:"is_logging"`
	IsCompleteLogging bool       `gorm:"not null;default:false" json:"is_complete_logging"`
	CreatedAt         time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName returns the table name for the model
func (Process) TableName() string {
	return "processes"
}

// BeforeUpdate is called before updating a record
func (p *Process) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = utils.UTCNow()
	return nil
}

// ClassifyProcessName derives the legacy classification flags from a process
// name: a name containing "log" counts as logging work, and one containing
// both "complete" and "log" as complete logging. Used only when seeding rows
// that lack explicit flags; operators own the stored values afterwards.
func ClassifyProcessName(name string) (isLogging, isCompleteLogging bool) {
	n := strings.ToLower(name)
	isLogging = strings.Contains(n, "log")
	isCompleteLogging = isLogging && strings.Contains(n, "complete")
	return isLogging, isCompleteLogging
}

// ProcessFilter represents filter criteria for process queries
type ProcessFilter struct {
	ID                *uint       `json:"id,omitempty"`
	ClientType        *ClientType `json:"client_type,omitempty"`
	Name              *string     `json:"name,omitempty"`
	IsLogging         *bool       `json:"is_logging,omitempty"`
	IsCompleteLogging *bool       `json:"is_complete_logging,omitempty"`
}

// ProcessTraits is the classification view of a process consumed by the
// payout engine
type ProcessTraits struct {
	IsLogging         bool `json:"is_logging"`
	IsCompleteLogging bool `json:"is_complete_logging"`
}

// ProcessCatalog maps process ids to their classification traits
type ProcessCatalog map[uint]ProcessTraits

// BuildProcessCatalog flattens process rows into the engine's lookup form
func BuildProcessCatalog(processes []*Process) ProcessCatalog {
	catalog := make(ProcessCatalog, len(processes))
	for _, p := range processes {
		if p == nil {
			continue
		}
		catalog[p.ID] = ProcessTraits{
			IsLogging:         p.IsLogging,
			IsCompleteLogging: p.IsCompleteLogging,
		}
	}
	return catalog
}
