// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/recordflow/allocation-ledger/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// AllocationEntryRepository defines operations for allocation ledger entries
type AllocationEntryRepository interface {
	Repository[models.AllocationEntry, models.AllocationEntryFilter]
	ByUUID(ctx context.Context, uuid string) (*models.AllocationEntry, error)
	ByUUIDForUpdate(ctx context.Context, uuid string) (*models.AllocationEntry, error)
	Update(ctx context.Context, entry models.AllocationEntry) error
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	RequestTypesInUse(ctx context.Context, clientType models.ClientType, requestID string) ([]models.RequestType, error)
	MarkDeleted(ctx context.Context, id uint) error
	HardDelete(ctx context.Context, id uint) error
	ListForPayout(ctx context.Context, clientType models.ClientType, from, to time.Time) ([]*models.AllocationEntry, error)
}

// DeleteRequestRepository defines operations for entry delete requests
type DeleteRequestRepository interface {
	Repository[models.DeleteRequest, models.DeleteRequestFilter]
	ByUUID(ctx context.Context, uuid string) (*models.DeleteRequest, error)
	ByUUIDForUpdate(ctx context.Context, uuid string) (*models.DeleteRequest, error)
	PendingByEntryID(ctx context.Context, entryID uint) (*models.DeleteRequest, error)
	Update(ctx context.Context, request models.DeleteRequest) error
	ListPending(ctx context.Context, clientType *models.ClientType, limit, offset int) ([]*models.DeleteRequest, error)
}

// EditHistoryRepository defines operations for append-only edit history records
type EditHistoryRepository interface {
	Repository[models.EditHistoryRecord, models.EditHistoryFilter]
	ListByEntryID(ctx context.Context, entryID uint) ([]*models.EditHistoryRecord, error)
	ListByEntryUUID(ctx context.Context, entryUUID uuid.UUID) ([]*models.EditHistoryRecord, error)
}

// ActionLogRepository defines operations for action logs
type ActionLogRepository interface {
	Repository[models.ActionLog, models.ActionLogFilter]
	ListByEntryUUID(ctx context.Context, entryUUID uuid.UUID, limit, offset int) ([]*models.ActionLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.ActionLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.ActionLog, error)
	ListDeletionEvents(ctx context.Context, limit, offset int) ([]*models.ActionLog, error)
}

// ProcessRepository defines operations for the per-client process catalog
type ProcessRepository interface {
	Repository[models.Process, models.ProcessFilter]
	ByClientAndName(ctx context.Context, clientType models.ClientType, name string) (*models.Process, error)
	ListByClient(ctx context.Context, clientType models.ClientType) ([]*models.Process, error)
	Update(ctx context.Context, process models.Process) error
}

// BillingRateRepository defines operations for billing rates
type BillingRateRepository interface {
	Repository[models.BillingRate, models.BillingRateFilter]
	ByKey(ctx context.Context, clientType models.ClientType, processID uint, requestType models.RequestType) (*models.BillingRate, error)
	ListByClient(ctx context.Context, clientType models.ClientType) ([]*models.BillingRate, error)
}
