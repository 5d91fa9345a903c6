// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/recordflow/allocation-ledger/models"
	"gorm.io/gorm"
)

// ActionLogRepositoryImpl implements ActionLogRepository interface
type ActionLogRepositoryImpl struct {
	*BaseRepository[models.ActionLog, models.ActionLogFilter]
}

// NewActionLogRepository creates a new action log repository
func NewActionLogRepository(db *gorm.DB) ActionLogRepository {
	return &ActionLogRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ActionLog, models.ActionLogFilter](db),
	}
}

// ListByEntryUUID retrieves action logs for a specific entry with pagination.
// Logs outlive hard-deleted entries, so this works on tombstoned entries too.
func (r *ActionLogRepositoryImpl) ListByEntryUUID(ctx context.Context, entryUUID uuid.UUID, limit, offset int) ([]*models.ActionLog, error) {
	db := r.getDB(ctx)

	var logs []*models.ActionLog
	query := db.Where("entry_uuid = ?", entryUUID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list action logs by entry: %w", err)
	}

	return logs, nil
}

// ListByAction retrieves action logs for a specific action with pagination
func (r *ActionLogRepositoryImpl) ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.ActionLog, error) {
	db := r.getDB(ctx)

	var logs []*models.ActionLog
	query := db.Where("action = ?", action).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list action logs by action: %w", err)
	}

	return logs, nil
}

// ListFailedActions retrieves all failed action log entries with pagination
func (r *ActionLogRepositoryImpl) ListFailedActions(ctx context.Context, limit, offset int) ([]*models.ActionLog, error) {
	db := r.getDB(ctx)

	var logs []*models.ActionLog
	query := db.Where("success = ?", false).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list failed action logs: %w", err)
	}

	return logs, nil
}

// ListDeletionEvents retrieves deletion-related action log entries with pagination
func (r *ActionLogRepositoryImpl) ListDeletionEvents(ctx context.Context, limit, offset int) ([]*models.ActionLog, error) {
	db := r.getDB(ctx)

	deletionActions := []string{
		models.ActionDeleteRequested,
		models.ActionDeleteApproved,
		models.ActionDeleteRejected,
	}

	var logs []*models.ActionLog
	query := db.Where("action IN ?", deletionActions).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list deletion action logs: %w", err)
	}

	return logs, nil
}

// ByFilter retrieves action logs based on filter criteria
func (r *ActionLogRepositoryImpl) ByFilter(ctx context.Context, filter models.ActionLogFilter, orderBy string, limit, offset int) ([]*models.ActionLog, error) {
	db := r.getDB(ctx)

	var logs []*models.ActionLog
	query := r.applyFilter(db, filter)

	// Apply ordering
	if orderBy != "" {
		query = query.Order(orderBy)
	}

	// Apply pagination
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&logs).Error
	if err != nil {
		return nil, err
	}

	return logs, nil
}

// Count returns the number of action logs matching the filter
func (r *ActionLogRepositoryImpl) Count(ctx context.Context, filter models.ActionLogFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var log models.ActionLog
	query := r.applyFilter(db.Model(&log), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any action log matching the filter exists
func (r *ActionLogRepositoryImpl) Exists(ctx context.Context, filter models.ActionLogFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *ActionLogRepositoryImpl) applyFilter(db *gorm.DB, filter models.ActionLogFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.ActorID != nil {
		db = db.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.Action != nil {
		db = db.Where("action = ?", *filter.Action)
	}
	if filter.ClientType != nil {
		db = db.Where("client_type = ?", *filter.ClientType)
	}
	if filter.EntryUUID != nil {
		db = db.Where("entry_uuid = ?", *filter.EntryUUID)
	}
	if filter.Success != nil {
		db = db.Where("success = ?", *filter.Success)
	}
	if filter.IPAddress != nil {
		db = db.Where("ip_address = ?", *filter.IPAddress)
	}
	if filter.RequestID != nil {
		db = db.Where("request_id = ?", *filter.RequestID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
