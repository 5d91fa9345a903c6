package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/recordflow/allocation-ledger/models"
	"gorm.io/gorm"
)

// EditHistoryRepositoryImpl implements the EditHistoryRepository interface
type EditHistoryRepositoryImpl struct {
	*BaseRepository[models.EditHistoryRecord, models.EditHistoryFilter]
}

// NewEditHistoryRepository creates a new edit history repository
func NewEditHistoryRepository(db *gorm.DB) EditHistoryRepository {
	return &EditHistoryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.EditHistoryRecord, models.EditHistoryFilter](db),
	}
}

// ListByEntryID retrieves the edit trail of an entry oldest first
func (r *EditHistoryRepositoryImpl) ListByEntryID(ctx context.Context, entryID uint) ([]*models.EditHistoryRecord, error) {
	filter := models.EditHistoryFilter{EntryID: &entryID}
	return r.ByFilter(ctx, filter, "edited_at ASC, id ASC", 0, 0)
}

// ListByEntryUUID retrieves the edit trail of an entry by entry UUID oldest first
func (r *EditHistoryRepositoryImpl) ListByEntryUUID(ctx context.Context, entryUUID uuid.UUID) ([]*models.EditHistoryRecord, error) {
	filter := models.EditHistoryFilter{EntryUUID: &entryUUID}
	return r.ByFilter(ctx, filter, "edited_at ASC, id ASC", 0, 0)
}

// ByFilter retrieves edit history records based on filter criteria
func (r *EditHistoryRepositoryImpl) ByFilter(ctx context.Context, filter models.EditHistoryFilter, orderBy string, limit, offset int) ([]*models.EditHistoryRecord, error) {
	db := r.getDB(ctx)

	var records []*models.EditHistoryRecord
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

	err := query.Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Count returns the number of edit history records matching the filter
func (r *EditHistoryRepositoryImpl) Count(ctx context.Context, filter models.EditHistoryFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var record models.EditHistoryRecord
	query := r.applyFilter(db.Model(&record), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any edit history record matching the filter exists
func (r *EditHistoryRepositoryImpl) Exists(ctx context.Context, filter models.EditHistoryFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *EditHistoryRepositoryImpl) applyFilter(db *gorm.DB, filter models.EditHistoryFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.EntryID != nil {
		db = db.Where("entry_id = ?", *filter.EntryID)
	}
	if filter.EntryUUID != nil {
		db = db.Where("entry_uuid = ?", *filter.EntryUUID)
	}
	if filter.EditedBy != nil {
		db = db.Where("edited_by = ?", *filter.EditedBy)
	}
	if filter.EditedByRole != nil {
		db = db.Where("edited_by_role = ?", *filter.EditedByRole)
	}
	if filter.EditedAfter != nil {
		db = db.Where("edited_at >= ?", *filter.EditedAfter)
	}
	if filter.EditedBefore != nil {
		db = db.Where("edited_at < ?", *filter.EditedBefore)
	}

	return db
}
