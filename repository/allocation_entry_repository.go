package repository

import (
	"context"
	"errors"
	"time"

	"github.com/recordflow/allocation-ledger/models"
	"github.com/recordflow/allocation-ledger/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllocationEntryRepositoryImpl implements the AllocationEntryRepository interface
type AllocationEntryRepositoryImpl struct {
	*BaseRepository[models.AllocationEntry, models.AllocationEntryFilter]
}

// NewAllocationEntryRepository creates a new allocation entry repository
func NewAllocationEntryRepository(db *gorm.DB) AllocationEntryRepository {
	return &AllocationEntryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.AllocationEntry, models.AllocationEntryFilter](db),
	}
}

// ByID retrieves an entry by ID with pending delete requests preloaded
func (r *AllocationEntryRepositoryImpl) ByID(ctx context.Context, id uint) (*models.AllocationEntry, error) {
	db := r.getDB(ctx)

	var entry models.AllocationEntry
	err := db.Preload("DeleteRequests", "status = ?", models.DeleteRequestStatusPending).
		Last(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &entry, nil
}

// ByUUID retrieves an entry by UUID. Soft-deleted entries are returned so
// callers can distinguish "deleted" from "never existed"; hard-deleted rows
// are not.
func (r *AllocationEntryRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.AllocationEntry, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.AllocationEntryFilter{UUID: &parsed, IncludeDeleted: true}
	entries, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, nil
	}

	return entries[0], nil
}

// ByUUIDForUpdate retrieves an entry by UUID under a row lock. Must run inside
// a transaction started with WithTransaction; the lock is held until commit.
func (r *AllocationEntryRepositoryImpl) ByUUIDForUpdate(ctx context.Context, uuidStr string) (*models.AllocationEntry, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	db := r.getDB(ctx)

	var entry models.AllocationEntry
	err = db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("uuid = ?", parsed).
		Last(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &entry, nil
}

// Update persists a modified entry
func (r *AllocationEntryRepositoryImpl) Update(ctx context.Context, entry models.AllocationEntry) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	entry.UpdatedAt = utils.UTCNow()

	err = db.Save(&entry).Error
	if err != nil {
		return err
	}

	return nil
}

// UpdateFields applies a partial column update to an entry
func (r *AllocationEntryRepositoryImpl) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	db := r.getDB(ctx)
	fields["updated_at"] = utils.UTCNow()
	return db.Model(&models.AllocationEntry{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// RequestTypesInUse returns the distinct request types of live entries for the
// given client and request identifier. Soft-deleted entries release their
// usage and are excluded.
func (r *AllocationEntryRepositoryImpl) RequestTypesInUse(ctx context.Context, clientType models.ClientType, requestID string) ([]models.RequestType, error) {
	type row struct {
		RequestType models.RequestType
	}
	var rows []row

	db := r.getDB(ctx)
	err := db.Model(&models.AllocationEntry{}).
		Select("DISTINCT request_type").
		Where("client_type = ? AND request_id = ? AND is_deleted = ?", clientType, requestID, false).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	types := make([]models.RequestType, 0, len(rows))
	for _, rw := range rows {
		types = append(types, rw.RequestType)
	}
	return types, nil
}

// MarkDeleted soft-deletes an entry so it disappears from default views while
// staying readable in "include deleted" ones
func (r *AllocationEntryRepositoryImpl) MarkDeleted(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Model(&models.AllocationEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_deleted": true,
			"updated_at": utils.UTCNow(),
		}).Error
}

// HardDelete tombstones an entry so it never reappears in any listing
func (r *AllocationEntryRepositoryImpl) HardDelete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.AllocationEntry{}, id).Error
}

// ListForPayout retrieves the live entries of a client inside the payout
// window, ordered for deterministic aggregation
func (r *AllocationEntryRepositoryImpl) ListForPayout(ctx context.Context, clientType models.ClientType, from, to time.Time) ([]*models.AllocationEntry, error) {
	filter := models.AllocationEntryFilter{
		ClientType: &clientType,
		DateFrom:   &from,
		DateTo:     &to,
	}
	return r.ByFilter(ctx, filter, "allocation_date ASC, id ASC", 0, 0)
}

// ByFilter retrieves entries based on filter criteria
func (r *AllocationEntryRepositoryImpl) ByFilter(ctx context.Context, filter models.AllocationEntryFilter, orderBy string, limit, offset int) ([]*models.AllocationEntry, error) {
	db := r.getDB(ctx)

	var entries []*models.AllocationEntry
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

	// Preload relationships
	query = query.Preload("DeleteRequests", "status = ?", models.DeleteRequestStatusPending)

	err := query.Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Count returns the number of entries matching the filter
func (r *AllocationEntryRepositoryImpl) Count(ctx context.Context, filter models.AllocationEntryFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var entry models.AllocationEntry
	query := r.applyFilter(db.Model(&entry), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any entry matching the filter exists
func (r *AllocationEntryRepositoryImpl) Exists(ctx context.Context, filter models.AllocationEntryFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *AllocationEntryRepositoryImpl) applyFilter(db *gorm.DB, filter models.AllocationEntryFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.ClientType != nil {
		db = db.Where("client_type = ?", *filter.ClientType)
	}
	if filter.ResourceID != nil {
		db = db.Where("resource_id = ?", *filter.ResourceID)
	}
	if filter.LocationID != nil {
		db = db.Where("location_id = ?", *filter.LocationID)
	}
	if filter.ProcessID != nil {
		db = db.Where("process_id = ?", *filter.ProcessID)
	}
	if filter.RequestType != nil {
		db = db.Where("request_type = ?", *filter.RequestType)
	}
	if filter.RequestID != nil {
		db = db.Where("request_id = ?", *filter.RequestID)
	}
	if filter.DateFrom != nil {
		db = db.Where("allocation_date >= ?", utils.DateOnly(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		db = db.Where("allocation_date <= ?", utils.DateOnly(*filter.DateTo))
	}
	if filter.OnlyDeleted != nil && *filter.OnlyDeleted {
		db = db.Where("is_deleted = ?", true)
	} else if !filter.IncludeDeleted {
		db = db.Where("is_deleted = ?", false)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
