package repository

import (
	"context"
	"errors"

	"github.com/recordflow/allocation-ledger/models"
	"github.com/recordflow/allocation-ledger/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeleteRequestRepositoryImpl implements the DeleteRequestRepository interface
type DeleteRequestRepositoryImpl struct {
	*BaseRepository[models.DeleteRequest, models.DeleteRequestFilter]
}

// NewDeleteRequestRepository creates a new delete request repository
func NewDeleteRequestRepository(db *gorm.DB) DeleteRequestRepository {
	return &DeleteRequestRepositoryImpl{
		BaseRepository: NewBaseRepository[models.DeleteRequest, models.DeleteRequestFilter](db),
	}
}

// ByID retrieves a delete request by ID with its entry preloaded
func (r *DeleteRequestRepositoryImpl) ByID(ctx context.Context, id uint) (*models.DeleteRequest, error) {
	db := r.getDB(ctx)

	var request models.DeleteRequest
	err := db.Preload("Entry").Last(&request, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &request, nil
}

// ByUUID retrieves a delete request by UUID
func (r *DeleteRequestRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.DeleteRequest, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.DeleteRequestFilter{UUID: &parsed}
	requests, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(requests) == 0 {
		return nil, nil
	}

	return requests[0], nil
}

// ByUUIDForUpdate retrieves a delete request by UUID with a row lock so
// concurrent reviews serialize. Call inside a transaction.
func (r *DeleteRequestRepositoryImpl) ByUUIDForUpdate(ctx context.Context, uuidStr string) (*models.DeleteRequest, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	db := r.getDB(ctx)

	var request models.DeleteRequest
	err = db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("uuid = ?", parsed).
		Last(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &request, nil
}

// PendingByEntryID returns the pending delete request for an entry, or nil.
// Call inside a transaction holding the entry row lock to make the
// one-pending-per-entry guard race free.
func (r *DeleteRequestRepositoryImpl) PendingByEntryID(ctx context.Context, entryID uint) (*models.DeleteRequest, error) {
	db := r.getDB(ctx)

	var request models.DeleteRequest
	err := db.Where("entry_id = ? AND status = ?", entryID, models.DeleteRequestStatusPending).
		Last(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &request, nil
}

// Update persists a modified delete request
func (r *DeleteRequestRepositoryImpl) Update(ctx context.Context, request models.DeleteRequest) error {
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

	request.UpdatedAt = utils.UTCNow()

	err = db.Save(&request).Error
	if err != nil {
		return err
	}

	return nil
}

// ListPending retrieves pending delete requests oldest first, optionally
// limited to one client
func (r *DeleteRequestRepositoryImpl) ListPending(ctx context.Context, clientType *models.ClientType, limit, offset int) ([]*models.DeleteRequest, error) {
	status := models.DeleteRequestStatusPending
	filter := models.DeleteRequestFilter{Status: &status, ClientType: clientType}
	return r.ByFilter(ctx, filter, "created_at ASC", limit, offset)
}

// ByFilter retrieves delete requests based on filter criteria
func (r *DeleteRequestRepositoryImpl) ByFilter(ctx context.Context, filter models.DeleteRequestFilter, orderBy string, limit, offset int) ([]*models.DeleteRequest, error) {
	db := r.getDB(ctx)

	var requests []*models.DeleteRequest
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
	query = query.Preload("Entry")

	err := query.Find(&requests).Error
	if err != nil {
		return nil, err
	}

	return requests, nil
}

// Count returns the number of delete requests matching the filter
func (r *DeleteRequestRepositoryImpl) Count(ctx context.Context, filter models.DeleteRequestFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var request models.DeleteRequest
	query := r.applyFilter(db.Model(&request), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any delete request matching the filter exists
func (r *DeleteRequestRepositoryImpl) Exists(ctx context.Context, filter models.DeleteRequestFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *DeleteRequestRepositoryImpl) applyFilter(db *gorm.DB, filter models.DeleteRequestFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.EntryID != nil {
		db = db.Where("entry_id = ?", *filter.EntryID)
	}
	if filter.EntryUUID != nil {
		db = db.Where("entry_uuid = ?", *filter.EntryUUID)
	}
	if filter.ClientType != nil {
		db = db.Where("client_type = ?", *filter.ClientType)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.RequestedBy != nil {
		db = db.Where("requested_by = ?", *filter.RequestedBy)
	}
	if filter.ReviewerID != nil {
		db = db.Where("reviewer_id = ?", *filter.ReviewerID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
