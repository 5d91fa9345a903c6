package repository

import (
	"context"

	"github.com/recordflow/allocation-ledger/models"
	"gorm.io/gorm"
)

// BillingRateRepositoryImpl implements the BillingRateRepository interface
type BillingRateRepositoryImpl struct {
	*BaseRepository[models.BillingRate, models.BillingRateFilter]
}

// NewBillingRateRepository creates a new billing rate repository
func NewBillingRateRepository(db *gorm.DB) BillingRateRepository {
	return &BillingRateRepositoryImpl{
		BaseRepository: NewBaseRepository[models.BillingRate, models.BillingRateFilter](db),
	}
}

// ByKey retrieves the rate for a client, process and request type combination.
// Returns nil when no rate is configured; the caller bills zero in that case.
func (r *BillingRateRepositoryImpl) ByKey(ctx context.Context, clientType models.ClientType, processID uint, requestType models.RequestType) (*models.BillingRate, error) {
	filter := models.BillingRateFilter{
		ClientType:  &clientType,
		ProcessID:   &processID,
		RequestType: &requestType,
	}
	rates, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(rates) == 0 {
		return nil, nil
	}

	return rates[0], nil
}

// ListByClient retrieves all rates configured for a client
func (r *BillingRateRepositoryImpl) ListByClient(ctx context.Context, clientType models.ClientType) ([]*models.BillingRate, error) {
	filter := models.BillingRateFilter{ClientType: &clientType}
	return r.ByFilter(ctx, filter, "process_id ASC, request_type ASC", 0, 0)
}

// ByFilter retrieves billing rates based on filter criteria
func (r *BillingRateRepositoryImpl) ByFilter(ctx context.Context, filter models.BillingRateFilter, orderBy string, limit, offset int) ([]*models.BillingRate, error) {
	db := r.getDB(ctx)

	var rates []*models.BillingRate
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

	err := query.Find(&rates).Error
	if err != nil {
		return nil, err
	}

	return rates, nil
}

// Count returns the number of billing rates matching the filter
func (r *BillingRateRepositoryImpl) Count(ctx context.Context, filter models.BillingRateFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var rate models.BillingRate
	query := r.applyFilter(db.Model(&rate), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any billing rate matching the filter exists
func (r *BillingRateRepositoryImpl) Exists(ctx context.Context, filter models.BillingRateFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *BillingRateRepositoryImpl) applyFilter(db *gorm.DB, filter models.BillingRateFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.ClientType != nil {
		db = db.Where("client_type = ?", *filter.ClientType)
	}
	if filter.ProcessID != nil {
		db = db.Where("process_id = ?", *filter.ProcessID)
	}
	if filter.RequestType != nil {
		db = db.Where("request_type = ?", *filter.RequestType)
	}

	return db
}
