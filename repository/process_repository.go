package repository

import (
	"context"

	"github.com/recordflow/allocation-ledger/models"
	"github.com/recordflow/allocation-ledger/utils"
	"gorm.io/gorm"
)

// ProcessRepositoryImpl implements the ProcessRepository interface
type ProcessRepositoryImpl struct {
	*BaseRepository[models.Process, models.ProcessFilter]
}

// NewProcessRepository creates a new process repository
func NewProcessRepository(db *gorm.DB) ProcessRepository {
	return &ProcessRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Process, models.ProcessFilter](db),
	}
}

// ByClientAndName retrieves a process by its unique client and name pair
func (r *ProcessRepositoryImpl) ByClientAndName(ctx context.Context, clientType models.ClientType, name string) (*models.Process, error) {
	filter := models.ProcessFilter{ClientType: &clientType, Name: &name}
	processes, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(processes) == 0 {
		return nil, nil
	}

	return processes[0], nil
}

// ListByClient retrieves all processes configured for a client
func (r *ProcessRepositoryImpl) ListByClient(ctx context.Context, clientType models.ClientType) ([]*models.Process, error) {
	filter := models.ProcessFilter{ClientType: &clientType}
	return r.ByFilter(ctx, filter, "name ASC", 0, 0)
}

// Update persists a modified process
func (r *ProcessRepositoryImpl) Update(ctx context.Context, process models.Process) error {
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

	process.UpdatedAt = utils.UTCNow()

	err = db.Save(&process).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves processes based on filter criteria
func (r *ProcessRepositoryImpl) ByFilter(ctx context.Context, filter models.ProcessFilter, orderBy string, limit, offset int) ([]*models.Process, error) {
	db := r.getDB(ctx)

	var processes []*models.Process
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

	err := query.Find(&processes).Error
	if err != nil {
		return nil, err
	}

	return processes, nil
}

// Count returns the number of processes matching the filter
func (r *ProcessRepositoryImpl) Count(ctx context.Context, filter models.ProcessFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var process models.Process
	query := r.applyFilter(db.Model(&process), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any process matching the filter exists
func (r *ProcessRepositoryImpl) Exists(ctx context.Context, filter models.ProcessFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *ProcessRepositoryImpl) applyFilter(db *gorm.DB, filter models.ProcessFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.ClientType != nil {
		db = db.Where("client_type = ?", *filter.ClientType)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.IsLogging != nil {
		db = db.Where("is_logging = ?", *filter.IsLogging)
	}
	if filter.IsCompleteLogging != nil {
		db = db.Where("is_complete_logging = ?", *filter.IsCompleteLogging)
	}

	return db
}
