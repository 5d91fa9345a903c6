// Package businessflow contains the core business logic and use cases for ledger workflows
package businessflow

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/recordflow/allocation-ledger/app/dto"
	"github.com/recordflow/allocation-ledger/models"
	"github.com/recordflow/allocation-ledger/repository"
	"github.com/recordflow/allocation-ledger/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerFlow handles the allocation entry business logic
type LedgerFlow interface {
	CreateEntry(ctx context.Context, req *dto.CreateEntryRequest, metadata *ClientMetadata) (*dto.CreateEntryResponse, error)
	EditEntry(ctx context.Context, req *dto.EditEntryRequest, metadata *ClientMetadata) (*dto.EditEntryResponse, error)
	GetEntry(ctx context.Context, entryUUID string) (*dto.GetEntryResponse, error)
	ListEntries(ctx context.Context, req *dto.ListEntriesRequest, metadata *ClientMetadata) (*dto.ListEntriesResponse, error)
	GetEditHistory(ctx context.Context, entryUUID string) (*dto.GetEditHistoryResponse, error)
	CheckRequestID(ctx context.Context, req *dto.CheckRequestIDRequest) (*dto.CheckRequestIDResponse, error)
	LockEntry(ctx context.Context, req *dto.LockEntryRequest, metadata *ClientMetadata) (*dto.LockEntryResponse, error)
}

// LedgerFlowImpl implements the allocation entry business flow
type LedgerFlowImpl struct {
	entryRepo   repository.AllocationEntryRepository
	historyRepo repository.EditHistoryRepository
	processRepo repository.ProcessRepository
	rateRepo    repository.BillingRateRepository
	actionRepo  repository.ActionLogRepository
	db          *gorm.DB
}

// NewLedgerFlow creates a new ledger flow instance
func NewLedgerFlow(
	entryRepo repository.AllocationEntryRepository,
	historyRepo repository.EditHistoryRepository,
	processRepo repository.ProcessRepository,
	rateRepo repository.BillingRateRepository,
	actionRepo repository.ActionLogRepository,
	db *gorm.DB,
) LedgerFlow {
	return &LedgerFlowImpl{
		entryRepo:   entryRepo,
		historyRepo: historyRepo,
		processRepo: processRepo,
		rateRepo:    rateRepo,
		actionRepo:  actionRepo,
		db:          db,
	}
}

// requestIDVerdict is the advisory answer for one (request id, request type)
// pair. The check never blocks secondary types; a false available only ever
// means the proposed type is the client's primary and the identifier already
// carries a primary entry.
type requestIDVerdict struct {
	available bool
	inUse     []models.RequestType
	suggested *models.RequestType
}

// CreateEntry validates and persists a new allocation entry
func (s *LedgerFlowImpl) CreateEntry(ctx context.Context, req *dto.CreateEntryRequest, metadata *ClientMetadata) (*dto.CreateEntryResponse, error) {
	// Validate business rules
	profile, allocationDate, err := s.validateCreateEntryRequest(req)
	if err != nil {
		return nil, NewBusinessError("ENTRY_VALIDATION_FAILED", "Entry validation failed", err)
	}

	if _, err := s.getProcessForClient(ctx, req.ProcessID, profile.Client); err != nil {
		return nil, NewBusinessError("ENTRY_VALIDATION_FAILED", "Entry validation failed", err)
	}

	count := 1
	if req.Count != nil {
		count = *req.Count
	}

	requestID := ""
	if req.RequestID != nil {
		requestID = strings.TrimSpace(*req.RequestID)
	}

	requestType := models.RequestType(req.RequestType)

	// Advisory duplicate-identifier check, skipped once the caller has
	// acknowledged the warning
	if !req.ProceedDespiteWarning {
		verdict, err := s.checkRequestIdentifier(ctx, profile, requestID, requestType)
		if err != nil {
			return nil, NewBusinessError("REQUEST_ID_CHECK_FAILED", "Failed to check request identifier", err)
		}
		if !verdict.available {
			msg := fmt.Sprintf("Request id %q already has a %s entry for %s",
				requestID, models.GetRequestTypeDisplayName(profile.PrimaryRequestType), profile.DisplayName)
			if verdict.suggested != nil {
				msg = fmt.Sprintf("%s; suggested type: %s", msg, models.GetRequestTypeDisplayName(*verdict.suggested))
			}
			return nil, NewBusinessError("REQUEST_ID_CONFLICT", msg, ErrPrimaryTypeTaken)
		}
	}

	rate, amount, err := s.resolveBilling(ctx, profile.Client, req.ProcessID, requestType, count)
	if err != nil {
		return nil, NewBusinessError("BILLING_RATE_LOOKUP_FAILED", "Failed to resolve billing rate", err)
	}

	entry := &models.AllocationEntry{
		ClientType:     profile.Client,
		LocationID:     req.LocationID,
		ProcessID:      req.ProcessID,
		RequestType:    requestType,
		RequestID:      requestID,
		Count:          count,
		AllocationDate: allocationDate,
		ResourceID:     req.ResourceID,
		ResourceName:   req.ResourceName,
		ResourceEmail:  req.ResourceEmail,
		BillingRate:    rate,
		BillingAmount:  amount,
	}
	if req.RequestorType != nil {
		entry.RequestorType = models.RequestorType(*req.RequestorType)
	}
	if req.TaskType != nil {
		entry.TaskType = models.TaskType(*req.TaskType)
	}
	if req.Remark != nil {
		entry.Remark = strings.TrimSpace(*req.Remark)
	}
	if req.FacilityName != nil {
		entry.FacilityName = strings.TrimSpace(*req.FacilityName)
	}

	// Use transaction for atomicity
	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.entryRepo.Save(txCtx, entry)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Entry creation failed: %s", err.Error())
		_ = createActionLog(ctx, s.actionRepo, actorRef{ID: req.ResourceID, Name: req.ResourceName, Role: "resource"},
			models.ActionEntryCreated, errMsg, false, &errMsg, &profile.Client, nil, metadata)

		return nil, NewBusinessError("ENTRY_CREATION_FAILED", "Entry creation failed", err)
	}

	// Log successful creation
	msg := fmt.Sprintf("Entry created: %s", entry.UUID.String())
	_ = createActionLog(ctx, s.actionRepo, actorRef{ID: req.ResourceID, Name: req.ResourceName, Role: "resource"},
		models.ActionEntryCreated, msg, true, nil, &profile.Client, &entry.UUID, metadata)

	return &dto.CreateEntryResponse{
		Message: "Entry created successfully",
		Entry:   ToEntryDTO(*entry),
	}, nil
}

// EditEntry applies a partial update to an entry under a row lock, records the
// field-level diff in the edit history, and bumps the edit counter. A request
// whose values all match the stored state is a successful no-op: nothing is
// persisted and no history record is written.
func (s *LedgerFlowImpl) EditEntry(ctx context.Context, req *dto.EditEntryRequest, metadata *ClientMetadata) (*dto.EditEntryResponse, error) {
	if strings.TrimSpace(req.ChangeReason) == "" {
		return nil, NewBusinessError("EDIT_VALIDATION_FAILED", "Edit validation failed", ErrEmptyChangeReason)
	}
	if !editTouchesAnyField(req) {
		return nil, NewBusinessError("EDIT_VALIDATION_FAILED", "Edit validation failed", ErrNoFieldsToEdit)
	}

	var (
		entry   *models.AllocationEntry
		changes models.FieldChangeList
	)

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		entry, err = getEntryByUUIDForUpdate(txCtx, s.entryRepo, req.UUID)
		if err != nil {
			return err
		}
		if entry.IsDeleted {
			return ErrEntryDeleted
		}

		now := utils.UTCNow()
		if entry.IsLockedAt(now) {
			return ErrMonthLocked
		}

		changes, err = s.applyEntryEdit(txCtx, entry, req, now)
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}

		entry.EditCount++
		entry.UpdatedAt = now
		if err := s.entryRepo.Update(txCtx, *entry); err != nil {
			return err
		}

		role := models.EditorRole(req.ActorRole)
		if !role.Valid() {
			role = models.EditorRoleResource
		}

		record := &models.EditHistoryRecord{
			EntryID:       entry.ID,
			EntryUUID:     entry.UUID,
			EditedBy:      req.ActorID,
			EditedByName:  req.ActorName,
			EditedByRole:  role,
			EditedAt:      now,
			ChangeReason:  strings.TrimSpace(req.ChangeReason),
			ChangeNotes:   req.ChangeNotes,
			FieldsChanged: changes,
		}

		return s.historyRepo.Save(txCtx, record)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Entry edit failed: %s", err.Error())
		_ = createActionLog(ctx, s.actionRepo, actorRef{ID: req.ActorID, Name: req.ActorName, Role: req.ActorRole},
			models.ActionEntryEdited, errMsg, false, &errMsg, nil, nil, metadata)

		return nil, NewBusinessError("ENTRY_EDIT_FAILED", "Entry edit failed", err)
	}

	if len(changes) == 0 {
		return &dto.EditEntryResponse{
			Message:       "No changes detected",
			Entry:         ToEntryDTO(*entry),
			FieldsChanged: []dto.FieldChangeDTO{},
			NoChanges:     true,
		}, nil
	}

	msg := fmt.Sprintf("Entry edited: %s (%d fields)", entry.UUID.String(), len(changes))
	_ = createActionLog(ctx, s.actionRepo, actorRef{ID: req.ActorID, Name: req.ActorName, Role: req.ActorRole},
		models.ActionEntryEdited, msg, true, nil, &entry.ClientType, &entry.UUID, metadata)

	return &dto.EditEntryResponse{
		Message:       "Entry updated successfully",
		Entry:         ToEntryDTO(*entry),
		FieldsChanged: ToFieldChangeDTOs(changes),
	}, nil
}

// GetEntry returns a single entry by UUID
func (s *LedgerFlowImpl) GetEntry(ctx context.Context, entryUUID string) (*dto.GetEntryResponse, error) {
	entry, err := getEntryByUUID(ctx, s.entryRepo, entryUUID)
	if err != nil {
		return nil, NewBusinessError("ENTRY_LOOKUP_FAILED", "Failed to lookup entry", err)
	}

	return &dto.GetEntryResponse{
		Message: "Entry retrieved successfully",
		Entry:   ToEntryDTO(*entry),
	}, nil
}

// ListEntries returns a paginated page of a client's ledger
func (s *LedgerFlowImpl) ListEntries(ctx context.Context, req *dto.ListEntriesRequest, metadata *ClientMetadata) (resp *dto.ListEntriesResponse, err error) {
	defer func() {
		if err != nil {
			err = NewBusinessError("LIST_ENTRIES_FAILED", "Failed to list entries", err)
		}
	}()

	profile, ok := models.ProfileFor(models.ClientType(req.ClientType))
	if !ok {
		return nil, ErrInvalidClientType
	}

	// Normalize pagination
	page := max(1, req.Page)
	limit := req.Limit
	if limit <= 0 {
		limit = utils.DefaultPageSize
	}
	if limit > utils.MaxPageSize {
		limit = utils.MaxPageSize
	}
	offset := (page - 1) * limit

	// Build filter
	filter := models.AllocationEntryFilter{ClientType: &profile.Client}
	if req.Filter != nil {
		filter.ResourceID = req.Filter.ResourceID
		filter.LocationID = req.Filter.LocationID
		filter.ProcessID = req.Filter.ProcessID
		if req.Filter.RequestType != nil && *req.Filter.RequestType != "" {
			rt := models.RequestType(*req.Filter.RequestType)
			if profile.ValidRequestType(rt) {
				filter.RequestType = &rt
			}
		}
		if req.Filter.RequestID != nil && *req.Filter.RequestID != "" {
			filter.RequestID = req.Filter.RequestID
		}
		filter.DateFrom = req.Filter.DateFrom
		filter.DateTo = req.Filter.DateTo
		filter.IncludeDeleted = req.Filter.IncludeDeleted
		filter.OnlyDeleted = req.Filter.OnlyDeleted
	}

	// Resource tokens only ever see their own rows
	if req.RestrictToResourceID != nil {
		filter.ResourceID = req.RestrictToResourceID
	}

	// Order by
	orderBy := "created_at DESC"
	switch req.OrderBy {
	case "oldest":
		orderBy = "created_at ASC"
	case "newest":
		orderBy = "created_at DESC"
	}

	// Count total
	total64, err := s.entryRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Fetch rows
	rows, err := s.entryRepo.ByFilter(ctx, filter, orderBy, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]dto.EntryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToEntryDTO(*row))
	}

	totalPages := int((total64 + int64(limit) - 1) / int64(limit))

	return &dto.ListEntriesResponse{
		Message: "Entries retrieved successfully",
		Items:   items,
		Pagination: dto.PaginationInfo{
			Total:      total64,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}, nil
}

// GetEditHistory returns the append-only edit trail of an entry, oldest first
func (s *LedgerFlowImpl) GetEditHistory(ctx context.Context, entryUUID string) (resp *dto.GetEditHistoryResponse, err error) {
	defer func() {
		if err != nil {
			err = NewBusinessError("EDIT_HISTORY_FAILED", "Failed to get edit history", err)
		}
	}()

	entry, err := getEntryByUUID(ctx, s.entryRepo, entryUUID)
	if err != nil {
		return nil, err
	}

	records, err := s.historyRepo.ListByEntryID(ctx, entry.ID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.EditHistoryItemDTO, 0, len(records))
	for _, record := range records {
		items = append(items, ToEditHistoryItemDTO(*record))
	}

	return &dto.GetEditHistoryResponse{
		Message:   "Edit history retrieved successfully",
		EntryUUID: entry.UUID.String(),
		EditCount: entry.EditCount,
		Items:     items,
	}, nil
}

// CheckRequestID answers the advisory duplicate-identifier question without
// touching the ledger. The answer reflects a point-in-time read; a concurrent
// create may invalidate it, which callers tolerate.
func (s *LedgerFlowImpl) CheckRequestID(ctx context.Context, req *dto.CheckRequestIDRequest) (resp *dto.CheckRequestIDResponse, err error) {
	defer func() {
		if err != nil {
			err = NewBusinessError("REQUEST_ID_CHECK_FAILED", "Failed to check request identifier", err)
		}
	}()

	profile, ok := models.ProfileFor(models.ClientType(req.ClientType))
	if !ok {
		return nil, ErrInvalidClientType
	}

	proposed := models.RequestType(req.RequestType)
	if !profile.ValidRequestType(proposed) {
		return nil, ErrInvalidRequestType
	}

	requestID := strings.TrimSpace(req.RequestID)

	verdict, err := s.checkRequestIdentifier(ctx, profile, requestID, proposed)
	if err != nil {
		return nil, err
	}

	resp = &dto.CheckRequestIDResponse{
		ClientType:  profile.Client.String(),
		RequestID:   requestID,
		RequestType: proposed.String(),
		Available:   verdict.available,
	}
	for _, rt := range verdict.inUse {
		resp.InUseTypes = append(resp.InUseTypes, rt.String())
	}
	if verdict.suggested != nil {
		resp.SuggestedType = utils.ToPtr(verdict.suggested.String())
		resp.SuggestedTypeDisplay = utils.ToPtr(models.GetRequestTypeDisplayName(*verdict.suggested))
	}

	switch {
	case !verdict.available:
		resp.Message = fmt.Sprintf("Primary type already used for this request id; suggested type: %s",
			models.GetRequestTypeDisplayName(*verdict.suggested))
	case verdict.suggested != nil:
		resp.Message = fmt.Sprintf("Request id has prior entries; %s is the usual choice",
			models.GetRequestTypeDisplayName(*verdict.suggested))
	default:
		resp.Message = "Request id is available for this type"
	}

	return resp, nil
}

// LockEntry marks an entry locked ahead of its month window closing. The
// operation is one way and idempotent; locking an already-locked entry
// succeeds without another audit row.
func (s *LedgerFlowImpl) LockEntry(ctx context.Context, req *dto.LockEntryRequest, metadata *ClientMetadata) (*dto.LockEntryResponse, error) {
	var (
		entry         *models.AllocationEntry
		alreadyLocked bool
	)

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		entry, err = getEntryByUUIDForUpdate(txCtx, s.entryRepo, req.UUID)
		if err != nil {
			return err
		}
		if entry.Locked {
			alreadyLocked = true
			return nil
		}

		entry.Locked = true
		entry.UpdatedAt = utils.UTCNow()

		return s.entryRepo.Update(txCtx, *entry)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Entry lock failed: %s", err.Error())
		_ = createActionLog(ctx, s.actionRepo, actorRef{ID: req.AdminID, Name: req.AdminName, Role: "admin"},
			models.ActionEntryLocked, errMsg, false, &errMsg, nil, nil, metadata)

		return nil, NewBusinessError("ENTRY_LOCK_FAILED", "Entry lock failed", err)
	}

	message := "Entry locked successfully"
	if alreadyLocked {
		message = "Entry is already locked"
	} else {
		msg := fmt.Sprintf("Entry locked: %s", entry.UUID.String())
		_ = createActionLog(ctx, s.actionRepo, actorRef{ID: req.AdminID, Name: req.AdminName, Role: "admin"},
			models.ActionEntryLocked, msg, true, nil, &entry.ClientType, &entry.UUID, metadata)
	}

	return &dto.LockEntryResponse{
		Message:       message,
		UUID:          entry.UUID.String(),
		Locked:        true,
		AlreadyLocked: alreadyLocked,
	}, nil
}

// validateCreateEntryRequest checks the business rules that need no storage
// access and resolves the allocation date
func (s *LedgerFlowImpl) validateCreateEntryRequest(req *dto.CreateEntryRequest) (*models.ClientProfile, time.Time, error) {
	profile, ok := models.ProfileFor(models.ClientType(req.ClientType))
	if !ok {
		return nil, time.Time{}, ErrInvalidClientType
	}

	allocationDate, err := time.Parse(allocationDateLayout, req.AllocationDate)
	if err != nil {
		return nil, time.Time{}, ErrInvalidAllocationDate
	}
	allocationDate = utils.DateOnly(allocationDate)

	// The future-date rule applies at creation only; the month window must be
	// open for the date being logged
	now := utils.UTCNow()
	if allocationDate.After(utils.DateOnly(now)) {
		return nil, time.Time{}, ErrFutureAllocationDate
	}
	if models.MonthFullyElapsed(allocationDate, now) {
		return nil, time.Time{}, ErrMonthLocked
	}

	if !profile.ValidRequestType(models.RequestType(req.RequestType)) {
		return nil, time.Time{}, ErrInvalidRequestType
	}
	if req.RequestorType != nil && !profile.ValidRequestorType(models.RequestorType(*req.RequestorType)) {
		return nil, time.Time{}, ErrInvalidRequestorType
	}
	if req.TaskType != nil && !profile.ValidTaskType(models.TaskType(*req.TaskType)) {
		return nil, time.Time{}, ErrInvalidTaskType
	}

	if req.Count != nil {
		if *req.Count < 1 {
			return nil, time.Time{}, ErrCountNotPositive
		}
		if *req.Count > 1 && !profile.AllowsMultiCount {
			return nil, time.Time{}, ErrMultiCountNotAllowed
		}
	}

	if req.LocationID == 0 {
		return nil, time.Time{}, ErrLocationRequired
	}
	if req.ProcessID == 0 {
		return nil, time.Time{}, ErrProcessRequired
	}

	return profile, allocationDate, nil
}

// applyEntryEdit diffs the request against the stored entry and applies the
// changed fields in place. Diffs are recorded in the fixed field order so the
// history reads the same regardless of request shape. The caller persists the
// entry only when the returned diff is non-empty.
func (s *LedgerFlowImpl) applyEntryEdit(ctx context.Context, entry *models.AllocationEntry, req *dto.EditEntryRequest, now time.Time) (models.FieldChangeList, error) {
	profile, ok := models.ProfileFor(entry.ClientType)
	if !ok {
		return nil, ErrInvalidClientType
	}

	var changes models.FieldChangeList
	record := func(field, oldVal, newVal string) {
		changes = append(changes, models.FieldChange{Field: field, Old: oldVal, New: newVal})
	}

	identityChanged := false

	if req.LocationID != nil && *req.LocationID != entry.LocationID {
		if *req.LocationID == 0 {
			return nil, ErrLocationRequired
		}
		record("location_id", strconv.FormatUint(uint64(entry.LocationID), 10), strconv.FormatUint(uint64(*req.LocationID), 10))
		entry.LocationID = *req.LocationID
	}

	if req.ProcessID != nil && *req.ProcessID != entry.ProcessID {
		if _, err := s.getProcessForClient(ctx, *req.ProcessID, entry.ClientType); err != nil {
			return nil, err
		}
		record("process_id", strconv.FormatUint(uint64(entry.ProcessID), 10), strconv.FormatUint(uint64(*req.ProcessID), 10))
		entry.ProcessID = *req.ProcessID
	}

	if req.RequestType != nil && models.RequestType(*req.RequestType) != entry.RequestType {
		rt := models.RequestType(*req.RequestType)
		if !profile.ValidRequestType(rt) {
			return nil, ErrInvalidRequestType
		}
		record("request_type", entry.RequestType.String(), rt.String())
		entry.RequestType = rt
		identityChanged = true
	}

	if req.RequestorType != nil && models.RequestorType(*req.RequestorType) != entry.RequestorType {
		rt := models.RequestorType(*req.RequestorType)
		if !profile.ValidRequestorType(rt) {
			return nil, ErrInvalidRequestorType
		}
		record("requestor_type", string(entry.RequestorType), string(rt))
		entry.RequestorType = rt
	}

	if req.TaskType != nil && models.TaskType(*req.TaskType) != entry.TaskType {
		tt := models.TaskType(*req.TaskType)
		if !profile.ValidTaskType(tt) {
			return nil, ErrInvalidTaskType
		}
		record("task_type", string(entry.TaskType), string(tt))
		entry.TaskType = tt
	}

	if req.RequestID != nil {
		trimmed := strings.TrimSpace(*req.RequestID)
		if trimmed != entry.RequestID {
			record("request_id", entry.RequestID, trimmed)
			entry.RequestID = trimmed
			identityChanged = true
		}
	}

	if req.Count != nil && *req.Count != entry.Count {
		if *req.Count < 1 {
			return nil, ErrCountNotPositive
		}
		if *req.Count > 1 && !profile.AllowsMultiCount {
			return nil, ErrMultiCountNotAllowed
		}
		record("count", strconv.Itoa(entry.Count), strconv.Itoa(*req.Count))
		entry.Count = *req.Count
	}

	if req.AllocationDate != nil {
		newDate, err := time.Parse(allocationDateLayout, *req.AllocationDate)
		if err != nil {
			return nil, ErrInvalidAllocationDate
		}
		newDate = utils.DateOnly(newDate)
		if !utils.SameCalendarDay(newDate, entry.AllocationDate) {
			// The target month must still be open. The future-date rule is a
			// creation-time rule and is not re-checked here.
			if models.MonthFullyElapsed(newDate, now) {
				return nil, ErrMonthLocked
			}
			record("allocation_date", entry.AllocationDate.Format(allocationDateLayout), newDate.Format(allocationDateLayout))
			entry.AllocationDate = newDate
		}
	}

	if req.Remark != nil {
		trimmed := strings.TrimSpace(*req.Remark)
		if trimmed != entry.Remark {
			record("remark", entry.Remark, trimmed)
			entry.Remark = trimmed
		}
	}

	if req.FacilityName != nil {
		trimmed := strings.TrimSpace(*req.FacilityName)
		if trimmed != entry.FacilityName {
			record("facility_name", entry.FacilityName, trimmed)
			entry.FacilityName = trimmed
		}
	}

	// A changed identifier pair gets the same advisory check as a fresh entry.
	// The pre-edit row is still stored, so it never counts against itself.
	if identityChanged && !req.ProceedDespiteWarning {
		verdict, err := s.checkRequestIdentifier(ctx, profile, entry.RequestID, entry.RequestType)
		if err != nil {
			return nil, err
		}
		if !verdict.available {
			return nil, ErrPrimaryTypeTaken
		}
	}

	if req.RecomputeBilling {
		rate, amount, err := s.resolveBilling(ctx, entry.ClientType, entry.ProcessID, entry.RequestType, entry.Count)
		if err != nil {
			return nil, err
		}
		if !rate.Equal(entry.BillingRate) {
			record("billing_rate", entry.BillingRate.String(), rate.String())
			entry.BillingRate = rate
		}
		if !amount.Equal(entry.BillingAmount) {
			record("billing_amount", entry.BillingAmount.String(), amount.String())
			entry.BillingAmount = amount
		}
	}

	return changes, nil
}

// checkRequestIdentifier implements the advisory identifier rules for one
// client. An empty identifier is unconstrained. When the identifier already
// carries a primary entry the proposed primary is rejected with the client's
// fallback suggested; secondary types always pass. When entries exist but
// none is primary, every type passes and the fallback is offered as the
// conventional choice.
func (s *LedgerFlowImpl) checkRequestIdentifier(ctx context.Context, profile *models.ClientProfile, requestID string, proposed models.RequestType) (*requestIDVerdict, error) {
	if requestID == "" {
		return &requestIDVerdict{available: true}, nil
	}

	inUse, err := s.entryRepo.RequestTypesInUse(ctx, profile.Client, requestID)
	if err != nil {
		return nil, err
	}
	if len(inUse) == 0 {
		return &requestIDVerdict{available: true}, nil
	}

	verdict := &requestIDVerdict{available: true, inUse: inUse}

	if slices.Contains(inUse, profile.PrimaryRequestType) {
		if proposed == profile.PrimaryRequestType {
			verdict.available = false
			verdict.suggested = utils.ToPtr(profile.FallbackRequestType)
		}
		return verdict, nil
	}

	verdict.suggested = utils.ToPtr(profile.FallbackRequestType)

	return verdict, nil
}

// getProcessForClient loads a process and verifies it belongs to the client
func (s *LedgerFlowImpl) getProcessForClient(ctx context.Context, processID uint, clientType models.ClientType) (*models.Process, error) {
	process, err := s.processRepo.ByID(ctx, processID)
	if err != nil {
		return nil, err
	}
	if process == nil || process.ClientType != clientType {
		return nil, ErrProcessNotFound
	}
	return process, nil
}

// resolveBilling resolves the billing rate for a classification and derives
// the amount. A missing rate row bills zero rather than failing; the entry
// still counts toward payout.
func (s *LedgerFlowImpl) resolveBilling(ctx context.Context, clientType models.ClientType, processID uint, requestType models.RequestType, count int) (decimal.Decimal, decimal.Decimal, error) {
	rate, err := s.rateRepo.ByKey(ctx, clientType, processID, requestType)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if rate == nil {
		return decimal.Zero, decimal.Zero, nil
	}

	amount := rate.Rate.Mul(decimal.NewFromInt(int64(count)))

	return rate.Rate, amount, nil
}

// editTouchesAnyField reports whether the request names at least one editable
// field. RecomputeBilling counts; it can produce billing diffs on its own.
func editTouchesAnyField(req *dto.EditEntryRequest) bool {
	return req.LocationID != nil || req.ProcessID != nil || req.RequestType != nil ||
		req.RequestorType != nil || req.TaskType != nil || req.RequestID != nil ||
		req.Count != nil || req.AllocationDate != nil || req.Remark != nil ||
		req.FacilityName != nil || req.RecomputeBilling
}
