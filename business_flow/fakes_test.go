package businessflow

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/recordflow/allocation-ledger/models"
	"github.com/recordflow/allocation-ledger/repository"
	"github.com/recordflow/allocation-ledger/utils"
	"github.com/shopspring/decimal"
)

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// In-memory repositories backing the flow unit tests. Each fake mirrors the
// query semantics of its SQL counterpart closely enough for the business rules
// under test: default views exclude soft-deleted rows, identifier usage
// ignores soft-deleted entries, and hard deletion removes the row while the
// action trail stays.

var (
	_ repository.AllocationEntryRepository = (*fakeEntryRepo)(nil)
	_ repository.DeleteRequestRepository   = (*fakeDeleteRequestRepo)(nil)
	_ repository.EditHistoryRepository     = (*fakeHistoryRepo)(nil)
	_ repository.ActionLogRepository       = (*fakeActionRepo)(nil)
	_ repository.ProcessRepository         = (*fakeProcessRepo)(nil)
	_ repository.BillingRateRepository     = (*fakeRateRepo)(nil)
)

type fakeEntryRepo struct {
	nextID      uint
	entries     map[uint]*models.AllocationEntry
	updateCalls int
	hardDeleted []uint
	saveErr     error
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[uint]*models.AllocationEntry)}
}

func copyEntry(e *models.AllocationEntry) *models.AllocationEntry {
	c := *e
	return &c
}

func (r *fakeEntryRepo) matches(e *models.AllocationEntry, f models.AllocationEntryFilter) bool {
	if f.ID != nil && e.ID != *f.ID {
		return false
	}
	if f.UUID != nil && e.UUID != *f.UUID {
		return false
	}
	if f.ClientType != nil && e.ClientType != *f.ClientType {
		return false
	}
	if f.ResourceID != nil && e.ResourceID != *f.ResourceID {
		return false
	}
	if f.LocationID != nil && e.LocationID != *f.LocationID {
		return false
	}
	if f.ProcessID != nil && e.ProcessID != *f.ProcessID {
		return false
	}
	if f.RequestType != nil && e.RequestType != *f.RequestType {
		return false
	}
	if f.RequestID != nil && e.RequestID != *f.RequestID {
		return false
	}
	if f.DateFrom != nil && e.AllocationDate.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && e.AllocationDate.After(*f.DateTo) {
		return false
	}
	if f.OnlyDeleted != nil {
		if *f.OnlyDeleted != e.IsDeleted {
			return false
		}
	} else if !f.IncludeDeleted && e.IsDeleted {
		return false
	}
	return true
}

func (r *fakeEntryRepo) all() []*models.AllocationEntry {
	ids := make([]uint, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*models.AllocationEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.entries[id])
	}
	return out
}

func (r *fakeEntryRepo) ByID(ctx context.Context, id uint) (*models.AllocationEntry, error) {
	if e, ok := r.entries[id]; ok {
		return copyEntry(e), nil
	}
	return nil, nil
}

func (r *fakeEntryRepo) ByFilter(ctx context.Context, filter models.AllocationEntryFilter, orderBy string, limit, offset int) ([]*models.AllocationEntry, error) {
	matched := make([]*models.AllocationEntry, 0)
	for _, e := range r.all() {
		if r.matches(e, filter) {
			matched = append(matched, copyEntry(e))
		}
	}
	if strings.Contains(orderBy, "created_at DESC") {
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	}
	if offset > 0 {
		if offset >= len(matched) {
			return nil, nil
		}
		matched = matched[offset:]
	}
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeEntryRepo) Save(ctx context.Context, entity *models.AllocationEntry) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	_ = entity.BeforeCreate(nil)
	if entity.ID == 0 {
		r.nextID++
		entity.ID = r.nextID
	}
	if entity.UpdatedAt.IsZero() {
		entity.UpdatedAt = entity.CreatedAt
	}
	r.entries[entity.ID] = copyEntry(entity)
	return nil
}

func (r *fakeEntryRepo) SaveBatch(ctx context.Context, entities []*models.AllocationEntry) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeEntryRepo) Count(ctx context.Context, filter models.AllocationEntryFilter) (int64, error) {
	var n int64
	for _, e := range r.entries {
		if r.matches(e, filter) {
			n++
		}
	}
	return n, nil
}

func (r *fakeEntryRepo) Exists(ctx context.Context, filter models.AllocationEntryFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

func (r *fakeEntryRepo) ByUUID(ctx context.Context, uuidStr string) (*models.AllocationEntry, error) {
	for _, e := range r.entries {
		if e.UUID.String() == uuidStr {
			return copyEntry(e), nil
		}
	}
	return nil, nil
}

func (r *fakeEntryRepo) ByUUIDForUpdate(ctx context.Context, uuidStr string) (*models.AllocationEntry, error) {
	return r.ByUUID(ctx, uuidStr)
}

func (r *fakeEntryRepo) Update(ctx context.Context, entry models.AllocationEntry) error {
	r.updateCalls++
	r.entries[entry.ID] = copyEntry(&entry)
	return nil
}

func (r *fakeEntryRepo) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	e, ok := r.entries[id]
	if !ok {
		return nil
	}
	if v, ok := fields["is_deleted"].(bool); ok {
		e.IsDeleted = v
	}
	if v, ok := fields["locked"].(bool); ok {
		e.Locked = v
	}
	e.UpdatedAt = utils.UTCNow()
	return nil
}

func (r *fakeEntryRepo) RequestTypesInUse(ctx context.Context, clientType models.ClientType, requestID string) ([]models.RequestType, error) {
	seen := make(map[models.RequestType]bool)
	var types []models.RequestType
	for _, e := range r.all() {
		if e.ClientType != clientType || e.RequestID != requestID || e.IsDeleted {
			continue
		}
		if !seen[e.RequestType] {
			seen[e.RequestType] = true
			types = append(types, e.RequestType)
		}
	}
	return types, nil
}

func (r *fakeEntryRepo) MarkDeleted(ctx context.Context, id uint) error {
	if e, ok := r.entries[id]; ok {
		e.IsDeleted = true
		e.UpdatedAt = utils.UTCNow()
	}
	return nil
}

func (r *fakeEntryRepo) HardDelete(ctx context.Context, id uint) error {
	delete(r.entries, id)
	r.hardDeleted = append(r.hardDeleted, id)
	return nil
}

func (r *fakeEntryRepo) ListForPayout(ctx context.Context, clientType models.ClientType, from, to time.Time) ([]*models.AllocationEntry, error) {
	filter := models.AllocationEntryFilter{
		ClientType: &clientType,
		DateFrom:   &from,
		DateTo:     &to,
	}
	return r.ByFilter(ctx, filter, "allocation_date ASC, id ASC", 0, 0)
}

type fakeDeleteRequestRepo struct {
	nextID   uint
	requests map[uint]*models.DeleteRequest
	saveErr  error
}

func newFakeDeleteRequestRepo() *fakeDeleteRequestRepo {
	return &fakeDeleteRequestRepo{requests: make(map[uint]*models.DeleteRequest)}
}

func copyDeleteRequest(d *models.DeleteRequest) *models.DeleteRequest {
	c := *d
	return &c
}

func (r *fakeDeleteRequestRepo) all() []*models.DeleteRequest {
	ids := make([]uint, 0, len(r.requests))
	for id := range r.requests {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*models.DeleteRequest, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.requests[id])
	}
	return out
}

func (r *fakeDeleteRequestRepo) matches(d *models.DeleteRequest, f models.DeleteRequestFilter) bool {
	if f.ID != nil && d.ID != *f.ID {
		return false
	}
	if f.UUID != nil && d.UUID != *f.UUID {
		return false
	}
	if f.EntryID != nil && d.EntryID != *f.EntryID {
		return false
	}
	if f.EntryUUID != nil && d.EntryUUID != *f.EntryUUID {
		return false
	}
	if f.ClientType != nil && d.ClientType != *f.ClientType {
		return false
	}
	if f.Status != nil && d.Status != *f.Status {
		return false
	}
	if f.RequestedBy != nil && d.RequestedBy != *f.RequestedBy {
		return false
	}
	return true
}

func (r *fakeDeleteRequestRepo) ByID(ctx context.Context, id uint) (*models.DeleteRequest, error) {
	if d, ok := r.requests[id]; ok {
		return copyDeleteRequest(d), nil
	}
	return nil, nil
}

func (r *fakeDeleteRequestRepo) ByFilter(ctx context.Context, filter models.DeleteRequestFilter, orderBy string, limit, offset int) ([]*models.DeleteRequest, error) {
	matched := make([]*models.DeleteRequest, 0)
	for _, d := range r.all() {
		if r.matches(d, filter) {
			matched = append(matched, copyDeleteRequest(d))
		}
	}
	switch {
	case strings.Contains(orderBy, "CASE"):
		// Review queue order: pending first, oldest at the top
		sort.SliceStable(matched, func(i, j int) bool {
			pi, pj := matched[i].IsPending(), matched[j].IsPending()
			if pi != pj {
				return pi
			}
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		})
	case strings.Contains(orderBy, "created_at DESC"):
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	}
	if offset > 0 {
		if offset >= len(matched) {
			return nil, nil
		}
		matched = matched[offset:]
	}
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeDeleteRequestRepo) Save(ctx context.Context, entity *models.DeleteRequest) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	_ = entity.BeforeCreate(nil)
	if entity.ID == 0 {
		r.nextID++
		entity.ID = r.nextID
	}
	if entity.UpdatedAt.IsZero() {
		entity.UpdatedAt = entity.CreatedAt
	}
	r.requests[entity.ID] = copyDeleteRequest(entity)
	return nil
}

func (r *fakeDeleteRequestRepo) SaveBatch(ctx context.Context, entities []*models.DeleteRequest) error {
	for _, d := range entities {
		if err := r.Save(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeDeleteRequestRepo) Count(ctx context.Context, filter models.DeleteRequestFilter) (int64, error) {
	var n int64
	for _, d := range r.requests {
		if r.matches(d, filter) {
			n++
		}
	}
	return n, nil
}

func (r *fakeDeleteRequestRepo) Exists(ctx context.Context, filter models.DeleteRequestFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

func (r *fakeDeleteRequestRepo) ByUUID(ctx context.Context, uuidStr string) (*models.DeleteRequest, error) {
	for _, d := range r.requests {
		if d.UUID.String() == uuidStr {
			return copyDeleteRequest(d), nil
		}
	}
	return nil, nil
}

func (r *fakeDeleteRequestRepo) ByUUIDForUpdate(ctx context.Context, uuidStr string) (*models.DeleteRequest, error) {
	return r.ByUUID(ctx, uuidStr)
}

func (r *fakeDeleteRequestRepo) PendingByEntryID(ctx context.Context, entryID uint) (*models.DeleteRequest, error) {
	for _, d := range r.all() {
		if d.EntryID == entryID && d.IsPending() {
			return copyDeleteRequest(d), nil
		}
	}
	return nil, nil
}

func (r *fakeDeleteRequestRepo) Update(ctx context.Context, request models.DeleteRequest) error {
	r.requests[request.ID] = copyDeleteRequest(&request)
	return nil
}

func (r *fakeDeleteRequestRepo) ListPending(ctx context.Context, clientType *models.ClientType, limit, offset int) ([]*models.DeleteRequest, error) {
	filter := models.DeleteRequestFilter{ClientType: clientType}
	status := models.DeleteRequestStatusPending
	filter.Status = &status
	return r.ByFilter(ctx, filter, "created_at ASC", limit, offset)
}

type fakeHistoryRepo struct {
	nextID  uint
	records []*models.EditHistoryRecord
	saveErr error
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (r *fakeHistoryRepo) ByID(ctx context.Context, id uint) (*models.EditHistoryRecord, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			c := *rec
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeHistoryRepo) ByFilter(ctx context.Context, filter models.EditHistoryFilter, orderBy string, limit, offset int) ([]*models.EditHistoryRecord, error) {
	out := make([]*models.EditHistoryRecord, 0)
	for _, rec := range r.records {
		if filter.EntryID != nil && rec.EntryID != *filter.EntryID {
			continue
		}
		if filter.EntryUUID != nil && rec.EntryUUID != *filter.EntryUUID {
			continue
		}
		c := *rec
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeHistoryRepo) Save(ctx context.Context, entity *models.EditHistoryRecord) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	_ = entity.BeforeCreate(nil)
	r.nextID++
	entity.ID = r.nextID
	c := *entity
	r.records = append(r.records, &c)
	return nil
}

func (r *fakeHistoryRepo) SaveBatch(ctx context.Context, entities []*models.EditHistoryRecord) error {
	for _, rec := range entities {
		if err := r.Save(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeHistoryRepo) Count(ctx context.Context, filter models.EditHistoryFilter) (int64, error) {
	rows, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (r *fakeHistoryRepo) Exists(ctx context.Context, filter models.EditHistoryFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

func (r *fakeHistoryRepo) ListByEntryID(ctx context.Context, entryID uint) ([]*models.EditHistoryRecord, error) {
	return r.ByFilter(ctx, models.EditHistoryFilter{EntryID: &entryID}, "id ASC", 0, 0)
}

func (r *fakeHistoryRepo) ListByEntryUUID(ctx context.Context, entryUUID uuid.UUID) ([]*models.EditHistoryRecord, error) {
	return r.ByFilter(ctx, models.EditHistoryFilter{EntryUUID: &entryUUID}, "id ASC", 0, 0)
}

type fakeActionRepo struct {
	nextID uint
	logs   []*models.ActionLog
}

func newFakeActionRepo() *fakeActionRepo {
	return &fakeActionRepo{}
}

func (r *fakeActionRepo) byAction(action string) []*models.ActionLog {
	out := make([]*models.ActionLog, 0)
	for _, l := range r.logs {
		if l.Action == action {
			out = append(out, l)
		}
	}
	return out
}

func (r *fakeActionRepo) ByID(ctx context.Context, id uint) (*models.ActionLog, error) {
	for _, l := range r.logs {
		if l.ID == id {
			c := *l
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeActionRepo) ByFilter(ctx context.Context, filter models.ActionLogFilter, orderBy string, limit, offset int) ([]*models.ActionLog, error) {
	out := make([]*models.ActionLog, 0)
	for _, l := range r.logs {
		if filter.Action != nil && l.Action != *filter.Action {
			continue
		}
		if filter.EntryUUID != nil && (l.EntryUUID == nil || *l.EntryUUID != *filter.EntryUUID) {
			continue
		}
		c := *l
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeActionRepo) Save(ctx context.Context, entity *models.ActionLog) error {
	r.nextID++
	entity.ID = r.nextID
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = utils.UTCNow()
	}
	c := *entity
	r.logs = append(r.logs, &c)
	return nil
}

func (r *fakeActionRepo) SaveBatch(ctx context.Context, entities []*models.ActionLog) error {
	for _, l := range entities {
		if err := r.Save(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeActionRepo) Count(ctx context.Context, filter models.ActionLogFilter) (int64, error) {
	rows, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (r *fakeActionRepo) Exists(ctx context.Context, filter models.ActionLogFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

func (r *fakeActionRepo) ListByEntryUUID(ctx context.Context, entryUUID uuid.UUID, limit, offset int) ([]*models.ActionLog, error) {
	return r.ByFilter(ctx, models.ActionLogFilter{EntryUUID: &entryUUID}, "", limit, offset)
}

func (r *fakeActionRepo) ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.ActionLog, error) {
	return r.ByFilter(ctx, models.ActionLogFilter{Action: &action}, "", limit, offset)
}

func (r *fakeActionRepo) ListFailedActions(ctx context.Context, limit, offset int) ([]*models.ActionLog, error) {
	out := make([]*models.ActionLog, 0)
	for _, l := range r.logs {
		if l.IsFailed() {
			c := *l
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeActionRepo) ListDeletionEvents(ctx context.Context, limit, offset int) ([]*models.ActionLog, error) {
	out := make([]*models.ActionLog, 0)
	for _, l := range r.logs {
		if l.IsDeletionEvent() {
			c := *l
			out = append(out, &c)
		}
	}
	return out, nil
}

type fakeProcessRepo struct {
	nextID    uint
	processes map[uint]*models.Process
}

func newFakeProcessRepo() *fakeProcessRepo {
	return &fakeProcessRepo{processes: make(map[uint]*models.Process)}
}

func (r *fakeProcessRepo) add(clientType models.ClientType, name string, isLogging, isCompleteLogging bool) *models.Process {
	r.nextID++
	p := &models.Process{
		ID:                r.nextID,
		ClientType:        clientType,
		Name:              name,
		IsLogging:         isLogging,
		IsCompleteLogging: isCompleteLogging,
	}
	r.processes[p.ID] = p
	return p
}

func (r *fakeProcessRepo) ByID(ctx context.Context, id uint) (*models.Process, error) {
	if p, ok := r.processes[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *fakeProcessRepo) ByFilter(ctx context.Context, filter models.ProcessFilter, orderBy string, limit, offset int) ([]*models.Process, error) {
	out := make([]*models.Process, 0)
	ids := make([]uint, 0, len(r.processes))
	for id := range r.processes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		p := r.processes[id]
		if filter.ClientType != nil && p.ClientType != *filter.ClientType {
			continue
		}
		if filter.Name != nil && p.Name != *filter.Name {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeProcessRepo) Save(ctx context.Context, entity *models.Process) error {
	if entity.ID == 0 {
		r.nextID++
		entity.ID = r.nextID
	}
	c := *entity
	r.processes[entity.ID] = &c
	return nil
}

func (r *fakeProcessRepo) SaveBatch(ctx context.Context, entities []*models.Process) error {
	for _, p := range entities {
		if err := r.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeProcessRepo) Count(ctx context.Context, filter models.ProcessFilter) (int64, error) {
	rows, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (r *fakeProcessRepo) Exists(ctx context.Context, filter models.ProcessFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

func (r *fakeProcessRepo) ByClientAndName(ctx context.Context, clientType models.ClientType, name string) (*models.Process, error) {
	rows, _ := r.ByFilter(ctx, models.ProcessFilter{ClientType: &clientType, Name: &name}, "", 0, 0)
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *fakeProcessRepo) ListByClient(ctx context.Context, clientType models.ClientType) ([]*models.Process, error) {
	return r.ByFilter(ctx, models.ProcessFilter{ClientType: &clientType}, "name ASC", 0, 0)
}

func (r *fakeProcessRepo) Update(ctx context.Context, process models.Process) error {
	c := process
	r.processes[process.ID] = &c
	return nil
}

type fakeRateRepo struct {
	nextID uint
	rates  []*models.BillingRate
}

func newFakeRateRepo() *fakeRateRepo {
	return &fakeRateRepo{}
}

func (r *fakeRateRepo) add(clientType models.ClientType, processID uint, requestType models.RequestType, rate string) {
	r.nextID++
	r.rates = append(r.rates, &models.BillingRate{
		ID:          r.nextID,
		ClientType:  clientType,
		ProcessID:   processID,
		RequestType: requestType,
		Rate:        mustDecimal(rate),
	})
}

func (r *fakeRateRepo) ByID(ctx context.Context, id uint) (*models.BillingRate, error) {
	for _, rate := range r.rates {
		if rate.ID == id {
			c := *rate
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeRateRepo) ByFilter(ctx context.Context, filter models.BillingRateFilter, orderBy string, limit, offset int) ([]*models.BillingRate, error) {
	out := make([]*models.BillingRate, 0)
	for _, rate := range r.rates {
		if filter.ClientType != nil && rate.ClientType != *filter.ClientType {
			continue
		}
		if filter.ProcessID != nil && rate.ProcessID != *filter.ProcessID {
			continue
		}
		if filter.RequestType != nil && rate.RequestType != *filter.RequestType {
			continue
		}
		c := *rate
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeRateRepo) Save(ctx context.Context, entity *models.BillingRate) error {
	if entity.ID == 0 {
		r.nextID++
		entity.ID = r.nextID
	}
	c := *entity
	r.rates = append(r.rates, &c)
	return nil
}

func (r *fakeRateRepo) SaveBatch(ctx context.Context, entities []*models.BillingRate) error {
	for _, rate := range entities {
		if err := r.Save(ctx, rate); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRateRepo) Count(ctx context.Context, filter models.BillingRateFilter) (int64, error) {
	rows, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (r *fakeRateRepo) Exists(ctx context.Context, filter models.BillingRateFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

func (r *fakeRateRepo) ByKey(ctx context.Context, clientType models.ClientType, processID uint, requestType models.RequestType) (*models.BillingRate, error) {
	for _, rate := range r.rates {
		if rate.ClientType == clientType && rate.ProcessID == processID && rate.RequestType == requestType {
			c := *rate
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeRateRepo) ListByClient(ctx context.Context, clientType models.ClientType) ([]*models.BillingRate, error) {
	return r.ByFilter(ctx, models.BillingRateFilter{ClientType: &clientType}, "", 0, 0)
}
