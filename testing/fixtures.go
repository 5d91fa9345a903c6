// Package testing provides test utilities and database setup for testing the allocation ledger
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/recordflow/allocation-ledger/models"
	"github.com/recordflow/allocation-ledger/utils"
	"github.com/shopspring/decimal"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestProcess creates a process row with classification flags derived
// from the name
func (tf *TestFixtures) CreateTestProcess(clientType models.ClientType, name string) (*models.Process, error) {
	isLogging, isCompleteLogging := models.ClassifyProcessName(name)

	process := &models.Process{
		ClientType:        clientType,
		Name:              name,
		IsLogging:         isLogging,
		IsCompleteLogging: isCompleteLogging,
	}

	if err := tf.DB.DB.Create(process).Error; err != nil {
		return nil, fmt.Errorf("failed to create test process: %w", err)
	}

	return process, nil
}

// CreateTestProcessCatalog creates the standard three-process catalog for a
// client: plain logging, complete logging and a non-logging process
func (tf *TestFixtures) CreateTestProcessCatalog(clientType models.ClientType) ([]*models.Process, error) {
	names := []string{"Logging", "Complete Logging", "Correspondence"}

	var processes []*models.Process
	for _, name := range names {
		process, err := tf.CreateTestProcess(clientType, name)
		if err != nil {
			return nil, err
		}
		processes = append(processes, process)
	}

	return processes, nil
}

// CreateTestBillingRate creates a billing rate row for the given key
func (tf *TestFixtures) CreateTestBillingRate(clientType models.ClientType, processID uint, requestType models.RequestType, rate string) (*models.BillingRate, error) {
	parsed, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid test rate %q: %w", rate, err)
	}

	billingRate := &models.BillingRate{
		ClientType:  clientType,
		ProcessID:   processID,
		RequestType: requestType,
		Rate:        parsed,
	}

	if err := tf.DB.DB.Create(billingRate).Error; err != nil {
		return nil, fmt.Errorf("failed to create test billing rate: %w", err)
	}

	return billingRate, nil
}

// CreateTestEntry creates an allocation entry with sensible defaults. The
// allocation date lands on the current day so the month window is open.
func (tf *TestFixtures) CreateTestEntry(clientType models.ClientType, resourceID uint, processID uint) (*models.AllocationEntry, error) {
	return tf.CreateTestEntryOn(clientType, resourceID, processID, utils.DateOnly(utils.UTCNow()))
}

// CreateTestEntryOn creates an allocation entry attributed to a specific date
func (tf *TestFixtures) CreateTestEntryOn(clientType models.ClientType, resourceID uint, processID uint, allocationDate time.Time) (*models.AllocationEntry, error) {
	requestID := fmt.Sprintf("REQ-%06d", rand.Intn(900000)+100000)

	entry := &models.AllocationEntry{
		ClientType:     clientType,
		LocationID:     1,
		ProcessID:      processID,
		RequestType:    models.RequestTypeNewRequest,
		RequestID:      requestID,
		Count:          1,
		AllocationDate: utils.DateOnly(allocationDate),
		ResourceID:     resourceID,
		ResourceName:   fmt.Sprintf("Resource %d", resourceID),
		ResourceEmail:  fmt.Sprintf("resource%d@example.com", resourceID),
		BillingRate:    decimal.RequireFromString("1.00"),
		BillingAmount:  decimal.RequireFromString("1.00"),
	}

	if err := tf.DB.DB.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create test entry: %w", err)
	}

	return entry, nil
}

// CreateTestEntries creates n entries for one resource spread across
// consecutive days starting at startDate
func (tf *TestFixtures) CreateTestEntries(clientType models.ClientType, resourceID uint, processID uint, startDate time.Time, n int) ([]*models.AllocationEntry, error) {
	var entries []*models.AllocationEntry
	for i := 0; i < n; i++ {
		entry, err := tf.CreateTestEntryOn(clientType, resourceID, processID, startDate.AddDate(0, 0, i))
		if err != nil {
			return nil, fmt.Errorf("failed to create entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// CreateTestDeleteRequest creates a pending delete request for an entry
func (tf *TestFixtures) CreateTestDeleteRequest(entry *models.AllocationEntry, requestedBy uint) (*models.DeleteRequest, error) {
	request := &models.DeleteRequest{
		EntryID:         entry.ID,
		EntryUUID:       entry.UUID,
		ClientType:      entry.ClientType,
		RequestedBy:     requestedBy,
		RequestedByName: fmt.Sprintf("Resource %d", requestedBy),
		RequestedAt:     utils.UTCNow(),
		DeleteReason:    "logged against the wrong location",
		Status:          models.DeleteRequestStatusPending,
	}

	if err := tf.DB.DB.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create test delete request: %w", err)
	}

	return request, nil
}
