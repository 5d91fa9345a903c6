// Package tests contains integration tests for the ledger workflows
package tests

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/recordflow/allocation-ledger/app/dto"
	businessflow "github.com/recordflow/allocation-ledger/business_flow"
	"github.com/recordflow/allocation-ledger/models"
	"github.com/recordflow/allocation-ledger/repository"
	testingutil "github.com/recordflow/allocation-ledger/testing"
	"github.com/recordflow/allocation-ledger/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workflowPayoutConfig() models.PayoutConfig {
	return models.PayoutConfig{
		Slabs: []models.PayoutSlab{
			{Min: 0, Max: 12.99, Rate: decimal.RequireFromString("0.50")},
			{Min: 13, Max: 15.99, Rate: decimal.RequireFromString("0.55")},
			{Min: 16, Max: 18.99, Rate: decimal.RequireFromString("0.60")},
			{Min: 19, Max: math.Inf(1), Rate: decimal.RequireFromString("0.65")},
		},
		TopRate: decimal.RequireFromString("0.65"),
		Targets: []float64{13, 16, 19},
	}
}

func workflowErrorCode(t *testing.T, err error) string {
	t.Helper()
	var be *businessflow.BusinessError
	require.ErrorAs(t, err, &be)
	return be.Code
}

func TestLedgerWorkflow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		entryRepo := repository.NewAllocationEntryRepository(testDB.DB)
		historyRepo := repository.NewEditHistoryRepository(testDB.DB)
		processRepo := repository.NewProcessRepository(testDB.DB)
		rateRepo := repository.NewBillingRateRepository(testDB.DB)
		actionRepo := repository.NewActionLogRepository(testDB.DB)

		ledgerFlow := businessflow.NewLedgerFlow(entryRepo, historyRepo, processRepo, rateRepo, actionRepo, testDB.DB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")

		processes, err := fixtures.CreateTestProcessCatalog(models.ClientTypeMRO)
		require.NoError(t, err)
		loggingID := processes[0].ID
		_, err = fixtures.CreateTestBillingRate(models.ClientTypeMRO, loggingID, models.RequestTypeNewRequest, "1.25")
		require.NoError(t, err)

		today := utils.DateOnly(utils.UTCNow()).Format("2006-01-02")

		t.Run("CreateEditHistoryRoundTrip", func(t *testing.T) {
			createReq := &dto.CreateEntryRequest{
				ClientType:     "mro",
				LocationID:     1,
				ProcessID:      loggingID,
				RequestType:    "new_request",
				RequestID:      utils.ToPtr("REQ-500001"),
				AllocationDate: today,
				ResourceID:     7,
				ResourceName:   "Jordan Smith",
				ResourceEmail:  "jordan@example.com",
			}
			created, err := ledgerFlow.CreateEntry(context.Background(), createReq, metadata)
			require.NoError(t, err)
			require.NotNil(t, created)
			assert.NotEmpty(t, created.Entry.UUID)
			assert.True(t, created.Entry.BillingRate.Equal(decimal.RequireFromString("1.25")))
			assert.True(t, created.Entry.BillingAmount.Equal(decimal.RequireFromString("1.25")))
			assert.Zero(t, created.Entry.EditCount)

			editReq := &dto.EditEntryRequest{
				UUID:         created.Entry.UUID,
				Remark:       utils.ToPtr("walk-in request"),
				ChangeReason: "remark was missing",
				ActorID:      7,
				ActorName:    "Jordan Smith",
				ActorRole:    "resource",
			}
			edited, err := ledgerFlow.EditEntry(context.Background(), editReq, metadata)
			require.NoError(t, err)
			assert.False(t, edited.NoChanges)
			require.Len(t, edited.FieldsChanged, 1)
			assert.Equal(t, "remark", edited.FieldsChanged[0].Field)
			assert.Equal(t, "walk-in request", edited.FieldsChanged[0].New)
			assert.Equal(t, 1, edited.Entry.EditCount)

			// Re-sending the same values is a successful no-op
			unchanged, err := ledgerFlow.EditEntry(context.Background(), editReq, metadata)
			require.NoError(t, err)
			assert.True(t, unchanged.NoChanges)
			assert.Equal(t, 1, unchanged.Entry.EditCount)

			history, err := ledgerFlow.GetEditHistory(context.Background(), created.Entry.UUID)
			require.NoError(t, err)
			assert.Equal(t, 1, history.EditCount)
			require.Len(t, history.Items, 1)
			assert.Equal(t, "remark was missing", history.Items[0].ChangeReason)
			assert.Equal(t, "resource", history.Items[0].EditedByRole)

			fetched, err := ledgerFlow.GetEntry(context.Background(), created.Entry.UUID)
			require.NoError(t, err)
			assert.Equal(t, "walk-in request", fetched.Entry.Remark)
		})

		t.Run("DuplicateIdentifierAdvisory", func(t *testing.T) {
			first := &dto.CreateEntryRequest{
				ClientType:     "mro",
				LocationID:     1,
				ProcessID:      loggingID,
				RequestType:    "new_request",
				RequestID:      utils.ToPtr("REQ-500100"),
				AllocationDate: today,
				ResourceID:     7,
				ResourceName:   "Jordan Smith",
			}
			_, err := ledgerFlow.CreateEntry(context.Background(), first, metadata)
			require.NoError(t, err)

			check, err := ledgerFlow.CheckRequestID(context.Background(), &dto.CheckRequestIDRequest{
				ClientType:  "mro",
				RequestID:   "REQ-500100",
				RequestType: "new_request",
			})
			require.NoError(t, err)
			assert.False(t, check.Available)
			require.NotNil(t, check.SuggestedType)
			assert.Equal(t, "duplicate", *check.SuggestedType)
			assert.Contains(t, check.InUseTypes, "new_request")

			// Secondary types are never blocked
			check, err = ledgerFlow.CheckRequestID(context.Background(), &dto.CheckRequestIDRequest{
				ClientType:  "mro",
				RequestID:   "REQ-500100",
				RequestType: "duplicate",
			})
			require.NoError(t, err)
			assert.True(t, check.Available)

			// Creating a second primary entry needs an explicit acknowledgment
			second := *first
			_, err = ledgerFlow.CreateEntry(context.Background(), &second, metadata)
			require.Error(t, err)
			assert.Equal(t, "REQUEST_ID_CONFLICT", workflowErrorCode(t, err))
			assert.True(t, businessflow.IsPrimaryTypeTaken(err))

			second.ProceedDespiteWarning = true
			created, err := ledgerFlow.CreateEntry(context.Background(), &second, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, created.Entry.UUID)
		})

		t.Run("LockBlocksEditing", func(t *testing.T) {
			entry, err := fixtures.CreateTestEntry(models.ClientTypeMRO, 7, loggingID)
			require.NoError(t, err)

			lockReq := &dto.LockEntryRequest{UUID: entry.UUID.String(), AdminID: 1, AdminName: "Admin Reviewer"}
			locked, err := ledgerFlow.LockEntry(context.Background(), lockReq, metadata)
			require.NoError(t, err)
			assert.True(t, locked.Locked)
			assert.False(t, locked.AlreadyLocked)

			again, err := ledgerFlow.LockEntry(context.Background(), lockReq, metadata)
			require.NoError(t, err)
			assert.True(t, again.AlreadyLocked)

			_, err = ledgerFlow.EditEntry(context.Background(), &dto.EditEntryRequest{
				UUID:         entry.UUID.String(),
				Remark:       utils.ToPtr("too late"),
				ChangeReason: "fixing a typo",
				ActorID:      7,
				ActorName:    "Jordan Smith",
				ActorRole:    "resource",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsEntryLocked(err))
		})

		t.Run("ActionTrailCoversLifecycle", func(t *testing.T) {
			createdLogs, err := actionRepo.ListByAction(context.Background(), models.ActionEntryCreated, 0, 0)
			require.NoError(t, err)
			assert.NotEmpty(t, createdLogs)

			editedLogs, err := actionRepo.ListByAction(context.Background(), models.ActionEntryEdited, 0, 0)
			require.NoError(t, err)
			assert.NotEmpty(t, editedLogs)

			lockedLogs, err := actionRepo.ListByAction(context.Background(), models.ActionEntryLocked, 0, 0)
			require.NoError(t, err)
			// Idempotent re-locks do not write a second row
			assert.Len(t, lockedLogs, 1)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestDeleteWorkflow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		entryRepo := repository.NewAllocationEntryRepository(testDB.DB)
		requestRepo := repository.NewDeleteRequestRepository(testDB.DB)
		actionRepo := repository.NewActionLogRepository(testDB.DB)

		deleteFlow := businessflow.NewDeleteRequestFlow(entryRepo, requestRepo, actionRepo, testDB.DB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")

		processes, err := fixtures.CreateTestProcessCatalog(models.ClientTypeMRO)
		require.NoError(t, err)
		loggingID := processes[0].ID

		fileRequest := func(t *testing.T, entry *models.AllocationEntry) *dto.RequestDeleteResponse {
			t.Helper()
			result, err := deleteFlow.RequestDelete(context.Background(), &dto.RequestDeleteRequest{
				EntryUUID:       entry.UUID.String(),
				DeleteReason:    "logged against the wrong location",
				RequestedBy:     entry.ResourceID,
				RequestedByName: entry.ResourceName,
			}, metadata)
			require.NoError(t, err)
			return result
		}

		t.Run("SoftDeleteRoundTrip", func(t *testing.T) {
			entry, err := fixtures.CreateTestEntry(models.ClientTypeMRO, 7, loggingID)
			require.NoError(t, err)

			filed := fileRequest(t, entry)
			assert.Equal(t, "pending", filed.DeleteRequest.Status)

			// The entry keeps serving reads while the request is pending
			loaded, err := entryRepo.ByUUID(context.Background(), entry.UUID.String())
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.False(t, loaded.IsDeleted)

			// Only one pending request per entry
			_, err = deleteFlow.RequestDelete(context.Background(), &dto.RequestDeleteRequest{
				EntryUUID:       entry.UUID.String(),
				DeleteReason:    "second thoughts",
				RequestedBy:     7,
				RequestedByName: "Jordan Smith",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsDeleteAlreadyPending(err))

			reviewed, err := deleteFlow.ReviewDelete(context.Background(), &dto.ReviewDeleteRequest{
				RequestUUID:  filed.DeleteRequest.UUID,
				Approve:      true,
				ReviewerID:   1,
				ReviewerName: "Admin Reviewer",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "approved", reviewed.DeleteRequest.Status)
			require.NotNil(t, reviewed.DeleteRequest.DeleteMode)
			assert.Equal(t, "soft", *reviewed.DeleteRequest.DeleteMode)

			// Soft-deleted rows stay readable through the include-deleted view
			loaded, err = entryRepo.ByUUID(context.Background(), entry.UUID.String())
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.True(t, loaded.IsDeleted)
		})

		t.Run("HardDeleteLeavesAuditTrail", func(t *testing.T) {
			entry, err := fixtures.CreateTestEntry(models.ClientTypeMRO, 8, loggingID)
			require.NoError(t, err)

			filed := fileRequest(t, entry)
			reviewed, err := deleteFlow.ReviewDelete(context.Background(), &dto.ReviewDeleteRequest{
				RequestUUID:  filed.DeleteRequest.UUID,
				Approve:      true,
				DeleteMode:   utils.ToPtr("hard"),
				ReviewerID:   1,
				ReviewerName: "Admin Reviewer",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "approved", reviewed.DeleteRequest.Status)

			loaded, err := entryRepo.ByUUID(context.Background(), entry.UUID.String())
			require.NoError(t, err)
			assert.Nil(t, loaded)

			// The deletion record outlives the entry
			logs, err := actionRepo.ListByEntryUUID(context.Background(), entry.UUID, 0, 0)
			require.NoError(t, err)
			actions := make([]string, 0, len(logs))
			for _, log := range logs {
				actions = append(actions, log.Action)
			}
			assert.Contains(t, actions, models.ActionDeleteRequested)
			assert.Contains(t, actions, models.ActionDeleteApproved)
		})

		t.Run("RejectionNeedsComment", func(t *testing.T) {
			entry, err := fixtures.CreateTestEntry(models.ClientTypeMRO, 9, loggingID)
			require.NoError(t, err)
			filed := fileRequest(t, entry)

			_, err = deleteFlow.ReviewDelete(context.Background(), &dto.ReviewDeleteRequest{
				RequestUUID:  filed.DeleteRequest.UUID,
				Approve:      false,
				ReviewerID:   1,
				ReviewerName: "Admin Reviewer",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsRejectCommentRequired(err))

			reviewed, err := deleteFlow.ReviewDelete(context.Background(), &dto.ReviewDeleteRequest{
				RequestUUID:  filed.DeleteRequest.UUID,
				Approve:      false,
				Comment:      utils.ToPtr("date matches the source document"),
				ReviewerID:   1,
				ReviewerName: "Admin Reviewer",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "rejected", reviewed.DeleteRequest.Status)

			// The entry is untouched and may be re-filed
			loaded, err := entryRepo.ByUUID(context.Background(), entry.UUID.String())
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.False(t, loaded.IsDeleted)
			fileRequest(t, entry)

			// Resolving twice is a state error
			_, err = deleteFlow.ReviewDelete(context.Background(), &dto.ReviewDeleteRequest{
				RequestUUID:  filed.DeleteRequest.UUID,
				Approve:      false,
				Comment:      utils.ToPtr("already handled"),
				ReviewerID:   1,
				ReviewerName: "Admin Reviewer",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsDeleteRequestNotPending(err))
		})

		t.Run("ReviewQueueListsPendingFirst", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			catalog, err := fixtures.CreateTestProcessCatalog(models.ClientTypeMRO)
			require.NoError(t, err)

			resolvedEntry, err := fixtures.CreateTestEntry(models.ClientTypeMRO, 7, catalog[0].ID)
			require.NoError(t, err)
			resolved := fileRequest(t, resolvedEntry)
			_, err = deleteFlow.ReviewDelete(context.Background(), &dto.ReviewDeleteRequest{
				RequestUUID:  resolved.DeleteRequest.UUID,
				Approve:      false,
				Comment:      utils.ToPtr("keep it"),
				ReviewerID:   1,
				ReviewerName: "Admin Reviewer",
			}, metadata)
			require.NoError(t, err)

			pendingEntry, err := fixtures.CreateTestEntry(models.ClientTypeMRO, 8, catalog[0].ID)
			require.NoError(t, err)
			fileRequest(t, pendingEntry)

			listed, err := deleteFlow.ListDeleteRequests(context.Background(), &dto.ListDeleteRequestsRequest{
				ClientType: utils.ToPtr("mro"),
				Page:       1,
				Limit:      10,
			}, metadata)
			require.NoError(t, err)
			require.Len(t, listed.Items, 2)
			assert.Equal(t, "pending", listed.Items[0].Status)
			assert.Equal(t, "rejected", listed.Items[1].Status)
			assert.Equal(t, int64(2), listed.Pagination.Total)

			status := "rejected"
			filtered, err := deleteFlow.ListDeleteRequests(context.Background(), &dto.ListDeleteRequestsRequest{
				Status: &status,
				Page:   1,
				Limit:  10,
			}, metadata)
			require.NoError(t, err)
			require.Len(t, filtered.Items, 1)
			assert.Equal(t, "rejected", filtered.Items[0].Status)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPayoutWorkflow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		entryRepo := repository.NewAllocationEntryRepository(testDB.DB)
		processRepo := repository.NewProcessRepository(testDB.DB)
		actionRepo := repository.NewActionLogRepository(testDB.DB)

		payoutFlow := businessflow.NewPayoutFlow(entryRepo, processRepo, actionRepo, workflowPayoutConfig(), 8, nil, nil)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")

		processes, err := fixtures.CreateTestProcessCatalog(models.ClientTypeMRO)
		require.NoError(t, err)
		loggingID := processes[0].ID

		// Two cases on each weekday of one week: 10 cases over 40 hours
		monday := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)
		for day := 0; day < 5; day++ {
			for i := 0; i < 2; i++ {
				_, err := fixtures.CreateTestEntryOn(models.ClientTypeMRO, 7, loggingID, monday.AddDate(0, 0, day))
				require.NoError(t, err)
			}
		}
		// Soft-deleted noise inside the window must not count
		noise, err := fixtures.CreateTestEntryOn(models.ClientTypeMRO, 7, loggingID, monday)
		require.NoError(t, err)
		require.NoError(t, entryRepo.MarkDeleted(context.Background(), noise.ID))

		req := &dto.ComputePayoutRequest{
			ClientType:  "mro",
			PeriodStart: "2026-08-01",
			PeriodEnd:   "2026-08-07",
			AdminID:     1,
			AdminName:   "Admin Reviewer",
		}

		t.Run("ComputeReport", func(t *testing.T) {
			report, err := payoutFlow.ComputePayout(context.Background(), req, metadata)
			require.NoError(t, err)
			assert.False(t, report.FromCache)
			require.Len(t, report.Results, 1)

			line := report.Results[0]
			assert.Equal(t, uint(7), line.ResourceID)
			assert.Equal(t, "Resource 7", line.ResourceName)
			assert.Equal(t, 5, line.WeekdayDaysWorked)
			assert.InDelta(t, 40.0, line.TotalHours, 0.0001)
			assert.Equal(t, 10, line.LoggingCases)
			assert.Equal(t, 0, line.ProcessingCases)
			assert.InDelta(t, 0.25, line.AvgCasesPerHour, 0.0001)
			assert.True(t, line.SlabRate.Equal(decimal.RequireFromString("0.50")))
			assert.True(t, line.BasicPayout.Equal(decimal.RequireFromString("5.00")))
			assert.True(t, line.Bonus.IsZero())
			assert.True(t, line.TotalPayout.Equal(decimal.RequireFromString("5.00")))
			assert.True(t, line.BilledAmount.Equal(decimal.RequireFromString("10.00")))

			require.Len(t, line.ToAchieve, 3)
			assert.Equal(t, float64(13), line.ToAchieve[0].Target)
			assert.Equal(t, 510, line.ToAchieve[0].CasesNeeded)
			assert.Equal(t, 630, line.ToAchieve[1].CasesNeeded)
			assert.Equal(t, 750, line.ToAchieve[2].CasesNeeded)
			assert.NotNil(t, line.WorkingDaysRemaining)

			assert.Equal(t, 1, report.Totals.Resources)
			assert.Equal(t, 10, report.Totals.LoggingCases)
			assert.True(t, report.Totals.TotalPayout.Equal(decimal.RequireFromString("5.00")))
			assert.True(t, report.Totals.BilledAmount.Equal(decimal.RequireFromString("10.00")))
		})

		t.Run("ExportWritesWorkbook", func(t *testing.T) {
			filename, content, err := payoutFlow.ExportPayout(context.Background(), req, metadata)
			require.NoError(t, err)
			assert.Equal(t, "payout_mro_2026-08-01_to_2026-08-07.xlsx", filename)
			assert.NotEmpty(t, content)

			exported, err := actionRepo.ListByAction(context.Background(), models.ActionPayoutExported, 0, 0)
			require.NoError(t, err)
			assert.Len(t, exported, 1)
		})

		t.Run("InvertedWindowRejected", func(t *testing.T) {
			_, err := payoutFlow.ComputePayout(context.Background(), &dto.ComputePayoutRequest{
				ClientType:  "mro",
				PeriodStart: "2026-08-07",
				PeriodEnd:   "2026-08-01",
				AdminID:     1,
			}, metadata)
			require.Error(t, err)
			assert.True(t, errors.Is(err, businessflow.ErrStartDateAfterEndDate))
		})

		return nil
	})
	require.NoError(t, err)
}
