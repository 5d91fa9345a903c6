// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/recordflow/allocation-ledger/models"
	testingutil "github.com/recordflow/allocation-ledger/testing"
	"github.com/recordflow/allocation-ledger/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		t.Run("TableName", func(t *testing.T) {
			assert.Equal(t, "processes", models.Process{}.TableName())
		})

		t.Run("CatalogClassification", func(t *testing.T) {
			processes, err := fixtures.CreateTestProcessCatalog(models.ClientTypeMRO)
			require.NoError(t, err)
			require.Len(t, processes, 3)

			byName := make(map[string]*models.Process)
			for _, p := range processes {
				assert.NotZero(t, p.ID)
				byName[p.Name] = p
			}

			assert.True(t, byName["Logging"].IsLogging)
			assert.False(t, byName["Logging"].IsCompleteLogging)
			assert.True(t, byName["Complete Logging"].IsLogging)
			assert.True(t, byName["Complete Logging"].IsCompleteLogging)
			assert.False(t, byName["Correspondence"].IsLogging)
			assert.False(t, byName["Correspondence"].IsCompleteLogging)
		})

		t.Run("SameNameAcrossClients", func(t *testing.T) {
			// Each client ledger carries its own process list; names may repeat
			_, err := fixtures.CreateTestProcess(models.ClientTypeVerisma, "Logging")
			require.NoError(t, err)
			_, err = fixtures.CreateTestProcess(models.ClientTypeDatavant, "Logging")
			require.NoError(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAllocationEntryModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		processes, err := fixtures.CreateTestProcessCatalog(models.ClientTypeMRO)
		require.NoError(t, err)
		loggingID := processes[0].ID

		t.Run("TableName", func(t *testing.T) {
			assert.Equal(t, "allocation_entries", models.AllocationEntry{}.TableName())
		})

		t.Run("CreateAssignsIdentity", func(t *testing.T) {
			entry, err := fixtures.CreateTestEntry(models.ClientTypeMRO, 7, loggingID)
			require.NoError(t, err)

			assert.NotZero(t, entry.ID)
			assert.NotEqual(t, uuid.Nil, entry.UUID)
			assert.Equal(t, 1, entry.Count)
			assert.False(t, entry.IsDeleted)
			assert.False(t, entry.Locked)
			assert.Zero(t, entry.EditCount)
			assert.False(t, entry.CreatedAt.IsZero())
		})

		t.Run("UUIDIsUnique", func(t *testing.T) {
			entry, err := fixtures.CreateTestEntry(models.ClientTypeMRO, 7, loggingID)
			require.NoError(t, err)

			dup := *entry
			dup.ID = 0
			err = testDB.DB.Create(&dup).Error
			assert.Error(t, err)
		})

		t.Run("EnumsRoundTrip", func(t *testing.T) {
			entry, err := fixtures.CreateTestEntry(models.ClientTypeVerisma, 2, loggingID)
			require.NoError(t, err)

			var loaded models.AllocationEntry
			require.NoError(t, testDB.DB.First(&loaded, entry.ID).Error)
			assert.Equal(t, models.ClientTypeVerisma, loaded.ClientType)
			assert.Equal(t, models.RequestTypeNewRequest, loaded.RequestType)
			assert.True(t, loaded.BillingRate.Equal(entry.BillingRate))
		})

		t.Run("LateLogDetection", func(t *testing.T) {
			yesterday := utils.DateOnly(utils.UTCNow()).AddDate(0, 0, -1)
			entry, err := fixtures.CreateTestEntryOn(models.ClientTypeMRO, 7, loggingID, yesterday)
			require.NoError(t, err)

			var loaded models.AllocationEntry
			require.NoError(t, testDB.DB.First(&loaded, entry.ID).Error)
			assert.True(t, loaded.IsLateLog())
		})

		return nil
	})
	require.NoError(t, err)
}

func TestEditHistoryModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		processes, err := fixtures.CreateTestProcessCatalog(models.ClientTypeMRO)
		require.NoError(t, err)
		entry, err := fixtures.CreateTestEntry(models.ClientTypeMRO, 7, processes[0].ID)
		require.NoError(t, err)

		t.Run("TableName", func(t *testing.T) {
			assert.Equal(t, "edit_history", models.EditHistoryRecord{}.TableName())
		})

		t.Run("DiffSurvivesStorage", func(t *testing.T) {
			// The jsonb column must preserve the diff order exactly
			record := &models.EditHistoryRecord{
				EntryID:      entry.ID,
				EntryUUID:    entry.UUID,
				EditedBy:     7,
				EditedByName: "Jordan Smith",
				EditedByRole: models.EditorRoleResource,
				ChangeReason: "wrong location picked",
				FieldsChanged: models.FieldChangeList{
					{Field: "location_id", Old: "1", New: "2"},
					{Field: "remark", Old: "", New: "walk-in request"},
				},
			}
			require.NoError(t, testDB.DB.Create(record).Error)

			var loaded models.EditHistoryRecord
			require.NoError(t, testDB.DB.First(&loaded, record.ID).Error)
			require.Len(t, loaded.FieldsChanged, 2)
			assert.Equal(t, "location_id", loaded.FieldsChanged[0].Field)
			assert.Equal(t, "2", loaded.FieldsChanged[0].New)
			assert.Equal(t, "remark", loaded.FieldsChanged[1].Field)
			assert.Equal(t, models.EditorRoleResource, loaded.EditedByRole)
			assert.False(t, loaded.EditedAt.IsZero())
		})

		return nil
	})
	require.NoError(t, err)
}

func TestDeleteRequestModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		processes, err := fixtures.CreateTestProcessCatalog(models.ClientTypeMRO)
		require.NoError(t, err)
		entry, err := fixtures.CreateTestEntry(models.ClientTypeMRO, 7, processes[0].ID)
		require.NoError(t, err)

		t.Run("TableName", func(t *testing.T) {
			assert.Equal(t, "delete_requests", models.DeleteRequest{}.TableName())
		})

		t.Run("CreateStartsPending", func(t *testing.T) {
			request, err := fixtures.CreateTestDeleteRequest(entry, 7)
			require.NoError(t, err)

			assert.NotEqual(t, uuid.Nil, request.UUID)
			assert.True(t, request.IsPending())
			assert.False(t, request.IsResolved())
			assert.Nil(t, request.ReviewerID)
			assert.Nil(t, request.DeleteMode)
		})

		t.Run("ResolutionFieldsPersist", func(t *testing.T) {
			other, err := fixtures.CreateTestEntry(models.ClientTypeMRO, 8, processes[0].ID)
			require.NoError(t, err)
			request, err := fixtures.CreateTestDeleteRequest(other, 8)
			require.NoError(t, err)

			mode := models.DeleteModeSoft
			request.Status = models.DeleteRequestStatusApproved
			request.ReviewerID = utils.ToPtr(uint(1))
			request.ReviewerName = utils.ToPtr("Admin Reviewer")
			request.ReviewedAt = utils.UTCNowPtr()
			request.DeleteMode = &mode
			require.NoError(t, testDB.DB.Save(request).Error)

			var loaded models.DeleteRequest
			require.NoError(t, testDB.DB.First(&loaded, request.ID).Error)
			assert.True(t, loaded.IsResolved())
			require.NotNil(t, loaded.DeleteMode)
			assert.Equal(t, models.DeleteModeSoft, *loaded.DeleteMode)
			require.NotNil(t, loaded.ReviewerName)
			assert.Equal(t, "Admin Reviewer", *loaded.ReviewerName)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestActionLogModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		t.Run("TableName", func(t *testing.T) {
			assert.Equal(t, "action_logs", models.ActionLog{}.TableName())
		})

		t.Run("NullableActorColumns", func(t *testing.T) {
			// System events carry no actor at all
			row := &models.ActionLog{
				Action:    models.ActionPayoutComputed,
				Success:   utils.ToPtr(true),
				CreatedAt: utils.UTCNow(),
			}
			require.NoError(t, testDB.DB.Create(row).Error)

			var loaded models.ActionLog
			require.NoError(t, testDB.DB.First(&loaded, row.ID).Error)
			assert.Nil(t, loaded.ActorID)
			assert.Nil(t, loaded.EntryUUID)
			assert.False(t, loaded.IsFailed())
			assert.False(t, loaded.IsDeletionEvent())
		})

		t.Run("EntryReferenceWithoutForeignKey", func(t *testing.T) {
			// The entry never existed; the log row must still insert because
			// deletion events outlive hard-deleted entries
			ghost := uuid.New()
			row := &models.ActionLog{
				Action:    models.ActionDeleteApproved,
				EntryUUID: &ghost,
				Success:   utils.ToPtr(true),
				CreatedAt: utils.UTCNow().Add(-time.Minute),
			}
			require.NoError(t, testDB.DB.Create(row).Error)
			assert.True(t, row.IsDeletionEvent())
		})

		return nil
	})
	require.NoError(t, err)
}
