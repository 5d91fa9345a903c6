// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/recordflow/allocation-ledger/app/dto"
	"github.com/recordflow/allocation-ledger/models"
	"github.com/recordflow/allocation-ledger/repository"
	"github.com/recordflow/allocation-ledger/utils"
)

const RequestIDKey = "X-Request-ID"

// allocationDateLayout is the wire format for ledger dates
const allocationDateLayout = "2006-01-02"

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetSessionID sets the session ID
func (cm *ClientMetadata) SetSessionID(sessionID string) {
	cm.SessionID = sessionID
}

// getEntryByUUID fetches an entry or returns ErrEntryNotFound. Soft-deleted
// entries are returned; callers that must not touch them check IsDeleted.
func getEntryByUUID(ctx context.Context, repo repository.AllocationEntryRepository, uuidStr string) (*models.AllocationEntry, error) {
	entry, err := repo.ByUUID(ctx, uuidStr)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

// getEntryByUUIDForUpdate is getEntryByUUID under a row lock; call inside a
// transaction
func getEntryByUUIDForUpdate(ctx context.Context, repo repository.AllocationEntryRepository, uuidStr string) (*models.AllocationEntry, error) {
	entry, err := repo.ByUUIDForUpdate(ctx, uuidStr)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

// actorRef identifies who performed an audited action
type actorRef struct {
	ID   uint
	Name string
	Role string
}

// createActionLog writes one audit row. Failures surface to the caller but
// never abort the business operation; call sites drop the error.
func createActionLog(ctx context.Context, repo repository.ActionLogRepository, actor actorRef, action, description string, success bool, errorMsg *string, clientType *models.ClientType, entryUUID *uuid.UUID, metadata *ClientMetadata) error {
	ipAddress := ""
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	log := &models.ActionLog{
		Action:       action,
		ClientType:   clientType,
		EntryUUID:    entryUUID,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errorMsg,
	}
	if actor.ID != 0 {
		log.ActorID = utils.ToPtr(actor.ID)
	}
	if actor.Name != "" {
		log.ActorName = utils.ToPtr(actor.Name)
	}
	if actor.Role != "" {
		log.ActorRole = utils.ToPtr(actor.Role)
	}

	// Extract request ID from context if available
	requestID := ctx.Value(utils.RequestIDKey)
	if requestID != nil {
		requestIDStr, ok := requestID.(string)
		if ok {
			log.RequestID = &requestIDStr
		}
	}

	return repo.Save(ctx, log)
}

// ToEntryDTO converts an entry model to its API representation
func ToEntryDTO(entry models.AllocationEntry) dto.EntryDTO {
	return dto.EntryDTO{
		ID:                      entry.ID,
		UUID:                    entry.UUID.String(),
		ClientType:              entry.ClientType.String(),
		LocationID:              entry.LocationID,
		ProcessID:               entry.ProcessID,
		RequestType:             string(entry.RequestType),
		RequestTypeDisplay:      models.GetRequestTypeDisplayName(entry.RequestType),
		RequestorType:           string(entry.RequestorType),
		TaskType:                string(entry.TaskType),
		RequestID:               entry.RequestID,
		Count:                   entry.Count,
		AllocationDate:          entry.AllocationDate.Format(allocationDateLayout),
		ResourceID:              entry.ResourceID,
		ResourceName:            entry.ResourceName,
		BillingRate:             entry.BillingRate,
		BillingAmount:           entry.BillingAmount,
		Locked:                  entry.Locked,
		IsDeleted:               entry.IsDeleted,
		IsLateLog:               entry.IsLateLog(),
		EditCount:               entry.EditCount,
		HasPendingDeleteRequest: entry.HasPendingDeleteRequest(),
		Remark:                  entry.Remark,
		FacilityName:            entry.FacilityName,
		CreatedAt:               entry.CreatedAt.Format(time.RFC3339),
		UpdatedAt:               entry.UpdatedAt.Format(time.RFC3339),
	}
}

// ToDeleteRequestDTO converts a delete request model to its API representation
func ToDeleteRequestDTO(request models.DeleteRequest) dto.DeleteRequestDTO {
	d := dto.DeleteRequestDTO{
		ID:              request.ID,
		UUID:            request.UUID.String(),
		EntryUUID:       request.EntryUUID.String(),
		ClientType:      request.ClientType.String(),
		RequestedBy:     request.RequestedBy,
		RequestedByName: request.RequestedByName,
		RequestedAt:     request.RequestedAt.Format(time.RFC3339),
		DeleteReason:    request.DeleteReason,
		Status:          request.Status.String(),
		ReviewerName:    request.ReviewerName,
		ReviewComment:   request.ReviewComment,
	}

	if request.ReviewedAt != nil {
		d.ReviewedAt = utils.ToPtr(request.ReviewedAt.Format(time.RFC3339))
	}
	if request.DeleteMode != nil {
		d.DeleteMode = utils.ToPtr(string(*request.DeleteMode))
	}
	if request.Entry != nil {
		entryDTO := ToEntryDTO(*request.Entry)
		d.Entry = &entryDTO
	}

	return d
}

// ToFieldChangeDTOs converts a stored diff to its API representation
func ToFieldChangeDTOs(changes models.FieldChangeList) []dto.FieldChangeDTO {
	out := make([]dto.FieldChangeDTO, 0, len(changes))
	for _, c := range changes {
		out = append(out, dto.FieldChangeDTO{Field: c.Field, Old: c.Old, New: c.New})
	}
	return out
}

// ToEditHistoryItemDTO converts an edit history record to its API representation
func ToEditHistoryItemDTO(record models.EditHistoryRecord) dto.EditHistoryItemDTO {
	return dto.EditHistoryItemDTO{
		ID:            record.ID,
		EditedBy:      record.EditedBy,
		EditedByName:  record.EditedByName,
		EditedByRole:  string(record.EditedByRole),
		EditedAt:      record.EditedAt.Format(time.RFC3339),
		ChangeReason:  record.ChangeReason,
		ChangeNotes:   record.ChangeNotes,
		FieldsChanged: ToFieldChangeDTOs(record.FieldsChanged),
	}
}
