// Package businessflow contains the core business logic and use cases for deletion workflows
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/recordflow/allocation-ledger/app/dto"
	"github.com/recordflow/allocation-ledger/models"
	"github.com/recordflow/allocation-ledger/repository"
	"github.com/recordflow/allocation-ledger/utils"
	"gorm.io/gorm"
)

// DeleteRequestFlow handles the two-step entry deletion workflow. Resources
// never delete directly; they submit a request that an admin approves (soft or
// hard) or rejects with a comment.
type DeleteRequestFlow interface {
	RequestDelete(ctx context.Context, req *dto.RequestDeleteRequest, metadata *ClientMetadata) (*dto.RequestDeleteResponse, error)
	ReviewDelete(ctx context.Context, req *dto.ReviewDeleteRequest, metadata *ClientMetadata) (*dto.ReviewDeleteResponse, error)
	ListDeleteRequests(ctx context.Context, req *dto.ListDeleteRequestsRequest, metadata *ClientMetadata) (*dto.ListDeleteRequestsResponse, error)
}

// DeleteRequestFlowImpl implements the deletion workflow
type DeleteRequestFlowImpl struct {
	entryRepo   repository.AllocationEntryRepository
	requestRepo repository.DeleteRequestRepository
	actionRepo  repository.ActionLogRepository
	db          *gorm.DB
}

// NewDeleteRequestFlow creates a new delete request flow instance
func NewDeleteRequestFlow(
	entryRepo repository.AllocationEntryRepository,
	requestRepo repository.DeleteRequestRepository,
	actionRepo repository.ActionLogRepository,
	db *gorm.DB,
) DeleteRequestFlow {
	return &DeleteRequestFlowImpl{
		entryRepo:   entryRepo,
		requestRepo: requestRepo,
		actionRepo:  actionRepo,
		db:          db,
	}
}

// RequestDelete submits a delete request for an entry. The entry row is
// locked for the duration of the check-then-insert, so at most one pending
// request can exist per entry; a second concurrent submission fails.
func (s *DeleteRequestFlowImpl) RequestDelete(ctx context.Context, req *dto.RequestDeleteRequest, metadata *ClientMetadata) (*dto.RequestDeleteResponse, error) {
	reason := strings.TrimSpace(req.DeleteReason)
	if reason == "" {
		return nil, NewBusinessError("DELETE_REQUEST_VALIDATION_FAILED", "Delete request validation failed", ErrEmptyDeleteReason)
	}

	var (
		entry   *models.AllocationEntry
		request *models.DeleteRequest
	)

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		entry, err = getEntryByUUIDForUpdate(txCtx, s.entryRepo, req.EntryUUID)
		if err != nil {
			return err
		}
		if entry.IsDeleted {
			return ErrEntryDeleted
		}
		if entry.IsLockedAt(utils.UTCNow()) {
			return ErrEntryLocked
		}

		pending, err := s.requestRepo.PendingByEntryID(txCtx, entry.ID)
		if err != nil {
			return err
		}
		if pending != nil {
			return ErrDeleteAlreadyPending
		}

		request = &models.DeleteRequest{
			EntryID:         entry.ID,
			EntryUUID:       entry.UUID,
			ClientType:      entry.ClientType,
			RequestedBy:     req.RequestedBy,
			RequestedByName: req.RequestedByName,
			RequestedAt:     utils.UTCNow(),
			DeleteReason:    reason,
			Status:          models.DeleteRequestStatusPending,
		}

		return s.requestRepo.Save(txCtx, request)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Delete request failed: %s", err.Error())
		_ = createActionLog(ctx, s.actionRepo, actorRef{ID: req.RequestedBy, Name: req.RequestedByName, Role: "resource"},
			models.ActionDeleteRequested, errMsg, false, &errMsg, nil, nil, metadata)

		return nil, NewBusinessError("DELETE_REQUEST_FAILED", "Delete request failed", err)
	}

	msg := fmt.Sprintf("Delete requested for entry %s", entry.UUID.String())
	_ = createActionLog(ctx, s.actionRepo, actorRef{ID: req.RequestedBy, Name: req.RequestedByName, Role: "resource"},
		models.ActionDeleteRequested, msg, true, nil, &entry.ClientType, &entry.UUID, metadata)

	request.Entry = entry

	return &dto.RequestDeleteResponse{
		Message:       "Delete request submitted successfully",
		DeleteRequest: ToDeleteRequestDTO(*request),
	}, nil
}

// ReviewDelete resolves a pending delete request exactly once. The request
// row is locked first so concurrent reviews serialize, then the entry row so
// the deletion cannot interleave with an edit. Approval applies the chosen
// mode; soft keeps the row and flips is_deleted, hard removes it for good
// while the action trail stays behind. Rejection demands a comment and
// reopens the entry for future requests.
func (s *DeleteRequestFlowImpl) ReviewDelete(ctx context.Context, req *dto.ReviewDeleteRequest, metadata *ClientMetadata) (*dto.ReviewDeleteResponse, error) {
	mode := models.DeleteModeSoft
	if req.Approve {
		if req.DeleteMode != nil {
			mode = models.DeleteMode(*req.DeleteMode)
			if !mode.Valid() {
				return nil, NewBusinessError("REVIEW_VALIDATION_FAILED", "Review validation failed", ErrInvalidDeleteMode)
			}
		}
	} else {
		if req.Comment == nil || strings.TrimSpace(*req.Comment) == "" {
			return nil, NewBusinessError("REVIEW_VALIDATION_FAILED", "Review validation failed", ErrRejectCommentRequired)
		}
	}

	var (
		entry   *models.AllocationEntry
		request *models.DeleteRequest
	)

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		request, err = s.requestRepo.ByUUIDForUpdate(txCtx, req.RequestUUID)
		if err != nil {
			return err
		}
		if request == nil {
			return ErrDeleteRequestNotFound
		}
		if !request.IsPending() {
			return ErrDeleteRequestNotPending
		}

		entry, err = getEntryByUUIDForUpdate(txCtx, s.entryRepo, request.EntryUUID.String())
		if err != nil {
			return err
		}

		now := utils.UTCNow()
		target := models.DeleteRequestStatusRejected
		if req.Approve {
			target = models.DeleteRequestStatusApproved
		}
		if !request.Status.CanTransitionTo(target) {
			return ErrDeleteRequestNotPending
		}

		if req.Approve {
			switch mode {
			case models.DeleteModeHard:
				err = s.entryRepo.HardDelete(txCtx, entry.ID)
			default:
				err = s.entryRepo.MarkDeleted(txCtx, entry.ID)
				entry.IsDeleted = true
			}
			if err != nil {
				return err
			}
			request.DeleteMode = &mode
		}

		request.Status = target
		request.ReviewerID = utils.ToPtr(req.ReviewerID)
		request.ReviewerName = utils.ToPtr(req.ReviewerName)
		request.ReviewedAt = &now
		if req.Comment != nil && strings.TrimSpace(*req.Comment) != "" {
			request.ReviewComment = utils.ToPtr(strings.TrimSpace(*req.Comment))
		}

		return s.requestRepo.Update(txCtx, *request)
	})

	action := models.ActionDeleteRejected
	if req.Approve {
		action = models.ActionDeleteApproved
	}

	if err != nil {
		errMsg := fmt.Sprintf("Delete review failed: %s", err.Error())
		_ = createActionLog(ctx, s.actionRepo, actorRef{ID: req.ReviewerID, Name: req.ReviewerName, Role: "admin"},
			action, errMsg, false, &errMsg, nil, nil, metadata)

		return nil, NewBusinessError("DELETE_REVIEW_FAILED", "Delete review failed", err)
	}

	var msg string
	if req.Approve {
		msg = fmt.Sprintf("Delete approved (%s) for entry %s", mode, entry.UUID.String())
	} else {
		msg = fmt.Sprintf("Delete rejected for entry %s", entry.UUID.String())
	}
	_ = createActionLog(ctx, s.actionRepo, actorRef{ID: req.ReviewerID, Name: req.ReviewerName, Role: "admin"},
		action, msg, true, nil, &entry.ClientType, &entry.UUID, metadata)

	request.Entry = entry

	message := "Delete request rejected"
	if req.Approve {
		message = "Delete request approved"
	}

	return &dto.ReviewDeleteResponse{
		Message:       message,
		DeleteRequest: ToDeleteRequestDTO(*request),
	}, nil
}

// ListDeleteRequests returns a paginated admin view of delete requests.
// Without a status filter pending requests come first, oldest at the top, so
// the page reads as a review queue.
func (s *DeleteRequestFlowImpl) ListDeleteRequests(ctx context.Context, req *dto.ListDeleteRequestsRequest, metadata *ClientMetadata) (resp *dto.ListDeleteRequestsResponse, err error) {
	defer func() {
		if err != nil {
			err = NewBusinessError("LIST_DELETE_REQUESTS_FAILED", "Failed to list delete requests", err)
		}
	}()

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
	filter := models.DeleteRequestFilter{}
	if req.ClientType != nil && *req.ClientType != "" {
		ct := models.ClientType(*req.ClientType)
		if !ct.Valid() {
			return nil, ErrInvalidClientType
		}
		filter.ClientType = &ct
	}

	orderBy := "CASE status WHEN 'pending' THEN 0 ELSE 1 END, created_at ASC"
	if req.Status != nil && *req.Status != "" {
		status := models.DeleteRequestStatus(*req.Status)
		if !status.Valid() {
			return nil, ErrInvalidDeleteStatus
		}
		filter.Status = &status
		orderBy = "created_at DESC"
	}

	// Count total
	total64, err := s.requestRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Fetch rows
	rows, err := s.requestRepo.ByFilter(ctx, filter, orderBy, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DeleteRequestDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToDeleteRequestDTO(*row))
	}

	totalPages := int((total64 + int64(limit) - 1) / int64(limit))

	return &dto.ListDeleteRequestsResponse{
		Message: "Delete requests retrieved successfully",
		Items:   items,
		Pagination: dto.PaginationInfo{
			Total:      total64,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}, nil
}
