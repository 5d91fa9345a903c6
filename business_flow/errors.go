// Package businessflow contains the core business logic and use cases for allocation ledger workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Entry validation errors
	ErrInvalidClientType     = errors.New("unknown client type")
	ErrInvalidRequestType    = errors.New("request type is not allowed for this client")
	ErrInvalidRequestorType  = errors.New("requestor type is not allowed for this client")
	ErrInvalidTaskType       = errors.New("task type is not allowed for this client")
	ErrInvalidAllocationDate = errors.New("allocation date must use the YYYY-MM-DD format")
	ErrFutureAllocationDate  = errors.New("allocation date cannot be in the future")
	ErrMonthLocked           = errors.New("this month is locked")
	ErrMultiCountNotAllowed  = errors.New("this client only accepts single-count entries")
	ErrCountNotPositive      = errors.New("count must be at least 1")
	ErrProcessNotFound       = errors.New("process is not configured for this client")
	ErrProcessRequired       = errors.New("process is required")
	ErrLocationRequired      = errors.New("location is required")

	// Edit errors
	ErrEntryNotFound     = errors.New("entry not found")
	ErrEntryDeleted      = errors.New("entry has been deleted")
	ErrEntryLocked       = errors.New("entry is locked")
	ErrEmptyChangeReason = errors.New("change reason is required")
	ErrNoFieldsToEdit    = errors.New("at least one field must be provided for update")

	// Request identifier errors
	ErrPrimaryTypeTaken = errors.New("primary request type already used for this request id")

	// Delete workflow errors
	ErrEmptyDeleteReason       = errors.New("delete reason is required")
	ErrDeleteAlreadyPending    = errors.New("a delete request is already pending")
	ErrDeleteRequestNotFound   = errors.New("delete request not found")
	ErrDeleteRequestNotPending = errors.New("delete request has already been resolved")
	ErrRejectCommentRequired   = errors.New("a comment is required when rejecting a delete request")
	ErrInvalidDeleteMode       = errors.New("delete mode must be soft or hard")
	ErrInvalidDeleteStatus     = errors.New("delete request status must be pending, approved, or rejected")

	// Payout errors
	ErrPayoutConfigInvalid = errors.New("payout configuration is invalid")
	ErrPayoutWindowEmpty   = errors.New("payout period contains no days")

	// Filter errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 100")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")

	ErrCacheNotAvailable = errors.New("cache not available")
)

// validationErrors reject the request payload itself
var validationErrors = []error{
	ErrInvalidClientType,
	ErrInvalidRequestType,
	ErrInvalidRequestorType,
	ErrInvalidTaskType,
	ErrInvalidAllocationDate,
	ErrFutureAllocationDate,
	ErrMonthLocked,
	ErrMultiCountNotAllowed,
	ErrCountNotPositive,
	ErrProcessNotFound,
	ErrProcessRequired,
	ErrLocationRequired,
	ErrEmptyChangeReason,
	ErrNoFieldsToEdit,
	ErrEmptyDeleteReason,
	ErrDeleteAlreadyPending,
	ErrRejectCommentRequired,
	ErrInvalidDeleteMode,
	ErrInvalidDeleteStatus,
	ErrPayoutConfigInvalid,
	ErrPayoutWindowEmpty,
	ErrInvalidPage,
	ErrInvalidPageSize,
	ErrStartDateAfterEndDate,
}

// stateErrors hit entities that exist but are in the wrong state
var stateErrors = []error{
	ErrEntryDeleted,
	ErrEntryLocked,
	ErrDeleteRequestNotPending,
}

// notFoundErrors hit entities that do not exist
var notFoundErrors = []error{
	ErrEntryNotFound,
	ErrDeleteRequestNotFound,
}

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// IsValidationError reports whether err rejects the request payload
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsStateError reports whether err hit an entity in the wrong state
func IsStateError(err error) bool {
	for _, target := range stateErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFoundError reports whether err hit a missing entity
func IsNotFoundError(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflictWarning reports whether err is the advisory duplicate-identifier
// warning; callers may retry with an explicit proceed signal
func IsConflictWarning(err error) bool {
	return errors.Is(err, ErrPrimaryTypeTaken)
}

func IsInvalidClientType(err error) bool {
	return errors.Is(err, ErrInvalidClientType)
}

func IsInvalidRequestType(err error) bool {
	return errors.Is(err, ErrInvalidRequestType)
}

func IsInvalidRequestorType(err error) bool {
	return errors.Is(err, ErrInvalidRequestorType)
}

func IsInvalidTaskType(err error) bool {
	return errors.Is(err, ErrInvalidTaskType)
}

func IsInvalidAllocationDate(err error) bool {
	return errors.Is(err, ErrInvalidAllocationDate)
}

func IsFutureAllocationDate(err error) bool {
	return errors.Is(err, ErrFutureAllocationDate)
}

func IsMonthLocked(err error) bool {
	return errors.Is(err, ErrMonthLocked)
}

func IsMultiCountNotAllowed(err error) bool {
	return errors.Is(err, ErrMultiCountNotAllowed)
}

func IsCountNotPositive(err error) bool {
	return errors.Is(err, ErrCountNotPositive)
}

func IsProcessNotFound(err error) bool {
	return errors.Is(err, ErrProcessNotFound)
}

func IsEntryNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound)
}

func IsEntryDeleted(err error) bool {
	return errors.Is(err, ErrEntryDeleted)
}

func IsEntryLocked(err error) bool {
	return errors.Is(err, ErrEntryLocked)
}

func IsEmptyChangeReason(err error) bool {
	return errors.Is(err, ErrEmptyChangeReason)
}

func IsNoFieldsToEdit(err error) bool {
	return errors.Is(err, ErrNoFieldsToEdit)
}

func IsPrimaryTypeTaken(err error) bool {
	return errors.Is(err, ErrPrimaryTypeTaken)
}

func IsEmptyDeleteReason(err error) bool {
	return errors.Is(err, ErrEmptyDeleteReason)
}

func IsDeleteAlreadyPending(err error) bool {
	return errors.Is(err, ErrDeleteAlreadyPending)
}

func IsDeleteRequestNotFound(err error) bool {
	return errors.Is(err, ErrDeleteRequestNotFound)
}

func IsDeleteRequestNotPending(err error) bool {
	return errors.Is(err, ErrDeleteRequestNotPending)
}

func IsRejectCommentRequired(err error) bool {
	return errors.Is(err, ErrRejectCommentRequired)
}

func IsInvalidDeleteMode(err error) bool {
	return errors.Is(err, ErrInvalidDeleteMode)
}

func IsPayoutConfigInvalid(err error) bool {
	return errors.Is(err, ErrPayoutConfigInvalid)
}

func IsPayoutWindowEmpty(err error) bool {
	return errors.Is(err, ErrPayoutWindowEmpty)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

func IsStartDateAfterEndDate(err error) bool {
	return errors.Is(err, ErrStartDateAfterEndDate)
}

func IsCacheNotAvailable(err error) bool {
	return errors.Is(err, ErrCacheNotAvailable)
}
