package dto

// RequestDeleteRequest asks for an entry to be removed. DeleteReason is
// mandatory; the entry keeps serving reads until an admin approves.
type RequestDeleteRequest struct {
	EntryUUID    string `json:"-"`
	DeleteReason string `json:"delete_reason" validate:"required"`
	// Internal: populated by handler from auth claims
	RequestedBy     uint   `json:"-"`
	RequestedByName string `json:"-"`
}

// DeleteRequestDTO represents a delete request in API responses
type DeleteRequestDTO struct {
	ID              uint    `json:"id"`
	UUID            string  `json:"uuid"`
	EntryUUID       string  `json:"entry_uuid"`
	ClientType      string  `json:"client_type"`
	RequestedBy     uint    `json:"requested_by"`
	RequestedByName string  `json:"requested_by_name"`
	RequestedAt     string  `json:"requested_at"`
	DeleteReason    string  `json:"delete_reason"`
	Status          string  `json:"status"`
	ReviewerName    *string `json:"reviewer_name,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	ReviewComment   *string `json:"review_comment,omitempty"`
	DeleteMode      *string `json:"delete_mode,omitempty"`
	// Entry summary for review queues; omitted when the entry is gone
	Entry *EntryDTO `json:"entry,omitempty"`
}

// RequestDeleteResponse returns the created delete request
type RequestDeleteResponse struct {
	Message       string           `json:"message"`
	DeleteRequest DeleteRequestDTO `json:"delete_request"`
}

// ReviewDeleteRequest resolves a pending delete request. Approvals choose the
// soft or hard mode; rejections must carry a comment for the requestor.
type ReviewDeleteRequest struct {
	RequestUUID string  `json:"-"`
	Approve     bool    `json:"approve"`
	DeleteMode  *string `json:"delete_mode,omitempty" validate:"omitempty,oneof=soft hard"`
	Comment     *string `json:"comment,omitempty"`
	// Internal: populated by handler from auth claims
	ReviewerID   uint   `json:"-"`
	ReviewerName string `json:"-"`
}

// ReviewDeleteResponse returns the resolved delete request
type ReviewDeleteResponse struct {
	Message       string           `json:"message"`
	DeleteRequest DeleteRequestDTO `json:"delete_request"`
}

// ListDeleteRequestsRequest represents a paginated admin view of delete
// requests, pending first unless a status filter narrows it
type ListDeleteRequestsRequest struct {
	ClientType *string `json:"client_type,omitempty" validate:"omitempty,oneof=mro verisma datavant"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

// ListDeleteRequestsResponse represents a paginated page of delete requests
type ListDeleteRequestsResponse struct {
	Message    string             `json:"message"`
	Items      []DeleteRequestDTO `json:"items"`
	Pagination PaginationInfo     `json:"pagination"`
}
