// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/recordflow/allocation-ledger/app/dto"
	"github.com/recordflow/allocation-ledger/app/middleware"
	businessflow "github.com/recordflow/allocation-ledger/business_flow"
	"github.com/recordflow/allocation-ledger/utils"
)

// LedgerHandlerInterface defines the contract for ledger handlers
type LedgerHandlerInterface interface {
	CreateEntry(c fiber.Ctx) error
	ListEntries(c fiber.Ctx) error
	GetEntry(c fiber.Ctx) error
	EditEntry(c fiber.Ctx) error
	GetEditHistory(c fiber.Ctx) error
	CheckRequestID(c fiber.Ctx) error
	LockEntry(c fiber.Ctx) error
}

// LedgerHandler handles allocation ledger HTTP requests
type LedgerHandler struct {
	ledgerFlow businessflow.LedgerFlow
	validator  *validator.Validate
}

func (h *LedgerHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *LedgerHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerFlow businessflow.LedgerFlow) *LedgerHandler {
	handler := &LedgerHandler{
		ledgerFlow: ledgerFlow,
		validator:  validator.New(),
	}

	return handler
}

// CreateEntry handles logging a new allocation entry
// @Summary Create Entry
// @Description Log a new allocation entry for the authenticated resource
// @Tags Entries
// @Accept json
// @Produce json
// @Param request body dto.CreateEntryRequest true "Entry data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateEntryResponse} "Entry created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 409 {object} dto.APIResponse "Request identifier conflict with fallback suggestion"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/entries [post]
func (h *LedgerHandler) CreateEntry(c fiber.Ctx) error {
	var req dto.CreateEntryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	// Get authenticated resource from context
	resourceID, ok := c.Locals("resource_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Resource ID not found in context", "MISSING_RESOURCE_ID", nil)
	}
	req.ResourceID = resourceID
	req.ResourceName, _ = c.Locals("resource_name").(string)
	req.ResourceEmail, _ = c.Locals("resource_email").(string)

	// Call business logic with proper context
	result, err := h.ledgerFlow.CreateEntry(h.createRequestContext(c, "/api/v1/entries"), &req, metadata)
	if err != nil {
		// Duplicate identifier warning carries the fallback suggestion in its message
		if businessflow.IsConflictWarning(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, businessMessage(err, "Request identifier conflict"), businessErrorCode(err, "REQUEST_ID_CONFLICT"), nil)
		}
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, sentinelMessage(err, "Entry validation failed"), businessErrorCode(err, "ENTRY_VALIDATION_FAILED"), nil)
		}

		log.Println("Entry creation failed", err)
		// Handle generic business errors
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Entry creation failed", "ENTRY_CREATION_FAILED", nil)
	}

	middleware.ObserveEntryCreated(req.ClientType)

	// Successful entry creation
	return h.SuccessResponse(c, fiber.StatusCreated, "Entry created successfully", fiber.Map{
		"message": result.Message,
		"entry":   result.Entry,
	})
}

// ListEntries returns the authenticated resource's entries with filters and pagination
// @Summary List Entries
// @Description Retrieve the authenticated resource's ledger entries with pagination, ordering, and filters
// @Tags Entries
// @Accept json
// @Produce json
// @Param client_type query string true "Client type (mro|verisma|datavant)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 100)" default(10)
// @Param orderby query string false "Order by (newest|oldest)" default(newest)
// @Param resource_id query int false "Filter by resource (admin tokens only)"
// @Param location_id query int false "Filter by location"
// @Param process_id query int false "Filter by process"
// @Param request_type query string false "Filter by request type"
// @Param request_id query string false "Filter by request identifier"
// @Param date_from query string false "Filter by allocation date from (YYYY-MM-DD)"
// @Param date_to query string false "Filter by allocation date to (YYYY-MM-DD)"
// @Param include_deleted query bool false "Include soft-deleted entries"
// @Success 200 {object} dto.APIResponse{data=dto.ListEntriesResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/entries [get]
func (h *LedgerHandler) ListEntries(c fiber.Ctx) error {
	// Parse query params
	pageStr := c.Query("page", "1")
	limitStr := c.Query("limit", "10")
	page := 1
	if v, err := strconv.Atoi(pageStr); err == nil && v > 0 {
		page = v
	}
	limit := 10
	if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	orderby := c.Query("orderby", "newest")

	// Resource tokens only see their own rows; admin tokens see everything
	// and may filter by resource
	resourceID, isResource := middleware.GetResourceIDFromContext(c)
	if !isResource {
		if _, isAdmin := middleware.GetAdminIDFromContext(c); !isAdmin {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
		}
	}

	// Build filter from query params; unparsable values are ignored
	resourceIDStr := c.Query("resource_id")
	locationIDStr := c.Query("location_id")
	processIDStr := c.Query("process_id")
	requestType := c.Query("request_type")
	requestID := c.Query("request_id")
	dateFromStr := c.Query("date_from")
	dateToStr := c.Query("date_to")
	includeDeletedStr := c.Query("include_deleted")

	var filter *dto.ListEntriesFilter
	if resourceIDStr != "" || locationIDStr != "" || processIDStr != "" || requestType != "" ||
		requestID != "" || dateFromStr != "" || dateToStr != "" || includeDeletedStr != "" {
		filter = &dto.ListEntriesFilter{}
		if v, err := strconv.ParseUint(resourceIDStr, 10, 32); err == nil {
			filter.ResourceID = utils.ToPtr(uint(v))
		}
		if v, err := strconv.ParseUint(locationIDStr, 10, 32); err == nil {
			filter.LocationID = utils.ToPtr(uint(v))
		}
		if v, err := strconv.ParseUint(processIDStr, 10, 32); err == nil {
			filter.ProcessID = utils.ToPtr(uint(v))
		}
		if requestType != "" {
			filter.RequestType = &requestType
		}
		if requestID != "" {
			filter.RequestID = &requestID
		}
		if t, err := time.Parse("2006-01-02", dateFromStr); err == nil {
			filter.DateFrom = &t
		}
		if t, err := time.Parse("2006-01-02", dateToStr); err == nil {
			filter.DateTo = &t
		}
		if v, err := strconv.ParseBool(includeDeletedStr); err == nil {
			filter.IncludeDeleted = v
		}
	}

	req := &dto.ListEntriesRequest{
		ClientType: c.Query("client_type"),
		Page:       page,
		Limit:      limit,
		OrderBy:    orderby,
		Filter:     filter,
	}
	if isResource {
		req.RestrictToResourceID = &resourceID
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Client metadata
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	// Call business logic
	result, err := h.ledgerFlow.ListEntries(h.createRequestContext(c, "/api/v1/entries"), req, metadata)
	if err != nil {
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, sentinelMessage(err, "Validation failed"), businessErrorCode(err, "VALIDATION_ERROR"), nil)
		}

		log.Println("List entries failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list entries", "LIST_ENTRIES_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Entries retrieved successfully", fiber.Map{
		"message":    result.Message,
		"items":      result.Items,
		"pagination": result.Pagination,
	})
}

// GetEntry returns a single entry by UUID
// @Summary Get Entry
// @Description Retrieve a single allocation entry by UUID
// @Tags Entries
// @Accept json
// @Produce json
// @Param uuid path string true "Entry UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GetEntryResponse}
// @Failure 400 {object} dto.APIResponse "Missing UUID"
// @Failure 404 {object} dto.APIResponse "Entry not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/entries/{uuid} [get]
func (h *LedgerHandler) GetEntry(c fiber.Ctx) error {
	entryUUID := c.Params("uuid")
	if entryUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Entry UUID is required", "MISSING_ENTRY_UUID", nil)
	}

	result, err := h.ledgerFlow.GetEntry(h.createRequestContext(c, "/api/v1/entries/"+entryUUID), entryUUID)
	if err != nil {
		if businessflow.IsEntryNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Entry not found", "ENTRY_NOT_FOUND", nil)
		}

		log.Println("Entry lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to lookup entry", "ENTRY_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Entry retrieved successfully", fiber.Map{
		"message": result.Message,
		"entry":   result.Entry,
	})
}

// EditEntry handles a partial update of an entry with a mandatory change reason
// @Summary Edit Entry
// @Description Apply a partial update to an entry; every change is recorded in the edit history
// @Tags Entries
// @Accept json
// @Produce json
// @Param uuid path string true "Entry UUID"
// @Param request body dto.EditEntryRequest true "Fields to change plus change reason"
// @Success 200 {object} dto.APIResponse{data=dto.EditEntryResponse} "Entry updated"
// @Failure 400 {object} dto.APIResponse "Validation error, locked month, or missing change reason"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Entry not found"
// @Failure 409 {object} dto.APIResponse "Request identifier conflict"
// @Failure 422 {object} dto.APIResponse "Entry deleted"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/entries/{uuid} [put]
func (h *LedgerHandler) EditEntry(c fiber.Ctx) error {
	// Get entry UUID from path parameter
	entryUUID := c.Params("uuid")
	if entryUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Entry UUID is required", "MISSING_ENTRY_UUID", nil)
	}

	var req dto.EditEntryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = entryUUID

	// Get authenticated resource from context
	resourceID, ok := c.Locals("resource_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Resource ID not found in context", "MISSING_RESOURCE_ID", nil)
	}
	req.ActorID = resourceID
	req.ActorName, _ = c.Locals("resource_name").(string)
	req.ActorRole = "resource"

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	// Call business logic with proper context
	result, err := h.ledgerFlow.EditEntry(h.createRequestContext(c, "/api/v1/entries/"+entryUUID), &req, metadata)
	if err != nil {
		if businessflow.IsEntryNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Entry not found", "ENTRY_NOT_FOUND", nil)
		}
		if businessflow.IsConflictWarning(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, businessMessage(err, "Request identifier conflict"), businessErrorCode(err, "REQUEST_ID_CONFLICT"), nil)
		}
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, sentinelMessage(err, "Edit validation failed"), businessErrorCode(err, "EDIT_VALIDATION_FAILED"), nil)
		}
		if businessflow.IsStateError(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, sentinelMessage(err, "Entry cannot be edited in its current state"), businessErrorCode(err, "ENTRY_EDIT_FAILED"), nil)
		}

		log.Println("Entry edit failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Entry edit failed", "ENTRY_EDIT_FAILED", nil)
	}

	if !result.NoChanges {
		middleware.ObserveEntryEdited(result.Entry.ClientType)
	}

	// Successful entry edit
	return h.SuccessResponse(c, fiber.StatusOK, "Entry updated successfully", fiber.Map{
		"message":        result.Message,
		"entry":          result.Entry,
		"fields_changed": result.FieldsChanged,
		"no_changes":     result.NoChanges,
	})
}

// GetEditHistory returns the append-only edit trail of an entry
// @Summary Get Edit History
// @Description Retrieve the full edit history of an entry, oldest first
// @Tags Entries
// @Accept json
// @Produce json
// @Param uuid path string true "Entry UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GetEditHistoryResponse}
// @Failure 400 {object} dto.APIResponse "Missing UUID"
// @Failure 404 {object} dto.APIResponse "Entry not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/entries/{uuid}/history [get]
func (h *LedgerHandler) GetEditHistory(c fiber.Ctx) error {
	entryUUID := c.Params("uuid")
	if entryUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Entry UUID is required", "MISSING_ENTRY_UUID", nil)
	}

	result, err := h.ledgerFlow.GetEditHistory(h.createRequestContext(c, "/api/v1/entries/"+entryUUID+"/history"), entryUUID)
	if err != nil {
		if businessflow.IsEntryNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Entry not found", "ENTRY_NOT_FOUND", nil)
		}

		log.Println("Edit history lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get edit history", "EDIT_HISTORY_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Edit history retrieved successfully", fiber.Map{
		"message":    result.Message,
		"entry_uuid": result.EntryUUID,
		"edit_count": result.EditCount,
		"items":      result.Items,
	})
}

// CheckRequestID reports whether a request identifier may still carry a type
// @Summary Check Request Identifier
// @Description Advisory check whether the proposed request type is still available for a request identifier
// @Tags Entries
// @Accept json
// @Produce json
// @Param client_type query string true "Client type (mro|verisma|datavant)"
// @Param request_id query string true "Request identifier"
// @Param request_type query string true "Proposed request type"
// @Success 200 {object} dto.APIResponse{data=dto.CheckRequestIDResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/request-ids/check [get]
func (h *LedgerHandler) CheckRequestID(c fiber.Ctx) error {
	req := dto.CheckRequestIDRequest{
		ClientType:  c.Query("client_type"),
		RequestID:   c.Query("request_id"),
		RequestType: c.Query("request_type"),
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.ledgerFlow.CheckRequestID(h.createRequestContext(c, "/api/v1/request-ids/check"), &req)
	if err != nil {
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, sentinelMessage(err, "Validation failed"), businessErrorCode(err, "VALIDATION_ERROR"), nil)
		}

		log.Println("Request identifier check failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check request identifier", "REQUEST_ID_CHECK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Request identifier checked", fiber.Map{
		"message":                result.Message,
		"client_type":            result.ClientType,
		"request_id":             result.RequestID,
		"request_type":           result.RequestType,
		"available":              result.Available,
		"in_use_types":           result.InUseTypes,
		"suggested_type":         result.SuggestedType,
		"suggested_type_display": result.SuggestedTypeDisplay,
	})
}

// LockEntry marks an entry locked ahead of its month window closing
// @Summary Lock Entry
// @Description Admin lock of a single entry; one way and idempotent
// @Tags Admin
// @Accept json
// @Produce json
// @Param uuid path string true "Entry UUID"
// @Success 200 {object} dto.APIResponse{data=dto.LockEntryResponse} "Entry locked"
// @Failure 400 {object} dto.APIResponse "Missing UUID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Entry not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/entries/{uuid}/lock [post]
func (h *LedgerHandler) LockEntry(c fiber.Ctx) error {
	entryUUID := c.Params("uuid")
	if entryUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Entry UUID is required", "MISSING_ENTRY_UUID", nil)
	}

	// Get authenticated admin from context
	adminID, ok := c.Locals("admin_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Admin ID not found in context", "MISSING_ADMIN_ID", nil)
	}

	req := &dto.LockEntryRequest{UUID: entryUUID, AdminID: adminID}
	req.AdminName, _ = c.Locals("admin_name").(string)

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.ledgerFlow.LockEntry(h.createRequestContext(c, "/api/v1/admin/entries/"+entryUUID+"/lock"), req, metadata)
	if err != nil {
		if businessflow.IsEntryNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Entry not found", "ENTRY_NOT_FOUND", nil)
		}

		log.Println("Entry lock failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Entry lock failed", "ENTRY_LOCK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Entry lock processed", fiber.Map{
		"message":        result.Message,
		"uuid":           result.UUID,
		"locked":         result.Locked,
		"already_locked": result.AlreadyLocked,
	})
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *LedgerHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func (h *LedgerHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	// Create context with custom timeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	// Add request-scoped values for observability
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel) // Store cancel function for cleanup

	return ctx
}
