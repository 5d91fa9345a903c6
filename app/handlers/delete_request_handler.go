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

// DeleteRequestHandlerInterface defines the contract for delete request handlers
type DeleteRequestHandlerInterface interface {
	RequestDelete(c fiber.Ctx) error
	ListDeleteRequests(c fiber.Ctx) error
	ReviewDelete(c fiber.Ctx) error
}

// DeleteRequestHandler handles the delete request workflow HTTP requests
type DeleteRequestHandler struct {
	deleteRequestFlow businessflow.DeleteRequestFlow
	validator         *validator.Validate
}

func (h *DeleteRequestHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *DeleteRequestHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewDeleteRequestHandler creates a new delete request handler
func NewDeleteRequestHandler(deleteRequestFlow businessflow.DeleteRequestFlow) *DeleteRequestHandler {
	return &DeleteRequestHandler{
		deleteRequestFlow: deleteRequestFlow,
		validator:         validator.New(),
	}
}

// RequestDelete files a delete request against an entry
// @Summary Request Delete
// @Description File a delete request for an entry; the entry keeps serving reads until an admin approves
// @Tags Delete Requests
// @Accept json
// @Produce json
// @Param uuid path string true "Entry UUID"
// @Param request body dto.RequestDeleteRequest true "Delete reason"
// @Success 201 {object} dto.APIResponse{data=dto.RequestDeleteResponse} "Delete request filed"
// @Failure 400 {object} dto.APIResponse "Validation error or a delete request is already pending"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Entry not found"
// @Failure 422 {object} dto.APIResponse "Entry deleted or locked"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/entries/{uuid}/delete-request [post]
func (h *DeleteRequestHandler) RequestDelete(c fiber.Ctx) error {
	// Get entry UUID from path parameter
	entryUUID := c.Params("uuid")
	if entryUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Entry UUID is required", "MISSING_ENTRY_UUID", nil)
	}

	var req dto.RequestDeleteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.EntryUUID = entryUUID

	// Get authenticated resource from context
	resourceID, ok := c.Locals("resource_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Resource ID not found in context", "MISSING_RESOURCE_ID", nil)
	}
	req.RequestedBy = resourceID
	req.RequestedByName, _ = c.Locals("resource_name").(string)

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
	result, err := h.deleteRequestFlow.RequestDelete(h.createRequestContext(c, "/api/v1/entries/"+entryUUID+"/delete-request"), &req, metadata)
	if err != nil {
		if businessflow.IsEntryNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Entry not found", "ENTRY_NOT_FOUND", nil)
		}
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, sentinelMessage(err, "Delete request validation failed"), businessErrorCode(err, "DELETE_REQUEST_VALIDATION_FAILED"), nil)
		}
		if businessflow.IsStateError(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, sentinelMessage(err, "Entry cannot be deleted in its current state"), businessErrorCode(err, "DELETE_REQUEST_FAILED"), nil)
		}

		log.Println("Delete request failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Delete request failed", "DELETE_REQUEST_FAILED", nil)
	}

	// Delete request filed
	return h.SuccessResponse(c, fiber.StatusCreated, "Delete request filed successfully", fiber.Map{
		"message":        result.Message,
		"delete_request": result.DeleteRequest,
	})
}

// ListDeleteRequests returns the admin review queue, pending first
// @Summary List Delete Requests
// @Description Retrieve delete requests for review with pagination; pending requests come first unless a status filter narrows the view
// @Tags Admin
// @Accept json
// @Produce json
// @Param client_type query string false "Filter by client type (mro|verisma|datavant)"
// @Param status query string false "Filter by status (pending|approved|rejected)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 100)" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ListDeleteRequestsResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/delete-requests [get]
func (h *DeleteRequestHandler) ListDeleteRequests(c fiber.Ctx) error {
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

	req := &dto.ListDeleteRequestsRequest{Page: page, Limit: limit}
	if clientType := c.Query("client_type"); clientType != "" {
		req.ClientType = &clientType
	}
	if status := c.Query("status"); status != "" {
		req.Status = &status
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
	result, err := h.deleteRequestFlow.ListDeleteRequests(h.createRequestContext(c, "/api/v1/admin/delete-requests"), req, metadata)
	if err != nil {
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, sentinelMessage(err, "Validation failed"), businessErrorCode(err, "VALIDATION_ERROR"), nil)
		}

		log.Println("List delete requests failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list delete requests", "LIST_DELETE_REQUESTS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Delete requests retrieved successfully", fiber.Map{
		"message":    result.Message,
		"items":      result.Items,
		"pagination": result.Pagination,
	})
}

// ReviewDelete resolves a pending delete request
// @Summary Review Delete Request
// @Description Approve or reject a pending delete request; approvals choose soft or hard mode, rejections must carry a comment
// @Tags Admin
// @Accept json
// @Produce json
// @Param uuid path string true "Delete request UUID"
// @Param request body dto.ReviewDeleteRequest true "Review decision"
// @Success 200 {object} dto.APIResponse{data=dto.ReviewDeleteResponse} "Delete request resolved"
// @Failure 400 {object} dto.APIResponse "Validation error, missing comment, or invalid mode"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Delete request not found"
// @Failure 422 {object} dto.APIResponse "Delete request already resolved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/delete-requests/{uuid}/review [post]
func (h *DeleteRequestHandler) ReviewDelete(c fiber.Ctx) error {
	// Get delete request UUID from path parameter
	requestUUID := c.Params("uuid")
	if requestUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Delete request UUID is required", "MISSING_REQUEST_UUID", nil)
	}

	var req dto.ReviewDeleteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.RequestUUID = requestUUID

	// Get authenticated admin from context
	adminID, ok := c.Locals("admin_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Admin ID not found in context", "MISSING_ADMIN_ID", nil)
	}
	req.ReviewerID = adminID
	req.ReviewerName, _ = c.Locals("admin_name").(string)

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
	result, err := h.deleteRequestFlow.ReviewDelete(h.createRequestContext(c, "/api/v1/admin/delete-requests/"+requestUUID+"/review"), &req, metadata)
	if err != nil {
		if businessflow.IsDeleteRequestNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Delete request not found", "DELETE_REQUEST_NOT_FOUND", nil)
		}
		if businessflow.IsEntryNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Entry not found", "ENTRY_NOT_FOUND", nil)
		}
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, sentinelMessage(err, "Review validation failed"), businessErrorCode(err, "REVIEW_VALIDATION_FAILED"), nil)
		}
		if businessflow.IsStateError(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, sentinelMessage(err, "Delete request has already been resolved"), businessErrorCode(err, "DELETE_REVIEW_FAILED"), nil)
		}

		log.Println("Delete review failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Delete review failed", "DELETE_REVIEW_FAILED", nil)
	}

	middleware.ObserveDeleteReview(result.DeleteRequest.Status)

	// Delete request resolved
	return h.SuccessResponse(c, fiber.StatusOK, "Delete request reviewed successfully", fiber.Map{
		"message":        result.Message,
		"delete_request": result.DeleteRequest,
	})
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *DeleteRequestHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)

	return ctx
}
