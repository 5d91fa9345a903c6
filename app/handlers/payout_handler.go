// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/recordflow/allocation-ledger/app/dto"
	"github.com/recordflow/allocation-ledger/app/middleware"
	businessflow "github.com/recordflow/allocation-ledger/business_flow"
	"github.com/recordflow/allocation-ledger/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PayoutHandlerInterface defines the contract for payout handlers
type PayoutHandlerInterface interface {
	ComputePayout(c fiber.Ctx) error
	ExportPayout(c fiber.Ctx) error
}

// PayoutHandler handles payout report HTTP requests
type PayoutHandler struct {
	payoutFlow businessflow.PayoutFlow
	validator  *validator.Validate
}

func (h *PayoutHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *PayoutHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewPayoutHandler creates a new payout handler
func NewPayoutHandler(payoutFlow businessflow.PayoutFlow) *PayoutHandler {
	return &PayoutHandler{
		payoutFlow: payoutFlow,
		validator:  validator.New(),
	}
}

// ComputePayout computes the payout report for a client over a period
// @Summary Compute Payout
// @Description Compute the per-resource payout report for a client over a date window; reports are cached until refreshed
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.ComputePayoutRequest true "Payout period"
// @Success 200 {object} dto.APIResponse{data=dto.ComputePayoutResponse} "Payout report"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/payout/compute [post]
func (h *PayoutHandler) ComputePayout(c fiber.Ctx) error {
	var req dto.ComputePayoutRequest
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

	// Get authenticated admin from context
	adminID, ok := c.Locals("admin_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Admin ID not found in context", "MISSING_ADMIN_ID", nil)
	}
	req.AdminID = adminID
	req.AdminName, _ = c.Locals("admin_name").(string)

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	// Call business logic with proper context
	result, err := h.payoutFlow.ComputePayout(h.createRequestContext(c, "/api/v1/admin/payout/compute"), &req, metadata)
	if err != nil {
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, sentinelMessage(err, "Payout validation failed"), businessErrorCode(err, "PAYOUT_VALIDATION_FAILED"), nil)
		}

		log.Println("Payout computation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Payout computation failed", "PAYOUT_COMPUTATION_FAILED", nil)
	}

	middleware.ObservePayoutReport(req.ClientType, result.FromCache)

	// Payout report ready
	return h.SuccessResponse(c, fiber.StatusOK, "Payout report computed successfully", fiber.Map{
		"message":      result.Message,
		"client_type":  result.ClientType,
		"period_start": result.PeriodStart,
		"period_end":   result.PeriodEnd,
		"computed_at":  result.ComputedAt,
		"from_cache":   result.FromCache,
		"results":      result.Results,
		"totals":       result.Totals,
	})
}

// ExportPayout downloads the payout report as an XLSX workbook
// @Summary Export Payout
// @Description Compute the payout report and download it as an Excel workbook
// @Tags Admin
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param request body dto.ComputePayoutRequest true "Payout period"
// @Success 200 {string} string "XLSX file"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/payout/export [post]
func (h *PayoutHandler) ExportPayout(c fiber.Ctx) error {
	var req dto.ComputePayoutRequest
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

	// Get authenticated admin from context
	adminID, ok := c.Locals("admin_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Admin ID not found in context", "MISSING_ADMIN_ID", nil)
	}
	req.AdminID = adminID
	req.AdminName, _ = c.Locals("admin_name").(string)

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	filename, content, err := h.payoutFlow.ExportPayout(h.createRequestContext(c, "/api/v1/admin/payout/export"), &req, metadata)
	if err != nil {
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, sentinelMessage(err, "Payout validation failed"), businessErrorCode(err, "PAYOUT_VALIDATION_FAILED"), nil)
		}

		log.Println("Payout export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export payout report", "PAYOUT_EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", xlsxContentType)
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(content)
}

// createRequestContext creates a context with request-scoped values for observability and timeout.
// Exports read the whole period, so they get a longer deadline.
func (h *PayoutHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)

	return ctx
}
