// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	businessflow "github.com/recordflow/allocation-ledger/business_flow"
)

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

// sentinelMessage returns the wrapped sentinel text of a business error. The
// sentinels carry the user-facing reason ("this month is locked" and friends)
// so validation and state responses surface them verbatim.
func sentinelMessage(err error, fallback string) string {
	var bizErr *businessflow.BusinessError
	if errors.As(err, &bizErr) {
		if bizErr.Err != nil {
			return bizErr.Err.Error()
		}
		if bizErr.Message != "" {
			return bizErr.Message
		}
	}
	return fallback
}

// businessMessage returns the outer message of a business error. Conflict
// responses use it because the outer message carries the fallback suggestion.
func businessMessage(err error, fallback string) string {
	var bizErr *businessflow.BusinessError
	if errors.As(err, &bizErr) && bizErr.Message != "" {
		return bizErr.Message
	}
	return fallback
}

// businessErrorCode returns the machine-readable code of a business error
func businessErrorCode(err error, fallback string) string {
	var bizErr *businessflow.BusinessError
	if errors.As(err, &bizErr) && bizErr.Code != "" {
		return bizErr.Code
	}
	return fallback
}
