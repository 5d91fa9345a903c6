// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/recordflow/allocation-ledger/app/dto"
	"github.com/recordflow/allocation-ledger/app/services"
)

// AuthMiddleware handles JWT token validation for protected endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate validates resource JWT tokens and stores the resource identity
// in the request context
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, errResp := extractBearerToken(c)
		if errResp != nil {
			return errResp
		}

		// Validate the token (this already checks for revocation)
		claims, err := m.tokenService.ValidateResourceToken(token)
		if err != nil {
			return tokenErrorResponse(c, err)
		}

		// Store resource information in context for downstream handlers
		c.Locals("resource_id", claims.ResourceID)
		c.Locals("resource_name", claims.Name)
		c.Locals("resource_email", claims.Email)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		// Store RequestID for audit logging
		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		// Continue to the next handler
		return c.Next()
	}
}

// AdminAuthenticate validates JWT tokens and sets admin-specific context values
func (m *AuthMiddleware) AdminAuthenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, errResp := extractBearerToken(c)
		if errResp != nil {
			return errResp
		}

		// Validate token (admin)
		adminClaims, err := m.tokenService.ValidateAdminToken(token)
		if err != nil {
			return tokenErrorResponse(c, err)
		}

		// For admin tokens, use admin-specific claims
		c.Locals("admin_id", adminClaims.AdminID)
		c.Locals("admin_name", adminClaims.Name)
		c.Locals("token_id", adminClaims.TokenID)
		c.Locals("token_claims", adminClaims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// AuthenticateAny accepts either a resource or an admin token. Read routes
// use it so reviewing admins see the same views resources do.
func (m *AuthMiddleware) AuthenticateAny() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, errResp := extractBearerToken(c)
		if errResp != nil {
			return errResp
		}

		claims, resErr := m.tokenService.ValidateResourceToken(token)
		if resErr == nil {
			c.Locals("resource_id", claims.ResourceID)
			c.Locals("resource_name", claims.Name)
			c.Locals("resource_email", claims.Email)
			c.Locals("token_id", claims.TokenID)
			c.Locals("token_claims", claims)

			if requestID := c.Get("X-Request-ID"); requestID != "" {
				c.Locals("request_id", requestID)
			}

			return c.Next()
		}

		// Expired or revoked resource tokens report as such instead of
		// falling through to a misleading invalid-token error
		if !errors.Is(resErr, services.ErrTokenInvalid) {
			return tokenErrorResponse(c, resErr)
		}

		adminClaims, err := m.tokenService.ValidateAdminToken(token)
		if err != nil {
			return tokenErrorResponse(c, err)
		}

		c.Locals("admin_id", adminClaims.AdminID)
		c.Locals("admin_name", adminClaims.Name)
		c.Locals("token_id", adminClaims.TokenID)
		c.Locals("token_claims", adminClaims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// extractBearerToken pulls the token out of the Authorization header. The
// second return value is a ready-to-send error response when the header is
// missing or malformed.
func extractBearerToken(c fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Authorization header is required",
			Error: dto.ErrorDetail{
				Code: "MISSING_AUTHORIZATION_HEADER",
			},
		})
	}

	// Check if the header starts with "Bearer "
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Invalid authorization header format. Expected 'Bearer <token>'",
			Error: dto.ErrorDetail{
				Code: "INVALID_AUTHORIZATION_FORMAT",
			},
		})
	}

	// Extract the token (remove "Bearer " prefix)
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Access token is required",
			Error: dto.ErrorDetail{
				Code: "MISSING_ACCESS_TOKEN",
			},
		})
	}

	return token, nil
}

// tokenErrorResponse maps token validation errors to 401 responses
func tokenErrorResponse(c fiber.Ctx, err error) error {
	var errorCode string
	var message string

	// Determine the specific error type
	if errors.Is(err, services.ErrTokenExpired) {
		errorCode = "TOKEN_EXPIRED"
		message = "Access token has expired"
	} else if errors.Is(err, services.ErrTokenInvalid) {
		errorCode = "TOKEN_INVALID"
		message = "Invalid access token"
	} else if errors.Is(err, services.ErrTokenRevoked) {
		errorCode = "TOKEN_REVOKED"
		message = "Access token has been revoked"
	} else {
		errorCode = "TOKEN_VALIDATION_FAILED"
		message = "Token validation failed"
	}

	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code: errorCode,
		},
	})
}

// GetResourceIDFromContext extracts the resource ID from the request context
func GetResourceIDFromContext(c fiber.Ctx) (uint, bool) {
	resourceID, ok := c.Locals("resource_id").(uint)
	return resourceID, ok
}

// GetResourceNameFromContext extracts the resource display name from the request context
func GetResourceNameFromContext(c fiber.Ctx) (string, bool) {
	name, ok := c.Locals("resource_name").(string)
	return name, ok
}

// GetAdminIDFromContext extracts admin ID from the request context
func GetAdminIDFromContext(c fiber.Ctx) (uint, bool) {
	adminID, ok := c.Locals("admin_id").(uint)
	return adminID, ok
}

// GetAdminNameFromContext extracts the admin display name from the request context
func GetAdminNameFromContext(c fiber.Ctx) (string, bool) {
	name, ok := c.Locals("admin_name").(string)
	return name, ok
}

// GetTokenClaimsFromContext extracts resource token claims from the request context
func GetTokenClaimsFromContext(c fiber.Ctx) (*services.ResourceTokenClaims, bool) {
	claims, ok := c.Locals("token_claims").(*services.ResourceTokenClaims)
	return claims, ok
}

// RequireAuth is a helper function that ensures authentication is required
func RequireAuth(c fiber.Ctx) error {
	resourceID, exists := GetResourceIDFromContext(c)
	if !exists {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Authentication required",
			Error: dto.ErrorDetail{
				Code: "AUTHENTICATION_REQUIRED",
			},
		})
	}

	// Check if resource ID is valid
	if resourceID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Invalid resource ID",
			Error: dto.ErrorDetail{
				Code: "INVALID_RESOURCE_ID",
			},
		})
	}

	return nil
}

// RequireAdminAuth ensures admin authentication is present
func RequireAdminAuth(c fiber.Ctx) error {
	adminID, exists := GetAdminIDFromContext(c)
	if !exists {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Admin authentication required",
			Error:   dto.ErrorDetail{Code: "ADMIN_AUTHENTICATION_REQUIRED"},
		})
	}
	if adminID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Invalid admin ID",
			Error:   dto.ErrorDetail{Code: "INVALID_ADMIN_ID"},
		})
	}
	return nil
}
