package utils

import (
	"time"
)

// ContextKey is the type used for all request-scoped context values
type ContextKey string

// Request context keys populated by handlers for downstream flows
const (
	// RequestIDKey carries the X-Request-ID header value
	RequestIDKey ContextKey = "request_id"

	// UserAgentKey carries the client User-Agent header value
	UserAgentKey ContextKey = "user_agent"

	// IPAddressKey carries the resolved client IP
	IPAddressKey ContextKey = "ip_address"

	// EndpointKey carries the logical endpoint name for audit records
	EndpointKey ContextKey = "endpoint"

	// TimeoutKey carries the request timeout applied to the context
	TimeoutKey ContextKey = "timeout"

	// CancelFuncKey carries the context cancel func so deferred cleanup can release it
	CancelFuncKey ContextKey = "cancel_func"
)

// Token time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Ledger and payout constants
const (
	// HoursPerWorkday is the fixed working-day length assumed by the payout engine
	HoursPerWorkday = 8

	// DefaultPageSize is applied when a listing request omits the page size
	DefaultPageSize = 20

	// MaxPageSize caps listing page sizes; larger requests are clamped to it
	MaxPageSize = 100

	// PayoutReportCacheKey is the cache key suffix for computed payout reports
	PayoutReportCacheKey = "payout:report"
)
