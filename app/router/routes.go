// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cache"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/recordflow/allocation-ledger/app/dto"
	"github.com/recordflow/allocation-ledger/app/handlers"
	"github.com/recordflow/allocation-ledger/app/middleware"
	_ "github.com/recordflow/allocation-ledger/docs"
	"github.com/recordflow/allocation-ledger/utils"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app                  *fiber.App
	ledgerHandler        handlers.LedgerHandlerInterface
	deleteRequestHandler handlers.DeleteRequestHandlerInterface
	payoutHandler        handlers.PayoutHandlerInterface
	authMiddleware       *middleware.AuthMiddleware
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	ledgerHandler handlers.LedgerHandlerInterface,
	deleteRequestHandler handlers.DeleteRequestHandlerInterface,
	payoutHandler handlers.PayoutHandlerInterface,
	authMiddleware *middleware.AuthMiddleware,
) Router {
	// Configure Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "RecordFlow Allocation Ledger API",
		ServerHeader: "RecordFlow",
		ErrorHandler: errorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:                  app,
		ledgerHandler:        ledgerHandler,
		deleteRequestHandler: deleteRequestHandler,
		payoutHandler:        payoutHandler,
		authMiddleware:       authMiddleware,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	// Global middleware
	r.setupMiddleware()

	// Health and Prometheus metrics (no auth, no rate limiting)
	r.app.Get("/health", r.healthCheck)
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes
	api := r.app.Group("/api/v1")

	// Health check route kept under the API prefix for load balancer probes
	api.Get("/health", r.healthCheck)

	// API documentation route (development only)
	if os.Getenv("APP_ENV") == "development" || os.Getenv("APP_ENV") == "local" {
		api.Get("/docs", r.getAPIDocumentation)
		api.Get("/swagger.json", r.serveSwaggerJSON)
		// Serve Swagger UI
		r.app.Get("/swagger", r.serveSwaggerUI)
		log.Println("API documentation enabled for development")
	}

	// Apply general rate limiting to all API routes (aligned with nginx)
	api.Use(limiter.New(limiter.Config{
		Max:        2000,            // Maximum 2000 requests (matches nginx api zone)
		Expiration: 1 * time.Minute, // Per minute
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			// Skip rate limiting for health checks
			return c.Path() == "/api/v1/health"
		},
	}))

	resourceAuth := r.authMiddleware.Authenticate()
	anyAuth := r.authMiddleware.AuthenticateAny()

	// Ledger entry endpoints. Writes require a resource token; reads accept
	// either plane so reviewing admins see the same views.
	entries := api.Group("/entries")
	entries.Post("", r.ledgerHandler.CreateEntry, resourceAuth)
	entries.Get("", r.ledgerHandler.ListEntries, anyAuth)
	entries.Get("/:uuid", r.ledgerHandler.GetEntry, anyAuth)
	entries.Put("/:uuid", r.ledgerHandler.EditEntry, resourceAuth)
	entries.Get("/:uuid/history", r.ledgerHandler.GetEditHistory, anyAuth)
	entries.Post("/:uuid/delete-request", r.deleteRequestHandler.RequestDelete, resourceAuth)

	// Advisory request identifier check
	requestIDs := api.Group("/request-ids")
	requestIDs.Get("/check", r.ledgerHandler.CheckRequestID, anyAuth)

	// Admin endpoints with stricter rate limiting
	admin := api.Group("/admin")
	admin.Use(limiter.New(limiter.Config{
		Max:        300,             // Maximum 300 requests (matches nginx admin zone)
		Expiration: 1 * time.Minute, // Per minute
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
	}))
	admin.Use(r.authMiddleware.AdminAuthenticate())

	admin.Get("/delete-requests", r.deleteRequestHandler.ListDeleteRequests)
	admin.Post("/delete-requests/:uuid/review", r.deleteRequestHandler.ReviewDelete)
	admin.Post("/entries/:uuid/lock", r.ledgerHandler.LockEntry)
	admin.Post("/payout/compute", r.payoutHandler.ComputePayout)
	admin.Post("/payout/export", r.payoutHandler.ExportPayout)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// SetupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Prometheus request metrics
	r.app.Use(middleware.Metrics())

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000, // 1 year
		HSTSExcludeSubdomains:     false,
		ContentSecurityPolicy:     "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; font-src 'self' https:; connect-src 'self' https:; frame-ancestors 'none';",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	// CORS middleware with production settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://recordflow.io",
			"https://api.recordflow.io",
			"https://admin.recordflow.io",
			"https://monitoring.recordflow.io",
		},
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-Response-Time",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware for performance
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			// Workbook downloads are already compressed archives
			contentType := c.Get("Content-Type")
			return contains(contentType, "spreadsheetml") ||
				contains(contentType, "image/") ||
				contains(contentType, "video/")
		},
	}))

	// Cache middleware for static content
	r.app.Use(cache.New(cache.Config{
		Next: func(c fiber.Ctx) bool {
			// Only cache GET requests to specific endpoints
			return c.Method() != "GET" ||
				!contains(c.Path(), "/health") &&
					!contains(c.Path(), "/docs")
		},
		Expiration:          30 * time.Minute,
		DisableCacheControl: false,
	}))

	// Advanced logging middleware
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			// Skip logging for health checks and metrics scrapes in production
			return c.Path() == "/api/v1/health" || c.Path() == "/health" || c.Path() == "/metrics"
		},
	}))

	// Custom security middleware
	r.app.Use(r.securityMiddleware)

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			// Log panic with request context
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Custom security middleware
func (r *FiberRouter) securityMiddleware(c fiber.Ctx) error {
	// Add security headers
	c.Set("X-Response-Time", utils.UTCNow().Format(time.RFC3339))
	c.Set("Server", "RecordFlow")

	// IP validation (if configured)
	clientIP := c.IP()

	// Simple IP blocking example
	blockedIPs := []string{
		"127.0.0.2", // Example blocked IP
	}

	for _, blockedIP := range blockedIPs {
		if clientIP == blockedIP {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "Access denied from this IP address",
				Error: dto.ErrorDetail{
					Code: "ACCESS_DENIED",
				},
			})
		}
	}

	// Continue to next middleware
	return c.Next()
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "allocation-ledger-api",
		},
	})
}

// API documentation endpoint
func (r *FiberRouter) getAPIDocumentation(c fiber.Ctx) error {
	docs := GetRouteDocumentation()
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "API documentation retrieved successfully",
		Data: fiber.Map{
			"title":       "RecordFlow Allocation Ledger API Documentation",
			"version":     "1.0.0",
			"description": "Allocation ledger, delete workflow, and payout reporting API",
			"endpoints":   docs,
		},
	})
}

// Serve Swagger UI HTML page
func (r *FiberRouter) serveSwaggerUI(c fiber.Ctx) error {
	htmlContent := `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>RecordFlow Allocation Ledger API - Swagger UI</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css" />
    <style>
        html {
            box-sizing: border-box;
            overflow: -moz-scrollbars-vertical;
            overflow-y: scroll;
        }
        *, *:before, *:after {
            box-sizing: inherit;
        }
        body {
            margin:0;
            background: #fafafa;
        }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-standalone-preset.js"></script>
    <script>
        window.onload = function() {
            const ui = SwaggerUIBundle({
                url: '/api/v1/swagger.json',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIStandalonePreset
                ],
                plugins: [
                    SwaggerUIBundle.plugins.DownloadUrl
                ],
                layout: "StandaloneLayout",
                validatorUrl: null
            });
        };
    </script>
</body>
</html>`

	c.Set("Content-Type", "text/html")
	return c.SendString(htmlContent)
}

// Serve Swagger JSON specification
func (r *FiberRouter) serveSwaggerJSON(c fiber.Ctx) error {
	// Read the generated swagger.json file
	swaggerData, err := os.ReadFile("docs/swagger.json")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: "Failed to load Swagger documentation",
			Error: dto.ErrorDetail{
				Code: "SWAGGER_LOAD_ERROR",
			},
		})
	}

	c.Set("Content-Type", "application/json")
	return c.Send(swaggerData)
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	// Default error code
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a fiber.*Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Log the error
	log.Printf("Error %d: %v", code, err)

	// Get RequestID for tracing
	requestID := c.Locals("requestid")

	// Return JSON error response
	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// Helper functions

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// contains checks if a string contains a substring
func contains(str, substr string) bool {
	return strings.Contains(str, substr)
}

// GetRouteDocumentation returns API documentation
func GetRouteDocumentation() []map[string]any {
	return []map[string]any{
		{
			"method":      "POST",
			"path":        "/api/v1/entries",
			"description": "Log a new allocation entry",
			"parameters": map[string]any{
				"client_type":             "string (required) - mro|verisma|datavant",
				"location_id":             "number (required) - Location reference",
				"process_id":              "number (required) - Process reference",
				"request_type":            "string (required) - Client-specific request type",
				"requestor_type":          "string (optional) - Client-specific requestor type",
				"task_type":               "string (optional) - Client-specific task type",
				"request_id":              "string (optional) - Business request identifier",
				"count":                   "number (optional) - Case count, defaults to 1",
				"allocation_date":         "string (required) - YYYY-MM-DD, never in the future",
				"remark":                  "string (optional) - Free text remark",
				"facility_name":           "string (optional) - Facility name",
				"proceed_despite_warning": "bool (optional) - Acknowledge a duplicate-identifier warning",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/entries",
			"description": "List ledger entries with filters and pagination",
			"parameters": map[string]any{
				"client_type":     "string (required) - mro|verisma|datavant",
				"page":            "number (optional) - Page number, default 1",
				"limit":           "number (optional) - Items per page, max 100",
				"orderby":         "string (optional) - newest|oldest",
				"resource_id":     "number (optional) - Admin tokens only",
				"location_id":     "number (optional) - Filter by location",
				"process_id":      "number (optional) - Filter by process",
				"request_type":    "string (optional) - Filter by request type",
				"request_id":      "string (optional) - Filter by request identifier",
				"date_from":       "string (optional) - YYYY-MM-DD",
				"date_to":         "string (optional) - YYYY-MM-DD",
				"include_deleted": "bool (optional) - Include soft-deleted entries",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/entries/:uuid",
			"description": "Retrieve a single entry by UUID",
			"parameters":  map[string]any{"uuid": "string (required) - Entry UUID in URL path"},
		},
		{
			"method":      "PUT",
			"path":        "/api/v1/entries/:uuid",
			"description": "Apply a partial update to an entry with a mandatory change reason",
			"parameters": map[string]any{
				"change_reason":     "string (required) - Why the entry is being changed",
				"change_notes":      "string (optional) - Additional notes",
				"recompute_billing": "bool (optional) - Re-resolve the billing rate after the edit",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/entries/:uuid/history",
			"description": "Retrieve the append-only edit history of an entry",
			"parameters":  map[string]any{"uuid": "string (required) - Entry UUID in URL path"},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/entries/:uuid/delete-request",
			"description": "File a delete request; the entry stays visible until an admin approves",
			"parameters": map[string]any{
				"delete_reason": "string (required) - Why the entry should be removed",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/request-ids/check",
			"description": "Advisory check whether a request type is still available for an identifier",
			"parameters": map[string]any{
				"client_type":  "string (required) - mro|verisma|datavant",
				"request_id":   "string (required) - Business request identifier",
				"request_type": "string (required) - Proposed request type",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/admin/delete-requests",
			"description": "Admin review queue of delete requests, pending first",
			"parameters": map[string]any{
				"client_type": "string (optional) - mro|verisma|datavant",
				"status":      "string (optional) - pending|approved|rejected",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/admin/delete-requests/:uuid/review",
			"description": "Approve or reject a pending delete request",
			"parameters": map[string]any{
				"approve":     "bool (required) - Approval decision",
				"delete_mode": "string (optional) - soft|hard, approvals only, default soft",
				"comment":     "string (required on reject) - Feedback for the requestor",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/admin/entries/:uuid/lock",
			"description": "Force-lock a single entry ahead of its month window closing; idempotent",
			"parameters":  map[string]any{"uuid": "string (required) - Entry UUID in URL path"},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/admin/payout/compute",
			"description": "Compute the per-resource payout report over a date window",
			"parameters": map[string]any{
				"client_type":  "string (required) - mro|verisma|datavant",
				"period_start": "string (required) - YYYY-MM-DD inclusive",
				"period_end":   "string (required) - YYYY-MM-DD inclusive",
				"resource_id":  "number (optional) - Restrict to one resource",
				"refresh":      "bool (optional) - Bypass the cached report",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/admin/payout/export",
			"description": "Download the payout report as an XLSX workbook",
			"parameters": map[string]any{
				"client_type":  "string (required) - mro|verisma|datavant",
				"period_start": "string (required) - YYYY-MM-DD inclusive",
				"period_end":   "string (required) - YYYY-MM-DD inclusive",
			},
		},
		{
			"method":      "GET",
			"path":        "/health",
			"description": "Health check endpoint",
			"parameters":  map[string]any{},
		},
		{
			"method":      "GET",
			"path":        "/metrics",
			"description": "Prometheus metrics endpoint",
			"parameters":  map[string]any{},
		},
	}
}
