// Package constants defines application-wide constants for vault-admin.
package constants

import (
	"time"
)

// API timeouts
const (
	// APITimeout - deadline for read/query API calls (login, lists, stats)
	APITimeout = 30 * time.Second

	// UploadTimeout - deadline for batch upload calls (10 minutes)
	// Uploads include backend-side durable-storage and settlement steps,
	// so they get a materially longer deadline than read operations.
	UploadTimeout = 10 * time.Minute
)

// Retry configuration for the transport client
const (
	// RetryMax - maximum number of retries for transient transport errors
	RetryMax = 3

	// RetryWaitMin - initial delay before first retry
	RetryWaitMin = 1 * time.Second

	// RetryWaitMax - maximum delay between retries
	RetryWaitMax = 10 * time.Second
)

// Upload engine
const (
	// DefaultUploadConcurrency - default bound on simultaneously
	// in-flight item transfers per submitted batch
	DefaultUploadConcurrency = 4

	// MinUploadConcurrency / MaxUploadConcurrency - accepted range for
	// the --max-concurrent flag
	MinUploadConcurrency = 1
	MaxUploadConcurrency = 16
)

// Metadata entry limits
const (
	// MetaNameMaxLength - maximum length of a metadata entry name
	MetaNameMaxLength = 256

	// MetaValueMaxLength - maximum length of a metadata entry value
	MetaValueMaxLength = 2048
)

// Durable client-side storage keys.
// Token and user are stored under distinct keys; both are written or
// cleared together so a half-updated session is never observable.
const (
	StorageKeyToken = "app_token"
	StorageKeyUser  = "app_user"
)

// Pagination defaults for list endpoints
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Route paths
const (
	// LoginPath - the login destination; 401 handling and the route
	// guard both redirect here
	LoginPath = "/login"

	// DefaultLandingPath - where an already-authenticated user lands
	// when no redirect target is carried
	DefaultLandingPath = "/"

	// RedirectQueryParam - query parameter carrying the pre-login location
	RedirectQueryParam = "redirect"
)

// Event System
const (
	// EventBusDefaultBuffer - default buffer size for event channels
	EventBusDefaultBuffer = 256

	// EventBusMaxBuffer - maximum buffer size for high-throughput scenarios
	EventBusMaxBuffer = 2048
)

// HTTP transport tuning
const (
	// HTTPIdleConnTimeout - how long idle connections are kept in the pool
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - TLS handshake deadline
	HTTPTLSHandshakeTimeout = 30 * time.Second

	// HTTPExpectContinueTimeout - wait for HTTP 100-continue
	HTTPExpectContinueTimeout = 5 * time.Second
)
