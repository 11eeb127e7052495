package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	//
	// Each authenticated operation returns exactly one of these wrapped with
	// context. The route layer maps them to HTTP statuses: ErrStateMismatch
	// to 400, ErrNotAuthenticated and ErrRefreshFailed to 401, ErrCodeExchange
	// and ErrPageFetch to 500.
	ErrAuthURLBuild     = fmt.Errorf("failed to build authorization URL")
	ErrStateMismatch    = fmt.Errorf("state parameter mismatch")
	ErrCodeExchange     = fmt.Errorf("authorization code exchange failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPageFetch          = fmt.Errorf("page fetch failed")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Input validation errors
	ErrInvalidInput      = fmt.Errorf("invalid input")
	ErrMissingArgument   = fmt.Errorf("missing required argument")
	ErrInvalidArgument   = fmt.Errorf("invalid argument")
	ErrUnsupportedFormat = fmt.Errorf("unsupported file format")
)
