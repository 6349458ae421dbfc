package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrForbidden        = fmt.Errorf("admin role required")
	ErrSessionExpired   = fmt.Errorf("session expired")
	ErrSessionNotFound  = fmt.Errorf("session not found")

	// Data access errors
	ErrDataAccess = fmt.Errorf("data access failed")
	ErrNotFound   = fmt.Errorf("record not found")
	ErrTimeout    = fmt.Errorf("operation timed out")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
