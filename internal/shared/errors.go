package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Session errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")

	// Provider errors
	ErrProviderAuth    = fmt.Errorf("provider token exchange failed")
	ErrProviderRequest = fmt.Errorf("provider request failed")

	// Input validation errors
	ErrMissingInput    = fmt.Errorf("missing required input")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
