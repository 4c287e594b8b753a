package domain

import "errors"

// Authentication errors. ErrInvalidCredentials deliberately covers both
// unknown-user and wrong-password so callers cannot enumerate accounts;
// ErrMFARequired is the one intentional exception, returned only after the
// password factor (when present) has already been verified.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMFARequired        = errors.New("mfa code or backup code is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrRateLimited        = errors.New("too many login attempts")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWeakPassword       = errors.New("password does not meet strength requirements")
)

// MFA lifecycle errors.
var (
	ErrMFAAlreadyEnabled  = errors.New("mfa is already enabled")
	ErrMFANotEnabled      = errors.New("mfa is not enabled")
	ErrMFASetupNotStarted = errors.New("mfa setup not started")
	ErrMFACodeInvalid     = errors.New("invalid mfa code or backup code")
	ErrMFAProofRequired   = errors.New("a valid password, mfa code, or backup code is required")
)

// Input validation errors.
var (
	ErrValidation = errors.New("invalid input")
)

// Token errors.
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Session and CSRF errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
	ErrCSRFInvalid     = errors.New("invalid csrf token")
)

// Authorization errors.
var (
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrInsufficientRole = errors.New("insufficient role permissions")
	ErrResourceNotFound = errors.New("resource not found")
)
