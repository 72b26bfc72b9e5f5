package domain

import "errors"

var (
	ErrValidation           = errors.New("validation failed")
	ErrInvalidRole          = errors.New("role must be counsellor or counsilli")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrDuplicateEntry       = errors.New("a sadhana card for this date has already been submitted")
	ErrUnknownCounsellor    = errors.New("counsellor with this name does not exist")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNotVerified          = errors.New("email not verified")
	ErrUnauthenticated      = errors.New("not authenticated")
	ErrForbidden            = errors.New("access denied")
	ErrNotAssigned          = errors.New("counsilli not assigned to you")
	ErrNotFound             = errors.New("not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidOTP           = errors.New("invalid otp")
	ErrOTPExpired           = errors.New("otp expired")
	ErrTooManyAttempts      = errors.New("too many attempts, try again later")
	ErrNotificationFailure  = errors.New("failed to send verification email")
	ErrInvalidExternalToken = errors.New("invalid google token")
	ErrSubmissionInProgress = errors.New("a submission for this date is already in progress")
)
