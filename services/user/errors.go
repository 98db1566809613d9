package user

import "errors"

var (
	ErrInvalidChannel    = errors.New("channel must be phone or email")
	ErrInvalidIdentifier = errors.New("invalid phone number or email")
	ErrInvalidOTP        = errors.New("invalid verification code")
	ErrOTPExpired        = errors.New("verification code expired, request a new one")
	ErrInvalidName       = errors.New("name must be at least 2 characters")
	ErrMissingField      = errors.New("required profile field missing")
	ErrIdentifierInUse   = errors.New("phone number or email already belongs to another account")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidSession    = errors.New("session expired or revoked")
)
