package service

import "errors"

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when attempting to sign up with a registered identifier.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUnauthenticated is returned when an operation runs without an acting user.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrAccountAlreadyExists is returned when the user already linked the account number.
	ErrAccountAlreadyExists = errors.New("this account already exists for this user")
	// ErrDuplicateReference is returned when the user already recorded the reference number.
	ErrDuplicateReference = errors.New("a transaction with this reference number already exists")
	ErrStorageUnavailable = errors.New("statement storage is not configured")
	ErrStatementNotFound  = errors.New("statement not found")
)

// ValidationError reports caller input that is missing or malformed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
