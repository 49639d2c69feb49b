package service

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("invalid input")
	ErrDuplicate   = errors.New("already registered")
	ErrCredentials = errors.New("invalid credentials")
	ErrInactive    = errors.New("account is not active")
)

// toggled implements the availability toggle of the back-office forms: the
// form submits the value it currently displays and the stored value becomes
// its negation. Anything other than "true" counts as false.
func toggled(submitted string) bool {
	return submitted != "true"
}
