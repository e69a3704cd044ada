package member

import "errors"

var (
	// ErrMemberNotFound: no live member matches the given phone or token.
	ErrMemberNotFound = errors.New("member: not found")
	// ErrDuplicatePhone: the phone number is already registered.
	ErrDuplicatePhone = errors.New("member: phone already registered")
	// ErrSecondPasswordMismatch: withdrawal gate failed.
	ErrSecondPasswordMismatch = errors.New("member: second password mismatch")
	// ErrUnknownPassItem: the requested catalog item id is not configured.
	ErrUnknownPassItem = errors.New("member: unknown pass item")
)
