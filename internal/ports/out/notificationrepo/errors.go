package notificationrepo

import "errors"

var (
	// ErrNotFound indicates no notification exists for the recipient with
	// the given ID.
	ErrNotFound = errors.New("notification not found")
)
