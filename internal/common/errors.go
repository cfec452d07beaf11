package common

import "errors"

var (
	// Session errors. Both force the "please log in again" screen.
	ErrNoSession      = errors.New("no session")
	ErrSessionCorrupt = errors.New("session corrupt")

	// Storage errors.
	ErrorNotFound = errors.New("not found")
)
