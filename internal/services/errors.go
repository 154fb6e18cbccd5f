package services

import "errors"

// Outcome classes the handlers translate to HTTP statuses. Absence of a
// schedule match is deliberately distinct from an unknown bus: the first is a
// valid "no route right now" answer, the second a client error.
var (
	// ErrBusNotFound means the static QR maps to no active bus.
	ErrBusNotFound = errors.New("bus not found")

	// ErrNoScheduleMatch means the bus exists but no active assignment covers
	// the scan instant. Not a fault.
	ErrNoScheduleMatch = errors.New("no schedule match")

	// ErrDuplicateScan means the client event id was already processed. The
	// original scan's effects stand.
	ErrDuplicateScan = errors.New("duplicate scan event")

	// ErrDataIntegrity means the resolver produced a bus or route that could
	// not subsequently be loaded.
	ErrDataIntegrity = errors.New("data integrity error")

	// ErrSessionNotFound means no live student holds the presented token.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidCredentials means the admin login failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
