package services

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("not found")

	// ErrStaleOrderVersion rejects a reorder submission whose version is
	// not newer than the chapter's last applied one.
	ErrStaleOrderVersion = errors.New("stale order version")
	// ErrSparseOrder rejects an order payload that is not a dense 1..N
	// permutation of the chapter's slides.
	ErrSparseOrder = errors.New("order payload is not a dense permutation of the chapter's slides")
	// ErrNotifyUnconfirmed rejects a publish that requests downstream
	// notification without the explicit confirmation step.
	ErrNotifyUnconfirmed = errors.New("notify requested without confirmation")
)
