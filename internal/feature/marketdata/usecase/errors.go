// Package usecase implements the business logic for the marketdata feature.
package usecase

import "errors"

var (
	// ErrInvalidIndexCode is returned when an index code is not 2-12 alphanumerics starting with a letter.
	ErrInvalidIndexCode = errors.New("invalid index code")

	// ErrNonPositivePrice is returned when a price is zero or negative.
	ErrNonPositivePrice = errors.New("price must be strictly positive")

	// ErrFutureDate is returned when a price date lies in the future.
	ErrFutureDate = errors.New("price date must not be in the future")

	// ErrIndexPriceNotFound is returned when no index price exists for the given ID.
	ErrIndexPriceNotFound = errors.New("index price not found")

	// ErrDuplicateIndexPrice is returned when a price for the same code and date already exists.
	ErrDuplicateIndexPrice = errors.New("index price already exists for this code and date")

	// ErrImmutableField is returned when an update tries to change the index code or price date.
	ErrImmutableField = errors.New("index code and price date cannot be changed")
)
