// Package usecase implements the business logic for the instruments feature.
package usecase

import "errors"

var (
	// ErrInvalidISIN is returned when an ISIN fails the format or check-digit validation.
	ErrInvalidISIN = errors.New("invalid isin")

	// ErrInvalidType is returned when an instrument type is not one of the known types.
	ErrInvalidType = errors.New("invalid instrument type")

	// ErrInstrumentNotFound is returned when no instrument exists for the given ISIN.
	ErrInstrumentNotFound = errors.New("instrument not found")

	// ErrInstrumentAlreadyExists is returned when creating an instrument whose ISIN is already registered.
	ErrInstrumentAlreadyExists = errors.New("instrument already exists")

	// ErrInstrumentReferenced is returned when deleting an instrument that custom holdings still reference.
	ErrInstrumentReferenced = errors.New("instrument is referenced by holdings")
)
