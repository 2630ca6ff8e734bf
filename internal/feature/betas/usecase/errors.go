// Package usecase implements the business logic for the betas feature.
package usecase

import "errors"

var (
	// ErrInvalidISIN is returned when an ISIN fails the format or check-digit validation.
	ErrInvalidISIN = errors.New("invalid isin")

	// ErrInvalidIndexCode is returned when an index code is not 2-12 alphanumerics starting with a letter.
	ErrInvalidIndexCode = errors.New("invalid index code")

	// ErrBetaOutOfRange is returned when a beta lies outside the plausible [-20, 20] band.
	ErrBetaOutOfRange = errors.New("beta must lie between -20 and 20")

	// ErrFutureDate is returned when an effective date lies in the future.
	ErrFutureDate = errors.New("effective date must not be in the future")

	// ErrBetaNotFound is returned when no beta exists for the given ID.
	ErrBetaNotFound = errors.New("instrument beta not found")

	// ErrDuplicateRow is returned when a submission repeats an earlier row's
	// (ISIN, IndexCode, EffectiveDate) key.
	ErrDuplicateRow = errors.New("duplicate of an earlier row with the same isin, index code, and effective date")

	// ErrNoRows is returned when a bulk upsert carries no rows.
	ErrNoRows = errors.New("no beta rows submitted")
)
