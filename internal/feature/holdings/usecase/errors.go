// Package usecase implements the business logic for the holdings feature.
package usecase

import "errors"

var (
	// ErrInvalidPortfolioCode is returned when a portfolio code fails the format rule.
	ErrInvalidPortfolioCode = errors.New("portfolio code must be 2-16 uppercase letters or digits starting with a letter")

	// ErrInvalidISIN is returned when an ISIN fails the format or check-digit validation.
	ErrInvalidISIN = errors.New("invalid isin")

	// ErrUnknownInstrument is returned when the ISIN is not registered in the security master.
	ErrUnknownInstrument = errors.New("isin does not match a registered instrument")

	// ErrZeroQuantity is returned when a holding carries no position at all.
	ErrZeroQuantity = errors.New("quantity must not be zero")

	// ErrNegativeMarketValue is returned when a market value is below zero.
	ErrNegativeMarketValue = errors.New("market value must not be negative")

	// ErrInvalidCurrency is returned when a currency is not a three-letter ISO 4217 code.
	ErrInvalidCurrency = errors.New("currency must be a three-letter iso 4217 code")

	// ErrFutureDate is returned when an effective date lies in the future.
	ErrFutureDate = errors.New("effective date must not be in the future")

	// ErrNoteTooLong is returned when a note exceeds the 500 character limit.
	ErrNoteTooLong = errors.New("note must not exceed 500 characters")

	// ErrHoldingNotFound is returned when no holding exists for the given ID.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrHoldingAlreadyExists is returned when a holding with the same
	// portfolio code, isin, and effective date is already stored.
	ErrHoldingAlreadyExists = errors.New("holding already exists for this portfolio, isin, and effective date")

	// ErrEmptyFile is returned when an import file carries no data rows.
	ErrEmptyFile = errors.New("csv file contains no data rows")

	// ErrMissingColumn is returned when an import header lacks a required column.
	ErrMissingColumn = errors.New("csv header is missing required column")

	// ErrMalformedRow is returned when a csv row cannot be parsed.
	ErrMalformedRow = errors.New("malformed csv row")

	// ErrDuplicateRow is returned when an import file repeats a
	// (portfolio code, isin, effective date) key.
	ErrDuplicateRow = errors.New("duplicate of an earlier row with the same portfolio code, isin, and effective date")
)
