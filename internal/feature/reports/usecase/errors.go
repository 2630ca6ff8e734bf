// Package usecase implements the business logic for the reports feature.
package usecase

import "errors"

var (
	// ErrInvalidKind is returned when a report kind is not one of the known kinds.
	ErrInvalidKind = errors.New("unknown report kind")

	// ErrFutureDate is returned when a business date lies in the future.
	ErrFutureDate = errors.New("business date must not be in the future")

	// ErrNotCSV is returned when an uploaded file is not named *.csv.
	ErrNotCSV = errors.New("file must be a .csv")

	// ErrEmptyFile is returned when an uploaded file carries no bytes.
	ErrEmptyFile = errors.New("uploaded file is empty")

	// ErrBatchNotFound is returned when no batch exists for the given ID.
	ErrBatchNotFound = errors.New("report batch not found")

	// ErrNotReprocessable is returned when reprocessing a batch that has not failed.
	ErrNotReprocessable = errors.New("only failed batches can be reprocessed")

	// ErrBatchProcessing is returned when deleting a batch the processor is working on.
	ErrBatchProcessing = errors.New("batch is currently being processed")
)
