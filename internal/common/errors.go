// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Corpus store errors.
	ErrNotFound       = errors.New("not found")
	ErrEmptyCorpus    = errors.New("corpus is empty")
	ErrCorpusCorrupt  = errors.New("corpus database corrupted")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// External collaborator errors.
	ErrRetrievalFailed  = errors.New("passage retrieval failed")
	ErrGenerationFailed = errors.New("text generation failed")
	ErrMalformedOutput  = errors.New("malformed generator output")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)
