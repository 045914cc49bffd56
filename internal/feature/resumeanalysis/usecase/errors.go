package usecase

import "errors"

var (
	// ErrMissingAPIKey is returned before any model call when no API key is available.
	ErrMissingAPIKey = errors.New("API Key is missing")

	// ErrUnparsableResponse is recorded when a model response contains no usable JSON object.
	ErrUnparsableResponse = errors.New("could not parse model response")

	// ErrRateLimited marks errors that adapters have classified as rate-limit or quota failures.
	ErrRateLimited = errors.New("rate limited")

	// ErrMissingInput is returned when the resume or the job description is absent.
	ErrMissingInput = errors.New("a resume and a job description are required")

	// ErrRecordNotFound is returned when an analysis record cannot be found by ID.
	ErrRecordNotFound = errors.New("analysis record not found")

	// ErrHistoryDisabled is returned by history lookups when no repository is configured.
	ErrHistoryDisabled = errors.New("analysis history is disabled")
)
