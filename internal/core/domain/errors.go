package domain

import "errors"

// Common domain errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream request failed")
)

// Session errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccessDenied       = errors.New("access denied: manager role required")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// Directory errors
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrConflict         = errors.New("username or mobile number already exists")
	ErrMutationInFlight = errors.New("another directory mutation is in flight")
)

// Import errors
var (
	ErrImportParse      = errors.New("roster file could not be parsed")
	ErrImportValidation = errors.New("roster file contains invalid rows")
	ErrImportInFlight   = errors.New("another import is in flight")
)
