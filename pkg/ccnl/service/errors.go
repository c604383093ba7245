package service

import "errors"

// Sentinel errors for service operations.
var (
	// ErrTemplateNotFound indicates the catalog has no template with the given ID.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrProfileNotFound indicates the catalog has no profile with the given code.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrNoStore indicates a draft operation on a service built without a store.
	ErrNoStore = errors.New("no draft store configured")
)
