package types

import "errors"

// Sentinel kinds for engine errors. Component errors wrap exactly one of
// these so transport layers can translate with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrCapacity     = errors.New("capacity exceeded")
	ErrPrecondition = errors.New("precondition failed")
)
