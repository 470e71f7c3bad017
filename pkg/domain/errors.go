package domain

import "errors"

// ErrDuplicateTransition is returned when a table defines the same (State, Symbol) pair twice.
var ErrDuplicateTransition = errors.New("duplicate transition")

// ErrProgramNotFound is returned when a program name cannot be found in the library.
var ErrProgramNotFound = errors.New("program not found")

// ErrInvalidProgramName is returned for names that cannot be used as library keys.
var ErrInvalidProgramName = errors.New("invalid program name")
