package cli

import "errors"

var (
	// ErrNoSources is returned when discovery finds no C# files.
	ErrNoSources = errors.New("no C# source files found")
	// ErrFindings is returned by audit when findings exist and the run was
	// asked to fail on them.
	ErrFindings = errors.New("audit reported findings")
	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid config")
)
