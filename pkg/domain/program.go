package domain

import (
	"fmt"
	"regexp"
)

var programNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// ValidateProgramName checks that name can be used as a library key and a file name.
func ValidateProgramName(name string) error {
	if !programNamePattern.MatchString(name) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidProgramName, name)
	}
	return nil
}
