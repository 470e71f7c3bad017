package ports

import "context"

// ProgramStore persists program sources (the .turing text form) by name.
// It never stores machine state: every run starts from a fresh tape.
//
// Names must satisfy domain.ValidateProgramName; invalid names fail with
// domain.ErrInvalidProgramName.
type ProgramStore interface {
	// Save creates or replaces the source stored under name.
	Save(ctx context.Context, name string, source []byte) error

	// Load retrieves a source.
	// Returns domain.ErrProgramNotFound if the program does not exist.
	Load(ctx context.Context, name string) ([]byte, error)

	// Delete removes a source.
	// Returns domain.ErrProgramNotFound if the program does not exist.
	Delete(ctx context.Context, name string) error

	// List returns the stored names in ascending order.
	List(ctx context.Context) ([]string, error)
}
