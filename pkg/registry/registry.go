package registry

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

type entry struct {
	sum       [sha256.Size]byte
	schematic *domain.Schematic
}

// Registry parses each stored program once and shares the Schematic between runs.
// Sources are always re-read from the store; a source is only re-parsed when its
// content changed, so several registries may share one store.
type Registry struct {
	store ports.ProgramStore

	mu    sync.RWMutex
	cache map[string]entry
}

// New creates a registry on top of store.
func New(store ports.ProgramStore) *Registry {
	return &Registry{
		store: store,
		cache: make(map[string]entry),
	}
}

// Get returns the parsed program stored under name.
func (r *Registry) Get(ctx context.Context, name string) (*domain.Schematic, error) {
	source, err := r.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(source)

	r.mu.RLock()
	cached, ok := r.cache[name]
	r.mu.RUnlock()
	if ok && cached.sum == sum {
		return cached.schematic, nil
	}

	schematic, err := compiler.ParseBytes(source, compiler.EncodingText)
	if err != nil {
		return nil, fmt.Errorf("stored program %q is invalid: %w", name, err)
	}

	r.mu.Lock()
	r.cache[name] = entry{sum: sum, schematic: schematic}
	r.mu.Unlock()
	return schematic, nil
}

// Source returns the stored canonical text of a program.
func (r *Registry) Source(ctx context.Context, name string) ([]byte, error) {
	return r.store.Load(ctx, name)
}

// Put parses source in the given encoding and stores its canonical text form.
// Invalid programs are rejected before anything is written.
func (r *Registry) Put(ctx context.Context, name string, source []byte, enc compiler.Encoding) (*domain.Schematic, error) {
	if err := domain.ValidateProgramName(name); err != nil {
		return nil, err
	}
	schematic, err := compiler.ParseBytes(source, enc)
	if err != nil {
		return nil, err
	}

	canonical := compiler.Format(schematic)
	if err := r.store.Save(ctx, name, canonical); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[name] = entry{sum: sha256.Sum256(canonical), schematic: schematic}
	r.mu.Unlock()
	return schematic, nil
}

// Import stores a program file under its base name without extension.
func (r *Registry) Import(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read program: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if _, err := r.Put(ctx, name, data, compiler.EncodingFromPath(path)); err != nil {
		return "", fmt.Errorf("failed to import %s: %w", path, err)
	}
	return name, nil
}

// Delete removes a program and evicts it from the cache.
func (r *Registry) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	delete(r.cache, name)
	r.mu.Unlock()
	return r.store.Delete(ctx, name)
}

// List returns the stored names.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	return r.store.List(ctx)
}
