package registry

import (
	"fmt"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/triagekit/triage/pkg/domain"
	"github.com/triagekit/triage/pkg/ports"
)

// Factory builds a command instance from journaled arguments.
// Factories are registered explicitly at startup; there is no implicit
// registration hook anywhere in the engine.
type Factory func(args map[string]any) (ports.Command, error)

// Registry manages the available command factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a command factory to the registry.
// If a factory with the same name exists, it is overwritten.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Build looks up a factory by name and constructs the command.
// Returns domain.ErrUnknownCommand if the name is not registered.
func (r *Registry) Build(name string, args map[string]any) (ports.Command, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCommand, name)
	}

	cmd, err := f(args)
	if err != nil {
		return nil, fmt.Errorf("build command %s: %w", name, err)
	}
	return cmd, nil
}

// Names returns the registered command names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// DecodeArgs maps loosely-typed journal args onto a typed factory config.
// Journals round-trip through JSON, so numbers may arrive as float64 and
// the decode is deliberately weakly typed.
func DecodeArgs(args map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("decode args: %w", err)
	}
	return nil
}
