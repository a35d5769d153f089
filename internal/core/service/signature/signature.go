package signature

import (
	"fmt"
	"strings"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"
)

// Registry resolves verifier factories by name. It is filled at process
// startup and read-only afterwards, so no locking is needed.
type Registry struct {
	factories map[string]port.VerifierFactory
}

// NewRegistry creates a registry preloaded with the default verifiers
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]port.VerifierFactory)}
	r.Register("md5", NewMD5)
	return r
}

// Register adds a factory under a case-insensitive name
func (r *Registry) Register(name string, f port.VerifierFactory) {
	r.factories[strings.ToLower(name)] = f
}

// Resolve returns the factory registered under name
func (r *Registry) Resolve(name string) (port.VerifierFactory, error) {
	f, ok := r.factories[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown signature verifier: %s", name)
	}
	return f, nil
}
