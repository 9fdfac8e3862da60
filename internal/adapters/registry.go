package adapters

import (
	"errors"
	"fmt"
	"sort"

	"econfetch/internal/fetcher"
	"econfetch/internal/logger"
)

// ErrUnknownAdapter is returned when an adapter id is not registered.
var ErrUnknownAdapter = errors.New("unknown adapter")

// Registry is a closed mapping from adapter id (or alias) to adapter.
type Registry struct {
	adapters map[string]Adapter
	ids      []string
}

// NewRegistry registers the given adapters under their ids and aliases.
// Panics if two adapters claim the same id or alias.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}

	for _, a := range adapters {
		r.register(a.ID(), a)
		r.ids = append(r.ids, a.ID())

		for _, alias := range a.Aliases() {
			r.register(alias, a)
		}
	}

	sort.Strings(r.ids)

	return r
}

func (r *Registry) register(id string, a Adapter) {
	if _, exists := r.adapters[id]; exists {
		panic(fmt.Sprintf("adapter already registered: %s", id))
	}

	r.adapters[id] = a
}

// Default returns the registry of every adapter this program ships.
func Default(client *fetcher.Client, log *logger.Logger) *Registry {
	return NewRegistry(
		NewERSAdapter(client, log),
		NewWorldBankAdapter(client, log),
	)
}

// Lookup returns the adapter registered under id.
func (r *Registry) Lookup(id string) (Adapter, error) {
	a, ok := r.adapters[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownAdapter, id, r.ids)
	}

	return a, nil
}

// IDs returns the canonical adapter ids, sorted.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.ids...)
}
