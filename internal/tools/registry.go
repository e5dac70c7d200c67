package tools

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	ErrMissingDescriptor = errors.New("module has no tool descriptor")
	ErrMissingHandler    = errors.New("module has no execute handler")
)

// Registry maps tool names to entries. It is filled during startup and only
// read while serving.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// LoadOne runs the candidate's loader and registers the module when it is
// complete. A later module with the same name replaces the earlier one.
func (r *Registry) LoadOne(c Candidate) error {
	if c.Load == nil {
		return fmt.Errorf("%s: %w", c.Ref, ErrMissingHandler)
	}
	m, err := c.Load()
	if err != nil {
		return fmt.Errorf("%s: %w", c.Ref, err)
	}
	if m.Descriptor == nil || m.Descriptor.Name == "" {
		return fmt.Errorf("%s: %w", c.Ref, ErrMissingDescriptor)
	}
	if m.Handler == nil {
		return fmt.Errorf("%s: %w", c.Ref, ErrMissingHandler)
	}
	r.Register(*m.Descriptor, m.Handler)
	return nil
}

// LoadAll loads every candidate, logging and skipping the ones that fail.
// It returns the number of tools registered.
func (r *Registry) LoadAll(candidates []Candidate) int {
	n := 0
	for _, c := range candidates {
		if err := r.LoadOne(c); err != nil {
			log.Warn().Err(err).Str("source", c.Ref).Msg("skipping tool module")
			continue
		}
		n++
	}
	return n
}

// Register adds or replaces an entry.
func (r *Registry) Register(d Descriptor, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.entries[d.Name]; ok {
		log.Warn().
			Str("tool", d.Name).
			Str("previous_version", prev.Descriptor.Version).
			Str("version", d.Version).
			Msg("duplicate tool name, replacing previous entry")
	}
	r.entries[d.Name] = Entry{Descriptor: d, Handler: h}
	log.Info().Str("tool", d.Name).Str("version", d.Version).Msg("tool registered")
}

func (r *Registry) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Descriptors returns every registered descriptor sorted by name.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	out := make([]Descriptor, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Descriptor)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
