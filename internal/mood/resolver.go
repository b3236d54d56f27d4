package mood

import (
	"fmt"
	"sort"
	"strings"
)

// Resolver maps mood text to visual specs. It is immutable after construction
// and safe for concurrent use.
type Resolver struct {
	table map[string]VisualSpec
}

// Default resolves against the built-in presets only.
var Default = mustResolver(nil)

// NewResolver returns a resolver over the built-in presets plus extra. Extra
// entries are keyed case-insensitively and override built-ins of the same
// name.
func NewResolver(extra map[string]VisualSpec) (*Resolver, error) {
	table := make(map[string]VisualSpec, len(presets)+len(extra))
	for name, spec := range presets {
		spec = spec.Clone()
		spec.Name = name
		table[name] = spec
	}
	for name, spec := range extra {
		key := Key(strings.TrimSpace(name))
		if key == "" {
			return nil, fmt.Errorf("%w: preset with empty name", ErrInvalidSpec)
		}
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		spec = spec.Clone()
		spec.Name = key
		spec.Generated = false
		table[key] = spec
	}
	return &Resolver{table: table}, nil
}

func mustResolver(extra map[string]VisualSpec) *Resolver {
	r, err := NewResolver(extra)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the preset named by text (case-insensitive) or a generated
// spec. It never fails.
func (r *Resolver) Resolve(text string) VisualSpec {
	if spec, ok := r.Lookup(text); ok {
		return spec
	}
	return Generate(text)
}

// Lookup returns the preset named by text, if any.
func (r *Resolver) Lookup(text string) (VisualSpec, bool) {
	spec, ok := r.table[Key(text)]
	if !ok {
		return VisualSpec{}, false
	}
	return spec.Clone(), true
}

// Names lists preset names in alphabetical order.
func (r *Resolver) Names() []string {
	names := make([]string, 0, len(r.table))
	for name := range r.table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve resolves text against the built-in presets.
func Resolve(text string) VisualSpec {
	return Default.Resolve(text)
}

// Presets lists the built-in preset names.
func Presets() []string {
	return Default.Names()
}
