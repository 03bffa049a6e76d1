package encoding

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/encoding/ianaindex"
)

// Errors returned by the registry.
var (
	// ErrInvalidEncoding is returned when an encoding name cannot be resolved.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrInvalidDefinition is returned when registering a malformed definition.
	ErrInvalidDefinition = errors.New("invalid encoding definition")

	// ErrDuplicateEncoding is returned when a name or alias is already taken.
	ErrDuplicateEncoding = errors.New("duplicate encoding name")
)

// Registry maps names and aliases to encodings.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	list   []*Encoding
	byName map[string]*Encoding
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Encoding)}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds a new encoding and returns its descriptor.
func (r *Registry) Register(def Definition) (*Encoding, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}

	names := append([]string{def.Name}, def.Aliases...)
	if def.Codec != nil {
		// Map the IANA canonical name back to this entry so lookups that
		// fall through to the IANA index still resolve here.
		if iana, err := ianaindex.IANA.Name(def.Codec); err == nil && iana != "" {
			names = append(names, iana)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(names))
	keys := make([]string, 0, len(names))
	for _, n := range names {
		k := normalize(n)
		if k == "" || seen[k] {
			continue
		}
		if _, ok := r.byName[k]; ok {
			if k == normalize(def.Name) {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateEncoding, n)
			}
			// Aliases already claimed by an earlier encoding stay with it.
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}

	enc := &Encoding{
		index:           len(r.list),
		name:            def.Name,
		aliases:         append([]string(nil), def.Aliases...),
		asciiCompatible: def.ASCIICompatible,
		minLen:          def.MinCharLen,
		maxLen:          def.MaxCharLen,
		scan:            def.Scan,
		codec:           def.Codec,
	}
	r.list = append(r.list, enc)
	for _, k := range keys {
		r.byName[k] = enc
	}
	tracer().Debugf("registered encoding %s (index %d)", enc.name, enc.index)
	return enc, nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(def Definition) *Encoding {
	enc, err := r.Register(def)
	if err != nil {
		panic(err)
	}
	return enc
}

// Lookup resolves a name or alias, case-insensitively. Names unknown to the
// registry are resolved through the IANA index and mapped back to a
// registered encoding sharing the same codec name.
func (r *Registry) Lookup(name string) (*Encoding, error) {
	k := normalize(name)
	r.mu.RLock()
	enc, ok := r.byName[k]
	r.mu.RUnlock()
	if ok {
		return enc, nil
	}

	codec, err := ianaindex.IANA.Encoding(name)
	if err == nil && codec != nil {
		if canon, err := ianaindex.IANA.Name(codec); err == nil {
			r.mu.RLock()
			enc, ok = r.byName[normalize(canon)]
			r.mu.RUnlock()
			if ok {
				return enc, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidEncoding, name)
}

// Get returns the encoding with the given registration index.
func (r *Registry) Get(index int) (*Encoding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.list) {
		return nil, false
	}
	return r.list[index], true
}

// All returns every registered encoding in registration order.
func (r *Registry) All() []*Encoding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Encoding, len(r.list))
	copy(out, r.list)
	return out
}

// Len returns the number of registered encodings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.list)
}

// Default is the process-wide registry pre-populated with the built-in
// encodings.
var Default = NewRegistry()

// Lookup resolves name in the default registry.
func Lookup(name string) (*Encoding, error) {
	return Default.Lookup(name)
}

// Register adds def to the default registry.
func Register(def Definition) (*Encoding, error) {
	return Default.Register(def)
}

// All lists the encodings of the default registry.
func All() []*Encoding {
	return Default.All()
}
