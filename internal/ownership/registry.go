package ownership

import (
	"sort"
	"sync"

	"zephyr/internal/source"
)

// Registry publishes one finalized signature per function. Entries are
// write-once: the first publish wins and later publishes are no-ops, which
// keeps re-analysis deterministic. Reads are free after the publish
// barrier. The registry is an explicit context object passed into every
// analysis call; independent compilation units hold isolated snapshots.
type Registry struct {
	mu   sync.RWMutex
	sigs map[source.StringID]Signature
}

func NewRegistry() *Registry {
	return &Registry{sigs: make(map[source.StringID]Signature)}
}

// Publish stores sig unless a signature for the same name already exists.
// Returns false when the entry was already published.
func (r *Registry) Publish(sig Signature) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sigs[sig.Name]; ok {
		return false
	}
	r.sigs[sig.Name] = sig
	return true
}

// Lookup returns the published signature for name.
func (r *Registry) Lookup(name source.StringID) (Signature, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sig, ok := r.sigs[name]
	return sig, ok
}

// ParamMode resolves the mode of the i-th parameter of name, defaulting to
// Owned when the function is not published yet (forward or circular
// references bias toward extra duplication, never a missed conflict).
func (r *Registry) ParamMode(name source.StringID, i int) Decision {
	sig, ok := r.Lookup(name)
	if !ok {
		return Owned
	}
	return sig.ParamMode(i)
}

// Len returns the number of published signatures.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sigs)
}

// Snapshot copies the registry for an independent compilation unit.
func (r *Registry) Snapshot() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := NewRegistry()
	for name, sig := range r.sigs {
		out.sigs[name] = sig
	}
	return out
}

// Export returns all published signatures ordered by name id, for caching.
func (r *Registry) Export() []Signature {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Signature, 0, len(r.sigs))
	for _, sig := range r.sigs {
		out = append(out, sig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SeedBuiltins publishes signatures for runtime builtins so their call
// sites reclassify as reads instead of moves.
func SeedBuiltins(r *Registry, in *source.Interner) {
	for _, name := range []string{"print", "println", "eprintln", "format", "log"} {
		id := in.Intern(name)
		r.Publish(Signature{
			Name:     id,
			Params:   []ParamSig{{Name: in.Intern("args"), Mode: Borrowed}},
			Return:   ReturnOwned,
			Variadic: true,
		})
	}
}
