// Package modalstate tracks which named modals are visible.
//
// The registry is a process-wide keyed map of booleans. Entries are
// created lazily on first reference and never destroyed; Show and Hide
// are idempotent. Multiple modals may be open at once — any exclusivity
// is a caller convention.
package modalstate

// Registry holds show/hide state for named modals.
type Registry struct {
	entries map[string]bool
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]bool)}
}

// Show marks the modal visible.
func (r *Registry) Show(key string) {
	r.entries[key] = true
}

// Hide marks the modal hidden.
func (r *Registry) Hide(key string) {
	r.entries[key] = false
}

// IsShown reports the modal's current visibility. Keys that were never
// touched report false.
func (r *Registry) IsShown(key string) bool {
	return r.entries[key]
}
