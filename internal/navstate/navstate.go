// Package navstate is the navigable key-value channel shared between the
// list views and the edit modals.
//
// Parameters are held as a single query string persisted under the dot
// directory, so the "address" survives restarts and can be pasted into
// `nobat dashboard --at` to deep-link straight into an edit modal. Values
// are untrusted: a parameter may name a record that no longer exists.
package navstate

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const locationFile = ".nobat/location"

// Store reads and writes the persisted parameter set.
type Store struct {
	path   string
	values url.Values
}

// Open loads the location file under baseDir, creating an empty store if
// the file does not exist.
func Open(baseDir string) (*Store, error) {
	s := &Store{
		path:   filepath.Join(baseDir, locationFile),
		values: url.Values{},
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	values, err := url.ParseQuery(strings.TrimSpace(string(data)))
	if err != nil {
		// A corrupt location file should not brick the tool.
		return s, nil
	}
	s.values = values
	return s, nil
}

// Seed merges a raw query string (the --at flag) over the loaded state.
func (s *Store) Seed(raw string) error {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return err
	}
	for key, vals := range values {
		if len(vals) > 0 {
			s.values.Set(key, vals[0])
		}
	}
	return s.save()
}

// Get returns the current value for key, or the empty string.
func (s *Store) Get(key string) string {
	return s.values.Get(key)
}

// Set writes the value for key and persists the store. Empty values are
// removed so the encoded address stays minimal.
func (s *Store) Set(key, value string) error {
	if value == "" {
		s.values.Del(key)
	} else {
		s.values.Set(key, value)
	}
	return s.save()
}

// Encode returns the shareable query-string form of the current state.
func (s *Store) Encode() string {
	return s.values.Encode()
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(s.values.Encode()+"\n"), 0644)
}

// Param binds one key of a Store with a declared default.
type Param struct {
	store    *Store
	key      string
	fallback string
}

// NewParam returns a parameter bound to key with the given default.
func NewParam(store *Store, key, fallback string) *Param {
	return &Param{store: store, key: key, fallback: fallback}
}

// Get returns the parameter value, or the default when unset.
func (p *Param) Get() string {
	if v := p.store.Get(p.key); v != "" {
		return v
	}
	return p.fallback
}

// Set persists a new value. Setting the default clears the entry.
func (p *Param) Set(value string) error {
	if value == p.fallback {
		value = ""
	}
	return p.store.Set(p.key, value)
}
