package catalog

import "sync/atomic"

// Store holds the active catalog and lets it be swapped while readers are
// in flight. Readers always observe a complete snapshot.
type Store struct {
	current atomic.Pointer[Catalog]
	path    string
}

// NewStore creates a store serving c. path is the file Reload reads from and
// may be empty when the built-in tables are used.
func NewStore(c *Catalog, path string) *Store {
	if c == nil {
		c = Default()
	}
	s := &Store{path: path}
	s.current.Store(c)
	return s
}

// Open builds a store from path, or from the built-in tables when path is empty.
func Open(path string) (*Store, error) {
	if path == "" {
		return NewStore(Default(), ""), nil
	}
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewStore(c, path), nil
}

// Current returns the active catalog.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Path returns the backing file, if any.
func (s *Store) Path() string {
	return s.path
}

// Replace swaps in c.
func (s *Store) Replace(c *Catalog) {
	s.current.Store(c)
}

// Reload re-reads the backing file. On error the previous catalog stays active.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	c, err := Load(s.path)
	if err != nil {
		return err
	}
	s.Replace(c)
	return nil
}
