package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Key selects a catalog: the (program, format) pair collected by the
// routing wizard.
type Key struct {
	Program string `yaml:"program" json:"program"`
	Format  string `yaml:"format" json:"format"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Program, k.Format)
}

// ManifestEntry registers one catalog file under a key.
type ManifestEntry struct {
	Program string `yaml:"program"`
	Format  string `yaml:"format"`
	File    string `yaml:"file"`
	// Entry optionally overrides the entry node id (default: first record).
	Entry string `yaml:"entry,omitempty"`
}

// Manifest is the on-disk registry of available catalogs.
type Manifest struct {
	Catalogs []ManifestEntry `yaml:"catalogs"`
}

// Registry resolves catalog keys to loaded catalogs. Loads are
// deterministic for a given key and cached for the process lifetime.
type Registry struct {
	dir     string
	entries map[Key]ManifestEntry
	cache   map[Key]*Catalog
}

// OpenRegistry reads the catalogs.yaml manifest in dir and returns a
// registry over the files it names. The files themselves are parsed
// lazily on first Load.
func OpenRegistry(dir string) (*Registry, error) {
	path := filepath.Join(dir, "catalogs.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse catalog manifest %s: %w", path, err)
	}

	r := &Registry{
		dir:     dir,
		entries: make(map[Key]ManifestEntry, len(m.Catalogs)),
		cache:   make(map[Key]*Catalog),
	}
	for _, e := range m.Catalogs {
		r.entries[Key{Program: e.Program, Format: e.Format}] = e
	}
	return r, nil
}

// Keys returns every registered catalog key in manifest order duplicates
// removed.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

// Load returns the catalog for key, parsing its file on first use.
// A key with no manifest entry yields *NotFoundError.
func (r *Registry) Load(key Key) (*Catalog, error) {
	if cat, ok := r.cache[key]; ok {
		return cat, nil
	}

	entry, ok := r.entries[key]
	if !ok {
		return nil, &NotFoundError{Key: key}
	}

	f, err := os.Open(filepath.Join(r.dir, entry.File))
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", entry.File, err)
	}
	defer f.Close()

	cat, err := ParseCSV(f, key)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", entry.File, err)
	}
	if entry.Entry != "" {
		if _, ok := cat.LookupByID(entry.Entry); !ok {
			return nil, fmt.Errorf("catalog %s: entry override: %w", entry.File, &NodeNotFoundError{ID: entry.Entry})
		}
		cat.EntryID = entry.Entry
	}

	r.cache[key] = cat
	return cat, nil
}
