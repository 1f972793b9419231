// Package snapcache persists the last successful entity poll so the dashboard
// can render something before the first network response arrives.
package snapcache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/errors"
)

// Snapshot is the on-disk cache record.
type Snapshot struct {
	ServerURL string             `json:"server_url"`
	SavedAt   time.Time          `json:"saved_at"`
	Entities  []api.EntitySample `json:"entities"`
}

// Cache reads and writes a Snapshot at a fixed path.
type Cache struct {
	path string
}

// New returns a Cache backed by path.
func New(path string) *Cache {
	return &Cache{path: path}
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Load reads the cached snapshot for serverURL.
// Returns nil, nil if the file doesn't exist or was written for another server.
// Returns nil, error if the file exists but can't be parsed.
func (c *Cache) Load(serverURL string) (*Snapshot, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrCache, "Couldn't read the entity cache", "Delete "+c.path+" if the problem persists")
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCache, "Entity cache is corrupt", "Delete "+c.path+"; it is rebuilt on the next poll")
	}

	if snap.ServerURL != serverURL {
		return nil, nil
	}
	return &snap, nil
}

// Save overwrites the cache with entities. The parent directory is created
// when missing and the file is replaced atomically.
func (c *Cache) Save(serverURL string, entities []api.EntitySample, at time.Time) error {
	if entities == nil {
		entities = []api.EntitySample{}
	}
	data, err := json.Marshal(Snapshot{ServerURL: serverURL, SavedAt: at.UTC(), Entities: entities})
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCache, "Couldn't encode the entity cache", "")
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrCache, "Couldn't create the cache directory", "Check permissions on "+dir)
	}

	tmp, err := os.CreateTemp(dir, ".entities-*.json")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCache, "Couldn't write the entity cache", "Check permissions on "+dir)
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(werr, errors.ErrCache, "Couldn't write the entity cache", "Check free space in "+dir)
	}

	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrCache, "Couldn't replace the entity cache", "Check permissions on "+c.path)
	}
	return nil
}
