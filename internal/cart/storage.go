package cart

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
)

// Storage persists the serialized item list between sessions. Implementations
// are best-effort: the cart logs and ignores failures.
type Storage interface {
	Load() ([]Item, error)
	Save(items []Item) error
}

// FileStorage keeps the cart in a JSON file, the local-durable-storage analog
// used by non-browser clients.
type FileStorage struct {
	Path string
}

// Load reads and decodes the stored item list. A missing file is an empty
// cart, not an error.
func (s FileStorage) Load() ([]Item, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Save writes the item list as JSON.
func (s FileStorage) Save(items []Item) error {
	if items == nil {
		items = []Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, raw, 0o600)
}

// MemoryStorage is an in-process Storage, used in tests and for sessions
// without a durable location.
type MemoryStorage struct {
	items []Item
}

func (s *MemoryStorage) Load() ([]Item, error) {
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items, nil
}

func (s *MemoryStorage) Save(items []Item) error {
	s.items = make([]Item, len(items))
	copy(s.items, items)
	return nil
}
