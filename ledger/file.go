package ledger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// DefaultFileRetention is how many entries a FileStore keeps.
const DefaultFileRetention = 5000

// FileStore appends entries to data/prepared_wagers.json, dropping the oldest
// once more than retain are stored. Every Append rewrites the file, so it
// suits single-instance deployments; set DATABASE_URL for anything larger.
type FileStore struct {
	mu      sync.Mutex
	dataDir string
	retain  int
}

func NewFileStore(dataDir string) *FileStore {
	if dataDir == "" {
		dataDir = "data"
	}
	return &FileStore{dataDir: dataDir, retain: DefaultFileRetention}
}

func (fs *FileStore) path() string {
	return filepath.Join(fs.dataDir, "prepared_wagers.json")
}

// readLocked loads the entry list. Caller must hold fs.mu.
func (fs *FileStore) readLocked() ([]*Entry, error) {
	data, err := os.ReadFile(fs.path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []*Entry
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (fs *FileStore) Append(_ context.Context, e *Entry) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := os.MkdirAll(fs.dataDir, 0755); err != nil {
		return err
	}
	list, err := fs.readLocked()
	if err != nil {
		return err
	}
	list = append(list, e)
	if fs.retain > 0 && len(list) > fs.retain {
		list = list[len(list)-fs.retain:]
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fs.path(), data, 0644)
}

func (fs *FileStore) Recent(_ context.Context, account string, limit int) ([]*Entry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	list, err := fs.readLocked()
	if err != nil {
		return nil, err
	}
	out := []*Entry{}
	for i := len(list) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if list[i].Account == account {
			out = append(out, list[i])
		}
	}
	return out, nil
}
