package fraudguard

import (
	"encoding/json"
	"os"
	"sync"
)

// BlockStore is the injectable local key-value set of pre-blocked wallets,
// the equivalent of the browser's persisted storage. Advisory only.
type BlockStore interface {
	Add(wallet string) error
	Contains(wallet string) (bool, error)
}

// MemoryBlockStore keeps blocks for the lifetime of the process.
type MemoryBlockStore struct {
	mu      sync.Mutex
	blocked map[string]struct{}
}

func NewMemoryBlockStore() *MemoryBlockStore {
	return &MemoryBlockStore{blocked: make(map[string]struct{})}
}

func (s *MemoryBlockStore) Add(wallet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocked[wallet] = struct{}{}
	return nil
}

func (s *MemoryBlockStore) Contains(wallet string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blocked[wallet]
	return ok, nil
}

// FileBlockStore persists the block set as a JSON array, surviving restarts
// the way localStorage survives page loads.
type FileBlockStore struct {
	mu   sync.Mutex
	path string
}

func NewFileBlockStore(path string) *FileBlockStore {
	return &FileBlockStore{path: path}
}

func (s *FileBlockStore) load() (map[string]struct{}, error) {
	blocked := make(map[string]struct{})
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return blocked, nil
		}
		return nil, err
	}
	var wallets []string
	if err := json.Unmarshal(data, &wallets); err != nil {
		return nil, err
	}
	for _, w := range wallets {
		blocked[w] = struct{}{}
	}
	return blocked, nil
}

func (s *FileBlockStore) Add(wallet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocked, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := blocked[wallet]; ok {
		return nil
	}
	blocked[wallet] = struct{}{}

	wallets := make([]string, 0, len(blocked))
	for w := range blocked {
		wallets = append(wallets, w)
	}
	data, err := json.Marshal(wallets)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileBlockStore) Contains(wallet string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocked, err := s.load()
	if err != nil {
		return false, err
	}
	_, ok := blocked[wallet]
	return ok, nil
}
