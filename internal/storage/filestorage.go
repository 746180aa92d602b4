package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

var ErrKeyNotFound = errors.New("key not found")

// Well-known keys of the durable client store. Token and user are kept
// as separate entries; KeySession holds the persisted session subset
// used for store rehydration.
const (
	KeyToken   = "token"
	KeyUser    = "user"
	KeySession = "storefront.session"
)

// Store is the durable client-side key-value storage, the analogue of
// browser local storage. Writes are last-write-wins; there is no
// transaction spanning multiple keys.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// FileStore persists keys to a single JSON file. Every operation reads
// or rewrites the whole file, which is fine at this size.
type FileStore struct {
	filePath string
	mu       sync.Mutex
}

func NewFileStore(filePath string) *FileStore {
	return &FileStore{filePath: filePath}
}

func (fs *FileStore) Get(key string) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.load()
	if err != nil {
		return "", err
	}
	value, ok := data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (fs *FileStore) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.load()
	if err != nil {
		return err
	}
	data[key] = value
	return fs.save(data)
}

func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.load()
	if err != nil {
		return err
	}
	delete(data, key)
	return fs.save(data)
}

func (fs *FileStore) load() (map[string]string, error) {
	data := make(map[string]string)

	file, err := os.Open(fs.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode store file: %w", err)
	}
	return data, nil
}

func (fs *FileStore) save(data map[string]string) error {
	file, err := os.Create(fs.filePath)
	if err != nil {
		return fmt.Errorf("failed to create store file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// MemoryStore is an in-memory Store for tests and throwaway sessions.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (ms *MemoryStore) Get(key string) (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	value, ok := ms.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (ms *MemoryStore) Set(key, value string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.data[key] = value
	return nil
}

func (ms *MemoryStore) Delete(key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.data, key)
	return nil
}
