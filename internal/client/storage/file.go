package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fashionhub/internal/client/logger"
)

// errCorrupt marks a storage file that exists but is not a JSON object of strings.
var errCorrupt = errors.New("storage file is corrupt")

// FileKV stores every entry in one JSON object on disk. Each write
// re-reads the file under a lock, applies the change and atomically
// replaces it, so concurrent CLI invocations never leave a torn file.
// An unparseable file is moved aside to <path>.corrupt-<unixnano> and the
// store starts over empty.
type FileKV struct {
	path  string
	quota int
	mu    sync.Mutex
}

// NewFileKV opens (or prepares to create) the store at path.
// quota <= 0 falls back to DefaultQuota.
func NewFileKV(path string, quota int) (*FileKV, error) {
	if quota <= 0 {
		quota = DefaultQuota
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileKV{path: path, quota: quota}, nil
}

// Path returns the backing file.
func (f *FileKV) Path() string {
	return f.path
}

func (f *FileKV) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.read()
	if errors.Is(err, errCorrupt) {
		entries, err = f.recoverCorrupt()
	}
	if err != nil {
		return "", false, err
	}
	v, ok := entries[key]
	return v, ok, nil
}

func (f *FileKV) Set(key, value string) error {
	return f.modify(func(entries map[string]string) error {
		if !fits(entries, key, value, f.quota) {
			return ErrQuotaExceeded
		}
		entries[key] = value
		return nil
	})
}

func (f *FileKV) Delete(key string) error {
	return f.modify(func(entries map[string]string) error {
		delete(entries, key)
		return nil
	})
}

func (f *FileKV) modify(fn func(map[string]string) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	lockPath := f.path + ".lock"
	if err := acquireLock(lockPath); err != nil {
		return err
	}
	defer releaseLock(lockPath)

	entries, err := f.read()
	if errors.Is(err, errCorrupt) {
		entries, err = f.quarantine()
	}
	if err != nil {
		return err
	}
	if err := fn(entries); err != nil {
		return err
	}
	return f.write(entries)
}

func (f *FileKV) read() (map[string]string, error) {
	entries := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage file: %w", err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	return entries, nil
}

// recoverCorrupt takes the writer lock and quarantines the file if it is still
// corrupt; another process may have replaced it meanwhile.
func (f *FileKV) recoverCorrupt() (map[string]string, error) {
	lockPath := f.path + ".lock"
	if err := acquireLock(lockPath); err != nil {
		return nil, err
	}
	defer releaseLock(lockPath)

	entries, err := f.read()
	if errors.Is(err, errCorrupt) {
		return f.quarantine()
	}
	return entries, err
}

// quarantine moves the corrupt file aside. Caller holds the writer lock.
func (f *FileKV) quarantine() (map[string]string, error) {
	aside := fmt.Sprintf("%s.corrupt-%d", f.path, time.Now().UnixNano())
	if err := os.Rename(f.path, aside); err != nil {
		return nil, fmt.Errorf("move corrupt storage file: %w", err)
	}
	logger.Warn("Storage file %s was unreadable, moved to %s and starting empty", f.path, aside)
	return make(map[string]string), nil
}

func (f *FileKV) write(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".storage-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
