package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"
)

// lockInfo is written into the lock file so a crashed holder can be detected.
type lockInfo struct {
	PID       int    `json:"pid"`
	StartedAt string `json:"started_at"`
}

// ErrLocked indicates another live process holds the storage file lock.
var ErrLocked = errors.New("storage file is locked by another process")

const (
	lockRetryInterval = 20 * time.Millisecond
	lockWait          = 2 * time.Second
)

// acquireLock creates path exclusively, waiting up to lockWait for a live
// holder to let go. Locks left behind by dead processes are removed.
func acquireLock(path string) error {
	deadline := time.Now().Add(lockWait)
	for {
		err := writeLockFile(path)
		if err == nil {
			return nil
		}
		if !errors.Is(err, os.ErrExist) {
			return err
		}

		info, readErr := readLockFile(path)
		if readErr == nil && !isProcessRunning(info.PID) {
			// Stale lock, holder is gone
			os.Remove(path)
			continue
		}
		if time.Now().After(deadline) {
			if readErr == nil {
				return fmt.Errorf("%w (PID: %d)", ErrLocked, info.PID)
			}
			return ErrLocked
		}
		time.Sleep(lockRetryInterval)
	}
}

// releaseLock removes path if this process owns it.
func releaseLock(path string) error {
	info, err := readLockFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.PID != os.Getpid() {
		return nil
	}
	return os.Remove(path)
}

func readLockFile(path string) (*lockInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info lockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func writeLockFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	info := lockInfo{
		PID:       os.Getpid(),
		StartedAt: time.Now().Format(time.RFC3339),
	}
	if err := json.NewEncoder(f).Encode(info); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// On Unix, FindProcess always succeeds. Send signal 0 to check if process exists.
	return process.Signal(syscall.Signal(0)) == nil
}
