package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	appDirName = "doesmyresumematch"
	tmpPattern = ".tmp-*"
)

// File keeps one file per key under a root directory.
type File struct {
	baseDir string
}

// NewFile creates a file storage rooted at baseDir. The directory is created on first write.
func NewFile(baseDir string) *File {
	return &File{baseDir: baseDir}
}

// DefaultDir returns the per-user directory used when no storage dir is configured.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, appDirName), nil
}

func (f *File) Get(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(f.baseDir, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read %s: %w", key, err)
	}

	return string(data), nil
}

// Set replaces the value atomically: the data is written to a temporary file first and renamed.
func (f *File) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := os.MkdirAll(f.baseDir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(f.baseDir, tmpPattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}

	if err := os.Rename(tmpName, filepath.Join(f.baseDir, key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", key, err)
	}

	return nil
}

func (f *File) Remove(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(f.baseDir, key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}

	return nil
}

func (f *File) Keys(prefix string) ([]string, error) {
	entries, err := os.ReadDir(f.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if strings.HasPrefix(name, prefix) {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)

	return keys, nil
}
