package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage writes recording videos into a flat directory, naming each
// file by a fresh UUID so uploads with identical filenames never collide.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (ls *LocalStorage) SaveFile(file multipart.File, info FileInfo) (string, error) {
	ext := filepath.Ext(info.Filename)
	if ext == "" {
		ext = ".mp4"
	}

	name := uuid.New().String() + ext
	fullPath := filepath.Join(ls.basePath, name)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return name, nil
}

func (ls *LocalStorage) OpenFile(name string) (io.ReadSeekCloser, error) {
	fullPath, err := ls.FilePath(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// FilePath resolves a stored name to its path under the storage root,
// rejecting anything that would escape it.
func (ls *LocalStorage) FilePath(name string) (string, error) {
	clean := filepath.Clean(name)
	if clean != filepath.Base(clean) || strings.Contains(clean, "..") {
		return "", fmt.Errorf("invalid file name: %s", name)
	}
	return filepath.Join(ls.basePath, clean), nil
}

func (ls *LocalStorage) DeleteFile(name string) error {
	fullPath, err := ls.FilePath(name)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
