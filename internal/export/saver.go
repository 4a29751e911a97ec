package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tiliavir/daily-work-journal/internal/logs"
)

// Save methods reported by savers.
const (
	MethodFileSystem = "file-system"
	MethodDownload   = "download"
)

// Saver persists a rendered journal and reports how it did so.
type Saver interface {
	Save(ctx context.Context, content, filename, mimeType string) (method string, err error)
}

// DirSaver writes into a chosen directory, replacing an existing file.
type DirSaver struct {
	Dir string
}

// Save implements Saver.
func (s DirSaver) Save(ctx context.Context, content, filename, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Dir == "" {
		return "", errors.New("no output directory configured")
	}
	if err := writeAtomic(filepath.Join(s.Dir, filename), content); err != nil {
		return "", err
	}
	return MethodFileSystem, nil
}

// DownloadSaver drops the file into a downloads directory and, like a
// browser, never overwrites: "name (1).txt" is used when "name.txt" exists.
type DownloadSaver struct {
	Dir string
}

// DefaultDownloadDir returns ~/Downloads.
func DefaultDownloadDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, "Downloads"), nil
}

// Save implements Saver.
func (s DownloadSaver) Save(ctx context.Context, content, filename, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := s.Dir
	if dir == "" {
		d, err := DefaultDownloadDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	path := filepath.Join(dir, filename)
	for i := 1; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
	}
	if err := writeAtomic(path, content); err != nil {
		return "", err
	}
	return MethodDownload, nil
}

// FallbackSaver tries Primary and, if that fails, Secondary. Only a failure of
// both is returned.
type FallbackSaver struct {
	Primary   Saver
	Secondary Saver
}

// Save implements Saver.
func (s FallbackSaver) Save(ctx context.Context, content, filename, mimeType string) (string, error) {
	method, err := s.Primary.Save(ctx, content, filename, mimeType)
	if err == nil {
		return method, nil
	}
	logs.Logger.Printf("save %s failed, falling back: %v", filename, err)
	method, err2 := s.Secondary.Save(ctx, content, filename, mimeType)
	if err2 != nil {
		return "", fmt.Errorf("save %s: %w", filename, errors.Join(err, err2))
	}
	return method, nil
}

func writeAtomic(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", tmpPath, err)
	}
	return nil
}
