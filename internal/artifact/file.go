package artifact

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pribylovaa/go-travel-warnings/internal/models"
	"github.com/pribylovaa/go-travel-warnings/pkg/log"
)

// File записывает артефакт на диск: во временный файл рядом с целевым,
// затем rename, так что читатели видят либо старую, либо новую версию.
type File struct {
	path string
}

// NewFile создаёт приёмник для path; каталог создаётся при первой публикации.
func NewFile(path string) (*File, error) {
	const op = "artifact/file/NewFile"

	if path == "" {
		return nil, fmt.Errorf("%s: empty path", op)
	}

	return &File{path: path}, nil
}

// Path возвращает путь артефакта.
func (f *File) Path() string {
	return f.path
}

func (f *File) Publish(ctx context.Context, warnings models.WarningsByCountry) error {
	const op = "artifact/file/Publish"

	raw, err := Encode(warnings)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%s: mkdir: %w", op, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("%s: create temp: %w", op, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: write: %w", op, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: close: %w", op, err)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: chmod: %w", op, err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: rename: %w", op, err)
	}

	log.From(ctx).Info("artifact_written",
		slog.String("op", op),
		slog.String("path", f.path),
		slog.Int("bytes", len(raw)),
		slog.Int("countries", len(warnings)),
	)

	return nil
}

var _ Publisher = (*File)(nil)
