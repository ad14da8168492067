package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DirStore keeps artifacts as files in a local directory.
type DirStore struct {
	dir string
}

func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sitemap directory: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

func (d *DirStore) FindCurrent(_ context.Context) (*Artifact, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() || !IsName(e.Name()) {
			continue
		}
		return Parse(e.Name())
	}
	return nil, nil
}

func (d *DirStore) Read(_ context.Context, a *Artifact) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(d.dir, a.Name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, a.Name)
	}
	return b, err
}

// Replace writes content to a temporary file, syncs it and renames it into
// place before removing old.
func (d *DirStore) Replace(_ context.Context, old *Artifact, content []byte, generatedAt time.Time) (*Artifact, error) {
	next := &Artifact{Name: Name(generatedAt), GeneratedAt: generatedAt.UTC()}

	tmp, err := os.CreateTemp(d.dir, ".sitemap-*.tmp")
	if err != nil {
		return nil, err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return nil, err
	}
	if err := os.Rename(tmpName, filepath.Join(d.dir, next.Name)); err != nil {
		return nil, err
	}

	if old != nil && old.Name != next.Name {
		if err := os.Remove(filepath.Join(d.dir, old.Name)); err != nil && !os.IsNotExist(err) {
			return next, fmt.Errorf("remove %s: %w", old.Name, err)
		}
	}
	return next, nil
}
