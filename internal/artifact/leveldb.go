package artifact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const keyPrefix = "a:"

// LevelDBStore keeps artifacts in a LevelDB database, one key per artifact.
type LevelDBStore struct {
	db *leveldb.DB
}

func NewLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDBStore{db: db}, nil
}

func (l *LevelDBStore) Close() error {
	return l.db.Close()
}

func (l *LevelDBStore) FindCurrent(_ context.Context) (*Artifact, error) {
	it := l.db.NewIterator(util.BytesPrefix([]byte(keyPrefix)), nil)
	defer it.Release()

	for it.Next() {
		name := string(it.Key()[len(keyPrefix):])
		if !IsName(name) {
			continue
		}
		return Parse(name)
	}
	return nil, it.Error()
}

func (l *LevelDBStore) Read(_ context.Context, a *Artifact) ([]byte, error) {
	b, err := l.db.Get([]byte(keyPrefix+a.Name), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, a.Name)
	}
	return b, err
}

// Replace writes the new artifact and deletes old in one batch.
func (l *LevelDBStore) Replace(_ context.Context, old *Artifact, content []byte, generatedAt time.Time) (*Artifact, error) {
	next := &Artifact{Name: Name(generatedAt), GeneratedAt: generatedAt.UTC()}

	batch := new(leveldb.Batch)
	if old != nil && old.Name != next.Name {
		batch.Delete([]byte(keyPrefix + old.Name))
	}
	batch.Put([]byte(keyPrefix+next.Name), content)
	if err := l.db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return nil, err
	}
	return next, nil
}
