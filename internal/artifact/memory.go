package artifact

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps artifacts in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: map[string][]byte{}}
}

// Put stores content under an arbitrary name, bypassing Replace.
func (m *MemoryStore) Put(name string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = append([]byte(nil), content...)
}

// Names lists every stored name in order.
func (m *MemoryStore) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for name := range m.files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (m *MemoryStore) FindCurrent(_ context.Context) (*Artifact, error) {
	for _, name := range m.Names() {
		if IsName(name) {
			return Parse(name)
		}
	}
	return nil, nil
}

func (m *MemoryStore) Read(_ context.Context, a *Artifact) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[a.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, a.Name)
	}
	return append([]byte(nil), b...), nil
}

func (m *MemoryStore) Replace(_ context.Context, old *Artifact, content []byte, generatedAt time.Time) (*Artifact, error) {
	next := &Artifact{Name: Name(generatedAt), GeneratedAt: generatedAt.UTC()}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[next.Name] = append([]byte(nil), content...)
	if old != nil && old.Name != next.Name {
		delete(m.files, old.Name)
	}
	return next, nil
}
