// Package artifact persists the generated sitemap. The generation time is
// encoded in the artifact name and is the only staleness clock.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	namePrefix = "sitemap-"
	nameSuffix = ".xml"

	// TimeLayout is ISO-8601 with microseconds and a numeric UTC offset.
	TimeLayout = "2006-01-02T15:04:05.000000-07:00"
)

var (
	ErrMalformedName = errors.New("malformed sitemap artifact name")
	ErrNotFound      = errors.New("sitemap artifact not found")
)

// Artifact identifies one stored sitemap.
type Artifact struct {
	Name        string
	GeneratedAt time.Time
}

// Store is the artifact cache index. FindCurrent returns nil, nil when no
// artifact exists. When several exist only the first in name order is
// reported; the rest are left untouched.
type Store interface {
	FindCurrent(ctx context.Context) (*Artifact, error)
	Read(ctx context.Context, a *Artifact) ([]byte, error)
	// Replace stores content as a new artifact generated at generatedAt and
	// removes old, if given.
	Replace(ctx context.Context, old *Artifact, content []byte, generatedAt time.Time) (*Artifact, error)
}

// Name returns the artifact name for a generation time.
func Name(generatedAt time.Time) string {
	return namePrefix + generatedAt.UTC().Format(TimeLayout) + nameSuffix
}

// IsName reports whether name follows the artifact naming pattern. It does
// not validate the timestamp.
func IsName(name string) bool {
	return strings.HasPrefix(name, namePrefix) && strings.HasSuffix(name, nameSuffix)
}

// Parse extracts the generation time from an artifact name.
func Parse(name string) (*Artifact, error) {
	if !IsName(name) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedName, name)
	}
	ts := strings.TrimSuffix(strings.TrimPrefix(name, namePrefix), nameSuffix)
	t, err := time.Parse(TimeLayout, ts)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMalformedName, name, err)
	}
	return &Artifact{Name: name, GeneratedAt: t.UTC()}, nil
}

// Age is the time elapsed between generation and now.
func (a *Artifact) Age(now time.Time) time.Duration {
	return now.Sub(a.GeneratedAt)
}
