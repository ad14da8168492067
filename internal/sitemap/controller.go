package sitemap

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/romangod6/catalog-sitemap/internal/artifact"
	"github.com/romangod6/catalog-sitemap/internal/utils"
)

// DefaultMaxAge is how long a stored sitemap is served before rebuilding.
const DefaultMaxAge = 8 * time.Hour

// Outcome tells how a Resolve call produced its body.
type Outcome string

const (
	OutcomeCached   Outcome = "hit"
	OutcomeCreated  Outcome = "miss"
	OutcomeReplaced Outcome = "replaced"
)

// DocumentBuilder produces a serialized sitemap.
type DocumentBuilder interface {
	BuildXML(ctx context.Context) ([]byte, error)
}

type Result struct {
	Body     []byte
	Outcome  Outcome
	Artifact *artifact.Artifact
}

// Status describes the stored artifact without touching it.
type Status struct {
	Artifact *artifact.Artifact
	Age      time.Duration
	Fresh    bool
}

type Controller struct {
	store   artifact.Store
	builder DocumentBuilder
	maxAge  time.Duration
	now     func() time.Time
	logger  utils.Logger

	// buildTimeout bounds a rebuild; 0 means no limit.
	buildTimeout time.Duration

	flight singleflight.Group
}

type ControllerOption func(*Controller)

// WithMaxAge sets the freshness threshold.
func WithMaxAge(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.maxAge = d
		}
	}
}

// WithBuildTimeout bounds how long a single rebuild may run.
func WithBuildTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) { c.buildTimeout = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

func WithLogger(l utils.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

func NewController(store artifact.Store, builder DocumentBuilder, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:   store,
		builder: builder,
		maxAge:  DefaultMaxAge,
		now:     time.Now,
		logger:  utils.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) MaxAge() time.Duration {
	return c.maxAge
}

// Resolve serves the stored sitemap while it is no older than the max age
// and rebuilds it otherwise. A malformed artifact name is returned as an
// error; it is not repaired.
func (c *Controller) Resolve(ctx context.Context) (*Result, error) {
	cur, err := c.store.FindCurrent(ctx)
	if err != nil {
		return nil, fmt.Errorf("find sitemap: %w", err)
	}

	if cur == nil {
		c.logger.LogInfo("no sitemap.xml file found, creating new one")
		return c.rebuild(ctx, nil, OutcomeCreated)
	}

	c.logger.LogInfo("sitemap.xml found %s, checking if it's outdated", cur.GeneratedAt.Format(artifact.TimeLayout))
	if c.isStale(cur) {
		c.logger.LogInfo("sitemap.xml found %s, but it is outdated", cur.GeneratedAt.Format(artifact.TimeLayout))
		return c.rebuild(ctx, cur, OutcomeReplaced)
	}

	c.logger.LogInfo("sitemap.xml found %s, no update needed", cur.GeneratedAt.Format(artifact.TimeLayout))
	body, err := c.store.Read(ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("read sitemap %s: %w", cur.Name, err)
	}
	return &Result{Body: body, Outcome: OutcomeCached, Artifact: cur}, nil
}

// Rebuild regenerates the sitemap regardless of its age.
func (c *Controller) Rebuild(ctx context.Context) (*Result, error) {
	cur, err := c.store.FindCurrent(ctx)
	if err != nil {
		return nil, fmt.Errorf("find sitemap: %w", err)
	}
	outcome := OutcomeReplaced
	if cur == nil {
		outcome = OutcomeCreated
	}
	return c.rebuild(ctx, cur, outcome)
}

// Status reports the stored artifact and its freshness. Artifact is nil
// when none is stored.
func (c *Controller) Status(ctx context.Context) (*Status, error) {
	cur, err := c.store.FindCurrent(ctx)
	if err != nil {
		return nil, fmt.Errorf("find sitemap: %w", err)
	}
	if cur == nil {
		return &Status{}, nil
	}
	return &Status{
		Artifact: cur,
		Age:      cur.Age(c.now().UTC()),
		Fresh:    !c.isStale(cur),
	}, nil
}

// isStale is strict: an artifact exactly maxAge old is still fresh.
func (c *Controller) isStale(a *artifact.Artifact) bool {
	return a.Age(c.now().UTC()) > c.maxAge
}

// rebuild builds and stores a new artifact. Concurrent callers share one
// build.
func (c *Controller) rebuild(ctx context.Context, old *artifact.Artifact, outcome Outcome) (*Result, error) {
	v, err, shared := c.flight.Do("rebuild", func() (interface{}, error) {
		// The build is shared by every waiting caller, so one caller going
		// away must not cancel it for the others.
		ctx := context.WithoutCancel(ctx)
		if c.buildTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.buildTimeout)
			defer cancel()
		}

		// A caller that looked before the previous flight finished would
		// otherwise rebuild a second time.
		latest, err := c.store.FindCurrent(ctx)
		if err != nil {
			return nil, fmt.Errorf("find sitemap: %w", err)
		}
		if latest != nil && !sameArtifact(latest, old) && !c.isStale(latest) {
			body, err := c.store.Read(ctx, latest)
			if err != nil {
				return nil, fmt.Errorf("read sitemap %s: %w", latest.Name, err)
			}
			return &Result{Body: body, Outcome: OutcomeCached, Artifact: latest}, nil
		}

		body, err := c.builder.BuildXML(ctx)
		if err != nil {
			return nil, fmt.Errorf("build sitemap: %w", err)
		}

		generatedAt := c.now().UTC()
		c.logger.LogInfo("Creating new sitemap.xml file: %s", artifact.Name(generatedAt))
		if old != nil {
			c.logger.LogInfo("Removing sitemap.xml file: %s", old.Name)
		}
		next, err := c.store.Replace(ctx, old, body, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("store sitemap: %w", err)
		}
		return &Result{Body: body, Outcome: outcome, Artifact: next}, nil
	})
	if err != nil {
		c.logger.LogError("sitemap rebuild failed: %v", err)
		return nil, err
	}
	if shared {
		c.logger.LogDebug("sitemap rebuild shared with a concurrent request")
	}
	return v.(*Result), nil
}

func sameArtifact(a, b *artifact.Artifact) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name
}
