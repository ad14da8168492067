package sitemap

import (
	"context"
	"time"

	"github.com/romangod6/catalog-sitemap/internal/utils"
)

// Refresher resolves the sitemap on a fixed interval so that stale
// artifacts are usually replaced before a request arrives.
type Refresher struct {
	controller *Controller
	every      time.Duration
	logger     utils.Logger
}

func NewRefresher(c *Controller, every time.Duration, logger utils.Logger) *Refresher {
	if logger == nil {
		logger = utils.Discard()
	}
	return &Refresher{controller: c, every: every, logger: logger}
}

// Run blocks until ctx is cancelled. A refresh in progress when that
// happens is finished first, so the stores may be closed once Run returns.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	r.logger.LogDebug("Starting periodic sitemap refresh...")
	res, err := r.controller.Resolve(ctx)
	if err != nil {
		r.logger.LogError("Periodic sitemap refresh failed: %v", err)
		return
	}
	if res.Outcome != OutcomeCached {
		r.logger.LogInfo("Periodic refresh wrote %s", res.Artifact.Name)
	}
}
