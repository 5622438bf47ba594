// Package download walks the episodes that still need media and fetches
// them one by one. A broken item never blocks the rest of the feed.
package download

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"playcast/internal/extractor"
	"playcast/internal/models"
)

// Orchestrator runs per-episode downloads sequentially, paced by a rate
// limiter to be gentle with the upstream platform.
type Orchestrator struct {
	dl      extractor.Downloader
	log     *log.Logger
	limiter *rate.Limiter
}

func New(dl extractor.Downloader, logger *log.Logger, interval time.Duration) *Orchestrator {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Orchestrator{
		dl:      dl,
		log:     logger,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Run downloads media for every episode that is not yet complete and
// fills in its enclosure metadata on success. It returns the number of
// failures; each failure is logged and the episode left incomplete so a
// later run can retry it.
func (o *Orchestrator) Run(ctx context.Context, destDir string, episodes []*models.Episode, format models.Format, extraArgs []string) int {
	failed := 0
	for _, ep := range episodes {
		if ep.Complete() {
			continue
		}
		if ep.Link == "" {
			o.log.Warn("episode has no source URL, cannot download", "id", ep.ID)
			ep.Status = models.StatusFailed
			failed++
			continue
		}
		if err := o.limiter.Wait(ctx); err != nil {
			o.log.Error("download pacing interrupted", "err", err)
			ep.Status = models.StatusFailed
			failed++
			continue
		}

		res, err := o.dl.Download(ctx, ep.Link, destDir, format, extraArgs)
		if err != nil {
			o.log.Error("download failed", "id", ep.ID, "err", err)
			ep.Status = models.StatusFailed
			failed++
			continue
		}

		ep.MediaFile = res.File
		ep.Size = res.Size
		ep.MIMEType = format.MIMEType()
		// Flat enumeration is sparse on metadata; backfill what the
		// full download reported without touching existing values.
		if ep.Duration == 0 {
			ep.Duration = res.Duration
		}
		if ep.Description == "" {
			ep.Description = res.Description
		}
		if ep.Thumbnail == "" {
			ep.Thumbnail = res.Thumbnail
		}
		ep.Status = models.StatusCompleted

		o.log.Info("downloaded media", "id", ep.ID, "file", res.File, "bytes", res.Size)
	}
	return failed
}
