// Package syncer reconciles the loaded feed state with a fresh playlist
// enumeration. It decides what is new and leaves everything else alone.
package syncer

import (
	"errors"
	"fmt"
	"time"

	"playcast/internal/models"
)

// ErrEmptyExtraction means the enumeration returned nothing. The channel
// is left untouched: an empty upstream response must never be read as
// "everything was removed".
var ErrEmptyExtraction = errors.New("extractor returned no entries")

// Result describes one merge pass.
type Result struct {
	// New holds the episodes created this run, in extractor order.
	// They are the download work list.
	New   []*models.Episode
	Known int
}

// Merge folds a playlist enumeration into the channel. Entries already
// present keep their episode's identity and publish time untouched;
// unseen entries become pending episodes stamped with now (discovery
// time, so clients never re-sort items they have already seen) and are
// prepended as a block, preserving extractor order among themselves.
// Episodes missing from the enumeration are retained.
func Merge(ch *models.Channel, pl *models.Playlist, now time.Time) (*Result, error) {
	if len(pl.Entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyExtraction, pl.URL)
	}

	// Channel metadata is only ever filled in, never overwritten: an
	// existing feed keeps whatever it was published with.
	if ch.Link == "" {
		ch.Link = pl.URL
	}
	if ch.Title == "" {
		ch.Title = pl.Title
		if ch.Title == "" {
			ch.Title = pl.URL
		}
	}
	if ch.Description == "" {
		ch.Description = fmt.Sprintf("Podcast feed for %s", ch.Title)
	}

	idx := ch.Index()
	res := &Result{}

	for _, entry := range pl.Entries {
		if _, ok := idx[entry.ID]; ok {
			res.Known++
			continue
		}
		ep := &models.Episode{
			ID:          entry.ID,
			Title:       entry.Title,
			Description: entry.Description,
			PublishedAt: now,
			Duration:    entry.Duration,
			Thumbnail:   entry.Thumbnail,
			Link:        entry.URL,
			Status:      models.StatusPending,
		}
		idx[ep.ID] = ep
		res.New = append(res.New, ep)
	}

	ch.Episodes = append(res.New, ch.Episodes...)

	return res, nil
}

// Prune caps the channel at keep episodes, dropping the oldest beyond
// the cap. keep <= 0 disables pruning, which is the default policy.
func Prune(ch *models.Channel, keep int) int {
	if keep <= 0 || len(ch.Episodes) <= keep {
		return 0
	}
	dropped := len(ch.Episodes) - keep
	ch.Episodes = ch.Episodes[:keep]
	return dropped
}
