// Package feed renders channel state into a podcast RSS document.
// Rendering is a pure function of the channel: the same state always
// produces byte-identical output, which is what makes repeated runs
// against an unchanged playlist idempotent.
package feed

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eduncan911/podcast"

	"playcast/internal/models"
)

// ErrIncompleteEpisode means an episode lacks the enclosure metadata the
// feed schema requires, under the fail policy.
var ErrIncompleteEpisode = errors.New("episode lacks enclosure metadata")

// IncompletePolicy decides what happens to episodes without media.
type IncompletePolicy string

const (
	// IncompleteKeep renders a link-only item so the episode's GUID and
	// publish time survive until a later run completes the download.
	IncompleteKeep = IncompletePolicy("keep")
	// IncompleteSkip omits the episode from the rendered feed.
	IncompleteSkip = IncompletePolicy("skip")
	// IncompleteFail aborts rendering.
	IncompleteFail = IncompletePolicy("fail")
)

// ParsePolicy validates a user-supplied policy name.
func ParsePolicy(s string) (IncompletePolicy, error) {
	switch IncompletePolicy(s) {
	case IncompleteKeep, IncompleteSkip, IncompleteFail:
		return IncompletePolicy(s), nil
	}
	return "", fmt.Errorf("unknown incomplete policy %q (want %q, %q or %q)",
		s, IncompleteKeep, IncompleteSkip, IncompleteFail)
}

type Options struct {
	// BaseURL is the server root that enclosure URLs hang off.
	BaseURL    string
	Incomplete IncompletePolicy
}

// Generate renders the channel, newest episode first.
func Generate(ch *models.Channel, opts Options) (string, error) {
	if opts.Incomplete == "" {
		opts.Incomplete = IncompleteKeep
	}
	base := strings.TrimRight(opts.BaseURL, "/")

	// Channel dates come from episode state, never the wall clock.
	var newest time.Time
	for _, ep := range ch.Episodes {
		if ep.PublishedAt.After(newest) {
			newest = ep.PublishedAt
		}
	}

	p := podcast.New(ch.Title, ch.Link, ch.Description, &newest, &newest)
	if newest.IsZero() {
		// The library falls back to time.Now for zero dates.
		p.PubDate = ""
		p.LastBuildDate = ""
	}
	p.IAuthor = ch.Title
	p.ISubtitle = ch.Title
	p.AddSummary(ch.Description)
	p.IExplicit = "no"
	p.AddCategory("TV & Film", nil)

	for _, ep := range ch.Episodes {
		if !ep.Complete() {
			switch opts.Incomplete {
			case IncompleteSkip:
				continue
			case IncompleteFail:
				return "", fmt.Errorf("%w: %s", ErrIncompleteEpisode, ep.ID)
			}
		}

		item := podcast.Item{
			Title:       ep.Title,
			Description: ep.Description,
			Link:        ep.Link,
		}
		if item.Title == "" {
			item.Title = ep.ID
		}
		if item.Description == "" {
			// The library rejects empty descriptions.
			item.Description = item.Title
		}
		if !ep.Complete() && item.Link == "" {
			// Items without an enclosure must carry a link.
			item.Link = ch.Link
		}
		pub := ep.PublishedAt.UTC()
		if pub.IsZero() {
			pub = time.Unix(0, 0).UTC()
		}
		item.AddPubDate(&pub)
		item.IAuthor = ch.Title
		item.ISubtitle = ep.Title
		item.AddSummary(item.Description)
		item.IExplicit = "no"
		if ep.Thumbnail != "" {
			item.AddImage(ep.Thumbnail)
		}
		if ep.Duration > 0 {
			item.AddDuration(ep.Duration)
		}
		if ep.Complete() {
			item.AddEnclosure(base+"/"+ep.MediaFile, enclosureType(ep.MIMEType), ep.Size)
		}

		n, err := p.AddItem(item)
		if err != nil {
			return "", fmt.Errorf("add item %s: %w", ep.ID, err)
		}
		// AddItem overwrites GUID with the enclosure URL (or link);
		// restore the stable identifier.
		p.Items[n-1].GUID = ep.ID
	}

	return p.String(), nil
}

func enclosureType(mime string) podcast.EnclosureType {
	switch mime {
	case "audio/x-m4a":
		return podcast.M4A
	case "audio/mpeg":
		return podcast.MP3
	default:
		return podcast.MP4
	}
}
