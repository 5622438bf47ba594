package models

import "time"

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Episode is the persisted, feed-visible form of one playlist entry.
// ID doubles as the feed GUID and never changes once the episode exists.
type Episode struct {
	ID          string
	Title       string
	Description string
	PublishedAt time.Time
	Duration    int64 // seconds
	Thumbnail   string
	Link        string // source page URL
	MediaFile   string // file name inside the media directory
	Size        int64  // bytes
	MIMEType    string
	Status      string
}

// Complete reports whether the episode has everything an enclosure needs.
func (e *Episode) Complete() bool {
	return e.MediaFile != "" && e.Size > 0
}
