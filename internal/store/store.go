// Package store loads and persists the feed document. The published RSS
// file is the only state this tool keeps between runs, so everything the
// sync engine needs has to round-trip through it.
package store

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"playcast/internal/models"
)

// ErrMalformedFeed means the feed file exists but cannot be parsed.
// Merging against unknown state risks silent data loss, so this is fatal.
var ErrMalformedFeed = errors.New("existing feed is not parseable")

// Load reads the feed at feedPath back into a Channel. A missing file is
// not an error: it returns (nil, nil) and the caller starts fresh.
func Load(feedPath string) (*models.Channel, error) {
	f, err := os.Open(feedPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()

	parsed, err := gofeed.NewParser().Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFeed, feedPath, err)
	}

	ch := &models.Channel{
		Title:       parsed.Title,
		Link:        parsed.Link,
		Description: parsed.Description,
	}

	for _, item := range parsed.Items {
		ep := &models.Episode{
			ID:          item.GUID,
			Title:       item.Title,
			Description: item.Description,
			Link:        item.Link,
			Status:      models.StatusPending,
		}
		if ep.ID == "" {
			ep.ID = item.Link
		}
		if item.PublishedParsed != nil {
			ep.PublishedAt = item.PublishedParsed.UTC()
		}
		if item.ITunesExt != nil {
			ep.Duration = ParseDuration(item.ITunesExt.Duration)
			ep.Thumbnail = item.ITunesExt.Image
		}
		if len(item.Enclosures) > 0 {
			enc := item.Enclosures[0]
			ep.MediaFile = enclosureFile(enc.URL)
			ep.Size, _ = strconv.ParseInt(enc.Length, 10, 64)
			ep.MIMEType = enc.Type
		}
		if ep.Complete() {
			ep.Status = models.StatusCompleted
		}
		ch.Episodes = append(ch.Episodes, ep)
	}

	return ch, nil
}

// Write hands the rendered document to an arbitrary destination, which
// in practice is stdout when the caller opted out of writing a file.
func Write(w io.Writer, doc string) error {
	_, err := io.WriteString(w, doc)
	return err
}

// WriteFile persists the rendered document atomically: the previous feed
// stays intact unless the replacement is fully on disk.
func WriteFile(feedPath, doc string) error {
	if dir := filepath.Dir(feedPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	tmp := feedPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write tmp feed: %w", err)
	}
	if err := os.Rename(tmp, feedPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace feed: %w", err)
	}
	return nil
}

// MediaDir is where media for a feed lives: a directory named after the
// feed file, next to it ("show.rss" keeps its files under "show/").
func MediaDir(feedPath string) string {
	base := filepath.Base(feedPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(feedPath), stem)
}

// ParseDuration turns an iTunes duration ("1:02:03", "11:46" or plain
// seconds) back into seconds. Unparseable input yields zero.
func ParseDuration(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	var total int64
	for _, part := range strings.Split(s, ":") {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// enclosureFile recovers the local media file name from an enclosure URL.
func enclosureFile(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(raw)
}
