// Package extractor wraps the external yt-dlp compatible tool behind two
// small capability interfaces so the sync engine never touches a process.
package extractor

import (
	"context"
	"errors"

	"playcast/internal/models"
)

var (
	// ErrExtraction means the external tool failed or produced output
	// that does not match the expected schema.
	ErrExtraction = errors.New("playlist extraction failed")

	// ErrDegeneratePlaylist means every enumerated entry reported a zero
	// duration. That is what a channel-tab URL looks like through
	// yt-dlp, so the URL is almost certainly not a real playlist.
	ErrDegeneratePlaylist = errors.New("all playlist entries have zero duration")
)

// Enumerator lists the current contents of a playlist.
type Enumerator interface {
	Enumerate(ctx context.Context, url string, limit int, extraArgs []string) (*models.Playlist, error)
}

// Downloader fetches one entry's media into destDir.
type Downloader interface {
	Download(ctx context.Context, pageURL, destDir string, format models.Format, extraArgs []string) (*DownloadResult, error)
}

// DownloadResult is the metadata the tool reports for a finished download.
type DownloadResult struct {
	File        string // file name inside destDir
	Size        int64
	Duration    int64
	Title       string
	Description string
	Thumbnail   string
}
