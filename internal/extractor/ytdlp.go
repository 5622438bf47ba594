package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"

	"playcast/internal/models"
)

// Swapped out in tests.
var execCommandContext = exec.CommandContext

// Format selector matching what podcast clients can actually play.
const videoFormatSelector = "bestvideo[ext=mp4][vcodec^=avc1]+bestaudio[ext=m4a]/best[ext=mp4][vcodec^=avc1]/best[ext=mp4]/best"

// YtDlp invokes a yt-dlp compatible binary. It implements both
// Enumerator and Downloader.
type YtDlp struct {
	path string
	log  *log.Logger
}

func NewYtDlp(path string, logger *log.Logger) *YtDlp {
	if path == "" {
		path = "yt-dlp"
	}
	return &YtDlp{path: path, log: logger}
}

type playlistDump struct {
	Title      string `json:"title"`
	WebpageURL string `json:"webpage_url"`
	Entries    []struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Duration    float64 `json:"duration"`
		Thumbnail   string  `json:"thumbnail"`
		URL         string  `json:"url"`
		WebpageURL  string  `json:"webpage_url"`
		UploadDate  string  `json:"upload_date"`
	} `json:"entries"`
}

// Enumerate runs a flat-playlist dump and normalizes it into entries,
// preserving tool order. extraArgs are passed through verbatim.
func (y *YtDlp) Enumerate(ctx context.Context, url string, limit int, extraArgs []string) (*models.Playlist, error) {
	args := []string{"--flat-playlist", "-J"}
	if limit > 0 {
		args = append(args, "--playlist-end", strconv.Itoa(limit))
	}
	args = append(args, extraArgs...)
	args = append(args, url)

	y.log.Debug("enumerating playlist", "url", url, "limit", limit)

	cmd := execCommandContext(ctx, y.path, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v: %s", ErrExtraction, y.path, err, tail(output))
	}

	dump, err := decodeDump(output)
	if err != nil {
		return nil, err
	}

	playlist := &models.Playlist{Title: dump.Title, URL: dump.WebpageURL}
	if playlist.URL == "" {
		playlist.URL = url
	}

	zero := 0
	for _, e := range dump.Entries {
		if e.ID == "" {
			continue
		}
		pageURL := e.WebpageURL
		if pageURL == "" {
			pageURL = e.URL
		}
		if e.Duration == 0 {
			zero++
		}
		playlist.Entries = append(playlist.Entries, models.PlaylistEntry{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			UploadDate:  e.UploadDate,
			Duration:    int64(e.Duration),
			Thumbnail:   e.Thumbnail,
			URL:         pageURL,
		})
	}

	// A playlist where literally nothing has a duration is the signature
	// of a channel-tab listing, not a transient upstream hiccup.
	if len(playlist.Entries) > 0 && zero == len(playlist.Entries) {
		return nil, fmt.Errorf("%w: %s", ErrDegeneratePlaylist, url)
	}

	y.log.Debug("enumerated playlist", "title", playlist.Title, "entries", len(playlist.Entries))

	return playlist, nil
}

// Download fetches one entry's media into destDir and reports the tool's
// metadata for it. Failures here are per-item and left to the caller.
func (y *YtDlp) Download(ctx context.Context, pageURL, destDir string, format models.Format, extraArgs []string) (*DownloadResult, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}

	var args []string
	if format == models.FormatAudio {
		args = append(args, "-x", "--audio-format", "m4a")
	} else {
		args = append(args, "--format", videoFormatSelector)
	}
	args = append(args,
		"--no-progress",
		"--no-overwrites",
		"--print-json",
		"-o", filepath.Join(destDir, "%(id)s.%(ext)s"),
	)
	args = append(args, extraArgs...)
	args = append(args, pageURL)

	y.log.Debug("downloading media", "url", pageURL, "dir", destDir)

	cmd := execCommandContext(ctx, y.path, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %s", y.path, err, tail(output))
	}

	var meta struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Duration    float64 `json:"duration"`
		Thumbnail   string  `json:"thumbnail"`
		Filename    string  `json:"_filename"`
	}
	idx := bytes.IndexByte(output, '{')
	if idx < 0 {
		return nil, fmt.Errorf("no JSON in downloader output: %s", tail(output))
	}
	if err := json.Unmarshal(output[idx:], &meta); err != nil {
		return nil, fmt.Errorf("unmarshal downloader output: %w", err)
	}

	// The printed filename predates post-processing, so trust the output
	// template over it and fall back only if the stat misses.
	file := meta.ID + "." + format.Ext()
	info, err := os.Stat(filepath.Join(destDir, file))
	if err != nil && meta.Filename != "" {
		file = filepath.Base(meta.Filename)
		info, err = os.Stat(filepath.Join(destDir, file))
	}
	if err != nil {
		return nil, fmt.Errorf("stat downloaded media: %w", err)
	}

	return &DownloadResult{
		File:        file,
		Size:        info.Size(),
		Duration:    int64(meta.Duration),
		Title:       meta.Title,
		Description: meta.Description,
		Thumbnail:   meta.Thumbnail,
	}, nil
}

func decodeDump(output []byte) (*playlistDump, error) {
	// yt-dlp sometimes prints warnings before the JSON document.
	idx := bytes.IndexByte(output, '{')
	if idx < 0 {
		return nil, fmt.Errorf("%w: no JSON in tool output: %s", ErrExtraction, tail(output))
	}
	var dump playlistDump
	if err := json.Unmarshal(output[idx:], &dump); err != nil {
		return nil, fmt.Errorf("%w: unmarshal tool output: %v", ErrExtraction, err)
	}
	return &dump, nil
}

func tail(output []byte) string {
	const max = 400
	s := string(bytes.TrimSpace(output))
	if len(s) > max {
		s = "..." + s[len(s)-max:]
	}
	return s
}
