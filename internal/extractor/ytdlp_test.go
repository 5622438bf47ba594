package extractor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playcast/internal/models"
)

// mockExec reroutes the yt-dlp invocation into TestHelperProcess with
// the given mode, restoring the real exec on cleanup.
func mockExec(t *testing.T, mode string) {
	t.Helper()
	original := execCommandContext
	t.Cleanup(func() { execCommandContext = original })
	execCommandContext = func(ctx context.Context, name string, arg ...string) *exec.Cmd {
		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, arg...)
		cmd := exec.Command(os.Args[0], cs...)
		cmd.Env = []string{
			"GO_WANT_HELPER_PROCESS=1",
			"HELPER_MODE=" + mode,
			"YT_DLP_ARGS=" + strings.Join(arg, " "),
		}
		return cmd
	}
}

func testYtDlp() *YtDlp {
	return NewYtDlp("yt-dlp", log.New(io.Discard))
}

func TestEnumerate(t *testing.T) {
	mockExec(t, "playlist")

	pl, err := testYtDlp().Enumerate(context.Background(), "https://example.com/playlist", 30, nil)
	require.NoError(t, err)

	assert.Equal(t, "Test Playlist", pl.Title)
	assert.Equal(t, "https://example.com/playlist", pl.URL)
	require.Len(t, pl.Entries, 2)

	first := pl.Entries[0]
	assert.Equal(t, "video1", first.ID)
	assert.Equal(t, "Video One", first.Title)
	assert.Equal(t, int64(706), first.Duration)
	assert.Equal(t, "https://example.com/watch/video1", first.URL)
	assert.Equal(t, "20220206", first.UploadDate)

	// Tool order is preserved as-is.
	assert.Equal(t, "video2", pl.Entries[1].ID)
}

func TestEnumerateDegeneratePlaylist(t *testing.T) {
	mockExec(t, "degenerate")

	_, err := testYtDlp().Enumerate(context.Background(), "https://example.com/channel", 30, nil)
	assert.ErrorIs(t, err, ErrDegeneratePlaylist)
}

func TestEnumerateToolFailure(t *testing.T) {
	mockExec(t, "fail")

	_, err := testYtDlp().Enumerate(context.Background(), "https://example.com/playlist", 30, nil)
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestEnumerateGarbageOutput(t *testing.T) {
	mockExec(t, "garbage")

	_, err := testYtDlp().Enumerate(context.Background(), "https://example.com/playlist", 30, nil)
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestEnumeratePassesThroughArgs(t *testing.T) {
	// The helper only succeeds when the pass-through flags and the
	// playlist-end limit made it onto the command line verbatim.
	mockExec(t, "check-args")

	_, err := testYtDlp().Enumerate(context.Background(), "https://example.com/playlist", 5, []string{"--cookies", "c.txt"})
	require.NoError(t, err)
}

func TestDownload(t *testing.T) {
	mockExec(t, "download")
	dir := t.TempDir()

	// The tool is mocked, so plant the media file it would have written.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "video1.mp4"), []byte("media bytes"), 0o644))

	res, err := testYtDlp().Download(context.Background(), "https://example.com/watch/video1", dir, models.FormatVideo, nil)
	require.NoError(t, err)

	assert.Equal(t, "video1.mp4", res.File)
	assert.Equal(t, int64(len("media bytes")), res.Size)
	assert.Equal(t, int64(706), res.Duration)
	assert.Equal(t, "Video One", res.Title)
}

func TestDownloadFailure(t *testing.T) {
	mockExec(t, "fail")

	_, err := testYtDlp().Download(context.Background(), "https://example.com/watch/video1", t.TempDir(), models.FormatVideo, nil)
	assert.Error(t, err)
}

func TestDownloadMissingFile(t *testing.T) {
	mockExec(t, "download")

	// Tool "succeeded" but nothing landed on disk.
	_, err := testYtDlp().Download(context.Background(), "https://example.com/watch/video1", t.TempDir(), models.FormatVideo, nil)
	assert.Error(t, err)
}

// TestHelperProcess isn't a real test. It stands in for yt-dlp when the
// exec seam is mocked.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("HELPER_MODE") {
	case "playlist":
		fmt.Println(`{"title": "Test Playlist", "webpage_url": "https://example.com/playlist", "entries": [` +
			`{"id": "video1", "title": "Video One", "description": "First", "duration": 706, "thumbnail": "https://example.com/t1.jpg", "webpage_url": "https://example.com/watch/video1", "upload_date": "20220206"},` +
			`{"id": "video2", "title": "Video Two", "duration": 120, "url": "https://example.com/watch/video2"}]}`)
		os.Exit(0)
	case "degenerate":
		fmt.Println(`{"title": "Channel Tab", "entries": [` +
			`{"id": "video1", "title": "Video One", "duration": 0},` +
			`{"id": "video2", "title": "Video Two"}]}`)
		os.Exit(0)
	case "download":
		fmt.Println(`WARNING: something harmless`)
		fmt.Println(`{"id": "video1", "title": "Video One", "description": "First", "duration": 706.4, "_filename": "video1.f137.mp4"}`)
		os.Exit(0)
	case "garbage":
		fmt.Println("not json at all")
		os.Exit(0)
	case "check-args":
		args := os.Getenv("YT_DLP_ARGS")
		if !strings.Contains(args, "--cookies c.txt") || !strings.Contains(args, "--playlist-end 5") {
			fmt.Println("ERROR: args not forwarded")
			os.Exit(1)
		}
		fmt.Println(`{"title": "Test Playlist", "entries": [{"id": "x", "title": "x", "duration": 1}]}`)
		os.Exit(0)
	case "fail":
		fmt.Println("ERROR: oh no")
		os.Exit(1)
	}
	os.Exit(1)
}
