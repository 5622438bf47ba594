package models

// PlaylistEntry is one item as enumerated by the extraction tool.
// Entries are ephemeral: they only live for the duration of a run.
type PlaylistEntry struct {
	ID          string
	Title       string
	Description string
	UploadDate  string // upstream upload date, yt-dlp style YYYYMMDD
	Duration    int64  // seconds
	Thumbnail   string
	URL         string
}

// Playlist is the result of a single enumeration, in tool order.
type Playlist struct {
	Title   string
	URL     string
	Entries []PlaylistEntry
}
