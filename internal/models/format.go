package models

import "fmt"

// Format selects what the downloader produces for each episode.
type Format string

const (
	FormatVideo = Format("video")
	FormatAudio = Format("audio")
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatVideo:
		return FormatVideo, nil
	case FormatAudio:
		return FormatAudio, nil
	}
	return "", fmt.Errorf("unknown format %q (want %q or %q)", s, FormatVideo, FormatAudio)
}

func (f Format) Ext() string {
	if f == FormatAudio {
		return "m4a"
	}
	return "mp4"
}

func (f Format) MIMEType() string {
	if f == FormatAudio {
		return "audio/x-m4a"
	}
	return "video/mp4"
}
