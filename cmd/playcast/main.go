package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"playcast/internal/config"
	"playcast/internal/download"
	"playcast/internal/extractor"
	"playcast/internal/feed"
	"playcast/internal/models"
	"playcast/internal/store"
	"playcast/internal/syncer"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	app := newApp(logger)
	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("%v", err)
	}
}

func newApp(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:      "playcast",
		Usage:     "Turn any playlist into a podcast feed",
		ArgsUsage: "<feed-file> <base-url> [downloader args...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "playlist-url",
				Usage: "Playlist to sync. Required for a new feed; an existing feed's link is used otherwise",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of playlist entries to enumerate",
				Value: 30,
			},
			&cli.IntFlag{
				Name:  "keep",
				Usage: "Prune the feed down to this many episodes after sync (0 keeps everything)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Media format: video or audio",
				Value: string(models.FormatVideo),
			},
			&cli.StringFlag{
				Name:  "incomplete",
				Usage: "Episodes without media: keep, skip or fail",
				Value: string(feed.IncompleteKeep),
			},
			&cli.BoolFlag{
				Name:  "no-write",
				Usage: "Print the feed to stdout instead of writing the feed file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd, logger)
		},
	}
}

func run(ctx context.Context, cmd *cli.Command, logger *log.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	args := cmd.Args().Slice()
	if len(args) < 2 {
		return errors.New("need a feed file and a base URL (playcast <feed-file> <base-url>)")
	}
	feedPath, baseURL := args[0], args[1]
	extraArgs := args[2:]

	format, err := models.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	policy, err := feed.ParsePolicy(cmd.String("incomplete"))
	if err != nil {
		return err
	}

	channel, err := store.Load(feedPath)
	if err != nil {
		return err
	}
	if channel == nil {
		channel = &models.Channel{}
	}

	playlistURL := cmd.String("playlist-url")
	if playlistURL == "" {
		playlistURL = channel.Link
	}
	if playlistURL == "" {
		return fmt.Errorf("no existing feed at %s; --playlist-url is required", feedPath)
	}

	ytdlp := extractor.NewYtDlp(cfg.YtDlpPath, logger)

	playlist, err := ytdlp.Enumerate(ctx, playlistURL, cmd.Int("limit"), extraArgs)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	res, err := syncer.Merge(channel, playlist, now)
	if err != nil {
		if errors.Is(err, syncer.ErrEmptyExtraction) {
			logger.Warn("playlist returned no entries, leaving feed untouched", "url", playlistURL)
			return nil
		}
		return err
	}
	logger.Info("merged playlist",
		"new", len(res.New), "known", res.Known, "total", len(channel.Episodes))

	orch := download.New(ytdlp, logger, cfg.DownloadInterval)
	if failed := orch.Run(ctx, store.MediaDir(feedPath), channel.Episodes, format, extraArgs); failed > 0 {
		logger.Warn("some downloads failed, their episodes stay without enclosures", "failed", failed)
	}

	if dropped := syncer.Prune(channel, cmd.Int("keep")); dropped > 0 {
		logger.Info("pruned old episodes", "dropped", dropped)
	}

	doc, err := feed.Generate(channel, feed.Options{BaseURL: baseURL, Incomplete: policy})
	if err != nil {
		return err
	}

	if cmd.Bool("no-write") {
		return store.Write(os.Stdout, doc)
	}
	if err := store.WriteFile(feedPath, doc); err != nil {
		return err
	}
	logger.Info("feed written", "path", feedPath, "episodes", len(channel.Episodes))
	return nil
}
