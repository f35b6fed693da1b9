// Command feedcomb is a demo entrypoint wiring the core pipeline
// end-to-end: load a YAML feed config, register feeds with the updater,
// run the poller loop, and run the handle.Server an (external, non-goal)
// serving surface would query through a handle.Client; this demo does not
// keep the client itself. Flag parsing follows the teacher's
// app/cfg package's jessevdk/go-flags idiom.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/lysyi3m/feedcomb/app/aggregate"
	"github.com/lysyi3m/feedcomb/app/config"
	"github.com/lysyi3m/feedcomb/app/feedsrc"
	"github.com/lysyi3m/feedcomb/app/handle"
	"github.com/lysyi3m/feedcomb/app/logger"
	"github.com/lysyi3m/feedcomb/app/store"
	"github.com/lysyi3m/feedcomb/app/updater"
	"github.com/lysyi3m/feedcomb/app/version"
)

type options struct {
	ConfigPath string `long:"config" env:"FEEDCOMB_CONFIG" default:"./feedcomb.yml" description:"Path to the feed configuration YAML file"`
	Database   string `long:"database" env:"FEEDCOMB_DATABASE" default:"./feedcomb.db" description:"Path to the SQLite index file"`
	Debug      bool   `long:"debug" env:"FEEDCOMB_DEBUG" description:"Enable debug logging"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}

	logger.Initialize(opts.Debug)
	slog.Info("starting feedcomb", "version", version.GetVersion())

	cfg, err := config.YAMLLoader{}.Load(opts.ConfigPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	dbPath := cfg.Database
	if dbPath == "" {
		dbPath = opts.Database
	}
	st, err := store.Open(dbPath)
	if err != nil {
		slog.Error("opening store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	freq := 30 * time.Minute
	if cfg.Freq != nil {
		freq = cfg.Freq.AsDuration()
	}
	workers := 8
	if cfg.Workers > 0 {
		workers = cfg.Workers
	}
	upd := updater.New(freq, workers, 500)
	world := aggregate.NewWorld()

	if _, err := config.Register(cfg, upd, world); err != nil {
		slog.Error("registering feeds", "error", err)
		os.Exit(1)
	}

	extractor := feedsrc.NewContentExtractor(10*time.Second, "")

	globalFilters := config.BuildFilters(cfg.GlobalFilters)
	allFilters := config.BuildFilters(cfg.AllFilters)
	server, _ := handle.NewServer(st, upd, globalFilters, allFilters)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go server.Run(ctx)
	runPoller(ctx, upd, st, extractor)
}

// extractionThreshold is the converted-content length below which the
// poller queues a best-effort full-article extraction for an entry.
const extractionThreshold = 200

// runPoller loops calling updater.Update and persisting each cycle's
// results, per spec §5's "poller" task: it is not cancelled mid-cycle, only
// aborted on final shutdown, so a cycle in flight when ctx is cancelled is
// still persisted before this loop exits. Entries with thin content queue
// a background extraction (spec §4.9) that updates the row later without
// blocking this loop.
func runPoller(ctx context.Context, upd *updater.Updater, st *store.Store, extractor feedsrc.Extractor) {
	for {
		upd.Update(ctx)
		entries := upd.Entries()
		for _, entry := range entries.Slice() {
			id, err := st.Insert(entry)
			if err != nil {
				logger.StoreError("persisting entry "+entry.Title(), err)
				continue
			}
			if id != 0 && len(entry.Content()) < extractionThreshold && entry.Source().URL != "" {
				go extractContent(extractor, st, id, entry.Source().URL)
			}
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func extractContent(extractor feedsrc.Extractor, st *store.Store, id int64, sourceURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	content, err := extractor.Extract(ctx, sourceURL)
	if err != nil {
		logger.FeedError(fmt.Sprintf("entry %d", id), "content extraction", err)
		return
	}
	if err := st.UpdateContent(id, content); err != nil {
		logger.StoreError(fmt.Sprintf("updating extracted content for entry %d", id), err)
	}
}
