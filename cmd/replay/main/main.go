package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"

	"github.com/bitly/go-simplejson"
	"github.com/fuad-daoud/discord-state/config"
	"github.com/fuad-daoud/discord-state/graph"
	"github.com/fuad-daoud/discord-state/http"
	"github.com/fuad-daoud/discord-state/logger/dlog"
	"github.com/fuad-daoud/discord-state/state"
)

// Replays a JSONL record stream (one {"t": "...", "d": {...}} object per
// line) through the cache, then serves the inspection endpoints.
func main() {
	cfg := config.Load()

	if err := dlog.Setup(cfg.LogDir, cfg.ArchiveCron); err != nil {
		dlog.Error("logger setup failed", "err", err)
		os.Exit(1)
	}

	cache := state.New()
	dlog.Info("cache session started", "session", cache.SessionID)

	if cfg.HasNeo4j() {
		conn, err := graph.NewConnection(context.Background(), cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			dlog.Error("graph connection failed, continuing without mirror", "err", err)
		} else {
			defer conn.Close(context.Background())
			cache.AddListener(graph.NewMirror(conn))
		}
	}

	if len(os.Args) > 1 {
		if err := replayFile(cache, os.Args[1]); err != nil {
			dlog.Error("replay failed", "file", os.Args[1], "err", err)
			os.Exit(1)
		}
	}

	go func() {
		if err := http.Setup(cfg.HTTPPort, cache); err != nil {
			dlog.Error("http server stopped", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	dlog.Info("Graceful shutdown")
}

func replayFile(cache *state.Cache, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var applied, skipped, failed int
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		js, err := simplejson.NewJson(line)
		if err != nil {
			dlog.Warn("skipping unparsable line", "err", err)
			failed++
			continue
		}
		record, ok := state.RecordFromString(js.Get("t").MustString())
		if !ok {
			skipped++
			continue
		}
		if _, err := cache.Apply(record, js.Get("d")); err != nil {
			dlog.Warn("record failed", "record", record, "err", err)
			failed++
			continue
		}
		applied++
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	dlog.Info("replay finished",
		"applied", applied,
		"skipped", skipped,
		"failed", failed,
		"guilds", len(cache.Guilds()),
	)
	return nil
}
