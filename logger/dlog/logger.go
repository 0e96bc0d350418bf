package dlog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/robfig/cron/v3"
	slogmulti "github.com/samber/slog-multi"
)

var Log *slog.Logger

func init() {
	// stdout-only logger until Setup is called, so library code and tests
	// can log without a logs directory.
	Log = slog.New(NewPrettyHandler(os.Stdout, &slog.HandlerOptions{}))
}

func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// Setup switches the package logger to a fanout of a colorized pretty
// handler (stdout + pretty.log) and a JSON file handler, and schedules the
// archiver when archiveCron is non-empty.
func Setup(dir string, archiveCron string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	opts := &slog.HandlerOptions{AddSource: true}

	filePretty, err := os.OpenFile(filepath.Join(dir, "pretty.log"), os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}
	fileJson, err := os.OpenFile(filepath.Join(dir, "default.json"), os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}

	Log = slog.New(slogmulti.Fanout(
		NewPrettyHandler(io.MultiWriter(os.Stdout, filePretty), opts),
		slog.NewJSONHandler(fileJson, opts),
	))

	if archiveCron != "" {
		archiver := &Archiver{Dir: dir}
		c := cron.New()
		entryID, err := c.AddFunc(archiveCron, archiver.Process)
		if err != nil {
			return err
		}
		c.Start()
		Info("Created archive cron ", "entryID", entryID)
	}
	return nil
}
