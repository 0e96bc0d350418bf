package dlog

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Archiver moves the previous day's log files into a dated subdirectory and
// truncates the live files. Process is driven by the cron set up in Setup.
type Archiver struct {
	Dir string
}

func (a *Archiver) Process() {
	Info("Started archive process")
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	archiveDir := filepath.Join(a.Dir, yesterday)
	tmp := archiveDir
	counter := 1
	err := os.Mkdir(archiveDir, 0755)
	for os.IsExist(err) {
		archiveDir = tmp + "-" + strconv.Itoa(counter)
		counter++
		err = os.Mkdir(archiveDir, 0755)
	}
	if err != nil {
		Error("Failed to create archive directory", "dir", archiveDir, "err", err)
		return
	}

	dir, err := os.ReadDir(a.Dir)
	if err != nil {
		Error("Failed to read log directory", "dir", a.Dir, "err", err)
		return
	}

	for _, entry := range dir {
		if !entry.Type().IsRegular() {
			continue
		}
		written, err := copyFile(filepath.Join(archiveDir, entry.Name()), filepath.Join(a.Dir, entry.Name()))
		if err != nil {
			Error("Failed to archive log", "fileName", entry.Name(), "err", err)
			continue
		}
		Info("Copied log", "fileName", entry.Name(), "written", written)

		if err := os.Truncate(filepath.Join(a.Dir, entry.Name()), 0); err != nil {
			Error("Failed to truncate file", "fileName", entry.Name(), "err", err)
		}
	}
}

func copyFile(dst, src string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	return io.Copy(out, in)
}
