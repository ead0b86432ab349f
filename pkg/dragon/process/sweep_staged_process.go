package process

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/tauraamui/dragonfx/pkg/log"
)

const stagedFilePrefix = "dragonfx-"

var (
	fs            = afero.NewOsFs()
	TimeNow       = time.Now
	sweepInterval = 5 * time.Minute
)

// SweepStagedFiles periodically removes staged media left in dir by
// runs which never reached their own cleanup, such as after a crash.
func SweepStagedFiles(dir string, maxAge time.Duration) func(cancel context.Context) []chan interface{} {
	if len(dir) == 0 {
		dir = os.TempDir()
	}
	var lastSweepInvokedAt time.Time
	return func(cancel context.Context) []chan interface{} {
		var stopSignals []chan interface{}
		log.Info("Sweeping stale staged files from [%s]", dir)
		stopping := make(chan interface{})
		go func(cancel context.Context, stopping chan interface{}) {
		procLoop:
			for {
				time.Sleep(1 * time.Millisecond)
				select {
				case <-cancel.Done():
					close(stopping)
					break procLoop
				default:
					lastSweepInvokedAt = sweep(dir, maxAge, lastSweepInvokedAt)
				}
			}
		}(cancel, stopping)
		stopSignals = append(stopSignals, stopping)
		return stopSignals
	}
}

func sweep(dir string, maxAge time.Duration, lastRun time.Time) time.Time {
	now := TimeNow()
	if !lastRun.IsZero() && now.Before(lastRun.Add(sweepInterval)) {
		return lastRun
	}

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		log.Warn("Unable to list staging directory [%s]: %v", dir, err)
		return now
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), stagedFilePrefix) {
			continue
		}
		if now.Sub(entry.ModTime()) < maxAge {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn("Unable to remove stale staged file [%s]: %v", path, err)
			continue
		}
		log.Debug("Removed stale staged file [%s]", path)
	}
	return now
}
