package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/seqcheck/internal/types"
)

// ErrAlreadyWatching is returned when StartWatching is called twice.
var ErrAlreadyWatching = errors.New("already watching")

// settleDelay lets editors finish writing before a file is re-read.
const settleDelay = 100 * time.Millisecond

// ReportFunc receives the issues of a re-verified case file.
type ReportFunc func(filename string, issues []tt.Issue)

// StartWatching re-verifies case files under dirs whenever they change.
func (e *Engine) StartWatching(dirs []string, report ReportFunc) error {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()

	if e.isWatching {
		return ErrAlreadyWatching
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			watcher.Close()
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.watcher = watcher
	e.isWatching = true
	e.done = make(chan struct{})
	e.stopped = make(chan struct{})

	go e.watchLoop(report)
	e.logger.Info("Watching case files", zap.Strings("dirs", dirs))
	return nil
}

// StopWatching closes the watcher and waits for the loop to exit.
func (e *Engine) StopWatching() error {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()

	if !e.isWatching {
		e.logger.Debug("Not watching")
		return nil
	}

	close(e.done)
	err := e.watcher.Close()
	<-e.stopped
	e.isWatching = false
	return err
}

func (e *Engine) watchLoop(report ReportFunc) {
	defer close(e.stopped)
	for {
		select {
		case <-e.done:
			return
		case event, ok := <-e.watcher.Events:
			if !ok {
				return
			}
			e.handleFileEvent(event, report)
		case err, ok := <-e.watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(event fsnotify.Event, report ReportFunc) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !IsCaseFile(event.Name) {
		return
	}

	select {
	case <-e.done:
		return
	case <-time.After(settleDelay):
	}

	issues, err := e.Run(event.Name)
	if err != nil {
		e.logger.Error("Error verifying changed file", zap.String("file", event.Name), zap.Error(err))
		return
	}
	e.logger.Info("Re-verified case file", zap.String("file", event.Name), zap.Int("issues", len(issues)))
	if report != nil {
		report(event.Name, issues)
	}
}
