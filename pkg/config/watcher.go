package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cascade-live/cascade/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

const FileName = "config.yaml"

// File returns the first config file found in the dirs,
// the order is the same as in LoadConfig.
func File(dirs []string) (string, bool) {
	for _, dir := range dirs {
		path := filepath.Join(dir, FileName)
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Watcher reloads the config file when it changes on disk.
// Editors often write a file in several steps, so reloads wait
// for a short quiet period after the last change.
type Watcher struct {
	file     string
	delay    time.Duration
	onChange func(CoordinatorConfig)

	w   *fsnotify.Watcher
	log *logger.Logger
}

func NewWatcher(file string, onChange func(CoordinatorConfig), log *logger.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	file = filepath.Clean(file)
	// the dir is watched because a replaced file loses its watch
	if err = watcher.Add(filepath.Dir(file)); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return &Watcher{
		file:     file,
		delay:    100 * time.Millisecond,
		onChange: onChange,
		w:        watcher,
		log:      log,
	}, nil
}

func (w *Watcher) Run() { go w.watch() }

func (w *Watcher) Shutdown(context.Context) error { return w.w.Close() }

func (w *Watcher) String() string { return "config watcher " + w.file }

func (w *Watcher) watch() {
	var reload <-chan time.Time
	for {
		select {
		case event, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				reload = time.After(w.delay)
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("config watch error")
		case <-reload:
			reload = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	if _, err := os.Stat(w.file); err != nil {
		w.log.Warn().Err(err).Msg("config file is gone, keeping the old one")
		return
	}
	var conf CoordinatorConfig
	if _, err := LoadConfig(&conf, filepath.Dir(w.file)); err != nil {
		w.log.Error().Err(err).Msg("config reload fail")
		return
	}
	if err := conf.Webrtc.Validate(); err != nil {
		w.log.Error().Err(err).Msg("reloaded config is invalid, keeping the old one")
		return
	}
	w.onChange(conf)
}
