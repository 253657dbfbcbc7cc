package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reloads the override file whenever it changes and hands the
// validated result to subscribers.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	log      zerolog.Logger
	debounce time.Duration

	mu      sync.Mutex
	clients map[chan *Context]bool
	done    chan struct{}
	stopped sync.Once
}

// NewWatcher watches path. The parent directory is watched rather than the
// file so editors that replace the file on save are still seen.
func NewWatcher(path string, log zerolog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{
		watcher:  w,
		path:     path,
		log:      log.With().Str("component", "config-watcher").Logger(),
		debounce: defaultDebounce,
		clients:  make(map[chan *Context]bool),
		done:     make(chan struct{}),
	}, nil
}

// Start watches in the background until Stop is called.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop ends the watch. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopped.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

// Subscribe returns a channel holding at most the latest reload.
func (w *Watcher) Subscribe() chan *Context {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch := make(chan *Context, 1)
	w.clients[ch] = true
	return ch
}

// Unsubscribe stops deliveries to ch.
func (w *Watcher) Unsubscribe(ch chan *Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.clients[ch]; ok {
		delete(w.clients, ch)
		close(ch)
	}
}

func (w *Watcher) loop() {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}
			w.log.Debug().Str("op", event.Op.String()).Msg("config file changed")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) reload() {
	c, err := Load(w.path)
	if err != nil {
		w.log.Warn().Err(err).Msg("ignoring invalid config reload")
		return
	}
	w.log.Info().Str("path", w.path).Msg("config reloaded")
	w.broadcast(c)
}

func (w *Watcher) broadcast(c *Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for ch := range w.clients {
		// drop a stale pending reload in favour of this one
		select {
		case <-ch:
		default:
		}
		ch <- c
	}
}
