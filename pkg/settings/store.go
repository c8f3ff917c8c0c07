package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CABINWALK_GENERAL_HEIGHT.
const EnvPrefix = "CABINWALK"

// Provider is the read side every consumer of settings depends on.
type Provider interface {
	Current() Settings
}

// Store is a viper-backed Provider. It holds an immutable snapshot that is
// swapped whenever the file changes or a key is set, and reports each changed
// key path to the registered listeners.
type Store struct {
	path   string
	logger *slog.Logger

	vmu sync.Mutex // guards v
	v   *viper.Viper

	mu        sync.RWMutex
	current   Settings
	flat      map[string]any
	listeners []func(keyPath string)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the structured logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Load builds a store from defaults, the YAML file at path (optional; a
// missing file is not an error) and CABINWALK_* environment overrides.
func Load(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:   path,
		logger: slog.Default().With("component", "settings"),
		v:      viper.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	defaults, err := Flatten(Defaults())
	if err != nil {
		return nil, err
	}
	for key, value := range defaults {
		s.v.SetDefault(key, value)
	}

	s.v.SetEnvPrefix(EnvPrefix)
	s.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	s.v.AutomaticEnv()

	if path != "" {
		s.v.SetConfigFile(path)
		if err := s.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read settings %s: %w", path, err)
			}
			s.logger.Info("settings file not found, using defaults", "path", path)
		}
	}

	current, err := s.decode()
	if err != nil {
		return nil, err
	}
	flat, err := Flatten(current)
	if err != nil {
		return nil, err
	}
	s.current = current
	s.flat = flat
	return s, nil
}

// Path returns the backing file path, or "" for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

// Current returns the latest snapshot.
func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Flat returns the latest snapshot keyed by dotted path.
func (s *Store) Flat() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.flat))
	for k, v := range s.flat {
		out[k] = v
	}
	return out
}

// OnChange registers fn to be called once per changed key path. Callbacks run
// on the goroutine that observed the change.
func (s *Store) OnChange(fn func(keyPath string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Watch starts watching the backing file for changes.
func (s *Store) Watch() {
	if s.path == "" {
		return
	}
	s.vmu.Lock()
	defer s.vmu.Unlock()

	s.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		s.vmu.Lock()
		changed, err := s.apply()
		s.vmu.Unlock()
		if err != nil {
			s.logger.Warn("settings reload failed", "path", e.Name, "error", err)
			return
		}
		s.logger.Info("settings reloaded", "path", e.Name, "changed", len(changed))
		s.notify(changed)
	})
	s.v.WatchConfig()
}

// Reload re-reads the backing file and returns the changed key paths.
func (s *Store) Reload() ([]string, error) {
	s.vmu.Lock()
	if s.path != "" {
		if err := s.v.ReadInConfig(); err != nil {
			s.vmu.Unlock()
			return nil, fmt.Errorf("read settings %s: %w", s.path, err)
		}
	}
	changed, err := s.apply()
	s.vmu.Unlock()
	if err != nil {
		return nil, err
	}
	s.notify(changed)
	return changed, nil
}

// Set overrides one key in memory and returns the changed key paths.
func (s *Store) Set(keyPath string, value any) ([]string, error) {
	s.mu.RLock()
	_, known := s.flat[keyPath]
	s.mu.RUnlock()
	if !known {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, keyPath)
	}

	s.vmu.Lock()
	s.v.Set(keyPath, value)
	changed, err := s.apply()
	s.vmu.Unlock()
	if err != nil {
		return nil, err
	}
	s.notify(changed)
	return changed, nil
}

// Save writes the current snapshot to the backing file as YAML.
func (s *Store) Save() error {
	if s.path == "" {
		return ErrNoFile
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.path, err)
	}
	if err := Dump(f, s.Current()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	return nil
}

// apply decodes viper's view and swaps the snapshot. Caller holds vmu.
func (s *Store) apply() ([]string, error) {
	next, err := s.decode()
	if err != nil {
		return nil, err
	}
	flat, err := Flatten(next)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	changed := Diff(s.flat, flat)
	s.current = next
	s.flat = flat
	s.mu.Unlock()
	return changed, nil
}

func (s *Store) notify(changed []string) {
	s.mu.RLock()
	listeners := append([]func(string){}, s.listeners...)
	s.mu.RUnlock()

	for _, key := range changed {
		s.logger.Debug("setting changed", "key", key)
		for _, fn := range listeners {
			fn(key)
		}
	}
}

func (s *Store) decode() (Settings, error) {
	var out Settings
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		millisecondsHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := s.v.Unmarshal(&out, hook); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	out.Normalize()
	return out, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// millisecondsHook reads bare numbers as milliseconds, so "walk_step: 450"
// works the same as "walk_step: 450ms".
func millisecondsHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != durationType {
			return data, nil
		}
		switch v := data.(type) {
		case int:
			return time.Duration(v) * time.Millisecond, nil
		case int64:
			return time.Duration(v) * time.Millisecond, nil
		case float64:
			return time.Duration(v * float64(time.Millisecond)), nil
		case string:
			if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return time.Duration(n * float64(time.Millisecond)), nil
			}
		}
		return data, nil
	}
}

// Static is a fixed in-memory Provider for tests and the `plan` command.
type Static struct {
	mu sync.RWMutex
	s  Settings
}

// NewStatic returns a provider holding s after normalization.
func NewStatic(s Settings) *Static {
	s.Normalize()
	return &Static{s: s}
}

// Current returns the held settings.
func (p *Static) Current() Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.s
}

// Update mutates the held settings in place.
func (p *Static) Update(fn func(*Settings)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.s)
	p.s.Normalize()
}

var (
	_ Provider = (*Store)(nil)
	_ Provider = (*Static)(nil)
)
