// Package store holds the process-wide design-token bundle. Every mutation
// persists the full bundle and, for palette, typography and provider changes,
// propagates it into the live document.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/brandkit/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/brandkit/internal/ports"
	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
)

// SettingsVersion is written into every settings export.
const SettingsVersion = "1.0"

var errNotObject = errors.New("settings must be a JSON object")

// State records where the current bundle came from.
type State int

const (
	// FromDefaults means nothing was persisted at startup.
	FromDefaults State = iota
	// FromStorage means the bundle was loaded from persistence at startup.
	FromStorage
	// Mutated means at least one update ran since startup.
	Mutated
)

func (s State) String() string {
	switch s {
	case FromStorage:
		return "from-storage"
	case Mutated:
		return "mutated"
	default:
		return "from-defaults"
	}
}

// Persistence reads and writes the whole bundle.
type Persistence interface {
	Read(ctx context.Context) (*tokens.Bundle, error)
	Write(ctx context.Context, bundle tokens.Bundle) error
}

// Propagator applies a bundle to the live document.
type Propagator interface {
	Apply(ctx context.Context, bundle tokens.Bundle)
}

// DeferFunc schedules fn to run after the current call returns.
type DeferFunc func(fn func())

// Branding groups the fields updated together by UpdateBranding.
type Branding struct {
	BrandName string `json:"brandName"`
	LogoURL   string `json:"logoUrl"`
}

// Options configures a Store. Persistence and Propagator may be nil.
type Options struct {
	Persistence Persistence
	Propagator  Propagator
	Publisher   ports.EventPublisher
	Logger      ports.Logger
	// Defer schedules the propagation triggered by UpdateFontProvider.
	// Defaults to time.AfterFunc(0, fn).
	Defer DeferFunc
	Now   func() time.Time
}

// Store serializes all reads and mutations of the bundle.
type Store struct {
	mu      sync.Mutex
	bundle  tokens.Bundle
	state   State
	pending sync.WaitGroup

	persist   Persistence
	prop      Propagator
	publisher ports.EventPublisher
	logger    ports.Logger
	deferFn   DeferFunc
	now       func() time.Time
}

// New builds a store from defaults, overwrites it with the persisted bundle
// when one exists, and applies the result once.
func New(ctx context.Context, opts Options) *Store {
	s := &Store{
		bundle:    tokens.Defaults(),
		state:     FromDefaults,
		persist:   opts.Persistence,
		prop:      opts.Propagator,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		deferFn:   opts.Defer,
		now:       opts.Now,
	}
	if s.logger == nil {
		s.logger = logging.NewNoOpLogger()
	}
	s.logger = s.logger.With("component", "store")
	if s.deferFn == nil {
		s.deferFn = func(fn func()) { time.AfterFunc(0, fn) }
	}
	if s.now == nil {
		s.now = time.Now
	}

	if s.persist != nil {
		stored, err := s.persist.Read(ctx)
		switch {
		case err != nil:
			s.logger.Error(ctx, "failed to read persisted tokens; using defaults", "error", err)
		case stored != nil:
			s.bundle = *stored
			s.state = FromStorage
		}
	}
	s.logger.Debug(ctx, "store initialized", "state", s.state.String())

	s.mu.Lock()
	s.propagateLocked(ctx)
	s.mu.Unlock()
	return s
}

// Snapshot returns a deep copy of the current bundle.
func (s *Store) Snapshot() tokens.Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bundle.Clone()
}

// State reports where the current bundle came from.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UpdateColorPalette replaces the whole palette.
func (s *Store) UpdateColorPalette(ctx context.Context, colors tokens.ColorPalette) {
	s.mutate(ctx, "colorPalette", true, func(b *tokens.Bundle) {
		b.ColorPalette = tokens.Bundle{ColorPalette: colors}.Clone().ColorPalette
	})
}

// UpdateTypography replaces the whole typography map.
func (s *Store) UpdateTypography(ctx context.Context, typography tokens.Typography) {
	s.mutate(ctx, "typography", true, func(b *tokens.Bundle) {
		b.Typography = tokens.Bundle{Typography: typography}.Clone().Typography
	})
}

// UpdateBranding replaces the brand name and logo URL together.
func (s *Store) UpdateBranding(ctx context.Context, branding Branding) {
	s.mutate(ctx, "branding", false, func(b *tokens.Bundle) {
		b.BrandName = branding.BrandName
		b.LogoURL = branding.LogoURL
	})
}

// UpdateBackgrounds replaces the whole background map. The document picks
// the new values up on the next propagating update.
func (s *Store) UpdateBackgrounds(ctx context.Context, backgrounds tokens.Backgrounds) {
	s.mutate(ctx, "backgrounds", false, func(b *tokens.Bundle) {
		b.Backgrounds = tokens.Bundle{Backgrounds: backgrounds}.Clone().Backgrounds
	})
}

// UpdateFontProvider replaces the provider and schedules propagation through
// the deferral function. The deferred call applies whatever bundle is current
// when it runs.
func (s *Store) UpdateFontProvider(ctx context.Context, provider tokens.FontProvider) {
	s.mutate(ctx, "fontProvider", false, func(b *tokens.Bundle) {
		b.FontProvider = provider
	})

	s.pending.Add(1)
	s.deferFn(func() {
		defer s.pending.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		s.propagateLocked(ctx)
	})
}

// Reload re-reads the persisted bundle and, when it differs from the current
// one, adopts and propagates it. It reports whether the bundle changed. A
// missing or unreadable bundle leaves the store untouched.
func (s *Store) Reload(ctx context.Context) bool {
	if s.persist == nil {
		return false
	}
	stored, err := s.persist.Read(ctx)
	if err != nil {
		s.logger.Warn(ctx, "failed to reload persisted tokens", "error", err)
		return false
	}
	if stored == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if reflect.DeepEqual(s.bundle, *stored) {
		return false
	}
	s.bundle = *stored
	s.state = FromStorage
	s.propagateLocked(ctx)
	s.logger.Info(ctx, "reloaded persisted tokens")
	return true
}

// Wait blocks until every deferred propagation has run.
func (s *Store) Wait() {
	s.pending.Wait()
}

// Reset restores the default bundle.
func (s *Store) Reset(ctx context.Context) {
	s.mutate(ctx, "reset", true, func(b *tokens.Bundle) {
		*b = tokens.Defaults()
	})
	s.publish(ctx, ports.EventSettingsReset, nil)
}

// ExportSettings returns the bundle as JSON with exportedAt and version.
func (s *Store) ExportSettings(ctx context.Context) string {
	s.mu.Lock()
	payload := settingsExport{
		Bundle:     s.bundle.Clone(),
		ExportedAt: s.now().UTC().Format(time.RFC3339),
		Version:    SettingsVersion,
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		s.logger.Error(ctx, "failed to encode settings", "error", err)
		return ""
	}
	s.publish(ctx, ports.EventSettingsExported, map[string]interface{}{"version": SettingsVersion})
	return string(data)
}

// ImportSettings applies every bundle field present in raw, persists and
// propagates. It returns false and leaves the state untouched when raw is
// not a JSON object.
func (s *Store) ImportSettings(ctx context.Context, raw string) bool {
	fields, ok := s.apply(ctx, []byte(raw))
	if !ok {
		s.publish(ctx, ports.EventSettingsImportFailed, map[string]interface{}{"reason": "invalid JSON"})
		return false
	}
	s.publish(ctx, ports.EventSettingsImported, map[string]interface{}{"fields": fields})
	return true
}

// ApplyDesignTokens is the bulk-update entry used after a catalog envelope
// passed validation. It shares ImportSettings' field semantics.
func (s *Store) ApplyDesignTokens(ctx context.Context, raw json.RawMessage) bool {
	_, ok := s.apply(ctx, raw)
	return ok
}

func (s *Store) apply(ctx context.Context, raw []byte) (int, bool) {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil || object == nil {
		if err == nil {
			err = errNotObject
		}
		s.logger.Warn(ctx, "settings import rejected", "error", err)
		return 0, false
	}
	var payload settingsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.logger.Warn(ctx, "settings import rejected", "error", err)
		return 0, false
	}

	fields := 0
	s.mutate(ctx, "import", true, func(b *tokens.Bundle) {
		fields = payload.applyTo(b)
	})
	s.logger.Info(ctx, "settings imported", "fields", fields)
	return fields, true
}

func (s *Store) mutate(ctx context.Context, what string, propagate bool, fn func(*tokens.Bundle)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.bundle)
	s.state = Mutated

	if s.persist != nil {
		if err := s.persist.Write(ctx, s.bundle.Clone()); err != nil {
			s.logger.Error(ctx, "failed to persist tokens", "update", what, "error", err)
		}
	}
	if propagate {
		s.propagateLocked(ctx)
	}
	s.logger.Debug(ctx, "tokens updated", "update", what, "propagated", propagate)
}

func (s *Store) propagateLocked(ctx context.Context) {
	if s.prop == nil {
		return
	}
	s.prop.Apply(ctx, s.bundle.Clone())
}

func (s *Store) publish(ctx context.Context, eventType string, fields map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ports.Notice{Type: eventType, Fields: fields}); err != nil {
		s.logger.Warn(ctx, "failed to publish notification", "event_type", eventType, "error", err)
	}
}

type settingsExport struct {
	tokens.Bundle
	ExportedAt string `json:"exportedAt"`
	Version    string `json:"version"`
}

// settingsPayload mirrors tokens.Bundle with pointers so absent fields can be
// told apart from zero values.
type settingsPayload struct {
	ColorPalette *tokens.ColorPalette `json:"colorPalette"`
	Typography   *tokens.Typography   `json:"typography"`
	BrandName    *string              `json:"brandName"`
	LogoURL      *string              `json:"logoUrl"`
	Backgrounds  *tokens.Backgrounds  `json:"backgrounds"`
	FontProvider *tokens.FontProvider `json:"fontProvider"`
}

func (p settingsPayload) applyTo(b *tokens.Bundle) int {
	n := 0
	if p.ColorPalette != nil {
		b.ColorPalette = *p.ColorPalette
		n++
	}
	if p.Typography != nil {
		b.Typography = *p.Typography
		n++
	}
	if p.BrandName != nil {
		b.BrandName = *p.BrandName
		n++
	}
	if p.LogoURL != nil {
		b.LogoURL = *p.LogoURL
		n++
	}
	if p.Backgrounds != nil {
		b.Backgrounds = *p.Backgrounds
		n++
	}
	if p.FontProvider != nil {
		b.FontProvider = *p.FontProvider
		n++
	}
	return n
}
