package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/ythdp/ythdp/constant"
	"github.com/ythdp/ythdp/log"
	"github.com/ythdp/ythdp/quality"
	"github.com/ythdp/ythdp/version"
)

// RunInfo records the last version that ran.
type RunInfo struct {
	Version string    `json:"version"`
	LastRun time.Time `json:"lastRun"`
}

// Service owns the in-memory preferences and keeps the store in sync with them.
// Store failures are logged; callers always get usable preferences.
type Service struct {
	store Store

	mu    sync.RWMutex
	prefs Preferences
}

// NewService starts with default preferences. Call Load to read the store.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		prefs: Defaults(),
	}
}

// Preferences returns a snapshot of the current preferences.
func (s *Service) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Load reads the stored preferences. Fields that are missing or of the wrong type
// take their default, and the sanitized result is written back.
func (s *Service) Load(ctx context.Context) Preferences {
	prefs := Defaults()

	var stored map[string]json.RawMessage
	found, err := s.store.Get(ctx, constant.SettingsKey, &stored)
	switch {
	case err != nil && !found:
		log.Warnf("reading settings: %v, using defaults", err)
		s.replace(prefs)
		return prefs
	case err != nil:
		// Present but not an object: overwrite with defaults.
		log.Warnf("settings are corrupted: %v, using defaults", err)
	case found:
		prefs = sanitize(stored)
	}

	s.replace(prefs)

	// Writing unchanged settings back would wake up anything watching the file.
	if err != nil || !found || !matches(prefs, stored) {
		if err := s.store.Set(ctx, constant.SettingsKey, prefs); err != nil {
			log.Warnf("saving settings: %v", err)
		}
	}

	log.Debugf("loaded settings: %+v", prefs)
	return prefs
}

// matches reports whether stored holds exactly the fields of prefs.
func matches(prefs Preferences, stored map[string]json.RawMessage) bool {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return false
	}

	var canonical map[string]json.RawMessage
	if err := json.Unmarshal(raw, &canonical); err != nil || len(canonical) != len(stored) {
		return false
	}

	for field, value := range canonical {
		if !bytes.Equal(value, stored[field]) {
			return false
		}
	}
	return true
}

// sanitize decodes each field on its own so one bad value does not discard the rest.
func sanitize(stored map[string]json.RawMessage) Preferences {
	prefs := Defaults()

	if raw, ok := stored[FieldTargetQuality]; ok {
		var target string
		switch err := json.Unmarshal(raw, &target); {
		case err != nil:
			log.Debugf("setting %s has the wrong type, using default", FieldTargetQuality)
		case quality.Known(quality.ID(target)):
			prefs.TargetQuality = quality.ID(target)
		default:
			log.Debugf("migrated invalid resolution %q to default %s", target, quality.Default)
		}
	}

	decodeBool := func(field string, dst *bool) {
		raw, ok := stored[field]
		if !ok {
			return
		}

		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			log.Debugf("setting %s has the wrong type, using default", field)
			return
		}
		*dst = b
	}

	decodeBool(FieldForceMinimumHD, &prefs.ForceMinimumHD)
	decodeBool(FieldMenuExpanded, &prefs.MenuExpanded)
	decodeBool(FieldDebugLogging, &prefs.DebugLogging)

	return prefs
}

// Update validates and applies a single field, then persists the result.
// The in-memory change is kept even if persisting fails.
func (s *Service) Update(ctx context.Context, field string, value any) error {
	s.mu.Lock()
	next, err := s.prefs.with(field, value)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.prefs = next
	s.mu.Unlock()

	log.Debugf("setting updated: %s = %v", field, value)
	if field == FieldDebugLogging {
		log.SetDiagnostics(next.DebugLogging)
	}

	return s.save(ctx, next)
}

// Reset restores and persists the defaults.
func (s *Service) Reset(ctx context.Context) error {
	prefs := Defaults()
	s.replace(prefs)
	return s.save(ctx, prefs)
}

func (s *Service) replace(prefs Preferences) {
	s.mu.Lock()
	s.prefs = prefs
	s.mu.Unlock()

	log.SetDiagnostics(prefs.DebugLogging)
}

func (s *Service) save(ctx context.Context, prefs Preferences) error {
	if err := s.store.Set(ctx, constant.SettingsKey, prefs); err != nil {
		log.Warnf("saving settings: %v", err)
		return err
	}
	return nil
}

// Cleanup removes keys left behind by older versions.
func (s *Service) Cleanup(ctx context.Context) {
	keys, err := s.store.Keys(ctx)
	if err != nil {
		log.Warnf("listing stored keys: %v", err)
		return
	}

	allowed := []string{constant.SettingsKey, constant.RunInfoKey}
	for _, key := range lo.Without(keys, allowed...) {
		if err := s.store.Delete(ctx, key); err != nil {
			log.Warnf("deleting stored key %s: %v", key, err)
			continue
		}
		log.Debugf("deleted unused storage key: %s", key)
	}
}

// RecordRun stores the running version and reports whether it differs from the one
// recorded by the previous run. A first run counts as a change.
func (s *Service) RecordRun(ctx context.Context, current string) bool {
	var previous RunInfo
	found, err := s.store.Get(ctx, constant.RunInfoKey, &previous)
	if err != nil {
		log.Warnf("reading run info: %v", err)
		found = false
	}

	changed := !found || version.Compare(current, previous.Version) != 0
	if changed {
		log.Debugf("version changed or first run, now %s", current)
	}

	info := RunInfo{Version: current, LastRun: time.Now()}
	if err := s.store.Set(ctx, constant.RunInfoKey, info); err != nil {
		log.Warnf("saving run info: %v", err)
	}

	return changed
}

// LastRun returns the run info recorded by the previous run.
func (s *Service) LastRun(ctx context.Context) (RunInfo, bool) {
	var info RunInfo
	found, err := s.store.Get(ctx, constant.RunInfoKey, &info)
	if err != nil {
		log.Warnf("reading run info: %v", err)
		return RunInfo{}, false
	}
	return info, found
}
