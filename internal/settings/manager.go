package settings

import (
	"context"
	"sync"

	"TradeView/internal/apperrors"
	"TradeView/internal/model"
	"TradeView/internal/store"

	"github.com/sirupsen/logrus"
)

const (
	KeyMode   = "theme.mode"
	KeyScheme = "theme.color_scheme"
)

// Manager holds the current display settings and writes changes through to
// a KV store.
type Manager struct {
	mu      sync.RWMutex
	current model.Settings
	kv      store.KV
	log     logrus.FieldLogger
}

// NewManager reads the stored settings. Missing or invalid values fall back
// to the defaults field by field; a failing store is logged, not fatal.
func NewManager(ctx context.Context, kv store.KV, log logrus.FieldLogger) *Manager {
	m := &Manager{
		current: model.DefaultSettings(),
		kv:      kv,
		log:     log.WithField("component", "settings"),
	}

	if v, ok := m.read(ctx, KeyMode); ok {
		if mode := model.ThemeMode(v); mode.Valid() {
			m.current.Mode = mode
		} else {
			m.log.WithField("value", v).Warn("ignoring stored theme mode")
		}
	}
	if v, ok := m.read(ctx, KeyScheme); ok {
		if scheme := model.ColorScheme(v); scheme.Valid() {
			m.current.Scheme = scheme
		} else {
			m.log.WithField("value", v).Warn("ignoring stored color scheme")
		}
	}
	return m
}

func (m *Manager) read(ctx context.Context, key string) (string, bool) {
	v, ok, err := m.kv.Get(ctx, key)
	if err != nil {
		m.log.WithError(err).WithField("key", key).Error("failed to read setting")
		return "", false
	}
	return v, ok
}

// Get returns a copy of the current settings.
func (m *Manager) Get() model.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Update validates s, persists it and makes it current. On a storage error
// the in-memory settings are left unchanged.
func (m *Manager) Update(ctx context.Context, s model.Settings) (model.Settings, error) {
	if err := s.Validate(); err != nil {
		return m.Get(), apperrors.Wrap(apperrors.CodeInvalidSettings, "invalid settings", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.kv.Set(ctx, KeyMode, string(s.Mode)); err != nil {
		return m.current, apperrors.Wrap(apperrors.CodeStorageFailed, "save theme mode", err)
	}
	if err := m.kv.Set(ctx, KeyScheme, string(s.Scheme)); err != nil {
		return m.current, apperrors.Wrap(apperrors.CodeStorageFailed, "save color scheme", err)
	}
	m.current = s
	m.log.WithFields(logrus.Fields{"mode": s.Mode, "scheme": s.Scheme}).Info("settings updated")
	return s, nil
}
