// Package save persists small game values (progress, high score) as JSON
// envelopes. Failures are logged and reported as false or a default value;
// they never stop the game.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

const Version = "1.0.0"

var ErrChecksum = errors.New("save: checksum mismatch")

type envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	Version   string          `json:"version"`
	Checksum  string          `json:"checksum"`
}

type Manager struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

func NewManager(store Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, log: log.Named("save"), now: time.Now}
}

func checksum(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// Save encodes value under key and reports success.
func (m *Manager) Save(key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		m.log.Error("encode save", zap.String("key", key), zap.Error(err))
		return false
	}
	raw, err := json.Marshal(envelope{
		Data:      data,
		Timestamp: m.now().UnixMilli(),
		Version:   Version,
		Checksum:  checksum(data),
	})
	if err != nil {
		m.log.Error("encode envelope", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := m.store.Put(key, raw); err != nil {
		m.log.Error("write save", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Decode reads key into dst. dst is untouched unless the save is present
// and intact.
func (m *Manager) Decode(key string, dst any) error {
	raw, err := m.store.Get(key)
	if err != nil {
		return err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("save: parse %s: %w", key, err)
	}
	if env.Checksum != "" && env.Checksum != checksum(env.Data) {
		return fmt.Errorf("%w: %s", ErrChecksum, key)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("save: %s has no data", key)
	}
	return json.Unmarshal(env.Data, dst)
}

// Load returns the value saved under key, or def when it is missing or
// unreadable.
func Load[T any](m *Manager, key string, def T) T {
	var v T
	if err := m.Decode(key, &v); err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.log.Warn("load save", zap.String("key", key), zap.Error(err))
		}
		return def
	}
	return v
}

// Timestamp reports when key was last saved.
func (m *Manager) Timestamp(key string) (time.Time, bool) {
	raw, err := m.store.Get(key)
	if err != nil {
		return time.Time{}, false
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(env.Timestamp), true
}

func (m *Manager) Delete(key string) bool {
	if err := m.store.Delete(key); err != nil {
		m.log.Error("delete save", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (m *Manager) Exists(key string) bool {
	_, err := m.store.Get(key)
	return err == nil
}

func (m *Manager) Keys() []string {
	keys, err := m.store.Keys()
	if err != nil {
		m.log.Error("list saves", zap.Error(err))
		return nil
	}
	return keys
}

// ClearAll deletes every save and reports whether all deletes succeeded.
func (m *Manager) ClearAll() bool {
	ok := true
	for _, key := range m.Keys() {
		ok = m.Delete(key) && ok
	}
	return ok
}
