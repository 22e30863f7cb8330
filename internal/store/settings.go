package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minevcs/minevcs/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketMeta    = []byte("meta")
	bucketDevices = []byte("devices")

	keyDeviceID = []byte("device_id")
)

// DBFile is the database file name inside the storage directory
const DBFile = "minevcs.db"

// legacyConfigFile is the plain JSON settings file written by earlier releases
const legacyConfigFile = "config.json"

// record is the persisted form of a device's settings
type record struct {
	domain.Settings
	LastUpdated time.Time `json:"lastUpdated"`
}

// SettingsStore persists the settings record for this device in BoltDB.
type SettingsStore struct {
	db       *bolt.DB
	deviceID string
	now      func() time.Time
	logger   *slog.Logger

	mu     sync.RWMutex // Protects cached
	cached *record      // Last record read or written; nil when unknown
	loaded bool
}

// NewSettingsStore opens (creating if needed) the database in dir. An empty
// dir keeps settings in memory only.
func NewSettingsStore(dir string, logger *slog.Logger) (*SettingsStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SettingsStore{now: time.Now, logger: logger}

	if dir == "" {
		s.deviceID = uuid.NewString()
		s.loaded = true
		return s, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(dir, DBFile), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	// Create buckets and assign the device id once
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketMeta, bucketDevices} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		meta := tx.Bucket(bucketMeta)
		if id := meta.Get(keyDeviceID); id != nil {
			s.deviceID = string(id)
			return nil
		}
		s.deviceID = uuid.NewString()
		return meta.Put(keyDeviceID, []byte(s.deviceID))
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	s.db = db

	if err := s.importLegacyConfig(dir); err != nil {
		logger.Warn("ignoring legacy config file", "error", err)
	}

	return s, nil
}

// importLegacyConfig seeds the record from config.json when this device has
// none yet. The JSON file is left in place.
func (s *SettingsStore) importLegacyConfig(dir string) error {
	current, err := s.Get()
	if err != nil || current != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Join(dir, legacyConfigFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var legacy domain.Settings
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("config file is corrupted: %w", err)
	}
	if !legacy.IsComplete() {
		return nil
	}
	s.logger.Info("imported legacy config", "world", legacy.WorldName)
	return s.Put(legacy)
}

func (s *SettingsStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DeviceID returns the identifier the settings record is keyed by
func (s *SettingsStore) DeviceID() string {
	return s.deviceID
}

// Get returns this device's settings, or nil when none were saved.
func (s *SettingsStore) Get() (*domain.Settings, error) {
	rec, err := s.read()
	if err != nil || rec == nil {
		return nil, err
	}
	settings := rec.Settings
	return &settings, nil
}

// LastUpdated returns when the settings were last written.
func (s *SettingsStore) LastUpdated() (time.Time, bool) {
	rec, err := s.read()
	if err != nil || rec == nil {
		return time.Time{}, false
	}
	return rec.LastUpdated, true
}

func (s *SettingsStore) read() (*record, error) {
	// Check memory cache first
	s.mu.RLock()
	if s.loaded {
		rec := s.cached
		s.mu.RUnlock()
		return rec, nil
	}
	s.mu.RUnlock()

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketDevices).Get([]byte(s.deviceID)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var rec *record
	if data != nil {
		rec = &record{}
		if err := json.Unmarshal(data, rec); err != nil {
			return nil, fmt.Errorf("settings record is corrupted: %w", err)
		}
	}

	s.mu.Lock()
	s.cached, s.loaded = rec, true
	s.mu.Unlock()
	return rec, nil
}

// Put writes all three settings fields in a single transaction. Incomplete
// settings are rejected and nothing is written.
func (s *SettingsStore) Put(settings domain.Settings) error {
	settings = settings.Normalized()
	if err := settings.Validate(); err != nil {
		return err
	}

	rec := &record{Settings: settings, LastUpdated: s.now().UTC()}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	if s.db != nil {
		err = s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketDevices).Put([]byte(s.deviceID), data)
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.cached, s.loaded = rec, true
	s.mu.Unlock()
	return nil
}
