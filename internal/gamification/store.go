package gamification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/secret-garden/garden/internal/storage"
)

// Storage keys. The schema version is part of the profile key so an
// incompatible record can live beside an old one.
const (
	ProfileKey = "scg-state-v2"
	JournalKey = "scg-journal-entries"
)

// Store loads and saves the profile and journal records on a key-value
// backend.
type Store struct {
	kv     storage.Store
	logger *zap.Logger
}

// NewStore wraps kv. A nil logger discards log output.
func NewStore(kv storage.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, logger: logger}
}

// LoadProfile reads the stored profile merged over defaults. A missing or
// unparsable record returns defaults unchanged; only backend failures are
// returned as errors. The bool reports whether a stored record was used.
func (s *Store) LoadProfile(ctx context.Context, defaults *Profile) (*Profile, bool, error) {
	data, err := s.kv.Get(ctx, ProfileKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return defaults, false, nil
		}
		return nil, false, fmt.Errorf("reading profile: %w", err)
	}

	merged := defaults.clone()
	if err := mergeProfile(merged, data); err != nil {
		s.logger.Warn("stored profile is corrupt, using defaults",
			zap.String("key", ProfileKey), zap.Error(err))
		return defaults, false, nil
	}
	return merged, true, nil
}

// SaveProfile writes the whole profile. Output is deterministic so saving an
// unchanged profile reproduces the stored bytes.
func (s *Store) SaveProfile(ctx context.Context, p *Profile) error {
	data, err := encode(p)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}
	if err := s.kv.Put(ctx, ProfileKey, data); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}

// Clear deletes the profile and journal records.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, ProfileKey, JournalKey); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	return nil
}

// mergeProfile overlays each top-level field present in data onto p. A field
// present in data replaces the default wholesale; absent fields keep it.
func mergeProfile(p *Profile, data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("profile record is null")
	}
	return errors.Join(
		field(fields, "name", &p.Name),
		field(fields, "xp", &p.XP),
		field(fields, "level", &p.Level),
		field(fields, "streak", &p.Streak),
		field(fields, "lastVisit", &p.LastVisit),
		field(fields, "stats", &p.Stats),
		field(fields, "daily", &p.Daily),
		field(fields, "weekly", &p.Weekly),
		field(fields, "achievements", &p.Achievements),
	)
}

// field decodes fields[key] into a fresh T and assigns it to dst when the key
// is present.
func field[T any](fields map[string]json.RawMessage, key string, dst *T) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("field %s: %w", key, err)
	}
	*dst = v
	return nil
}

func encode(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
