package gamification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/secret-garden/garden/internal/storage"
)

// JournalDateLayout formats the display date stored with each entry.
const JournalDateLayout = "1/2/2006"

// JournalEntry is one saved thought. ID is a UUID; records written before ids
// existed decode with an empty ID.
type JournalEntry struct {
	ID   string `json:"id,omitempty"`
	Date string `json:"date"`
	Text string `json:"text"`
}

// LoadJournal returns the journal history, newest first. A missing or
// unparsable record yields an empty history.
func (s *Store) LoadJournal(ctx context.Context) ([]JournalEntry, error) {
	data, err := s.kv.Get(ctx, JournalKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []JournalEntry{}, nil
		}
		return nil, fmt.Errorf("reading journal: %w", err)
	}

	var entries []JournalEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("stored journal is corrupt, starting empty",
			zap.String("key", JournalKey), zap.Error(err))
		return []JournalEntry{}, nil
	}
	if entries == nil {
		entries = []JournalEntry{}
	}
	return entries, nil
}

// SaveJournal writes the full history.
func (s *Store) SaveJournal(ctx context.Context, entries []JournalEntry) error {
	data, err := encode(entries)
	if err != nil {
		return fmt.Errorf("marshaling journal: %w", err)
	}
	if err := s.kv.Put(ctx, JournalKey, data); err != nil {
		return fmt.Errorf("writing journal: %w", err)
	}
	return nil
}
