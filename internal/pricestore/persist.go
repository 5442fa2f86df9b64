package pricestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Save serializes the entire store as a single unit. Called after
// every ingestion batch; write amplification grows with the number of
// tracked series, which is accepted for the catalog sizes involved.
func (st *Store) Save() error {
	if st.path == "" {
		return nil
	}

	// One writer at a time; the snapshot below keeps series locks short
	st.saveMu.Lock()
	defer st.saveMu.Unlock()

	st.mu.RLock()
	snapshot := make(map[string]Series, len(st.series))
	for key, entry := range st.series {
		entry.mu.Lock()
		s := entry.s
		s.History = make([]Observation, len(entry.s.History))
		copy(s.History, entry.s.History)
		entry.mu.Unlock()
		snapshot[key] = s
	}
	st.mu.RUnlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal price store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write price store: %w", err)
	}
	return os.Rename(tmp, st.path)
}

// Load rebuilds the in-memory index from the persisted file. A missing
// file is an empty store; a corrupt file is a startup error with a
// remediation hint rather than silent data loss.
func (st *Store) Load() error {
	if st.path == "" {
		return nil
	}

	data, err := os.ReadFile(st.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read price store: %w", err)
	}

	var snapshot map[string]Series
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("price store %s is corrupt: %w (move the file aside or delete it to start with an empty store)", st.path, err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.series = make(map[string]*seriesEntry, len(snapshot))
	for key, s := range snapshot {
		st.series[key] = &seriesEntry{s: s}
	}
	return nil
}
