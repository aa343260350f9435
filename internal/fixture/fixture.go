// Package fixture loads the bundled synthetic usage dataset that stands
// in for a real metering backend. The dataset is embedded at build time
// and immutable after load.
package fixture

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/mirelio/api-console/internal/models"
)

//go:embed dataset.json
var datasetJSON []byte

// SeedKey is the key metadata shipped with the dataset. It mirrors the
// persisted key record minus the secret; the dashboard's active-key
// count uses the live collection, not these seeds.
type SeedKey struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Created  string `json:"created"`
	LastUsed string `json:"lastUsed,omitempty"`
	Status   string `json:"status"`
}

// Store holds the parsed dataset.
type Store struct {
	days  []models.UsageDay
	seeds []SeedKey
	index map[string]int // date -> position in days
}

type dataset struct {
	DailyUsage []models.UsageDay `json:"dailyUsage"`
	APIKeys    []SeedKey         `json:"apiKeys"`
}

// Load parses the embedded dataset and verifies its ordering invariant:
// dates strictly ascending and unique.
func Load() (*Store, error) {
	var ds dataset
	if err := json.Unmarshal(datasetJSON, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse embedded dataset: %w", err)
	}

	index := make(map[string]int, len(ds.DailyUsage))
	prev := ""
	for i, day := range ds.DailyUsage {
		if day.Date <= prev {
			return nil, fmt.Errorf("dataset out of order at %q (previous %q)", day.Date, prev)
		}
		prev = day.Date
		index[day.Date] = i
	}

	return &Store{days: ds.DailyUsage, seeds: ds.APIKeys, index: index}, nil
}

// Days returns the full ascending daily slice. Callers must not mutate it.
func (s *Store) Days() []models.UsageDay {
	return s.days
}

// Len returns the number of days in the dataset.
func (s *Store) Len() int {
	return len(s.days)
}

// ByDate returns the record for an exact calendar date.
func (s *Store) ByDate(date string) (models.UsageDay, bool) {
	i, ok := s.index[date]
	if !ok {
		return models.UsageDay{}, false
	}
	return s.days[i], true
}

// Latest returns the most recent record, or false for an empty dataset.
func (s *Store) Latest() (models.UsageDay, bool) {
	if len(s.days) == 0 {
		return models.UsageDay{}, false
	}
	return s.days[len(s.days)-1], true
}

// SeedKeys returns the key metadata bundled with the dataset.
func (s *Store) SeedKeys() []SeedKey {
	return s.seeds
}
