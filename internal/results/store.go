package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/doesmyresumematch/internal/match"
	"github.com/spigell/doesmyresumematch/internal/storage"
)

const keyPrefix = "match-"

var (
	// ErrNotFound means no record was ever saved under the id (or it was deleted).
	ErrNotFound = errors.New("result not found")
	// ErrMalformed means a record exists but cannot be decoded.
	ErrMalformed = errors.New("stored result is malformed")
)

// Store persists match results locally, keyed by result id.
type Store struct {
	storage storage.Storage
}

func NewStore(s storage.Storage) *Store {
	return &Store{storage: s}
}

func key(resultID string) string {
	return keyPrefix + resultID
}

// Save stores the result under resultID, replacing any previous value.
func (s *Store) Save(resultID string, result *match.Result) error {
	if strings.TrimSpace(resultID) == "" {
		return fmt.Errorf("result id is required")
	}
	if result == nil {
		return fmt.Errorf("result is required")
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if err := s.storage.Set(key(resultID), string(data)); err != nil {
		return fmt.Errorf("save result %s: %w", resultID, err)
	}

	return nil
}

// Load returns ErrNotFound for any id that was never saved, including ids that cannot be
// stored at all.
func (s *Store) Load(resultID string) (*match.Result, error) {
	if strings.TrimSpace(resultID) == "" {
		return nil, ErrNotFound
	}

	raw, err := s.storage.Get(key(resultID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, resultID)
		}
		return nil, fmt.Errorf("load result %s: %w", resultID, err)
	}

	result, err := match.Decode([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, resultID, err)
	}

	return result, nil
}

// Delete removes the record. Deleting a missing record is not an error.
func (s *Store) Delete(resultID string) error {
	if strings.TrimSpace(resultID) == "" {
		return nil
	}
	if err := s.storage.Remove(key(resultID)); err != nil {
		return fmt.Errorf("delete result %s: %w", resultID, err)
	}
	return nil
}

// List returns the ids of all locally stored results.
func (s *Store) List() ([]string, error) {
	keys, err := s.storage.Keys(keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, keyPrefix))
	}

	return ids, nil
}
