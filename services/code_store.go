package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"bot-companion-web/models"

	log "github.com/sirupsen/logrus"
)

// LoadStatus tells an empty result from a missing store apart from one that
// could not be parsed. Neither is fatal.
type LoadStatus int

const (
	LoadOK LoadStatus = iota
	LoadMissing
	LoadCorrupt
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadMissing:
		return "missing"
	case LoadCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// LoadResult is the tolerant outcome of reading the whole store.
// Records is never nil.
type LoadResult struct {
	Records map[string]models.RewardRecord
	Status  LoadStatus
	Err     error
}

// CodeStore is the durable code -> record mapping.
type CodeStore interface {
	// Save inserts or overwrites the record for code as a fresh, unclaimed entry.
	Save(code string, score int) (models.RewardRecord, error)
	// LoadAll reads every record. Read failures yield an empty mapping.
	LoadAll() LoadResult
}

// JSONFileStore keeps the mapping in a single JSON file. Every Save reads the
// whole file, mutates it and rewrites it in place: there is no lock and no
// atomic rename, so concurrent saves are last-writer-wins and a crash mid-write
// can truncate the file.
type JSONFileStore struct {
	Path string
	now  func() time.Time
}

func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{Path: path, now: time.Now}
}

func (s *JSONFileStore) LoadAll() LoadResult {
	data, status, err := s.read()
	if status != LoadOK {
		return LoadResult{Records: map[string]models.RewardRecord{}, Status: status, Err: err}
	}

	var records map[string]models.RewardRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return LoadResult{Records: map[string]models.RewardRecord{}, Status: LoadCorrupt, Err: err}
	}
	if records == nil {
		records = map[string]models.RewardRecord{}
	}
	return LoadResult{Records: records, Status: LoadOK}
}

// Save leaves every other entry exactly as the file holds it. The bot owns
// the claim fields and may write types or keys this process does not model.
func (s *JSONFileStore) Save(code string, score int) (models.RewardRecord, error) {
	rec := models.NewRewardRecord(score, s.now())

	entries, err := s.loadRaw()
	if err != nil {
		log.Printf("⚠️  [CODE_STORE] %s unreadable, rewriting from empty: %v", s.Path, err)
		entries = map[string]json.RawMessage{}
	}

	entry, err := json.Marshal(rec)
	if err != nil {
		return rec, fmt.Errorf("encode record %s: %w", code, err)
	}
	entries[code] = entry

	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return rec, fmt.Errorf("encode code file: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return rec, fmt.Errorf("write code file %s: %w", s.Path, err)
	}
	return rec, nil
}

func (s *JSONFileStore) read() ([]byte, LoadStatus, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, LoadMissing, nil
		}
		return nil, LoadCorrupt, err
	}
	return data, LoadOK, nil
}

// loadRaw returns the file's entries undecoded. A missing file is empty.
func (s *JSONFileStore) loadRaw() (map[string]json.RawMessage, error) {
	data, status, err := s.read()
	switch status {
	case LoadMissing:
		return map[string]json.RawMessage{}, nil
	case LoadCorrupt:
		return nil, err
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = map[string]json.RawMessage{}
	}
	return entries, nil
}
