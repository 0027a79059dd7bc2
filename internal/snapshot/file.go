package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"clima-etl/internal/weather"
)

// Store is the durable-persistence contract for the intermediate snapshot.
// Any medium works as long as Read returns what Write persisted; the
// read-back validation in the pipeline is independent of the medium.
type Store interface {
	Write(rec weather.WeatherRecord) error
	Read() (weather.WeatherRecord, error)
}

// FileStore keeps the snapshot as a single JSON file at a fixed path,
// overwritten on every run. The file is a diagnostic intermediate, not the
// system of record; it is not versioned or rotated.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Write serializes the record and overwrites the snapshot file.
func (s *FileStore) Write(rec weather.WeatherRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding record: %v", weather.ErrIOWrite, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", weather.ErrIOWrite, err)
	}
	return nil
}

// Read loads and re-validates the snapshot. A missing or unparseable file is
// a read failure; a parseable file with missing required fields is a
// validation failure.
func (s *FileStore) Read() (weather.WeatherRecord, error) {
	var rec weather.WeatherRecord

	data, err := os.ReadFile(s.path)
	if err != nil {
		return rec, fmt.Errorf("%w: %v", weather.ErrIORead, err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("%w: decoding snapshot: %v", weather.ErrIORead, err)
	}
	if err := rec.Validate(); err != nil {
		return rec, err
	}
	return rec, nil
}
