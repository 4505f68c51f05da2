package store

import (
	"database/sql"
	"strconv"

	"github.com/PeterK0/Quintry/internal/model"
)

// SetMetadata upserts a key-value pair in the app_metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO app_metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// GetMetadata returns the value for a metadata key.
// Returns empty string and nil error if the key is missing.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetDatasetInfo records provenance of the loaded ports dataset.
func (s *Store) SetDatasetInfo(info model.DatasetInfo) error {
	pairs := []struct{ k, v string }{
		{"dataset_path", info.Path},
		{"port_count", strconv.Itoa(info.PortCount)},
		{"list_matched", strconv.Itoa(info.ListMatched)},
		{"list_total", strconv.Itoa(info.ListTotal)},
	}
	for _, p := range pairs {
		if err := s.SetMetadata(p.k, p.v); err != nil {
			return err
		}
	}
	return nil
}

// GetDatasetInfo reads the recorded dataset provenance.
func (s *Store) GetDatasetInfo() (model.DatasetInfo, error) {
	var info model.DatasetInfo
	var err error

	if info.Path, err = s.GetMetadata("dataset_path"); err != nil {
		return info, err
	}
	for _, f := range []struct {
		key string
		dst *int
	}{
		{"port_count", &info.PortCount},
		{"list_matched", &info.ListMatched},
		{"list_total", &info.ListTotal},
	} {
		v, err := s.GetMetadata(f.key)
		if err != nil {
			return info, err
		}
		if v != "" {
			if *f.dst, err = strconv.Atoi(v); err != nil {
				return info, err
			}
		}
	}
	return info, nil
}
