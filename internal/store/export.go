package store

import (
	"fmt"
	"time"

	"github.com/PeterK0/Quintry/internal/model"
)

// ExportHistory builds an export-ready snapshot of the full quiz history
// together with dataset provenance from metadata.
func (s *Store) ExportHistory() (model.HistoryExport, error) {
	entries, err := s.ListHistory()
	if err != nil {
		return model.HistoryExport{}, fmt.Errorf("list history: %w", err)
	}

	info, err := s.GetDatasetInfo()
	if err != nil {
		return model.HistoryExport{}, fmt.Errorf("get dataset info: %w", err)
	}

	return model.HistoryExport{
		ExportedAt:  time.Now(),
		DatasetPath: info.Path,
		PortCount:   info.PortCount,
		Entries:     entries,
	}, nil
}
