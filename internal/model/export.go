package model

import "time"

// HistoryExport is the top-level JSON structure for quiz history export.
type HistoryExport struct {
	ExportedAt  time.Time          `json:"exported_at"`
	DatasetPath string             `json:"dataset_path,omitempty"`
	PortCount   int                `json:"port_count,omitempty"`
	Entries     []QuizHistoryEntry `json:"entries"`
}
