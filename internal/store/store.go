package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/PeterK0/Quintry/internal/model"

	_ "modernc.org/sqlite"
)

// Store persists quiz history and custom port lists in SQLite.
type Store struct {
	db *sql.DB
}

// New opens the database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS quiz_history (
		id TEXT PRIMARY KEY,
		date INTEGER NOT NULL,
		score INTEGER NOT NULL,
		total INTEGER NOT NULL,
		accuracy REAL NOT NULL,
		duration INTEGER NOT NULL,
		difficulty TEXT NOT NULL,
		regions TEXT NOT NULL,
		countries TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_quiz_history_date ON quiz_history(date DESC);
	CREATE INDEX IF NOT EXISTS idx_quiz_history_difficulty ON quiz_history(difficulty);

	CREATE TABLE IF NOT EXISTS quiz_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		quiz_id TEXT NOT NULL,
		port TEXT NOT NULL,
		is_correct INTEGER NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (quiz_id) REFERENCES quiz_history(id)
	);

	CREATE INDEX IF NOT EXISTS idx_quiz_results_quiz ON quiz_results(quiz_id);

	CREATE TABLE IF NOT EXISTS port_lists (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		port_keys TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS app_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveHistory appends one completed quiz to the history log, the entry
// row and its per-port results in a single transaction.
func (s *Store) SaveHistory(entry model.QuizHistoryEntry) error {
	regions, err := json.Marshal(entry.Regions)
	if err != nil {
		return fmt.Errorf("marshal regions: %w", err)
	}
	countries, err := json.Marshal(entry.Countries)
	if err != nil {
		return fmt.Errorf("marshal countries: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO quiz_history (id, date, score, total, accuracy, duration, difficulty, regions, countries)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Date.UnixMilli(), entry.Score, entry.Total, entry.Accuracy,
		entry.Duration, entry.Difficulty, string(regions), string(countries),
	)
	if err != nil {
		return err
	}

	for i, r := range entry.Results {
		_, err := tx.Exec(
			`INSERT INTO quiz_results (quiz_id, port, is_correct, position) VALUES (?, ?, ?, ?)`,
			entry.ID, r.Port, r.IsCorrect, i,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListHistory returns all history entries, newest first, with their
// per-port results attached in recorded order.
func (s *Store) ListHistory() ([]model.QuizHistoryEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, date, score, total, accuracy, duration, difficulty, regions, countries
		 FROM quiz_history ORDER BY date DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.QuizHistoryEntry
	for rows.Next() {
		var e model.QuizHistoryEntry
		var date int64
		var regions, countries string
		if err := rows.Scan(&e.ID, &date, &e.Score, &e.Total, &e.Accuracy,
			&e.Duration, &e.Difficulty, &regions, &countries); err != nil {
			return nil, err
		}
		e.Date = time.UnixMilli(date)
		if err := json.Unmarshal([]byte(regions), &e.Regions); err != nil {
			slog.Warn("malformed regions in history row", "id", e.ID, "error", err)
		}
		if err := json.Unmarshal([]byte(countries), &e.Countries); err != nil {
			slog.Warn("malformed countries in history row", "id", e.ID, "error", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		results, err := s.resultsFor(entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Results = results
	}
	return entries, nil
}

func (s *Store) resultsFor(quizID string) ([]model.PortResult, error) {
	rows, err := s.db.Query(
		`SELECT port, is_correct FROM quiz_results WHERE quiz_id = ? ORDER BY position`, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.PortResult
	for rows.Next() {
		var r model.PortResult
		if err := rows.Scan(&r.Port, &r.IsCorrect); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ClearHistory deletes all history entries and their results.
func (s *Store) ClearHistory() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM quiz_results`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM quiz_history`); err != nil {
		return err
	}
	return tx.Commit()
}

// HistoryCount returns the number of recorded quizzes.
func (s *Store) HistoryCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM quiz_history`).Scan(&count)
	return count, err
}

// SaveList inserts or updates a custom port list by id.
func (s *Store) SaveList(list model.PortList) error {
	keys, err := json.Marshal(list.PortKeys)
	if err != nil {
		return fmt.Errorf("marshal port keys: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO port_lists (id, name, port_keys, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = ?, port_keys = ?`,
		list.ID, list.Name, string(keys), time.Now(), list.Name, string(keys),
	)
	return err
}

// ListLists returns all stored custom lists. Rows whose key payload no
// longer parses are logged and skipped rather than failing the load.
func (s *Store) ListLists() ([]model.PortList, error) {
	rows, err := s.db.Query(`SELECT id, name, port_keys FROM port_lists ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []model.PortList
	for rows.Next() {
		var list model.PortList
		var keys string
		if err := rows.Scan(&list.ID, &list.Name, &keys); err != nil {
			return nil, err
		}
		list.PortKeys, err = decodePortKeys(keys)
		if err != nil {
			slog.Warn("skipping custom list with malformed keys", "id", list.ID, "error", err)
			continue
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

// decodePortKeys reads a stored port_keys payload. Lists written before
// keys became structured hold an array of "name-country" strings.
func decodePortKeys(data string) ([]model.PortKey, error) {
	var keys []model.PortKey
	if err := json.Unmarshal([]byte(data), &keys); err == nil {
		return keys, nil
	}

	var legacy []string
	if err := json.Unmarshal([]byte(data), &legacy); err != nil {
		return nil, err
	}
	keys = make([]model.PortKey, 0, len(legacy))
	for _, s := range legacy {
		k, err := model.ParsePortKey(s)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// DeleteList removes a custom list by id.
func (s *Store) DeleteList(id string) error {
	_, err := s.db.Exec(`DELETE FROM port_lists WHERE id = ?`, id)
	return err
}
