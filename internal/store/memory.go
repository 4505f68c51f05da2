package store

import (
	"sort"
	"sync"

	"github.com/PeterK0/Quintry/internal/model"
)

// Memory is an in-process implementation of the same persistence surface
// as Store. It backs tests and ephemeral runs where no database file is
// wanted; the handler accepts either through its store interfaces.
type Memory struct {
	mu      sync.Mutex
	history []model.QuizHistoryEntry
	lists   map[string]model.PortList
	order   []string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{lists: make(map[string]model.PortList)}
}

// SaveHistory appends one completed quiz.
func (m *Memory) SaveHistory(entry model.QuizHistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, entry)
	return nil
}

// ListHistory returns all entries, newest first.
func (m *Memory) ListHistory() ([]model.QuizHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.QuizHistoryEntry, len(m.history))
	copy(out, m.history)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// HistoryCount returns the number of recorded quizzes.
func (m *Memory) HistoryCount() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history), nil
}

// ClearHistory drops all entries.
func (m *Memory) ClearHistory() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
	return nil
}

// SaveList inserts or updates a custom list by id.
func (m *Memory) SaveList(list model.PortList) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[list.ID]; !ok {
		m.order = append(m.order, list.ID)
	}
	m.lists[list.ID] = list
	return nil
}

// ListLists returns stored lists in creation order.
func (m *Memory) ListLists() ([]model.PortList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.PortList, 0, len(m.lists))
	for _, id := range m.order {
		if list, ok := m.lists[id]; ok {
			out = append(out, list)
		}
	}
	return out, nil
}

// DeleteList removes a custom list by id.
func (m *Memory) DeleteList(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lists, id)
	return nil
}
