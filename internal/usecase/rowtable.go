package usecase

import (
	"sort"
	"sync"

	"github.com/Tushar-Bhat65/WorthIt/internal/domain"
)

// RowTable is a thread-safe, site-keyed collection of comparison rows.
// At most one Row per site exists at any time; a new Row for an existing
// site fully replaces the old one (last-write-wins, no merge).
type RowTable struct {
	rows  map[string]domain.Row
	mutex sync.RWMutex
}

// NewRowTable creates an empty row table
func NewRowTable() *RowTable {
	return &RowTable{
		rows: make(map[string]domain.Row),
	}
}

// Upsert replaces any existing row sharing the row's site key
func (t *RowTable) Upsert(row domain.Row) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.rows[row.Site] = row
}

// Reset clears all rows. Used only at the start of a brand-new search;
// rows are never persisted across searches.
func (t *RowTable) Reset() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.rows = make(map[string]domain.Row)
}

// List returns the current rows sorted by site for stable output.
// Insertion order is irrelevant for correctness.
func (t *RowTable) List() []domain.Row {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	list := make([]domain.Row, 0, len(t.rows))
	for _, row := range t.rows {
		list = append(list, row)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Site < list[j].Site
	})
	return list
}

// Len returns the current number of rows
func (t *RowTable) Len() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.rows)
}
