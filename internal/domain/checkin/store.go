package checkin

import (
	"strings"
	"sync"
	"time"
)

// SnapshotStore is the process-wide in-memory snapshot repository. Saves
// and deletes are serialized behind a write lock; queries take the read
// lock and return deep copies, so callers never observe or mutate the
// stored values. The store is constructed once at startup and injected
// wherever it is needed.
type SnapshotStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*Snapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{byID: make(map[string]*Snapshot)}
}

// Save upserts by snapshot ID: an existing entry is replaced in place,
// keeping its position, otherwise the snapshot is appended. Returns
// false only for nil input.
func (st *SnapshotStore) Save(s *Snapshot) bool {
	if s == nil {
		return false
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.byID[s.ID]; !exists {
		st.order = append(st.order, s.ID)
	}
	st.byID[s.ID] = s.Clone()
	return true
}

func (st *SnapshotStore) FindByID(id string) (*Snapshot, bool) {
	if strings.TrimSpace(id) == "" {
		return nil, false
	}

	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.byID[id]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// FindByNamePart returns snapshots whose first or last name contains the
// search term, case-insensitively.
func (st *SnapshotStore) FindByNamePart(term string) []*Snapshot {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	return st.filter(func(s *Snapshot) bool {
		return strings.Contains(strings.ToLower(s.FirstName), term) ||
			strings.Contains(strings.ToLower(s.LastName), term)
	})
}

// FindByDateOfBirth matches on the calendar date, ignoring time of day.
func (st *SnapshotStore) FindByDateOfBirth(dob time.Time) []*Snapshot {
	if dob.IsZero() {
		return nil
	}

	y, m, d := dob.Date()
	return st.filter(func(s *Snapshot) bool {
		sy, sm, sd := s.DateOfBirth.Date()
		return sy == y && sm == m && sd == d
	})
}

func (st *SnapshotStore) All() []*Snapshot {
	return st.filter(func(*Snapshot) bool { return true })
}

// SavedToday returns snapshots whose save timestamp falls on the current
// calendar date.
func (st *SnapshotStore) SavedToday() []*Snapshot {
	y, m, d := time.Now().Date()
	return st.filter(func(s *Snapshot) bool {
		sy, sm, sd := s.SavedAt.Date()
		return sy == y && sm == m && sd == d
	})
}

func (st *SnapshotStore) Completed() []*Snapshot {
	return st.filter(func(s *Snapshot) bool { return s.CheckInComplete })
}

func (st *SnapshotStore) Incomplete() []*Snapshot {
	return st.filter(func(s *Snapshot) bool { return !s.CheckInComplete })
}

func (st *SnapshotStore) filter(keep func(*Snapshot) bool) []*Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()

	var out []*Snapshot
	for _, id := range st.order {
		if s := st.byID[id]; keep(s) {
			out = append(out, s.Clone())
		}
	}
	return out
}

func (st *SnapshotStore) Delete(id string) bool {
	if strings.TrimSpace(id) == "" {
		return false
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.byID[id]; !ok {
		return false
	}
	delete(st.byID, id)
	for i, existing := range st.order {
		if existing == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
	return true
}

func (st *SnapshotStore) Clear() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.order = nil
	st.byID = make(map[string]*Snapshot)
}

func (st *SnapshotStore) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.order)
}

func (st *SnapshotStore) IsEmpty() bool {
	return st.Count() == 0
}
