package checkin

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func storedSnapshot(first, last string) *Snapshot {
	s := NewSnapshot(nil, nil)
	s.FirstName = first
	s.LastName = last
	return s
}

func TestStoreSaveAndFind(t *testing.T) {
	st := NewSnapshotStore()

	t.Run("nil is rejected", func(t *testing.T) {
		if st.Save(nil) {
			t.Error("Save(nil) should return false")
		}
	})

	snap := storedSnapshot("Jane", "Roe")
	if !st.Save(snap) {
		t.Fatal("Save returned false")
	}

	t.Run("find by id returns a copy", func(t *testing.T) {
		got, ok := st.FindByID(snap.ID)
		if !ok {
			t.Fatal("snapshot not found")
		}
		got.FirstName = "Mallory"

		again, _ := st.FindByID(snap.ID)
		if again.FirstName != "Jane" {
			t.Error("mutating a returned snapshot changed the store")
		}
	})

	t.Run("unknown and blank ids", func(t *testing.T) {
		if _, ok := st.FindByID("nope"); ok {
			t.Error("unknown id should not be found")
		}
		if _, ok := st.FindByID("  "); ok {
			t.Error("blank id should not be found")
		}
	})

	t.Run("upsert keeps size and position", func(t *testing.T) {
		second := storedSnapshot("Bob", "Lee")
		st.Save(second)

		updated := snap.Clone()
		updated.Phone = "555-0199"
		st.Save(updated)

		if st.Count() != 2 {
			t.Fatalf("Count() = %d after upsert, want 2", st.Count())
		}
		all := st.All()
		if all[0].ID != snap.ID {
			t.Error("upsert moved the snapshot out of its original position")
		}
		if all[0].Phone != "555-0199" {
			t.Error("upsert did not replace the stored value")
		}
	})
}

func TestStoreQueries(t *testing.T) {
	st := NewSnapshotStore()

	jane := storedSnapshot("Jane", "Roe")
	jane.DateOfBirth = time.Date(1990, 7, 4, 0, 0, 0, 0, time.UTC)
	john := storedSnapshot("John", "Doe")
	john.DateOfBirth = time.Date(1985, 3, 15, 0, 0, 0, 0, time.UTC)
	john.CheckInComplete = true
	st.Save(jane)
	st.Save(john)

	t.Run("by name part is case-insensitive", func(t *testing.T) {
		if got := st.FindByNamePart("jAnE"); len(got) != 1 || got[0].FirstName != "Jane" {
			t.Errorf("FindByNamePart(jAnE) = %v", got)
		}
		if got := st.FindByNamePart("o"); len(got) != 2 {
			t.Errorf("FindByNamePart(o) matched %d, want 2", len(got))
		}
		if got := st.FindByNamePart("  "); got != nil {
			t.Errorf("blank term should match nothing, got %v", got)
		}
	})

	t.Run("by date of birth ignores time of day", func(t *testing.T) {
		noon := time.Date(1990, 7, 4, 12, 30, 0, 0, time.UTC)
		if got := st.FindByDateOfBirth(noon); len(got) != 1 || got[0].FirstName != "Jane" {
			t.Errorf("FindByDateOfBirth = %v", got)
		}
	})

	t.Run("saved today includes fresh snapshots", func(t *testing.T) {
		if got := st.SavedToday(); len(got) != 2 {
			t.Errorf("SavedToday() matched %d, want 2", len(got))
		}
	})

	t.Run("completed and incomplete split", func(t *testing.T) {
		if got := st.Completed(); len(got) != 1 || got[0].FirstName != "John" {
			t.Errorf("Completed() = %v", got)
		}
		if got := st.Incomplete(); len(got) != 1 || got[0].FirstName != "Jane" {
			t.Errorf("Incomplete() = %v", got)
		}
	})

	t.Run("all preserves insertion order", func(t *testing.T) {
		all := st.All()
		if len(all) != 2 || all[0].FirstName != "Jane" || all[1].FirstName != "John" {
			t.Errorf("All() order = %v", all)
		}
	})
}

func TestStoreDeleteAndClear(t *testing.T) {
	st := NewSnapshotStore()
	snap := storedSnapshot("Jane", "Roe")
	st.Save(snap)

	if !st.Delete(snap.ID) {
		t.Fatal("Delete returned false for stored snapshot")
	}
	if st.Delete(snap.ID) {
		t.Error("second delete should return false")
	}
	if !st.IsEmpty() {
		t.Error("store should be empty after delete")
	}

	st.Save(storedSnapshot("A", "B"))
	st.Save(storedSnapshot("C", "D"))
	st.Clear()
	if st.Count() != 0 {
		t.Errorf("Count() = %d after Clear", st.Count())
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	st := NewSnapshotStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s := storedSnapshot(fmt.Sprintf("First%d", n), "Last")
			st.Save(s)
			st.FindByNamePart("first")
			st.All()
			st.Count()
		}(i)
	}
	wg.Wait()

	if st.Count() != 16 {
		t.Errorf("Count() = %d, want 16", st.Count())
	}
}
