package core

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func loadIDs(loads []Load) []int {
	ids := make([]int, len(loads))
	for i, l := range loads {
		ids[i] = l.ID
	}
	return ids
}

func TestCollection_CreateAssignsNextID(t *testing.T) {
	tests := []struct {
		name     string
		existing []int
		wantID   int
	}{
		{"empty collection", nil, 1},
		{"unordered ids", []int{3, 7, 2}, 8},
		{"single id", []int{41}, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			seed := make([]Driver, len(tt.existing))
			for i, id := range tt.existing {
				seed[i] = Driver{ID: id, Name: "seed"}
			}
			s.Drivers.ReplaceAll(seed)

			got := s.Drivers.Create(Driver{Name: "new"})
			if got.ID != tt.wantID {
				t.Errorf("Create id = %d, want %d", got.ID, tt.wantID)
			}
		})
	}
}

func TestCollection_CreateOrdering(t *testing.T) {
	s := NewStore()
	s.Loads.ReplaceAll([]Load{{ID: 1}, {ID: 2}})
	s.Trucks.ReplaceAll([]Truck{{ID: 1}, {ID: 2}})

	s.Loads.Create(Load{Origin: "A"})
	s.Trucks.Create(Truck{Model: "B"})

	if diff := cmp.Diff([]int{3, 1, 2}, loadIDs(s.Loads.List())); diff != "" {
		t.Errorf("loads order mismatch (-want +got):\n%s", diff)
	}

	trucks := s.Trucks.List()
	if trucks[len(trucks)-1].ID != 3 {
		t.Errorf("new truck not appended: %+v", trucks)
	}
}

func TestCollection_UpdateAbsentIsNoop(t *testing.T) {
	s := NewStore()
	before := []Load{
		{ID: 1, Status: StatusPickUp, Origin: "Chicago", Destination: "Dallas"},
		{ID: 2, Status: StatusInRoute, Origin: "Denver", Destination: "Phoenix"},
	}
	s.Loads.ReplaceAll(before)

	if s.Loads.Update(99, Load{Origin: "X"}) {
		t.Error("Update of absent id returned true")
	}
	if diff := cmp.Diff(before, s.Loads.List()); diff != "" {
		t.Errorf("collection changed (-want +got):\n%s", diff)
	}
}

func TestCollection_UpdateKeepsID(t *testing.T) {
	s := NewStore()
	s.Loads.ReplaceAll([]Load{{ID: 5, Origin: "Old"}})

	if !s.Loads.Update(5, Load{ID: 77, Origin: "New"}) {
		t.Fatal("Update returned false")
	}
	got, ok := s.Loads.Get(5)
	if !ok || got.Origin != "New" {
		t.Errorf("Get(5) = %+v, %v", got, ok)
	}
	if _, ok := s.Loads.Get(77); ok {
		t.Error("record id was overwritten")
	}
}

func TestCollection_DeleteAbsentIsNoop(t *testing.T) {
	s := NewStore()
	before := []Truck{{ID: 1, Model: "A"}, {ID: 2, Model: "B"}}
	s.Trucks.ReplaceAll(before)

	if s.Trucks.Delete(3) {
		t.Error("Delete of absent id returned true")
	}
	if diff := cmp.Diff(before, s.Trucks.List()); diff != "" {
		t.Errorf("collection changed (-want +got):\n%s", diff)
	}

	if !s.Trucks.Delete(1) {
		t.Fatal("Delete(1) returned false")
	}
	if s.Trucks.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Trucks.Len())
	}
	if diff := cmp.Diff([]Truck{{ID: 1, Model: "A"}, {ID: 2, Model: "B"}}, before); diff != "" {
		t.Errorf("caller slice modified by Delete (-want +got):\n%s", diff)
	}
}

func TestCollection_AppendAssignsConsecutiveIDs(t *testing.T) {
	s := NewStore()
	s.Loads.ReplaceAll([]Load{{ID: 3}, {ID: 7}})

	stored := s.Loads.Append([]Load{{ID: 7, Origin: "A"}, {ID: 7, Origin: "B"}})

	if diff := cmp.Diff([]int{8, 9}, loadIDs(stored)); diff != "" {
		t.Errorf("appended ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3, 7, 8, 9}, loadIDs(s.Loads.List())); diff != "" {
		t.Errorf("collection order mismatch (-want +got):\n%s", diff)
	}
}

func TestCollection_ReplaceAllRejectsDuplicateIDs(t *testing.T) {
	s := NewStore()
	before := []Load{{ID: 1, Origin: "Chicago"}, {ID: 2, Origin: "Denver"}}
	if err := s.Loads.ReplaceAll(before); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	err := s.Loads.ReplaceAll([]Load{{ID: 4, Origin: "A"}, {ID: 5, Origin: "B"}, {ID: 4, Origin: "C"}})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("ReplaceAll() error = %v, want ErrDuplicateID", err)
	}
	if diff := cmp.Diff(before, s.Loads.List()); diff != "" {
		t.Errorf("collection changed (-want +got):\n%s", diff)
	}
}

func TestService_ReplaceRejectsDuplicateIDs(t *testing.T) {
	svc := NewService()

	if err := svc.ReplaceDrivers([]Driver{{ID: 3, Name: "A"}, {ID: 3, Name: "B"}}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("ReplaceDrivers() error = %v, want ErrDuplicateID", err)
	}
	if err := svc.ReplaceTrucks([]Truck{{ID: 9}, {ID: 9}}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("ReplaceTrucks() error = %v, want ErrDuplicateID", err)
	}
	if err := svc.ReplaceLoads([]Load{{ID: 1}, {ID: 2}}); err != nil {
		t.Errorf("ReplaceLoads() error = %v, want nil", err)
	}
}

func TestCollection_ListIsCopy(t *testing.T) {
	s := NewStore()
	s.Loads.ReplaceAll([]Load{{ID: 1, Origin: "Chicago"}})

	list := s.Loads.List()
	list[0].Origin = "Mutated"

	got, _ := s.Loads.Get(1)
	if got.Origin != "Chicago" {
		t.Errorf("List exposed internal state: origin = %q", got.Origin)
	}
}

func TestCollection_ConcurrentCreateUniqueIDs(t *testing.T) {
	s := NewStore()
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Loads.Create(Load{Origin: "A"})
		}()
	}
	wg.Wait()

	seen := make(map[int]bool)
	for _, l := range s.Loads.List() {
		if seen[l.ID] {
			t.Fatalf("duplicate id %d", l.ID)
		}
		seen[l.ID] = true
	}
	if len(seen) != n {
		t.Errorf("got %d records, want %d", len(seen), n)
	}
}
