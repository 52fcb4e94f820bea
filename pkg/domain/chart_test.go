package domain

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func sampleChart() Chart {
	return Chart{ID: 1, Subordinates: []Chart{
		{ID: 2, Subordinates: []Chart{{ID: 3}}},
		{ID: 4},
	}}
}

func TestSnapshotBuildRoundTrip(t *testing.T) {
	c := sampleChart()
	root := c.Build()

	if root.ID != 1 || len(root.Subordinates) != 2 {
		t.Fatalf("unexpected root: %+v", root)
	}
	if got := Snapshot(root); !reflect.DeepEqual(got, c) {
		t.Errorf("Snapshot(Build()) = %+v, want %+v", got, c)
	}
}

func TestChart_IDsAndSize(t *testing.T) {
	c := sampleChart()
	if got, want := c.IDs(), []int{1, 2, 3, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
	if c.Size() != 4 {
		t.Errorf("Size() = %d, want 4", c.Size())
	}
}

func TestChart_Find(t *testing.T) {
	c := sampleChart()

	sub, ok := c.Find(2)
	if !ok || sub.ID != 2 || len(sub.Subordinates) != 1 {
		t.Errorf("Find(2) = %+v, %v", sub, ok)
	}
	if _, ok := c.Find(99); ok {
		t.Error("Find(99) should not succeed")
	}
}

func TestChart_Validate(t *testing.T) {
	tests := []struct {
		name    string
		chart   Chart
		wantErr bool
	}{
		{name: "unique ids", chart: sampleChart()},
		{name: "single root", chart: Chart{ID: 7}},
		{
			name:    "duplicate id",
			chart:   Chart{ID: 1, Subordinates: []Chart{{ID: 2}, {ID: 3, Subordinates: []Chart{{ID: 2}}}}},
			wantErr: true,
		},
		{
			name:    "root repeated",
			chart:   Chart{ID: 1, Subordinates: []Chart{{ID: 1}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chart.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidChart) {
					t.Errorf("Validate() = %v, want ErrInvalidChart", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestChart_JSONOmitsEmptySubordinates(t *testing.T) {
	data, err := json.Marshal(Chart{ID: 5})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"id":5}` {
		t.Errorf("got %s", data)
	}
}

func TestSession_CloneIsDeep(t *testing.T) {
	s := NewSession("s1", sampleChart())
	s.History = append(s.History, Move{EmployeeID: 2, SupervisorID: 4, OriginalSupervisorID: 1, OriginalSubordinates: []int{3}})
	s.Cursor = 1

	c := s.Clone()
	c.Chart.Subordinates[0].ID = 42
	c.History[0].OriginalSubordinates[0] = 42

	if s.Chart.Subordinates[0].ID != 2 {
		t.Error("clone shares chart with original")
	}
	if s.History[0].OriginalSubordinates[0] != 3 {
		t.Error("clone shares history with original")
	}
	if c.Cursor != 1 || c.ID != "s1" {
		t.Errorf("scalar fields not copied: %+v", c)
	}
}

func TestValidateSessionID(t *testing.T) {
	valid := []string{"s1", "acme-2026.q3", "A_b"}
	for _, id := range valid {
		if err := ValidateSessionID(id); err != nil {
			t.Errorf("ValidateSessionID(%q) = %v", id, err)
		}
	}
	invalid := []string{"", "../etc", "a/b", "-x", ".hidden", "with space"}
	for _, id := range invalid {
		if err := ValidateSessionID(id); !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("ValidateSessionID(%q) = %v, want ErrInvalidSessionID", id, err)
		}
	}
}
