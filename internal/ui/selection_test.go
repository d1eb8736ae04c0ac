package ui

import "testing"

func TestNewSelectionManager(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		initial int
		want    int
	}{
		{"empty", 0, 0, 0},
		{"first", 3, 0, 0},
		{"initial respected", 3, 2, 2},
		{"initial clamped high", 3, 7, 2},
		{"initial clamped low", 3, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewSelectionManager(tt.total, tt.initial)
			if sm.RawIndex() != tt.want {
				t.Errorf("RawIndex() = %d, want %d", sm.RawIndex(), tt.want)
			}
			if sm.TotalItems() != tt.total {
				t.Errorf("TotalItems() = %d, want %d", sm.TotalItems(), tt.total)
			}
		})
	}
}

func TestSelectionManager_Navigation(t *testing.T) {
	sm := NewSelectionManager(3, 0)

	sm.SelectNext()
	if sm.RawIndex() != 1 {
		t.Errorf("after SelectNext: RawIndex() = %d, want 1", sm.RawIndex())
	}

	sm.SelectNext()
	sm.SelectNext()
	if sm.RawIndex() != 0 {
		t.Errorf("SelectNext should wrap: RawIndex() = %d, want 0", sm.RawIndex())
	}

	sm.SelectPrevious()
	if sm.RawIndex() != 2 {
		t.Errorf("SelectPrevious should wrap: RawIndex() = %d, want 2", sm.RawIndex())
	}

	sm.SelectFirst()
	if sm.RawIndex() != 0 {
		t.Errorf("after SelectFirst: RawIndex() = %d, want 0", sm.RawIndex())
	}

	sm.SelectLast()
	if sm.RawIndex() != 2 {
		t.Errorf("after SelectLast: RawIndex() = %d, want 2", sm.RawIndex())
	}
}

func TestSelectionManager_EmptyList(t *testing.T) {
	sm := NewSelectionManager(0, 0)

	// Navigation on an empty list must not panic or move
	sm.SelectNext()
	sm.SelectPrevious()
	sm.SelectLast()
	if sm.RawIndex() != 0 {
		t.Errorf("RawIndex() = %d, want 0", sm.RawIndex())
	}
}
