package ui

// SelectionManager tracks the highlighted row of a fixed option list.
type SelectionManager struct {
	total         int
	selectedIndex int
}

// NewSelectionManager creates a SelectionManager over total rows with the
// given initial row.
func NewSelectionManager(total, initial int) *SelectionManager {
	sm := &SelectionManager{total: total}
	sm.SetIndex(initial)
	return sm
}

// TotalItems returns the total number of items.
func (sm *SelectionManager) TotalItems() int {
	return sm.total
}

// RawIndex returns the selected index.
func (sm *SelectionManager) RawIndex() int {
	return sm.selectedIndex
}

// SelectNext moves selection to the next item (wraps around).
func (sm *SelectionManager) SelectNext() {
	if sm.total > 0 {
		sm.selectedIndex = (sm.selectedIndex + 1) % sm.total
	}
}

// SelectPrevious moves selection to the previous item (wraps around).
func (sm *SelectionManager) SelectPrevious() {
	if sm.total > 0 {
		if sm.selectedIndex == 0 {
			sm.selectedIndex = sm.total - 1
		} else {
			sm.selectedIndex--
		}
	}
}

// SelectFirst moves selection to the first item.
func (sm *SelectionManager) SelectFirst() {
	sm.selectedIndex = 0
}

// SelectLast moves selection to the last item.
func (sm *SelectionManager) SelectLast() {
	if sm.total > 0 {
		sm.selectedIndex = sm.total - 1
	}
}

// SetIndex sets the selection directly, clamped to the valid range.
func (sm *SelectionManager) SetIndex(index int) {
	switch {
	case sm.total == 0 || index < 0:
		sm.selectedIndex = 0
	case index >= sm.total:
		sm.selectedIndex = sm.total - 1
	default:
		sm.selectedIndex = index
	}
}
