// Package listview tracks the cursor and scroll window over the task list.
package listview

// State tracks the selected row and the first visible row.
type State struct {
	ids          []string
	cursor       int
	scrollOffset int
	viewHeight   int
}

// NewState constructs an empty state.
func NewState() *State {
	return &State{}
}

// SetItems replaces the visible rows. The cursor stays on the same id when it
// is still present, otherwise on the same position.
func (s *State) SetItems(ids []string) {
	current := s.Selected()
	s.ids = append(s.ids[:0], ids...)
	if current != "" {
		for i, id := range s.ids {
			if id == current {
				s.cursor = i
				s.clamp()
				return
			}
		}
	}
	s.clamp()
}

// Len is the number of rows.
func (s *State) Len() int { return len(s.ids) }

// Cursor is the selected row index.
func (s *State) Cursor() int { return s.cursor }

// Selected returns the id under the cursor, empty when there are no rows.
func (s *State) Selected() string {
	if s.cursor < 0 || s.cursor >= len(s.ids) {
		return ""
	}
	return s.ids[s.cursor]
}

// SetSelected moves the cursor onto id when it is one of the rows.
func (s *State) SetSelected(id string) {
	for i, candidate := range s.ids {
		if candidate == id {
			s.cursor = i
			s.clamp()
			return
		}
	}
}

// Move shifts the cursor by delta rows, stopping at either end.
func (s *State) Move(delta int) {
	s.cursor += delta
	s.clamp()
}

// Top moves the cursor to the first row.
func (s *State) Top() {
	s.cursor = 0
	s.clamp()
}

// Bottom moves the cursor to the last row.
func (s *State) Bottom() {
	s.cursor = len(s.ids) - 1
	s.clamp()
}

// Viewport sets how many rows fit and returns the visible range [start, end).
func (s *State) Viewport(height int) (int, int) {
	if height < 1 {
		height = 1
	}
	s.viewHeight = height
	s.clamp()
	end := s.scrollOffset + height
	if end > len(s.ids) {
		end = len(s.ids)
	}
	return s.scrollOffset, end
}

func (s *State) clamp() {
	if s.cursor >= len(s.ids) {
		s.cursor = len(s.ids) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.viewHeight <= 0 {
		return
	}
	if s.cursor < s.scrollOffset {
		s.scrollOffset = s.cursor
	}
	if s.cursor >= s.scrollOffset+s.viewHeight {
		s.scrollOffset = s.cursor - s.viewHeight + 1
	}
	maxOffset := len(s.ids) - s.viewHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.scrollOffset > maxOffset {
		s.scrollOffset = maxOffset
	}
	if s.scrollOffset < 0 {
		s.scrollOffset = 0
	}
}
