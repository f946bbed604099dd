package editor

// Mode is what the editor is doing: Browsing, Creating or Editing.
type Mode interface {
	String() string
	mode()
}

// Browsing means no form is open.
type Browsing struct{}

// Creating is a blank form for a new entry.
type Creating struct{}

// Editing is a form over the existing entry ID.
type Editing struct {
	ID string
}

func (Browsing) mode() {}
func (Creating) mode() {}
func (Editing) mode()  {}

func (Browsing) String() string  { return "browsing" }
func (Creating) String() string  { return "creating" }
func (m Editing) String() string { return "editing " + m.ID }

// IsBrowsing reports whether m is Browsing (or nil).
func IsBrowsing(m Mode) bool {
	if m == nil {
		return true
	}
	_, ok := m.(Browsing)
	return ok
}

// IsCreating reports whether m is Creating.
func IsCreating(m Mode) bool {
	_, ok := m.(Creating)
	return ok
}

// EditingID returns the entry id when m is Editing.
func EditingID(m Mode) (string, bool) {
	e, ok := m.(Editing)
	return e.ID, ok
}
