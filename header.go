package comma

// Header is an immutable list of column names shared by every row read under it.
type Header struct {
	names []string
	index map[string]int
}

// NewHeader copies names and indexes them. Duplicate names resolve to their first position.
func NewHeader(names []string) *Header {
	h := &Header{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for i, name := range h.names {
		if _, dup := h.index[name]; !dup {
			h.index[name] = i
		}
	}
	return h
}

// Len returns the number of names. A nil Header has none.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.names)
}

// Names returns a copy of the column names in order.
func (h *Header) Names() []string {
	if h == nil {
		return nil
	}
	return append([]string(nil), h.names...)
}

// Name returns the name at position i.
func (h *Header) Name(i int) (string, bool) {
	if h == nil || i < 0 || i >= len(h.names) {
		return "", false
	}
	return h.names[i], true
}

// Index returns the first position of name.
func (h *Header) Index(name string) (int, bool) {
	if h == nil {
		return 0, false
	}
	i, ok := h.index[name]
	return i, ok
}
