package comma

import "maps"

// ParseFunc converts stored text into a native value.
type ParseFunc func(text string) (any, error)

// SerializeFunc converts a native value into the text that gets stored.
type SerializeFunc func(value any) (string, error)

// TransformKind says how a Transform is keyed.
type TransformKind int

const (
	// TransformNone applies no conversion.
	TransformNone TransformKind = iota
	// TransformByIndex keys conversions by column position.
	TransformByIndex
	// TransformByName keys conversions by header name.
	TransformByName
)

// Transform maps columns to conversion functions, either by position or by header name.
// The zero value converts nothing. Columns without an entry pass through unchanged.
type Transform[F any] struct {
	kind    TransformKind
	byIndex map[int]F
	byName  map[string]F
}

// ByIndex keys fns by column position.
func ByIndex[F any](fns map[int]F) Transform[F] {
	return Transform[F]{kind: TransformByIndex, byIndex: maps.Clone(fns)}
}

// Positional is ByIndex for a dense list: fns[i] handles column i.
func Positional[F any](fns ...F) Transform[F] {
	m := make(map[int]F, len(fns))
	for i, fn := range fns {
		m[i] = fn
	}
	return Transform[F]{kind: TransformByIndex, byIndex: m}
}

// ByName keys fns by header name. Rows using it must carry a header.
func ByName[F any](fns map[string]F) Transform[F] {
	return Transform[F]{kind: TransformByName, byName: maps.Clone(fns)}
}

// Kind reports how t is keyed.
func (t Transform[F]) Kind() TransformKind {
	return t.kind
}

// lookup finds the function for column i. A name-keyed transform without a header is an error
// even when the column would have had no entry.
func (t Transform[F]) lookup(i int, h *Header) (fn F, ok bool, err error) {
	switch t.kind {
	case TransformByIndex:
		fn, ok = t.byIndex[i]
	case TransformByName:
		if h == nil {
			return fn, false, ErrMissingHeader
		}
		if name, has := h.Name(i); has {
			fn, ok = t.byName[name]
		}
	}
	return fn, ok, nil
}
