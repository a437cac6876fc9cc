package comma

import (
	"fmt"
	"strings"
)

// RowInput describes a row to build. Exactly one of Text, Native or Values must be set.
type RowInput struct {
	// Text holds already-serialized fields, as produced by the Reader.
	Text []string
	// Native holds values that are serialized immediately, column by column.
	Native []any
	// Values holds values keyed by header name. Header is required; names it lacks are rejected
	// and columns without a value are left empty.
	Values map[string]any

	Header      *Header
	Parsers     Transform[ParseFunc]
	Serializers Transform[SerializeFunc]
}

// Row is one record of text fields with typed access through the parsers and serializers of
// the session that produced it. The header is shared, not owned.
type Row struct {
	fields      []string
	header      *Header
	parsers     Transform[ParseFunc]
	serializers Transform[SerializeFunc]
}

// NewRow builds a Row from in. After construction the row only stores text.
func NewRow(in RowInput) (*Row, error) {
	set := 0
	for _, given := range []bool{in.Text != nil, in.Native != nil, in.Values != nil} {
		if given {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: supply exactly one of Text, Native or Values", ErrArgument)
	}

	r := &Row{
		header:      in.Header,
		parsers:     in.Parsers,
		serializers: in.Serializers,
	}

	switch {
	case in.Text != nil:
		r.fields = append([]string(nil), in.Text...)
	case in.Native != nil:
		r.fields = make([]string, len(in.Native))
		for i, v := range in.Native {
			text, err := r.serialize(i, v)
			if err != nil {
				return nil, err
			}
			r.fields[i] = text
		}
	default:
		if in.Header == nil {
			return nil, ErrMissingHeader
		}
		for name := range in.Values {
			if _, ok := in.Header.Index(name); !ok {
				return nil, &ColumnError{Index: -1, Name: name, Err: ErrUnknownColumn}
			}
		}
		r.fields = make([]string, in.Header.Len())
		for name, v := range in.Values {
			i, _ := in.Header.Index(name)
			text, err := r.serialize(i, v)
			if err != nil {
				return nil, err
			}
			r.fields[i] = text
		}
	}
	return r, nil
}

// Len returns the number of stored fields.
func (r *Row) Len() int {
	return len(r.fields)
}

// Header returns the header the row was built with, or nil.
func (r *Row) Header() *Header {
	return r.header
}

// Fields returns a copy of the stored text.
func (r *Row) Fields() []string {
	return append([]string(nil), r.fields...)
}

// Text returns the stored text at index i without parsing.
func (r *Row) Text(i int) (string, error) {
	if err := r.check(i, ""); err != nil {
		return "", err
	}
	return r.fields[i], nil
}

// Get returns the parsed value at index i.
func (r *Row) Get(i int) (any, error) {
	if err := r.check(i, ""); err != nil {
		return nil, err
	}
	return r.parse(i)
}

// GetByName returns the parsed value of the first column called name.
func (r *Row) GetByName(name string) (any, error) {
	i, err := r.resolve(name)
	if err != nil {
		return nil, err
	}
	if err := r.check(i, name); err != nil {
		return nil, err
	}
	return r.parse(i)
}

// Set serializes value and stores it at index i.
func (r *Row) Set(i int, value any) error {
	if err := r.check(i, ""); err != nil {
		return err
	}
	return r.store(i, value)
}

// SetByName serializes value and stores it in the first column called name.
func (r *Row) SetByName(name string, value any) error {
	i, err := r.resolve(name)
	if err != nil {
		return err
	}
	if err := r.check(i, name); err != nil {
		return err
	}
	return r.store(i, value)
}

// Slice returns parsed values for start, start+step, ... up to but excluding end.
// Negative bounds count from the end and out-of-range bounds are clamped. Pass
// end = -Len()-1 to walk backwards through index 0.
func (r *Row) Slice(start, end, step int) ([]any, error) {
	if step == 0 {
		return nil, fmt.Errorf("%w: slice step cannot be zero", ErrArgument)
	}
	n := len(r.fields)
	start = clampSliceIndex(start, n, step)
	end = clampSliceIndex(end, n, step)

	var out []any
	for i := start; (step > 0 && i < end) || (step < 0 && i > end); i += step {
		v, err := r.parse(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// List returns every field parsed, in order.
func (r *Row) List() ([]any, error) {
	return r.Slice(0, len(r.fields), 1)
}

// Map returns parsed values keyed by header name. Fields beyond the header are left out and
// a duplicated name keeps its first column.
func (r *Row) Map() (map[string]any, error) {
	if r.header == nil {
		return nil, ErrMissingHeader
	}
	out := make(map[string]any, len(r.fields))
	for i := range r.fields {
		name, ok := r.header.Name(i)
		if !ok {
			break
		}
		if first, _ := r.header.Index(name); first != i {
			continue
		}
		v, err := r.parse(i)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// String renders the row as a list, or as name=value pairs when a header is present.
func (r *Row) String() string {
	values, err := r.List()
	if err != nil {
		return fmt.Sprint(r.fields)
	}
	if r.header == nil {
		return fmt.Sprint(values)
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		if name, ok := r.header.Name(i); ok {
			fmt.Fprintf(&b, "%s: %v", name, v)
		} else {
			fmt.Fprintf(&b, "%d: %v", i, v)
		}
	}
	b.WriteByte('}')
	return b.String()
}

func (r *Row) resolve(name string) (int, error) {
	if r.header == nil {
		return 0, ErrMissingHeader
	}
	i, ok := r.header.Index(name)
	if !ok {
		return 0, &ColumnError{Index: -1, Name: name, Err: ErrUnknownColumn}
	}
	return i, nil
}

func (r *Row) check(i int, name string) error {
	if i < 0 || i >= len(r.fields) {
		return &ColumnError{Index: i, Name: name, Err: ErrIndexOutOfRange}
	}
	return nil
}

func (r *Row) parse(i int) (any, error) {
	raw := r.fields[i]
	fn, ok, err := r.parsers.lookup(i, r.header)
	if err != nil {
		return nil, err
	}
	if !ok || fn == nil {
		return raw, nil
	}
	v, err := fn(raw)
	if err != nil {
		return nil, r.columnError(i, err)
	}
	return v, nil
}

func (r *Row) serialize(i int, value any) (string, error) {
	fn, ok, err := r.serializers.lookup(i, r.header)
	if err != nil {
		return "", err
	}
	if !ok || fn == nil {
		fn = FormatAny
	}
	text, err := fn(value)
	if err != nil {
		return "", r.columnError(i, err)
	}
	return text, nil
}

func (r *Row) store(i int, value any) error {
	text, err := r.serialize(i, value)
	if err != nil {
		return err
	}
	r.fields[i] = text
	return nil
}

func (r *Row) columnError(i int, err error) error {
	name, _ := r.header.Name(i)
	return &ColumnError{Index: i, Name: name, Err: err}
}

func clampSliceIndex(i, n, step int) int {
	if i < 0 {
		i += n
		if i < 0 {
			if step < 0 {
				return -1
			}
			return 0
		}
		return i
	}
	if i >= n {
		if step < 0 {
			return n - 1
		}
		return n
	}
	return i
}
