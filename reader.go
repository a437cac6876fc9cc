package comma

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unsafe"
)

const defaultBufferSize = 1 << 12 // 4096 bytes

var (
	// ErrBareQuote is returned when an unexpected quote is found in an unquoted field.
	ErrBareQuote = errors.New("comma: bare quote in non-quoted field")
	// ErrUnterminatedQuote is returned when a quoted field is not closed before EOF.
	ErrUnterminatedQuote = errors.New("comma: unterminated quoted field")
	// ErrorFieldCount is returned when a record contains an unexpected number of fields.
	ErrorFieldCount = errors.New("comma: wrong number of fields")
)

// ParseError contains location information for CSV parsing errors.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

// Error formats the parse error message with the stored line, column, and Err values.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("comma: parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying Err so ParseError participates in errors.Unwrap.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Reader decodes one record at a time from a delimited text stream.
type Reader struct {
	src *bufio.Reader

	// Comma is the field delimiter. Default is ','.
	Comma byte
	// Quote is the quote character. Default is '"'.
	Quote byte
	// ReuseRecord indicates whether Read should reuse the backing array of the returned slice.
	ReuseRecord bool
	// FieldsPerRecord expects each record to contain this many fields. Zero captures the
	// width of the first record, a negative value disables the check.
	FieldsPerRecord int
	// LazyQuotes keeps bare quotes literally and closes a quoted field left open at EOF.
	LazyQuotes bool

	record []string
	data   []byte
	ends   []int
	line   int
	column int
	done   bool
}

// NewReader creates a Reader that consumes CSV data from r, panicking if r is nil.
// A *bufio.Reader is used as is; anything else gets wrapped in one.
func NewReader(r io.Reader) *Reader {
	if r == nil {
		panic("comma: reader source cannot be nil")
	}
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, defaultBufferSize)
	}
	return &Reader{
		src:    br,
		Comma:  ',',
		Quote:  '"',
		record: make([]string, 0, 16),
		data:   make([]byte, 0, 512),
		ends:   make([]int, 0, 16),
		line:   1,
		column: 1,
	}
}

// Read parses the next record. io.EOF signals that no more records remain.
func (r *Reader) Read() ([]string, error) {
	if r == nil || r.src == nil || r.done {
		return nil, io.EOF
	}

	comma := r.Comma
	if comma == 0 {
		comma = ','
	}
	quote := r.Quote
	if quote == 0 {
		quote = '"'
	}

	r.data = r.data[:0]
	r.ends = r.ends[:0]

	var (
		inQuotes   bool
		quoted     bool
		started    bool
		fieldStart int
	)

	for {
		b, err := r.src.ReadByte()
		if err != nil {
			if err != io.EOF {
				return nil, err
			}
			r.done = true
			if inQuotes && !r.LazyQuotes {
				return nil, r.wrapError(r.column, ErrUnterminatedQuote)
			}
			if !started {
				return nil, io.EOF
			}
			r.ends = append(r.ends, len(r.data))
			return r.buildRecord()
		}
		started = true
		column := r.column
		r.column++

		if inQuotes {
			switch b {
			case quote:
				// A doubled quote is an escaped quote; a single one closes the field.
				if r.peekIs(quote) {
					_, _ = r.src.ReadByte()
					r.column++
					r.data = append(r.data, quote)
					continue
				}
				inQuotes = false
			case '\n':
				r.data = append(r.data, b)
				r.line++
				r.column = 1
			default:
				r.data = append(r.data, b)
			}
			continue
		}

		switch b {
		case comma:
			r.ends = append(r.ends, len(r.data))
			fieldStart = len(r.data)
			quoted = false
		case '\r':
			if r.peekIs('\n') {
				_, _ = r.src.ReadByte()
			}
			fallthrough
		case '\n':
			r.ends = append(r.ends, len(r.data))
			r.line++
			r.column = 1
			return r.buildRecord()
		case quote:
			if len(r.data) == fieldStart && !quoted {
				inQuotes = true
				quoted = true
				continue
			}
			if !r.LazyQuotes {
				return nil, r.wrapError(column, ErrBareQuote)
			}
			r.data = append(r.data, b)
		default:
			r.data = append(r.data, b)
		}
	}
}

// ReadAll exhausts the reader and returns every record, or the first non-EOF error.
func (r *Reader) ReadAll() (records [][]string, err error) {
	for {
		record, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		if r.ReuseRecord {
			record = append([]string(nil), record...)
		}
		records = append(records, record)
	}
}

// Line reports the line the next record starts on.
func (r *Reader) Line() int {
	return r.line
}

// buildRecord slices the accumulated data at the recorded field ends, respecting ReuseRecord.
func (r *Reader) buildRecord() ([]string, error) {
	fieldCount := len(r.ends)

	var recordStr string
	if r.ReuseRecord {
		if len(r.data) > 0 {
			// Zero-copy string construction so fields can share a single backing buffer.
			recordStr = unsafe.String(unsafe.SliceData(r.data), len(r.data))
		}
		if cap(r.record) < fieldCount {
			r.record = make([]string, fieldCount)
		}
		r.record = r.record[:fieldCount]
	} else {
		recordStr = string(r.data)
		r.record = make([]string, fieldCount)
	}

	start := 0
	for i, end := range r.ends {
		r.record[i] = recordStr[start:end]
		start = end
	}

	switch {
	case r.FieldsPerRecord < 0:
	case r.FieldsPerRecord == 0:
		r.FieldsPerRecord = fieldCount
	case fieldCount != r.FieldsPerRecord:
		return r.record, ErrorFieldCount
	}
	return r.record, nil
}

func (r *Reader) peekIs(b byte) bool {
	next, err := r.src.Peek(1)
	return err == nil && next[0] == b
}

// wrapError attaches the current line and supplied column to err, producing a *ParseError.
func (r *Reader) wrapError(column int, err error) error {
	return &ParseError{Line: r.line, Column: column, Err: err}
}
