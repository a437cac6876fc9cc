package comma

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrNeedsQuote is returned under QuoteNone for a field that cannot be written unquoted.
	ErrNeedsQuote = errors.New("comma: field needs quoting but quoting is disabled")

	errNilWriter      = errors.New("comma: writer is nil")
	errWriterNoTarget = errors.New("comma: writer destination cannot be nil")
)

// Writer emits delimited records with a configurable quoting policy and terminator.
type Writer struct {
	dst *bufio.Writer

	// Comma is the field delimiter. Default is ','.
	Comma byte
	// Quote is the quote character. Default is '"'.
	Quote byte
	// Terminator ends every record. Default is "\n".
	Terminator string
	// Quoting selects which fields are quoted. Default is QuoteMinimal.
	Quoting QuotingPolicy

	err error
}

// NewWriter creates a new Writer with internal buffering tuned for bulk writes.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		panic(errWriterNoTarget.Error())
	}
	return &Writer{
		dst:        bufio.NewWriterSize(w, defaultBufferSize),
		Comma:      ',',
		Quote:      '"',
		Terminator: "\n",
	}
}

// Reset updates the underlying writer while preserving the configuration.
func (w *Writer) Reset(dst io.Writer) {
	if w == nil {
		panic(errNilWriter.Error())
	}
	if dst == nil {
		panic(errWriterNoTarget.Error())
	}
	if w.dst == nil {
		w.dst = bufio.NewWriterSize(dst, defaultBufferSize)
	} else {
		w.dst.Reset(dst)
	}
	w.err = nil
}

// Write emits a single record followed by the configured terminator.
// A field rejected by the quoting policy fails the call without poisoning the writer.
func (w *Writer) Write(record []string) error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}

	comma := w.Comma
	if comma == 0 {
		comma = ','
	}
	quote := w.Quote
	if quote == 0 {
		quote = '"'
	}
	term := w.Terminator
	if term == "" {
		term = "\n"
	}

	quoted := make([]bool, len(record))
	for i, field := range record {
		q, err := w.shouldQuote(field, comma, quote)
		if err != nil {
			return err
		}
		quoted[i] = q
	}

	for i, field := range record {
		if i > 0 {
			if err := w.dst.WriteByte(comma); err != nil {
				w.err = err
				return err
			}
		}
		if err := w.writeField(field, quote, quoted[i]); err != nil {
			w.err = err
			return err
		}
	}
	if _, err := w.dst.WriteString(term); err != nil {
		w.err = err
		return err
	}
	return nil
}

// WriteAll writes multiple records, stopping at the first error.
func (w *Writer) WriteAll(records [][]string) error {
	if w == nil {
		return errNilWriter
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes pending buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}
	if err := w.dst.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Error reports the first error encountered by the writer.
func (w *Writer) Error() error {
	if w == nil {
		return errNilWriter
	}
	return w.err
}

func (w *Writer) shouldQuote(field string, comma, quote byte) (bool, error) {
	switch w.Quoting {
	case QuoteAll:
		return true, nil
	case QuoteNonNumeric:
		if isNumeric(field) {
			return false, nil
		}
		return true, nil
	case QuoteNone:
		if fieldNeedsQuote(field, comma, quote) {
			return false, ErrNeedsQuote
		}
		return false, nil
	default:
		return fieldNeedsQuote(field, comma, quote), nil
	}
}

func (w *Writer) writeField(field string, quote byte, quoted bool) error {
	if !quoted {
		_, err := w.dst.WriteString(field)
		return err
	}
	if err := w.dst.WriteByte(quote); err != nil {
		return err
	}
	for {
		i := strings.IndexByte(field, quote)
		if i < 0 {
			break
		}
		if _, err := w.dst.WriteString(field[:i+1]); err != nil {
			return err
		}
		if err := w.dst.WriteByte(quote); err != nil {
			return err
		}
		field = field[i+1:]
	}
	if _, err := w.dst.WriteString(field); err != nil {
		return err
	}
	return w.dst.WriteByte(quote)
}

func fieldNeedsQuote(field string, comma, quote byte) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case quote, comma, '\n', '\r':
			return true
		}
	}
	return false
}

func isNumeric(field string) bool {
	if field == "" {
		return false
	}
	_, err := strconv.ParseFloat(field, 64)
	return err == nil
}
