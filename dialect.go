package comma

import (
	"fmt"
	"io"
	"strings"
)

// QuotingPolicy selects which fields the writer wraps in quotes.
type QuotingPolicy int

const (
	// QuoteMinimal quotes only fields containing the delimiter, the quote or a line break.
	QuoteMinimal QuotingPolicy = iota
	// QuoteAll quotes every field.
	QuoteAll
	// QuoteNonNumeric quotes every field that does not parse as a number.
	QuoteNonNumeric
	// QuoteNone never quotes; fields that would need quoting are rejected.
	QuoteNone
)

var quotingNames = [...]string{
	QuoteMinimal:    "minimal",
	QuoteAll:        "all",
	QuoteNonNumeric: "nonnumeric",
	QuoteNone:       "none",
}

func (q QuotingPolicy) String() string {
	if q < 0 || int(q) >= len(quotingNames) {
		return fmt.Sprintf("QuotingPolicy(%d)", int(q))
	}
	return quotingNames[q]
}

// UnmarshalText lets configuration files name a policy, e.g. "nonnumeric" or "non-numeric".
func (q *QuotingPolicy) UnmarshalText(text []byte) error {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(string(text))), "-", "")
	name = strings.ReplaceAll(name, "_", "")
	for i, n := range quotingNames {
		if n == name {
			*q = QuotingPolicy(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown quoting policy %q", ErrInvalidDialect, string(text))
}

// Dialect bundles the formatting conventions handed to the Reader and Writer.
type Dialect struct {
	// Delimiter separates fields.
	Delimiter byte
	// Quote encloses fields that contain special characters.
	Quote byte
	// Quoting controls which fields the writer quotes.
	Quoting QuotingPolicy
	// LineTerminator ends every written record. Readers accept \n, \r and \r\n regardless.
	LineTerminator string
	// Strict rejects bare and unterminated quotes instead of keeping them literally.
	Strict bool
}

// DefaultDialect is used when no dialect is supplied and sniffing is off.
var DefaultDialect = Dialect{
	Delimiter:      ',',
	Quote:          '"',
	Quoting:        QuoteMinimal,
	LineTerminator: "\r\n",
}

// Validate checks the dialect invariants.
func (d Dialect) Validate() error {
	switch {
	case d.Delimiter == d.Quote:
		return fmt.Errorf("%w: delimiter and quote are both %q", ErrInvalidDialect, d.Delimiter)
	case d.Delimiter == '\r' || d.Delimiter == '\n' || d.Delimiter == 0:
		return fmt.Errorf("%w: delimiter %q", ErrInvalidDialect, d.Delimiter)
	case d.Quote == '\r' || d.Quote == '\n' || d.Quote == 0:
		return fmt.Errorf("%w: quote %q", ErrInvalidDialect, d.Quote)
	case d.LineTerminator == "":
		return fmt.Errorf("%w: empty line terminator", ErrInvalidDialect)
	case d.Quoting < QuoteMinimal || d.Quoting > QuoteNone:
		return fmt.Errorf("%w: quoting %v", ErrInvalidDialect, d.Quoting)
	}
	return nil
}

// NewReader returns a Reader over r configured for d. Record widths are not enforced.
func (d Dialect) NewReader(r io.Reader) *Reader {
	rd := NewReader(r)
	rd.Comma = d.Delimiter
	rd.Quote = d.Quote
	rd.LazyQuotes = !d.Strict
	rd.FieldsPerRecord = -1
	return rd
}

// NewWriter returns a Writer over w configured for d.
func (d Dialect) NewWriter(w io.Writer) *Writer {
	wr := NewWriter(w)
	wr.Comma = d.Delimiter
	wr.Quote = d.Quote
	wr.Quoting = d.Quoting
	wr.Terminator = d.LineTerminator
	return wr
}
