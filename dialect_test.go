package comma

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDialectValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultDialect.Validate())

	tests := []struct {
		name   string
		mutate func(*Dialect)
	}{
		{"delimiterEqualsQuote", func(d *Dialect) { d.Quote = ',' }},
		{"newlineDelimiter", func(d *Dialect) { d.Delimiter = '\n' }},
		{"zeroQuote", func(d *Dialect) { d.Quote = 0 }},
		{"emptyTerminator", func(d *Dialect) { d.LineTerminator = "" }},
		{"unknownQuoting", func(d *Dialect) { d.Quoting = QuotingPolicy(42) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := DefaultDialect
			tc.mutate(&d)
			require.ErrorIs(t, d.Validate(), ErrInvalidDialect)
		})
	}
}

func TestQuotingPolicyText(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"nonnumeric", "non-numeric", "NON_NUMERIC"} {
		var q QuotingPolicy
		require.NoError(t, q.UnmarshalText([]byte(name)))
		require.Equal(t, QuoteNonNumeric, q)
	}

	var q QuotingPolicy
	require.ErrorIs(t, q.UnmarshalText([]byte("sometimes")), ErrInvalidDialect)

	require.Equal(t, "all", QuoteAll.String())
	require.Equal(t, "QuotingPolicy(9)", QuotingPolicy(9).String())
}

func TestDialectConfiguresCodec(t *testing.T) {
	t.Parallel()

	d := Dialect{Delimiter: ';', Quote: '\'', Quoting: QuoteAll, LineTerminator: "\n", Strict: true}

	r := d.NewReader(strings.NewReader(""))
	require.Equal(t, byte(';'), r.Comma)
	require.Equal(t, byte('\''), r.Quote)
	require.False(t, r.LazyQuotes)
	require.Equal(t, -1, r.FieldsPerRecord)

	w := d.NewWriter(io.Discard)
	require.Equal(t, byte(';'), w.Comma)
	require.Equal(t, QuoteAll, w.Quoting)
	require.Equal(t, "\n", w.Terminator)

	require.True(t, DefaultDialect.NewReader(strings.NewReader("")).LazyQuotes)
}
