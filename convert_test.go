package comma

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParsers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		parse ParseFunc
		input string
		want  any
	}{
		{"int", ParseInt, " 42 ", int64(42)},
		{"intLeadingZero", ParseInt, "007", int64(7)},
		{"intEmpty", ParseInt, "", int64(0)},
		{"float", ParseFloat, "2.5", 2.5},
		{"floatEmpty", ParseFloat, "", float64(0)},
		{"boolYes", ParseBool, "Yes", true},
		{"boolOff", ParseBool, "off", false},
		{"boolEmpty", ParseBool, "", false},
		{"time", ParseTime(time.DateOnly), "2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"timeEmpty", ParseTime(time.DateOnly), "", time.Time{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.parse(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	for _, bad := range []struct {
		parse ParseFunc
		input string
	}{
		{ParseInt, "1.5"},
		{ParseFloat, "abc"},
		{ParseBool, "maybe"},
		{ParseTime(time.DateOnly), "29/02/2024"},
	} {
		_, err := bad.parse(bad.input)
		require.Error(t, err, "input %q", bad.input)
	}
}

type stringer struct{}

func (stringer) String() string { return "custom" }

func TestSerializers(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 2, 29, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		serialize SerializeFunc
		input     any
		want      string
	}{
		{"anyInt", FormatAny, 12, "12"},
		{"anyFloat", FormatAny, 0.5, "0.5"},
		{"anyBool", FormatAny, false, "false"},
		{"anyNil", FormatAny, nil, ""},
		{"anyStringer", FormatAny, stringer{}, "custom"},
		{"anyError", FormatAny, errors.New("oops"), "oops"},
		{"time", FormatTime(time.DateOnly), day, "2024-02-29"},
		{"timePointer", FormatTime(time.DateOnly), &day, "2024-02-29"},
		{"timeNilPointer", FormatTime(time.DateOnly), (*time.Time)(nil), ""},
		{"timeFallback", FormatTime(time.DateOnly), "as is", "as is"},
		{"float", FormatFloat(2), 3, "3.00"},
		{"floatFromString", FormatFloat(1), "2.26", "2.3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.serialize(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	_, err := FormatAny(struct{ A int }{1})
	require.Error(t, err)
	_, err = FormatFloat(1)("abc")
	require.Error(t, err)
}
