package comma

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// ParseInt parses base-10 text into an int64. Empty text is zero.
func ParseInt(text string) (any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return int64(0), nil
	}
	return strconv.ParseInt(text, 10, 64)
}

// ParseFloat parses text into a float64. Empty text is zero.
func ParseFloat(text string) (any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return float64(0), nil
	}
	return strconv.ParseFloat(text, 64)
}

// ParseBool recognises true/false, 1/0, yes/no, y/n, on/off and t/f, ignoring case.
func ParseBool(text string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, nil
	case "false", "0", "no", "n", "off", "f", "":
		return false, nil
	}
	return false, fmt.Errorf("cannot convert %q to bool", text)
}

// ParseTime returns a parser for the given time layout. Empty text is the zero time.
func ParseTime(layout string) ParseFunc {
	return func(text string) (any, error) {
		text = strings.TrimSpace(text)
		if text == "" {
			return time.Time{}, nil
		}
		return time.Parse(layout, text)
	}
}

// FormatAny renders scalars, byte slices, Stringers and errors as text. nil becomes "".
// It is the serializer used for columns without one.
func FormatAny(value any) (string, error) {
	return cast.ToStringE(value)
}

// FormatTime returns a serializer writing time values with layout.
func FormatTime(layout string) SerializeFunc {
	return func(value any) (string, error) {
		switch t := value.(type) {
		case time.Time:
			return t.Format(layout), nil
		case *time.Time:
			if t == nil {
				return "", nil
			}
			return t.Format(layout), nil
		}
		return FormatAny(value)
	}
}

// FormatFloat returns a serializer writing numbers with prec decimal places.
func FormatFloat(prec int) SerializeFunc {
	return func(value any) (string, error) {
		f, err := cast.ToFloat64E(value)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(f, 'f', prec, 64), nil
	}
}
