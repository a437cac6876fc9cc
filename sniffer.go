package comma

import (
	"regexp"
	"strings"
)

// Sniffer infers a dialect and whether the first record is a header from a raw sample.
type Sniffer interface {
	Sniff(sample []byte) (Dialect, bool, error)
}

// SnifferFunc adapts a plain function to the Sniffer interface.
type SnifferFunc func(sample []byte) (Dialect, bool, error)

// Sniff implements Sniffer.
func (f SnifferFunc) Sniff(sample []byte) (Dialect, bool, error) {
	return f(sample)
}

var defaultDelimiters = []byte{',', '\t', ';', '|'}

var (
	headerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`),       // snake_case or identifier
		regexp.MustCompile(`^[a-zA-Z]+[A-Z][a-zA-Z]*$`),      // camelCase
		regexp.MustCompile(`^[A-Z][a-z]+([ ][A-Z][a-z]+)*$`), // Title Case
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	}
)

// HeuristicSniffer scores candidate delimiters by how consistently they split the sample's
// lines, and treats the first line as a header when it looks like names over typed data.
type HeuristicSniffer struct {
	// Delimiters lists the candidates in order of preference. Default: comma, tab, semicolon, pipe.
	Delimiters []byte
}

// Sniff implements Sniffer.
func (s HeuristicSniffer) Sniff(sample []byte) (Dialect, bool, error) {
	text := string(sample)
	lines := sampleLines(text)
	if len(lines) == 0 {
		return Dialect{}, false, ErrSniffFailed
	}

	candidates := s.Delimiters
	if len(candidates) == 0 {
		candidates = defaultDelimiters
	}

	d := DefaultDialect
	d.Quote = detectQuote(lines, candidates)
	d.Delimiter = detectDelimiter(lines, candidates, d.Quote)
	if d.Delimiter == d.Quote {
		d.Quote = DefaultDialect.Quote
	}
	if !strings.Contains(text, "\r\n") && strings.Contains(text, "\n") {
		d.LineTerminator = "\n"
	}
	return d, detectHeader(lines, d.Delimiter, d.Quote), nil
}

// sampleLines splits the sample into non-empty lines. A trailing line without a terminator is
// dropped when other lines exist since the sample probably cut it short.
func sampleLines(text string) []string {
	raw := strings.Split(text, "\n")
	truncated := !strings.HasSuffix(text, "\n") && len(raw) > 1
	if truncated {
		raw = raw[:len(raw)-1]
	}
	lines := raw[:0]
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// detectQuote picks the quote character opening the most fields.
func detectQuote(lines []string, delimiters []byte) byte {
	counts := map[byte]int{}
	for _, line := range lines {
		for i := 0; i < len(line); i++ {
			c := line[i]
			if c != '"' && c != '\'' {
				continue
			}
			if i == 0 || strings.IndexByte(string(delimiters), line[i-1]) >= 0 {
				counts[c]++
			}
		}
	}
	if counts['\''] > counts['"'] {
		return '\''
	}
	return '"'
}

// detectDelimiter rewards delimiters that appear the same number of times on every line.
func detectDelimiter(lines []string, delimiters []byte, quote byte) byte {
	best := delimiters[0]
	bestScore := 0
	for _, delim := range delimiters {
		counts := make([]int, 0, len(lines))
		for _, line := range lines {
			counts = append(counts, countDelimiter(line, delim, quote))
		}
		if counts[0] == 0 {
			continue
		}
		score := counts[0]
		consistent := true
		for _, c := range counts[1:] {
			if c != counts[0] {
				consistent = false
				break
			}
		}
		if consistent {
			score *= 10
		}
		if score > bestScore {
			best = delim
			bestScore = score
		}
	}
	return best
}

// countDelimiter counts occurrences of a delimiter, ignoring quoted sections.
func countDelimiter(line string, delim, quote byte) int {
	count := 0
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case quote:
			inQuotes = !inQuotes
		case delim:
			if !inQuotes {
				count++
			}
		}
	}
	return count
}

// detectHeader reports whether the first line names the columns of the lines below it.
func detectHeader(lines []string, delim, quote byte) bool {
	if len(lines) < 2 {
		return false
	}
	first := splitByDelimiter(lines[0], delim, quote)

	named := 0
	for _, field := range first {
		if isLikelyData(field) {
			return false
		}
		if isLikelyHeader(field) {
			named++
		}
	}

	// A column whose body is numeric but whose first cell is not strongly suggests a header.
	typed := 0
	for col := range first {
		numeric := true
		for _, line := range lines[1:] {
			fields := splitByDelimiter(line, delim, quote)
			if col >= len(fields) || !isNumeric(fields[col]) {
				numeric = false
				break
			}
		}
		if numeric {
			typed++
		}
	}
	return typed > 0 || named*2 > len(first)
}

func isLikelyHeader(s string) bool {
	if s == "" || isNumeric(s) {
		return false
	}
	for _, pattern := range headerPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

func isLikelyData(s string) bool {
	if s == "" {
		return false
	}
	if isNumeric(s) || strings.Contains(s, "@") {
		return true
	}
	for _, pattern := range datePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// splitByDelimiter splits a line by delimiter, respecting and stripping quotes.
func splitByDelimiter(line string, delim, quote byte) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == quote:
			inQuotes = !inQuotes
		case c == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}
