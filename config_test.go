package comma

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "comma.yaml", `
dialect:
  delimiter: ";"
  quoting: non-numeric
  line_terminator: lf
has_header: false
sniff_size: 0
encoding: iso-8859-2
backup:
  enabled: true
  template: "2006"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, QuoteNonNumeric, cfg.Dialect.Quoting)
	require.NotNil(t, cfg.HasHeader)
	require.False(t, *cfg.HasHeader)

	opts, err := cfg.Options()
	require.NoError(t, err)

	o := newOptions(opts)
	require.NotNil(t, o.dialect)
	require.Equal(t, Dialect{
		Delimiter:      ';',
		Quote:          '"',
		Quoting:        QuoteNonNumeric,
		LineTerminator: "\n",
	}, *o.dialect)
	require.NotNil(t, o.hasHeader)
	require.False(t, *o.hasHeader)
	require.Zero(t, o.sniffSize)
	require.Equal(t, charmap.ISO8859_2, o.encoding)
	require.True(t, o.backup)
	require.Equal(t, "2006", o.backupTemplate)
}

func TestLoadConfigTOML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "comma.toml", `
has_header = true

[dialect]
delimiter = "tab"
quote = "'"
quoting = "all"
strict = true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	opts, err := cfg.Options()
	require.NoError(t, err)

	s, err := FromReader(strings.NewReader("'a\tb'\tc\n"), opts...)
	require.NoError(t, err)

	d := s.Dialect()
	require.Equal(t, byte('\t'), d.Delimiter)
	require.Equal(t, byte('\''), d.Quote)
	require.Equal(t, QuoteAll, d.Quoting)
	require.Equal(t, "\r\n", d.LineTerminator)
	require.True(t, d.Strict)
	require.Equal(t, []string{"a\tb", "c"}, s.Header())
}

func TestLoadConfigEmpty(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(writeConfig(t, "comma.json", `{}`))
	require.NoError(t, err)

	opts, err := cfg.Options()
	require.NoError(t, err)
	require.Empty(t, opts)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read config")

	_, err = LoadConfig(writeConfig(t, "bad.yaml", "dialect:\n  quoting: sometimes\n"))
	require.ErrorContains(t, err, "unmarshal config")

	cfg, err := LoadConfig(writeConfig(t, "delim.yaml", "dialect:\n  delimiter: \";;\"\n"))
	require.NoError(t, err)
	_, err = cfg.Options()
	require.ErrorIs(t, err, ErrInvalidDialect)

	cfg, err = LoadConfig(writeConfig(t, "same.yaml", "dialect:\n  delimiter: \"'\"\n  quote: \"'\"\n"))
	require.NoError(t, err)
	_, err = cfg.Options()
	require.ErrorIs(t, err, ErrInvalidDialect)

	cfg, err = LoadConfig(writeConfig(t, "enc.yaml", "encoding: klingon\n"))
	require.NoError(t, err)
	_, err = cfg.Options()
	require.ErrorContains(t, err, "klingon")
}
