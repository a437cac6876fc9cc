package comma

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"golang.org/x/text/encoding/htmlindex"
)

// Config is the file form of session options. Unset fields keep the option defaults.
type Config struct {
	Dialect struct {
		Delimiter      string        `mapstructure:"delimiter"`
		Quote          string        `mapstructure:"quote"`
		Quoting        QuotingPolicy `mapstructure:"quoting"`
		LineTerminator string        `mapstructure:"line_terminator"`
		Strict         bool          `mapstructure:"strict"`
	} `mapstructure:"dialect"`

	HasHeader *bool  `mapstructure:"has_header"`
	SniffSize *int   `mapstructure:"sniff_size"`
	Encoding  string `mapstructure:"encoding"`

	Backup struct {
		Enabled  bool   `mapstructure:"enabled"`
		Template string `mapstructure:"template"`
	} `mapstructure:"backup"`
}

// LoadConfig reads a YAML, TOML or JSON file, picking the format from its extension.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc())); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

var terminatorAliases = map[string]string{
	"crlf": "\r\n",
	"lf":   "\n",
	"cr":   "\r",
}

// Options converts the configuration into session options.
func (c *Config) Options() ([]Option, error) {
	var opts []Option

	d := c.Dialect
	if d.Delimiter != "" || d.Quote != "" || d.LineTerminator != "" || d.Quoting != QuoteMinimal || d.Strict {
		dialect := DefaultDialect
		dialect.Quoting = d.Quoting
		dialect.Strict = d.Strict
		if d.Delimiter != "" {
			b, err := singleByte("delimiter", d.Delimiter)
			if err != nil {
				return nil, err
			}
			dialect.Delimiter = b
		}
		if d.Quote != "" {
			b, err := singleByte("quote", d.Quote)
			if err != nil {
				return nil, err
			}
			dialect.Quote = b
		}
		if d.LineTerminator != "" {
			dialect.LineTerminator = d.LineTerminator
			if alias, ok := terminatorAliases[strings.ToLower(d.LineTerminator)]; ok {
				dialect.LineTerminator = alias
			}
		}
		if err := dialect.Validate(); err != nil {
			return nil, err
		}
		opts = append(opts, WithDialect(dialect))
	}

	if c.HasHeader != nil {
		opts = append(opts, WithHeader(*c.HasHeader))
	}
	if c.SniffSize != nil {
		opts = append(opts, WithSniff(*c.SniffSize))
	}
	if c.Encoding != "" {
		enc, err := htmlindex.Get(c.Encoding)
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", c.Encoding, err)
		}
		opts = append(opts, WithEncoding(enc))
	}
	if c.Backup.Enabled {
		opts = append(opts, WithBackup(c.Backup.Template))
	}
	return opts, nil
}

func singleByte(field, s string) (byte, error) {
	if s == `\t` || strings.EqualFold(s, "tab") {
		return '\t', nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: %s must be a single byte, got %q", ErrInvalidDialect, field, s)
	}
	return s[0], nil
}
