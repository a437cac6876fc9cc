package comma

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding"
)

// DefaultSniffSize is the number of bytes sampled for dialect detection unless WithSniff says otherwise.
const DefaultSniffSize = 1024

// AccessMode says which directions a session opens.
type AccessMode int

const (
	// ReadOnly opens an input stream only.
	ReadOnly AccessMode = iota + 1
	// WriteOnly creates or truncates the target and opens an output stream only.
	WriteOnly
	// ReadWrite edits an existing target in place, or creates it when missing.
	ReadWrite
)

func (m AccessMode) String() string {
	switch m {
	case ReadOnly:
		return "read-only"
	case WriteOnly:
		return "write-only"
	case ReadWrite:
		return "read-write"
	}
	return fmt.Sprintf("AccessMode(%d)", int(m))
}

// Readable reports whether m includes reading.
func (m AccessMode) Readable() bool { return m == ReadOnly || m == ReadWrite }

// Writable reports whether m includes writing.
func (m AccessMode) Writable() bool { return m == WriteOnly || m == ReadWrite }

type options struct {
	dialect        *Dialect
	hasHeader      *bool
	sniffSize      int
	sniffer        Sniffer
	backup         bool
	backupTemplate string
	parsers        Transform[ParseFunc]
	serializers    Transform[SerializeFunc]
	encoding       encoding.Encoding
	fs             afero.Fs
	logger         *slog.Logger
}

// Option configures a Session.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		sniffSize: DefaultSniffSize,
		sniffer:   HeuristicSniffer{},
		fs:        afero.NewOsFs(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithDialect fixes the dialect and skips sniffing for it.
func WithDialect(d Dialect) Option {
	return func(o *options) {
		o.dialect = &d
	}
}

// WithHeader says whether the first record is a header, skipping sniffing for it.
func WithHeader(has bool) Option {
	return func(o *options) {
		o.hasHeader = &has
	}
}

// WithSniff sets the sample size for dialect detection. Zero or less disables sniffing.
func WithSniff(size int) Option {
	return func(o *options) {
		o.sniffSize = size
	}
}

// WithSniffer replaces the heuristic sniffer.
func WithSniffer(s Sniffer) Option {
	return func(o *options) {
		if s != nil {
			o.sniffer = s
		}
	}
}

// WithBackup copies the target before the first write. The suffix is the current time
// formatted with template, DefaultBackupTemplate when empty. Only Open honours it.
func WithBackup(template string) Option {
	return func(o *options) {
		o.backup = true
		o.backupTemplate = template
	}
}

// WithParsers sets the column parsers shared by every row of the session.
func WithParsers(t Transform[ParseFunc]) Option {
	return func(o *options) {
		o.parsers = t
	}
}

// WithSerializers sets the column serializers shared by every row of the session.
func WithSerializers(t Transform[SerializeFunc]) Option {
	return func(o *options) {
		o.serializers = t
	}
}

// WithEncoding decodes input from and encodes output to e instead of UTF-8.
func WithEncoding(e encoding.Encoding) Option {
	return func(o *options) {
		o.encoding = e
	}
}

// WithFs sets the filesystem Open and backups go through.
func WithFs(fsys afero.Fs) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithLogger sets the logger for session events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
