package comma

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"golang.org/x/text/transform"
)

// File is an open resource a session can rewrite in place. *os.File and afero.File satisfy it.
type File interface {
	io.ReadWriteSeeker
	io.Closer
	Truncate(size int64) error
}

// Session reads rows from and writes rows to one delimited resource.
//
// When reading and writing the same resource, the session reads the whole resource into a
// snapshot before anything is written and keeps output in memory until Close, which rewrites
// the resource. A session is not safe for concurrent use, and two sessions must not share a
// resource. Close must be called exactly once; later calls return ErrSessionClosed.
type Session struct {
	mode      AccessMode
	closed    bool
	dialect   Dialect
	hasHeader bool
	header    *Header

	parsers     Transform[ParseFunc]
	serializers Transform[SerializeFunc]

	reader  *Reader
	writer  *Writer
	encoder io.WriteCloser
	target  File
	buffer  *bytes.Buffer
	closers []io.Closer

	path       string
	backupPath string
	logger     *slog.Logger
}

// Open opens the file at path. ReadOnly requires the file to exist. WriteOnly creates or
// truncates it. ReadWrite edits an existing file in place and falls back to WriteOnly when the
// file does not exist yet. With WithBackup, an existing file is copied before any write.
func Open(path string, mode AccessMode, opts ...Option) (*Session, error) {
	o := newOptions(opts)

	exists, err := afero.Exists(o.fs, path)
	if err != nil {
		return nil, err
	}
	if mode == ReadWrite && !exists {
		o.logger.Debug("comma: target missing, creating it", "path", path)
		mode = WriteOnly
	}

	var backupPath string
	if o.backup && mode.Writable() && exists {
		_, backupPath, err = MakeBackup(o.fs, path, o.backupTemplate)
		if err != nil {
			return nil, fmt.Errorf("backup %s: %w", path, err)
		}
		o.logger.Info("comma: backup created", "path", path, "backup", backupPath)
	}

	var s *Session
	switch mode {
	case ReadOnly:
		f, err := o.fs.Open(path)
		if err != nil {
			return nil, err
		}
		s, err = newSession(mode, f, nil, o)
		if err != nil {
			f.Close()
			return nil, err
		}
		s.closers = append(s.closers, f)
	case WriteOnly:
		f, err := o.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, err
		}
		s, err = newSession(mode, nil, f, o)
		if err != nil {
			f.Close()
			return nil, err
		}
		s.closers = append(s.closers, f)
	case ReadWrite:
		f, err := o.fs.OpenFile(path, os.O_RDWR, 0)
		if err != nil {
			return nil, err
		}
		s, err = newInPlaceSession(f, o)
		if err != nil {
			f.Close()
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: access mode %v", ErrArgument, mode)
	}

	s.path = path
	s.backupPath = backupPath
	return s, nil
}

// FromReader opens a read-only session over r. Close closes r if it is an io.Closer.
func FromReader(r io.Reader, opts ...Option) (*Session, error) {
	o := newOptions(opts)
	if err := rejectBackup(o); err != nil {
		return nil, err
	}
	s, err := newSession(ReadOnly, r, nil, o)
	if err != nil {
		return nil, err
	}
	if c, ok := r.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
	return s, nil
}

// FromWriter opens a write-only session over w. Close closes w if it is an io.Closer.
func FromWriter(w io.Writer, opts ...Option) (*Session, error) {
	o := newOptions(opts)
	if err := rejectBackup(o); err != nil {
		return nil, err
	}
	s, err := newSession(WriteOnly, nil, w, o)
	if err != nil {
		return nil, err
	}
	if c, ok := w.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
	return s, nil
}

// FromFile opens a read-write session that edits f in place from its current offset.
// Close rewrites f from the start and closes it.
func FromFile(f File, opts ...Option) (*Session, error) {
	o := newOptions(opts)
	if err := rejectBackup(o); err != nil {
		return nil, err
	}
	return newInPlaceSession(f, o)
}

func rejectBackup(o *options) error {
	if o.backup {
		return fmt.Errorf("%w: backups need a path, use Open", ErrArgument)
	}
	return nil
}

func newInPlaceSession(f File, o *options) (*Session, error) {
	snapshot, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	buf := &bytes.Buffer{}
	s, err := newSession(ReadWrite, bytes.NewReader(snapshot), buf, o)
	if err != nil {
		return nil, err
	}
	s.target = f
	s.buffer = buf
	s.closers = append(s.closers, f)
	return s, nil
}

func newSession(mode AccessMode, in io.Reader, out io.Writer, o *options) (*Session, error) {
	s := &Session{
		mode:        mode,
		parsers:     o.parsers,
		serializers: o.serializers,
		logger:      o.logger,
	}

	var src *bufio.Reader
	if in != nil {
		if o.encoding != nil {
			in = transform.NewReader(in, o.encoding.NewDecoder())
		}
		src = bufio.NewReaderSize(in, max(defaultBufferSize, o.sniffSize))
	}

	dialect, hasHeader := o.dialect, o.hasHeader
	if src != nil && o.sniffSize > 0 && (dialect == nil || hasHeader == nil) {
		sniffed, sniffedHeader, err := sniff(src, o)
		switch {
		case errors.Is(err, ErrSniffFailed):
			s.logger.Debug("comma: sniffing found nothing, using defaults", "error", err)
		case err != nil:
			return nil, err
		default:
			if dialect == nil {
				dialect = &sniffed
			}
			if hasHeader == nil {
				hasHeader = &sniffedHeader
			}
		}
	}
	s.dialect = DefaultDialect
	if dialect != nil {
		s.dialect = *dialect
	}
	s.hasHeader = hasHeader == nil || *hasHeader
	if err := s.dialect.Validate(); err != nil {
		return nil, err
	}

	if src != nil {
		s.reader = s.dialect.NewReader(src)
	}
	if out != nil {
		if o.encoding != nil {
			tw := transform.NewWriter(out, o.encoding.NewEncoder())
			s.encoder = tw
			out = tw
		}
		s.writer = s.dialect.NewWriter(out)
	}

	if s.hasHeader && s.reader != nil {
		record, err := s.reader.Read()
		switch {
		case err == io.EOF:
		case err != nil:
			return nil, fmt.Errorf("read header: %w", err)
		default:
			s.header = NewHeader(record)
		}
	}

	s.logger.Debug("comma: session opened",
		"mode", mode,
		"delimiter", string(s.dialect.Delimiter),
		"has_header", s.hasHeader,
		"columns", s.header.Len(),
	)
	return s, nil
}

// sniff peeks at the head of src without consuming it.
func sniff(src *bufio.Reader, o *options) (Dialect, bool, error) {
	sample, err := src.Peek(o.sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return Dialect{}, false, fmt.Errorf("sniff: %w", err)
	}
	return o.sniffer.Sniff(sample)
}

// Next reads the next row. It returns io.EOF when the input is exhausted.
func (s *Session) Next() (*Row, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.reader == nil {
		return nil, ErrNotReadable
	}
	record, err := s.reader.Read()
	if err != nil {
		return nil, err
	}
	return NewRow(RowInput{
		Text:        record,
		Header:      s.header,
		Parsers:     s.parsers,
		Serializers: s.serializers,
	})
}

// Rows iterates over the remaining rows. Iteration stops after the first error.
func (s *Session) Rows() iter.Seq2[*Row, error] {
	return func(yield func(*Row, error) bool) {
		for {
			row, err := s.Next()
			if err == io.EOF {
				return
			}
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}

// WriteHeader writes the header record. It does nothing when no header is configured.
func (s *Session) WriteHeader() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.writer == nil {
		return ErrNotWritable
	}
	if !s.hasHeader || s.header == nil {
		s.logger.Debug("comma: no header to write")
		return nil
	}
	return s.writer.Write(s.header.names)
}

// WriteRow writes one record. data is a *Row, written as stored, or a []any, []string or
// map[string]any, serialized through the session's serializers. Maps are laid out by the header.
func (s *Session) WriteRow(data any) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.writer == nil {
		return ErrNotWritable
	}

	in := RowInput{Header: s.header, Parsers: s.parsers, Serializers: s.serializers}
	switch v := data.(type) {
	case *Row:
		return s.writer.Write(v.fields)
	case []any:
		in.Native = v
	case []string:
		in.Native = make([]any, len(v))
		for i, text := range v {
			in.Native[i] = text
		}
	case map[string]any:
		if !s.hasHeader {
			return ErrMissingHeader
		}
		in.Values = v
	default:
		return fmt.Errorf("%w: cannot write %T as a row", ErrArgument, data)
	}

	row, err := NewRow(in)
	if err != nil {
		return err
	}
	return s.writer.Write(row.fields)
}

// Close flushes output and releases the streams. In-place sessions rewrite the resource with
// everything written and truncate it to that length.
func (s *Session) Close() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true

	var err error
	if s.writer != nil {
		err = multierr.Append(err, s.writer.Flush())
	}
	if s.encoder != nil {
		err = multierr.Append(err, s.encoder.Close())
	}
	if s.target != nil && err == nil {
		err = multierr.Append(err, s.rewrite())
	}
	for _, c := range s.closers {
		err = multierr.Append(err, c.Close())
	}

	s.logger.Debug("comma: session closed", "path", s.path, "error", err)
	return err
}

func (s *Session) rewrite() error {
	if _, err := s.target.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind: %w", err)
	}
	n, err := s.target.Write(s.buffer.Bytes())
	if err != nil {
		return fmt.Errorf("rewrite: %w", err)
	}
	if err := s.target.Truncate(int64(n)); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	return nil
}

// Header returns a copy of the current header, or nil when the session has none.
func (s *Session) Header() []string {
	if !s.hasHeader {
		return nil
	}
	return s.header.Names()
}

// SetHeader replaces the header for rows produced from now on. Rows already returned keep
// the header they were built with.
func (s *Session) SetHeader(names []string) {
	s.hasHeader = true
	s.header = NewHeader(names)
}

// HasHeader reports whether the session treats the first record as a header.
func (s *Session) HasHeader() bool { return s.hasHeader }

// Dialect returns the dialect in use.
func (s *Session) Dialect() Dialect { return s.dialect }

// Mode returns the effective access mode.
func (s *Session) Mode() AccessMode { return s.mode }

// Path returns the path given to Open, or "" for stream sessions.
func (s *Session) Path() string { return s.path }

// BackupPath returns the backup made by Open, or "".
func (s *Session) BackupPath() string { return s.backupPath }
