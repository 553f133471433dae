// Package fasta reads FASTA references and FASTA or FASTQ query files.
package fasta

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/hupe1980/seqmap/sequence"
)

// ErrFormat is returned for input that is neither FASTA nor FASTQ.
var ErrFormat = errors.New("fasta: malformed input")

// Record is one named sequence. Qual is nil for FASTA input.
type Record struct {
	Name string
	Seq  []byte
	Qual []byte
}

// Reader reads records one at a time. It detects FASTQ by the '@' that
// starts its first record.
type Reader struct {
	br      *bufio.Reader
	line    int
	pending []byte
	started bool
	fastq   bool
}

// NewReader returns a reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 1<<16)}
}

func (r *Reader) readLine() ([]byte, error) {
	if r.pending != nil {
		line := r.pending
		r.pending = nil
		return line, nil
	}
	for {
		line, err := r.br.ReadBytes('\n')
		if len(line) == 0 && err != nil {
			return nil, err
		}
		r.line++
		line = bytes.TrimRight(line, "\r\n")
		if len(line) > 0 {
			return line, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (r *Reader) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrFormat, r.line, fmt.Sprintf(format, args...))
}

// Read returns the next record, or io.EOF after the last one.
func (r *Reader) Read() (*Record, error) {
	header, err := r.readLine()
	if err != nil {
		return nil, err
	}
	if !r.started {
		r.started = true
		r.fastq = header[0] == '@'
	}
	if r.fastq {
		return r.readFASTQ(header)
	}
	if header[0] != '>' {
		return nil, r.errorf("expected '>'")
	}
	rec := &Record{Name: name(header)}
	for {
		line, err := r.readLine()
		if errors.Is(err, io.EOF) {
			return rec, nil
		}
		if err != nil {
			return nil, err
		}
		if line[0] == '>' {
			r.pending = bytes.Clone(line)
			return rec, nil
		}
		rec.Seq = append(rec.Seq, line...)
	}
}

func (r *Reader) readFASTQ(header []byte) (*Record, error) {
	if header[0] != '@' {
		return nil, r.errorf("expected '@'")
	}
	rec := &Record{Name: name(header)}
	seq, err := r.readLine()
	if err != nil {
		return nil, r.errorf("missing sequence for %q", rec.Name)
	}
	rec.Seq = bytes.Clone(seq)
	plus, err := r.readLine()
	if err != nil || plus[0] != '+' {
		return nil, r.errorf("missing '+' for %q", rec.Name)
	}
	qual, err := r.readLine()
	if err != nil {
		return nil, r.errorf("missing quality for %q", rec.Name)
	}
	if len(qual) != len(rec.Seq) {
		return nil, r.errorf("quality length %d differs from sequence length %d", len(qual), len(rec.Seq))
	}
	rec.Qual = bytes.Clone(qual)
	return rec, nil
}

// name returns the first word after the record marker.
func name(header []byte) string {
	fields := strings.Fields(string(header[1:]))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ReadAll reads every remaining record.
func (r *Reader) ReadAll() ([]*Record, error) {
	var recs []*Record
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return recs, nil
		}
		if err != nil {
			return recs, err
		}
		recs = append(recs, rec)
	}
}

// Open opens path for reading. "-" is standard input, and gzip input is
// detected by its magic bytes.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	if sig, _ := br.Peek(2); len(sig) == 2 && sig[0] == 0x1f && sig[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return &readCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	}
	return &readCloser{Reader: br, closers: []io.Closer{f}}, nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (c *readCloser) Close() error {
	var errs []error
	for _, cl := range c.closers {
		errs = append(errs, cl.Close())
	}
	return errors.Join(errs...)
}

// Sequences reads every record of r as a reference sequence. IDs are
// assigned from firstID in file order.
func Sequences(r io.Reader, path string, firstID int) ([]*sequence.Sequence, error) {
	fr := NewReader(r)
	var seqs []*sequence.Sequence
	for {
		rec, err := fr.Read()
		if errors.Is(err, io.EOF) {
			return seqs, nil
		}
		if err != nil {
			return nil, err
		}
		b := sequence.NewBuilder(rec.Name, path, firstID+len(seqs))
		if _, err := b.Write(rec.Seq); err != nil {
			return nil, fmt.Errorf("fasta: %s: %w", rec.Name, err)
		}
		seqs = append(seqs, b.Build())
	}
}

// ReadFile reads the reference sequences in path.
func ReadFile(path string, firstID int) ([]*sequence.Sequence, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Sequences(rc, path, firstID)
}
