package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/seqmap/blobstore"
	"github.com/hupe1980/seqmap/codec"
	"github.com/hupe1980/seqmap/index"
	"github.com/hupe1980/seqmap/internal/hash"
	"github.com/hupe1980/seqmap/sequence"
)

// maxSectionSize bounds a single section so that a corrupt length cannot
// trigger a huge allocation.
const maxSectionSize = 1 << 36

type reader struct {
	r           *bufio.Reader
	compression Compression
}

type section struct {
	typ   sectionType
	level int
	raw   []byte
}

func (r *reader) next() (section, error) {
	var hdr [sectionHeaderSize]byte
	if _, err := io.ReadFull(r.r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return section{}, fmt.Errorf("%w: truncated section header", ErrCorrupt)
		}
		return section{}, err
	}
	rawLen := binary.LittleEndian.Uint64(hdr[2:])
	storedLen := binary.LittleEndian.Uint64(hdr[10:])
	sum := binary.LittleEndian.Uint32(hdr[18:])
	if rawLen > maxSectionSize || storedLen > rawLen {
		return section{}, fmt.Errorf("%w: section size %d/%d", ErrCorrupt, storedLen, rawLen)
	}

	stored := make([]byte, storedLen)
	if _, err := io.ReadFull(r.r, stored); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return section{}, fmt.Errorf("%w: truncated section", ErrCorrupt)
		}
		return section{}, err
	}
	raw, err := decompress(stored, int(rawLen), r.compression)
	if err != nil {
		return section{}, err
	}
	if hash.CRC32C(raw) != sum {
		return section{}, fmt.Errorf("%w: section type %d level %d", ErrChecksumMismatch, hdr[0], hdr[1])
	}
	return section{typ: sectionType(hdr[0]), level: int(hdr[1]), raw: raw}, nil
}

func (r *reader) expect(t sectionType) (section, error) {
	s, err := r.next()
	if err != nil {
		return s, err
	}
	if s.typ != t {
		return s, fmt.Errorf("%w: expected section %d, got %d", ErrCorrupt, t, s.typ)
	}
	return s, nil
}

func readHeader(br *bufio.Reader) (codec.Codec, Compression, error) {
	var fixed [len(magic) + 4 + 1]byte
	if _, err := io.ReadFull(br, fixed[:]); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrBadMagic, err)
	}
	if string(fixed[:len(magic)]) != magic {
		return nil, 0, ErrBadMagic
	}
	if v := binary.LittleEndian.Uint32(fixed[len(magic):]); v != Version {
		return nil, 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	name := make([]byte, fixed[len(fixed)-1])
	if _, err := io.ReadFull(br, name); err != nil {
		return nil, 0, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	c, ok := codec.ByName(string(name))
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	comp, err := br.ReadByte()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	if Compression(comp) > CompressionZSTD {
		return nil, 0, fmt.Errorf("%w: compression %d", ErrCorrupt, comp)
	}
	return c, Compression(comp), nil
}

// Read parses a snapshot written by Write. extra options are applied after
// the stored settings, which allows setting the number of workers or a
// memory controller for the restored index.
func Read(src io.Reader, extra ...index.Option) (*index.Index, *Manifest, error) {
	br, ok := src.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(src, 1<<20)
	}
	c, comp, err := readHeader(br)
	if err != nil {
		return nil, nil, err
	}
	r := &reader{r: br, compression: comp}

	s, err := r.expect(sectionManifest)
	if err != nil {
		return nil, nil, err
	}
	m := new(Manifest)
	if err := c.Unmarshal(s.raw, m); err != nil {
		return nil, nil, fmt.Errorf("%w: manifest: %w", ErrCorrupt, err)
	}

	seqs := make([]*sequence.Sequence, len(m.Sequences))
	for i, info := range m.Sequences {
		s, err := r.expect(sectionSequence)
		if err != nil {
			return nil, nil, err
		}
		if len(s.raw)%2 != 0 {
			return nil, nil, fmt.Errorf("%w: sequence %q has odd payload", ErrCorrupt, info.Name)
		}
		words := make([]uint16, len(s.raw)/2)
		for j := range words {
			words[j] = binary.LittleEndian.Uint16(s.raw[2*j:])
		}
		seq, err := sequence.FromWords(info.Name, info.Path, i, info.Length, words)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: sequence %q: %w", ErrCorrupt, info.Name, err)
		}
		seqs[i] = seq
	}

	opts := []index.Option{
		index.WithLevels(m.MinLevel, m.MaxLevel),
		index.WithMaxNumMatches(m.MaxNumMatches),
		index.WithMaxIndexedPositions(m.MaxIndexedPositions),
	}
	l, err := index.NewLoader(seqs, append(opts, extra...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	for level := m.MinLevel; level <= m.MaxLevel; level++ {
		s, err := r.expect(sectionSingles)
		if err != nil {
			return nil, nil, err
		}
		if s.level != level {
			return nil, nil, fmt.Errorf("%w: singles for level %d at level %d", ErrCorrupt, s.level, level)
		}
		if err := loadSingles(l, level, s.raw); err != nil {
			return nil, nil, err
		}

		s, err = r.expect(sectionRepeats)
		if err != nil {
			return nil, nil, err
		}
		if s.level != level {
			return nil, nil, fmt.Errorf("%w: repeats for level %d at level %d", ErrCorrupt, s.level, level)
		}
		if err := loadRepeats(l, level, s.raw); err != nil {
			return nil, nil, err
		}
	}

	if _, err := r.expect(sectionEnd); err != nil {
		return nil, nil, err
	}
	return l.Index(), m, nil
}

func loadSingles(l *index.Loader, level int, raw []byte) error {
	if len(raw)%16 != 0 {
		return fmt.Errorf("%w: singles payload of %d bytes", ErrCorrupt, len(raw))
	}
	for off := 0; off < len(raw); off += 16 {
		key := binary.LittleEndian.Uint64(raw[off:])
		pos := binary.LittleEndian.Uint64(raw[off+8:])
		if err := l.AddSingle(level, key, pos); err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}
	return nil
}

const repeatHeaderSize = 8 + 4 + 8 + 4

func loadRepeats(l *index.Loader, level int, raw []byte) error {
	for len(raw) > 0 {
		if len(raw) < repeatHeaderSize {
			return fmt.Errorf("%w: truncated repeat entry", ErrCorrupt)
		}
		key := binary.LittleEndian.Uint64(raw)
		length := binary.LittleEndian.Uint32(raw[8:])
		count := binary.LittleEndian.Uint64(raw[12:])
		n := int(binary.LittleEndian.Uint32(raw[20:]))
		raw = raw[repeatHeaderSize:]
		if n > len(raw) {
			return fmt.Errorf("%w: truncated repeat bitmap", ErrCorrupt)
		}
		bm := roaring64.New()
		if _, err := bm.ReadFrom(bytes.NewReader(raw[:n])); err != nil {
			return fmt.Errorf("%w: repeat bitmap: %w", ErrCorrupt, err)
		}
		raw = raw[n:]
		if err := l.AddRepeat(level, key, int(length), count, bm); err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}
	return nil
}

// Load reads the snapshot stored under name.
func Load(ctx context.Context, store blobstore.BlobStore, name string, extra ...index.Option) (*index.Index, *Manifest, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	defer blob.Close()

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	return Read(bufio.NewReaderSize(rc, 1<<20), extra...)
}
