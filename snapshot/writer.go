package snapshot

import (
	"bufio"
	"cmp"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/hupe1980/seqmap/blobstore"
	"github.com/hupe1980/seqmap/codec"
	"github.com/hupe1980/seqmap/index"
	"github.com/hupe1980/seqmap/internal/hash"
)

type options struct {
	compression Compression
	codec       codec.Codec
	tool        string
	now         func() time.Time
}

// Option configures Write and Save.
type Option func(*options)

// WithCompression selects the section compression. The default is LZ4.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithCodec selects the manifest codec.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithTool records the writing program in the manifest.
func WithTool(tool string) Option {
	return func(o *options) {
		o.tool = tool
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		compression: CompressionLZ4,
		codec:       codec.Default,
		now:         time.Now,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

type countingWriter struct {
	w *bufio.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type writer struct {
	w    *countingWriter
	opts options
}

func (w *writer) section(t sectionType, level int, raw []byte) error {
	stored, err := compress(raw, w.opts.compression)
	if err != nil {
		return err
	}
	var hdr [sectionHeaderSize]byte
	hdr[0] = byte(t)
	hdr[1] = byte(level)
	binary.LittleEndian.PutUint64(hdr[2:], uint64(len(raw)))
	binary.LittleEndian.PutUint64(hdr[10:], uint64(len(stored)))
	binary.LittleEndian.PutUint32(hdr[18:], hash.CRC32C(raw))
	if _, err := w.w.Write(hdr[:]); err != nil {
		return err
	}
	_, err = w.w.Write(stored)
	return err
}

// Write serializes idx to dst and returns the number of bytes written.
func Write(dst io.Writer, idx *index.Index, optFns ...Option) (int64, error) {
	o := applyOptions(optFns)
	w := &writer{w: &countingWriter{w: bufio.NewWriterSize(dst, 1<<20)}, opts: o}

	name := o.codec.Name()
	if len(name) > 255 {
		return 0, fmt.Errorf("snapshot: codec name %q too long", name)
	}
	hdr := append([]byte(magic), 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(hdr[len(magic):], Version)
	hdr = append(hdr, byte(len(name)))
	hdr = append(hdr, name...)
	hdr = append(hdr, byte(o.compression))
	if _, err := w.w.Write(hdr); err != nil {
		return w.w.n, err
	}

	minLevel, maxLevel := idx.Levels()
	m := Manifest{
		Version:             Version,
		MinLevel:            minLevel,
		MaxLevel:            maxLevel,
		MaxNumMatches:       idx.MaxNumMatches(),
		MaxIndexedPositions: idx.MaxIndexedPositions(),
		TotalBases:          idx.TotalBases(),
		Created:             o.now().UTC(),
		Tool:                o.tool,
	}
	for _, s := range idx.Sequences() {
		m.Sequences = append(m.Sequences, SequenceInfo{Name: s.Name, Path: s.Path, Length: s.Len()})
	}
	raw, err := o.codec.Marshal(m)
	if err != nil {
		return w.w.n, fmt.Errorf("snapshot: encode manifest: %w", err)
	}
	if err := w.section(sectionManifest, 0, raw); err != nil {
		return w.w.n, err
	}

	for _, s := range idx.Sequences() {
		words := s.Words()
		raw := make([]byte, 0, 2*len(words))
		for _, v := range words {
			raw = binary.LittleEndian.AppendUint16(raw, v)
		}
		if err := w.section(sectionSequence, 0, raw); err != nil {
			return w.w.n, err
		}
	}

	for level := minLevel; level <= maxLevel; level++ {
		raw, err := singlesPayload(idx, level)
		if err != nil {
			return w.w.n, err
		}
		if err := w.section(sectionSingles, level, raw); err != nil {
			return w.w.n, err
		}
		raw, err = repeatsPayload(idx, level)
		if err != nil {
			return w.w.n, err
		}
		if err := w.section(sectionRepeats, level, raw); err != nil {
			return w.w.n, err
		}
	}

	if err := w.section(sectionEnd, 0, nil); err != nil {
		return w.w.n, err
	}
	return w.w.n, w.w.w.Flush()
}

type single struct {
	key, pos uint64
}

// singlesPayload encodes the unique keys of level sorted by key, as
// little-endian (key, position) pairs.
func singlesPayload(idx *index.Index, level int) ([]byte, error) {
	var entries []single
	err := idx.ForEachSingle(level, func(key, pos uint64) bool {
		entries = append(entries, single{key, pos})
		return true
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(entries, func(a, b single) int { return cmp.Compare(a.key, b.key) })

	raw := make([]byte, 0, 16*len(entries))
	for _, e := range entries {
		raw = binary.LittleEndian.AppendUint64(raw, e.key)
		raw = binary.LittleEndian.AppendUint64(raw, e.pos)
	}
	return raw, nil
}

// repeatsPayload encodes the repeated keys of level sorted by key. Each
// entry is key u64, length u32, count u64, bitmap length u32 and the
// portable roaring encoding of the stored positions.
func repeatsPayload(idx *index.Index, level int) ([]byte, error) {
	var repeats []index.Repeat
	err := idx.ForEachRepeated(level, func(r index.Repeat) bool {
		r.Positions = nil
		repeats = append(repeats, r)
		return true
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(repeats, func(a, b index.Repeat) int { return cmp.Compare(a.Key, b.Key) })

	var raw []byte
	for _, r := range repeats {
		bm, err := idx.RepeatBitmap(level, r.Key).MarshalBinary()
		if err != nil {
			return nil, err
		}
		raw = binary.LittleEndian.AppendUint64(raw, r.Key)
		raw = binary.LittleEndian.AppendUint32(raw, uint32(r.Length))
		raw = binary.LittleEndian.AppendUint64(raw, r.Count)
		raw = binary.LittleEndian.AppendUint32(raw, uint32(len(bm)))
		raw = append(raw, bm...)
	}
	return raw, nil
}

// Save writes idx to name in store.
func Save(ctx context.Context, store blobstore.BlobStore, name string, idx *index.Index, optFns ...Option) error {
	w, err := store.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := Write(w, idx, optFns...); err != nil {
		_ = blobstore.Discard(w)
		return err
	}
	if err := w.Sync(); err != nil {
		_ = blobstore.Discard(w)
		return err
	}
	return w.Close()
}
