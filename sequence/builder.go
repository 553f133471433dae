package sequence

import "fmt"

// Builder accumulates symbols and packs them four per uint16.
// A Builder is not safe for concurrent use.
type Builder struct {
	name   string
	path   string
	id     int
	length int
	words  []uint16
}

// NewBuilder returns a builder for a sequence with the given identity.
func NewBuilder(name, path string, id int) *Builder {
	return &Builder{name: name, path: path, id: id}
}

// Len returns the number of symbols written so far.
func (b *Builder) Len() int { return b.length }

// Grow reserves space for n more symbols.
func (b *Builder) Grow(n int) {
	need := (b.length + n + codesPerWord - 1) / codesPerWord
	if need > cap(b.words) {
		words := make([]uint16, len(b.words), need)
		copy(words, b.words)
		b.words = words
	}
}

// WriteCode appends an encoded symbol.
func (b *Builder) WriteCode(c Code) error {
	if c == 0 || c > N {
		return fmt.Errorf("%w: %04b", ErrInvalidCode, uint8(c))
	}
	slot := b.length & 3
	if slot == 0 {
		b.words = append(b.words, 0)
	}
	b.words[len(b.words)-1] |= uint16(c) << (slot << 2)
	b.length++
	return nil
}

// WriteByte encodes and appends a single symbol. Lowercase input is uppercased.
func (b *Builder) WriteByte(c byte) error {
	code, err := Encode(c)
	if err != nil {
		return fmt.Errorf("position %d: %w", b.length, err)
	}
	return b.WriteCode(code)
}

// Write encodes and appends p. Whitespace is skipped.
func (b *Builder) Write(p []byte) (int, error) {
	b.Grow(len(p))
	for i, c := range p {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := b.WriteByte(c); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// WriteString encodes and appends s.
func (b *Builder) WriteString(s string) (int, error) {
	return b.Write([]byte(s))
}

// Build returns the accumulated sequence and resets the builder.
func (b *Builder) Build() *Sequence {
	s := &Sequence{
		Name:   b.name,
		Path:   b.path,
		ID:     b.id,
		length: b.length,
		words:  b.words,
	}
	b.length = 0
	b.words = nil
	return s
}
