package sequence

import (
	"strings"
)

const codesPerWord = 4

// Sequence is an immutable, packed basepair string.
type Sequence struct {
	Name string
	Path string
	ID   int

	length int
	words  []uint16
}

// Len returns the number of symbols.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return s.length
}

// At returns the code at position i. It panics if i is out of range.
func (s *Sequence) At(i int) Code {
	if i < 0 || i >= s.length {
		panic("sequence: index out of range")
	}
	return Code(s.words[i>>2] >> ((i & 3) << 2) & 0xF)
}

// Codes returns the unpacked codes of [start, end), clamped to the sequence bounds.
func (s *Sequence) Codes(start, end int) []Code {
	start = max(start, 0)
	end = min(end, s.length)
	if end <= start {
		return nil
	}
	out := make([]Code, end-start)
	for i := range out {
		out[i] = s.At(start + i)
	}
	return out
}

// AmbiguousCount returns how many codes in [start, end) are ambiguous.
func (s *Sequence) AmbiguousCount(start, end int) int {
	start = max(start, 0)
	end = min(end, s.length)
	n := 0
	for i := start; i < end; i++ {
		if IsAmbiguous(s.At(i)) {
			n++
		}
	}
	return n
}

// Words exposes the packed representation. The slice must not be modified.
func (s *Sequence) Words() []uint16 {
	return s.words
}

// String returns the IUPAC text of the sequence.
func (s *Sequence) String() string {
	var sb strings.Builder
	sb.Grow(s.length)
	for i := 0; i < s.length; i++ {
		sb.WriteByte(Symbol(s.At(i)))
	}
	return sb.String()
}

// FromWords rebuilds a sequence from its packed representation.
func FromWords(name, path string, id, length int, words []uint16) (*Sequence, error) {
	if length < 0 || (length+codesPerWord-1)/codesPerWord > len(words) {
		return nil, ErrInvalidCode
	}
	for i := 0; i < length; i++ {
		c := Code(words[i>>2] >> ((i & 3) << 2) & 0xF)
		if c == 0 {
			return nil, ErrInvalidCode
		}
	}
	return &Sequence{Name: name, Path: path, ID: id, length: length, words: words}, nil
}

// FromString encodes text into a new sequence.
func FromString(name string, id int, text string) (*Sequence, error) {
	b := NewBuilder(name, "", id)
	if _, err := b.WriteString(text); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// FromCodes packs already-encoded codes into a new sequence.
func FromCodes(name string, id int, codes []Code) (*Sequence, error) {
	b := NewBuilder(name, "", id)
	for _, c := range codes {
		if err := b.WriteCode(c); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
