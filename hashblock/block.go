package hashblock

import (
	"fmt"
	"slices"

	"github.com/hupe1980/seqmap/sequence"
)

// MaxPossibilities caps how many conditional resolutions a MultiHashBlock may
// carry. Blocks that would exceed it are dropped.
const MaxPossibilities = 16

// HashBlock is a content-keyed span [Start, End) of a sequence. A gapped
// block skips GapLen bases starting at GapStart; the skipped bases do not
// contribute to Key.
type HashBlock struct {
	Start    int
	End      int
	Key      uint64
	GapStart int
	GapLen   int
}

// Span returns the number of positions covered, including any gap.
func (b HashBlock) Span() int { return b.End - b.Start }

// Len returns the number of bases that contribute to the key.
func (b HashBlock) Len() int { return b.End - b.Start - b.GapLen }

// Gapped reports whether the block skips interior bases.
func (b HashBlock) Gapped() bool { return b.GapLen > 0 }

// Shift returns a copy of b moved by delta positions.
func (b HashBlock) Shift(delta int) HashBlock {
	b.Start += delta
	b.End += delta
	if b.GapLen > 0 {
		b.GapStart += delta
	}
	return b
}

func (b HashBlock) String() string {
	if b.Gapped() {
		return fmt.Sprintf("[%d,%d) gap %d+%d key %016x", b.Start, b.End, b.GapStart, b.GapLen, b.Key)
	}
	return fmt.Sprintf("[%d,%d) key %016x", b.Start, b.End, b.Key)
}

// SequenceCondition is a conjunction of "position p holds base c" facts.
// Positions are kept sorted and unique.
type SequenceCondition struct {
	Positions []int
	Bases     []sequence.Code
}

// Condition returns the single-fact condition "pos holds base".
func Condition(pos int, base sequence.Code) SequenceCondition {
	return SequenceCondition{Positions: []int{pos}, Bases: []sequence.Code{base}}
}

// IsEmpty reports whether the condition is unconditionally true.
func (c SequenceCondition) IsEmpty() bool { return len(c.Positions) == 0 }

// Holds reports whether every fact can match seq.
func (c SequenceCondition) Holds(seq *sequence.Sequence) bool {
	for i, p := range c.Positions {
		if p < 0 || p >= seq.Len() || !sequence.CanMatch(seq.At(p), c.Bases[i]) {
			return false
		}
	}
	return true
}

// Shift returns a copy of c with every position moved by delta.
func (c SequenceCondition) Shift(delta int) SequenceCondition {
	if c.IsEmpty() {
		return c
	}
	out := SequenceCondition{
		Positions: make([]int, len(c.Positions)),
		Bases:     slices.Clone(c.Bases),
	}
	for i, p := range c.Positions {
		out.Positions[i] = p + delta
	}
	return out
}

// Merge returns the conjunction of c and o. It reports false when both
// constrain the same position to different bases.
func (c SequenceCondition) Merge(o SequenceCondition) (SequenceCondition, bool) {
	switch {
	case o.IsEmpty():
		return c, true
	case c.IsEmpty():
		return o, true
	}

	n := len(c.Positions) + len(o.Positions)
	out := SequenceCondition{
		Positions: make([]int, 0, n),
		Bases:     make([]sequence.Code, 0, n),
	}
	i, j := 0, 0
	for i < len(c.Positions) || j < len(o.Positions) {
		switch {
		case j == len(o.Positions) || (i < len(c.Positions) && c.Positions[i] < o.Positions[j]):
			out.Positions = append(out.Positions, c.Positions[i])
			out.Bases = append(out.Bases, c.Bases[i])
			i++
		case i == len(c.Positions) || o.Positions[j] < c.Positions[i]:
			out.Positions = append(out.Positions, o.Positions[j])
			out.Bases = append(out.Bases, o.Bases[j])
			j++
		default:
			if c.Bases[i] != o.Bases[j] {
				return SequenceCondition{}, false
			}
			out.Positions = append(out.Positions, c.Positions[i])
			out.Bases = append(out.Bases, c.Bases[i])
			i++
			j++
		}
	}
	return out, true
}

// ConditionalHashBlock is a block that exists only where Condition holds.
type ConditionalHashBlock struct {
	Block     HashBlock
	Condition SequenceCondition
}

// Shift returns a copy of c moved by delta positions.
func (c ConditionalHashBlock) Shift(delta int) ConditionalHashBlock {
	return ConditionalHashBlock{Block: c.Block.Shift(delta), Condition: c.Condition.Shift(delta)}
}

// Kind tags the variant held by a MultiHashBlock.
type Kind uint8

const (
	KindNone Kind = iota
	KindSingle
	KindMulti
)

// MultiHashBlock holds either one unconditional block or a set of
// conditional blocks that all start at the same position.
type MultiHashBlock struct {
	kind   Kind
	single HashBlock
	multi  []ConditionalHashBlock
}

// Single wraps a plain block.
func Single(b HashBlock) MultiHashBlock {
	return MultiHashBlock{kind: KindSingle, single: b}
}

// Multi wraps conditional possibilities. It takes ownership of cs. A lone
// unconditional possibility collapses to a single block and an empty or
// oversized set yields the zero value.
func Multi(cs []ConditionalHashBlock) MultiHashBlock {
	switch {
	case len(cs) == 0 || len(cs) > MaxPossibilities:
		return MultiHashBlock{}
	case len(cs) == 1 && cs[0].Condition.IsEmpty():
		return Single(cs[0].Block)
	}
	return MultiHashBlock{kind: KindMulti, multi: cs}
}

// Kind returns the variant tag.
func (m MultiHashBlock) Kind() Kind { return m.kind }

// IsZero reports whether m holds no block.
func (m MultiHashBlock) IsZero() bool { return m.kind == KindNone }

// IsMulti reports whether m holds conditional possibilities.
func (m MultiHashBlock) IsMulti() bool { return m.kind == KindMulti }

// Block returns the plain block when m is a single.
func (m MultiHashBlock) Block() (HashBlock, bool) {
	return m.single, m.kind == KindSingle
}

// Start returns the common start position.
func (m MultiHashBlock) Start() int {
	switch m.kind {
	case KindSingle:
		return m.single.Start
	case KindMulti:
		return m.multi[0].Block.Start
	}
	return -1
}

// End returns the largest end over all possibilities.
func (m MultiHashBlock) End() int {
	switch m.kind {
	case KindSingle:
		return m.single.End
	case KindMulti:
		end := m.multi[0].Block.End
		for _, c := range m.multi[1:] {
			end = max(end, c.Block.End)
		}
		return end
	}
	return -1
}

// MinEnd returns the smallest end over all possibilities.
func (m MultiHashBlock) MinEnd() int {
	switch m.kind {
	case KindSingle:
		return m.single.End
	case KindMulti:
		end := m.multi[0].Block.End
		for _, c := range m.multi[1:] {
			end = min(end, c.Block.End)
		}
		return end
	}
	return -1
}

// MinLen returns the shortest keyed length over all possibilities.
func (m MultiHashBlock) MinLen() int {
	switch m.kind {
	case KindSingle:
		return m.single.Len()
	case KindMulti:
		n := m.multi[0].Block.Len()
		for _, c := range m.multi[1:] {
			n = min(n, c.Block.Len())
		}
		return n
	}
	return 0
}

// Len returns the number of possibilities.
func (m MultiHashBlock) Len() int {
	switch m.kind {
	case KindSingle:
		return 1
	case KindMulti:
		return len(m.multi)
	}
	return 0
}

// Possibilities returns every resolution of m. A single block yields one
// possibility with an empty condition. The returned slice must not be
// modified.
func (m MultiHashBlock) Possibilities() []ConditionalHashBlock {
	return m.AppendPossibilities(nil)
}

// AppendPossibilities appends every resolution of m to dst.
func (m MultiHashBlock) AppendPossibilities(dst []ConditionalHashBlock) []ConditionalHashBlock {
	switch m.kind {
	case KindSingle:
		return append(dst, ConditionalHashBlock{Block: m.single})
	case KindMulti:
		return append(dst, m.multi...)
	}
	return dst
}

// Shift returns a copy of m moved by delta positions.
func (m MultiHashBlock) Shift(delta int) MultiHashBlock {
	switch m.kind {
	case KindSingle:
		return Single(m.single.Shift(delta))
	case KindMulti:
		out := make([]ConditionalHashBlock, len(m.multi))
		for i, c := range m.multi {
			out[i] = c.Shift(delta)
		}
		return MultiHashBlock{kind: KindMulti, multi: out}
	}
	return m
}
