// Package visited tracks settled search states with a resettable bitset.
package visited

// Set marks integer state identifiers. Reset only touches the words that
// were written since the previous reset, so one Set can be reused across
// many small searches.
type Set struct {
	bits  []uint64
	dirty []int
	count int
}

// New creates a set sized for capacity states.
func New(capacity int) *Set {
	return &Set{
		bits:  make([]uint64, (capacity+63)/64),
		dirty: make([]int, 0, 128),
	}
}

// Visit marks id. It reports false if id was already marked.
func (v *Set) Visit(id uint64) bool {
	word := int(id >> 6)
	mask := uint64(1) << (id & 63)

	if word >= len(v.bits) {
		v.grow(word + 1)
	}
	if v.bits[word]&mask != 0 {
		return false
	}
	if v.bits[word] == 0 {
		v.dirty = append(v.dirty, word)
	}
	v.bits[word] |= mask
	v.count++
	return true
}

// Visited reports whether id is marked.
func (v *Set) Visited(id uint64) bool {
	word := int(id >> 6)
	if word >= len(v.bits) {
		return false
	}
	return v.bits[word]&(uint64(1)<<(id&63)) != 0
}

// Len returns the number of marked ids.
func (v *Set) Len() int { return v.count }

// Reset clears every mark.
func (v *Set) Reset() {
	for _, word := range v.dirty {
		v.bits[word] = 0
	}
	v.dirty = v.dirty[:0]
	v.count = 0
}

// EnsureCapacity grows the set so that ids below capacity need no resize.
func (v *Set) EnsureCapacity(capacity int) {
	if words := (capacity + 63) / 64; words > len(v.bits) {
		v.grow(words)
	}
}

func (v *Set) grow(words int) {
	newLen := len(v.bits) * 2
	if newLen < words {
		newLen = words
	}
	bits := make([]uint64, newLen)
	copy(bits, v.bits)
	v.bits = bits
}
