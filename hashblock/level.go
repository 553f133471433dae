package hashblock

import "sync"

// MaxLevels is the number of supported pyramid levels.
const MaxLevels = 16

// fixedLevels are merged from exactly two children; from this level on a
// third child may be appended.
const fixedLevels = 3

const extendMask = 3

// LevelSpec describes the blocks of one pyramid level.
type LevelSpec struct {
	Level  int
	MinLen int
	MaxLen int
	// ExtendMask selects the key bits of the boundary test. Zero means the
	// level never appends a third child.
	ExtendMask uint64
}

// Extends reports whether a merged key fails the boundary test and must be
// followed by a third child.
func (s *LevelSpec) Extends(key uint64) bool {
	return s.ExtendMask != 0 && key&s.ExtendMask != 0
}

// Contains reports whether blocks of this level can have length n.
func (s *LevelSpec) Contains(n int) bool {
	return n >= s.MinLen && n <= s.MaxLen
}

type specSlot struct {
	once sync.Once
	spec *LevelSpec
}

var specs [MaxLevels]specSlot

// Spec returns the shared spec for level, or nil when out of range.
func Spec(level int) *LevelSpec {
	if level < 0 || level >= MaxLevels {
		return nil
	}
	slot := &specs[level]
	slot.once.Do(func() {
		slot.spec = newSpec(level)
	})
	return slot.spec
}

func newSpec(level int) *LevelSpec {
	if level == 0 {
		return &LevelSpec{Level: 0, MinLen: 1, MaxLen: 1}
	}
	below := Spec(level - 1)
	s := &LevelSpec{
		Level:  level,
		MinLen: 2 * below.MinLen,
		MaxLen: 2 * below.MaxLen,
	}
	if level >= fixedLevels {
		s.ExtendMask = extendMask
		s.MaxLen = 3 * below.MaxLen
	}
	return s
}

// LevelsForLength returns the levels whose length range intersects
// [minLen, maxLen], in ascending order.
func LevelsForLength(minLen, maxLen int) []int {
	var out []int
	for l := range MaxLevels {
		s := Spec(l)
		if s.MaxLen >= minLen && s.MinLen <= maxLen {
			out = append(out, l)
		}
	}
	return out
}
