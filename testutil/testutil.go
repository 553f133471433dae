package testutil

import (
	"math/rand"
	"strings"
	"sync"
)

const alphabet = "ACGT"

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Bases returns n bases drawn uniformly from ACGT.
// Locks only once per call.
func (r *RNG) Bases(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sb strings.Builder
	sb.Grow(n)
	for range n {
		sb.WriteByte(alphabet[r.rand.Intn(len(alphabet))])
	}
	return sb.String()
}

// Substitute returns s with n distinct positions changed to a different
// base. Positions are drawn at random.
func (r *RNG) Substitute(s string, n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := []byte(s)
	n = min(n, len(b))
	for _, i := range r.rand.Perm(len(b))[:n] {
		b[i] = other(b[i], r.rand.Intn(3))
	}
	return string(b)
}

// other returns the k-th base of ACGT that differs from c.
func other(c byte, k int) byte {
	for i := range len(alphabet) {
		if alphabet[i] == c {
			continue
		}
		if k == 0 {
			return alphabet[i]
		}
		k--
	}
	return 'A'
}

// SubstituteAt returns s with the base at i replaced by a different one.
func SubstituteAt(s string, i int) string {
	b := []byte(s)
	b[i] = other(b[i], 0)
	return string(b)
}

// Delete returns s without the n bases starting at i.
func Delete(s string, i, n int) string {
	return s[:i] + s[i+n:]
}

// Insert returns s with ins placed before offset i.
func Insert(s string, i int, ins string) string {
	return s[:i] + ins + s[i:]
}

var complements = strings.NewReplacer("A", "T", "C", "G", "G", "C", "T", "A")

// ReverseComplement returns the reverse complement of an ACGT string.
func ReverseComplement(s string) string {
	b := []byte(complements.Replace(s))
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
