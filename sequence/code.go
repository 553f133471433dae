package sequence

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	// ErrAmbiguousCode is returned when decoding a code that has no single resolved base.
	ErrAmbiguousCode = errors.New("sequence: ambiguous code has no single symbol")
	// ErrInvalidSymbol is returned when encoding a byte outside the alphabet.
	ErrInvalidSymbol = errors.New("sequence: invalid symbol")
	// ErrInvalidCode is returned when decoding the zero code.
	ErrInvalidCode = errors.New("sequence: invalid code")
)

// Code is a 4-bit basepair mask.
type Code uint8

// Canonical bases.
const (
	A Code = 1 << iota
	C
	G
	T
)

// Ambiguity codes.
const (
	R Code = A | G
	Y Code = C | T
	S Code = C | G
	W Code = A | T
	K Code = G | T
	M Code = A | C
	B Code = C | G | T
	D Code = A | G | T
	H Code = A | C | T
	V Code = A | C | G
	N Code = A | C | G | T
)

// Canonical lists the canonical bases in bit order.
var Canonical = [4]Code{A, C, G, T}

var (
	encodeTable [256]Code
	symbolTable [16]byte
)

func init() {
	set := func(c byte, code Code) {
		encodeTable[c] = code
		encodeTable[c+('a'-'A')] = code
		symbolTable[code] = c
	}
	set('A', A)
	set('C', C)
	set('G', G)
	set('T', T)
	set('R', R)
	set('Y', Y)
	set('S', S)
	set('W', W)
	set('K', K)
	set('M', M)
	set('B', B)
	set('D', D)
	set('H', H)
	set('V', V)
	set('N', N)
	// U is read as T.
	encodeTable['U'] = T
	encodeTable['u'] = T
}

// Encode returns the code for a symbol. Lowercase input is accepted.
func Encode(b byte) (Code, error) {
	c := encodeTable[b]
	if c == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSymbol, b)
	}
	return c, nil
}

// Decode returns the symbol of a canonical code.
func Decode(c Code) (byte, error) {
	switch {
	case c == 0 || c > N:
		return 0, fmt.Errorf("%w: %04b", ErrInvalidCode, uint8(c))
	case IsAmbiguous(c):
		return 0, fmt.Errorf("%w: %c", ErrAmbiguousCode, symbolTable[c])
	}
	return symbolTable[c], nil
}

// Symbol returns the IUPAC letter for any non-zero code, or '?' otherwise.
func Symbol(c Code) byte {
	if c == 0 || c > N {
		return '?'
	}
	return symbolTable[c]
}

// IsAmbiguous reports whether c represents more than one base.
func IsAmbiguous(c Code) bool {
	return bits.OnesCount8(uint8(c)) > 1
}

// CanMatch reports whether a and b share at least one possible base.
func CanMatch(a, b Code) bool {
	return a&b != 0
}

// Bases returns the canonical bases c may represent, in A, C, G, T order.
func Bases(c Code) []Code {
	out := make([]Code, 0, bits.OnesCount8(uint8(c)))
	for _, base := range Canonical {
		if c&base != 0 {
			out = append(out, base)
		}
	}
	return out
}

// Complement returns the Watson-Crick complement of c, preserving ambiguity.
func Complement(c Code) Code {
	var out Code
	if c&A != 0 {
		out |= T
	}
	if c&C != 0 {
		out |= G
	}
	if c&G != 0 {
		out |= C
	}
	if c&T != 0 {
		out |= A
	}
	return out
}

// ReverseComplement returns the complement of codes in reverse order.
func ReverseComplement(codes []Code) []Code {
	out := make([]Code, len(codes))
	for i, c := range codes {
		out[len(codes)-1-i] = Complement(c)
	}
	return out
}
