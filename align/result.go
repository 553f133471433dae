package align

import "github.com/biogo/hts/sam"

// Op is one column of an edit script.
type Op uint8

const (
	OpMatch Op = iota
	OpMismatch
	OpInsertion
	OpDeletion
)

var cigarTypes = [...]sam.CigarOpType{
	OpMatch:     sam.CigarEqual,
	OpMismatch:  sam.CigarMismatch,
	OpInsertion: sam.CigarInsertion,
	OpDeletion:  sam.CigarDeletion,
}

// Result is the outcome of a successful search.
type Result struct {
	Penalty float64
	// RefStart is the number of reference bases passed over before the
	// first op.
	RefStart int
	Ops      []Op
	// Mismatches holds the query offsets of substituted bases.
	Mismatches []int
}

// Cigar returns the edit script in run-length form.
func (r Result) Cigar() sam.Cigar {
	var cigar sam.Cigar
	for i := 0; i < len(r.Ops); {
		j := i + 1
		for j < len(r.Ops) && r.Ops[j] == r.Ops[i] {
			j++
		}
		cigar = append(cigar, sam.NewCigarOp(cigarTypes[r.Ops[i]], j-i))
		i = j
	}
	return cigar
}

// QueryConsumed returns how many query bases the edit script covers.
func (r Result) QueryConsumed() int {
	n := 0
	for _, op := range r.Ops {
		if op != OpDeletion {
			n++
		}
	}
	return n
}

// RefEnd returns the reference offset just past the last op.
func (r Result) RefEnd() int { return r.RefStart + r.RefConsumed() }

// RefConsumed returns how many reference bases the edit script covers.
func (r Result) RefConsumed() int {
	n := 0
	for _, op := range r.Ops {
		if op != OpInsertion {
			n++
		}
	}
	return n
}
