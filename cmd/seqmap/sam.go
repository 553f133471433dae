package main

import (
	"fmt"
	"io"

	"github.com/biogo/hts/sam"

	"github.com/hupe1980/seqmap"
	"github.com/hupe1980/seqmap/align"
	"github.com/hupe1980/seqmap/internal/fasta"
	"github.com/hupe1980/seqmap/sequence"
)

// unknownMapQ marks a mapping quality that is not computed.
const unknownMapQ = 255

type samWriter struct {
	w    *sam.Writer
	refs []*sam.Reference
}

func newSAMWriter(w io.Writer, seqs []*sequence.Sequence, run seqmap.RunContext) (*samWriter, error) {
	refs := make([]*sam.Reference, len(seqs))
	for i, s := range seqs {
		ref, err := sam.NewReference(s.Name, "", "", s.Len(), nil, nil)
		if err != nil {
			return nil, fmt.Errorf("reference %s: %w", s.Name, err)
		}
		refs[i] = ref
	}
	h, err := sam.NewHeader(nil, refs)
	if err != nil {
		return nil, err
	}
	h.SortOrder = sam.Unsorted
	if err := h.AddProgram(sam.NewProgram("seqmap", "seqmap", run.CommandLine(), "", run.Version)); err != nil {
		return nil, err
	}
	sw, err := sam.NewWriter(w, h, sam.FlagDecimal)
	if err != nil {
		return nil, err
	}
	return &samWriter{w: sw, refs: refs}, nil
}

// write emits one record per alignment, the first one primary, or a single
// unmapped record.
func (s *samWriter) write(rec *fasta.Record, as []align.Alignment) error {
	seq := upper(rec.Seq)
	qual := phred(rec.Qual)
	if len(as) == 0 {
		r, err := sam.NewRecord(rec.Name, nil, nil, -1, -1, 0, 0, nil, seq, qual, nil)
		if err != nil {
			return err
		}
		r.Flags = sam.Unmapped
		return s.w.Write(r)
	}

	var rcSeq, rcQual []byte
	for i, a := range as {
		rs, rq := seq, qual
		if a.Reverse {
			if rcSeq == nil {
				rcSeq = reverseComplement(seq)
				rcQual = reversed(qual)
			}
			rs, rq = rcSeq, rcQual
		}
		nm, err := sam.NewAux(sam.NewTag("NM"), editDistance(a.Cigar))
		if err != nil {
			return err
		}
		r, err := sam.NewRecord(rec.Name, s.refs[a.Reference.ID], nil, a.Start, -1, 0, unknownMapQ, a.Cigar, rs, rq, []sam.Aux{nm})
		if err != nil {
			return err
		}
		if a.Reverse {
			r.Flags |= sam.Reverse
		}
		if i > 0 {
			r.Flags |= sam.Secondary
		}
		if err := s.w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// editDistance counts substituted, inserted and deleted bases.
func editDistance(c sam.Cigar) int {
	var n int
	for _, op := range c {
		switch op.Type() {
		case sam.CigarMismatch, sam.CigarInsertion, sam.CigarDeletion:
			n += op.Len()
		}
	}
	return n
}

func upper(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return out
}

func reverseComplement(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		rc := c
		if code, err := sequence.Encode(c); err == nil {
			rc = sequence.Symbol(sequence.Complement(code))
		}
		out[len(b)-1-i] = rc
	}
	return out
}

// phred converts FASTQ quality characters to raw scores. FASTA input has
// no qualities.
func phred(q []byte) []byte {
	if q == nil {
		return nil
	}
	out := make([]byte, len(q))
	for i, c := range q {
		out[i] = c - 33
	}
	return out
}

func reversed(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
