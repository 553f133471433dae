package seqmap

import (
	"cmp"
	"slices"

	"github.com/hupe1980/seqmap/hashblock"
	"github.com/hupe1980/seqmap/index"
	"github.com/hupe1980/seqmap/sequence"
)

// hit is one index match of a query block: the block [qstart, qend) lies on
// reference seqID with query offset 0 at diag.
type hit struct {
	seqID  int
	diag   int
	qstart int
	qend   int
}

// candidate is a cluster of hits on nearby diagonals of one reference.
type candidate struct {
	seqID int
	// firstDiag is the diagonal of the hit closest to the query start and
	// lastDiag that of the hit closest to the query end.
	firstDiag int
	lastDiag  int
	votes     int
}

// window returns the reference range the candidate covers for a query of
// length n.
func (c candidate) window(n int) (start, end int) {
	return c.firstDiag, c.lastDiag + n
}

// collectHits looks up every block of query at the indexed levels.
func collectHits(idx *index.Index, query []sequence.Code) []hit {
	seq, err := sequence.FromCodes("", 0, query)
	if err != nil {
		return nil
	}
	lo, hi := idx.Levels()
	p := hashblock.NewPyramid(seq, hi)

	var hits []hit
	for level := hi; level >= lo; level-- {
		row := p.Level(level)
		if row == nil {
			continue
		}
		for i := range len(query) {
			m := row.BlockAt(i)
			if m.IsZero() {
				continue
			}
			for _, c := range m.Possibilities() {
				found, ok := idx.Lookup(level, c.Block.Key)
				if !ok || !found.Informative {
					continue
				}
				for _, pos := range found.Positions {
					seqID, off := idx.Locate(pos)
					hits = append(hits, hit{
						seqID:  seqID,
						diag:   off - c.Block.Start,
						qstart: c.Block.Start,
						qend:   c.Block.End,
					})
				}
			}
		}
	}
	return hits
}

// clusterHits groups hits whose diagonals differ by at most slack and
// returns the best maxCandidates clusters by vote.
func clusterHits(hits []hit, slack, maxCandidates int) []candidate {
	if len(hits) == 0 {
		return nil
	}
	slices.SortFunc(hits, func(a, b hit) int {
		if c := cmp.Compare(a.seqID, b.seqID); c != 0 {
			return c
		}
		if c := cmp.Compare(a.diag, b.diag); c != 0 {
			return c
		}
		return cmp.Compare(a.qstart, b.qstart)
	})

	var out []candidate
	flush := func(group []hit) {
		// Ends are taken from diagonals hit at least twice, so that a lone
		// chance match cannot stretch the window.
		support := make(map[int]int, 4)
		for _, h := range group {
			support[h.diag]++
		}
		minSupport := 1
		for _, n := range support {
			if n >= 2 {
				minSupport = 2
				break
			}
		}

		var first, last hit
		seen := false
		for _, h := range group {
			if support[h.diag] < minSupport {
				continue
			}
			if !seen || h.qstart < first.qstart {
				first = h
			}
			if !seen || h.qend > last.qend {
				last = h
			}
			seen = true
		}
		out = append(out, candidate{
			seqID:     first.seqID,
			firstDiag: first.diag,
			lastDiag:  last.diag,
			votes:     len(group),
		})
	}

	from := 0
	for i := 1; i < len(hits); i++ {
		if hits[i].seqID != hits[i-1].seqID || hits[i].diag-hits[i-1].diag > slack {
			flush(hits[from:i])
			from = i
		}
	}
	flush(hits[from:])

	slices.SortStableFunc(out, func(a, b candidate) int {
		if c := cmp.Compare(b.votes, a.votes); c != 0 {
			return c
		}
		if c := cmp.Compare(a.seqID, b.seqID); c != 0 {
			return c
		}
		return cmp.Compare(a.firstDiag, b.firstDiag)
	})
	if maxCandidates > 0 && len(out) > maxCandidates {
		out = out[:maxCandidates]
	}
	return out
}
