package align

import (
	"math"
	"slices"
	"sync"

	"github.com/hupe1980/seqmap/internal/queue"
	"github.com/hupe1980/seqmap/internal/visited"
	"github.com/hupe1980/seqmap/sequence"
)

// DefaultMaxStates bounds the number of settled states per search.
const DefaultMaxStates = 1 << 22

// Aligner aligns a query against a reference window. A false result means
// no alignment within the bounds.
type Aligner interface {
	Align(query, ref []sequence.Code, analysis *Analysis) (Result, bool)
}

type step struct {
	parent int32
	move   Move
}

type scratch struct {
	pq    *queue.PriorityQueue[Node]
	seen  *visited.Set
	trail []step
}

// PathAligner is the graph search aligner. It is safe for concurrent use.
type PathAligner struct {
	params    Parameters
	maxStates int
	pool      sync.Pool
}

// NewPathAligner returns an aligner using params.
func NewPathAligner(params Parameters) *PathAligner {
	a := &PathAligner{
		params:    params,
		maxStates: DefaultMaxStates,
	}
	a.pool.New = func() any {
		return &scratch{
			pq:    queue.New[Node](256),
			seen:  visited.New(1 << 12),
			trail: make([]step, 0, 256),
		}
	}
	return a
}

// Parameters returns the penalty model.
func (a *PathAligner) Parameters() Parameters { return a.params }

// LowerBound returns a penalty every alignment of query against ref must
// pay, derived from the length difference and the ambiguous query bases.
func (a *PathAligner) LowerBound(query, ref []sequence.Code) float64 {
	return a.lowerBound(query, ref, false)
}

func (a *PathAligner) lowerBound(query, ref []sequence.Code, freeRef bool) float64 {
	p := a.params

	var gap float64
	switch diff := len(query) - len(ref); {
	case diff > 0:
		start := p.InsertionStartPenalty
		if p.StartingInsertionStartFree {
			start = 0
		}
		gap = start + float64(diff)*p.InsertionExtensionPenalty
	case diff < 0 && !freeRef:
		gap = p.DeletionStartPenalty + float64(-diff)*p.DeletionExtensionPenalty
	}

	ambiguous := 0
	for _, c := range query {
		if sequence.IsAmbiguous(c) {
			ambiguous++
		}
	}
	perBase := min(p.AmbiguityPenalty, p.MutationPenalty, p.InsertionExtensionPenalty)
	return max(gap, float64(ambiguous)*perBase)
}

func (a *PathAligner) diagonal(q, r sequence.Code) (float64, Move) {
	if !sequence.CanMatch(q, r) {
		return a.params.MutationPenalty, MoveMismatch
	}
	if sequence.IsAmbiguous(q) || sequence.IsAmbiguous(r) {
		return a.params.AmbiguityPenalty, MoveMatch
	}
	return 0, MoveMatch
}

// ungapped returns the penalty of the all-diagonal path when both sides
// have equal length.
func (a *PathAligner) ungapped(query, ref []sequence.Code) float64 {
	if len(query) != len(ref) {
		return math.Inf(1)
	}
	var total float64
	for i := range query {
		c, _ := a.diagonal(query[i], ref[i])
		total += c
	}
	return total
}

// exactTail reports whether query[x:] equals ref[y:] base for base without
// ambiguity codes.
func exactTail(query, ref []sequence.Code, x, y int) bool {
	if len(query)-x != len(ref)-y {
		return false
	}
	for i := range len(query) - x {
		q, r := query[x+i], ref[y+i]
		if q != r || sequence.IsAmbiguous(q) {
			return false
		}
	}
	return true
}

// exactPrefix reports whether query[x:] matches ref starting at y base for
// base without ambiguity codes. ref may continue past the match.
func exactPrefix(query, ref []sequence.Code, x, y int) bool {
	n := len(query) - x
	if len(ref)-y < n {
		return false
	}
	for i := range n {
		q, r := query[x+i], ref[y+i]
		if q != r || sequence.IsAmbiguous(q) {
			return false
		}
	}
	return true
}

// Align searches for the minimum-penalty alignment of the whole query
// against the reference window. The whole window is consumed unless the
// analysis frees its ends.
func (a *PathAligner) Align(query, ref []sequence.Code, analysis *Analysis) (Result, bool) {
	if analysis == nil {
		analysis = NewAnalysis(a.params, len(query), len(ref))
	}
	freeStart, freeEnd := analysis.FreeReferenceStart, analysis.FreeReferenceEnd
	if a.lowerBound(query, ref, freeStart || freeEnd) > analysis.MaxPenalty {
		return Result{}, false
	}

	qlen, rlen := len(query), len(ref)
	other := qlen - rlen
	best := a.ungapped(query, ref)
	if best > analysis.MaxPenalty {
		best = math.Inf(1)
	}
	bound := min(analysis.MaxPenalty, best+a.params.MaxPenaltySpan)

	s := a.pool.Get().(*scratch)
	defer func() {
		s.pq.Reset()
		s.seen.Reset()
		s.trail = s.trail[:0]
		a.pool.Put(s)
	}()
	s.seen.EnsureCapacity((qlen + 1) * (rlen + 1) * 3)

	var order uint32
	s.pq.Push(Node{
		ReachedMainDiagonal:  true,
		ReachedOtherDiagonal: other == 0,
		Move:                 MoveStart,
		parent:               -1,
	})

	for s.pq.Len() > 0 {
		n, _ := s.pq.Pop()
		id := (uint64(n.X)*uint64(rlen+1)+uint64(n.Y))*3 + n.Move.gapClass()
		if !s.seen.Visit(id) {
			continue
		}
		cur := int32(len(s.trail))
		s.trail = append(s.trail, step{parent: n.parent, move: n.Move})

		if n.X == qlen && (n.Y == rlen || freeEnd) {
			return a.backtrack(s.trail, cur, nil, n.Penalty), true
		}
		if n.ReachedMainDiagonal && n.ReachedOtherDiagonal && n.X-n.Y == other && exactTail(query, ref, n.X, n.Y) {
			return a.backtrack(s.trail, cur, query[n.X:], n.Penalty), true
		}
		if freeEnd && n.Move == MoveMatch && exactPrefix(query, ref, n.X, n.Y) {
			return a.backtrack(s.trail, cur, query[n.X:], n.Penalty), true
		}
		if len(s.trail) >= a.maxStates {
			return Result{}, false
		}

		push := func(c Node) {
			if c.Penalty > bound {
				return
			}
			diff := c.X - c.Y
			c.ReachedMainDiagonal = n.ReachedMainDiagonal || diff == 0
			c.ReachedOtherDiagonal = n.ReachedOtherDiagonal || diff == other
			c.parent = cur
			order++
			c.order = order
			s.pq.Push(c)
		}

		if n.X < qlen && n.Y < rlen {
			cost, move := a.diagonal(query[n.X], ref[n.Y])
			push(Node{
				X: n.X + 1, Y: n.Y + 1,
				Penalty:        n.Penalty + cost,
				InsertXPenalty: n.InsertXPenalty,
				InsertYPenalty: n.InsertYPenalty,
				Move:           move,
			})
		}
		if freeStart && n.X == 0 && n.Y < rlen {
			push(Node{
				X: 0, Y: n.Y + 1,
				Penalty: n.Penalty,
				Move:    MoveSkip,
			})
		}
		if n.X < qlen {
			ext := a.params.InsertionExtensionPenalty
			cost := ext
			leading := n.X == 0 && (n.Y == 0 || n.Move == MoveSkip)
			if n.Move != MoveInsertion && !(a.params.StartingInsertionStartFree && leading) {
				cost += a.params.InsertionStartPenalty
			}
			if n.InsertXPenalty+ext <= analysis.MaxInsertionExtensionPenalty {
				push(Node{
					X: n.X + 1, Y: n.Y,
					Penalty:        n.Penalty + cost,
					InsertXPenalty: n.InsertXPenalty + ext,
					InsertYPenalty: n.InsertYPenalty,
					Move:           MoveInsertion,
				})
			}
		}
		if n.Y < rlen && !(freeStart && n.X == 0) {
			ext := a.params.DeletionExtensionPenalty
			cost := ext
			if n.Move != MoveDeletion {
				cost += a.params.DeletionStartPenalty
			}
			if n.InsertYPenalty+ext <= analysis.MaxDeletionExtensionPenalty {
				push(Node{
					X: n.X, Y: n.Y + 1,
					Penalty:        n.Penalty + cost,
					InsertXPenalty: n.InsertXPenalty,
					InsertYPenalty: n.InsertYPenalty + ext,
					Move:           MoveDeletion,
				})
			}
		}
	}
	return Result{}, false
}

// backtrack rebuilds the edit script ending at trail[at], followed by
// len(tail) exact matches.
func (a *PathAligner) backtrack(trail []step, at int32, tail []sequence.Code, penalty float64) Result {
	var (
		ops     []Op
		skipped int
	)
	for i := at; i >= 0 && trail[i].move != MoveStart; i = trail[i].parent {
		switch trail[i].move {
		case MoveSkip:
			skipped++
		case MoveMatch:
			ops = append(ops, OpMatch)
		case MoveMismatch:
			ops = append(ops, OpMismatch)
		case MoveInsertion:
			ops = append(ops, OpInsertion)
		case MoveDeletion:
			ops = append(ops, OpDeletion)
		}
	}
	slices.Reverse(ops)
	for range tail {
		ops = append(ops, OpMatch)
	}

	res := Result{Penalty: penalty, RefStart: skipped, Ops: ops}
	x := 0
	for _, op := range ops {
		if op == OpMismatch {
			res.Mismatches = append(res.Mismatches, x)
		}
		if op != OpDeletion {
			x++
		}
	}
	return res
}
