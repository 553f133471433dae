package align

// Move is the edge that led to a search state.
type Move uint8

const (
	MoveStart Move = iota
	MoveMatch
	MoveMismatch
	MoveInsertion
	MoveDeletion
	// MoveSkip passes over a leading reference base at no cost.
	MoveSkip
)

func (m Move) String() string {
	switch m {
	case MoveStart:
		return "start"
	case MoveMatch:
		return "match"
	case MoveMismatch:
		return "mismatch"
	case MoveInsertion:
		return "insertion"
	case MoveDeletion:
		return "deletion"
	case MoveSkip:
		return "skip"
	}
	return "unknown"
}

// gapClass groups moves by the affine state they leave the search in.
func (m Move) gapClass() uint64 {
	switch m {
	case MoveInsertion:
		return 1
	case MoveDeletion:
		return 2
	}
	return 0
}

// Node is a search frontier state: X query and Y reference bases consumed.
type Node struct {
	X, Y    int
	Penalty float64
	// InsertXPenalty and InsertYPenalty accumulate the extension penalties
	// of insertions and deletions on the path.
	InsertXPenalty       float64
	InsertYPenalty       float64
	ReachedMainDiagonal  bool
	ReachedOtherDiagonal bool
	Move                 Move

	parent int32
	order  uint32
}

// Less orders nodes by ascending penalty, then by more query consumed, then
// by more reference consumed. Remaining ties fall back to move and push
// order so that the search is deterministic.
func (n Node) Less(o Node) bool {
	switch {
	case n.Penalty != o.Penalty:
		return n.Penalty < o.Penalty
	case n.X != o.X:
		return n.X > o.X
	case n.Y != o.Y:
		return n.Y > o.Y
	case n.Move != o.Move:
		return n.Move < o.Move
	}
	return n.order < o.order
}
