package align

import (
	"context"
	"sync/atomic"

	"github.com/hupe1980/seqmap/sequence"
)

// Logger is the logging surface used by aligner stages.
type Logger interface {
	Enabled() bool
	Throttled(ctx context.Context, msg string, args ...any)
}

// HighAmbiguity reports whether at least a quarter of ref is ambiguous.
func HighAmbiguity(ref []sequence.Code) bool {
	if len(ref) == 0 {
		return false
	}
	n := 0
	for _, c := range ref {
		if sequence.IsAmbiguous(c) {
			n++
		}
	}
	return 4*n >= len(ref)
}

// SkipHighAmbiguity refuses to align against reference windows that are
// mostly ambiguity codes and delegates everything else to Next.
type SkipHighAmbiguity struct {
	Next    Aligner
	Logger  Logger
	skipped atomic.Int64
}

// NewSkipHighAmbiguity wraps next. logger may be nil.
func NewSkipHighAmbiguity(next Aligner, logger Logger) *SkipHighAmbiguity {
	return &SkipHighAmbiguity{Next: next, Logger: logger}
}

// Align implements Aligner.
func (s *SkipHighAmbiguity) Align(query, ref []sequence.Code, analysis *Analysis) (Result, bool) {
	if HighAmbiguity(ref) {
		n := s.skipped.Add(1)
		if s.Logger != nil && s.Logger.Enabled() {
			s.Logger.Throttled(context.Background(), "skipping ambiguous reference window",
				"window", len(ref), "skipped", n)
		}
		return Result{}, false
	}
	return s.Next.Align(query, ref, analysis)
}

// Skipped returns how many windows were refused.
func (s *SkipHighAmbiguity) Skipped() int64 { return s.skipped.Load() }
