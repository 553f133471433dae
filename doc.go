// Package seqmap maps short DNA reads against reference sequences.
//
// References are indexed by content-defined hashblocks at several
// resolutions. A read is cut into the same blocks, the index proposes
// reference windows where many blocks agree on the placement, and an
// affine-gap graph search computes the alignment inside each window.
// Results are memoized per read content for the lifetime of a Mapper's
// cache.
//
// # Quick Start
//
//	ctx := context.Background()
//	idx, _ := seqmap.BuildIndex(ctx, refs)
//	dd, _ := seqmap.BuildDuplicationDetector(idx, 32, 300, 1000)
//
//	m, _ := seqmap.NewMapper(idx, seqmap.WithDuplicationDetector(dd))
//	defer m.Close()
//
//	alignments, _ := m.Align(ctx, &align.Query{Name: "read1", Sequence: read})
//	for _, a := range alignments {
//	    fmt.Println(a.Reference.Name, a.Start, a.Cigar, a.Penalty)
//	}
//
// # Penalty Model
//
// Substitutions, insertion and deletion starts and extensions are charged
// according to align.Parameters. An alignment whose penalty exceeds
// MaxErrorRate times the read length is not reported. All reported
// alignments of a read lie within MaxPenaltySpan of the best one.
//
// # Duplicated References
//
// When a duplication detector is configured, windows that fall inside a
// duplicated region and have identical content to a window already aligned
// for the same read reuse that result instead of searching again. Such
// alignments are flagged Duplicate.
package seqmap
