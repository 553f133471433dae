package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/seqmap"
	"github.com/hupe1980/seqmap/align"
	"github.com/hupe1980/seqmap/index"
	"github.com/hupe1980/seqmap/internal/fasta"
	"github.com/hupe1980/seqmap/sequence"
	"github.com/hupe1980/seqmap/snapshot"
)

var (
	alignName         string
	alignOutput       string
	alignBatch        int
	alignMaxErrorRate float64
	alignMaxMatches   int
	alignDupMin       int
	alignDupMax       int
	alignDupWindow    int
)

var alignCmd = &cobra.Command{
	Use:   "align <ref.fa|store> <reads.fa|reads.fq>",
	Short: "Align reads and write SAM",
	Long: `Align FASTA or FASTQ reads against a reference and write SAM.

The reference is either a FASTA file, which is indexed on the fly, or a
store holding a snapshot written by "seqmap index".

Examples:
  # Align against a saved index
  seqmap align ./idx reads.fq -o reads.sam

  # Index and align in one step, reusing searches in duplicated regions
  seqmap align ref.fa reads.fa --dup-min 200 --dup-max 5000`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		idx, err := loadReference(ctx, args[0])
		if err != nil {
			return err
		}

		opts := commonOptions()
		if alignDupMin > 0 {
			d, err := seqmap.BuildDuplicationDetector(idx, alignDupMin, alignDupMax, alignDupWindow, opts...)
			if err != nil {
				return err
			}
			opts = append(opts, seqmap.WithDuplicationDetector(d))
		}
		params := align.DefaultParameters().
			WithMaxErrorRate(alignMaxErrorRate).
			WithMaxNumMatches(alignMaxMatches)
		opts = append(opts, seqmap.WithParameters(params))

		m, err := seqmap.NewMapper(idx, opts...)
		if err != nil {
			return err
		}
		defer m.Close()

		in, err := fasta.Open(args[1])
		if err != nil {
			return err
		}
		defer in.Close()

		out := cmd.OutOrStdout()
		if alignOutput != "" && alignOutput != "-" {
			f, err := os.Create(alignOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		bw := bufio.NewWriter(out)

		if err := alignReads(ctx, m, idx, fasta.NewReader(in), bw); err != nil {
			return err
		}
		return bw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(alignCmd)

	defaults := align.DefaultParameters()
	f := alignCmd.Flags()
	f.StringVar(&alignName, "name", defaultSnapshotName, "Snapshot name inside the store")
	f.StringVarP(&alignOutput, "output", "o", "-", "SAM output file")
	f.IntVar(&alignBatch, "batch", 1024, "Reads aligned per batch")
	f.Float64Var(&alignMaxErrorRate, "max-error-rate", defaults.MaxErrorRate, "Penalty ceiling as a fraction of read length")
	f.IntVar(&alignMaxMatches, "max-matches", defaults.MaxNumMatches, "Alignments reported per read")
	f.IntVar(&alignDupMin, "dup-min", 0, "Shortest duplication to detect (0 disables detection)")
	f.IntVar(&alignDupMax, "dup-max", 10000, "Longest duplication to detect")
	f.IntVar(&alignDupWindow, "dup-window", 64, "Duplication table granularity in bases")
}

// loadReference indexes a FASTA file or loads a snapshot from a store.
func loadReference(ctx context.Context, loc string) (*index.Index, error) {
	if fi, err := os.Stat(loc); err == nil && fi.Mode().IsRegular() {
		seqs, err := fasta.ReadFile(loc, 0)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", loc, err)
		}
		return seqmap.BuildIndex(ctx, seqs, commonOptions()...)
	}

	store, err := openStore(ctx, loc)
	if err != nil {
		return nil, err
	}
	var extra []index.Option
	if workers > 0 {
		extra = append(extra, index.WithWorkers(workers))
	}
	start := time.Now()
	idx, m, err := snapshot.Load(ctx, store, alignName, extra...)
	app.logger.LogSnapshot(ctx, "load", alignName, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	app.logger.DebugContext(ctx, "snapshot manifest",
		"sequences", len(m.Sequences),
		"bases", m.TotalBases,
		"tool", m.Tool,
	)
	return idx, nil
}

// alignReads streams reads through m in batches and writes SAM in input
// order.
func alignReads(ctx context.Context, m *seqmap.Mapper, idx *index.Index, r *fasta.Reader, w io.Writer) error {
	sw, err := newSAMWriter(w, idx.Sequences(), app.run)
	if err != nil {
		return err
	}

	batch := max(alignBatch, 1)
	recs := make([]*fasta.Record, 0, batch)
	queries := make([]*align.Query, 0, batch)
	n := 0

	flush := func() error {
		if len(recs) == 0 {
			return nil
		}
		results, err := m.AlignBatch(ctx, queries)
		if err != nil {
			return err
		}
		for i, rec := range recs {
			if err := sw.write(rec, results[i]); err != nil {
				return fmt.Errorf("write %s: %w", rec.Name, err)
			}
		}
		recs, queries = recs[:0], queries[:0]
		return nil
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if rec.Name == "" {
			rec.Name = fmt.Sprintf("read%d", n+1)
		}
		b := sequence.NewBuilder(rec.Name, "", n)
		if _, err := b.Write(rec.Seq); err != nil {
			return fmt.Errorf("read %s: %w", rec.Name, err)
		}
		recs = append(recs, rec)
		queries = append(queries, &align.Query{ID: n, Name: rec.Name, Sequence: b.Build()})
		n++
		if len(recs) == batch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}
