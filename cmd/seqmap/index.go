package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/seqmap"
	"github.com/hupe1980/seqmap/index"
	"github.com/hupe1980/seqmap/internal/fasta"
	"github.com/hupe1980/seqmap/sequence"
	"github.com/hupe1980/seqmap/snapshot"
)

const defaultSnapshotName = "index.sqmi"

var (
	indexName         string
	indexCompression  string
	indexMinLevel     int
	indexMaxLevel     int
	indexMaxMatches   int
	indexMaxPositions int
	indexMemoryLimit  int64
)

var indexCmd = &cobra.Command{
	Use:   "index <ref.fa>... <store>",
	Short: "Build an index snapshot from FASTA references",
	Long: `Build a hashblock index over one or more FASTA files and save it as a
snapshot in a store.

The store is a local directory, s3://bucket/prefix or
minio://host:port/bucket/prefix.

Examples:
  # Index a genome into a local directory
  seqmap index hg38.fa.gz ./idx

  # Index two assemblies into S3 with zstd compression
  seqmap index chr1.fa chr2.fa s3://genomes/hg38 --compression zstd`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		refs, loc := args[:len(args)-1], args[len(args)-1]

		comp, err := snapshot.ParseCompression(indexCompression)
		if err != nil {
			return err
		}
		store, err := openStore(ctx, loc)
		if err != nil {
			return err
		}

		var seqs []*sequence.Sequence
		for _, path := range refs {
			s, err := fasta.ReadFile(path, len(seqs))
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			seqs = append(seqs, s...)
		}

		opts := append(commonOptions(),
			seqmap.WithIndexLevels(indexMinLevel, indexMaxLevel),
			seqmap.WithMaxBlockMatches(indexMaxMatches),
			seqmap.WithMaxIndexedPositions(indexMaxPositions),
			seqmap.WithMemoryLimit(indexMemoryLimit),
		)
		idx, err := seqmap.BuildIndex(ctx, seqs, opts...)
		if err != nil {
			return err
		}

		start := time.Now()
		err = snapshot.Save(ctx, store, indexName, idx,
			snapshot.WithCompression(comp),
			snapshot.WithTool(fmt.Sprintf("seqmap %s: %s", app.run.Version, app.run.CommandLine())),
		)
		app.logger.LogSnapshot(ctx, "save", indexName, time.Since(start), err)
		return err
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)

	f := indexCmd.Flags()
	f.StringVar(&indexName, "name", defaultSnapshotName, "Snapshot name inside the store")
	f.StringVar(&indexCompression, "compression", "lz4", "Section compression (none, lz4, zstd)")
	f.IntVar(&indexMinLevel, "min-level", index.DefaultMinLevel, "Lowest indexed pyramid level")
	f.IntVar(&indexMaxLevel, "max-level", index.DefaultMaxLevel, "Highest indexed pyramid level")
	f.IntVar(&indexMaxMatches, "max-matches", index.DefaultMaxNumMatches, "Occurrences above which a block is uninformative")
	f.IntVar(&indexMaxPositions, "max-positions", index.DefaultMaxIndexedPositions, "Positions stored per repeated block")
	f.Int64Var(&indexMemoryLimit, "memory-limit", 0, "Bound on index position memory in bytes (0 is unlimited)")
}
