package snapshot

import (
	"errors"
	"time"
)

const (
	magic = "SQMI"
	// Version is the current snapshot format version.
	Version uint32 = 1

	sectionHeaderSize = 1 + 1 + 8 + 8 + 4
)

type sectionType uint8

const (
	sectionManifest sectionType = iota + 1
	sectionSequence
	sectionSingles
	sectionRepeats
	sectionEnd sectionType = 0xFF
)

var (
	// ErrBadMagic is returned when the input is not a snapshot.
	ErrBadMagic = errors.New("snapshot: bad magic")
	// ErrUnsupportedVersion is returned for snapshots written by a newer
	// format version.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")
	// ErrChecksumMismatch is returned when a section fails its CRC check.
	ErrChecksumMismatch = errors.New("snapshot: checksum mismatch")
	// ErrCorrupt is returned for structurally invalid snapshots.
	ErrCorrupt = errors.New("snapshot: corrupt")
	// ErrUnknownCodec is returned when the header names a codec that is not
	// registered.
	ErrUnknownCodec = errors.New("snapshot: unknown codec")
)

// Manifest describes the index stored in a snapshot.
type Manifest struct {
	Version             uint32         `json:"version"`
	MinLevel            int            `json:"min_level"`
	MaxLevel            int            `json:"max_level"`
	MaxNumMatches       int            `json:"max_num_matches"`
	MaxIndexedPositions int            `json:"max_indexed_positions"`
	TotalBases          uint64         `json:"total_bases"`
	Sequences           []SequenceInfo `json:"sequences"`
	Created             time.Time      `json:"created"`
	// Tool records the program version and invocation that wrote the
	// snapshot, when known.
	Tool string `json:"tool,omitempty"`
}

// SequenceInfo names one reference sequence.
type SequenceInfo struct {
	Name   string `json:"name"`
	Path   string `json:"path,omitempty"`
	Length int    `json:"length"`
}
