package hashblock

// Flush thresholds for Buffer.
const (
	SingleBatchSize = 8096
	MultiBatchSize  = 65536
)

// Sink receives batches of blocks for one sequence and level. Batches are
// reused after the call returns, so a sink must copy what it keeps.
type Sink interface {
	AddSingles(seqID, level int, blocks []HashBlock) error
	AddMultis(seqID, level int, blocks []MultiHashBlock) error
}

// Buffer batches the blocks of one sequence and level before handing them to
// a Sink.
type Buffer struct {
	sink    Sink
	seqID   int
	level   int
	singles []HashBlock
	multis  []MultiHashBlock
}

// NewBuffer returns a buffer that flushes into sink.
func NewBuffer(sink Sink, seqID, level int) *Buffer {
	return &Buffer{
		sink:  sink,
		seqID: seqID,
		level: level,
	}
}

// Add records m, flushing the matching batch once it is full.
func (b *Buffer) Add(m MultiHashBlock) error {
	switch m.Kind() {
	case KindSingle:
		b.singles = append(b.singles, m.single)
		if len(b.singles) >= SingleBatchSize {
			return b.flushSingles()
		}
	case KindMulti:
		b.multis = append(b.multis, m)
		if len(b.multis) >= MultiBatchSize {
			return b.flushMultis()
		}
	}
	return nil
}

// Flush hands any pending blocks to the sink.
func (b *Buffer) Flush() error {
	if err := b.flushSingles(); err != nil {
		return err
	}
	return b.flushMultis()
}

func (b *Buffer) flushSingles() error {
	if len(b.singles) == 0 {
		return nil
	}
	err := b.sink.AddSingles(b.seqID, b.level, b.singles)
	b.singles = b.singles[:0]
	return err
}

func (b *Buffer) flushMultis() error {
	if len(b.multis) == 0 {
		return nil
	}
	err := b.sink.AddMultis(b.seqID, b.level, b.multis)
	clear(b.multis)
	b.multis = b.multis[:0]
	return err
}
