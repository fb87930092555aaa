package ledger

import (
	"fmt"
	"time"

	logs "github.com/danmuck/smplog"
)

// optionalHash is an unset-or-set link field.
type optionalHash struct {
	value Hash
	set   bool
}

func (o optionalHash) get() (Hash, bool) { return o.value, o.set }

func (o optionalHash) String() string {
	if !o.set {
		return "<none>"
	}
	return o.value.String()
}

// Block is a sealed record. Its content and commitment never change after
// construction; the two link fields may each be written once.
type Block struct {
	index     uint32
	timestamp time.Time
	data      string

	selfHash     Hash
	previousHash optionalHash
	nextHash     optionalHash

	digest Digest
}

// NewBlock seals a block at the current time with the default digest.
func NewBlock(index uint32, data string) *Block {
	return newBlock(index, data, time.Now(), defaultDigest)
}

func newBlock(index uint32, data string, ts time.Time, digest Digest) *Block {
	b := &Block{
		index:     index,
		timestamp: ts,
		data:      data,
		digest:    digest,
	}
	b.selfHash = computeHash(digest, index, ts, data)
	return b
}

// emptyBlock is the placeholder swapped into the head slot during an append.
func emptyBlock() *Block {
	return &Block{}
}

func (b *Block) isPlaceholder() bool { return b.digest == nil }

// Index, Timestamp and Data return the sealed content; PreviousHash and
// NextHash report each link and whether it has been set.
func (b *Block) Index() uint32        { return b.index }
func (b *Block) Timestamp() time.Time { return b.timestamp }
func (b *Block) Data() string         { return b.data }

func (b *Block) PreviousHash() (Hash, bool) { return b.previousHash.get() }
func (b *Block) NextHash() (Hash, bool)     { return b.nextHash.get() }

// Commitment is the block's identity within a chain.
func (b *Block) Commitment() Hash { return b.selfHash }

// SameCommitment reports whether b and other commit to the same content.
func (b *Block) SameCommitment(other *Block) bool {
	return other != nil && b.selfHash == other.selfHash
}

// CheckIntegrity recomputes the digest over the live fields and compares it
// to the stored commitment.
func (b *Block) CheckIntegrity() error {
	if b.isPlaceholder() {
		return ErrTampered
	}
	if computeHash(b.digest, b.index, b.timestamp, b.data) != b.selfHash {
		return ErrTampered
	}
	return nil
}

// SetPreviousHash links b to the commitment of the block before it.
func (b *Block) SetPreviousHash(h Hash) error {
	if err := b.checkLink(PreviousLink); err != nil {
		return err
	}
	b.setLink(PreviousLink, h)
	return nil
}

// SetNextHash links b to the commitment of the block after it.
func (b *Block) SetNextHash(h Hash) error {
	if err := b.checkLink(NextLink); err != nil {
		return err
	}
	b.setLink(NextLink, h)
	return nil
}

// checkLink validates the preconditions for writing field without writing it.
// Integrity is checked first so a corrupted block always reports ErrTampered.
func (b *Block) checkLink(field LinkField) error {
	if err := b.CheckIntegrity(); err != nil {
		return &LinkError{Index: b.index, Field: field, Err: err}
	}
	if b.link(field).set {
		return &LinkError{Index: b.index, Field: field, Err: ErrAlreadySet}
	}
	return nil
}

func (b *Block) setLink(field LinkField, h Hash) {
	logs.Debugf("setLink(%d): %s = %s", b.index, field, h)
	switch field {
	case PreviousLink:
		b.previousHash = optionalHash{value: h, set: true}
	case NextLink:
		b.nextHash = optionalHash{value: h, set: true}
	}
}

func (b *Block) link(field LinkField) optionalHash {
	if field == PreviousLink {
		return b.previousHash
	}
	return b.nextHash
}

func (b *Block) String() string {
	return fmt.Sprintf("Block{index: %d, timestamp: %s, data: %q, self_hash: %s, previous_hash: %s, next_hash: %s}",
		b.index,
		b.timestamp.UTC().Format(time.RFC3339Nano),
		b.data,
		b.selfHash,
		b.previousHash,
		b.nextHash,
	)
}
