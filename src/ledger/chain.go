package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/danmuck/dps_ledger/src/api"
	logs "github.com/danmuck/smplog"
)

var _ api.Blockchain = (*Ledger)(nil)

// node holds a demoted block together with the hash pointer that was cached
// at the head when that block was appended. The node's rest is tail[i-1].
type node struct {
	block       *Block
	hashPointer optionalHash
}

// Ledger is an append-only chain of blocks. The head is owned exclusively;
// older blocks live in tail, indexed by block index, and are shared with any
// View taken before a later append.
type Ledger struct {
	lock sync.RWMutex

	head        *Block
	hashPointer optionalHash
	tail        []node

	digest Digest
	clock  func() time.Time
}

// New creates a ledger holding only the genesis block.
func New() *Ledger {
	l, err := NewWithConfig(DefaultConfig())
	if err != nil {
		// DefaultConfig always resolves
		panic(err)
	}
	return l
}

// NewWithConfig creates a ledger whose blocks are sealed with cfg's digest and clock.
func NewWithConfig(cfg Config) (*Ledger, error) {
	digest, err := DigestByName(cfg.Digest)
	if err != nil {
		return nil, err
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	l := &Ledger{
		digest: digest,
		clock:  clock,
	}
	l.head = newBlock(0, GenesisData, clock(), digest)
	logs.Debugf("NewWithConfig(%s): genesis %s", digest.Name(), l.head.selfHash)
	return l, nil
}

// Append seals a new block carrying data and cross-links it with the current
// head. Both links are validated before either is written; on failure the
// ledger is left exactly as it was.
func (l *Ledger) Append(data string) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	previous := l.head
	pointer := l.hashPointer
	l.head = emptyBlock()

	committed := false
	defer func() {
		if !committed {
			l.head = previous
			l.hashPointer = pointer
		}
	}()

	block := newBlock(previous.index+1, data, l.clock(), l.digest)

	if err := previous.checkLink(NextLink); err != nil {
		logs.Warnf("Append(%d) rejected: %v", block.index, err)
		return fmt.Errorf("append block %d: %w", block.index, err)
	}
	if err := block.checkLink(PreviousLink); err != nil {
		logs.Warnf("Append(%d) rejected: %v", block.index, err)
		return fmt.Errorf("append block %d: %w", block.index, err)
	}

	previous.setLink(NextLink, block.selfHash)
	block.setLink(PreviousLink, previous.selfHash)

	l.tail = append(l.tail, node{block: previous, hashPointer: pointer})
	l.hashPointer = optionalHash{value: previous.selfHash, set: true}
	l.head = block
	committed = true

	logs.Debugf("Append(%d): %s", block.index, block.selfHash)
	return nil
}

// Len returns the number of blocks, genesis included.
func (l *Ledger) Len() int {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return len(l.tail) + 1
}

// Head returns the newest block.
func (l *Ledger) Head() *Block {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.head
}

// Digest returns the name of the digest sealing this ledger's blocks.
func (l *Ledger) Digest() string {
	return l.digest.Name()
}

// Get returns the block at index.
func (l *Ledger) Get(index uint32) (*Block, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	if int(index) > len(l.tail) {
		return nil, fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, index, len(l.tail)+1)
	}
	return l.blockAt(int(index)), nil
}

// HashPointer returns the back-reference cached at the node holding index.
// It is unset for the genesis node.
func (l *Ledger) HashPointer(index uint32) (Hash, bool, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	if int(index) > len(l.tail) {
		return 0, false, fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, index, len(l.tail)+1)
	}
	h, ok := l.pointerAt(int(index)).get()
	return h, ok, nil
}

// Find looks a block up by its commitment.
func (l *Ledger) Find(h Hash) (*Block, bool) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	if l.head.selfHash == h {
		return l.head, true
	}
	for i := len(l.tail) - 1; i >= 0; i-- {
		if l.tail[i].block.selfHash == h {
			return l.tail[i].block, true
		}
	}
	return nil, false
}

// View returns a read-only view of the chain as it is now.
func (l *Ledger) View() *View {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return &View{ledger: l, length: len(l.tail) + 1}
}

// blockAt and pointerAt expect the lock to be held and i to be in range.
func (l *Ledger) blockAt(i int) *Block {
	if i == len(l.tail) {
		return l.head
	}
	return l.tail[i].block
}

func (l *Ledger) pointerAt(i int) optionalHash {
	if i == len(l.tail) {
		return l.hashPointer
	}
	return l.tail[i].hashPointer
}

// View is a fixed-length window onto a Ledger. Blocks are shared with the
// ledger, so the view's newest block shows its next_hash once a later append
// links it.
type View struct {
	ledger *Ledger
	length int
}

func (v *View) Len() int { return v.length }

// Get returns the block at index within the view.
func (v *View) Get(index uint32) (*Block, error) {
	if int(index) >= v.length {
		return nil, fmt.Errorf("%w: %d (view length %d)", ErrIndexOutOfRange, index, v.length)
	}
	v.ledger.lock.RLock()
	defer v.ledger.lock.RUnlock()
	return v.ledger.blockAt(int(index)), nil
}
