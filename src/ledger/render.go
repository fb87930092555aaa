package ledger

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/mr-tron/base58"
)

// Sentinel closes every rendering at the genesis end of the chain. Block
// entries always open with "{", so it cannot be mistaken for one.
const Sentinel = "Beginning is the most important part of the work.\n                         -Plato\n"

// BlockRecord is the structural form of one chain node. Payloads that are not
// valid UTF-8 cannot be written as TOML strings and are carried in DataBase58.
type BlockRecord struct {
	Index        uint32    `toml:"index"`
	Timestamp    time.Time `toml:"timestamp"`
	Data         string    `toml:"data"`
	DataBase58   string    `toml:"data_b58,omitempty"` // set instead of Data for non-UTF-8 payloads
	SelfHash     string    `toml:"self_hash"`
	PreviousHash string    `toml:"previous_hash,omitempty"`
	NextHash     string    `toml:"next_hash,omitempty"`
	HashPointer  string    `toml:"hash_pointer,omitempty"`
}

// ChainRecord is the structural form of a whole chain, newest block first.
type ChainRecord struct {
	Digest string        `toml:"digest"`
	Length int           `toml:"length"`
	Blocks []BlockRecord `toml:"blocks"`
}

// Render writes every block from newest to oldest followed by Sentinel.
func (l *Ledger) Render(w io.Writer) error {
	l.lock.RLock()
	out := l.renderRange(len(l.tail) + 1)
	l.lock.RUnlock()

	_, err := io.WriteString(w, out)
	return err
}

func (l *Ledger) String() string {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.renderRange(len(l.tail) + 1)
}

// Records returns the structural view of the chain, newest block first.
func (l *Ledger) Records() []BlockRecord {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.recordRange(len(l.tail) + 1)
}

// WriteTOML encodes the structural view of the chain as TOML.
func (l *Ledger) WriteTOML(w io.Writer) error {
	rec := ChainRecord{Digest: l.digest.Name()}
	rec.Blocks = l.Records()
	rec.Length = len(rec.Blocks)

	encoder := toml.NewEncoder(w)
	encoder.Indent = "    "
	if err := encoder.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode chain: %w", err)
	}
	return nil
}

// Render writes the blocks visible to the view, newest first, followed by Sentinel.
func (v *View) Render(w io.Writer) error {
	v.ledger.lock.RLock()
	out := v.ledger.renderRange(v.length)
	v.ledger.lock.RUnlock()

	_, err := io.WriteString(w, out)
	return err
}

// Records returns the structural view of the blocks visible to the view.
func (v *View) Records() []BlockRecord {
	v.ledger.lock.RLock()
	defer v.ledger.lock.RUnlock()
	return v.ledger.recordRange(v.length)
}

// renderRange walks blocks [0, n) from newest to oldest. The lock must be held.
func (l *Ledger) renderRange(n int) string {
	var sb strings.Builder
	for i := n - 1; i >= 0; i-- {
		b := l.blockAt(i)
		sb.WriteString("{\n")
		fmt.Fprintf(&sb, "  timestamp: %s\n", b.timestamp.UTC().Format(time.RFC3339Nano))
		fmt.Fprintf(&sb, "  data: %q\n", b.data)
		fmt.Fprintf(&sb, "  self_hash: %s\n", b.selfHash)
		fmt.Fprintf(&sb, "  previous_hash: %s\n", b.previousHash)
		fmt.Fprintf(&sb, "  next_hash: %s\n", b.nextHash)
		fmt.Fprintf(&sb, "  index: %d\n", b.index)
		fmt.Fprintf(&sb, "  hash_pointer: %s\n", l.pointerAt(i))
		sb.WriteString("}\n\n")
	}
	sb.WriteString(Sentinel)
	return sb.String()
}

func (l *Ledger) recordRange(n int) []BlockRecord {
	records := make([]BlockRecord, 0, n)
	for i := n - 1; i >= 0; i-- {
		b := l.blockAt(i)
		rec := BlockRecord{
			Index:     b.index,
			Timestamp: b.timestamp.UTC(),
			SelfHash:  b.selfHash.String(),
		}
		if utf8.ValidString(b.data) {
			rec.Data = b.data
		} else {
			rec.DataBase58 = base58.Encode([]byte(b.data))
		}
		if h, ok := b.previousHash.get(); ok {
			rec.PreviousHash = h.String()
		}
		if h, ok := b.nextHash.get(); ok {
			rec.NextHash = h.String()
		}
		if h, ok := l.pointerAt(i).get(); ok {
			rec.HashPointer = h.String()
		}
		records = append(records, rec)
	}
	return records
}
