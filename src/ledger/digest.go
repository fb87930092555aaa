package ledger

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash"
	"golang.org/x/crypto/blake2b"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	DigestXXHash  = "xxhash"
	DigestBlake2b = "blake2b"
)

// Hash is a 64-bit block commitment. It is an integrity check for in-memory
// tampering, not a cryptographic signature.
type Hash uint64

func (h Hash) String() string {
	return fmt.Sprintf("0x%016x", uint64(h))
}

// Bytes returns the big-endian encoding of h.
func (h Hash) Bytes() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(h))
	return b
}

// Digest turns the canonical encoding of a block's content into a commitment.
type Digest interface {
	Name() string
	Sum64(encoded []byte) Hash
}

type xxhashDigest struct{}

func (xxhashDigest) Name() string { return DigestXXHash }

func (xxhashDigest) Sum64(encoded []byte) Hash {
	return Hash(xxhash.Sum64(encoded))
}

// blake2bDigest uses an 8 byte blake2b output, the same width as xxhash.
type blake2bDigest struct{}

func (blake2bDigest) Name() string { return DigestBlake2b }

func (blake2bDigest) Sum64(encoded []byte) Hash {
	h, err := blake2b.New(8, nil)
	if err != nil {
		// only possible for an invalid size or key
		panic(err)
	}
	h.Write(encoded)
	return Hash(binary.BigEndian.Uint64(h.Sum(nil)))
}

var defaultDigest Digest = xxhashDigest{}

// DigestByName resolves a configured digest name. An empty name selects xxhash.
func DigestByName(name string) (Digest, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DigestXXHash:
		return xxhashDigest{}, nil
	case DigestBlake2b:
		return blake2bDigest{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDigest, name)
	}
}

// encodeContent writes (index, timestamp, data) in protobuf wire format, in
// that field order. The timestamp is embedded as a google.protobuf.Timestamp.
func encodeContent(index uint32, ts time.Time, data string) []byte {
	pb := timestamppb.New(ts)

	var stamp []byte
	stamp = protowire.AppendTag(stamp, 1, protowire.VarintType)
	stamp = protowire.AppendVarint(stamp, uint64(pb.GetSeconds()))
	stamp = protowire.AppendTag(stamp, 2, protowire.VarintType)
	stamp = protowire.AppendVarint(stamp, uint64(pb.GetNanos()))

	buf := make([]byte, 0, len(data)+len(stamp)+16)
	buf = protowire.AppendTag(buf, 1, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(index))
	buf = protowire.AppendTag(buf, 2, protowire.BytesType)
	buf = protowire.AppendBytes(buf, stamp)
	buf = protowire.AppendTag(buf, 3, protowire.BytesType)
	buf = protowire.AppendString(buf, data)
	return buf
}

func computeHash(d Digest, index uint32, ts time.Time, data string) Hash {
	return d.Sum64(encodeContent(index, ts, data))
}
