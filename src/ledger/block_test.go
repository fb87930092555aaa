package ledger

import (
	"errors"
	"testing"
	"time"
)

var fixedTime = time.Date(2024, time.March, 9, 12, 30, 0, 123456789, time.UTC)

func TestNewBlockSealsContent(t *testing.T) {
	b := NewBlock(3, "payload")

	if b.Index() != 3 {
		t.Fatalf("Index() = %d, want 3", b.Index())
	}
	if b.Data() != "payload" {
		t.Fatalf("Data() = %q, want %q", b.Data(), "payload")
	}
	if b.Timestamp().IsZero() {
		t.Fatal("Timestamp() is zero")
	}
	want := computeHash(defaultDigest, 3, b.Timestamp(), "payload")
	if b.Commitment() != want {
		t.Fatalf("Commitment() = %s, want %s", b.Commitment(), want)
	}
	if _, ok := b.PreviousHash(); ok {
		t.Fatal("new block has previous_hash set")
	}
	if _, ok := b.NextHash(); ok {
		t.Fatal("new block has next_hash set")
	}
	if err := b.CheckIntegrity(); err != nil {
		t.Fatalf("CheckIntegrity() = %v, want nil", err)
	}
}

func TestBlockHashDeterminism(t *testing.T) {
	for _, d := range []Digest{xxhashDigest{}, blake2bDigest{}} {
		t.Run(d.Name(), func(t *testing.T) {
			a := newBlock(1, "Alice gave to Bob", fixedTime, d)
			b := newBlock(1, "Alice gave to Bob", fixedTime, d)
			if a.Commitment() != b.Commitment() {
				t.Fatalf("identical content: %s != %s", a.Commitment(), b.Commitment())
			}
			if !a.SameCommitment(b) {
				t.Fatal("SameCommitment() = false for identical content")
			}

			variants := []struct {
				name  string
				block *Block
			}{
				{"data changed by one character", newBlock(1, "Alice gave to Bob!", fixedTime, d)},
				{"index changed", newBlock(2, "Alice gave to Bob", fixedTime, d)},
				{"timestamp changed by one nanosecond", newBlock(1, "Alice gave to Bob", fixedTime.Add(time.Nanosecond), d)},
			}
			for _, v := range variants {
				if v.block.Commitment() == a.Commitment() {
					t.Errorf("%s: commitment unchanged (%s)", v.name, a.Commitment())
				}
				if v.block.SameCommitment(a) {
					t.Errorf("%s: SameCommitment() = true", v.name)
				}
			}
		})
	}
}

func TestSetLinkOnlyOnce(t *testing.T) {
	tests := []struct {
		name  string
		field LinkField
		set   func(*Block, Hash) error
		get   func(*Block) (Hash, bool)
	}{
		{"previous", PreviousLink, (*Block).SetPreviousHash, (*Block).PreviousHash},
		{"next", NextLink, (*Block).SetNextHash, (*Block).NextHash},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newBlock(1, "data", fixedTime, defaultDigest)

			if err := tc.set(b, 0xabc); err != nil {
				t.Fatalf("first set = %v, want nil", err)
			}
			err := tc.set(b, 0xdef)
			if !errors.Is(err, ErrAlreadySet) {
				t.Fatalf("second set = %v, want ErrAlreadySet", err)
			}
			var linkErr *LinkError
			if !errors.As(err, &linkErr) {
				t.Fatalf("second set error %T is not *LinkError", err)
			}
			if linkErr.Field != tc.field || linkErr.Index != 1 {
				t.Fatalf("LinkError = %+v, want field %s index 1", linkErr, tc.field)
			}
			if h, ok := tc.get(b); !ok || h != 0xabc {
				t.Fatalf("link = (%s, %v), want (%s, true)", h, ok, Hash(0xabc))
			}
		})
	}
}

func TestSetLinkRejectsTamperedBlock(t *testing.T) {
	tests := []struct {
		name   string
		tamper func(*Block)
	}{
		{"data", func(b *Block) { b.data = "Mallory gave to Mallory" }},
		{"timestamp", func(b *Block) { b.timestamp = b.timestamp.Add(time.Second) }},
		{"index", func(b *Block) { b.index++ }},
		{"commitment", func(b *Block) { b.selfHash ^= 1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newBlock(1, "Alice gave to Bob", fixedTime, defaultDigest)
			tc.tamper(b)

			if err := b.SetNextHash(0x1); !errors.Is(err, ErrTampered) {
				t.Fatalf("SetNextHash() = %v, want ErrTampered", err)
			}
			if err := b.SetPreviousHash(0x1); !errors.Is(err, ErrTampered) {
				t.Fatalf("SetPreviousHash() = %v, want ErrTampered", err)
			}
			if _, ok := b.NextHash(); ok {
				t.Fatal("next_hash written on a tampered block")
			}
			if _, ok := b.PreviousHash(); ok {
				t.Fatal("previous_hash written on a tampered block")
			}
		})
	}
}

func TestTamperReportedBeforeAlreadySet(t *testing.T) {
	b := newBlock(1, "data", fixedTime, defaultDigest)
	if err := b.SetNextHash(0x1); err != nil {
		t.Fatalf("SetNextHash() = %v", err)
	}
	b.data = "changed"

	if err := b.SetNextHash(0x2); !errors.Is(err, ErrTampered) {
		t.Fatalf("SetNextHash() = %v, want ErrTampered", err)
	}
}

func TestEmptyBlockIsNotLinkable(t *testing.T) {
	b := emptyBlock()

	if !b.isPlaceholder() {
		t.Fatal("emptyBlock() is not a placeholder")
	}
	if b.Index() != 0 || b.Data() != "" {
		t.Fatalf("emptyBlock() = %s, want index 0 and empty data", b)
	}
	if err := b.CheckIntegrity(); !errors.Is(err, ErrTampered) {
		t.Fatalf("CheckIntegrity() = %v, want ErrTampered", err)
	}
	if err := b.SetNextHash(0x1); err == nil {
		t.Fatal("SetNextHash() on placeholder succeeded")
	}
}

func TestSameCommitmentNil(t *testing.T) {
	if NewBlock(0, "x").SameCommitment(nil) {
		t.Fatal("SameCommitment(nil) = true")
	}
}
