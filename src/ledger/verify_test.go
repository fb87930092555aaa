package ledger

import (
	"errors"
	"testing"
)

func TestVerifyHealthyChain(t *testing.T) {
	l := newTestLedger(t)
	if errs := l.VerifyAll(); len(errs) != 0 {
		t.Fatalf("genesis-only VerifyAll() = %v", errs)
	}
	appendAll(t, l, "a", "b", "c")
	if errs := l.VerifyAll(); len(errs) != 0 {
		t.Fatalf("VerifyAll() = %v", errs)
	}
	if err := l.Verify(); err != nil {
		t.Fatalf("Verify() = %v", err)
	}
}

func TestVerifyDetectsProblems(t *testing.T) {
	tests := []struct {
		name      string
		corrupt   func(l *Ledger)
		wantIndex uint32
		wantErr   error
	}{
		{
			name:      "tampered tail data",
			corrupt:   func(l *Ledger) { l.tail[1].block.data = "forged" },
			wantIndex: 1,
			wantErr:   ErrTampered,
		},
		{
			name:      "tampered head timestamp",
			corrupt:   func(l *Ledger) { l.head.timestamp = l.head.timestamp.Add(1) },
			wantIndex: 3,
			wantErr:   ErrTampered,
		},
		{
			name:      "forward link rewritten",
			corrupt:   func(l *Ledger) { l.tail[0].block.nextHash.value ^= 1 },
			wantIndex: 0,
			wantErr:   ErrBrokenLink,
		},
		{
			name:      "backward link rewritten",
			corrupt:   func(l *Ledger) { l.tail[2].block.previousHash.value ^= 1 },
			wantIndex: 2,
			wantErr:   ErrBrokenLink,
		},
		{
			name:      "cached hash pointer rewritten",
			corrupt:   func(l *Ledger) { l.hashPointer.value ^= 1 },
			wantIndex: 3,
			wantErr:   ErrBrokenLink,
		},
		{
			name:      "head linked forward",
			corrupt:   func(l *Ledger) { l.head.nextHash = optionalHash{value: 1, set: true} },
			wantIndex: 3,
			wantErr:   ErrBrokenLink,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestLedger(t)
			appendAll(t, l, "a", "b", "c")
			tc.corrupt(l)

			errs := l.VerifyAll()
			if len(errs) == 0 {
				t.Fatal("VerifyAll() found nothing")
			}
			found := false
			for _, be := range errs {
				if be.Index == tc.wantIndex && errors.Is(be, tc.wantErr) {
					found = true
				}
			}
			if !found {
				t.Fatalf("VerifyAll() = %v, want %v on block %d", errs, tc.wantErr, tc.wantIndex)
			}

			err := l.Verify()
			var be BlockError
			if !errors.As(err, &be) {
				t.Fatalf("Verify() = %v, want a BlockError", err)
			}
		})
	}
}
