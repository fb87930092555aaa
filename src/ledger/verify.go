package ledger

import (
	"fmt"
)

// VerifyAll rechecks every block and every link in the chain.
// Returns a list of problems found (empty means healthy).
// Does not modify any state.
func (l *Ledger) VerifyAll() []BlockError {
	l.lock.RLock()
	defer l.lock.RUnlock()

	n := len(l.tail) + 1
	var errs []BlockError

	for i := 0; i < n; i++ {
		b := l.blockAt(i)

		if b.index != uint32(i) {
			errs = append(errs, BlockError{
				Index: b.index,
				Err:   fmt.Errorf("%w: index %d stored at position %d", ErrBrokenLink, b.index, i),
			})
		}

		if err := b.CheckIntegrity(); err != nil {
			errs = append(errs, BlockError{Index: b.index, Err: err})
		}

		if i == 0 {
			if h, ok := b.previousHash.get(); ok {
				errs = append(errs, BlockError{
					Index: b.index,
					Err:   fmt.Errorf("%w: genesis has previous_hash %s", ErrBrokenLink, h),
				})
			}
			if h, ok := l.pointerAt(i).get(); ok {
				errs = append(errs, BlockError{
					Index: b.index,
					Err:   fmt.Errorf("%w: genesis node has hash_pointer %s", ErrBrokenLink, h),
				})
			}
		} else {
			prev := l.blockAt(i - 1)
			if h, ok := b.previousHash.get(); !ok || h != prev.selfHash {
				errs = append(errs, BlockError{
					Index: b.index,
					Err:   fmt.Errorf("%w: previous_hash %s, predecessor commitment %s", ErrBrokenLink, b.previousHash, prev.selfHash),
				})
			}
			if h, ok := prev.nextHash.get(); !ok || h != b.selfHash {
				errs = append(errs, BlockError{
					Index: prev.index,
					Err:   fmt.Errorf("%w: next_hash %s, successor commitment %s", ErrBrokenLink, prev.nextHash, b.selfHash),
				})
			}
			if h, ok := l.pointerAt(i).get(); !ok || h != prev.selfHash {
				errs = append(errs, BlockError{
					Index: b.index,
					Err:   fmt.Errorf("%w: hash_pointer %s, predecessor commitment %s", ErrBrokenLink, l.pointerAt(i), prev.selfHash),
				})
			}
		}

		if i == n-1 {
			if h, ok := b.nextHash.get(); ok {
				errs = append(errs, BlockError{
					Index: b.index,
					Err:   fmt.Errorf("%w: head has next_hash %s", ErrBrokenLink, h),
				})
			}
		}
	}

	return errs
}

// Verify returns nil for an intact chain, otherwise the first problem found.
func (l *Ledger) Verify() error {
	errs := l.VerifyAll()
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("chain invalid (%d problem(s)): %w", len(errs), errs[0])
}
