// Package ownership implements the ownership inference engine: it walks
// function bodies, records how every binding is used, decides whether each
// parameter is consumed, borrowed or mutably borrowed, and inserts
// duplication markers where a value would otherwise be used after a move.
//
// The pass is a best-effort heuristic. Every fallback degrades toward a
// safe-but-conservative result (extra borrow or duplication); it never
// silently produces an unsafe one.
package ownership

// Decision is the final parameter-passing mode of one binding.
type Decision uint8

const (
	// Owned consumes the value.
	Owned Decision = iota
	// Borrowed passes a read-only reference.
	Borrowed
	// MutBorrowed passes an exclusive-write reference.
	MutBorrowed
)

func (d Decision) String() string {
	switch d {
	case Owned:
		return "owned"
	case Borrowed:
		return "borrowed"
	case MutBorrowed:
		return "mut-borrowed"
	}
	return "unknown"
}
