package fairx

import (
	"sync/atomic"
)

// TicketCounter issues globally unique, strictly increasing ticket numbers
// starting at 0.
//
// Each call to Next hands out the next number in line, exactly once, under
// arbitrary concurrent callers. The counter itself never blocks and imposes
// no upper bound; whoever consumes the tickets decides when to stop asking.
//
// It is zero-value usable. Size: 8 bytes.
type TicketCounter struct {
	_    noCopy
	next atomic.Uint64
}

// Next returns the current issuance value and increments it, as a single
// atomic fetch-and-add. The returned tickets form a contiguous,
// duplicate-free range across all callers regardless of interleaving.
func (c *TicketCounter) Next() uint64 {
	return c.next.Add(1) - 1
}

// Issued returns how many tickets have been handed out so far.
func (c *TicketCounter) Issued() uint64 {
	return c.next.Load()
}
