package fairx

import (
	"sync"
)

// Turnstile is an admission gate that lets waiters through one at a time,
// strictly in ticket order.
//
// A waiter calls AwaitTurn with a ticket (normally drawn from a
// TicketCounter) and is parked by the runtime until the turnstile's turn
// counter reaches that ticket. No waiter ever spins. On admission, AwaitTurn
// returns with the gate mutex held: the caller's critical section runs under
// it, which serializes entrants by construction and makes anything emitted
// inside the section appear in exact ticket order. The admitted caller must
// finish with exactly one call to Advance, which bumps the turn, wakes the
// waiters, and releases the mutex.
//
// Wakeup strategy: Advance broadcasts to all waiters rather than signaling
// one. Only the waiter whose ticket now matches can proceed; the rest
// re-check and park again. Broadcast avoids the relay dance a single signal
// would need when it lands on a waiter whose turn has not come.
//
// Calling Advance without a matching prior AwaitTurn, or from a goroutine
// that was not admitted, is out of contract and leaves the turnstile in an
// undefined state.
//
// It is zero-value usable.
type Turnstile struct {
	_    noCopy
	mu   sync.Mutex
	cond sync.Cond
	turn uint64
}

// NewTurnstile returns a new turnstile with the turn counter at 0.
// The zero value is equally usable.
func NewTurnstile() *Turnstile {
	return &Turnstile{}
}

// AwaitTurn blocks the caller until the turnstile's turn equals ticket,
// then returns holding the gate mutex. The caller is now inside the critical
// section and must call Advance exactly once to leave it.
func (t *Turnstile) AwaitTurn(ticket uint64) {
	t.mu.Lock()
	if t.cond.L == nil {
		// Bound lazily, under mu, so the zero value works.
		t.cond.L = &t.mu
	}
	for t.turn != ticket {
		t.cond.Wait()
	}
}

// Advance ends the caller's admission: it increments the turn counter,
// wakes all waiters so the next ticket holder can proceed, and releases the
// gate mutex. Only the goroutine currently admitted by AwaitTurn may call it.
func (t *Turnstile) Advance() {
	t.turn++
	t.cond.Broadcast()
	t.mu.Unlock()
}

// Turn returns the ticket number currently permitted to enter.
// It is monotonically non-decreasing.
func (t *Turnstile) Turn() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.turn
}
