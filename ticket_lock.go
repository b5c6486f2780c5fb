package fairx

import (
	"sync/atomic"
)

// TicketLock is a fair, FIFO (First-In-First-Out) mutual-exclusion lock.
//
// Unlike sync.Mutex, which allows "barging" (newcomers can steal the lock),
// TicketLock guarantees that goroutines acquire the lock in the exact order
// they called Lock().
//
// Implementation:
// It uses the classic "ticket" algorithm split over this package's two
// building blocks.
//   - Lock(): Draws a ticket number and waits at a Turnstile until the
//     turnstile's turn reaches it. Waiters are parked on a condition
//     variable, not spun, so a long critical section costs the waiters no
//     CPU.
//   - Unlock(): Advances the turnstile, admitting the next ticket holder.
//
// Trade-offs:
//   - Pros: Strict fairness, preventing starvation. Ideal where tail latency
//     matters more than raw throughput.
//   - Cons: Every handoff goes through the turnstile's condition variable,
//     so an uncontended acquire is heavier than a spinning ticket lock or
//     sync.Mutex. Prefer it when fairness is a requirement, not a nicety.
//
// It is zero-value usable.
type TicketLock struct {
	_    noCopy
	next atomic.Uint64
	gate Turnstile
}

// Lock acquires the lock. Blocks until every earlier caller has released it.
func (m *TicketLock) Lock() {
	m.gate.AwaitTurn(m.next.Add(1) - 1)
}

// Unlock releases the lock, handing it to the next waiter in line.
// It must be called exactly once per Lock, by the goroutine that holds it.
func (m *TicketLock) Unlock() {
	m.gate.Advance()
}
