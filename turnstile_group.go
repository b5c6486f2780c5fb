package fairx

import (
	"sync/atomic"

	"github.com/llxisdsh/pb"
)

// TurnstileGroup allows fair, FIFO locking on arbitrary keys (string, int,
// struct, etc.). It dynamically manages a set of turnstiles associated with
// values.
//
// Features:
//   - Infinite Keys: No need to pre-allocate locks.
//   - Auto-Cleanup: A key's turnstile is removed from memory once it is
//     unlocked and no one else is waiting on it.
//   - Fairness: Each key admits its lockers strictly in arrival order.
//
// Usage:
//
//	var group TurnstileGroup[string]
//	group.Lock("user-123")
//	// Critical section for user-123
//	group.Unlock("user-123")
//
// Implementation Note:
// Entries are reference counted so they can be deleted safely; all entry
// bookkeeping runs inside pb.MapOf's atomic ProcessEntry callbacks.
type TurnstileGroup[K comparable] struct {
	_ noCopy
	m pb.MapOf[K, *turnstileEntry]
}

type turnstileEntry struct {
	next atomic.Uint64
	gate Turnstile
	ref  int32
}

// Lock draws a ticket for k and blocks until it is admitted.
// Admission order per key is the order Lock was called.
func (g *TurnstileGroup[K]) Lock(k K) {
	var e *turnstileEntry
	g.m.ProcessEntry(k,
		func(l *pb.EntryOf[K, *turnstileEntry]) (*pb.EntryOf[K, *turnstileEntry], *turnstileEntry, bool) {
			if l != nil {
				e = l.Value
				e.ref++
				return l, e, true
			}
			e = &turnstileEntry{ref: 1}
			return &pb.EntryOf[K, *turnstileEntry]{Value: e}, e, false
		},
	)
	e.gate.AwaitTurn(e.next.Add(1) - 1)
}

// Unlock releases k's turnstile, admitting its next waiter, and drops the
// entry once nobody holds or awaits it. Unlocking a key that was never
// locked is a no-op.
func (g *TurnstileGroup[K]) Unlock(k K) {
	v, ok := g.m.Load(k)
	if !ok {
		return
	}
	v.gate.Advance()

	g.m.ProcessEntry(k,
		func(l *pb.EntryOf[K, *turnstileEntry]) (*pb.EntryOf[K, *turnstileEntry], *turnstileEntry, bool) {
			if l == nil {
				return nil, nil, false
			}
			l.Value.ref--
			if l.Value.ref <= 0 {
				return nil, nil, true
			}
			return l, l.Value, true
		},
	)
}
