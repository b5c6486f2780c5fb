package fairx

// FairSemaphore is a counting semaphore that guarantees FIFO
// (First-In-First-Out) order.
//
// Standard semaphores (like golang.org/x/sync/semaphore) generally optimize
// for throughput and may allow barging (new waiters stealing permits), which
// can lead to starvation or unfairness in specific workloads.
//
// FairSemaphore ensures that permits are strictly assigned to waiters in the
// order of arrival.
//
// Implementation:
// It uses a linked list of waiters guarded by a TicketLock, so even the
// internal lock acquisition is fair. Each waiter parks on its own channel;
// Release closes the channel when the waiter's permits become available,
// which wakes exactly that waiter.
type FairSemaphore struct {
	_       noCopy
	mu      TicketLock
	permits int64
	head    *fairWaiter
	tail    *fairWaiter
}

type fairWaiter struct {
	next  *fairWaiter
	n     int64
	ready chan struct{}
}

// NewFairSemaphore creates a semaphore holding the given number of permits.
func NewFairSemaphore(permits int64) *FairSemaphore {
	return &FairSemaphore{permits: permits}
}

// Acquire takes n permits, blocking until they are available and every
// earlier waiter has been served. n <= 0 is a no-op.
func (s *FairSemaphore) Acquire(n int64) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	if s.head == nil && s.permits >= n {
		s.permits -= n
		s.mu.Unlock()
		return
	}
	w := &fairWaiter{n: n, ready: make(chan struct{})}
	if s.tail == nil {
		s.head = w
		s.tail = w
	} else {
		s.tail.next = w
		s.tail = w
	}
	s.mu.Unlock()
	<-w.ready
}

// TryAcquire attempts to take n permits without blocking.
// It fails if permits are short or if any waiter is already queued
// (succeeding then would barge past the queue).
func (s *FairSemaphore) TryAcquire(n int64) bool {
	if n <= 0 {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.head != nil || s.permits < n {
		return false
	}
	s.permits -= n
	return true
}

// Release returns n permits and serves queued waiters in arrival order for
// as long as the permits last. n <= 0 is a no-op.
func (s *FairSemaphore) Release(n int64) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	s.permits += n
	for s.head != nil && s.permits >= s.head.n {
		w := s.head
		s.permits -= w.n
		s.head = w.next
		if s.head == nil {
			s.tail = nil
		}
		close(w.ready)
	}
	s.mu.Unlock()
}
