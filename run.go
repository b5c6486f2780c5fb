package fairx

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"
)

// Config describes one contention run.
type Config struct {
	// Workers is the number of worker goroutines to spawn. Their ids are
	// 1..Workers.
	Workers int

	// Admissions is the total number of critical-section entries across the
	// whole run. The budget is shared: how the entries distribute over the
	// workers is up to the scheduler.
	Admissions int

	// MaxDelay bounds the random pause a worker takes before queueing up and
	// again after leaving the critical section, to model real contention.
	// Zero disables the pauses. Purely a demo knob; ordering does not depend
	// on it.
	MaxDelay time.Duration
}

func (cfg Config) validate() error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("fairx: worker count must be positive, got %d", cfg.Workers)
	}
	if cfg.Admissions <= 0 {
		return fmt.Errorf("fairx: admission count must be positive, got %d", cfg.Admissions)
	}
	if cfg.MaxDelay < 0 {
		return fmt.Errorf("fairx: max delay must not be negative, got %v", cfg.MaxDelay)
	}
	return nil
}

// Run spawns cfg.Workers workers that contend for a shared, ticket-ordered
// critical section until the shared admission budget is spent, then joins
// them all.
//
// Each admission writes one line of the form
//
//	<ticket>\t(<worker_id>)
//
// to out. The gate mutex is held across the write, so the lines land in
// strictly increasing ticket order (0..cfg.Admissions-1) with no interleaving,
// whatever the scheduler does.
//
// All synchronization state is created here and dies here; concurrent Run
// calls are independent. Run returns after every worker has finished. A
// worker that fails to write aborts with an error (after releasing its
// turn, so the others still drain the budget) and Run reports the first
// such error.
func Run(cfg Config, out io.Writer) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	counter := &TicketCounter{}
	gate := NewTurnstile()

	var g errgroup.Group
	for id := 1; id <= cfg.Workers; id++ {
		g.Go(func() error {
			return runWorker(id, cfg, counter, gate, out)
		})
	}
	return g.Wait()
}

// runWorker repeatedly draws a ticket, waits its turn, emits the admission
// line, and passes the turn on. It exits when its ticket falls outside the
// shared budget; a ticket drawn past the budget is never waited on.
func runWorker(id int, cfg Config, counter *TicketCounter, gate *Turnstile, out io.Writer) error {
	budget := uint64(cfg.Admissions)
	for {
		ticket := counter.Next()
		if ticket >= budget {
			return nil
		}

		pause(cfg.MaxDelay)

		gate.AwaitTurn(ticket)
		_, err := fmt.Fprintf(out, "%d\t(%d)\n", ticket, id)
		gate.Advance()
		if err != nil {
			return fmt.Errorf("fairx: worker %d: emit ticket %d: %w", id, ticket, err)
		}

		pause(cfg.MaxDelay)
	}
}

func pause(max time.Duration) {
	if max <= 0 {
		return
	}
	time.Sleep(rand.N(max))
}
