package fairx

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

type admission struct {
	ticket uint64
	worker int
}

func parseAdmissions(t *testing.T, out string) []admission {
	t.Helper()
	if out == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	admissions := make([]admission, 0, len(lines))
	for _, line := range lines {
		var a admission
		if _, err := fmt.Sscanf(line, "%d\t(%d)", &a.ticket, &a.worker); err != nil {
			t.Fatalf("malformed line %q: %v", line, err)
		}
		admissions = append(admissions, a)
	}
	return admissions
}

func checkAdmissions(t *testing.T, out string, workers, admissions int) {
	t.Helper()
	got := parseAdmissions(t, out)
	if len(got) != admissions {
		t.Fatalf("emitted %d lines, want %d", len(got), admissions)
	}
	for i, a := range got {
		if a.ticket != uint64(i) {
			t.Errorf("line %d has ticket %d, want %d", i, a.ticket, i)
		}
		if a.worker < 1 || a.worker > workers {
			t.Errorf("line %d has worker id %d, want within [1, %d]", i, a.worker, workers)
		}
	}
}

func TestRunOrdered(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Workers: 3, Admissions: 5}
	if err := Run(cfg, &buf); err != nil {
		t.Fatalf("Run: %v", err)
	}
	checkAdmissions(t, buf.String(), cfg.Workers, cfg.Admissions)
}

func TestRunManyWorkers(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Workers: 16, Admissions: 200, MaxDelay: time.Millisecond}
	if err := Run(cfg, &buf); err != nil {
		t.Fatalf("Run: %v", err)
	}
	checkAdmissions(t, buf.String(), cfg.Workers, cfg.Admissions)
}

func TestRunSingleWorker(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Workers: 1, Admissions: 20}
	if err := Run(cfg, &buf); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, a := range parseAdmissions(t, buf.String()) {
		if a.worker != 1 {
			t.Fatalf("single-worker run emitted worker id %d", a.worker)
		}
	}
}

func TestRunMoreWorkersThanAdmissions(t *testing.T) {
	// Most workers draw an over-budget ticket immediately and must exit
	// without waiting on the gate.
	var buf bytes.Buffer
	cfg := Config{Workers: 8, Admissions: 2}
	if err := Run(cfg, &buf); err != nil {
		t.Fatalf("Run: %v", err)
	}
	checkAdmissions(t, buf.String(), cfg.Workers, cfg.Admissions)
}

func TestRunInvalidConfig(t *testing.T) {
	for _, cfg := range []Config{
		{Workers: 0, Admissions: 5},
		{Workers: 3, Admissions: 0},
		{Workers: -1, Admissions: 5},
		{Workers: 3, Admissions: -2},
		{Workers: 3, Admissions: 5, MaxDelay: -time.Second},
	} {
		var buf bytes.Buffer
		if err := Run(cfg, &buf); err == nil {
			t.Errorf("Run(%+v) succeeded, want error", cfg)
		}
		if buf.Len() != 0 {
			t.Errorf("Run(%+v) produced output despite invalid config", cfg)
		}
	}
}

func TestRunIndependentRuns(t *testing.T) {
	// Runs share no state; two of them in flight at once must each satisfy
	// the ordering contract on their own output.
	var wg sync.WaitGroup
	bufs := make([]bytes.Buffer, 2)
	wg.Add(len(bufs))
	for i := range bufs {
		go func() {
			defer wg.Done()
			if err := Run(Config{Workers: 4, Admissions: 50}, &bufs[i]); err != nil {
				t.Errorf("Run %d: %v", i, err)
			}
		}()
	}
	wg.Wait()
	for i := range bufs {
		checkAdmissions(t, bufs[i].String(), 4, 50)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("sink closed")
}

func TestRunWriteErrorDoesNotDeadlock(t *testing.T) {
	// A worker whose emit fails must still advance the turn so the rest of
	// the budget drains, and Run must surface the failure.
	done := make(chan error, 1)
	go func() {
		done <- Run(Config{Workers: 4, Admissions: 100}, failingWriter{})
	}()
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("Run succeeded despite failing writer")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run deadlocked on a failing writer")
	}
}
