package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (p *countingPurger) Purge(now time.Time) (int, error) {
	p.calls.Add(1)
	return 2, p.err
}

type panickyPurger struct{}

func (panickyPurger) Purge(time.Time) (int, error) { panic("boom") }

func TestRunPurge_LogsOutcome(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	s := New()
	s.runPurge("revocations", &countingPurger{})
	s.runPurge("resets", &countingPurger{err: errors.New("db down")})
	s.runPurge("panics", panickyPurger{})

	if n := logs.FilterMessage("purged expired entries").Len(); n != 1 {
		t.Fatalf("expected one success log, got %d", n)
	}
	if n := logs.FilterMessage("purge failed").Len(); n != 1 {
		t.Fatalf("expected one failure log, got %d", n)
	}
	if n := logs.FilterMessage("boom").Len(); n != 1 {
		t.Fatalf("expected recovered panic to be logged, got %d", n)
	}
}

func TestAddPurge_RejectsBadSpec(t *testing.T) {
	if err := New().AddPurge("bad", "every now and then", &countingPurger{}); err == nil {
		t.Fatalf("expected invalid spec to be rejected")
	}
}

func TestRun_ExecutesAndStops(t *testing.T) {
	s := New()
	p := &countingPurger{}
	if err := s.AddPurge("fast", "@every 1s", p); err != nil {
		t.Fatalf("add purge failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("run returned %v", err)
	}
	if p.calls.Load() == 0 {
		t.Fatalf("expected the purge to run at least once")
	}
}
