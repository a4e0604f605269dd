package readerengine

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"gitlab.com/readerload.net/internal/adapter/logging"
	"gitlab.com/readerload.net/internal/config"
	"gitlab.com/readerload.net/internal/core/services/reader"
	"gitlab.com/readerload.net/internal/domain"
	"gitlab.com/readerload.net/internal/tcp/connectionmanager"
	"gitlab.com/readerload.net/internal/tcp/tcptest"
)

type countingReporter struct {
	mu         sync.Mutex
	factorials map[int]int
}

func (r *countingReporter) Received(int, string) {}

func (r *countingReporter) Factorial(readerID int, _ int64, _ *big.Int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factorials[readerID]++
}

func (r *countingReporter) count(readerID int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.factorials[readerID]
}

func newEngine(t *testing.T, cfg *config.ReaderCfg) (*ReaderEngine, *countingReporter) {
	t.Helper()
	logger := logging.NewNopLogger()
	connMgr := connectionmanager.NewConnectionManager(logger)
	reporter := &countingReporter{factorials: make(map[int]int)}
	svc := reader.NewReaderService(cfg, connMgr, nil, reporter, logger)
	return NewReaderEngine(svc, connMgr, logger), reporter
}

func testCfg() *config.ReaderCfg {
	cfg := config.DefaultReaderCfg()
	cfg.PaceInterval = 20 * time.Millisecond
	cfg.DialTimeout = time.Second
	return cfg
}

func TestEngineRunUntilCancelled(t *testing.T) {
	srv := tcptest.NewServer(t, tcptest.Reply("VALUE 5"))
	descs := domain.NewReaderDescriptors(srv.Host(), srv.Port(), 5)
	engine, reporter := newEngine(t, testCfg())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx, descs) }()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		all := true
		for _, d := range descs {
			if reporter.count(d.ID) == 0 {
				all = false
			}
		}
		if all {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	statuses := engine.Readers()
	if len(statuses) != 5 {
		t.Fatalf("expected 5 readers, got %d", len(statuses))
	}
	for _, s := range statuses {
		if s.Factorials == 0 {
			t.Errorf("reader %d has no factorials: %+v", s.ID, s)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("engine did not stop after cancellation")
	}
}

func TestEngineShutdownWithBlockedReaders(t *testing.T) {
	srv := tcptest.NewServer(t, tcptest.Reply("VALUE 1"), tcptest.WithSilence())
	descs := domain.NewReaderDescriptors(srv.Host(), srv.Port(), 8)
	cfg := testCfg()
	cfg.IOTimeout = 0
	engine, _ := newEngine(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	if err := engine.StartReaders(ctx, descs); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for len(srv.Requests()) < len(descs) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	waited := make(chan struct{})
	go func() {
		engine.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("blocked readers were not released promptly")
	}

	for _, s := range engine.Readers() {
		if s.State != domain.ReaderStateStopped || s.Connected {
			t.Errorf("reader %d: %+v", s.ID, s)
		}
	}
}

func TestEngineStartTwice(t *testing.T) {
	engine, _ := newEngine(t, testCfg())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := engine.StartReaders(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if err := engine.StartReaders(ctx, nil); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("got %v, want ErrAlreadyStarted", err)
	}
	if engine.RunID().String() == "" {
		t.Error("run id should be set")
	}
}

func TestEngineReaderLookup(t *testing.T) {
	engine, _ := newEngine(t, testCfg())
	ctx, cancel := context.WithCancel(context.Background())

	descs := domain.NewReaderDescriptors("127.0.0.1", 1, 2)
	if err := engine.StartReaders(ctx, descs); err != nil {
		t.Fatal(err)
	}
	cancel()
	engine.Wait()

	if _, ok := engine.Reader(2); !ok {
		t.Error("reader 2 should exist")
	}
	if _, ok := engine.Reader(3); ok {
		t.Error("reader 3 should not exist")
	}
}
