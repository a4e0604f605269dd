package exchangeport

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"gitlab.com/readerload.net/internal/adapter/logging"
	"gitlab.com/readerload.net/internal/domain"
)

func newRepository(t *testing.T) (*ExchangeRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewExchangeRepository(client, logging.NewNopLogger()), mr
}

func exchangeFor(readerID int, value int64, factorial string) *domain.Exchange {
	desc := domain.ReaderDescriptor{ID: readerID, Host: "127.0.0.1", Port: 9000}
	e := domain.NewExchange(desc, 2, "READ 2", time.Now())
	e.Response = "VALUE 4"
	e.Value = &value
	if factorial != "" {
		e.Factorial = &factorial
	}
	e.Duration = 3 * time.Millisecond
	return e
}

func TestRecordExchange(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	if err := repo.RecordExchange(ctx, exchangeFor(1, 4, "24")); err != nil {
		t.Fatalf("RecordExchange: %v", err)
	}
	if err := repo.RecordExchange(ctx, exchangeFor(1, 4, "")); err != nil {
		t.Fatalf("RecordExchange: %v", err)
	}
	last := exchangeFor(2, 4, "24")
	if err := repo.RecordExchange(ctx, last); err != nil {
		t.Fatalf("RecordExchange: %v", err)
	}

	recent, err := repo.GetRecentExchanges(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecentExchanges: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 exchanges, got %d", len(recent))
	}
	if recent[0].ID != last.ID {
		t.Error("newest exchange should come first")
	}
	if recent[0].Factorial == nil || *recent[0].Factorial != "24" {
		t.Errorf("factorial not preserved: %+v", recent[0])
	}

	exchanges, factorials, err := repo.GetReaderStats(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if exchanges != 2 || factorials != 1 {
		t.Errorf("reader 1 stats = (%d, %d), want (2, 1)", exchanges, factorials)
	}

	exchanges, factorials, err = repo.GetReaderStats(ctx, 42)
	if err != nil {
		t.Fatal(err)
	}
	if exchanges != 0 || factorials != 0 {
		t.Errorf("unknown reader stats = (%d, %d)", exchanges, factorials)
	}
}

func TestRecordExchangeHistoryCapped(t *testing.T) {
	repo, mr := newRepository(t)
	ctx := context.Background()

	for i := 0; i < maxHistory+25; i++ {
		if err := repo.RecordExchange(ctx, exchangeFor(1, 1, "1")); err != nil {
			t.Fatal(err)
		}
	}

	items, err := mr.List(exchangeListKey)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != maxHistory {
		t.Errorf("history length = %d, want %d", len(items), maxHistory)
	}
}

func TestRecordExchangeRedisDown(t *testing.T) {
	repo, mr := newRepository(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := repo.RecordExchange(ctx, exchangeFor(1, 1, "1")); err == nil {
		t.Error("expected an error when redis is unavailable")
	}
}
